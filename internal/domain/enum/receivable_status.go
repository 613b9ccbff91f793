package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ReceivableStatus represents the collection state of an account receivable
type ReceivableStatus int

const (
	ReceivablePending ReceivableStatus = 0
	ReceivablePaid    ReceivableStatus = 1
)

func (s ReceivableStatus) String() string {
	return [...]string{"Pending", "Paid"}[s]
}

func (s ReceivableStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ReceivableStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ReceivableStatus(i)
		return nil
	}
	switch str {
	case "Pending":
		*s = ReceivablePending
	case "Paid":
		*s = ReceivablePaid
	}
	return nil
}

func (s ReceivableStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ReceivableStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ReceivablePending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ReceivableStatus(v)
	case int:
		*s = ReceivableStatus(v)
	}
	return nil
}

// ParseReceivableStatus accepts the name or the numeric value used in query strings
func ParseReceivableStatus(s string) (ReceivableStatus, bool) {
	switch s {
	case "Pending", "pending", "0":
		return ReceivablePending, true
	case "Paid", "paid", "1":
		return ReceivablePaid, true
	}
	return 0, false
}
