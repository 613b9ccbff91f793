package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var errInvalidAmount = errors.New("invalid amount")

// ParseAmount reads a money value sent either as a JSON number or as a
// string. Strings may use the Brazilian format ("R$ 1.234,56").
// A missing or null value yields nil. More than two decimal places is an error.
func ParseAmount(raw json.RawMessage) (*decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, errInvalidAmount
		}
		text = normalizeAmount(text)
	} else {
		text = string(raw)
	}

	if text == "" {
		return nil, errInvalidAmount
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return nil, errInvalidAmount
	}
	// money is stored with two decimal places
	if !d.Round(2).Equal(d) {
		return nil, errInvalidAmount
	}
	return &d, nil
}

func normalizeAmount(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	return s
}
