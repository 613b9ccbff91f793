package enum

import "fmt"

// ItemKind discriminates the two kinds of sellable items
type ItemKind string

const (
	ItemKindProduct ItemKind = "product"
	ItemKindService ItemKind = "service"
)

func (k ItemKind) String() string {
	return string(k)
}

// Validate reports whether k is a known item kind
func (k ItemKind) Validate() error {
	switch k {
	case ItemKindProduct, ItemKindService:
		return nil
	default:
		return fmt.Errorf("unknown item kind %q", string(k))
	}
}
