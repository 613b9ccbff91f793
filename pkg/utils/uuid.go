package utils

import (
	"strings"

	"github.com/google/uuid"
)

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// SaleNumber derives the printable sale number from the sale id
func SaleNumber(id uuid.UUID) string {
	return "VND-" + strings.ToUpper(id.String()[:8])
}

// ShortID is the first block of an id, used in log lines and receipts
func ShortID(id uuid.UUID) string {
	return id.String()[:8]
}
