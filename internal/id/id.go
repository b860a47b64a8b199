package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Namespace is the UUIDv5 namespace for statement identifiers.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://cleared.dev/plsense/statement"))

// FormatPeriodKey returns a period key like "2025-01".
func FormatPeriodKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParsePeriodKey parses "2025-01" into year and month.
func ParsePeriodKey(key string) (year, month int, err error) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("invalid period key format: %q", key)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in period key %q: %w", key, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month in period key %q: %w", key, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month out of range in period key %q", key)
	}

	return year, month, nil
}

// ValidPeriodKey reports whether key parses as a period key.
func ValidPeriodKey(key string) bool {
	_, _, err := ParsePeriodKey(key)
	return err == nil
}

// StatementID derives a deterministic identifier from a statement's content.
// The same bytes always produce the same ID.
func StatementID(content []byte) string {
	return uuid.NewSHA1(Namespace, content).String()
}
