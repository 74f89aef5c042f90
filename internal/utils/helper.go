package utils

import "time"

func StrPtr(s string) *string {
	return &s
}

// FormatTimePtr renders an optional timestamp as RFC 3339, or nil.
func FormatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
