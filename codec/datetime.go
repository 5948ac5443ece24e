// Package codec converts scalar wire values between their SDMX-ML lexical
// form and Go types.
package codec

import (
	"fmt"
	"time"
)

// datetimeLayouts lists the lexical shapes accepted for header timestamps
// (mes:Prepared, mes:Extracted). Some providers emit sub-microsecond
// fractions or omit the zone offset; all are accepted.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDateTime parses an ISO 8601 timestamp as used in message headers.
func ParseDateTime(s string) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("codec: invalid datetime %q", s)
}

// FormatDateTime renders t in the canonical wire form. Zero times format
// as an empty string so optional header fields can be omitted.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
