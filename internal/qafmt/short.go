package qafmt

import (
	"fmt"
	"io"
	"strings"

	"qawarn/internal/qa"
)

// FormatShort renders one stable line per group, suitable for golden files:
//
//	critical bad-property_P31 x5
//
// Groups keep set order and no trailing newline is added.
func FormatShort(set *qa.Set) string {
	var b strings.Builder
	for i, w := range set.Items() {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s x%d", strings.ToLower(w.Severity().String()), sanitize(w.AggregationID()), w.Count())
	}
	return b.String()
}

// Short writes FormatShort output followed by a newline when non-empty.
func Short(w io.Writer, set *qa.Set) error {
	s := FormatShort(set)
	if s == "" {
		return nil
	}
	_, err := io.WriteString(w, s+"\n")
	return err
}
