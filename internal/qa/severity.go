package qa

import (
	"fmt"
	"strings"
)

// Severity defines how serious a warning is. Higher values are more severe.
type Severity uint8

const (
	// SevInfo reports something that is probably fine.
	SevInfo Severity = iota
	// SevWarning is for edits that look wrong but are sometimes fine.
	SevWarning
	// SevImportant is almost surely wrong, though rare cases may be allowed.
	SevImportant
	// SevCritical must never be ignored.
	SevCritical
)

// Severities lists every severity from least to most severe.
var Severities = []Severity{SevInfo, SevWarning, SevImportant, SevCritical}

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevImportant:
		return "IMPORTANT"
	case SevCritical:
		return "CRITICAL"
	}
	return "UNKNOWN"
}

// Valid reports whether s is one of the declared severities.
func (s Severity) Valid() bool {
	return s <= SevCritical
}

// ParseSeverity parses a symbolic severity name case-insensitively.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "INFO":
		return SevInfo, nil
	case "WARNING":
		return SevWarning, nil
	case "IMPORTANT":
		return SevImportant, nil
	case "CRITICAL":
		return SevCritical, nil
	default:
		return SevInfo, fmt.Errorf("invalid severity: %q (expected INFO|WARNING|IMPORTANT|CRITICAL)", name)
	}
}

// MaxSeverity returns the more severe of a and b.
func MaxSeverity(a, b Severity) Severity {
	if a < b {
		return b
	}
	return a
}

// MarshalText encodes the severity by name so the wire form survives reordering.
func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid severity: %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a symbolic severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
