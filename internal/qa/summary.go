package qa

import (
	"fmt"
	"strings"
)

// SeverityCount holds totals for one severity.
type SeverityCount struct {
	Severity    Severity `json:"severity"`
	Groups      int      `json:"groups"`
	Occurrences int      `json:"occurrences"`
}

// Summary holds deterministic totals for a set.
type Summary struct {
	Groups      int             `json:"groups"`
	Occurrences int             `json:"occurrences"`
	Max         Severity        `json:"max_severity"`
	BySeverity  []SeverityCount `json:"by_severity"`
}

// Summary counts groups and occurrences per severity, most severe first.
// Max is SevInfo for an empty set.
func (s *Set) Summary() Summary {
	counts := make([]SeverityCount, len(Severities))
	for i, sev := range Severities {
		counts[len(Severities)-1-i].Severity = sev
	}
	sum := Summary{BySeverity: counts}
	for _, w := range s.items {
		sum.Groups++
		sum.Occurrences += w.count
		sum.Max = MaxSeverity(sum.Max, w.severity)
		c := &counts[int(SevCritical-w.severity)]
		c.Groups++
		c.Occurrences += w.count
	}
	return sum
}

// Count returns the totals for one severity.
func (s Summary) Count(sev Severity) SeverityCount {
	for _, c := range s.BySeverity {
		if c.Severity == sev {
			return c
		}
	}
	return SeverityCount{Severity: sev}
}

// String renders a one-line summary, e.g.
// "3 warnings (7 occurrences): 1 critical, 2 warning".
func (s Summary) String() string {
	var b strings.Builder
	noun := "warnings"
	if s.Groups == 1 {
		noun = "warning"
	}
	fmt.Fprintf(&b, "%d %s (%d occurrences)", s.Groups, noun, s.Occurrences)
	sep := ": "
	for _, c := range s.BySeverity {
		if c.Groups == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s%d %s", sep, c.Groups, strings.ToLower(c.Severity.String()))
		sep = ", "
	}
	return b.String()
}
