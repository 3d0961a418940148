package qa

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestSummary(t *testing.T) {
	s := NewSet(0)
	s.Add(New("a", "", SevCritical, 2))
	s.Add(New("b", "", SevWarning, 3))
	s.Add(New("c", "", SevWarning, 1))
	s.Add(New("a", "", SevInfo, 1))

	got := s.Summary()
	want := Summary{
		Groups:      3,
		Occurrences: 7,
		Max:         SevCritical,
		BySeverity: []SeverityCount{
			{Severity: SevCritical, Groups: 1, Occurrences: 3},
			{Severity: SevImportant},
			{Severity: SevWarning, Groups: 2, Occurrences: 4},
			{Severity: SevInfo},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Summary() =\n%#v\nwant\n%#v", got, want)
	}
	if got.Count(SevWarning).Occurrences != 4 {
		t.Fatalf("Count(WARNING) = %+v", got.Count(SevWarning))
	}
	if line := got.String(); line != "3 warnings (7 occurrences): 1 critical, 2 warning" {
		t.Fatalf("String() = %q", line)
	}
}

func TestSummaryEmpty(t *testing.T) {
	got := NewSet(0).Summary()
	if got.Groups != 0 || got.Occurrences != 0 || got.Max != SevInfo {
		t.Fatalf("empty summary = %+v", got)
	}
	if got.String() != "0 warnings (0 occurrences)" {
		t.Fatalf("String() = %q", got.String())
	}
}

func TestSummaryJSONUsesSeverityNames(t *testing.T) {
	s := NewSet(0)
	s.Add(New("a", "", SevImportant, 1))
	data, err := json.Marshal(s.Summary())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if raw["max_severity"] != "IMPORTANT" {
		t.Fatalf("max_severity = %v", raw["max_severity"])
	}
}
