package qa

import "testing"

func TestReportBuilderEmitsOnce(t *testing.T) {
	s := NewSet(0)
	r := &SetReporter{Set: s}

	b := ReportCritical(r, "bad-property").
		WithBucket("P31").
		WithCount(2).
		WithProperty("label", "instance of")
	b.Emit()
	b.Emit()

	w, ok := s.Get("bad-property_P31")
	if !ok {
		t.Fatal("warning not reported")
	}
	if w.Count() != 2 || w.Severity() != SevCritical {
		t.Fatalf("got %v", w)
	}
	if v, _ := w.Property("label"); v != "instance of" {
		t.Fatalf("label = %v", v)
	}
}

func TestReportShortcuts(t *testing.T) {
	tests := []struct {
		name string
		fn   func(Reporter, string) *ReportBuilder
		want Severity
	}{
		{name: "info", fn: ReportInfo, want: SevInfo},
		{name: "warning", fn: ReportWarning, want: SevWarning},
		{name: "important", fn: ReportImportant, want: SevImportant},
		{name: "critical", fn: ReportCritical, want: SevCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(NopReporter{}, "t").Warning().Severity(); got != tt.want {
				t.Fatalf("severity = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSetReporterCountsDropped(t *testing.T) {
	r := &SetReporter{Set: NewSet(1)}
	ReportInfo(r, "a").Emit()
	ReportInfo(r, "b").Emit()
	ReportInfo(r, "a").Emit()
	if r.Dropped != 1 {
		t.Fatalf("Dropped = %d, want 1", r.Dropped)
	}
	if w, _ := r.Set.Get("a"); w.Count() != 2 {
		t.Fatalf("a count = %d, want 2", w.Count())
	}
}

func TestMultiReporterFansOut(t *testing.T) {
	a := &SetReporter{Set: NewSet(0)}
	b := &SetReporter{Set: NewSet(0)}
	m := MultiReporter{a, nil, b}
	ReportWarning(m, "missing-ref").Emit()
	if a.Set.Len() != 1 || b.Set.Len() != 1 {
		t.Fatalf("fan-out lengths: %d, %d", a.Set.Len(), b.Set.Len())
	}
}

func TestNilBuilderIsSafe(t *testing.T) {
	var b *ReportBuilder
	b.WithBucket("x").WithCount(2).WithProperty("k", "v").Emit()
}
