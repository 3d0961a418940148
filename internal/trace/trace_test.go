package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLevelFiltersScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		kind  Kind
		want  bool
	}{
		{LevelOff, ScopeRun, KindError, false},
		{LevelError, ScopeRun, KindSpanBegin, false},
		{LevelError, ScopeGroup, KindError, true},
		{LevelPhase, ScopeRun, KindSpanBegin, true},
		{LevelPhase, ScopeFile, KindSpanBegin, false},
		{LevelDetail, ScopeFile, KindPoint, true},
		{LevelDetail, ScopeGroup, KindPoint, false},
		{LevelDebug, ScopeGroup, KindPoint, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope, tt.kind); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s, %s) = %v, want %v", tt.level, tt.scope, tt.kind, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"off", "error", "phase", "detail", "DEBUG"} {
		l, err := ParseLevel(name)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", name, err)
		}
		if l.String() != strings.ToLower(name) {
			t.Fatalf("ParseLevel(%q) = %s", name, l)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("ParseLevel accepted an unknown level")
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := &writerSink{w: &buf, level: LevelDetail, format: FormatNDJSON}

	run := Begin(tr, ScopeRun, "aggregate", 0)
	file := Begin(tr, ScopeFile, "file:a.json", run.ID())
	file.WithExtra("warnings", "3").End("")
	Point(tr, ScopeGroup, "merge", "dropped at detail level", file.ID())
	run.End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", len(lines), buf.String())
	}
	var ev jsonEvent
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatalf("invalid NDJSON line %q: %v", lines[2], err)
	}
	if ev.Kind != "end" || ev.Scope != "file" || ev.Extra["warnings"] != "3" || ev.ParentID != run.ID() {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestStreamTextSortsExtras(t *testing.T) {
	var buf bytes.Buffer
	tr := &writerSink{w: &buf, level: LevelDebug, format: FormatText}
	Begin(tr, ScopeRun, "render", 0).WithExtra("z", "1").WithExtra("a", "2").End("done")

	out := buf.String()
	if !strings.Contains(out, "← render (done) {a=2, z=1}") {
		t.Fatalf("unexpected text output:\n%s", out)
	}
}

func TestBacklogWraps(t *testing.T) {
	tr := newBacklog(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(tr, ScopeRun, name, "", 0)
	}
	got := tr.events()
	if len(got) != 3 {
		t.Fatalf("events() len = %d, want 3", len(got))
	}
	for i, want := range []string{"c", "d", "e"} {
		if got[i].Name != want {
			t.Errorf("event %d = %s, want %s", i, got[i].Name, want)
		}
	}
}

func TestErrorsPassErrorLevel(t *testing.T) {
	tr := newBacklog(8, LevelError)
	Begin(tr, ScopeRun, "load", 0).End("")
	Error(tr, ScopeFile, "file:bad.json", errors.New("boom"), 0)
	got := tr.events()
	if len(got) != 1 || got[0].Kind != KindError || got[0].Detail != "boom" {
		t.Fatalf("events() = %+v", got)
	}

	var out bytes.Buffer
	if err := tr.Dump(&out); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if !strings.Contains(out.String(), "! file:bad.json (boom)") {
		t.Fatalf("Dump output = %q", out.String())
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if enabled(tr) || BacklogOf(tr) != nil {
		t.Fatal("off tracer reports enabled")
	}
	span := Begin(tr, ScopeRun, "x", 0)
	if span.ID() != 0 {
		t.Fatal("inert span got an id")
	}
	span.End("")
}

func TestNewBothKeepsBacklog(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf, Format: FormatText})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Point(tr, ScopeRun, "hello", "", 0)
	backlog := BacklogOf(tr)
	if backlog == nil || len(backlog.events()) != 1 {
		t.Fatal("backlog did not capture the event")
	}
	if got := backlog.events()[0].Seq; got == 0 {
		t.Fatal("event was not stamped with a sequence number")
	}
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("stream missed the event: %q", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("empty context should yield Nop")
	}
	tr := newBacklog(4, LevelDebug)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Fatal("tracer not stored in context")
	}
	span := Begin(tr, ScopeRun, "run", 0)
	ctx = WithSpan(ctx, span)
	if CurrentSpan(ctx) != span.ID() {
		t.Fatal("span id not stored in context")
	}
}
