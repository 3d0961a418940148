package qafmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"qawarn/internal/qa"
)

func TestPrettyPlain(t *testing.T) {
	var buf bytes.Buffer
	err := Pretty(&buf, sampleSet(), PrettyOpts{ShowProperties: true, ShowSummary: true})
	if err != nil {
		t.Fatalf("Pretty() error: %v", err)
	}

	want := "CRITICAL  x5 missing-ref  entity=Q42\n" +
		"CRITICAL  x1 bad-property_P31\n" +
		"INFO      x1 label-too-long\n" +
		"3 warnings (7 occurrences): 2 critical, 1 info\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestPrettyColor(t *testing.T) {
	var plain, colored bytes.Buffer
	if err := Pretty(&plain, sampleSet(), PrettyOpts{}); err != nil {
		t.Fatalf("Pretty() error: %v", err)
	}
	if err := Pretty(&colored, sampleSet(), PrettyOpts{Color: true}); err != nil {
		t.Fatalf("Pretty() error: %v", err)
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatal("plain output contains escape sequences")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatal("colored output has no escape sequences")
	}
}

func TestPrettyMax(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, sampleSet(), PrettyOpts{Max: 1}); err != nil {
		t.Fatalf("Pretty() error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || lines[1] != "... and 2 more" {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestPrettyTruncatesWideText(t *testing.T) {
	set := qa.NewSet(0)
	w := qa.New("label-mismatch", "", qa.SevWarning, 1)
	w.SetProperty("label", strings.Repeat("日本語", 20))
	set.Add(w)

	var buf bytes.Buffer
	if err := Pretty(&buf, set, PrettyOpts{Width: 40, ShowProperties: true}); err != nil {
		t.Fatalf("Pretty() error: %v", err)
	}
	line := strings.TrimSuffix(buf.String(), "\n")
	if got := runewidth.StringWidth(line); got > 40 {
		t.Fatalf("line width %d exceeds 40: %q", got, line)
	}
	if !strings.HasSuffix(line, "...") {
		t.Fatalf("expected ellipsis: %q", line)
	}
}

func TestPrettyIntegerPropertyFromJSON(t *testing.T) {
	var w qa.Warning
	in := `{"type":"bad-property","bucket_id":"P31","severity":"WARNING","count":1,"properties":{"qid":1234567}}`
	if err := json.Unmarshal([]byte(in), &w); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	set := qa.NewSet(0)
	set.Add(&w)

	var buf bytes.Buffer
	if err := Pretty(&buf, set, PrettyOpts{ShowProperties: true}); err != nil {
		t.Fatalf("Pretty() error: %v", err)
	}
	want := "WARNING   x1 bad-property_P31  qid=1234567\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{in: "multi\nline", want: "multi line"},
		{in: 3, want: "3"},
		{in: 1234567.0, want: "1234567"},
		{in: 0.25, want: "0.25"},
		{in: float32(1.5), want: "1.5"},
		{in: int64(9007199254740993), want: "9007199254740993"},
		{in: true, want: "true"},
		{in: nil, want: "null"},
		{in: map[string]any{"b": 1, "a": "x"}, want: `{"a":"x","b":1}`},
		{in: []any{"P31", 2}, want: `["P31",2]`},
		{in: qa.SevImportant, want: "IMPORTANT"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
