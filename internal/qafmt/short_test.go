package qafmt

import (
	"bytes"
	"testing"

	"qawarn/internal/qa"
)

func TestFormatShortGolden(t *testing.T) {
	expected := "critical missing-ref x5\n" +
		"critical bad-property_P31 x1\n" +
		"info label-too-long x1"

	if got := FormatShort(sampleSet()); got != expected {
		t.Fatalf("unexpected short output:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestShortEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Short(&buf, qa.NewSet(0)); err != nil {
		t.Fatalf("Short() error: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}
