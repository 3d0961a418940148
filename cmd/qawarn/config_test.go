package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"qawarn/internal/qa"
)

func TestFindConfigFileWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, configFileName)
	if err := os.WriteFile(want, []byte(""), 0o600); err != nil {
		t.Fatal(err)
	}

	got, ok, err := findConfigFile(nested)
	if err != nil || !ok {
		t.Fatalf("findConfigFile = %q, %v, %v", got, ok, err)
	}
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestApplyConfigFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, s settings)
		wantErr string
	}{
		{
			name:    "empty keeps defaults",
			content: "",
			check: func(t *testing.T, s settings) {
				if s.format != "pretty" || !s.properties || s.minSeverity != qa.SevInfo || s.hasFailOn {
					t.Errorf("defaults changed: %+v", s)
				}
			},
		},
		{
			name:    "explicit false overrides default true",
			content: "[output]\nproperties = false\n",
			check: func(t *testing.T, s settings) {
				if s.properties {
					t.Error("properties should be false")
				}
			},
		},
		{
			name:    "aggregate section",
			content: "[aggregate]\njobs = 3\nfail_on = \"important\"\nnormalize = true\n",
			check: func(t *testing.T, s settings) {
				if s.jobs != 3 || !s.hasFailOn || s.failOn != qa.SevImportant || !s.normalize {
					t.Errorf("unexpected %+v", s)
				}
			},
		},
		{name: "bad severity", content: "[aggregate]\nmin_severity = \"loud\"\n", wantErr: "min_severity"},
		{name: "bad format", content: "[output]\nformat = \"xml\"\n", wantErr: "[output].format"},
		{name: "unknown key", content: "[output]\nfromat = \"json\"\n", wantErr: "unknown keys: output.fromat"},
		{name: "syntax", content: "[output\n", wantErr: "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), configFileName)
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			s := defaultSettings()
			err := applyConfigFile(&s, path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, s)
		})
	}
}

func TestSetFailOn(t *testing.T) {
	var s settings
	if err := s.setFailOn("WARNING"); err != nil || !s.hasFailOn || s.failOn != qa.SevWarning {
		t.Fatalf("setFailOn(WARNING) = %v, %+v", err, s)
	}
	if err := s.setFailOn("none"); err != nil || s.hasFailOn {
		t.Fatalf("setFailOn(none) = %v, %+v", err, s)
	}
	if err := s.setFailOn("bogus"); err == nil {
		t.Fatal("expected error")
	}
}

func TestReadModes(t *testing.T) {
	if m, err := readUIMode("ON"); err != nil || m != uiModeOn {
		t.Errorf("readUIMode(ON) = %v, %v", m, err)
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Error("expected ui mode error")
	}
	if m, err := readColorMode("never"); err != nil || m != colorOff {
		t.Errorf("readColorMode(never) = %v, %v", m, err)
	}
	if !useColor(colorOn, nil) || useColor(colorAuto, nil) {
		t.Error("useColor mismatch")
	}
}
