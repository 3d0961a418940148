package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"qawarn/internal/qa"
)

const configFileName = "qawarn.toml"

// fileConfig mirrors qawarn.toml.
type fileConfig struct {
	Output    outputConfig    `toml:"output"`
	Aggregate aggregateConfig `toml:"aggregate"`
}

type outputConfig struct {
	Format      string `toml:"format"`
	Color       string `toml:"color"`
	MaxWarnings int    `toml:"max_warnings"`
	Properties  bool   `toml:"properties"`
	Width       int    `toml:"width"`
}

type aggregateConfig struct {
	Jobs        int    `toml:"jobs"`
	MinSeverity string `toml:"min_severity"`
	FailOn      string `toml:"fail_on"`
	Normalize   bool   `toml:"normalize"`
	DiskCache   bool   `toml:"disk_cache"`
	InputFormat string `toml:"input_format"`
}

// settings is the effective configuration after defaults, qawarn.toml and
// command-line flags, in that order.
type settings struct {
	configPath  string
	format      string
	color       colorMode
	maxWarnings int
	properties  bool
	width       int
	jobs        int
	minSeverity qa.Severity
	failOn      qa.Severity
	hasFailOn   bool
	normalize   bool
	diskCache   bool
	inputFormat string
}

func defaultSettings() settings {
	return settings{
		format:      "pretty",
		color:       colorAuto,
		properties:  true,
		minSeverity: qa.SevInfo,
		inputFormat: "auto",
	}
}

func findConfigFile(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// applyConfigFile overlays every key defined in path onto s. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func applyConfigFile(s *settings, path string) error {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	s.configPath = path

	if meta.IsDefined("output", "format") {
		if err := checkOutputFormat(cfg.Output.Format); err != nil {
			return fmt.Errorf("%s: [output].format: %w", path, err)
		}
		s.format = cfg.Output.Format
	}
	if meta.IsDefined("output", "color") {
		mode, err := readColorMode(cfg.Output.Color)
		if err != nil {
			return fmt.Errorf("%s: [output].color: %w", path, err)
		}
		s.color = mode
	}
	if meta.IsDefined("output", "max_warnings") {
		s.maxWarnings = cfg.Output.MaxWarnings
	}
	if meta.IsDefined("output", "properties") {
		s.properties = cfg.Output.Properties
	}
	if meta.IsDefined("output", "width") {
		s.width = cfg.Output.Width
	}

	if meta.IsDefined("aggregate", "jobs") {
		s.jobs = cfg.Aggregate.Jobs
	}
	if meta.IsDefined("aggregate", "min_severity") {
		sev, err := qa.ParseSeverity(cfg.Aggregate.MinSeverity)
		if err != nil {
			return fmt.Errorf("%s: [aggregate].min_severity: %w", path, err)
		}
		s.minSeverity = sev
	}
	if meta.IsDefined("aggregate", "fail_on") {
		if err := s.setFailOn(cfg.Aggregate.FailOn); err != nil {
			return fmt.Errorf("%s: [aggregate].fail_on: %w", path, err)
		}
	}
	if meta.IsDefined("aggregate", "normalize") {
		s.normalize = cfg.Aggregate.Normalize
	}
	if meta.IsDefined("aggregate", "disk_cache") {
		s.diskCache = cfg.Aggregate.DiskCache
	}
	if meta.IsDefined("aggregate", "input_format") {
		s.inputFormat = cfg.Aggregate.InputFormat
	}
	return nil
}

// setFailOn accepts a severity name, or "none"/"" to disable the gate.
func (s *settings) setFailOn(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "none", "off":
		s.hasFailOn = false
		return nil
	}
	sev, err := qa.ParseSeverity(value)
	if err != nil {
		return err
	}
	s.failOn = sev
	s.hasFailOn = true
	return nil
}

func checkOutputFormat(format string) error {
	switch format {
	case "pretty", "json", "sarif", "short":
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected pretty|json|sarif|short)", format)
	}
}

// loadSettings resolves the effective settings for cmd. An explicit --config
// must exist; otherwise qawarn.toml is looked up from the working directory.
func loadSettings(cmd *cobra.Command) (settings, error) {
	s := defaultSettings()
	root := cmd.Root().PersistentFlags()

	configPath, err := root.GetString("config")
	if err != nil {
		return s, fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath == "" {
		found, ok, err := findConfigFile(".")
		if err != nil {
			return s, err
		}
		if ok {
			configPath = found
		}
	}
	if configPath != "" {
		if err := applyConfigFile(&s, configPath); err != nil {
			return s, err
		}
	}

	if err := applyFlags(&s, cmd); err != nil {
		return s, err
	}
	return s, nil
}

// applyFlags overlays only the flags the user actually set.
func applyFlags(s *settings, cmd *cobra.Command) error {
	flags := cmd.Flags()

	if flags.Changed("color") {
		v, err := flags.GetString("color")
		if err != nil {
			return fmt.Errorf("failed to get color flag: %w", err)
		}
		mode, err := readColorMode(v)
		if err != nil {
			return err
		}
		s.color = mode
	}
	if flags.Changed("max-warnings") {
		v, err := flags.GetInt("max-warnings")
		if err != nil {
			return fmt.Errorf("failed to get max-warnings flag: %w", err)
		}
		s.maxWarnings = v
	}
	if flags.Lookup("format") != nil && flags.Changed("format") {
		v, err := flags.GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
		if err := checkOutputFormat(v); err != nil {
			return err
		}
		s.format = v
	}
	if flags.Lookup("jobs") != nil && flags.Changed("jobs") {
		v, err := flags.GetInt("jobs")
		if err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
		s.jobs = v
	}
	if flags.Lookup("min-severity") != nil && flags.Changed("min-severity") {
		v, err := flags.GetString("min-severity")
		if err != nil {
			return fmt.Errorf("failed to get min-severity flag: %w", err)
		}
		sev, err := qa.ParseSeverity(v)
		if err != nil {
			return fmt.Errorf("--min-severity: %w", err)
		}
		s.minSeverity = sev
	}
	if flags.Lookup("fail-on") != nil && flags.Changed("fail-on") {
		v, err := flags.GetString("fail-on")
		if err != nil {
			return fmt.Errorf("failed to get fail-on flag: %w", err)
		}
		if err := s.setFailOn(v); err != nil {
			return fmt.Errorf("--fail-on: %w", err)
		}
	}
	if flags.Lookup("normalize") != nil && flags.Changed("normalize") {
		v, err := flags.GetBool("normalize")
		if err != nil {
			return fmt.Errorf("failed to get normalize flag: %w", err)
		}
		s.normalize = v
	}
	if flags.Lookup("disk-cache") != nil && flags.Changed("disk-cache") {
		v, err := flags.GetBool("disk-cache")
		if err != nil {
			return fmt.Errorf("failed to get disk-cache flag: %w", err)
		}
		s.diskCache = v
	}
	if flags.Lookup("no-properties") != nil && flags.Changed("no-properties") {
		v, err := flags.GetBool("no-properties")
		if err != nil {
			return fmt.Errorf("failed to get no-properties flag: %w", err)
		}
		s.properties = !v
	}
	if flags.Lookup("input-format") != nil && flags.Changed("input-format") {
		v, err := flags.GetString("input-format")
		if err != nil {
			return fmt.Errorf("failed to get input-format flag: %w", err)
		}
		s.inputFormat = v
	}
	return nil
}

const defaultConfig = `# qawarn configuration

[output]
# pretty | json | sarif | short
format = "pretty"
# auto | on | off
color = "auto"
# 0 shows every group
max_warnings = 0
properties = true

[aggregate]
# 0 uses one worker per CPU
jobs = 0
min_severity = "INFO"
# exit non-zero when a group at or above this severity exists; "none" disables
fail_on = "none"
normalize = false
disk_cache = false
`
