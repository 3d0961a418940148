package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives trace events. Emit must be safe for concurrent use.
type Tracer interface {
	Emit(ev *Event)
	Level() Level
	Close() error
}

func enabled(t Tracer) bool {
	return t != nil && t.Level() > LevelOff
}

type off struct{}

func (off) Emit(*Event)  {}
func (off) Level() Level { return LevelOff }
func (off) Close() error { return nil }

// Nop drops every event.
var Nop Tracer = off{}

// StorageMode selects where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // written as they happen
	ModeRing                          // last N kept in a Backlog
	ModeBoth
)

// ParseMode parses stream, ring or both.
func ParseMode(s string) (StorageMode, error) {
	switch strings.ToLower(s) {
	case "stream":
		return ModeStream, nil
	case "ring":
		return ModeRing, nil
	case "both":
		return ModeBoth, nil
	}
	return ModeStream, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// Config holds tracer configuration.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format    // FormatAuto picks NDJSON for .ndjson/.jsonl paths
	Output     io.Writer // stream destination; overrides OutputPath
	OutputPath string    // "" or "-" means stderr
	RingSize   int       // backlog capacity, default 4096
}

// New builds the tracer described by cfg. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}

	format := cfg.Format
	if format == FormatAuto {
		format = FormatText
		if strings.HasSuffix(cfg.OutputPath, ".ndjson") || strings.HasSuffix(cfg.OutputPath, ".jsonl") {
			format = FormatNDJSON
		}
	}

	switch cfg.Mode {
	case ModeRing:
		return newBacklog(cfg.RingSize, cfg.Level), nil
	case ModeStream, ModeBoth:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		stream := &writerSink{w: w, level: cfg.Level, format: format}
		if cfg.Mode == ModeStream {
			return stream, nil
		}
		return &tee{stream: stream, backlog: newBacklog(cfg.RingSize, cfg.Level)}, nil
	}
	return nil, fmt.Errorf("unknown storage mode: %d", cfg.Mode)
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		// no Close: stderr outlives the tracer
		return struct{ io.Writer }{os.Stderr}, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// BacklogOf returns the in-memory backlog behind t, or nil when t keeps none.
func BacklogOf(t Tracer) *Backlog {
	switch t := t.(type) {
	case *Backlog:
		return t
	case *tee:
		return t.backlog
	}
	return nil
}
