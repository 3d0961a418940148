package driver

import "time"

// Stage describes a step in processing one input file.
type Stage string

const (
	// StageRead is reading the file from disk (or the cache).
	StageRead Stage = "read"
	// StageDecode is turning bytes into warnings.
	StageDecode Stage = "decode"
	// StageAggregate is reducing the file's warnings into its set.
	StageAggregate Stage = "aggregate"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File     string
	Stage    Stage
	Status   Status
	Warnings int
	Err      error
	Elapsed  time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: events arrive from worker goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
