package driver

import "time"

// Stage describes a high-level processing phase.
type Stage string

const (
	// StageScan is header detection and statement scanning.
	StageScan Stage = "scan"
	// StageBuild is document construction.
	StageBuild Stage = "build"
	// StageCheck is issue evaluation over the built document.
	StageCheck Stage = "check"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the file finished cleanly.
	StatusDone Status = "done"
	// StatusError indicates the file finished with errors.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the overall run when File is
// empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
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
