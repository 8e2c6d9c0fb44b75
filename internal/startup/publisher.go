package startup

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"launchpad/pkg/logging"
)

const initialMessage = "Starting up..."

// Status is a point-in-time copy of the startup progress.
type Status struct {
	RunID     string   `json:"run_id"`
	Phase     Phase    `json:"phase"`
	Message   string   `json:"message"`
	ElapsedMS int64    `json:"elapsed_ms"`
	Logs      []string `json:"logs"`
	// Version increases on every mutation; pollers compare it to skip
	// redrawing unchanged state.
	Version uint64 `json:"version"`
}

// Elapsed returns the time since the sequence started.
func (s Status) Elapsed() time.Duration {
	return time.Duration(s.ElapsedMS) * time.Millisecond
}

// Entry is one recorded status line, passed to sinks.
type Entry struct {
	Time    time.Time
	Elapsed time.Duration
	Phase   Phase
	Message string
}

// Sink receives every entry after it has been recorded.
type Sink interface {
	Record(runID string, e Entry)
}

// Publisher holds the mutable startup state behind a mutex.
type Publisher struct {
	mu        sync.Mutex
	runID     string
	phase     Phase
	message   string
	startedAt time.Time
	logs      []string
	version   uint64

	sinks []Sink
	now   func() time.Time
}

// NewPublisher starts the clock in the initializing phase.
func NewPublisher(sinks ...Sink) *Publisher {
	return newPublisher(time.Now, sinks...)
}

func newPublisher(now func() time.Time, sinks ...Sink) *Publisher {
	return &Publisher{
		runID:     uuid.NewString(),
		phase:     PhaseInitializing,
		message:   initialMessage,
		startedAt: now(),
		sinks:     sinks,
		now:       now,
	}
}

// RunID identifies this startup sequence.
func (p *Publisher) RunID() string {
	return p.runID
}

// SetPhase moves to phase and records msg as both the current message and
// a log line. Moving backwards or leaving a terminal phase is refused and
// returns false.
func (p *Publisher) SetPhase(phase Phase, msg string) bool {
	p.mu.Lock()
	if !p.phase.canMoveTo(phase) {
		current := p.phase
		p.mu.Unlock()
		logging.Warn("Startup", "Refusing phase change %s -> %s", current, phase)
		return false
	}
	p.phase = phase
	p.message = msg
	e := p.appendLocked(msg)
	p.mu.Unlock()

	logging.Debug("Startup", "%s: %s", phase, msg)
	p.emit(e)
	return true
}

// SetMessage replaces the current message within the current phase and
// records it as a log line.
func (p *Publisher) SetMessage(msg string) {
	p.mu.Lock()
	p.message = msg
	e := p.appendLocked(msg)
	p.mu.Unlock()

	logging.Debug("Startup", "%s: %s", e.Phase, msg)
	p.emit(e)
}

// AddLog appends a timestamped log line without touching the message.
func (p *Publisher) AddLog(msg string) {
	p.mu.Lock()
	e := p.appendLocked(msg)
	p.mu.Unlock()

	logging.Debug("Startup", "%s", msg)
	p.emit(e)
}

func (p *Publisher) appendLocked(msg string) Entry {
	now := p.now()
	elapsed := now.Sub(p.startedAt)
	p.logs = append(p.logs, fmt.Sprintf("[%.1fs] %s", elapsed.Seconds(), msg))
	p.version++
	return Entry{Time: now, Elapsed: elapsed, Phase: p.phase, Message: msg}
}

func (p *Publisher) emit(e Entry) {
	for _, s := range p.sinks {
		s.Record(p.runID, e)
	}
}

// Snapshot returns a deep copy of the current state. It has no side
// effects.
func (p *Publisher) Snapshot() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	logs := make([]string, len(p.logs))
	copy(logs, p.logs)
	return Status{
		RunID:     p.runID,
		Phase:     p.phase,
		Message:   p.message,
		ElapsedMS: p.now().Sub(p.startedAt).Milliseconds(),
		Logs:      logs,
		Version:   p.version,
	}
}
