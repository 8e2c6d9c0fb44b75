package startup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"launchpad/pkg/logging"
)

// JournalFileName is the run journal inside the application log directory.
const JournalFileName = "startup-events.jsonl"

// JournalRecord is one line of the run journal.
type JournalRecord struct {
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
	ElapsedMS int64     `json:"elapsed_ms"`
	Phase     Phase     `json:"phase"`
	Message   string    `json:"message"`
}

// Journal appends every status entry to a JSON Lines file so a startup can
// be diagnosed after the window is gone.
type Journal struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// OpenJournal opens path for appending, creating its directory.
func OpenJournal(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &Journal{f: f, enc: json.NewEncoder(f)}, nil
}

// Record implements Sink. Write errors are logged and otherwise ignored.
func (j *Journal) Record(runID string, e Entry) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.f == nil {
		return
	}
	err := j.enc.Encode(JournalRecord{
		RunID:     runID,
		Timestamp: e.Time.UTC(),
		ElapsedMS: e.Elapsed.Milliseconds(),
		Phase:     e.Phase,
		Message:   e.Message,
	})
	if err != nil {
		logging.Warn("Startup", "Journal write failed: %v", err)
	}
}

// Close flushes and closes the file. Later records are dropped.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.f == nil {
		return nil
	}
	err := j.f.Close()
	j.f = nil
	return err
}
