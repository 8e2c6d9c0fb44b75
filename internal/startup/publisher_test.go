package startup

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestPublisher_Initial(t *testing.T) {
	p := NewPublisher()
	s := p.Snapshot()

	assert.Equal(t, PhaseInitializing, s.Phase)
	assert.Equal(t, "Starting up...", s.Message)
	assert.Empty(t, s.Logs)
	assert.Equal(t, uint64(0), s.Version)
	_, err := uuid.Parse(s.RunID)
	assert.NoError(t, err)
	assert.Equal(t, p.RunID(), s.RunID)
}

func TestPublisher_TimestampsRelativeToStart(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	p := newPublisher(clock.now)

	clock.advance(1500 * time.Millisecond)
	p.SetPhase(PhaseVectorStore, "Starting Qdrant vector database...")
	clock.advance(10 * time.Second)
	p.AddLog("✓ Qdrant is ready")

	s := p.Snapshot()
	assert.Equal(t, []string{
		"[1.5s] Starting Qdrant vector database...",
		"[11.5s] ✓ Qdrant is ready",
	}, s.Logs)
	assert.Equal(t, int64(11500), s.ElapsedMS)
	assert.Equal(t, 11500*time.Millisecond, s.Elapsed())
	assert.Equal(t, "Starting Qdrant vector database...", s.Message, "AddLog leaves the message alone")
}

func TestPublisher_SetPhaseIsMonotonic(t *testing.T) {
	tests := []struct {
		name    string
		from    Phase
		to      Phase
		allowed bool
	}{
		{name: "forward", from: PhaseVectorStore, to: PhaseVectorStoreWait, allowed: true},
		{name: "skip ahead", from: PhaseInitializing, to: PhaseBackendWait, allowed: true},
		{name: "same phase", from: PhaseUnpacking, to: PhaseUnpacking, allowed: true},
		{name: "backwards", from: PhaseBackendStarting, to: PhaseVectorStore, allowed: false},
		{name: "wait to ready", from: PhaseBackendWait, to: PhaseReady, allowed: true},
		{name: "wait to timeout", from: PhaseBackendWait, to: PhaseTimeout, allowed: true},
		{name: "ready is final", from: PhaseReady, to: PhaseTimeout, allowed: false},
		{name: "timeout is final", from: PhaseTimeout, to: PhaseReady, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPublisher()
			require.True(t, p.SetPhase(tt.from, "from"))

			assert.Equal(t, tt.allowed, p.SetPhase(tt.to, "to"))
			s := p.Snapshot()
			if tt.allowed {
				assert.Equal(t, tt.to, s.Phase)
				assert.Equal(t, "to", s.Message)
				assert.Len(t, s.Logs, 2)
			} else {
				assert.Equal(t, tt.from, s.Phase)
				assert.Equal(t, "from", s.Message)
				assert.Len(t, s.Logs, 1, "a refused transition records nothing")
			}
		})
	}
}

func TestPublisher_SetMessageKeepsPhase(t *testing.T) {
	p := NewPublisher()
	p.SetPhase(PhaseUnpacking, "Checking bundled dependencies...")
	p.SetMessage("Extracting dependencies... (500/1200 files)")

	s := p.Snapshot()
	assert.Equal(t, PhaseUnpacking, s.Phase)
	assert.Equal(t, "Extracting dependencies... (500/1200 files)", s.Message)
	assert.Len(t, s.Logs, 2)
}

func TestPublisher_SnapshotIsACopy(t *testing.T) {
	p := NewPublisher()
	p.AddLog("one")

	s := p.Snapshot()
	s.Logs[0] = "mutated"
	s.Logs = append(s.Logs, "extra")

	again := p.Snapshot()
	assert.Len(t, again.Logs, 1)
	assert.Contains(t, again.Logs[0], "one")
	assert.Equal(t, s.Version, again.Version, "reading does not bump the version")
}

func TestPublisher_VersionAndSinks(t *testing.T) {
	rec := &entryRecorder{}
	p := NewPublisher(rec)

	p.SetPhase(PhaseVectorStore, "a")
	p.AddLog("b")
	p.SetMessage("c")
	p.SetPhase(PhaseInitializing, "refused")

	assert.Equal(t, uint64(3), p.Snapshot().Version)
	require.Len(t, rec.entries, 3)
	assert.Equal(t, "a", rec.entries[0].Message)
	assert.Equal(t, PhaseVectorStore, rec.entries[2].Phase)
}

func TestStatus_JSON(t *testing.T) {
	p := NewPublisher()
	p.SetPhase(PhaseBackendWait, "Waiting for backend on port 3001...")

	data, err := json.Marshal(p.Snapshot())
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "backend_wait", raw["phase"])
	for _, key := range []string{"run_id", "message", "elapsed_ms", "logs", "version"} {
		assert.Contains(t, raw, key)
	}

	var decoded Status
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, PhaseBackendWait, decoded.Phase)
}

func TestPhase_Names(t *testing.T) {
	names := []string{"initializing", "qdrant", "qdrant_wait", "unpacking", "backend_starting", "backend_wait", "ready", "timeout"}
	for i, name := range names {
		assert.Equal(t, name, Phase(i).String())
		parsed, err := ParsePhase(name)
		require.NoError(t, err)
		assert.Equal(t, Phase(i), parsed)
	}
	_, err := ParsePhase("bogus")
	assert.Error(t, err)
	assert.Equal(t, "Phase(42)", Phase(42).String())
	assert.True(t, PhaseReady.IsTerminal())
	assert.False(t, PhaseBackendWait.IsTerminal())
}
