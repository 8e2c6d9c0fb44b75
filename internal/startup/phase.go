package startup

import "fmt"

// Phase is a step of the startup sequence. Phases are ordered; Ready and
// Timeout are terminal and mutually exclusive.
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseVectorStore
	PhaseVectorStoreWait
	PhaseUnpacking
	PhaseBackendStarting
	PhaseBackendWait
	PhaseReady
	PhaseTimeout
)

var phaseNames = [...]string{
	PhaseInitializing:    "initializing",
	PhaseVectorStore:     "qdrant",
	PhaseVectorStoreWait: "qdrant_wait",
	PhaseUnpacking:       "unpacking",
	PhaseBackendStarting: "backend_starting",
	PhaseBackendWait:     "backend_wait",
	PhaseReady:           "ready",
	PhaseTimeout:         "timeout",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// IsTerminal reports whether no further transition is allowed.
func (p Phase) IsTerminal() bool {
	return p == PhaseReady || p == PhaseTimeout
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(s string) (Phase, error) {
	for i, name := range phaseNames {
		if name == s {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(text []byte) error {
	parsed, err := ParsePhase(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// canMoveTo implements the monotonic rule: never backwards and never out
// of a terminal phase. Re-entering the current phase is allowed.
func (p Phase) canMoveTo(next Phase) bool {
	if p.IsTerminal() {
		return next == p
	}
	return next >= p
}
