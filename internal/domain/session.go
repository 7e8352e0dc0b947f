package domain

import "time"

// Progress ceilings and the seed values every session starts from.
const (
	MaxScore             = 100.0
	InitialSecurityScore = 10.0
	InitialChaosMeter    = 5.0

	// SecurityPerUnlock is added to the security score on a fresh unlock.
	SecurityPerUnlock = 9.0
	// ChaosDivisor scales a recipe's chaos factor into meter points.
	ChaosDivisor = 2.5
)

// Progress is the per-session counter state shown as two progress bars and
// the per-entry done badges.
type Progress struct {
	SecurityScore float64
	ChaosMeter    float64
	// Unlocked holds recipe IDs in the order they were unlocked.
	Unlocked []string
}

// NewProgress returns the seed progress with seedID already unlocked.
func NewProgress(seedID string) Progress {
	return Progress{
		SecurityScore: InitialSecurityScore,
		ChaosMeter:    InitialChaosMeter,
		Unlocked:      []string{seedID},
	}
}

// Has reports whether id has been unlocked in this session.
func (p Progress) Has(id string) bool {
	for _, u := range p.Unlocked {
		if u == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of p.
func (p Progress) Clone() Progress {
	out := p
	out.Unlocked = append([]string(nil), p.Unlocked...)
	return out
}

// Session is the session-scoped state handed to the display layer: one
// progress record and the currently selected recipe.
type Session struct {
	ID        string
	Progress  Progress
	Selected  string
	Status    SessionStatus
	Events    []UnlockEvent
	StartedAt time.Time
	UpdatedAt time.Time
}

// SessionStatus tracks the lifecycle of a session.
type SessionStatus int

const (
	SessionActive SessionStatus = iota
	SessionAbandoned
)

// String returns a human-readable session status.
func (s SessionStatus) String() string {
	switch s {
	case SessionActive:
		return "active"
	case SessionAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// UnlockEvent records one fresh unlock.
type UnlockEvent struct {
	RecipeID      string
	SecurityDelta float64
	ChaosDelta    float64
	At            time.Time
}

// UnlockResult describes the outcome of an unlock request.
type UnlockResult struct {
	// Recipe is nil when the requested id is not in the catalog.
	Recipe *Recipe
	// Fresh is true when the unlock changed the session's progress.
	Fresh         bool
	SecurityDelta float64
	ChaosDelta    float64
	Session       *Session
}
