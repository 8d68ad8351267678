package trace

// Level controls the verbosity of decision tracing.
type Level string

const (
	// LevelNone disables tracing.
	LevelNone Level = "none"
	// LevelDecisions captures every reconciliation decision.
	LevelDecisions Level = "decisions"
)

var validLevels = map[Level]bool{
	LevelNone:      true,
	LevelDecisions: true,
	"":             true, // empty defaults to none
}

// IsValidLevel returns true if the given level string is a recognized trace level.
func IsValidLevel(level string) bool {
	return validLevels[Level(level)]
}

// Trace collects decision records during one reconciliation run.
// A nil *Trace is valid and records nothing.
type Trace struct {
	Level     Level
	Decisions []Decision
}

// New creates a Trace ready for recording.
func New(level Level) *Trace {
	return &Trace{
		Level:     level,
		Decisions: make([]Decision, 0),
	}
}

// Record appends a decision unless tracing is disabled.
func (t *Trace) Record(d Decision) {
	if t == nil || t.Level != LevelDecisions {
		return
	}
	t.Decisions = append(t.Decisions, d)
}
