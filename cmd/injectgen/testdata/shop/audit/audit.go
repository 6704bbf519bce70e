package audit

// Log records events.
type Log interface {
	Record(event string)
}

// Any has no methods and is never inferred.
type Any interface{}

type (
	// Trail records events in memory.
	//
	//inject:injectable
	Trail struct {
		events []string
	}

	// Sink drops events.
	Sink struct{}
)

func (t *Trail) Record(event string) { t.events = append(t.events, event) }
