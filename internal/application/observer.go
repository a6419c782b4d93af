package application

import "time"

// Operation names the request kinds reported to an Observer.
type Operation string

const (
	OpSave  Operation = "put"
	OpGreet Operation = "get"
)

// Outcomes reported on success. Failures report their Reason.
const (
	OutcomeCreated = "created"
	OutcomeUpdated = "updated"
	OutcomeOK      = "ok"
)

// Event describes the outcome of one request.
type Event struct {
	ID        string    `json:"id,omitempty"`
	Operation Operation `json:"operation"`
	Outcome   string    `json:"outcome"`
	Username  string    `json:"username"`
	DaysUntil *int      `json:"days_until,omitempty"`
	At        time.Time `json:"at"`
}

// Observer is notified of every request outcome. Implementations must be
// safe for concurrent use and must not block for long.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

type nopObserver struct{}

func (nopObserver) Observe(Event) {}
