package engine

// EventKind identifies engine events.
type EventKind string

const (
	EventSceneActivated  EventKind = "scene_activated"
	EventRevealComplete  EventKind = "reveal_complete"
	EventChoicesShown    EventKind = "choices_shown"
	EventChoiceSelected  EventKind = "choice_selected"
	EventAutoAdvance     EventKind = "auto_advance"
	EventEnded           EventKind = "ended"
	EventPreloadComplete EventKind = "preload_complete"
	EventReloaded        EventKind = "reloaded"
	EventDataError       EventKind = "data_error"
)

// Event is emitted by the machine as it runs. Index is the scene position it
// refers to, or -1.
type Event struct {
	Kind    EventKind
	Index   int
	SceneID string
	Text    string
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
