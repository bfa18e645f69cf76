package game

import "fmt"

// EventKind identifies what an Event reports to the UI.
type EventKind int

const (
	// EventChat is a chat line; Source is the speaker.
	EventChat EventKind = iota
	EventWhisper
	EventParty
	EventAnnouncement
	// EventNotice is a status line such as a trade or party answer.
	EventNotice
	// EventError is a server refusal the user should see.
	EventError
	EventTradeRequest
	EventPartyInvite
	EventMapChanged
)

func (k EventKind) String() string {
	switch k {
	case EventChat:
		return "chat"
	case EventWhisper:
		return "whisper"
	case EventParty:
		return "party"
	case EventAnnouncement:
		return "announcement"
	case EventNotice:
		return "notice"
	case EventError:
		return "error"
	case EventTradeRequest:
		return "trade request"
	case EventPartyInvite:
		return "party invite"
	case EventMapChanged:
		return "map changed"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is something a handler decoded that the UI should show.
type Event struct {
	Kind     EventKind
	Source   string
	SourceID uint32
	Text     string
}

func (e Event) String() string {
	if e.Source == "" {
		return fmt.Sprintf("[%s] %s", e.Kind, e.Text)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Source, e.Text)
}

// Events queues events between the handlers and the UI.
type Events struct {
	queue []Event
}

func (e *Events) Push(event Event) {
	e.queue = append(e.queue, event)
}

// Drain returns and clears every queued event.
func (e *Events) Drain() []Event {
	events := e.queue
	e.queue = nil
	return events
}

func (e *Events) Len() int { return len(e.queue) }
