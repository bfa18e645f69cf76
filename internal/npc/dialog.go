// Package npc holds the NPC dialog state shared by every protocol family.
// Handlers drive it from server messages and the UI drives it from user
// actions; each user action sends exactly one request to the server.
package npc

import (
	"errors"
	"fmt"
	"strings"
)

// ErrWrongState is returned when a user action does not match what the
// dialog is currently asking for.
var ErrWrongState = errors.New("dialog is not waiting for this action")

// State of the dialog as shown to the user.
type State int

const (
	// Inactive means no dialog is open.
	Inactive State = iota
	// Waiting for the server to say what comes next.
	Waiting
	Next
	Close
	ListChoice
	IntegerInput
	StringInput
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Waiting:
		return "waiting"
	case Next:
		return "next"
	case Close:
		return "close"
	case ListChoice:
		return "list choice"
	case IntegerInput:
		return "integer input"
	case StringInput:
		return "string input"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Requests sends dialog requests to the server. Each protocol family
// provides its own.
type Requests interface {
	Talk(npcID uint32) error
	NextDialog(npcID uint32) error
	CloseDialog(npcID uint32) error
	// ListInput sends a 1-based choice; CancelChoice is sent to abort.
	ListInput(npcID uint32, choice uint8) error
	IntegerInput(npcID uint32, value int32) error
	StringInput(npcID uint32, value string) error
}

// CancelChoice is the list input value that aborts the dialog.
const CancelChoice uint8 = 0xff

// Dialog is the state of the one NPC conversation a player can have open.
type Dialog struct {
	requests Requests

	npcID   uint32
	state   State
	lines   []string
	choices []string

	intMin, intMax, intDefault int32
}

func NewDialog(requests Requests) *Dialog {
	return &Dialog{requests: requests}
}

func (d *Dialog) State() State    { return d.state }
func (d *Dialog) NPC() uint32     { return d.npcID }
func (d *Dialog) Active() bool    { return d.state != Inactive }
func (d *Dialog) Lines() []string { return d.lines }
func (d *Dialog) Text() string    { return strings.Join(d.lines, "\n") }

// Choices returns the options of a ListChoice.
func (d *Dialog) Choices() []string { return d.choices }

// IntegerBounds returns the range and default of an IntegerInput.
func (d *Dialog) IntegerBounds() (min, max, def int32) {
	return d.intMin, d.intMax, d.intDefault
}

// Open starts a dialog for npcID in Waiting if none is open. It reports
// whether the dialog now belongs to npcID.
func (d *Dialog) Open(npcID uint32) bool {
	if d.state == Inactive {
		d.reset(npcID)
		d.state = Waiting
		return true
	}
	return d.npcID == npcID
}

func (d *Dialog) reset(npcID uint32) {
	d.npcID = npcID
	d.lines = nil
	d.choices = nil
	d.intMin, d.intMax, d.intDefault = 0, 0, 0
}

// The following are called by handlers for server messages.

// AddText appends a line of NPC speech. The state does not change.
func (d *Dialog) AddText(text string) {
	d.lines = append(d.lines, text)
}

func (d *Dialog) ShowNext() {
	d.state = Next
}

func (d *Dialog) ShowClose() {
	d.state = Close
}

func (d *Dialog) ChooseFrom(choices []string) {
	d.choices = choices
	d.state = ListChoice
}

func (d *Dialog) AskInteger(min, max, def int32) {
	if min > max {
		min, max = max, min
	}
	d.intMin, d.intMax, d.intDefault = min, max, clamp(def, min, max)
	d.state = IntegerInput
}

func (d *Dialog) AskString() {
	d.state = StringInput
}

// End closes the dialog without talking to the server.
func (d *Dialog) End() {
	d.reset(0)
	d.state = Inactive
}

// The following are called by the UI.

// Talk starts a conversation with npcID.
func (d *Dialog) Talk(npcID uint32) error {
	if d.state != Inactive {
		return fmt.Errorf("%w: already talking to %d", ErrWrongState, d.npcID)
	}
	if err := d.requests.Talk(npcID); err != nil {
		return err
	}
	d.reset(npcID)
	d.state = Waiting
	return nil
}

func (d *Dialog) Next() error {
	if err := d.expect(Next); err != nil {
		return err
	}
	return d.respond(d.requests.NextDialog(d.npcID))
}

// Close sends the close request and ends the dialog.
func (d *Dialog) Close() error {
	if err := d.expect(Close); err != nil {
		return err
	}
	if err := d.requests.CloseDialog(d.npcID); err != nil {
		return err
	}
	d.End()
	return nil
}

// Choose picks choices[index].
func (d *Dialog) Choose(index int) error {
	if err := d.expect(ListChoice); err != nil {
		return err
	}
	if index < 0 || index >= len(d.choices) || index >= int(CancelChoice)-1 {
		return fmt.Errorf("choice %d out of range [0, %d)", index, len(d.choices))
	}
	return d.respond(d.requests.ListInput(d.npcID, uint8(index+1)))
}

// Cancel aborts a ListChoice.
func (d *Dialog) Cancel() error {
	if err := d.expect(ListChoice); err != nil {
		return err
	}
	if err := d.requests.ListInput(d.npcID, CancelChoice); err != nil {
		return err
	}
	d.End()
	return nil
}

// SubmitInteger sends value clamped to the requested range.
func (d *Dialog) SubmitInteger(value int32) error {
	if err := d.expect(IntegerInput); err != nil {
		return err
	}
	return d.respond(d.requests.IntegerInput(d.npcID, clamp(value, d.intMin, d.intMax)))
}

func (d *Dialog) SubmitString(value string) error {
	if err := d.expect(StringInput); err != nil {
		return err
	}
	return d.respond(d.requests.StringInput(d.npcID, value))
}

func (d *Dialog) expect(s State) error {
	if d.state != s {
		return fmt.Errorf("%w: %v, dialog is in %v", ErrWrongState, s, d.state)
	}
	return nil
}

// respond returns to Waiting once a request went out.
func (d *Dialog) respond(err error) error {
	if err != nil {
		return err
	}
	d.choices = nil
	d.state = Waiting
	return nil
}

func clamp(v, min, max int32) int32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
