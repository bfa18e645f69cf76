package npc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// recorder captures requests as strings.
type recorder struct {
	sent []string
	err  error
}

func (r *recorder) record(format string, args ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, fmt.Sprintf(format, args...))
	return nil
}

func (r *recorder) Talk(npcID uint32) error       { return r.record("talk %d", npcID) }
func (r *recorder) NextDialog(npcID uint32) error { return r.record("next %d", npcID) }
func (r *recorder) CloseDialog(npcID uint32) error {
	return r.record("close %d", npcID)
}
func (r *recorder) ListInput(npcID uint32, choice uint8) error {
	return r.record("list %d %d", npcID, choice)
}
func (r *recorder) IntegerInput(npcID uint32, value int32) error {
	return r.record("int %d %d", npcID, value)
}
func (r *recorder) StringInput(npcID uint32, value string) error {
	return r.record("string %d %s", npcID, value)
}

func TestDialog_Conversation(t *testing.T) {
	r := &recorder{}
	d := NewDialog(r)

	if err := d.Talk(42); err != nil {
		t.Fatalf("Talk() returned an unexpected error: %v", err)
	}

	d.AddText("Hello")
	if d.State() != Waiting {
		t.Fatalf("expected Waiting after text, got %v", d.State())
	}
	if d.Text() != "Hello" {
		t.Fatalf("expected text %q, got %q", "Hello", d.Text())
	}

	d.ShowNext()
	if d.State() != Next {
		t.Fatalf("expected Next, got %v", d.State())
	}
	if err := d.Next(); err != nil {
		t.Fatalf("Next() returned an unexpected error: %v", err)
	}

	d.ChooseFrom([]string{"yes", "no"})
	if err := d.Choose(1); err != nil {
		t.Fatalf("Choose() returned an unexpected error: %v", err)
	}

	d.AskInteger(1, 10, 5)
	if err := d.SubmitInteger(50); err != nil {
		t.Fatalf("SubmitInteger() returned an unexpected error: %v", err)
	}

	d.AskString()
	if err := d.SubmitString("mana"); err != nil {
		t.Fatalf("SubmitString() returned an unexpected error: %v", err)
	}

	d.ShowClose()
	if err := d.Close(); err != nil {
		t.Fatalf("Close() returned an unexpected error: %v", err)
	}
	if d.Active() {
		t.Errorf("expected the dialog to be closed")
	}

	want := []string{
		"talk 42",
		"next 42",
		"list 42 2",
		"int 42 10",
		"string 42 mana",
		"close 42",
	}
	if diff := cmp.Diff(want, r.sent); diff != "" {
		t.Fatalf("unexpected requests; diff:\n%s", diff)
	}
}

func TestDialog_WrongState(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(d *Dialog)
		action func(d *Dialog) error
	}{
		{
			name:   "next while waiting",
			setup:  func(d *Dialog) {},
			action: func(d *Dialog) error { return d.Next() },
		},
		{
			name:   "close while asking for a number",
			setup:  func(d *Dialog) { d.AskInteger(0, 1, 0) },
			action: func(d *Dialog) error { return d.Close() },
		},
		{
			name:   "choice while showing next",
			setup:  func(d *Dialog) { d.ShowNext() },
			action: func(d *Dialog) error { return d.Choose(0) },
		},
		{
			name:   "string while choosing",
			setup:  func(d *Dialog) { d.ChooseFrom([]string{"a"}) },
			action: func(d *Dialog) error { return d.SubmitString("a") },
		},
		{
			name:   "talk while talking",
			setup:  func(d *Dialog) {},
			action: func(d *Dialog) error { return d.Talk(7) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			d := NewDialog(r)
			_ = d.Talk(42)
			tt.setup(d)
			before := d.State()

			if err := tt.action(d); !errors.Is(err, ErrWrongState) {
				t.Fatalf("expected ErrWrongState, got %v", err)
			}
			if d.State() != before {
				t.Errorf("state changed from %v to %v", before, d.State())
			}
			if len(r.sent) != 1 {
				t.Errorf("expected only the talk request, got %v", r.sent)
			}
		})
	}
}

func TestDialog_CancelChoice(t *testing.T) {
	r := &recorder{}
	d := NewDialog(r)
	_ = d.Talk(3)
	d.ChooseFrom([]string{"a", "b"})

	if err := d.Choose(2); err == nil {
		t.Errorf("expected an error for an out of range choice")
	}
	if err := d.Cancel(); err != nil {
		t.Fatalf("Cancel() returned an unexpected error: %v", err)
	}
	if d.Active() {
		t.Errorf("expected the dialog to be closed")
	}
	if diff := cmp.Diff([]string{"talk 3", "list 3 255"}, r.sent); diff != "" {
		t.Fatalf("unexpected requests; diff:\n%s", diff)
	}
}

func TestDialog_Open(t *testing.T) {
	d := NewDialog(&recorder{})

	if !d.Open(5) {
		t.Fatalf("expected Open() to start a dialog")
	}
	if d.State() != Waiting || d.NPC() != 5 {
		t.Fatalf("unexpected dialog after Open(): %v with %d", d.State(), d.NPC())
	}
	if d.Open(6) {
		t.Errorf("expected Open() for another NPC to be refused")
	}
	if !d.Open(5) {
		t.Errorf("expected Open() for the same NPC to succeed")
	}
}

func TestDialog_FailedRequestKeepsState(t *testing.T) {
	r := &recorder{}
	d := NewDialog(r)
	_ = d.Talk(1)
	d.ShowNext()

	r.err = errors.New("not connected")
	if err := d.Next(); err == nil {
		t.Fatalf("expected the request error to be returned")
	}
	if d.State() != Next {
		t.Errorf("expected the dialog to stay in Next, got %v", d.State())
	}
}

func TestDialog_AskIntegerClampsDefault(t *testing.T) {
	d := NewDialog(&recorder{})
	d.Open(1)
	d.AskInteger(10, 0, 20)

	min, max, def := d.IntegerBounds()
	if min != 0 || max != 10 || def != 10 {
		t.Errorf("unexpected bounds %d..%d default %d", min, max, def)
	}
}
