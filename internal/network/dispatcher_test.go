package network

import (
	"errors"
	"testing"

	"github.com/go-test/deep"

	"github.com/mana/mana-sub005/internal/protocol"
)

type recordingHandler struct {
	ids    []uint16
	seen   []uint16
	values []uint16
}

func (h *recordingHandler) MessageIDs() []uint16 { return h.ids }

func (h *recordingHandler) Handle(msg *protocol.MessageIn) error {
	h.seen = append(h.seen, msg.ID())
	if msg.Remaining() > 0 {
		h.values = append(h.values, msg.ReadUint16())
	}
	return nil
}

// sliceSource serves a fixed list of messages, then an optional error.
type sliceSource struct {
	messages []protocol.RawMessage
	err      error
}

func (s *sliceSource) Next() (protocol.RawMessage, bool, error) {
	if len(s.messages) == 0 {
		if s.err != nil {
			err := s.err
			s.err = nil
			return protocol.RawMessage{}, false, err
		}
		return protocol.RawMessage{}, false, nil
	}
	msg := s.messages[0]
	s.messages = s.messages[1:]
	return msg, true, nil
}

func TestDispatcher_Routing(t *testing.T) {
	d := NewDispatcher(streamProfile, &sliceSource{}, nil)
	h := &recordingHandler{ids: []uint16{5, 9}}
	other := &recordingHandler{ids: []uint16{7}}

	if err := d.Register(h); err != nil {
		t.Fatalf("Register() returned an unexpected error: %v", err)
	}
	if err := d.Register(other); err != nil {
		t.Fatalf("Register() returned an unexpected error: %v", err)
	}

	if err := d.Dispatch(protocol.RawMessage{ID: 9}); err != nil {
		t.Fatalf("Dispatch() returned an unexpected error: %v", err)
	}

	if diff := deep.Equal(h.seen, []uint16{9}); diff != nil {
		t.Errorf("unexpected messages for the registered handler: %v", diff)
	}
	if len(other.seen) != 0 {
		t.Errorf("expected the other handler to see nothing, got %v", other.seen)
	}
}

func TestDispatcher_UnknownID(t *testing.T) {
	d := NewDispatcher(streamProfile, &sliceSource{}, nil)
	h := &recordingHandler{ids: []uint16{5, 9}}
	_ = d.Register(h)

	if err := d.Dispatch(protocol.RawMessage{ID: 0xFFFF}); err != nil {
		t.Fatalf("Dispatch() returned an unexpected error: %v", err)
	}
	if len(h.seen) != 0 {
		t.Errorf("expected no handler calls, got %v", h.seen)
	}
}

func TestDispatcher_CollisionIsRejected(t *testing.T) {
	d := NewDispatcher(streamProfile, &sliceSource{}, nil)
	first := &recordingHandler{ids: []uint16{5, 9}}
	second := &recordingHandler{ids: []uint16{1, 9}}

	_ = d.Register(first)
	if err := d.Register(second); !errors.Is(err, ErrHandlerCollision) {
		t.Fatalf("expected ErrHandlerCollision, got %v", err)
	}
	// Nothing from the rejected handler may have been registered.
	if d.Handled(1) {
		t.Errorf("id 1 registered by a rejected handler")
	}

	_ = d.Dispatch(protocol.RawMessage{ID: 9})
	if len(first.seen) != 1 || len(second.seen) != 0 {
		t.Errorf("id 9 routed to the wrong handler: first=%v second=%v", first.seen, second.seen)
	}

	// Registering the same handler twice is not a collision.
	if err := d.Register(first); err != nil {
		t.Errorf("re-registering a handler returned %v", err)
	}
}

// idsHandler is a value handler whose type does not support ==.
type idsHandler struct {
	ids []uint16
}

func (h idsHandler) MessageIDs() []uint16                 { return h.ids }
func (h idsHandler) Handle(msg *protocol.MessageIn) error { return nil }

func TestDispatcher_ValueHandlers(t *testing.T) {
	d := NewDispatcher(streamProfile, &sliceSource{}, nil)
	first := idsHandler{ids: []uint16{5, 9}}

	if err := d.Register(first); err != nil {
		t.Fatalf("Register() returned an unexpected error: %v", err)
	}
	if err := d.Register(idsHandler{ids: []uint16{9}}); !errors.Is(err, ErrHandlerCollision) {
		t.Errorf("expected ErrHandlerCollision, got %v", err)
	}
	if err := d.Register(&recordingHandler{ids: []uint16{5}}); !errors.Is(err, ErrHandlerCollision) {
		t.Errorf("expected ErrHandlerCollision, got %v", err)
	}

	// A value handler cannot be matched again, so Unregister leaves it alone.
	d.Unregister(first)
	if !d.Handled(5) || !d.Handled(9) {
		t.Errorf("expected ids 5 and 9 to stay routed")
	}
}

func TestDispatcher_Unregister(t *testing.T) {
	d := NewDispatcher(streamProfile, &sliceSource{}, nil)
	h := &recordingHandler{ids: []uint16{5, 9}}
	_ = d.Register(h)
	d.Unregister(h)

	for _, id := range h.ids {
		if d.Handled(id) {
			t.Errorf("id %d still handled after Unregister", id)
		}
	}
	if err := d.Register(&recordingHandler{ids: []uint16{9}}); err != nil {
		t.Errorf("Register() after Unregister returned %v", err)
	}
}

func TestDispatcher_DispatchAll(t *testing.T) {
	source := &sliceSource{
		messages: []protocol.RawMessage{
			{ID: 5, Payload: []byte{0x01, 0x00}},
			{ID: 0xFFFF},
			// Too short for the u16 the handler reads; dropped.
			{ID: 9, Payload: []byte{0x02}},
			{ID: 9, Payload: []byte{0x03, 0x00}},
		},
	}
	d := NewDispatcher(streamProfile, source, nil)
	h := &recordingHandler{ids: []uint16{5, 9}}
	_ = d.Register(h)

	count, err := d.DispatchAll()
	if err != nil {
		t.Fatalf("DispatchAll() returned an unexpected error: %v", err)
	}
	if count != 4 {
		t.Errorf("expected 4 messages taken, got %d", count)
	}
	if diff := deep.Equal(h.seen, []uint16{5, 9, 9}); diff != nil {
		t.Errorf("unexpected handler calls: %v", diff)
	}
	if diff := deep.Equal(h.values, []uint16{1, 0, 3}); diff != nil {
		t.Errorf("unexpected decoded values: %v", diff)
	}
}

func TestDispatcher_DispatchAllStopsOnFramingError(t *testing.T) {
	source := &sliceSource{
		messages: []protocol.RawMessage{{ID: 5, Payload: []byte{0x01, 0x00}}},
		err:      ErrUnknownMessageLength,
	}
	d := NewDispatcher(streamProfile, source, nil)
	_ = d.Register(&recordingHandler{ids: []uint16{5}})

	count, err := d.DispatchAll()
	if !errors.Is(err, ErrUnknownMessageLength) {
		t.Fatalf("expected ErrUnknownMessageLength, got %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 message taken, got %d", count)
	}
}

func TestDispatcher_DispatchAllSkipsMalformedPackets(t *testing.T) {
	source := &sliceSource{
		err: protocol.ErrMalformedMessage,
	}
	d := NewDispatcher(packetProfile, source, nil)

	if _, err := d.DispatchAll(); err != nil {
		t.Fatalf("DispatchAll() returned an unexpected error: %v", err)
	}
}
