package network

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/mana/mana-sub005/internal/protocol"
)

// ErrHandlerCollision is returned by Register when one of the handler's ids
// is already claimed by another handler.
var ErrHandlerCollision = errors.New("message id already handled")

// Handler reacts to one or more message ids. Handlers are usually pointers;
// values of types that cannot be compared are never considered the same
// handler twice.
type Handler interface {
	// MessageIDs lists the ids routed to the handler.
	MessageIDs() []uint16
	// Handle decodes and reacts to one message. It runs on the main loop
	// and must not block.
	Handle(msg *protocol.MessageIn) error
}

// MessageSource yields complete inbound messages. Connection implements it.
type MessageSource interface {
	Next() (protocol.RawMessage, bool, error)
}

// Dispatcher routes messages from one link to the registered handlers.
type Dispatcher struct {
	profile  *protocol.Profile
	source   MessageSource
	logger   *logrus.Logger
	handlers map[uint16]Handler
}

func NewDispatcher(p *protocol.Profile, source MessageSource, logger *logrus.Logger) *Dispatcher {
	if logger == nil {
		logger = discardLogger()
	}
	return &Dispatcher{
		profile:  p,
		source:   source,
		logger:   logger,
		handlers: make(map[uint16]Handler),
	}
}

// Register routes every id of h to it. If any id is already taken nothing
// is registered.
func (d *Dispatcher) Register(h Handler) error {
	for _, id := range h.MessageIDs() {
		if existing, ok := d.handlers[id]; ok && !sameHandler(existing, h) {
			d.logger.Errorf("handler collision on %s: %T already registered, rejecting %T",
				d.profile.MessageName(id), existing, h)
			return fmt.Errorf("%w: %s", ErrHandlerCollision, d.profile.MessageName(id))
		}
	}
	for _, id := range h.MessageIDs() {
		d.handlers[id] = h
	}
	return nil
}

// Unregister removes every id currently routed to h.
func (d *Dispatcher) Unregister(h Handler) {
	for id, registered := range d.handlers {
		if sameHandler(registered, h) {
			delete(d.handlers, id)
		}
	}
}

// sameHandler compares handlers without panicking on types that do not
// support ==.
func sameHandler(a, b Handler) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// Handled reports whether id has a handler.
func (d *Dispatcher) Handled(id uint16) bool {
	_, ok := d.handlers[id]
	return ok
}

// Dispatch routes a single message. Unknown ids are discarded without error.
func (d *Dispatcher) Dispatch(raw protocol.RawMessage) error {
	h, ok := d.handlers[raw.ID]
	if !ok {
		return nil
	}

	msg := protocol.NewMessageIn(d.profile, raw)
	err := h.Handle(msg)
	if err == nil {
		err = msg.Err()
	}
	if err != nil {
		return fmt.Errorf("handling %s: %w", d.profile.MessageName(raw.ID), err)
	}
	return nil
}

// DispatchAll drains every complete message from the source and returns how
// many were taken. Handler failures only drop the message they occurred in;
// a framing error from the source ends the drain and is returned.
func (d *Dispatcher) DispatchAll() (int, error) {
	count := 0
	for {
		raw, ok, err := d.source.Next()
		if err != nil {
			if errors.Is(err, protocol.ErrMalformedMessage) {
				d.logger.Warnf("dropping packet: %v", err)
				continue
			}
			return count, err
		}
		if !ok {
			return count, nil
		}

		count++
		if err := d.Dispatch(raw); err != nil {
			if errors.Is(err, protocol.ErrMalformedMessage) {
				d.logger.Warnf("dropping malformed message: %v", err)
			} else {
				d.logger.Errorf("%v", err)
			}
		}
	}
}
