package session

import (
	"go.uber.org/zap"

	"github.com/angrysky56/esaf-framework-sub001/internal/dataset"
)

// EventKind names a session mutation.
type EventKind string

const (
	EventIngest EventKind = "ingest"
	EventRemove EventKind = "remove"
	EventResult EventKind = "result"
	EventClear  EventKind = "clear"
)

// Event describes one session mutation. Item is set for ingest and remove,
// Agent for result.
type Event struct {
	Kind  EventKind
	Item  *dataset.Item
	Agent string
}

type listener struct {
	id int
	fn func(Event)
}

// Subscribe registers a listener and returns its cancel function. Fan-out is
// synchronous, in registration order, after the mutation is applied. A
// panicking listener is recovered and logged; it never affects the mutation
// or the other listeners.
func (s *Session) Subscribe(fn func(Event)) func() {
	id := s.nextListener
	s.nextListener++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Session) notify(ev Event) {
	for _, l := range s.listeners {
		s.dispatch(l, ev)
	}
}

func (s *Session) dispatch(l listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("listener panicked",
				zap.Int("listener", l.id),
				zap.String("event", string(ev.Kind)),
				zap.Any("panic", r))
		}
	}()
	l.fn(ev)
}
