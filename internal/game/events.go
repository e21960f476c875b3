package game

import "github.com/go-gl/mathgl/mgl64"

type EventType int

const (
	EventFiringStarted EventType = iota
	EventFiringStopped
	EventAnchorReady
	EventStructureReady
)

type Event struct {
	Type  EventType
	Tick  int64
	Pos   mgl64.Vec3
	Value float64 // generic payload (e.g. beam intensity)
}

type EventHandler func(Event)

// EventBus fans tick-loop events out to shells (audio, camera shake). Handlers
// run synchronously on the tick goroutine.
type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

func (eb *EventBus) Emit(e Event) {
	if eb == nil {
		return
	}
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}
