package game

// Deferred is a one-shot slot filled by background setup and polled by the
// tick loop. Resolve may be called from any goroutine; Poll never blocks.
type Deferred[T any] struct {
	ch    chan T
	val   T
	ready bool
}

func NewDeferred[T any]() *Deferred[T] {
	return &Deferred[T]{ch: make(chan T, 1)}
}

// Resolved returns a slot that is already filled with v.
func Resolved[T any](v T) *Deferred[T] {
	d := NewDeferred[T]()
	d.Resolve(v)
	return d
}

// Resolve fills the slot. Only the first call has an effect.
func (d *Deferred[T]) Resolve(v T) {
	select {
	case d.ch <- v:
	default:
	}
}

// Poll reports the value once it has arrived. Must only be called from the
// owning (tick) goroutine.
func (d *Deferred[T]) Poll() (T, bool) {
	if d == nil {
		var zero T
		return zero, false
	}
	if !d.ready {
		select {
		case v := <-d.ch:
			d.val = v
			d.ready = true
		default:
		}
	}
	return d.val, d.ready
}
