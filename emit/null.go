package emit

// NullEmitter implements Emitter by discarding all events.
//
// Use it when event emission is not desired; it is the default when a
// session is created without an emitter. Safe for concurrent use, zero
// overhead.
type NullEmitter struct{}

// NewNullEmitter creates a NullEmitter.
func NewNullEmitter() *NullEmitter {
	return &NullEmitter{}
}

// Emit discards the event.
func (n *NullEmitter) Emit(event Event) {}
