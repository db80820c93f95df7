package reactive

// Listener is anything that can be notified when a dependency changes.
// Effects and memos implement it; the reconciler's render computations are
// effects underneath.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies changed.
	// For effects this re-runs the effect synchronously (or queues it when
	// a batch is open). For memos this invalidates the cached value.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication during batch processing.
	ID() uint64
}

// Cleanup is a function returned by effects to release resources.
// It is called before the effect re-runs and when the effect is disposed.
type Cleanup func()
