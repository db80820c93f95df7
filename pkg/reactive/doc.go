// Package reactive provides the fine-grained reactive substrate for Reflow.
//
// Dependencies are tracked automatically at runtime: reading a signal while
// a computation is executing subscribes that computation to the signal's
// changes. When a tracked value changes, dependent computations re-run
// synchronously, in the same call stack as the write (push-based, not
// polled). This synchronous contract is what the reconciler relies on: by
// the time Set returns, every region whose content depended on the old
// value has been brought up to date.
//
// # Core Types
//
// Signal[T] is a reactive value container:
//
//	count := NewSignal(0)
//	value := count.Get()  // Read (subscribes current listener)
//	count.Set(5)          // Write (re-runs subscribed effects before returning)
//
// Memo[T] is a cached derived computation:
//
//	doubled := NewMemo(func() int { return count.Get() * 2 })
//
// Effect is the computation abstraction. It runs immediately on creation
// and re-runs whenever a signal or memo it read changes:
//
//	CreateEffect(func() Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return func() { /* cleanup before re-run or dispose */ }
//	})
//
// # Disposal Scopes
//
// Every effect belongs to an Owner. Disposing an Owner synchronously stops
// its effects from re-running, disposes child owners in reverse creation
// order, and runs registered cleanups exactly once. The reconciler uses
// owners as the lifetime boundary for rendered regions.
//
// # Batching
//
// Batch groups multiple signal writes into a single notification phase:
//
//	Batch(func() {
//	    a.Set(1)
//	    b.Set(2)
//	})  // Dependents re-run once, after both writes
//
// # Thread Safety
//
// The primitives are safe for concurrent use, but the tracking context is
// per-goroutine: computations established on one goroutine do not track
// reads performed on another. Use WithOwner to propagate ownership into a
// spawned goroutine.
package reactive
