// Package reconcile is the Reflow engine: it keeps an externally-owned
// tree of native display nodes synchronized with the output of reactive
// computations, issuing the smallest sequence of host-tree mutations it
// can.
//
// The engine is generic over the node type N and talks to the tree only
// through host.Adapter[N]. It never allocates or inspects nodes itself,
// and compares them only by ==.
//
// # Entry Points
//
// New constructs a Renderer around an adapter. Render mounts a view under
// a root disposal scope. Insert and Reconcile are the reusable primitives
// higher-level constructs (conditionals, list views, portals) are built
// from:
//
//	r := reconcile.New(tree)
//	root := r.Render(body, func() any {
//	    return fmt.Sprintf("Count: %d", count.Get())
//	})
//	defer root.Dispose()
//
// A renderable value is nil (renders nothing), a bool (renders nothing),
// a string or numeric value (renders a text node), a node N, a []any
// mixing any of these, or a func() any producer of one. Producers are
// re-run reactively: the region they render is updated in place whenever
// a signal the producer read changes.
//
// # Regions and Markers
//
// Each dynamic position renders into a region: the contiguous run of
// sibling nodes it currently owns, ending at its marker. A marker is an
// ordinary node used purely as a positional anchor, so a region that is
// currently empty still knows where to insert. EnsureMarker creates a
// placeholder anchor for positions that may render zero or many nodes.
//
// # Destruction
//
// Nodes the renderer materialized are owned by it and destroyed - exactly
// once, child-first, after detaching - when their region replaces them or
// their owner is disposed. Destruction is deferred to the end of the
// current synchronous pass, so re-parenting a node within one turn never
// observes a spurious destroy. Embedder-supplied nodes are only ever
// detached.
//
// The renderer is not safe for concurrent use: reconciliation assumes
// single-writer access to the host tree.
package reconcile
