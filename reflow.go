// Package reflow is a reconciliation engine: it keeps an externally-owned
// tree of native display nodes synchronized with reactive state, issuing
// the minimal sequence of host mutations it can.
//
// The engine never talks to a concrete UI technology. Embedders supply a
// host.Adapter for their node type; pkg/host/memhost ships an in-memory
// backend used by the tests, the demo CLI and the inspection server.
//
//	tree := memhost.New("div")
//	r := reflow.New[memhost.Handle](tree)
//
//	body := tree.CreateElement("div")
//	count := reactive.NewSignal(0)
//
//	root := r.Render(body, func() any {
//	    return fmt.Sprintf("Count: %d", count.Get())
//	})
//	defer root.Dispose()
//
//	count.Set(1) // one in-place text replacement, nothing else
//
// The subpackages carry the engine: pkg/reactive (signals, memos,
// effects, disposal scopes), pkg/host (the adapter contract), and
// pkg/reconcile (the renderer). This package only re-exports the entry
// point under the module's name.
package reflow

import (
	"github.com/reflow-dev/reflow/pkg/host"
	"github.com/reflow-dev/reflow/pkg/reconcile"
)

// New creates a reconcile.Renderer over the given adapter.
func New[N comparable](adapter host.Adapter[N], opts ...reconcile.Option[N]) *reconcile.Renderer[N] {
	return reconcile.New(adapter, opts...)
}
