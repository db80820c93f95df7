package reconcile

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/reflow-dev/reflow/pkg/host"
	"github.com/reflow-dev/reflow/pkg/metrics"
	"github.com/reflow-dev/reflow/pkg/reactive"
)

// Renderer drives reconciliation against one host tree.
type Renderer[N comparable] struct {
	adapter host.Adapter[N]

	// destroyer is the adapter's destroy capability, nil if absent.
	destroyer host.NodeDestroyer[N]

	// zero is the reserved "no node" value of N.
	zero N

	// owned marks nodes this renderer materialized and must destroy.
	owned map[N]bool

	// placeholders marks owned nodes that are placeholder anchors.
	placeholders map[N]bool

	// props retains the last-applied value per (node, property) pair.
	props map[N]map[string]any

	// texts retains the last text written to each owned text node, so a
	// re-render to the same string issues no ReplaceText.
	texts map[N]string

	// destroyQueue holds nodes whose destruction is deferred to the end
	// of the current pass. depth tracks pass nesting.
	destroyQueue []N
	depth        int

	metrics *metrics.Reconciler
	tracer  trace.Tracer
}

// Option configures a Renderer.
type Option[N comparable] func(*Renderer[N])

// WithMetrics instruments the renderer with Prometheus metrics.
func WithMetrics[N comparable](m *metrics.Reconciler) Option[N] {
	return func(r *Renderer[N]) {
		r.metrics = m
	}
}

// WithTracer records a span per top-level reconciliation pass.
func WithTracer[N comparable](tracer trace.Tracer) Option[N] {
	return func(r *Renderer[N]) {
		r.tracer = tracer
	}
}

// New creates a Renderer over the given adapter.
func New[N comparable](adapter host.Adapter[N], opts ...Option[N]) *Renderer[N] {
	r := &Renderer[N]{
		adapter:      adapter,
		owned:        make(map[N]bool),
		placeholders: make(map[N]bool),
		props:        make(map[N]map[string]any),
		texts:        make(map[N]string),
	}
	if d, ok := adapter.(host.NodeDestroyer[N]); ok {
		r.destroyer = d
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Adapter returns the adapter the renderer mutates through.
func (r *Renderer[N]) Adapter() host.Adapter[N] {
	return r.adapter
}

// Render mounts view into parent under a fresh root disposal scope and
// returns the scope. Disposing it stops every computation the view
// created and destroys every node the renderer materialized for it.
func (r *Renderer[N]) Render(parent N, view any) *reactive.Owner {
	return reactive.CreateRoot(func() {
		r.Insert(parent, view, r.zero, nil)
	})
}

// CreateElement creates an element through the adapter and marks it owned
// by the renderer, so region teardown destroys it. Embedders building
// region content they want the engine to manage use this instead of
// calling the adapter directly.
func (r *Renderer[N]) CreateElement(tag string) N {
	n := r.adapter.CreateElement(tag)
	r.owned[n] = true
	return n
}

// CreateTextNode creates an owned text node.
func (r *Renderer[N]) CreateTextNode(text string) N {
	return r.createText(text)
}

// EnsureMarker creates a placeholder anchor and appends it to parent.
// Reactive positions that may render zero or many nodes use the returned
// node as their marker, so insertion position stays well-defined even for
// an empty region.
func (r *Renderer[N]) EnsureMarker(parent N, ctx host.PlaceholderContext) N {
	ph := r.adapter.CreatePlaceholder(ctx)
	r.owned[ph] = true
	r.placeholders[ph] = true
	r.adapter.InsertNode(parent, ph, r.zero)
	return ph
}

// createText materializes an owned text node and records its content.
func (r *Renderer[N]) createText(text string) N {
	n := r.adapter.CreateTextNode(text)
	r.owned[n] = true
	r.texts[n] = text
	return n
}

// setText updates an owned text node in place, skipping the host call
// when the content is unchanged.
func (r *Renderer[N]) setText(n N, text string) {
	if prev, ok := r.texts[n]; ok && prev == text {
		return
	}
	r.adapter.ReplaceText(n, text)
	r.texts[n] = text
	r.metrics.RecordTextUpdate()
}

// beginPass opens a (possibly nested) mutation pass.
func (r *Renderer[N]) beginPass() time.Time {
	r.depth++
	return time.Now()
}

// endPass closes a mutation pass. When the outermost pass completes, the
// deferred destroy queue drains: this is the end of the synchronous turn.
func (r *Renderer[N]) endPass(start time.Time) {
	r.depth--
	if r.depth == 0 {
		r.drainDestroyQueue()
		r.metrics.RecordPass(time.Since(start))
	}
}

// destroyLater queues an owned node for destruction at end of turn.
// Nodes the renderer does not own are never destroyed, only detached.
func (r *Renderer[N]) destroyLater(n N) {
	if !r.owned[n] {
		return
	}
	r.destroyQueue = append(r.destroyQueue, n)
}

// drainDestroyQueue destroys queued nodes. A node that was re-attached
// during the same turn is rescued: it keeps living wherever it moved.
func (r *Renderer[N]) drainDestroyQueue() {
	for len(r.destroyQueue) > 0 {
		queue := r.destroyQueue
		r.destroyQueue = nil
		for _, n := range queue {
			if !r.owned[n] {
				// Already destroyed earlier in this drain.
				continue
			}
			if r.adapter.ParentNode(n) != r.zero {
				// Re-parented within the turn; not garbage after all.
				continue
			}
			r.destroyNode(n)
		}
	}
}

// destroyNode destroys an owned node: detach, recurse child-first,
// unsubscribe retained event handlers, clear retained state, then hand
// the slot back to the adapter. Clearing ownership up front makes
// double-destroy structurally impossible.
func (r *Renderer[N]) destroyNode(n N) {
	if !r.owned[n] {
		return
	}
	delete(r.owned, n)

	if p := r.adapter.ParentNode(n); p != r.zero {
		r.adapter.RemoveNode(p, n)
		r.metrics.RecordRemove()
	}

	for c := r.adapter.FirstChild(n); c != r.zero; {
		next := r.adapter.NextSibling(c)
		r.adapter.RemoveNode(n, c)
		r.destroyNode(c)
		c = next
	}

	if retained := r.props[n]; retained != nil {
		for name, prev := range retained {
			if isEventProp(name) && prev != nil {
				r.adapter.SetProperty(n, name, nil, prev)
			}
		}
		delete(r.props, n)
	}
	delete(r.placeholders, n)
	delete(r.texts, n)

	if r.destroyer != nil {
		r.destroyer.DestroyNode(n)
	}
	r.metrics.RecordDestroy()
}

// startSpan opens a tracing span when a tracer is configured.
func (r *Renderer[N]) startSpan(name string, attrs ...attribute.KeyValue) trace.Span {
	if r.tracer == nil {
		return nil
	}
	_, span := r.tracer.Start(context.Background(), name,
		trace.WithAttributes(attrs...))
	return span
}

func endSpan(span trace.Span) {
	if span != nil {
		span.End()
	}
}
