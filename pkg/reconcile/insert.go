package reconcile

import (
	"fmt"
	"strconv"

	"github.com/reflow-dev/reflow/pkg/reactive"
)

// holder carries the rendered region for one insert position across
// producer re-runs and owner disposal.
type holder[N comparable] struct {
	current any
}

// Insert renders value into parent immediately before marker and returns
// the rendered region: nil (empty), a single node N, or an ordered []N.
//
// A plain value is materialized once. A func() any producer is wrapped in
// a reactive computation that re-renders the region whenever a dependency
// changes; nested producers (a producer returning another producer) are
// flattened, keeping a single marker for the position. current is the
// previously rendered region for this position, or nil.
//
// A zero marker means the region ends at parent's last child.
func (r *Renderer[N]) Insert(parent N, value any, marker N, current any) any {
	if producer, ok := value.(func() any); ok {
		return r.insertDynamic(parent, producer, marker, current)
	}

	start := r.beginPass()
	defer r.endPass(start)
	span := r.startSpan("reflow.insert")
	defer endSpan(span)

	result := r.insertExpression(parent, value, current, marker)
	r.bindRegion(parent, &holder[N]{current: result})
	return result
}

// insertDynamic wraps a producer in a computation re-running the insert.
func (r *Renderer[N]) insertDynamic(parent N, producer func() any, marker N, current any) any {
	h := &holder[N]{current: current}
	owner := reactive.CurrentOwner()

	reactive.CreateEffect(func() reactive.Cleanup {
		// Re-runs arrive from arbitrary call stacks; restore the scope the
		// position was created under so nested computations land in it.
		reactive.WithOwner(owner, func() {
			start := r.beginPass()
			defer r.endPass(start)
			span := r.startSpan("reflow.insert")
			defer endSpan(span)

			h.current = r.insertExpression(parent, resolve(producer), h.current, marker)
		})
		return nil
	})

	r.bindRegion(parent, h)
	return h.current
}

// bindRegion ties a region's lifetime to the current disposal scope.
func (r *Renderer[N]) bindRegion(parent N, h *holder[N]) {
	owner := reactive.CurrentOwner()
	if owner == nil {
		return
	}
	owner.OnCleanup(func() {
		start := r.beginPass()
		r.removeRegion(parent, h.current)
		h.current = nil
		r.endPass(start)
	})
}

// resolve flattens chained producers down to a concrete renderable value.
// Reads performed by every level are tracked by the enclosing computation.
func resolve(value any) any {
	for {
		producer, ok := value.(func() any)
		if !ok {
			return value
		}
		value = producer()
	}
}

// insertExpression renders one value into the region currently holding
// current, reusing nodes where the value kind allows it.
func (r *Renderer[N]) insertExpression(parent N, value, current any, marker N) any {
	switch v := value.(type) {
	case nil:
		return r.cleanRegion(parent, current)
	case bool:
		// Booleans render nothing, matching the treatment of nil.
		return r.cleanRegion(parent, current)
	case string:
		return r.insertText(parent, v, current, marker)
	case int:
		return r.insertText(parent, strconv.Itoa(v), current, marker)
	case int8:
		return r.insertText(parent, strconv.FormatInt(int64(v), 10), current, marker)
	case int16:
		return r.insertText(parent, strconv.FormatInt(int64(v), 10), current, marker)
	case int32:
		return r.insertText(parent, strconv.FormatInt(int64(v), 10), current, marker)
	case int64:
		return r.insertText(parent, strconv.FormatInt(v, 10), current, marker)
	case uint:
		return r.insertText(parent, strconv.FormatUint(uint64(v), 10), current, marker)
	case uint8:
		return r.insertText(parent, strconv.FormatUint(uint64(v), 10), current, marker)
	case uint16:
		return r.insertText(parent, strconv.FormatUint(uint64(v), 10), current, marker)
	case uint32:
		return r.insertText(parent, strconv.FormatUint(uint64(v), 10), current, marker)
	case uint64:
		return r.insertText(parent, strconv.FormatUint(v, 10), current, marker)
	case float32:
		return r.insertText(parent, strconv.FormatFloat(float64(v), 'f', -1, 32), current, marker)
	case float64:
		return r.insertText(parent, strconv.FormatFloat(v, 'f', -1, 64), current, marker)
	case []any:
		return r.insertArray(parent, v, current, marker)
	}

	if n, ok := value.(N); ok {
		return r.insertNodeValue(parent, n, current, marker)
	}
	if nodes, ok := value.([]N); ok {
		values := make([]any, len(nodes))
		for i, n := range nodes {
			values[i] = n
		}
		return r.insertArray(parent, values, current, marker)
	}
	if producer, ok := value.(func() any); ok {
		return r.insertExpression(parent, resolve(producer), current, marker)
	}

	panic(fmt.Sprintf("[REFLOW E001] unsupported renderable value of type %T", value))
}

// insertText renders a string region. A region already holding a single
// text node is updated in place; anything else is replaced wholesale.
func (r *Renderer[N]) insertText(parent N, text string, current any, marker N) any {
	if n, ok := current.(N); ok && n != r.zero && r.adapter.IsTextNode(n) {
		r.setText(n, text)
		return n
	}
	return r.replaceRegion(parent, current, marker, r.createText(text))
}

// insertNodeValue renders a single-node region.
func (r *Renderer[N]) insertNodeValue(parent N, n N, current any, marker N) any {
	if cur, ok := current.(N); ok && cur == n {
		return n
	}
	return r.replaceRegion(parent, current, marker, n)
}

// insertArray renders a sequence region via the array reconciler.
func (r *Renderer[N]) insertArray(parent N, values []any, current any, marker N) any {
	prev := r.regionNodes(current)
	nodes := r.reconcile(parent, prev, values, marker)
	if len(nodes) == 0 {
		return nil
	}
	return nodes
}

// cleanRegion empties a region, deferring destruction of owned nodes.
// The region's marker stays behind as the anchor for future content.
func (r *Renderer[N]) cleanRegion(parent N, current any) any {
	r.removeRegion(parent, current)
	return nil
}

// replaceRegion swaps the whole region for a single replacement node,
// inserted at the region's position before the old content is removed.
func (r *Renderer[N]) replaceRegion(parent N, current any, marker N, replacement N) any {
	anchor := r.regionAnchor(parent, current, marker)
	r.adapter.InsertNode(parent, replacement, anchor)
	r.metrics.RecordInsert()
	r.removeRegion(parent, current)
	return replacement
}

// regionAnchor returns the node new content should be inserted before:
// the first still-attached node of the old region, else the marker.
func (r *Renderer[N]) regionAnchor(parent N, current any, marker N) N {
	for _, n := range r.regionNodes(current) {
		if r.adapter.ParentNode(n) == parent {
			return n
		}
	}
	return marker
}

// removeRegion detaches every node of a region and queues owned ones for
// end-of-turn destruction.
func (r *Renderer[N]) removeRegion(parent N, current any) {
	for _, n := range r.regionNodes(current) {
		if r.adapter.ParentNode(n) == parent {
			r.adapter.RemoveNode(parent, n)
			r.metrics.RecordRemove()
		}
		r.destroyLater(n)
	}
}

// regionNodes flattens a rendered region into its node list.
func (r *Renderer[N]) regionNodes(current any) []N {
	switch c := current.(type) {
	case nil:
		return nil
	case []N:
		return c
	}
	if n, ok := current.(N); ok && n != r.zero {
		return []N{n}
	}
	return nil
}
