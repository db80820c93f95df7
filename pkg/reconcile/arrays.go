package reconcile

import (
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"

	"github.com/reflow-dev/reflow/pkg/host"
)

// Reconcile transforms the rendered sequence prev into the sequence
// described by values, mutating parent with as few host operations as it
// can, and returns the new node sequence. marker is the node terminating
// the region (zero means the region ends at parent's last child).
//
// Identity is positional and by reference: two values match only if they
// are the same node. Retained nodes whose relative order is preserved are
// never touched; the longest increasing run of retained positions is kept
// in place and everything else moves around it.
func (r *Renderer[N]) Reconcile(parent N, prev []N, values []any, marker N) []N {
	start := r.beginPass()
	defer r.endPass(start)
	span := r.startSpan("reflow.reconcile",
		attribute.Int("reflow.prev_len", len(prev)),
		attribute.Int("reflow.next_len", len(values)))
	defer endSpan(span)

	return r.reconcile(parent, prev, values, marker)
}

// reconcile is the internal entry, running inside an open pass.
func (r *Renderer[N]) reconcile(parent N, a []N, values []any, marker N) []N {
	b := r.normalize(values, a)

	// Fast paths, cheapest first.
	switch {
	case len(a) == 0 && len(b) == 0:
		return b
	case len(a) == 0:
		r.insertAll(parent, b, marker)
		return b
	case len(b) == 0:
		r.removeAll(parent, a)
		return b
	}

	if len(b) > len(a) && sameRun(a, b[:len(a)]) {
		// Pure append.
		r.insertAll(parent, b[len(a):], marker)
		return b
	}
	if len(b) < len(a) && sameRun(a[:len(b)], b) {
		// Pure truncate.
		r.removeAll(parent, a[len(b):])
		return b
	}

	// Collapse matching prefix and suffix runs.
	start := 0
	for start < len(a) && start < len(b) && a[start] == b[start] {
		start++
	}
	endA, endB := len(a), len(b)
	for endA > start && endB > start && a[endA-1] == b[endB-1] {
		endA--
		endB--
	}

	if start == endA && start == endB {
		return b
	}

	// The node the changed window sits immediately before.
	after := marker
	if endB < len(b) {
		after = b[endB]
	}

	switch {
	case start == endA:
		r.insertAll(parent, b[start:endB], after)
	case start == endB:
		r.removeAll(parent, a[start:endA])
	default:
		r.reconcileWindow(parent, a[start:endA], b[start:endB], after)
	}
	return b
}

// reconcileWindow diffs the changed middle window. Retained nodes on the
// longest increasing run of old positions stay put; the rest relocate,
// unmatched old nodes are removed and destroyed, unmatched new nodes are
// inserted.
func (r *Renderer[N]) reconcileWindow(parent N, aMid, bMid []N, after N) {
	// Positions of each value in the new window. Built back to front so
	// popping from the tail hands out the leftmost unclaimed position:
	// duplicates resolve first-available, left to right.
	index := make(map[N][]int, len(bMid))
	for j := len(bMid) - 1; j >= 0; j-- {
		index[bMid[j]] = append(index[bMid[j]], j)
	}

	// sources[j] is the old position of the node retained at new
	// position j, or -1 for freshly materialized nodes.
	sources := make([]int, len(bMid))
	for j := range sources {
		sources[j] = -1
	}

	for i, n := range aMid {
		q := index[n]
		if len(q) > 0 {
			j := q[len(q)-1]
			index[n] = q[:len(q)-1]
			sources[j] = i
		} else {
			// Gone from the sequence entirely.
			r.adapter.RemoveNode(parent, n)
			r.metrics.RecordRemove()
			r.destroyLater(n)
		}
	}

	keep := longestIncreasingRun(sources)

	next := after
	for j := len(bMid) - 1; j >= 0; j-- {
		n := bMid[j]
		switch {
		case sources[j] == -1:
			r.adapter.InsertNode(parent, n, next)
			r.metrics.RecordInsert()
		case !keep[j]:
			// Relocation; the adapter detaches and reinserts in one call.
			r.adapter.InsertNode(parent, n, next)
			r.metrics.RecordMove()
		}
		next = n
	}
}

// normalize materializes renderable values into nodes, reusing the node
// previously rendered at the same position where the kinds allow it:
// strings update a prior text node in place, empty slots (nil, bool) keep
// their prior placeholder. Nested sequences flatten.
func (r *Renderer[N]) normalize(values []any, prev []N) []N {
	out := make([]N, 0, len(values))
	for _, v := range values {
		v = resolve(v)
		idx := len(out)
		switch t := v.(type) {
		case nil:
			out = append(out, r.slotPlaceholder(prev, idx))
			continue
		case bool:
			out = append(out, r.slotPlaceholder(prev, idx))
			continue
		case string:
			out = append(out, r.slotText(prev, idx, t))
			continue
		case int:
			out = append(out, r.slotText(prev, idx, strconv.Itoa(t)))
			continue
		case int64:
			out = append(out, r.slotText(prev, idx, strconv.FormatInt(t, 10)))
			continue
		case float64:
			out = append(out, r.slotText(prev, idx, strconv.FormatFloat(t, 'f', -1, 64)))
			continue
		case []any:
			var rest []N
			if idx < len(prev) {
				rest = prev[idx:]
			}
			out = append(out, r.normalize(t, rest)...)
			continue
		}
		if n, ok := v.(N); ok {
			out = append(out, n)
			continue
		}
		panic(fmt.Sprintf("[REFLOW E001] unsupported renderable value of type %T in sequence", v))
	}
	return out
}

// slotText reuses the owned text node previously at this position,
// updating its content in place, or materializes a fresh one.
func (r *Renderer[N]) slotText(prev []N, idx int, text string) N {
	if idx < len(prev) {
		if p := prev[idx]; p != r.zero && r.owned[p] && !r.placeholders[p] && r.adapter.IsTextNode(p) {
			r.setText(p, text)
			return p
		}
	}
	return r.createText(text)
}

// slotPlaceholder reuses the placeholder previously at this position or
// materializes a fresh sequence-context one. Placeholders carry the
// "always empty" identity, so an empty slot keeps a stable anchor.
func (r *Renderer[N]) slotPlaceholder(prev []N, idx int) N {
	if idx < len(prev) && r.placeholders[prev[idx]] {
		return prev[idx]
	}
	ph := r.adapter.CreatePlaceholder(host.PlaceholderSequence)
	r.owned[ph] = true
	r.placeholders[ph] = true
	return ph
}

// insertAll inserts nodes in order, each immediately before anchor.
func (r *Renderer[N]) insertAll(parent N, nodes []N, anchor N) {
	for _, n := range nodes {
		r.adapter.InsertNode(parent, n, anchor)
		r.metrics.RecordInsert()
	}
}

// removeAll detaches nodes and queues owned ones for destruction.
func (r *Renderer[N]) removeAll(parent N, nodes []N) {
	for _, n := range nodes {
		r.adapter.RemoveNode(parent, n)
		r.metrics.RecordRemove()
		r.destroyLater(n)
	}
}

// sameRun reports whether two equal-length node runs are identical.
func sameRun[N comparable](a, b []N) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// longestIncreasingRun marks the positions forming the longest strictly
// increasing run of retained old positions. Everything marked needs zero
// moves; this is the minimum-relocation guarantee for a positional diff.
// O(n log n) patience sort over the non-negative entries.
func longestIncreasingRun(sources []int) []bool {
	keep := make([]bool, len(sources))
	preds := make([]int, len(sources))
	var tails []int // tails[k] = position of smallest tail of a run of length k+1

	for j, v := range sources {
		if v == -1 {
			preds[j] = -1
			continue
		}
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if sources[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			preds[j] = tails[lo-1]
		} else {
			preds[j] = -1
		}
		if lo == len(tails) {
			tails = append(tails, j)
		} else {
			tails[lo] = j
		}
	}

	if len(tails) == 0 {
		return keep
	}
	for j := tails[len(tails)-1]; j != -1; j = preds[j] {
		keep[j] = true
	}
	return keep
}
