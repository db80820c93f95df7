package reconcile

import (
	"strings"

	"github.com/reflow-dev/reflow/pkg/reactive"
)

// isEventProp reports whether a property name addresses an event
// subscription slot. Matching is case-insensitive on the "on" prefix.
func isEventProp(name string) bool {
	return len(name) > 2 && strings.EqualFold(name[:2], "on")
}

// ApplyProperty writes one property to a node through the adapter and
// retains the applied value for the next diff. Three kinds of name are
// recognized:
//
//   - event names ("on" prefix): the adapter swaps the subscription in a
//     single call, receiving both the new handler and the one it replaces
//   - "style": a map[string]any value fans out to one "style.<key>" write
//     per entry, diffed against the previously applied style map
//   - everything else: a plain field write
//
// The value is always forwarded, even when equal to the retained one; the
// host decides whether a rewrite is observable. Passing nil clears the
// property.
func (r *Renderer[N]) ApplyProperty(node N, name string, value any) {
	prev := r.retainedProp(node, name)
	if name == "style" {
		r.applyStyle(node, value, prev)
	} else {
		r.adapter.SetProperty(node, name, value, prev)
	}
	r.rememberProp(node, name, value)
}

// SpreadProps applies a whole property set at once, diffing it against
// the set previously spread onto the node. Properties present before but
// absent now are cleared first, then every current entry is applied.
// Event subscriptions swap atomically per slot; a handler is never left
// dangling and never doubled.
func (r *Renderer[N]) SpreadProps(node N, props map[string]any) {
	retained := r.props[node]
	for name := range retained {
		if _, ok := props[name]; !ok {
			r.ApplyProperty(node, name, nil)
		}
	}
	for name, value := range props {
		r.ApplyProperty(node, name, value)
	}
}

// BindProperty wires a producer to one property: the property is
// reapplied whenever a dependency of the producer changes. The binding
// lives as long as the current disposal scope.
func (r *Renderer[N]) BindProperty(node N, name string, producer func() any) {
	reactive.CreateEffect(func() reactive.Cleanup {
		r.ApplyProperty(node, name, resolve(producer))
		return nil
	})
}

// BindProps wires a producer of a whole property set, spreading its
// result on every change.
func (r *Renderer[N]) BindProps(node N, producer func() map[string]any) {
	reactive.CreateEffect(func() reactive.Cleanup {
		r.SpreadProps(node, producer())
		return nil
	})
}

// applyStyle fans a style map out to per-key writes. Keys are written as
// "style.<key>" fields; style keys never reclassify as events. Keys in
// the previous map but not the new one are cleared.
func (r *Renderer[N]) applyStyle(node N, value, prev any) {
	next, _ := value.(map[string]any)
	old, _ := prev.(map[string]any)

	for key := range old {
		if _, ok := next[key]; !ok {
			r.adapter.SetProperty(node, "style."+key, nil, old[key])
		}
	}
	for key, v := range next {
		r.adapter.SetProperty(node, "style."+key, v, old[key])
	}
}

// retainedProp returns the value last applied for (node, name), nil if
// none.
func (r *Renderer[N]) retainedProp(node N, name string) any {
	if retained := r.props[node]; retained != nil {
		return retained[name]
	}
	return nil
}

// rememberProp retains the applied value so the next application and the
// node's eventual destruction see the correct previous value. A nil value
// drops the retention entry.
func (r *Renderer[N]) rememberProp(node N, name string, value any) {
	retained := r.props[node]
	if value == nil {
		if retained != nil {
			delete(retained, name)
			if len(retained) == 0 {
				delete(r.props, node)
			}
		}
		return
	}
	if retained == nil {
		retained = make(map[string]any)
		r.props[node] = retained
	}
	retained[name] = value
}
