package memhost

import (
	"fmt"
	"strings"
)

// Children returns the ordered child handles of parent.
func (t *Tree) Children(parent Handle) []Handle {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []Handle
	for c := t.get(parent).firstChild; c != 0; c = t.get(c).nextSibling {
		out = append(out, c)
	}
	return out
}

// Text returns a text node's content.
func (t *Tree) Text(h Handle) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.get(h).text
}

// Tag returns an element node's tag.
func (t *Tree) Tag(h Handle) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.get(h).tag
}

// Field returns a node's field value, or nil.
func (t *Tree) Field(h Handle, name string) any {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.get(h).fields[name]
}

// EventHandler returns the handler subscribed under name, or nil.
func (t *Tree) EventHandler(h Handle, name string) any {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.get(h).events[name]
}

// Alive reports whether h addresses a live (not destroyed) node.
func (t *Tree) Alive(h Handle) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if h == 0 || int(h) > len(t.nodes) {
		return false
	}
	return t.nodes[h-1].alive
}

// Dispatch invokes the handler subscribed to an event on h, if any.
// Handlers may be func() or func(any). The handler runs outside the tree
// lock: dispatching typically mutates the tree.
func (t *Tree) Dispatch(h Handle, name string, payload any) bool {
	handler := func() any {
		t.mu.RLock()
		defer t.mu.RUnlock()
		return t.get(h).events[name]
	}()
	switch fn := handler.(type) {
	case func():
		fn()
		return true
	case func(any):
		fn(payload)
		return true
	default:
		return false
	}
}

// Render flattens a subtree to a string: text nodes render their content,
// placeholders render nothing, elements render <tag>children</tag>.
func (t *Tree) Render(h Handle) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var b strings.Builder
	t.render(h, &b)
	return b.String()
}

func (t *Tree) render(h Handle, b *strings.Builder) {
	n := t.get(h)
	switch n.kind {
	case kindText:
		b.WriteString(n.text)
	case kindAnchor:
		// renders nothing
	case kindElement:
		fmt.Fprintf(b, "<%s>", n.tag)
		for c := n.firstChild; c != 0; c = t.get(c).nextSibling {
			t.render(c, b)
		}
		fmt.Fprintf(b, "</%s>", n.tag)
	}
}

// NodeSnapshot is a JSON-able view of one node, used by the inspector.
type NodeSnapshot struct {
	Handle   Handle         `json:"handle"`
	Kind     string         `json:"kind"`
	Tag      string         `json:"tag,omitempty"`
	Text     string         `json:"text,omitempty"`
	Fields   map[string]any `json:"fields,omitempty"`
	Events   []string       `json:"events,omitempty"`
	Children []NodeSnapshot `json:"children,omitempty"`
}

// Snapshot returns the forest of live root nodes as nested snapshots.
// Safe to call from inspector goroutines while the engine mutates.
func (t *Tree) Snapshot() any {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var roots []NodeSnapshot
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.alive && n.parent == 0 {
			roots = append(roots, t.snapshot(Handle(i+1)))
		}
	}
	return roots
}

func (t *Tree) snapshot(h Handle) NodeSnapshot {
	n := t.get(h)
	s := NodeSnapshot{Handle: h, Tag: n.tag, Text: n.text}
	switch n.kind {
	case kindElement:
		s.Kind = "element"
	case kindText:
		s.Kind = "text"
	case kindAnchor:
		s.Kind = "placeholder"
	}
	if len(n.fields) > 0 {
		s.Fields = make(map[string]any, len(n.fields))
		for k, v := range n.fields {
			s.Fields[k] = v
		}
	}
	for name := range n.events {
		s.Events = append(s.Events, name)
	}
	for c := n.firstChild; c != 0; c = t.get(c).nextSibling {
		s.Children = append(s.Children, t.snapshot(c))
	}
	return s
}

// Ops returns a copy of the operation log.
func (t *Tree) Ops() []Op {
	t.opsMu.Lock()
	defer t.opsMu.Unlock()
	out := make([]Op, len(t.ops))
	copy(out, t.ops)
	return out
}

// ResetOps clears the operation log. Tests call this after setup so
// assertions only see the operations under test.
func (t *Tree) ResetOps() {
	t.opsMu.Lock()
	t.ops = nil
	t.opsMu.Unlock()
}

// CountOps returns how many logged operations have the given kind.
func (t *Tree) CountOps(kind OpKind) int {
	t.opsMu.Lock()
	defer t.opsMu.Unlock()
	count := 0
	for _, op := range t.ops {
		if op.Kind == kind {
			count++
		}
	}
	return count
}
