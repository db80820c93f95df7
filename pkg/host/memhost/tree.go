package memhost

import (
	"fmt"
	"strings"
	"sync"

	"github.com/reflow-dev/reflow/pkg/host"
)

// Handle addresses a node in the arena. The zero Handle is "no node".
type Handle uint32

// nodeKind discriminates arena node types.
type nodeKind uint8

const (
	kindElement nodeKind = iota + 1
	kindText
	kindAnchor
)

// node is one arena slot. Linkage is stored as handle indices so the arena
// never holds mutual owning references.
type node struct {
	kind nodeKind
	tag  string
	text string

	parent      Handle
	firstChild  Handle
	lastChild   Handle
	nextSibling Handle
	prevSibling Handle

	fields map[string]any
	events map[string]any

	alive bool
}

// Tree is an arena-backed host tree implementing host.Adapter[Handle] and
// host.NodeDestroyer[Handle].
//
// The engine assumes single-writer access, but inspectors (snapshots, the
// op log, the dev server) read from other goroutines, so all node access
// goes through a tree-level RWMutex. Mutations take the write lock;
// queries and snapshots take the read lock.
type Tree struct {
	mu    sync.RWMutex
	nodes []node
	free  []Handle
	tags  map[string]struct{}

	opsMu sync.Mutex
	ops   []Op
}

// New creates an empty tree with the given registered element tags.
func New(tags ...string) *Tree {
	t := &Tree{tags: make(map[string]struct{}, len(tags))}
	t.RegisterTags(tags...)
	return t
}

// RegisterTags declares element tags CreateElement may be called with.
func (t *Tree) RegisterTags(tags ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, tag := range tags {
		t.tags[tag] = struct{}{}
	}
}

// alloc claims an arena slot and returns its handle.
func (t *Tree) alloc(n node) Handle {
	n.alive = true
	if len(t.free) > 0 {
		h := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		t.nodes[h-1] = n
		return h
	}
	t.nodes = append(t.nodes, n)
	return Handle(len(t.nodes))
}

// get returns the live node for h, panicking on the zero handle, an
// out-of-range handle, or a freed slot. Use-after-destroy is an invariant
// violation, not a recoverable condition.
func (t *Tree) get(h Handle) *node {
	if h == 0 || int(h) > len(t.nodes) {
		panic(fmt.Sprintf("[REFLOW E101] invalid node handle %d", h))
	}
	n := &t.nodes[h-1]
	if !n.alive {
		panic(fmt.Sprintf("[REFLOW E102] use of destroyed node %d", h))
	}
	return n
}

func (t *Tree) logOp(op Op) {
	t.opsMu.Lock()
	t.ops = append(t.ops, op)
	t.opsMu.Unlock()
}

// CreateElement implements host.Adapter.
func (t *Tree) CreateElement(tag string) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.tags[tag]; !ok {
		panic(fmt.Sprintf("[REFLOW E103] unregistered tag %q", tag))
	}
	h := t.alloc(node{kind: kindElement, tag: tag})
	t.logOp(Op{Kind: OpCreateElement, Node: h, Name: tag})
	return h
}

// CreateTextNode implements host.Adapter.
func (t *Tree) CreateTextNode(text string) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	h := t.alloc(node{kind: kindText, text: text})
	t.logOp(Op{Kind: OpCreateText, Node: h, Value: text})
	return h
}

// ReplaceText implements host.Adapter.
func (t *Tree) ReplaceText(h Handle, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.get(h)
	if n.kind != kindText {
		panic(fmt.Sprintf("[REFLOW E104] ReplaceText on non-text node %d", h))
	}
	n.text = text
	t.logOp(Op{Kind: OpReplaceText, Node: h, Value: text})
}

// CreatePlaceholder implements host.Adapter. Both placeholder contexts map
// to the same zero-rendering anchor node in this backend; the context is
// recorded for inspection.
func (t *Tree) CreatePlaceholder(ctx host.PlaceholderContext) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	h := t.alloc(node{kind: kindAnchor})
	t.logOp(Op{Kind: OpCreatePlaceholder, Node: h, Name: ctx.String()})
	return h
}

// SetProperty implements host.Adapter. Event names (the "on" prefix,
// case-insensitive) maintain a handler slot with swap semantics; everything
// else is a field assignment, where a nil value clears the field.
func (t *Tree) SetProperty(h Handle, name string, value, prev any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.get(h)

	if isEventName(name) {
		if prev != nil {
			if n.events != nil {
				delete(n.events, name)
			}
			t.logOp(Op{Kind: OpUnsubscribe, Node: h, Name: name})
		}
		if value != nil {
			if n.events == nil {
				n.events = make(map[string]any)
			}
			n.events[name] = value
			t.logOp(Op{Kind: OpSubscribe, Node: h, Name: name})
		}
		return
	}

	if value == nil {
		if n.fields != nil {
			delete(n.fields, name)
		}
	} else {
		if n.fields == nil {
			n.fields = make(map[string]any)
		}
		n.fields[name] = value
	}
	t.logOp(Op{Kind: OpSetField, Node: h, Name: name, Value: fmt.Sprint(value)})
}

// InsertNode implements host.Adapter. A node that is already attached is
// detached first, and the operation logs as a move rather than an insert.
func (t *Tree) InsertNode(parent, child, anchor Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.get(parent)
	c := t.get(child)
	if child == parent {
		panic(fmt.Sprintf("[REFLOW E105] node %d inserted into itself", child))
	}

	kind := OpInsert
	if c.parent != 0 {
		t.unlink(child)
		kind = OpMove
	}

	if anchor != 0 {
		a := t.get(anchor)
		if a.parent != parent {
			panic(fmt.Sprintf("[REFLOW E106] anchor %d is not a child of %d", anchor, parent))
		}
		c.prevSibling = a.prevSibling
		c.nextSibling = anchor
		if a.prevSibling != 0 {
			t.get(a.prevSibling).nextSibling = child
		} else {
			p.firstChild = child
		}
		a.prevSibling = child
	} else {
		c.prevSibling = p.lastChild
		c.nextSibling = 0
		if p.lastChild != 0 {
			t.get(p.lastChild).nextSibling = child
		} else {
			p.firstChild = child
		}
		p.lastChild = child
	}
	c.parent = parent

	t.logOp(Op{Kind: kind, Node: child, Parent: parent, Anchor: anchor})
}

// RemoveNode implements host.Adapter. Detaches child; the node stays alive.
func (t *Tree) RemoveNode(parent, child Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := t.get(child)
	if c.parent != parent {
		panic(fmt.Sprintf("[REFLOW E107] node %d is not a child of %d", child, parent))
	}
	t.unlink(child)
	t.logOp(Op{Kind: OpRemove, Node: child, Parent: parent})
}

// unlink detaches a node from its parent's child list, clearing linkage.
func (t *Tree) unlink(h Handle) {
	n := t.get(h)
	if n.parent == 0 {
		return
	}
	p := t.get(n.parent)
	if n.prevSibling != 0 {
		t.get(n.prevSibling).nextSibling = n.nextSibling
	} else {
		p.firstChild = n.nextSibling
	}
	if n.nextSibling != 0 {
		t.get(n.nextSibling).prevSibling = n.prevSibling
	} else {
		p.lastChild = n.prevSibling
	}
	n.parent = 0
	n.prevSibling = 0
	n.nextSibling = 0
}

// ParentNode implements host.Adapter.
func (t *Tree) ParentNode(h Handle) Handle {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.get(h).parent
}

// FirstChild implements host.Adapter.
func (t *Tree) FirstChild(h Handle) Handle {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.get(h).firstChild
}

// NextSibling implements host.Adapter.
func (t *Tree) NextSibling(h Handle) Handle {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.get(h).nextSibling
}

// IsTextNode implements host.Adapter.
func (t *Tree) IsTextNode(h Handle) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.get(h).kind == kindText
}

// DestroyNode implements host.NodeDestroyer. The node must be detached and
// childless: references are cleared before destruction, never after.
func (t *Tree) DestroyNode(h Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.get(h)
	if n.parent != 0 {
		panic(fmt.Sprintf("[REFLOW E108] destroy of attached node %d", h))
	}
	if n.firstChild != 0 {
		panic(fmt.Sprintf("[REFLOW E109] destroy of node %d with live children", h))
	}
	*n = node{}
	t.free = append(t.free, h)
	t.logOp(Op{Kind: OpDestroy, Node: h})
}

// isEventName reports whether a property name addresses an event slot.
// Case-insensitive so onclick, OnClick and ONCLICK all classify the same.
func isEventName(name string) bool {
	return len(name) > 2 && strings.EqualFold(name[:2], "on")
}

// Interface checks.
var (
	_ host.Adapter[Handle]       = (*Tree)(nil)
	_ host.NodeDestroyer[Handle] = (*Tree)(nil)
)
