package host

// PlaceholderContext selects the structural flavor of a placeholder node.
// Some host trees need different no-op nodes depending on whether the
// placeholder sits among sequence children or inside text-merging content.
type PlaceholderContext uint8

const (
	// PlaceholderSequence anchors a slot in an ordered child sequence.
	PlaceholderSequence PlaceholderContext = iota

	// PlaceholderText anchors a position in text-rendering context.
	PlaceholderText
)

// String returns the string representation of the PlaceholderContext.
func (c PlaceholderContext) String() string {
	switch c {
	case PlaceholderSequence:
		return "Sequence"
	case PlaceholderText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Adapter is the fixed set of operations the engine uses to create, mutate,
// query and detach native nodes. It is supplied by the embedder; the engine
// never reaches around it.
//
// Error model: these operations do not return errors. Misuse - an
// unregistered tag, a freed node - is a programming error the adapter
// surfaces by panicking immediately, and a backend failure panics through
// Insert/Reconcile unchanged. The engine performs no recovery or retry;
// tree mutations are not idempotent to retry blindly, and the adapter owns
// failure semantics for its backend.
type Adapter[N comparable] interface {
	// CreateElement returns a new node for a declared tag.
	// Calling it with a tag the backend does not know is a programming
	// error.
	CreateElement(tag string) N

	// CreateTextNode returns a new node rendering the given literal text.
	CreateTextNode(text string) N

	// ReplaceText mutates an existing text-capable node's content in place.
	ReplaceText(node N, text string)

	// CreatePlaceholder returns a no-op anchor node appropriate for ctx.
	// Placeholders render nothing but participate in traversal like any
	// other child.
	CreatePlaceholder(ctx PlaceholderContext) N

	// SetProperty applies one field or event change to node. For event
	// names, prev is the previously subscribed handler and the adapter
	// must swap it for value atomically: unsubscribe prev if present,
	// subscribe value if present, with no window where both or neither
	// are delivered.
	SetProperty(node N, name string, value, prev any)

	// InsertNode inserts node as a child of parent, immediately before
	// anchor, or at the end when anchor is the zero value. A node that is
	// already attached somewhere is detached first, so a relocation is a
	// single call.
	InsertNode(parent, node, anchor N)

	// RemoveNode detaches node from parent. It does not destroy the node.
	RemoveNode(parent, node N)

	// ParentNode returns node's parent, or the zero value if detached.
	ParentNode(node N) N

	// FirstChild returns node's first child, or the zero value.
	FirstChild(node N) N

	// NextSibling returns the sibling after node, or the zero value.
	NextSibling(node N) N

	// IsTextNode reports whether node renders literal text. The inserter
	// uses this to choose in-place text replacement over full region
	// replacement.
	IsTextNode(node N) bool
}

// NodeDestroyer is an optional capability an Adapter may implement. When it
// does, the engine calls DestroyNode exactly once for every node it owns
// and is done with, child-first, after detaching it. Adapters that rely on
// garbage collection alone simply don't implement it.
type NodeDestroyer[N comparable] interface {
	// DestroyNode releases a detached node. Destroying a node that is
	// still attached, or destroying it twice, is a programming error.
	DestroyNode(node N)
}
