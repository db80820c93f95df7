package record

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/reflow-dev/reflow/pkg/host"
)

// Event is one recorded host-tree operation. Node identities are
// stringified so events serialize the same way for every node type.
type Event struct {
	Seq    uint64    `json:"seq"`
	Time   time.Time `json:"time"`
	Op     string    `json:"op"`
	Node   string    `json:"node,omitempty"`
	Parent string    `json:"parent,omitempty"`
	Anchor string    `json:"anchor,omitempty"`
	Name   string    `json:"name,omitempty"`
	Value  string    `json:"value,omitempty"`
}

// Recorder wraps a host adapter and logs every operation. It implements
// host.Adapter[N], and host.NodeDestroyer[N] when the inner adapter does,
// so recording never strips the destroy capability.
type Recorder[N comparable] struct {
	inner     host.Adapter[N]
	destroyer host.NodeDestroyer[N]
	zero      N

	seq atomic.Uint64

	mu     sync.Mutex
	events []Event
	subs   map[uint64]chan Event
	subSeq uint64
}

// New wraps adapter in a Recorder.
func New[N comparable](adapter host.Adapter[N]) *Recorder[N] {
	r := &Recorder[N]{
		inner: adapter,
		subs:  make(map[uint64]chan Event),
	}
	if d, ok := adapter.(host.NodeDestroyer[N]); ok {
		r.destroyer = d
	}
	return r
}

// Unwrap returns the adapter the recorder delegates to.
func (r *Recorder[N]) Unwrap() host.Adapter[N] {
	return r.inner
}

// Events returns a copy of all recorded events.
func (r *Recorder[N]) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Reset discards the recorded events. Subscribers are unaffected.
func (r *Recorder[N]) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// Subscribe returns a channel receiving every event recorded from now on
// and a cancel function releasing it. A slow subscriber drops events
// rather than stalling reconciliation.
func (r *Recorder[N]) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	r.mu.Lock()
	r.subSeq++
	id := r.subSeq
	r.subs[id] = ch
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		if sub, ok := r.subs[id]; ok {
			delete(r.subs, id)
			close(sub)
		}
		r.mu.Unlock()
	}
	return ch, cancel
}

func (r *Recorder[N]) record(ev Event) {
	ev.Seq = r.seq.Add(1)
	ev.Time = time.Now()

	r.mu.Lock()
	r.events = append(r.events, ev)
	for _, sub := range r.subs {
		select {
		case sub <- ev:
		default:
		}
	}
	r.mu.Unlock()
}

// nodeID stringifies a node for the trace, empty for the zero node.
func (r *Recorder[N]) nodeID(n N) string {
	if n == r.zero {
		return ""
	}
	return fmt.Sprint(n)
}

// CreateElement implements host.Adapter.
func (r *Recorder[N]) CreateElement(tag string) N {
	n := r.inner.CreateElement(tag)
	r.record(Event{Op: "CreateElement", Node: r.nodeID(n), Name: tag})
	return n
}

// CreateTextNode implements host.Adapter.
func (r *Recorder[N]) CreateTextNode(text string) N {
	n := r.inner.CreateTextNode(text)
	r.record(Event{Op: "CreateText", Node: r.nodeID(n), Value: text})
	return n
}

// ReplaceText implements host.Adapter.
func (r *Recorder[N]) ReplaceText(node N, text string) {
	r.inner.ReplaceText(node, text)
	r.record(Event{Op: "ReplaceText", Node: r.nodeID(node), Value: text})
}

// CreatePlaceholder implements host.Adapter.
func (r *Recorder[N]) CreatePlaceholder(ctx host.PlaceholderContext) N {
	n := r.inner.CreatePlaceholder(ctx)
	r.record(Event{Op: "CreatePlaceholder", Node: r.nodeID(n), Name: ctx.String()})
	return n
}

// SetProperty implements host.Adapter.
func (r *Recorder[N]) SetProperty(node N, name string, value, prev any) {
	r.inner.SetProperty(node, name, value, prev)
	r.record(Event{Op: "SetProperty", Node: r.nodeID(node), Name: name, Value: describe(value)})
}

// InsertNode implements host.Adapter.
func (r *Recorder[N]) InsertNode(parent, node, anchor N) {
	attached := r.inner.ParentNode(node) != r.zero
	r.inner.InsertNode(parent, node, anchor)
	op := "Insert"
	if attached {
		op = "Move"
	}
	r.record(Event{Op: op, Node: r.nodeID(node), Parent: r.nodeID(parent), Anchor: r.nodeID(anchor)})
}

// RemoveNode implements host.Adapter.
func (r *Recorder[N]) RemoveNode(parent, node N) {
	r.inner.RemoveNode(parent, node)
	r.record(Event{Op: "Remove", Node: r.nodeID(node), Parent: r.nodeID(parent)})
}

// ParentNode implements host.Adapter. Queries are not recorded.
func (r *Recorder[N]) ParentNode(node N) N {
	return r.inner.ParentNode(node)
}

// FirstChild implements host.Adapter.
func (r *Recorder[N]) FirstChild(node N) N {
	return r.inner.FirstChild(node)
}

// NextSibling implements host.Adapter.
func (r *Recorder[N]) NextSibling(node N) N {
	return r.inner.NextSibling(node)
}

// IsTextNode implements host.Adapter.
func (r *Recorder[N]) IsTextNode(node N) bool {
	return r.inner.IsTextNode(node)
}

// DestroyNode implements host.NodeDestroyer. The destroy is forwarded
// when the inner adapter has the capability; otherwise the node's release
// is a garbage-collection concern and only the event is recorded, so
// GC-backed adapters still get lifecycle events in their traces.
func (r *Recorder[N]) DestroyNode(node N) {
	id := r.nodeID(node)
	if r.destroyer != nil {
		r.destroyer.DestroyNode(node)
	}
	r.record(Event{Op: "Destroy", Node: id})
}

// describe renders a property value for the trace. Handlers and other
// non-printable values record only their type.
func describe(value any) string {
	switch value.(type) {
	case nil:
		return ""
	case string, int, int64, uint64, float64, bool:
		return fmt.Sprint(value)
	default:
		return fmt.Sprintf("<%T>", value)
	}
}

var _ host.Adapter[int] = (*Recorder[int])(nil)
