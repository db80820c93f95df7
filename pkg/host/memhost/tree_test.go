package memhost

import (
	"sync"
	"testing"

	"github.com/reflow-dev/reflow/pkg/host"
)

func TestSnapshotIsSafeDuringMutation(t *testing.T) {
	tree := New("ul")
	ul := tree.CreateElement("ul")

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				tree.Snapshot()
				tree.Render(ul)
			}
		}
	}()

	const n = 500
	for i := 0; i < n; i++ {
		text := tree.CreateTextNode("x")
		tree.InsertNode(ul, text, 0)
		tree.ReplaceText(text, "y")
	}
	close(done)
	wg.Wait()

	if got := len(tree.Children(ul)); got != n {
		t.Errorf("children = %d, want %d", got, n)
	}
}

func TestInsertOrdering(t *testing.T) {
	tree := New("ul", "li")
	ul := tree.CreateElement("ul")
	a := tree.CreateTextNode("a")
	b := tree.CreateTextNode("b")
	c := tree.CreateTextNode("c")

	tree.InsertNode(ul, a, 0)
	tree.InsertNode(ul, c, 0)
	tree.InsertNode(ul, b, c) // before anchor

	got := tree.Children(ul)
	want := []Handle{a, b, c}
	if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Errorf("Children = %v, want %v", got, want)
	}
	if tree.Render(ul) != "<ul>abc</ul>" {
		t.Errorf("Render = %q, want %q", tree.Render(ul), "<ul>abc</ul>")
	}
}

func TestInsertAttachedNodeIsMove(t *testing.T) {
	tree := New("ul")
	ul := tree.CreateElement("ul")
	a := tree.CreateTextNode("a")
	b := tree.CreateTextNode("b")
	tree.InsertNode(ul, a, 0)
	tree.InsertNode(ul, b, 0)

	tree.ResetOps()
	tree.InsertNode(ul, b, a) // relocate b before a

	if got := tree.CountOps(OpMove); got != 1 {
		t.Errorf("moves = %d, want 1", got)
	}
	if got := tree.CountOps(OpInsert); got != 0 {
		t.Errorf("inserts = %d, want 0", got)
	}
	if tree.Render(ul) != "<ul>ba</ul>" {
		t.Errorf("Render = %q, want %q", tree.Render(ul), "<ul>ba</ul>")
	}
}

func TestRemoveDetachesWithoutDestroying(t *testing.T) {
	tree := New("ul")
	ul := tree.CreateElement("ul")
	a := tree.CreateTextNode("a")
	tree.InsertNode(ul, a, 0)

	tree.RemoveNode(ul, a)

	if got := tree.ParentNode(a); got != 0 {
		t.Errorf("ParentNode after remove = %d, want 0", got)
	}
	if !tree.Alive(a) {
		t.Error("node not alive after detach")
	}
}

func TestReplaceText(t *testing.T) {
	tree := New()
	n := tree.CreateTextNode("before")
	tree.ReplaceText(n, "after")

	if got := tree.Text(n); got != "after" {
		t.Errorf("Text = %q, want %q", got, "after")
	}
}

func TestReplaceTextOnElementPanics(t *testing.T) {
	tree := New("div")
	n := tree.CreateElement("div")

	defer func() {
		if recover() == nil {
			t.Error("ReplaceText on an element did not panic")
		}
	}()
	tree.ReplaceText(n, "x")
}

func TestUnregisteredTagPanics(t *testing.T) {
	tree := New("div")

	defer func() {
		if recover() == nil {
			t.Error("CreateElement with unregistered tag did not panic")
		}
	}()
	tree.CreateElement("marquee")
}

func TestPlaceholderRendersNothing(t *testing.T) {
	tree := New("div")
	div := tree.CreateElement("div")
	ph := tree.CreatePlaceholder(host.PlaceholderSequence)
	txt := tree.CreateTextNode("x")
	tree.InsertNode(div, ph, 0)
	tree.InsertNode(div, txt, 0)

	if got := tree.Render(div); got != "<div>x</div>" {
		t.Errorf("Render = %q, want %q", got, "<div>x</div>")
	}
	if got := len(tree.Children(div)); got != 2 {
		t.Errorf("children = %d, want 2 (placeholder participates in traversal)", got)
	}
}

func TestSetPropertyField(t *testing.T) {
	tree := New("input")
	n := tree.CreateElement("input")

	tree.SetProperty(n, "value", "hello", nil)
	if got := tree.Field(n, "value"); got != "hello" {
		t.Errorf("Field = %v, want hello", got)
	}

	tree.SetProperty(n, "value", nil, "hello")
	if got := tree.Field(n, "value"); got != nil {
		t.Errorf("Field after clear = %v, want nil", got)
	}
}

func TestSetPropertyEventSwap(t *testing.T) {
	tree := New("button")
	n := tree.CreateElement("button")

	calls := ""
	f1 := func() { calls += "1" }
	f2 := func() { calls += "2" }

	tree.SetProperty(n, "onClick", f1, nil)
	tree.SetProperty(n, "onClick", f2, f1)

	if !tree.Dispatch(n, "onClick", nil) {
		t.Fatal("Dispatch found no handler")
	}
	if calls != "2" {
		t.Errorf("dispatched handler produced %q, want %q", calls, "2")
	}

	ops := tree.Ops()
	subs, unsubs := 0, 0
	for _, op := range ops {
		switch op.Kind {
		case OpSubscribe:
			subs++
		case OpUnsubscribe:
			unsubs++
		}
	}
	if subs != 2 || unsubs != 1 {
		t.Errorf("subscribe/unsubscribe = %d/%d, want 2/1", subs, unsubs)
	}
}

func TestEventNameMatchingIsCaseInsensitive(t *testing.T) {
	for _, name := range []string{"onclick", "onClick", "ONCLICK", "onKeyDown"} {
		if !isEventName(name) {
			t.Errorf("isEventName(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"on", "value", "tone"} {
		if isEventName(name) {
			t.Errorf("isEventName(%q) = true, want false", name)
		}
	}
}

func TestDestroyFreesSlotForReuse(t *testing.T) {
	tree := New()
	a := tree.CreateTextNode("a")
	tree.DestroyNode(a)

	if tree.Alive(a) {
		t.Error("node alive after destroy")
	}

	b := tree.CreateTextNode("b")
	if b != a {
		t.Errorf("new node got handle %d, want reused slot %d", b, a)
	}
}

func TestUseAfterDestroyPanics(t *testing.T) {
	tree := New()
	a := tree.CreateTextNode("a")
	tree.DestroyNode(a)

	defer func() {
		if recover() == nil {
			t.Error("use of destroyed node did not panic")
		}
	}()
	tree.Text(a)
}

func TestDestroyAttachedNodePanics(t *testing.T) {
	tree := New("div")
	div := tree.CreateElement("div")
	a := tree.CreateTextNode("a")
	tree.InsertNode(div, a, 0)

	defer func() {
		if recover() == nil {
			t.Error("destroy of attached node did not panic")
		}
	}()
	tree.DestroyNode(a)
}

func TestDestroyNodeWithChildrenPanics(t *testing.T) {
	tree := New("div")
	div := tree.CreateElement("div")
	a := tree.CreateTextNode("a")
	tree.InsertNode(div, a, 0)

	defer func() {
		if recover() == nil {
			t.Error("destroy of node with children did not panic")
		}
	}()
	tree.DestroyNode(div)
}

func TestRemoveNonChildPanics(t *testing.T) {
	tree := New("div", "span")
	div := tree.CreateElement("div")
	span := tree.CreateElement("span")
	a := tree.CreateTextNode("a")
	tree.InsertNode(div, a, 0)

	defer func() {
		if recover() == nil {
			t.Error("remove from wrong parent did not panic")
		}
	}()
	tree.RemoveNode(span, a)
}

func TestInsertWithForeignAnchorPanics(t *testing.T) {
	tree := New("div", "span")
	div := tree.CreateElement("div")
	span := tree.CreateElement("span")
	anchor := tree.CreateTextNode("x")
	tree.InsertNode(span, anchor, 0)
	a := tree.CreateTextNode("a")

	defer func() {
		if recover() == nil {
			t.Error("insert with anchor under another parent did not panic")
		}
	}()
	tree.InsertNode(div, a, anchor)
}
