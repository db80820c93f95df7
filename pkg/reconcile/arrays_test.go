package reconcile_test

import (
	"fmt"
	"testing"

	"github.com/reflow-dev/reflow/pkg/host"
	"github.com/reflow-dev/reflow/pkg/host/memhost"
	"github.com/reflow-dev/reflow/pkg/reconcile"
)

// mountList renders an initial list of owned elements before marker and
// returns the rendered region alongside the nodes, keyed by label.
func mountList(t *testing.T, tree *memhost.Tree, r *reconcile.Renderer[memhost.Handle], body memhost.Handle, marker memhost.Handle, labels ...string) ([]memhost.Handle, map[string]memhost.Handle) {
	t.Helper()
	byLabel := make(map[string]memhost.Handle, len(labels))
	values := make([]any, len(labels))
	for i, label := range labels {
		n := r.CreateElement("li")
		tree.SetProperty(n, "label", label, nil)
		byLabel[label] = n
		values[i] = n
	}
	region := r.Reconcile(body, nil, values, marker)
	if len(region) != len(labels) {
		t.Fatalf("mounted region has %d nodes, want %d", len(region), len(labels))
	}
	return region, byLabel
}

func labels(tree *memhost.Tree, body memhost.Handle) []string {
	var out []string
	for _, c := range tree.Children(body) {
		if v, ok := tree.Field(c, "label").(string); ok {
			out = append(out, v)
		}
	}
	return out
}

func assertLabels(t *testing.T, tree *memhost.Tree, body memhost.Handle, want ...string) {
	t.Helper()
	got := labels(tree, body)
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestReconcileAppendIsSingleInsert(t *testing.T) {
	tree, r, body := newFixture(t, "li")
	marker := r.EnsureMarker(body, host.PlaceholderSequence)
	region, nodes := mountList(t, tree, r, body, marker, "a", "b")

	c := r.CreateElement("li")
	tree.SetProperty(c, "label", "c", nil)
	tree.ResetOps()

	region = r.Reconcile(body, region, []any{nodes["a"], nodes["b"], c}, marker)

	if got := tree.CountOps(memhost.OpInsert); got != 1 {
		t.Errorf("inserts = %d, want exactly 1", got)
	}
	for _, kind := range []memhost.OpKind{memhost.OpMove, memhost.OpRemove, memhost.OpDestroy} {
		if got := tree.CountOps(kind); got != 0 {
			t.Errorf("%v ops = %d, want 0", kind, got)
		}
	}
	assertLabels(t, tree, body, "a", "b", "c")
	if len(region) != 3 {
		t.Errorf("region size = %d, want 3", len(region))
	}
}

func TestReconcileTruncateOnlyRemovesTail(t *testing.T) {
	tree, r, body := newFixture(t, "li")
	marker := r.EnsureMarker(body, host.PlaceholderSequence)
	region, nodes := mountList(t, tree, r, body, marker, "a", "b", "c", "d")

	tree.ResetOps()
	r.Reconcile(body, region, []any{nodes["a"], nodes["b"]}, marker)

	if got := tree.CountOps(memhost.OpRemove); got != 2 {
		t.Errorf("removes = %d, want 2", got)
	}
	if got := tree.CountOps(memhost.OpDestroy); got != 2 {
		t.Errorf("destroys = %d, want 2", got)
	}
	for _, kind := range []memhost.OpKind{memhost.OpInsert, memhost.OpMove} {
		if got := tree.CountOps(kind); got != 0 {
			t.Errorf("%v ops = %d, want 0", kind, got)
		}
	}
	assertLabels(t, tree, body, "a", "b")
}

func TestReconcileReversalMovesAtMostNMinusOne(t *testing.T) {
	const n = 8
	tree, r, body := newFixture(t, "li")
	marker := r.EnsureMarker(body, host.PlaceholderSequence)

	all := make([]string, n)
	for i := range all {
		all[i] = fmt.Sprintf("n%d", i)
	}
	region, nodes := mountList(t, tree, r, body, marker, all...)

	reversed := make([]any, n)
	for i := range reversed {
		reversed[i] = nodes[all[n-1-i]]
	}

	tree.ResetOps()
	r.Reconcile(body, region, reversed, marker)

	if got := tree.CountOps(memhost.OpMove); got > n-1 {
		t.Errorf("moves = %d, want at most %d", got, n-1)
	}
	for _, kind := range []memhost.OpKind{
		memhost.OpCreateElement, memhost.OpCreateText, memhost.OpInsert,
		memhost.OpRemove, memhost.OpDestroy,
	} {
		if got := tree.CountOps(kind); got != 0 {
			t.Errorf("%v ops = %d, want 0 (reversal reorders existing nodes)", kind, got)
		}
	}

	want := make([]string, n)
	for i := range want {
		want[i] = all[n-1-i]
	}
	assertLabels(t, tree, body, want...)
}

func TestReconcileMixedDiff(t *testing.T) {
	tree, r, body := newFixture(t, "li")
	marker := r.EnsureMarker(body, host.PlaceholderSequence)
	region, nodes := mountList(t, tree, r, body, marker, "a", "b", "c")

	d := r.CreateElement("li")
	tree.SetProperty(d, "label", "d", nil)
	tree.ResetOps()

	// [a b c] -> [c a d]: b leaves, d arrives, c and a are retained.
	r.Reconcile(body, region, []any{nodes["c"], nodes["a"], d}, marker)

	assertLabels(t, tree, body, "c", "a", "d")

	if got := tree.CountOps(memhost.OpDestroy); got != 1 {
		t.Errorf("destroys = %d, want 1 (only b)", got)
	}
	if tree.Alive(nodes["b"]) {
		t.Error("b still alive, want destroyed")
	}
	if got := tree.CountOps(memhost.OpInsert); got != 1 {
		t.Errorf("inserts = %d, want 1 (only d)", got)
	}
	// At most one of the two retained nodes relocates; the longest
	// preserved run stays put.
	if got := tree.CountOps(memhost.OpMove); got > 1 {
		t.Errorf("moves = %d, want at most 1", got)
	}
}

func TestReconcileStableMiddleUntouched(t *testing.T) {
	tree, r, body := newFixture(t, "li")
	marker := r.EnsureMarker(body, host.PlaceholderSequence)
	region, nodes := mountList(t, tree, r, body, marker, "a", "b", "c", "d", "e")

	tree.ResetOps()
	// Swap the ends, keep b c d in place.
	r.Reconcile(body, region, []any{
		nodes["e"], nodes["b"], nodes["c"], nodes["d"], nodes["a"],
	}, marker)

	assertLabels(t, tree, body, "e", "b", "c", "d", "a")
	if got := tree.CountOps(memhost.OpMove); got > 2 {
		t.Errorf("moves = %d, want at most 2 (b c d form the preserved run)", got)
	}
}

func TestReconcileClearRemovesEverything(t *testing.T) {
	tree, r, body := newFixture(t, "li")
	marker := r.EnsureMarker(body, host.PlaceholderSequence)
	region, _ := mountList(t, tree, r, body, marker, "a", "b", "c")

	tree.ResetOps()
	out := r.Reconcile(body, region, nil, marker)

	if len(out) != 0 {
		t.Errorf("region = %v, want empty", out)
	}
	if got := tree.CountOps(memhost.OpDestroy); got != 3 {
		t.Errorf("destroys = %d, want 3", got)
	}
	children := tree.Children(body)
	if len(children) != 1 || children[0] != marker {
		t.Errorf("children = %v, want just the marker", children)
	}
}

func TestReconcileDuplicateNodesMatchLeftToRight(t *testing.T) {
	tree, r, body := newFixture(t, "li")
	marker := r.EnsureMarker(body, host.PlaceholderSequence)
	region, nodes := mountList(t, tree, r, body, marker, "a", "b")

	// The same node listed twice occupies one position; the engine renders
	// it once at its first match and materializes nothing extra.
	r.Reconcile(body, region, []any{nodes["a"], nodes["a"]}, marker)

	if tree.ParentNode(nodes["a"]) != body {
		t.Error("a not attached")
	}
	if tree.Alive(nodes["b"]) {
		t.Error("b still alive, want destroyed")
	}
}

func TestReconcileStringsReuseTextNodes(t *testing.T) {
	tree, r, body := newFixture(t)
	marker := r.EnsureMarker(body, host.PlaceholderSequence)

	region := r.Reconcile(body, nil, []any{"x", "y"}, marker)
	tree.ResetOps()

	r.Reconcile(body, region, []any{"x2", "y"}, marker)

	if got := tree.CountOps(memhost.OpCreateText); got != 0 {
		t.Errorf("text creates = %d, want 0 (positional reuse)", got)
	}
	if got := tree.CountOps(memhost.OpReplaceText); got != 1 {
		t.Errorf("text replacements = %d, want 1", got)
	}
	if got := tree.Render(body); got != "<body>x2y</body>" {
		t.Errorf("Render = %q, want %q", got, "<body>x2y</body>")
	}
}

func TestReconcileNestedSequencesFlatten(t *testing.T) {
	tree, r, body := newFixture(t)
	marker := r.EnsureMarker(body, host.PlaceholderSequence)

	r.Reconcile(body, nil, []any{"a", []any{"b", "c"}, "d"}, marker)

	if got := tree.Render(body); got != "<body>abcd</body>" {
		t.Errorf("Render = %q, want %q", got, "<body>abcd</body>")
	}
}

func TestReconcileEmptySlotKeepsPlaceholder(t *testing.T) {
	tree, r, body := newFixture(t)
	marker := r.EnsureMarker(body, host.PlaceholderSequence)

	region := r.Reconcile(body, nil, []any{"a", nil, "c"}, marker)
	if len(region) != 3 {
		t.Fatalf("region size = %d, want 3 (empty slot holds a placeholder)", len(region))
	}

	tree.ResetOps()
	region = r.Reconcile(body, region, []any{"a", false, "c"}, marker)

	if got := tree.CountOps(memhost.OpCreatePlaceholder); got != 0 {
		t.Errorf("placeholder creates = %d, want 0 (slot placeholder reused)", got)
	}
	if got := tree.Render(body); got != "<body>ac</body>" {
		t.Errorf("Render = %q, want %q", got, "<body>ac</body>")
	}
}
