package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func gatherCounter(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, fam := range families {
		if fam.GetName() == name {
			return fam.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %q not found", name)
	return 0
}

func TestReconcilerCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewReconciler(WithRegistry(reg), WithNamespace("test"))

	m.RecordInsert()
	m.RecordInsert()
	m.RecordMove()
	m.RecordRemove()
	m.RecordTextUpdate()
	m.RecordDestroy()
	m.RecordPass(5 * time.Millisecond)

	if got := gatherCounter(t, reg, "test_inserts_total"); got != 2 {
		t.Errorf("inserts = %v, want 2", got)
	}
	if got := gatherCounter(t, reg, "test_moves_total"); got != 1 {
		t.Errorf("moves = %v, want 1", got)
	}
	if got := gatherCounter(t, reg, "test_passes_total"); got != 1 {
		t.Errorf("passes = %v, want 1", got)
	}
}

func TestNilReconcilerIsSafe(t *testing.T) {
	var m *Reconciler
	m.RecordInsert()
	m.RecordRemove()
	m.RecordMove()
	m.RecordTextUpdate()
	m.RecordDestroy()
	m.RecordPass(time.Millisecond)
}

func TestConstLabelsApplied(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewReconciler(
		WithRegistry(reg),
		WithNamespace("test2"),
		WithConstLabels(prometheus.Labels{"renderer": "demo"}),
	)
	m.RecordInsert()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, fam := range families {
		if fam.GetName() == "test2_inserts_total" {
			labels := fam.GetMetric()[0].GetLabel()
			if len(labels) != 1 || labels[0].GetName() != "renderer" || labels[0].GetValue() != "demo" {
				t.Errorf("labels = %v, want renderer=demo", labels)
			}
			return
		}
	}
	t.Fatal("metric test2_inserts_total not found")
}
