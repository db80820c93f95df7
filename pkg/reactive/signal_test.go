package reactive

import (
	"testing"
)

func TestSignalGetSet(t *testing.T) {
	s := NewSignal(10)

	if got := s.Get(); got != 10 {
		t.Errorf("Get() = %d, want 10", got)
	}

	s.Set(20)
	if got := s.Get(); got != 20 {
		t.Errorf("Get() after Set = %d, want 20", got)
	}
}

func TestSignalUpdate(t *testing.T) {
	s := NewSignal(5)
	s.Update(func(v int) int { return v * 3 })

	if got := s.Get(); got != 15 {
		t.Errorf("Get() after Update = %d, want 15", got)
	}
}

func TestSignalSetUnchangedDoesNotNotify(t *testing.T) {
	s := NewSignal("a")
	runs := 0

	CreateEffect(func() Cleanup {
		s.Get()
		runs++
		return nil
	})

	s.Set("a")
	if runs != 1 {
		t.Errorf("effect ran %d times after no-op Set, want 1", runs)
	}

	s.Set("b")
	if runs != 2 {
		t.Errorf("effect ran %d times after real Set, want 2", runs)
	}
}

func TestSignalWithEquals(t *testing.T) {
	// Equality on parity: writes within the same parity are no-ops.
	s := NewSignal(2).WithEquals(func(a, b int) bool {
		return a%2 == b%2
	})
	runs := 0

	CreateEffect(func() Cleanup {
		s.Get()
		runs++
		return nil
	})

	s.Set(4)
	if runs != 1 {
		t.Errorf("effect ran %d times after same-parity Set, want 1", runs)
	}

	s.Set(5)
	if runs != 2 {
		t.Errorf("effect ran %d times after parity change, want 2", runs)
	}
}

func TestSignalPeekDoesNotSubscribe(t *testing.T) {
	s := NewSignal(1)
	runs := 0

	CreateEffect(func() Cleanup {
		s.Peek()
		runs++
		return nil
	})

	s.Set(2)
	if runs != 1 {
		t.Errorf("effect ran %d times after Set on peeked signal, want 1", runs)
	}
}

func TestUntracked(t *testing.T) {
	a := NewSignal(1)
	b := NewSignal(1)
	runs := 0

	CreateEffect(func() Cleanup {
		a.Get()
		Untracked(func() {
			b.Get()
		})
		runs++
		return nil
	})

	b.Set(2)
	if runs != 1 {
		t.Errorf("effect ran %d times after untracked dependency changed, want 1", runs)
	}

	a.Set(2)
	if runs != 2 {
		t.Errorf("effect ran %d times after tracked dependency changed, want 2", runs)
	}
}

func TestBatchDeduplicates(t *testing.T) {
	first := NewSignal("John")
	last := NewSignal("Smith")
	runs := 0
	var full string

	CreateEffect(func() Cleanup {
		full = first.Get() + " " + last.Get()
		runs++
		return nil
	})

	Batch(func() {
		first.Set("Jane")
		last.Set("Doe")
	})

	if runs != 2 {
		t.Errorf("effect ran %d times, want 2 (initial + one batched re-run)", runs)
	}
	if full != "Jane Doe" {
		t.Errorf("effect observed %q, want %q", full, "Jane Doe")
	}
}

func TestNestedBatchFiresOnce(t *testing.T) {
	s := NewSignal(0)
	runs := 0

	CreateEffect(func() Cleanup {
		s.Get()
		runs++
		return nil
	})

	Batch(func() {
		s.Set(1)
		Batch(func() {
			s.Set(2)
		})
		s.Set(3)
	})

	if runs != 2 {
		t.Errorf("effect ran %d times, want 2", runs)
	}
	if got := s.Get(); got != 3 {
		t.Errorf("signal = %d, want 3", got)
	}
}

func TestSignalAnyChangesDynamicType(t *testing.T) {
	// A Signal[any] swaps dynamic types freely; a kind change is just an
	// unequal value, never a fault.
	s := NewSignal[any]("text")
	var seen any
	runs := 0

	CreateEffect(func() Cleanup {
		seen = s.Get()
		runs++
		return nil
	})

	s.Set(uint32(7))
	if runs != 2 {
		t.Errorf("effect ran %d times after type change, want 2", runs)
	}
	if seen != uint32(7) {
		t.Errorf("effect observed %v, want uint32(7)", seen)
	}

	s.Set(uint32(7))
	if runs != 2 {
		t.Errorf("effect ran %d times after repeated value, want 2", runs)
	}

	s.Set(nil)
	if runs != 3 {
		t.Errorf("effect ran %d times after Set(nil), want 3", runs)
	}
	if seen != nil {
		t.Errorf("effect observed %v, want nil", seen)
	}
}

func TestMemoLazy(t *testing.T) {
	s := NewSignal(2)
	computes := 0

	m := NewMemo(func() int {
		computes++
		return s.Get() * 10
	})

	if computes != 0 {
		t.Fatalf("memo computed %d times before first read, want 0", computes)
	}

	if got := m.Get(); got != 20 {
		t.Errorf("Get() = %d, want 20", got)
	}
	m.Get()
	if computes != 1 {
		t.Errorf("memo computed %d times for repeated reads, want 1", computes)
	}
}

func TestMemoRecomputesOnDependencyChange(t *testing.T) {
	s := NewSignal(1)
	m := NewMemo(func() int { return s.Get() + 1 })

	if got := m.Get(); got != 2 {
		t.Fatalf("Get() = %d, want 2", got)
	}

	s.Set(5)
	if got := m.Get(); got != 6 {
		t.Errorf("Get() after dependency change = %d, want 6", got)
	}
}

func TestMemoChainPropagates(t *testing.T) {
	s := NewSignal(1)
	double := NewMemo(func() int { return s.Get() * 2 })
	quad := NewMemo(func() int { return double.Get() * 2 })

	var seen int
	CreateEffect(func() Cleanup {
		seen = quad.Get()
		return nil
	})

	if seen != 4 {
		t.Fatalf("effect observed %d initially, want 4", seen)
	}

	s.Set(3)
	if seen != 12 {
		t.Errorf("effect observed %d after upstream change, want 12", seen)
	}
}

func TestMemoEqualResultDoesNotNotify(t *testing.T) {
	s := NewSignal(1)
	half := NewMemo(func() int { return s.Get() / 2 })
	runs := 0

	CreateEffect(func() Cleanup {
		half.Get()
		runs++
		return nil
	})

	s.Set(0) // 1/2 and 0/2 both compute to 0
	if runs != 1 {
		t.Errorf("effect ran %d times after equal recompute, want 1", runs)
	}

	s.Set(4)
	if runs != 2 {
		t.Errorf("effect ran %d times after changed recompute, want 2", runs)
	}
}

func TestMemoWithEquals(t *testing.T) {
	s := NewSignal("one")
	m := NewMemo(func() string { return s.Get() }).WithEquals(func(a, b string) bool {
		return len(a) == len(b)
	})
	runs := 0

	CreateEffect(func() Cleanup {
		m.Get()
		runs++
		return nil
	})

	s.Set("two")
	if runs != 1 {
		t.Errorf("effect ran %d times after same-length value, want 1", runs)
	}

	s.Set("three")
	if runs != 2 {
		t.Errorf("effect ran %d times after length change, want 2", runs)
	}
}
