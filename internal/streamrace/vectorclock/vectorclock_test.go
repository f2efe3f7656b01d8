package vectorclock

import (
	"testing"

	"github.com/kolkov/streamrace/internal/streamrace/types"
)

func TestNewIsEmpty(t *testing.T) {
	vc := New()
	if got := vc.Get(7); got != types.NoSeqNum {
		t.Errorf("New().Get(7) = %d, want %d", got, types.NoSeqNum)
	}
}

func TestSetGet(t *testing.T) {
	vc := New()
	vc.Set(1, 10)
	vc.Set(2, 20)

	if got := vc.Get(1); got != 10 {
		t.Errorf("Get(1) = %d, want 10", got)
	}
	if got := vc.Get(2); got != 20 {
		t.Errorf("Get(2) = %d, want 20", got)
	}
	if got := vc.Get(3); got != types.NoSeqNum {
		t.Errorf("Get(3) = %d, want %d", got, types.NoSeqNum)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	original := New()
	original.Set(1, 10)

	clone := original.Clone()
	clone.Set(1, 999)
	clone.Set(2, 5)

	if got := original.Get(1); got != 10 {
		t.Errorf("original mutated through clone: Get(1) = %d, want 10", got)
	}
	if got := original.Get(2); got != types.NoSeqNum {
		t.Errorf("original gained a key from clone: Get(2) = %d", got)
	}
}

func TestJoinTakesPointwiseMax(t *testing.T) {
	a := New()
	a.Set(1, 10)
	a.Set(2, 30)

	b := New()
	b.Set(1, 20)
	b.Set(3, 5)

	a.Join(b)

	if got := a.Get(1); got != 20 {
		t.Errorf("Get(1) = %d, want 20", got)
	}
	if got := a.Get(2); got != 30 {
		t.Errorf("Get(2) = %d, want 30", got)
	}
	if got := a.Get(3); got != 5 {
		t.Errorf("Get(3) = %d, want 5", got)
	}
}

func TestLessOrEqual(t *testing.T) {
	a := New()
	a.Set(1, 10)

	b := New()
	b.Set(1, 20)
	b.Set(2, 5)

	if !a.LessOrEqual(b) {
		t.Errorf("a.LessOrEqual(b) = false, want true")
	}
	if b.LessOrEqual(a) {
		t.Errorf("b.LessOrEqual(a) = true, want false")
	}
}

func TestEmptyClockLessOrEqualAnything(t *testing.T) {
	empty := New()
	other := New()
	other.Set(9, -100)

	if !empty.LessOrEqual(other) {
		t.Errorf("empty.LessOrEqual(other) = false, want true")
	}
}

func TestString(t *testing.T) {
	vc := New()
	if got := vc.String(); got != "{}" {
		t.Errorf("String() on empty clock = %q, want {}", got)
	}

	vc.Set(2, 9)
	vc.Set(1, 4)
	if got, want := vc.String(), "{1:4, 2:9}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
