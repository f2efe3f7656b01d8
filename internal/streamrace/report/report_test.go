package report

import (
	"strings"
	"testing"

	"github.com/kolkov/streamrace/internal/streamrace/types"
)

type fakeStack string

func (f fakeStack) Format() string { return string(f) + "\n" }

func TestUnsynchronizedAccessStringFormat(t *testing.T) {
	cur := types.NewAccess(types.Write, 2, 1, types.Operator("fill_"), []string{"x"}, fakeStack("  cur.go:1"))
	prev := types.NewAccess(types.Read, 1, 0, types.Operator("relu_"), []string{"x"}, fakeStack("  prev.go:1"))

	r := &UnsynchronizedAccess{
		Buffer:     100,
		AllocStack: fakeStack("  alloc.go:1"),
		Current:    cur,
		Previous:   prev,
	}

	out := r.String()

	for _, want := range []string{
		"streamrace detected a possible data race on buffer 100",
		"Access by stream 1 during kernel:",
		"fill_",
		"writing to argument: x",
		"Previous access by stream 0 during kernel:",
		"relu_",
		"reading from argument: x",
		"Buffer was allocated with stack trace:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("String() missing %q\nfull output:\n%s", want, out)
		}
	}
}

func TestUnsynchronizedAccessStringNoAllocStack(t *testing.T) {
	cur := types.NewAccess(types.Write, 2, 1, types.Operator("fill_"), nil, nil)
	prev := types.NewAccess(types.Write, 1, 0, types.Operator("fill_"), nil, nil)

	r := &UnsynchronizedAccess{Buffer: 1, Current: cur, Previous: prev}
	out := r.String()

	if !strings.Contains(out, "Trace for buffer allocation not found.") {
		t.Errorf("String() with nil AllocStack = %q, missing fallback line", out)
	}
}

func TestSetAccumulatesAndErrorOrNil(t *testing.T) {
	s := NewSet()
	if err := s.ErrorOrNil(); err != nil {
		t.Errorf("ErrorOrNil on empty set = %v, want nil", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len on empty set = %d, want 0", s.Len())
	}

	r := &UnsynchronizedAccess{
		Buffer:   1,
		Current:  types.NewAccess(types.Write, 1, 0, types.Operator("fill_"), nil, nil),
		Previous: types.NewAccess(types.Write, 0, 1, types.Operator("fill_"), nil, nil),
	}
	s.Add(r, r)

	if s.Len() != 2 {
		t.Errorf("Len after adding 2 reports = %d, want 2", s.Len())
	}
	if err := s.ErrorOrNil(); err == nil {
		t.Errorf("ErrorOrNil after adding reports = nil, want non-nil")
	}
}
