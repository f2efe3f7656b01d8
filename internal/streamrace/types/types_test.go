package types

import "testing"

func TestAccessKindString(t *testing.T) {
	if got, want := Read.String(), "reading from"; got != want {
		t.Errorf("Read.String() = %q, want %q", got, want)
	}
	if got, want := Write.String(), "writing to"; got != want {
		t.Errorf("Write.String() = %q, want %q", got, want)
	}
}

func TestOperatorString(t *testing.T) {
	var op OperatorDescriptor = Operator("relu_")
	if got, want := op.String(), "relu_"; got != want {
		t.Errorf("Operator.String() = %q, want %q", got, want)
	}
}

func TestNewAccessCopiesNames(t *testing.T) {
	names := []string{"a", "b"}
	a := NewAccess(Write, 1, 2, Operator("fill_"), names, nil)

	names[0] = "mutated"
	if a.Names[0] != "a" {
		t.Errorf("NewAccess did not copy names: a.Names[0] = %q, want %q", a.Names[0], "a")
	}

	a.Names[1] = "also mutated"
	if names[1] != "b" {
		t.Errorf("mutating Access.Names leaked back into caller's slice")
	}
}
