// Package schema builds the per-launch argument partition the Launch
// Analyzer needs — disjoint read-only and read-write buffer id lists, plus
// the argument names that alias each buffer — from a flat list of observed
// kernel arguments.
//
// A buffer referenced as both read and write within the same launch is
// classified read-write: the final read-only set is every buffer observed
// read that was never also observed written.
package schema

import "github.com/kolkov/streamrace/internal/streamrace/types"

// Argument is one observed reference to a device buffer during a kernel
// launch: which buffer, what it is called in the kernel's argument list
// or output list, and whether this particular reference writes it.
type Argument struct {
	Buffer  types.BufferID
	Name    string
	IsWrite bool
}

// Partition is the disjoint read-only/read-write split the Launch
// Analyzer's OnLaunch expects, plus the argument names aliasing each
// buffer for use in race reports.
type Partition struct {
	ReadOnly  []types.BufferID
	ReadWrite []types.BufferID
	Names     map[types.BufferID][]string
}

// Handler accumulates one launch's argument observations, then produces
// the final Partition.
type Handler struct {
	read    map[types.BufferID]bool
	written map[types.BufferID]bool
	names   map[types.BufferID][]string
}

// NewHandler returns an empty argument handler for one launch.
func NewHandler() *Handler {
	return &Handler{
		read:    make(map[types.BufferID]bool),
		written: make(map[types.BufferID]bool),
		names:   make(map[types.BufferID][]string),
	}
}

// Observe records one argument reference.
func (h *Handler) Observe(arg Argument) {
	if arg.IsWrite {
		h.written[arg.Buffer] = true
	} else {
		h.read[arg.Buffer] = true
	}
	h.names[arg.Buffer] = append(h.names[arg.Buffer], arg.Name)
}

// ObserveOutput records a kernel output, always a write.
func (h *Handler) ObserveOutput(buffer types.BufferID) {
	h.Observe(Argument{Buffer: buffer, Name: "output", IsWrite: true})
}

// Partition computes the final disjoint read-only/read-write split:
// read-only is every buffer observed read but never written, read-write
// is every buffer observed written (whether or not it was also read).
func (h *Handler) Partition() Partition {
	p := Partition{Names: h.names}
	for buffer := range h.written {
		p.ReadWrite = append(p.ReadWrite, buffer)
	}
	for buffer := range h.read {
		if !h.written[buffer] {
			p.ReadOnly = append(p.ReadOnly, buffer)
		}
	}
	return p
}
