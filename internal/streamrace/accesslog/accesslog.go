// Package accesslog implements the Buffer Access Log: a mapping from
// device buffer id to the set of most-recent accesses (the last writer,
// plus every reader that has accessed since that writer), and the
// buffer's allocation call stack.
//
// This is the happens-before engine's leaf data structure. It is a plain
// map rather than a sync.Map: the core is single-threaded and strictly
// sequential, with the host responsible for serializing the event stream
// before it reaches the core, so no internal locking is needed here.
package accesslog

import (
	"fmt"

	"github.com/kolkov/streamrace/internal/streamrace/diag"
	"github.com/kolkov/streamrace/internal/streamrace/types"
)

// BufferState is the per-buffer record: its optional allocation stack, the
// reads since the last write, and the optional last writer.
//
// Invariant: after any write is recorded, Reads is empty, and Writer (if
// present) has a strictly smaller SeqNum than every entry in Reads.
type BufferState struct {
	AllocStack types.StackSnapshot
	Reads      []types.Access
	Writer     *types.Access
}

// Log is the Buffer Access Log.
type Log struct {
	buffers map[types.BufferID]*BufferState
}

// New returns an empty access log.
func New() *Log {
	return &Log{buffers: make(map[types.BufferID]*BufferState)}
}

// Create inserts an empty state for buffer, recording its allocation
// stack. It must not already exist — callers that are unsure should use
// EnsureAbsent first.
func (l *Log) Create(buffer types.BufferID, stack types.StackSnapshot) {
	l.buffers[buffer] = &BufferState{AllocStack: stack}
}

// Drop removes buffer's state. It must already exist.
func (l *Log) Drop(buffer types.BufferID) {
	delete(l.buffers, buffer)
}

// EnsureExists back-fills an allocation-less state for buffer if one is
// not already present, logging a diagnostic: the trace may legitimately
// begin mid-program (the detector can be enabled late).
func (l *Log) EnsureExists(buffer types.BufferID) {
	if _, ok := l.buffers[buffer]; ok {
		return
	}
	diag.Backfill(`
		Found buffer with id: %d, but no matching allocation in the trace.
		Backfilling the trace now. Perhaps the detector was enabled after
		some kernels had already run?
	`, buffer)
	l.Create(buffer, nil)
}

// EnsureAbsent drops a pre-existing state for buffer, logging a
// diagnostic: the trace's deallocation event for a previous lifetime of
// this address may have been missed.
func (l *Log) EnsureAbsent(buffer types.BufferID) {
	if _, ok := l.buffers[buffer]; !ok {
		return
	}
	diag.Backfill(`
		Found duplicate allocation in the trace for buffer with id: %d.
		Assuming its deallocation wasn't caught and backfilling it now.
	`, buffer)
	l.Drop(buffer)
}

// LastWriter returns the most recent write access to buffer, if any.
func (l *Log) LastWriter(buffer types.BufferID) *types.Access {
	st, ok := l.buffers[buffer]
	if !ok {
		return nil
	}
	return st.Writer
}

// Readers returns the accesses read since buffer's last write. The
// returned slice is owned by the log and must not be mutated by callers.
func (l *Log) Readers(buffer types.BufferID) []types.Access {
	st, ok := l.buffers[buffer]
	if !ok {
		return nil
	}
	return st.Reads
}

// AddRead appends a to buffer's reads-since-write list.
//
// Precondition: a.Kind == types.Read.
func (l *Log) AddRead(buffer types.BufferID, a types.Access) {
	if a.Kind != types.Read {
		panic(fmt.Sprintf("accesslog: AddRead called with non-read access kind %v", a.Kind))
	}
	st, ok := l.buffers[buffer]
	if !ok {
		panic(fmt.Sprintf("accesslog: AddRead on unknown buffer %d", buffer))
	}
	st.Reads = append(st.Reads, a)
}

// SetWrite replaces buffer's writer with a and clears its reads list.
//
// Precondition: a.Kind == types.Write.
func (l *Log) SetWrite(buffer types.BufferID, a types.Access) {
	if a.Kind != types.Write {
		panic(fmt.Sprintf("accesslog: SetWrite called with non-write access kind %v", a.Kind))
	}
	st, ok := l.buffers[buffer]
	if !ok {
		panic(fmt.Sprintf("accesslog: SetWrite on unknown buffer %d", buffer))
	}
	write := a
	st.Writer = &write
	st.Reads = nil
}

// AllocStack returns buffer's captured allocation stack, or nil if none
// was captured (either because the buffer was back-filled, or the
// collaborator chose not to capture one).
func (l *Log) AllocStack(buffer types.BufferID) types.StackSnapshot {
	st, ok := l.buffers[buffer]
	if !ok {
		return nil
	}
	return st.AllocStack
}

// Reset discards all tracked buffers. Used by tests between scenarios.
func (l *Log) Reset() {
	l.buffers = make(map[types.BufferID]*BufferState)
}
