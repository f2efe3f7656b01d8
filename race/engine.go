// Package race provides the public API for the stream race detector.
//
// See doc.go for an overview and example.
package race

import (
	"github.com/kolkov/streamrace/internal/streamrace/analyzer"
	"github.com/kolkov/streamrace/internal/streamrace/config"
	"github.com/kolkov/streamrace/internal/streamrace/report"
	"github.com/kolkov/streamrace/internal/streamrace/types"
)

// Re-exported value types, so collaborators never need to import an
// internal package directly.
type (
	BufferID             = types.BufferID
	StreamID             = types.StreamID
	EventID              = types.EventID
	StackSnapshot        = types.StackSnapshot
	OperatorDescriptor   = types.OperatorDescriptor
	Operator             = types.Operator
	Report               = report.Report
	UnsynchronizedAccess = report.UnsynchronizedAccess
	ReportSet            = report.Set
	Options              = config.Options
)

// NewReportSet returns an empty report.Set for accumulating race reports
// across multiple launches.
func NewReportSet() *ReportSet { return report.NewSet() }

// Engine is the happens-before engine for one traced program: a Buffer
// Access Log and a Stream Sync Table, combined by the Launch Analyzer.
//
// An Engine expects its events delivered one at a time, in the order
// they occurred; it enforces that internally with a mutex rather than
// assuming the caller already serializes its calls.
type Engine struct {
	inner *analyzer.Engine
}

// New returns a ready-to-use Engine with default options: no sampling,
// every launch checked.
func New() *Engine {
	return &Engine{inner: analyzer.New()}
}

// NewWithOptions returns a ready-to-use Engine with the given options.
func NewWithOptions(opts Options) *Engine {
	return &Engine{inner: analyzer.NewWithOptions(opts)}
}

// OnStreamCreate records a new independent execution stream.
func (e *Engine) OnStreamCreate(s StreamID) { e.inner.OnStreamCreate(s) }

// OnEventCreate records a new synchronization event.
func (e *Engine) OnEventCreate(ev EventID) { e.inner.OnEventCreate(ev) }

// OnEventDelete records a synchronization event's destruction.
func (e *Engine) OnEventDelete(ev EventID) { e.inner.OnEventDelete(ev) }

// OnEventRecord records stream s publishing its current progress to ev.
func (e *Engine) OnEventRecord(ev EventID, s StreamID) { e.inner.OnEventRecord(ev, s) }

// OnEventWait records stream s observing everything published to ev so far.
func (e *Engine) OnEventWait(s StreamID, ev EventID) { e.inner.OnEventWait(s, ev) }

// OnBufferAlloc records a device buffer's allocation. stack may be nil if
// the collaborator chose not to capture one.
func (e *Engine) OnBufferAlloc(b BufferID, stack StackSnapshot) { e.inner.OnBufferAlloc(b, stack) }

// OnBufferFree records a device buffer's deallocation.
func (e *Engine) OnBufferFree(b BufferID) { e.inner.OnBufferFree(b) }

// OnLaunch records a kernel launch on stream, checking every referenced
// buffer's new access against its prior accesses, and returns any
// unsynchronized accesses found.
//
// readOnly and readWrite must be disjoint: a buffer referenced as both
// read and write in the same launch belongs in readWrite only. names
// must have an entry for every buffer id appearing in either slice.
func (e *Engine) OnLaunch(
	stream StreamID,
	readOnly, readWrite []BufferID,
	operator OperatorDescriptor,
	names map[BufferID][]string,
	stack StackSnapshot,
) []Report {
	return e.inner.OnLaunch(stream, readOnly, readWrite, operator, names, stack)
}

// RacesDetected returns the total number of race reports this Engine has
// produced so far.
func (e *Engine) RacesDetected() uint64 { return e.inner.RacesDetected() }

// Reset discards all tracked streams, events, and buffers.
func (e *Engine) Reset() { e.inner.Reset() }
