// Package analyzer implements the Launch Analyzer: the orchestrator that
// owns the Buffer Access Log and the Stream Sync Table, and that, on each
// kernel launch, mutates both and emits the race reports the launch's new
// accesses found against the existing ones.
package analyzer

import (
	"sync"

	gometrics "github.com/armon/go-metrics"

	"github.com/kolkov/streamrace/internal/streamrace/accesslog"
	"github.com/kolkov/streamrace/internal/streamrace/config"
	"github.com/kolkov/streamrace/internal/streamrace/report"
	"github.com/kolkov/streamrace/internal/streamrace/synctable"
	"github.com/kolkov/streamrace/internal/streamrace/types"
)

// Engine is the Launch Analyzer: the single owning context for one traced
// program's happens-before state. It holds no global mutable state; every
// call is serialized through an Engine value the collaborator owns.
type Engine struct {
	mu sync.Mutex

	log    *accesslog.Log
	sync   *synctable.Table
	seqNum types.SeqNum

	sampler *config.Sampler

	racesDetected uint64
}

// New returns a ready-to-use Engine with default options.
func New() *Engine {
	return NewWithOptions(config.Options{})
}

// NewWithOptions returns a ready-to-use Engine with the given options.
func NewWithOptions(opts config.Options) *Engine {
	return &Engine{
		log:     accesslog.New(),
		sync:    synctable.New(),
		sampler: config.NewSampler(opts),
	}
}

// OnStreamCreate handles a stream's creation event.
func (e *Engine) OnStreamCreate(s types.StreamID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sync.CreateStream(s)
}

// OnEventCreate handles a sync event's creation.
func (e *Engine) OnEventCreate(ev types.EventID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sync.CreateEvent(ev)
}

// OnEventDelete handles a sync event's deletion.
func (e *Engine) OnEventDelete(ev types.EventID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sync.DeleteEvent(ev)
}

// OnEventRecord handles a sync event recording stream s's current clock.
func (e *Engine) OnEventRecord(ev types.EventID, s types.StreamID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sync.Record(ev, s)
}

// OnEventWait handles stream s waiting on sync event ev.
func (e *Engine) OnEventWait(s types.StreamID, ev types.EventID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sync.Wait(s, ev)
}

// OnBufferAlloc handles a device buffer's allocation.
func (e *Engine) OnBufferAlloc(buffer types.BufferID, stack types.StackSnapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log.EnsureAbsent(buffer)
	e.log.Create(buffer, stack)
}

// OnBufferFree handles a device buffer's deallocation.
func (e *Engine) OnBufferFree(buffer types.BufferID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log.EnsureExists(buffer)
	e.log.Drop(buffer)
}

// OnLaunch runs the launch algorithm: it assigns the launch a seq num,
// bumps the launching stream's clock, and checks every referenced
// buffer's new access against the buffer's recorded history under the
// current sync table, returning any unsynchronized accesses found.
//
// names must have an entry for every buffer id that appears in readOnly
// or readWrite, listing the argument names that alias it in this launch.
func (e *Engine) OnLaunch(
	stream types.StreamID,
	readOnly, readWrite []types.BufferID,
	operator types.OperatorDescriptor,
	names map[types.BufferID][]string,
	stack types.StackSnapshot,
) []report.Report {
	e.mu.Lock()
	defer e.mu.Unlock()

	gometrics.IncrCounter([]string{"streamrace", "launches"}, 1)

	if e.sampler != nil && !e.sampler.ShouldSample() {
		gometrics.IncrCounter([]string{"streamrace", "launches_sampled_out"}, 1)
		return nil
	}

	e.seqNum++
	n := e.seqNum
	e.sync.Bump(stream, n)

	var reports []report.Report

	checkConflict := func(buffer types.BufferID, cur types.Access, prev *types.Access) {
		if prev == nil {
			return
		}
		if e.sync.OrderedAfter(cur.Stream, prev.SeqNum, prev.Stream) {
			return
		}
		reports = append(reports, &report.UnsynchronizedAccess{
			Buffer:     buffer,
			AllocStack: e.log.AllocStack(buffer),
			Current:    cur,
			Previous:   *prev,
		})
	}

	for _, buffer := range readOnly {
		e.log.EnsureExists(buffer)
		cur := types.NewAccess(types.Read, n, stream, operator, names[buffer], stack)
		checkConflict(buffer, cur, e.log.LastWriter(buffer))
		e.log.AddRead(buffer, cur)
	}

	for _, buffer := range readWrite {
		e.log.EnsureExists(buffer)
		cur := types.NewAccess(types.Write, n, stream, operator, names[buffer], stack)
		if readers := e.log.Readers(buffer); len(readers) > 0 {
			for i := range readers {
				prev := readers[i]
				checkConflict(buffer, cur, &prev)
			}
		} else {
			checkConflict(buffer, cur, e.log.LastWriter(buffer))
		}
		e.log.SetWrite(buffer, cur)
	}

	if len(reports) > 0 {
		e.racesDetected += uint64(len(reports))
		gometrics.IncrCounter([]string{"streamrace", "races_detected"}, float32(len(reports)))
	}

	return reports
}

// RacesDetected returns the total number of race reports produced so far.
func (e *Engine) RacesDetected() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.racesDetected
}

// Reset discards all engine state. Used by tests between scenarios.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log.Reset()
	e.sync.Reset()
	e.seqNum = 0
	e.racesDetected = 0
}
