// Package synctable implements the Stream Sync Table: the happens-before
// state of the engine. It holds, for every live stream, a vector clock
// indexed by stream; and, for every live sync event, a snapshot of some
// stream's vector clock taken at record time.
//
// The table is two maps: one keyed by StreamID holding each stream's
// "current" clock, one keyed by EventID holding the "recorded" snapshot
// taken at that event's last record call. A stream's wait on an event
// joins the event's recorded snapshot into the stream's current clock,
// propagating every happens-before edge the event has witnessed so far.
package synctable

import (
	"github.com/kolkov/streamrace/internal/streamrace/diag"
	"github.com/kolkov/streamrace/internal/streamrace/types"
	"github.com/kolkov/streamrace/internal/streamrace/vectorclock"
)

// Table is the Stream Sync Table.
type Table struct {
	current  map[types.StreamID]vectorclock.VectorClock
	recorded map[types.EventID]vectorclock.VectorClock
}

// New returns an empty sync table.
func New() *Table {
	return &Table{
		current:  make(map[types.StreamID]vectorclock.VectorClock),
		recorded: make(map[types.EventID]vectorclock.VectorClock),
	}
}

// CreateStream inserts an empty clock for s. A duplicate creation is
// ignored: streams in this model are born once and live forever.
func (t *Table) CreateStream(s types.StreamID) {
	if _, ok := t.current[s]; ok {
		return
	}
	t.current[s] = vectorclock.New()
}

// CreateEvent inserts an empty snapshot for e. A duplicate creation
// deletes then recreates — the host reused an event id without the
// detector seeing a matching delete.
func (t *Table) CreateEvent(e types.EventID) {
	if _, ok := t.recorded[e]; ok {
		diag.Backfill(`
			Found duplicate creation in the trace for event with id: %d.
			Assuming its deletion wasn't caught and backfilling it now.
		`, e)
		t.DeleteEvent(e)
	}
	t.recorded[e] = vectorclock.New()
}

// DeleteEvent drops e's snapshot, back-filling an empty one first if e was
// never observed being created.
func (t *Table) DeleteEvent(e types.EventID) {
	t.ensureEventExists(e)
	delete(t.recorded, e)
}

// Bump sets current[s][s] := n, the publication of "kernel n on s has
// started" that lets other streams witness it through record/wait.
func (t *Table) Bump(s types.StreamID, n types.SeqNum) {
	t.ensureStreamExists(s)
	t.current[s].Set(s, n)
}

// Record snapshots s's current clock into recorded[e].
func (t *Table) Record(e types.EventID, s types.StreamID) {
	t.ensureEventExists(e)
	t.ensureStreamExists(s)
	t.recorded[e] = t.current[s].Clone()
}

// Wait joins recorded[e] into s's current clock: for every (stream, n) in
// recorded[e], current[s][stream] := max(current[s][stream], n).
func (t *Table) Wait(s types.StreamID, e types.EventID) {
	t.ensureEventExists(e)
	t.ensureStreamExists(s)
	t.current[s].Join(t.recorded[e])
}

// OrderedAfter reports whether an access by sCur at seq num n happens
// after the access on sPrev that produced n — i.e. whether sCur has, via
// some chain of record/wait pairs, observed a clock from sPrev covering n.
//
// sCur == sPrev returns true for every n that Bump has already published
// on s, because Bump maintains current[s][s] at s's own newest launch:
// same-stream accesses never race. A stream that was never bumped has an
// empty clock, so it reports false for any n >= 0.
func (t *Table) OrderedAfter(sCur types.StreamID, n types.SeqNum, sPrev types.StreamID) bool {
	t.ensureStreamExists(sCur)
	t.ensureStreamExists(sPrev)
	return n <= t.current[sCur].Get(sPrev)
}

func (t *Table) ensureStreamExists(s types.StreamID) {
	if _, ok := t.current[s]; ok {
		return
	}
	diag.Backfill(`
		Found stream with id: %d, but no matching creation in the trace.
		Backfilling the trace now. Perhaps the detector was enabled after
		some kernels had already run?
	`, s)
	t.CreateStream(s)
}

func (t *Table) ensureEventExists(e types.EventID) {
	if _, ok := t.recorded[e]; ok {
		return
	}
	diag.Backfill(`
		Found event with id: %d, but no matching creation in the trace.
		Backfilling the trace now. Perhaps the detector was enabled after
		some kernels had already run?
	`, e)
	t.recorded[e] = vectorclock.New()
}

// Reset discards all tracked streams and events. Used by tests between
// scenarios.
func (t *Table) Reset() {
	t.current = make(map[types.StreamID]vectorclock.VectorClock)
	t.recorded = make(map[types.EventID]vectorclock.VectorClock)
}
