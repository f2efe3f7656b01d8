// Package vectorclock implements the vector clocks used by the Stream Sync
// Table to track happens-before relations between streams.
//
// Stream and event ids are opaque, host-issued, and unbounded, so the
// clock is backed by a sparse map rather than a fixed-size array.
package vectorclock

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kolkov/streamrace/internal/streamrace/types"
)

// VectorClock maps a stream to the highest seq num known to happen-before
// whatever this clock is attached to. A missing key means types.NoSeqNum.
type VectorClock map[types.StreamID]types.SeqNum

// New returns an empty vector clock.
func New() VectorClock {
	return make(VectorClock)
}

// Get returns the clock value for stream s, or types.NoSeqNum if unset.
func (vc VectorClock) Get(s types.StreamID) types.SeqNum {
	if vc == nil {
		return types.NoSeqNum
	}
	if n, ok := vc[s]; ok {
		return n
	}
	return types.NoSeqNum
}

// Set records the clock value for stream s.
func (vc VectorClock) Set(s types.StreamID, n types.SeqNum) {
	vc[s] = n
}

// Clone returns a deep copy, used when snapshotting a stream's clock into
// an event's recorded state.
func (vc VectorClock) Clone() VectorClock {
	out := make(VectorClock, len(vc))
	for s, n := range vc {
		out[s] = n
	}
	return out
}

// Join performs the point-wise maximum vc[s] = max(vc[s], other[s]) for
// every stream known to other. This is the synchronization operation used
// when a stream waits on an event's recorded clock.
func (vc VectorClock) Join(other VectorClock) {
	for s, n := range other {
		if n > vc.Get(s) {
			vc[s] = n
		}
	}
}

// LessOrEqual reports whether vc[s] <= other[s] for every stream s known
// to vc. This is the happens-before check: an empty clock is trivially
// less-or-equal to anything, which is exactly the conservative behavior
// back-filled, never-seen streams need.
func (vc VectorClock) LessOrEqual(other VectorClock) bool {
	for s, n := range vc {
		if n > other.Get(s) {
			return false
		}
	}
	return true
}

// String renders the non-default entries for diagnostics, e.g. "{1:4, 2:9}".
func (vc VectorClock) String() string {
	if len(vc) == 0 {
		return "{}"
	}
	streams := make([]types.StreamID, 0, len(vc))
	for s := range vc {
		streams = append(streams, s)
	}
	sort.Slice(streams, func(i, j int) bool { return streams[i] < streams[j] })
	parts := make([]string, 0, len(streams))
	for _, s := range streams {
		parts = append(parts, fmt.Sprintf("%d:%d", s, vc[s]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
