// Package stackdepot captures and formats call stacks for race reports.
//
// Captured stacks are deduplicated by an FNV-1a hash of their program
// counters into a global sync.Map, so that two accesses from the same
// call site share one stored trace. Capture returns a types.StackSnapshot
// handle — a thin wrapper around the hash — resolved back to the full
// frame list lazily, only when a report is formatted.
package stackdepot

import (
	"fmt"
	"hash/fnv"
	"runtime"
	"strings"
	"sync"
	"unsafe"

	"github.com/kolkov/streamrace/internal/streamrace/types"
)

// MaxFrames is the maximum number of stack frames captured per snapshot.
const MaxFrames = 32

var depot sync.Map // uint64 hash -> *storedTrace

type storedTrace struct {
	pcs []uintptr
}

// snapshot is the types.StackSnapshot returned by Capture: a handle into
// the depot, resolved lazily by Format.
type snapshot struct {
	hash uint64
}

// Capture captures the caller's current call stack and returns a
// types.StackSnapshot handle for it, deduplicated against previously
// captured stacks from the same call site.
//
// Capture should be called at most once per observed launch or
// allocation; calling it more often just churns the depot with
// near-identical call-site hashes.
func Capture() types.StackSnapshot {
	var pcs [MaxFrames]uintptr
	// Skip Capture itself and runtime.Callers.
	n := runtime.Callers(2, pcs[:])
	if n == 0 {
		return nil
	}

	h := hashPCs(pcs[:n])
	if _, ok := depot.Load(h); !ok {
		trace := make([]uintptr, n)
		copy(trace, pcs[:n])
		depot.Store(h, &storedTrace{pcs: trace})
	}
	return snapshot{hash: h}
}

// Format implements types.StackSnapshot.
func (s snapshot) Format() string {
	val, ok := depot.Load(s.hash)
	if !ok {
		return "  <stack trace not found in depot>\n"
	}
	trace := val.(*storedTrace)

	frames := runtime.CallersFrames(trace.pcs)
	var buf strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") {
			fmt.Fprintf(&buf, "  %s()\n      %s:%d\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	if buf.Len() == 0 {
		return "  <runtime internal frames only>\n"
	}
	return buf.String()
}

func hashPCs(pcs []uintptr) uint64 {
	h := fnv.New64a()
	for _, pc := range pcs {
		//nolint:gosec // reading a uintptr's bytes for hashing, not dereferencing it
		b := (*[8]byte)(unsafe.Pointer(&pc))[:]
		_, _ = h.Write(b)
	}
	return h.Sum64()
}

// Reset clears the depot. Used by tests between scenarios.
func Reset() {
	depot = sync.Map{}
}

// Stats reports the number of unique stacks currently stored, for
// diagnostics.
func Stats() (uniqueStacks int) {
	depot.Range(func(_, _ interface{}) bool {
		uniqueStacks++
		return true
	})
	return uniqueStacks
}
