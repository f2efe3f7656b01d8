// Package race provides a happens-before data race detector for kernels
// running on multiple asynchronous execution streams over a shared device
// memory pool.
//
// # Quick Start
//
//	eng := race.New()
//	eng.OnStreamCreate(streamA)
//	eng.OnStreamCreate(streamB)
//	eng.OnBufferAlloc(buf, nil)
//
//	reports := eng.OnLaunch(streamA, nil, []race.BufferID{buf},
//		race.Operator("fill_"), map[race.BufferID][]string{buf: {"self"}}, nil)
//	for _, r := range reports {
//		fmt.Println(r)
//	}
//
// # How It Works
//
// Engine tracks, per live stream, a vector clock indexed by stream, and
// per live synchronization event, a snapshot of some stream's clock taken
// at record time. Every kernel launch is checked against the last writer
// and readers-since-write of every buffer it touches; a conflicting
// access the sync table cannot prove happens-before ordered is reported
// as an [UnsynchronizedAccess].
//
// # Scope
//
// Engine is the happens-before engine only. Extracting buffer ids and
// their read/write effect from a real host call, intercepting that host's
// dispatch mechanism, and capturing call stacks live outside this
// package — see internal/streamrace/schema, internal/streamrace/stackdepot,
// and internal/streamrace/trace for one way to assemble them, or
// cmd/streamrace for a command-line replay tool built on top.
package race
