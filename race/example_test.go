package race_test

import (
	"fmt"

	"github.com/kolkov/streamrace/race"
)

// Example demonstrates detecting an unsynchronized access between two
// streams: a write on streamB races a read on streamA because neither
// stream ever recorded or waited on an event.
func Example() {
	eng := race.New()
	eng.OnStreamCreate(0)
	eng.OnStreamCreate(1)
	eng.OnBufferAlloc(100, nil)

	eng.OnLaunch(0, []race.BufferID{100}, nil, race.Operator("relu_"),
		map[race.BufferID][]string{100: {"self"}}, nil)

	reports := eng.OnLaunch(1, nil, []race.BufferID{100}, race.Operator("fill_"),
		map[race.BufferID][]string{100: {"self"}}, nil)

	fmt.Println(len(reports) > 0)

	// Output:
	// true
}

// Example_synchronized demonstrates that an event record/wait pair
// establishes the happens-before edge a race detector requires, so no
// race is reported.
func Example_synchronized() {
	eng := race.New()
	eng.OnStreamCreate(0)
	eng.OnStreamCreate(1)
	eng.OnEventCreate(0)
	eng.OnBufferAlloc(100, nil)

	eng.OnLaunch(0, []race.BufferID{100}, nil, race.Operator("relu_"),
		map[race.BufferID][]string{100: {"self"}}, nil)
	eng.OnEventRecord(0, 0)
	eng.OnEventWait(1, 0)

	reports := eng.OnLaunch(1, nil, []race.BufferID{100}, race.Operator("fill_"),
		map[race.BufferID][]string{100: {"self"}}, nil)

	fmt.Println(len(reports) == 0)

	// Output:
	// true
}
