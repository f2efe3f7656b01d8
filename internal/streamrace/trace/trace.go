// Package trace decodes a recorded event stream and replays it against an
// analyzer.Engine, for offline analysis of a trace captured from a live
// run.
//
// The core itself has no wire protocol or live interception hooks; this
// package is the boundary that turns an external recording into calls
// against the engine. Events are newline-delimited JSON, one object per
// line. Decoding stops at the first malformed record and reports its line
// number; no events are returned in that case.
package trace

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/kolkov/streamrace/internal/streamrace/analyzer"
	"github.com/kolkov/streamrace/internal/streamrace/report"
	"github.com/kolkov/streamrace/internal/streamrace/schema"
	"github.com/kolkov/streamrace/internal/streamrace/stackdepot"
	"github.com/kolkov/streamrace/internal/streamrace/types"
)

// Kind discriminates the recorded event variants.
type Kind string

const (
	KindStreamCreate Kind = "stream_create"
	KindEventCreate  Kind = "event_create"
	KindEventDelete  Kind = "event_delete"
	KindEventRecord  Kind = "event_record"
	KindEventWait    Kind = "event_wait"
	KindBufferAlloc  Kind = "buffer_alloc"
	KindBufferFree   Kind = "buffer_free"
	KindLaunch       Kind = "launch"
)

// Argument is one kernel argument reference, as recorded in a launch event.
type Argument struct {
	Buffer  types.BufferID `json:"buffer"`
	Name    string         `json:"name"`
	IsWrite bool           `json:"is_write"`
}

// Event is one line of a recorded trace. Only the fields relevant to Kind
// are populated.
type Event struct {
	Kind     Kind             `json:"kind"`
	Stream   types.StreamID   `json:"stream,omitempty"`
	Event    types.EventID    `json:"event,omitempty"`
	Buffer   types.BufferID   `json:"buffer,omitempty"`
	Operator string           `json:"operator,omitempty"`
	Args     []Argument       `json:"args,omitempty"`
	Outputs  []types.BufferID `json:"outputs,omitempty"`

	// CaptureStack asks the replayer to capture a live Go stack at this
	// event's point of replay, standing in for a stack captured when the
	// original event was recorded. Most recorded traces leave this false
	// and rely on whatever original call-site info, if any, they embed
	// out of band.
	CaptureStack bool `json:"capture_stack,omitempty"`
}

// Decode reads newline-delimited JSON events from r, one per line,
// skipping blank lines.
func Decode(r io.Reader) ([]Event, error) {
	var events []Event
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(bytesTrimSpace(text)) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(text, &ev); err != nil {
			return nil, errors.Wrapf(err, "trace: decoding line %d", line)
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "trace: scanning")
	}
	return events, nil
}

func bytesTrimSpace(b []byte) []byte {
	start := 0
	for start < len(b) && isSpace(b[start]) {
		start++
	}
	end := len(b)
	for end > start && isSpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// Replay feeds a decoded event stream into engine in order, accumulating
// every race report produced into a single report.Set.
func Replay(engine *analyzer.Engine, events []Event) *report.Set {
	set := report.NewSet()
	for _, ev := range events {
		replayOne(engine, ev, set)
	}
	return set
}

func replayOne(engine *analyzer.Engine, ev Event, set *report.Set) {
	switch ev.Kind {
	case KindStreamCreate:
		engine.OnStreamCreate(ev.Stream)
	case KindEventCreate:
		engine.OnEventCreate(ev.Event)
	case KindEventDelete:
		engine.OnEventDelete(ev.Event)
	case KindEventRecord:
		engine.OnEventRecord(ev.Event, ev.Stream)
	case KindEventWait:
		engine.OnEventWait(ev.Stream, ev.Event)
	case KindBufferAlloc:
		var stack types.StackSnapshot
		if ev.CaptureStack {
			stack = stackdepot.Capture()
		}
		engine.OnBufferAlloc(ev.Buffer, stack)
	case KindBufferFree:
		engine.OnBufferFree(ev.Buffer)
	case KindLaunch:
		h := schema.NewHandler()
		for _, a := range ev.Args {
			h.Observe(schema.Argument{Buffer: a.Buffer, Name: a.Name, IsWrite: a.IsWrite})
		}
		for _, out := range ev.Outputs {
			h.ObserveOutput(out)
		}
		part := h.Partition()

		var stack types.StackSnapshot
		if ev.CaptureStack {
			stack = stackdepot.Capture()
		}

		reports := engine.OnLaunch(ev.Stream, part.ReadOnly, part.ReadWrite, types.Operator(ev.Operator), part.Names, stack)
		for _, r := range reports {
			set.Add(r)
		}
	}
}
