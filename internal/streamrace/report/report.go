// Package report defines the race reports produced by the Launch Analyzer
// and the collected-errors wrapper a collaborator can use to fail on race.
//
// Report is a closed, tagged variant with exactly one case today:
// UnsynchronizedAccess.
package report

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/kolkov/streamrace/internal/streamrace/types"
)

// toolName identifies this detector in report headers.
const toolName = "streamrace"

// Report is the sealed set of race report kinds the core can produce.
// Today there is exactly one: UnsynchronizedAccess.
type Report interface {
	fmt.Stringer
	isReport()
}

// UnsynchronizedAccess reports two accesses to the same buffer, by
// different streams, at least one a write, that the sync table could not
// prove happens-before ordered.
type UnsynchronizedAccess struct {
	Buffer     types.BufferID
	AllocStack types.StackSnapshot // may be nil
	Current    types.Access
	Previous   types.Access
}

func (*UnsynchronizedAccess) isReport() {}

// String renders the report as a human-readable race description: the
// current and previous access, each with its kernel, argument names, and
// stack trace, followed by the buffer's allocation context.
func (u *UnsynchronizedAccess) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "============================\n")
	fmt.Fprintf(&b, "%s detected a possible data race on buffer %d\n", toolName, u.Buffer)

	fmt.Fprintf(&b, "Access by stream %d during kernel:\n", u.Current.Stream)
	fmt.Fprintf(&b, "%s\n", u.Current.Operator)
	fmt.Fprintf(&b, "%s argument: %s\n", u.Current.Kind, strings.Join(u.Current.Names, ", "))
	fmt.Fprintf(&b, "With stack trace:\n%s", formatStack(u.Current.Stack))

	fmt.Fprintf(&b, "Previous access by stream %d during kernel:\n", u.Previous.Stream)
	fmt.Fprintf(&b, "%s\n", u.Previous.Operator)
	fmt.Fprintf(&b, "%s argument: %s\n", u.Previous.Kind, strings.Join(u.Previous.Names, ", "))
	fmt.Fprintf(&b, "With stack trace:\n%s", formatStack(u.Previous.Stack))

	fmt.Fprintf(&b, "Buffer was allocated with stack trace:\n")
	if u.AllocStack != nil {
		fmt.Fprintf(&b, "%s", u.AllocStack.Format())
	} else {
		fmt.Fprintf(&b, "Trace for buffer allocation not found.\n")
	}

	return b.String()
}

func formatStack(s types.StackSnapshot) string {
	if s == nil {
		return "  <no stack captured>\n"
	}
	return s.Format()
}

// Set aggregates zero or more reports into a single error a collaborator
// can propagate.
//
// Set itself never surfaces from the core: race reports are always
// returned, never thrown; a collaborator that wants fail-on-race behavior
// accumulates reports into a Set and calls ErrorOrNil.
type Set struct {
	merr *multierror.Error
}

// NewSet returns an empty report set.
func NewSet() *Set {
	return &Set{}
}

// Add appends reports to the set.
func (s *Set) Add(reports ...Report) {
	for _, r := range reports {
		s.merr = multierror.Append(s.merr, fmt.Errorf("%s", r.String()))
	}
}

// Len returns the number of reports accumulated.
func (s *Set) Len() int {
	if s.merr == nil {
		return 0
	}
	return len(s.merr.Errors)
}

// ErrorOrNil returns nil if the set is empty, or an error describing every
// accumulated report otherwise.
func (s *Set) ErrorOrNil() error {
	if s.merr == nil {
		return nil
	}
	return s.merr.ErrorOrNil()
}
