package stackdepot

import (
	"strings"
	"testing"
)

func TestCaptureProducesFormattableSnapshot(t *testing.T) {
	Reset()
	snap := Capture()
	if snap == nil {
		t.Fatal("Capture returned nil")
	}
	out := snap.Format()
	if !strings.Contains(out, "stackdepot_test.go") {
		t.Errorf("Format() = %q, want it to mention this test file", out)
	}
}

func TestCaptureDedupesSameCallSite(t *testing.T) {
	Reset()
	captureHere := func() snapshot {
		return Capture().(snapshot)
	}

	var got [2]snapshot
	for i := range got {
		got[i] = captureHere()
	}

	if got[0].hash != got[1].hash {
		t.Errorf("two captures from the same call site produced different hashes")
	}
	if n := Stats(); n != 1 {
		t.Errorf("Stats() = %d, want 1 unique stack", n)
	}
}

func TestResetClearsDepot(t *testing.T) {
	Reset()
	Capture()
	if Stats() == 0 {
		t.Fatal("expected at least one stack after Capture")
	}
	Reset()
	if got := Stats(); got != 0 {
		t.Errorf("Stats() after Reset = %d, want 0", got)
	}
}
