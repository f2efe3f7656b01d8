// Package config holds the Engine's tunable options: a small struct plus
// an optional sampler, constructed once at startup.
package config

import "sync/atomic"

// Options configures an Engine.
type Options struct {
	// SamplingEnabled trades race-detection completeness for reduced
	// overhead on very hot traces by checking only a fraction of launches.
	SamplingEnabled bool

	// SampleRate: check 1 in SampleRate launches when SamplingEnabled.
	// 0 or 1 means "check every launch."
	SampleRate uint64
}

// Sampler implements deterministic 1-in-N per-launch sampling: an atomic
// counter checked against SampleRate on each call.
type Sampler struct {
	rate     uint64
	tracePos uint64
}

// NewSampler builds a Sampler from Options. Returns nil if sampling is
// disabled, so callers can skip the check entirely on the hot path.
func NewSampler(opts Options) *Sampler {
	if !opts.SamplingEnabled {
		return nil
	}
	rate := opts.SampleRate
	if rate == 0 {
		rate = 1
	}
	return &Sampler{rate: rate}
}

// ShouldSample reports whether the next launch should be checked.
func (s *Sampler) ShouldSample() bool {
	if s == nil || s.rate <= 1 {
		return true
	}
	pos := atomic.AddUint64(&s.tracePos, 1)
	return pos%s.rate == 0
}
