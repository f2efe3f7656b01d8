package config

import "testing"

func TestNewSamplerDisabledReturnsNil(t *testing.T) {
	s := NewSampler(Options{SamplingEnabled: false})
	if s != nil {
		t.Fatalf("NewSampler with sampling disabled = %v, want nil", s)
	}
	if !s.ShouldSample() {
		t.Errorf("nil sampler ShouldSample() = false, want true (nil sampler checks everything)")
	}
}

func TestShouldSampleEveryLaunchWhenRateIsOneOrZero(t *testing.T) {
	for _, rate := range []uint64{0, 1} {
		s := NewSampler(Options{SamplingEnabled: true, SampleRate: rate})
		for i := 0; i < 5; i++ {
			if !s.ShouldSample() {
				t.Fatalf("ShouldSample() = false on iteration %d, want true for rate %d", i, rate)
			}
		}
	}
}

func TestShouldSampleOneInN(t *testing.T) {
	s := NewSampler(Options{SamplingEnabled: true, SampleRate: 3})

	var sampled int
	for i := 0; i < 9; i++ {
		if s.ShouldSample() {
			sampled++
		}
	}
	if sampled != 3 {
		t.Errorf("sampled %d of 9 launches at rate 3, want 3", sampled)
	}
}
