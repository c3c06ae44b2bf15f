package synth

import (
	"math"
	"math/rand"
)

// ----- Oscillator ----- //

// OscillatorState holds the mutable per-note state of an oscillator,
// such as its current phase. Each note owns exactly one state value,
// created by the oscillator that consumes it.
type OscillatorState interface{}

// Oscillator describes a waveform. Implementations are immutable
// configuration shared by every note; anything that changes while a
// note sounds lives in the OscillatorState.
type Oscillator interface {
	// CreateState returns a fresh state for one note.
	CreateState() OscillatorState

	// FillSamples adds len(buffer) samples of the waveform to buffer.
	// Implementations add to the existing content instead of
	// overwriting it, so that oscillators are composable.
	//
	// deltaT is the time between samples in seconds, freq the base
	// frequency in Hz and amp the amplitude.
	FillSamples(state OscillatorState, buffer []float32, deltaT, freq, amp float32)
}

// ----- Sine ----- //

// SineOscillator is a plain sine wave.
type SineOscillator struct{}

type sineState struct {
	phase float64 // 0 to 2pi
}

func (SineOscillator) CreateState() OscillatorState {
	return &sineState{}
}

func (SineOscillator) FillSamples(state OscillatorState, buffer []float32, deltaT, freq, amp float32) {
	s := state.(*sineState)
	increment := 2 * math.Pi * float64(freq) * float64(deltaT)
	for i := range buffer {
		buffer[i] += float32(math.Sin(s.phase)) * amp
		s.phase = math.Mod(s.phase+increment, 2*math.Pi)
	}
}

// ----- Saw ----- //

// SawOscillator is a rising sawtooth wave.
type SawOscillator struct{}

type sawState struct {
	phase float64 // 0 to 1
}

func (SawOscillator) CreateState() OscillatorState {
	return &sawState{}
}

func (SawOscillator) FillSamples(state OscillatorState, buffer []float32, deltaT, freq, amp float32) {
	s := state.(*sawState)
	increment := float64(deltaT) * float64(freq)
	for i := range buffer {
		buffer[i] += float32(2*s.phase-1) * amp
		s.phase = math.Mod(s.phase+increment, 1)
	}
}

// ----- Square ----- //

// SquareOscillator is a 50% duty cycle square wave.
type SquareOscillator struct{}

type squareState struct {
	phase float64 // 0 to 1
}

func (SquareOscillator) CreateState() OscillatorState {
	return &squareState{}
}

func (SquareOscillator) FillSamples(state OscillatorState, buffer []float32, deltaT, freq, amp float32) {
	s := state.(*squareState)
	increment := float64(freq) * float64(deltaT)
	for i := range buffer {
		if s.phase < 0.5 {
			buffer[i] += amp
		} else {
			buffer[i] -= amp
		}
		s.phase = math.Mod(s.phase+increment, 1)
	}
}

// ----- Noise ----- //

// NoiseOscillator ignores frequency entirely and adds uniform noise in
// [-amp, amp]. Each note gets its own random source so that voices
// never share generator state.
type NoiseOscillator struct{}

type noiseState struct {
	rng *rand.Rand
}

func (NoiseOscillator) CreateState() OscillatorState {
	return &noiseState{rng: rand.New(rand.NewSource(rand.Int63()))}
}

func (NoiseOscillator) FillSamples(state OscillatorState, buffer []float32, deltaT, freq, amp float32) {
	s := state.(*noiseState)
	for i := range buffer {
		buffer[i] += float32(s.rng.Float64()*2-1) * amp
	}
}

// ----- Harmonic ----- //

// HarmonicOscillator layers sine partials on top of the base
// frequency: entry k (1-based) sounds at freq*k with amplitude
// amps[k-1]*amp/k.
type HarmonicOscillator struct {
	amps []float32
}

func NewHarmonicOscillator(amps []float32) *HarmonicOscillator {
	return &HarmonicOscillator{amps: append([]float32(nil), amps...)}
}

type harmonicState struct {
	states []OscillatorState // one sine state per partial
}

func (h *HarmonicOscillator) CreateState() OscillatorState {
	states := make([]OscillatorState, len(h.amps))
	for i := range states {
		states[i] = SineOscillator{}.CreateState()
	}
	return &harmonicState{states: states}
}

// FillSamples composes the partials from scratch, so unlike the other
// oscillators it zeroes the buffer before adding to it.
func (h *HarmonicOscillator) FillSamples(state OscillatorState, buffer []float32, deltaT, freq, amp float32) {
	s := state.(*harmonicState)
	for i := range buffer {
		buffer[i] = 0
	}
	var sine SineOscillator
	for k, entryAmp := range h.amps {
		multiplier := float32(k + 1)
		sine.FillSamples(s.states[k], buffer, deltaT, freq*multiplier, entryAmp*amp/multiplier)
	}
}
