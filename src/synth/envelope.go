package synth

import "math"

// ----- Note State ----- //

// NoteState tags a note's elapsed time with its lifecycle phase:
// holding (the key is down) or released (the note is fading out). The
// time is in seconds since the most recent start or release event.
type NoteState struct {
	held bool
	time float32
}

// Holding returns the state of a note that has been held for time
// seconds.
func Holding(time float32) NoteState {
	return NoteState{held: true, time: time}
}

// Released returns the state of a note that was released time seconds
// ago.
func Released(time float32) NoteState {
	return NoteState{held: false, time: time}
}

// ----- Envelope ----- //

// Envelope maps a note's lifecycle position to an amplitude multiplier
// between 0 and 1. Envelopes are pure configuration: all timing state
// lives in the NoteState they are sampled with, so one envelope can be
// shared by every note.
type Envelope interface {
	// Sample returns the amplitude multiplier at the given state.
	Sample(state NoteState) float32

	// NoteEnded reports whether the note will not make any sound
	// anymore.
	NoteEnded(state NoteState) bool
}

// ----- ADSR ----- //

// AdsrEnvelope is a linear ADSR envelope. All times are in seconds.
//
//	amplitude
//	^
//	|     /|\
//	|    / | \
//	|   /  |  +---------------+\ -  -  -  -  -  -  -  +
//	|  /   |  |               | \                     | Sustain
//	+-+----+--+---------------+--+------> time  -  -  +
//	  |    |  |               +--+ Release
//	  |    |  |               (note is released)
//	  |    +--+ Decay
//	t=0----+ Attack
type AdsrEnvelope struct {
	// Attack is the time it takes to reach the maximum amplitude.
	Attack float32
	// Decay is the time it takes to reach the sustain amplitude.
	Decay float32
	// Sustain is the amplitude while the note is held. 1 is the
	// default amplitude.
	Sustain float32
	// Release is the time it takes to reach 0 after the note is
	// released.
	Release float32
}

// Immediate returns an envelope that has no effect: full amplitude
// while the note is held, silence as soon as it is released.
func Immediate() AdsrEnvelope {
	return AdsrEnvelope{Attack: 0, Decay: 0, Sustain: 1, Release: 0}
}

// Sample implements Envelope. A zero-length phase is instantaneous:
// its half-open interval is empty, so the branch that would divide by
// the phase length never runs.
//
// The release ramp starts at 1.0 rather than at the amplitude the note
// was last held at, with its slope scaled by the sustain level.
func (e AdsrEnvelope) Sample(state NoteState) float32 {
	t := state.time
	if state.held {
		switch {
		case t < 0:
			return 0
		case t < e.Attack:
			return t / e.Attack
		case t < e.Attack+e.Decay:
			return 1 + (e.Sustain-1)*((t-e.Attack)/e.Decay)
		default:
			return e.Sustain
		}
	}
	if t < e.Release {
		return 1 - t/e.Release*e.Sustain
	}
	return 0
}

// NoteEnded implements Envelope. A held note never ends; a released
// note has ended once the release time has fully elapsed.
func (e AdsrEnvelope) NoteEnded(state NoteState) bool {
	return !state.held && state.time >= e.Release
}

// ----- Exponential ADSR ----- //

// ExponentialAdsrEnvelope runs the same attack/decay/sustain/release
// phases as AdsrEnvelope, but each ramp follows an inverse exponential
// curve y = a*e^(-x) + c, giving analog-style transitions instead of
// straight lines.
type ExponentialAdsrEnvelope struct {
	// EndX is the x value where the curve is cut off; larger values
	// make the bend sharper.
	EndX float32
	// Props is the envelope configuration.
	Props AdsrEnvelope
}

// NewExponentialAdsrEnvelope panics if endX is not positive.
func NewExponentialAdsrEnvelope(endX float32, props AdsrEnvelope) *ExponentialAdsrEnvelope {
	if endX <= 0 {
		panic("synth: endX must be positive")
	}
	return &ExponentialAdsrEnvelope{EndX: endX, Props: props}
}

// sampleExp samples the function y = a*e^(-x) + c at t within 0..1.
// The curve spans 0..tEnd on the x axis, with y(0) = yStart and
// y(tEnd) = yEnd; the interval is compressed into 0..1 before
// sampling.
func sampleExp(yStart, yEnd, tEnd, t float32) float32 {
	a := float64(yStart-yEnd) / (1 - math.Exp(float64(-tEnd)))
	c := float64(yStart) - a
	return float32(a*math.Exp(float64(-t*tEnd)) + c)
}

// Sample implements Envelope.
func (e *ExponentialAdsrEnvelope) Sample(state NoteState) float32 {
	p := e.Props
	t := state.time
	if state.held {
		switch {
		case t < 0:
			return 0
		case t < p.Attack:
			return sampleExp(0, 1, e.EndX, t/p.Attack)
		case t < p.Attack+p.Decay:
			return sampleExp(1, p.Sustain, e.EndX, (t-p.Attack)/p.Decay)
		default:
			return p.Sustain
		}
	}
	if t < p.Release {
		return sampleExp(p.Sustain, 0, e.EndX, t/p.Release)
	}
	return 0
}

// NoteEnded implements Envelope.
func (e *ExponentialAdsrEnvelope) NoteEnded(state NoteState) bool {
	return e.Props.NoteEnded(state)
}
