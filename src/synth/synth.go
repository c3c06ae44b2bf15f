// Package synth is a small real-time polyphonic synthesis engine. It
// mixes a bounded set of simultaneously sounding notes into sample
// buffers, combining a pluggable waveform generator (Oscillator) with
// a pluggable amplitude shaper (Envelope).
//
// The package is single-threaded by design: no operation locks, and
// the caller is expected to serialize StartNote/EndNote/Render/
// Bookkeeping around its own audio loop.
package synth

// ----- Config ----- //

// DefaultSampleRate is the sample rate used by DefaultConfig, in Hz.
const DefaultSampleRate = 44100.0

// DefaultLeftoverSampleCount is the leftover count used by
// DefaultConfig.
const DefaultLeftoverSampleCount = 16

// DefaultBufferSize is about 5ms of audio at the default sample rate,
// plus room for the leftover samples.
const DefaultBufferSize = 44100/200 + DefaultLeftoverSampleCount

// Config describes the audio stream the synth renders for. BufferSize
// and LeftoverSampleCount are sizing hints for the surrounding
// streaming pipeline; the rendering itself only consumes SampleRate.
type Config struct {
	// SampleRate of the audio stream, in Hz.
	SampleRate float32
	// BufferSize is the number of samples per buffer.
	BufferSize int
	// LeftoverSampleCount is the number of samples to be copied from
	// the previous buffer to the next.
	LeftoverSampleCount int
}

// DefaultConfig returns a Config with the package defaults.
func DefaultConfig() Config {
	return Config{
		SampleRate:          DefaultSampleRate,
		BufferSize:          DefaultBufferSize,
		LeftoverSampleCount: DefaultLeftoverSampleCount,
	}
}

// ----- Synth ----- //

// Synth renders currently playing notes into sample buffers. It owns
// one oscillator, one envelope and the set of sounding notes.
type Synth struct {
	cfg     Config
	osc     Oscillator
	env     Envelope
	notes   *noteList
	scratch []float32
}

// NewSynth returns a synth that can play up to maxNotes notes at once;
// starting a note beyond that evicts the oldest sounding one. It
// panics if cfg.SampleRate is not positive or maxNotes is zero, since
// either would be a programmer error that must not surface as silent
// misbehavior in Render.
func NewSynth(cfg Config, osc Oscillator, env Envelope, maxNotes int) *Synth {
	if cfg.SampleRate <= 0 {
		panic("synth: sample rate must be positive")
	}
	return &Synth{
		cfg:     cfg,
		osc:     osc,
		env:     env,
		notes:   newNoteList(maxNotes),
		scratch: make([]float32, cfg.BufferSize),
	}
}

// StartNote begins playing a note and returns a handle for ending it
// later.
func (s *Synth) StartNote(freq, amp float32) NoteID {
	return s.notes.add(Note{
		Freq:  freq,
		Amp:   amp,
		Time:  0,
		Held:  true,
		State: s.osc.CreateState(),
	})
}

// EndNote releases the note. Its clock restarts at zero so that the
// envelope's release timing is independent of how long the note was
// held. Ending an evicted or already swept note is a no-op.
func (s *Synth) EndNote(id NoteID) {
	if note := s.notes.get(id); note != nil {
		note.Held = false
		note.Time = 0
	}
}

// Render adds every sounding note to buffer and advances each note's
// clock by the buffer duration. The buffer is not cleared first;
// callers that do not want residual content must zero it themselves.
func (s *Synth) Render(buffer []float32) {
	deltaT := 1 / s.cfg.SampleRate
	totalTime := float32(len(buffer)) * deltaT
	scratch := s.scratchFor(len(buffer))
	s.notes.each(func(note *Note) {
		for i := range scratch {
			scratch[i] = 0
		}
		s.osc.FillSamples(note.State, scratch, deltaT, note.Freq, note.Amp)
		for i, sample := range scratch {
			amp := s.env.Sample(note.heldState(float32(i) * deltaT))
			buffer[i] += sample * amp
		}
		note.Time += totalTime
	})
}

// scratch is preallocated at cfg.BufferSize so that steady-state
// rendering never allocates; it only grows if a larger buffer shows
// up.
func (s *Synth) scratchFor(n int) []float32 {
	if cap(s.scratch) < n {
		s.scratch = make([]float32, n)
	}
	return s.scratch[:n]
}

// Bookkeeping drops the notes whose envelope has decayed to silence.
// The owner must call it periodically so that Render's cost stays
// proportional to the notes that still sound.
func (s *Synth) Bookkeeping() {
	s.notes.filter(func(note *Note) bool {
		return !s.env.NoteEnded(note.heldState(0))
	})
}

// NoteCount returns the number of currently sounding notes.
func (s *Synth) NoteCount() int {
	return s.notes.len()
}
