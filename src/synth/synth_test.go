package synth

import (
	"math"
	"testing"
)

func testConfig() Config {
	return Config{
		SampleRate:          1000,
		BufferSize:          16,
		LeftoverSampleCount: 0,
	}
}

func TestRenderEnvelopeTiming(t *testing.T) {
	adsr := AdsrEnvelope{Attack: 0.01, Decay: 0.01, Sustain: 0.5, Release: 0.1}
	s := NewSynth(testConfig(), SineOscillator{}, adsr, 8)
	s.StartNote(440, 1)

	buf := make([]float32, 10)
	s.Render(buf)
	for i := range buf {
		tm := float64(i) * 0.001
		// 90% through the attack at the 10th sample
		expected := float32(math.Sin(2*math.Pi*440*tm)) * (float32(tm) / 0.01)
		expectNearlyEqual(t, buf[i], expected)
	}
	expectNearlyEqual(t, buf[0], 0)
}

func TestRenderDoesNotClearBuffer(t *testing.T) {
	s := NewSynth(testConfig(), SineOscillator{}, Immediate(), 8)
	s.StartNote(250, 1)
	buf := []float32{1, 1, 1, 1}
	s.Render(buf)
	for i := range buf {
		expected := 1 + float32(math.Sin(2*math.Pi*250*0.001*float64(i)))
		expectNearlyEqual(t, buf[i], expected)
	}
}

func TestRenderAcrossBufferBoundaries(t *testing.T) {
	adsr := AdsrEnvelope{Attack: 0.02, Decay: 0.01, Sustain: 0.5, Release: 0.1}
	whole := NewSynth(testConfig(), SineOscillator{}, adsr, 8)
	split := NewSynth(testConfig(), SineOscillator{}, adsr, 8)
	whole.StartNote(440, 1)
	split.StartNote(440, 1)

	wholeBuf := make([]float32, 20)
	whole.Render(wholeBuf)

	splitBuf := make([]float32, 20)
	split.Render(splitBuf[:10])
	split.Render(splitBuf[10:])

	// oscillator phase and envelope clock both continue seamlessly
	for i := range wholeBuf {
		expectNearlyEqual(t, splitBuf[i], wholeBuf[i])
	}
}

func TestRenderMixesAllNotes(t *testing.T) {
	only440 := NewSynth(testConfig(), SineOscillator{}, Immediate(), 8)
	only440.StartNote(440, 0.3)
	only330 := NewSynth(testConfig(), SineOscillator{}, Immediate(), 8)
	only330.StartNote(330, 0.4)
	both := NewSynth(testConfig(), SineOscillator{}, Immediate(), 8)
	both.StartNote(440, 0.3)
	both.StartNote(330, 0.4)

	a := make([]float32, 16)
	b := make([]float32, 16)
	mixed := make([]float32, 16)
	only440.Render(a)
	only330.Render(b)
	both.Render(mixed)
	for i := range mixed {
		expectNearlyEqual(t, mixed[i], a[i]+b[i])
	}
}

func TestEndNoteResetsClock(t *testing.T) {
	s := NewSynth(testConfig(), SineOscillator{}, Immediate(), 8)
	id := s.StartNote(440, 1)

	buf := make([]float32, 16)
	s.Render(buf)
	note := s.notes.get(id)
	expectEqual(t, note.Held, true)
	expectNearlyEqual(t, note.Time, 0.016)

	s.EndNote(id)
	expectEqual(t, note.Held, false)
	expectNearlyEqual(t, note.Time, 0)

	s.Render(buf)
	expectNearlyEqual(t, note.Time, 0.016)
}

func TestEndNoteUnknownID(t *testing.T) {
	s := NewSynth(testConfig(), SineOscillator{}, Immediate(), 1)
	a := s.StartNote(440, 1)
	s.StartNote(330, 1) // evicts a
	s.EndNote(a)        // no-op
	s.EndNote(NoteID{}) // no-op
	expectEqual(t, s.NoteCount(), 1)
}

func TestBookkeeping(t *testing.T) {
	adsr := AdsrEnvelope{Attack: 0.01, Decay: 0.01, Sustain: 0.5, Release: 0.1}
	s := NewSynth(testConfig(), SineOscillator{}, adsr, 8)
	id := s.StartNote(440, 1)

	// held notes are never swept, no matter how old
	buf := make([]float32, 200)
	s.Render(buf)
	s.Bookkeeping()
	expectEqual(t, s.NoteCount(), 1)

	// a released note survives until its release time has elapsed
	s.EndNote(id)
	s.Bookkeeping()
	expectEqual(t, s.NoteCount(), 1)
	s.Render(buf[:50]) // 0.05s, still within the release
	s.Bookkeeping()
	expectEqual(t, s.NoteCount(), 1)
	s.Render(buf[:50]) // 0.1s total, fully decayed
	s.Bookkeeping()
	expectEqual(t, s.NoteCount(), 0)
}

func TestCapacityInvariant(t *testing.T) {
	s := NewSynth(testConfig(), SineOscillator{}, Immediate(), 3)
	var ids []NoteID
	for i := 0; i < 10; i++ {
		ids = append(ids, s.StartNote(float32(100+i), 1))
		if s.NoteCount() > 3 {
			t.Fatalf("note count exceeded capacity: %d", s.NoteCount())
		}
	}
	// the three most recently started notes survive
	for i, id := range ids {
		note := s.notes.get(id)
		if i < 7 {
			if note != nil {
				t.Fatalf("note %d should have been evicted", i)
			}
		} else {
			if note == nil || note.Freq != float32(100+i) {
				t.Fatalf("note %d should have survived intact", i)
			}
		}
	}
}

func TestRenderLargerThanConfiguredBuffer(t *testing.T) {
	cfg := testConfig()
	cfg.BufferSize = 4
	s := NewSynth(cfg, SineOscillator{}, Immediate(), 8)
	s.StartNote(250, 1)
	buf := make([]float32, 32)
	s.Render(buf)
	for i := range buf {
		expected := float32(math.Sin(2 * math.Pi * 250 * 0.001 * float64(i)))
		expectNearlyEqual(t, buf[i], expected)
	}
}

func TestNewSynthValidation(t *testing.T) {
	expectPanic(t, func() {
		NewSynth(testConfig(), SineOscillator{}, Immediate(), 0)
	})
	expectPanic(t, func() {
		cfg := testConfig()
		cfg.SampleRate = 0
		NewSynth(cfg, SineOscillator{}, Immediate(), 8)
	})
	expectPanic(t, func() {
		cfg := testConfig()
		cfg.SampleRate = -44100
		NewSynth(cfg, SineOscillator{}, Immediate(), 8)
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	expectEqual(t, cfg.SampleRate, float32(44100))
	expectEqual(t, cfg.LeftoverSampleCount, 16)
	expectEqual(t, cfg.BufferSize, 44100/200+16)
}
