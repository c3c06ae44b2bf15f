package main

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/jinjor/happy-synth/src/synth"
)

// ----- Score ----- //

// scoreNote is one melody step: a frequency in Hz (0 for a rest) and a
// duration in beats.
type scoreNote struct {
	freq  float64
	beats float64
}

// scoreEvent is a scheduled note change: at start seconds, release the
// previous note and, unless freq is 0, start a new one.
type scoreEvent struct {
	freq  float32
	start float32
}

const demoBPM = 194.0

// demoScore returns the demo melody with absolute start times.
func demoScore() []scoreEvent {
	halfStep := math.Pow(2, 1.0/12)
	wholeStep := halfStep * halfStep

	a4 := 440.0
	b4 := a4 * wholeStep
	cs5 := b4 * wholeStep
	ds5 := cs5 * wholeStep
	e5 := ds5 * halfStep

	phrase := []scoreNote{
		{ds5, 2}, {cs5, 1}, {b4, 2}, {cs5, 1},
		{ds5, 1.5}, {e5, 0.5}, {ds5, 1}, {cs5, 3},
	}
	notes := append(phrase, phrase...)
	return buildScore(demoBPM, notes)
}

// buildScore converts (frequency, beats) pairs into events with
// absolute start times via prefix sum, appending a final rest that
// releases the last note.
func buildScore(bpm float64, notes []scoreNote) []scoreEvent {
	beatTime := 60.0 / bpm
	events := make([]scoreEvent, 0, len(notes)+1)
	t := 0.0
	for _, n := range notes {
		events = append(events, scoreEvent{freq: float32(n.freq), start: float32(t * beatTime)})
		t += n.beats
	}
	events = append(events, scoreEvent{freq: 0, start: float32(t * beatTime)})
	return events
}

// ----- Scheduler ----- //

// playScore fires the score's note changes against the player in real
// time. The melody is monophonic: each event releases the previous
// note before starting the next.
func playScore(ctx context.Context, p *player, events []scoreEvent) error {
	begin := time.Now()
	var current synth.NoteID
	sounding := false
	for _, e := range events {
		at := begin.Add(time.Duration(float64(e.start) * float64(time.Second)))
		select {
		case <-ctx.Done():
			log.Println("playScore() interrupted")
			return nil
		case <-time.After(time.Until(at)):
		}
		if sounding {
			p.EndNote(current)
			sounding = false
		}
		if e.freq > 0 {
			current = p.StartNote(e.freq, 0.5)
			sounding = true
		}
	}
	// let the release tail ring out
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
	}
	log.Println("playScore() ended.")
	return nil
}
