package main

import (
	"math"
	"testing"
)

func TestBuildScore(t *testing.T) {
	notes := []scoreNote{
		{freq: 440, beats: 1},
		{freq: 550, beats: 2},
		{freq: 660, beats: 0.5},
	}
	events := buildScore(60, notes) // one beat per second
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}
	expected := []scoreEvent{
		{freq: 440, start: 0},
		{freq: 550, start: 1},
		{freq: 660, start: 3},
		{freq: 0, start: 3.5}, // final rest releases the last note
	}
	for i := range expected {
		if events[i].freq != expected[i].freq {
			t.Errorf("event %d: expected freq %v, got %v", i, expected[i].freq, events[i].freq)
		}
		if math.Abs(float64(events[i].start-expected[i].start)) > 0.0001 {
			t.Errorf("event %d: expected start %v, got %v", i, expected[i].start, events[i].start)
		}
	}
}

func TestDemoScore(t *testing.T) {
	events := demoScore()
	if len(events) != 17 {
		t.Fatalf("expected 17 events, got %d", len(events))
	}
	prev := float32(-1)
	for i, e := range events {
		if e.start <= prev {
			t.Fatalf("event %d does not start after event %d", i, i-1)
		}
		prev = e.start
	}
	if events[len(events)-1].freq != 0 {
		t.Errorf("expected the score to end with a rest")
	}
}

func TestNoteToFreq(t *testing.T) {
	if f := noteToFreq(69); math.Abs(float64(f)-440) > 0.001 {
		t.Errorf("expected A4 to be 440 Hz, got %v", f)
	}
	if f := noteToFreq(81); math.Abs(float64(f)-880) > 0.001 {
		t.Errorf("expected A5 to be 880 Hz, got %v", f)
	}
	if f := noteToFreq(57); math.Abs(float64(f)-220) > 0.001 {
		t.Errorf("expected A3 to be 220 Hz, got %v", f)
	}
}
