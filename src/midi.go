package main

import (
	"context"
	"log"
	"math"

	"github.com/jinjor/happy-synth/src/synth"
	"gitlab.com/gomidi/rtmididrv"
)

const baseFreq = 440.0

func noteToFreq(note int) float32 {
	return float32(baseFreq * math.Pow(2, float64(note-69)/12))
}

// listenToMidiIn opens the first MIDI IN port and forwards its raw
// messages until ctx is cancelled.
func listenToMidiIn(ctx context.Context) <-chan []byte {
	ch := make(chan []byte, 65536)
	go func() {
		drv, err := rtmididrv.New()
		if err != nil {
			log.Printf("failed to initialize MIDI driver: %v\n", err)
			return
		}
		defer func() {
			err := drv.Close()
			if err != nil {
				log.Printf("failed to close MIDI driver: %v\n", err)
			}
		}()
		ins, err := drv.Ins()
		if err != nil {
			log.Printf("failed to get MIDI IN: %v\n", err)
			return
		}
		log.Printf("MIDI IN: %v\n", ins)

		if len(ins) == 0 {
			log.Println("WARN: MIDI IN not found")
			return
		}
		in := ins[0]
		if err := in.Open(); err != nil {
			log.Printf("failed to open MIDI IN: %v\n", err)
			return
		}
		log.Println("opened " + in.String())
		defer func() {
			err := in.Close()
			if err != nil {
				log.Printf("failed to close MIDI IN: %v\n", err)
			}
		}()
		log.Println("start listening MIDI IN...")
		if err := in.SetListener(func(data []byte, deltaMicroseconds int64) {
			ch <- data
		}); err != nil {
			log.Println("failed to set listener: " + err.Error())
		}
		defer func() {
			log.Println("stop listening MIDI IN...")
			err := in.StopListening()
			if err != nil {
				log.Printf("failed to stop listening: %v\n", err)
			}
		}()
		defer close(ch)
		<-ctx.Done()
	}()
	return ch
}

// playMidi turns note-on/off messages into synth notes, one sounding
// note per MIDI note number.
func playMidi(ctx context.Context, p *player) error {
	ch := listenToMidiIn(ctx)
	notes := map[int]synth.NoteID{}
	for {
		select {
		case <-ctx.Done():
			log.Println("playMidi() interrupted")
			return nil
		case data, ok := <-ch:
			if !ok {
				log.Println("playMidi() ended.")
				return nil
			}
			handleMidiMessage(p, notes, data)
		}
	}
}

// handleMidiMessage dispatches on the status byte. A note-on with
// velocity 0 counts as a note-off.
func handleMidiMessage(p *player, notes map[int]synth.NoteID, data []byte) {
	if len(data) < 3 {
		return
	}
	if data[0]>>4 == 8 || data[0]>>4 == 9 && data[2] == 0 {
		note := int(data[1])
		if id, ok := notes[note]; ok {
			p.EndNote(id)
			delete(notes, note)
		}
	} else if data[0]>>4 == 9 {
		note := int(data[1])
		velocity := float32(data[2]) / 127
		if id, ok := notes[note]; ok {
			// retrigger
			p.EndNote(id)
		}
		notes[note] = p.StartNote(noteToFreq(note), velocity)
	}
}
