package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jinjor/happy-synth/src/synth"
	"golang.org/x/sync/errgroup"
)

var (
	midiIn    = flag.Bool("midi", false, "play notes from the first MIDI IN port instead of the demo score")
	visualize = flag.Bool("visualize", false, "print one rendered buffer as an ASCII waveform and exit")
	wave      = flag.String("wave", "saw", "oscillator kind: sine, saw, square, noise or harmonic")
	attack    = flag.Float64("attack", 0.01, "envelope attack time in seconds")
	decay     = flag.Float64("decay", 0.5, "envelope decay time in seconds")
	sustain   = flag.Float64("sustain", 0.6, "envelope sustain level (0-1)")
	release   = flag.Float64("release", 0.2, "envelope release time in seconds")
	expEnv    = flag.Bool("exp", false, "use the exponential envelope instead of the linear one")
	endX      = flag.Float64("end-x", 2.0, "curve sharpness of the exponential envelope")
	maxNotes  = flag.Int("max-notes", 256, "maximum number of simultaneous notes")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)

	osc, err := oscillatorFor(*wave)
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	adsr := synth.AdsrEnvelope{
		Attack:  float32(*attack),
		Decay:   float32(*decay),
		Sustain: float32(*sustain),
		Release: float32(*release),
	}
	var env synth.Envelope = adsr
	if *expEnv {
		env = synth.NewExponentialAdsrEnvelope(float32(*endX), adsr)
	}

	if *visualize {
		printWaveform(osc, env)
		return
	}

	cfg := synth.DefaultConfig()
	p := newPlayer(synth.NewSynth(cfg, osc, env, *maxNotes), cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signalCh)
	go func() {
		sig := <-signalCh
		log.Printf("Caught signal %s: shutting down...\n", sig)
		cancel()
	}()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.Start(ctx)
	})
	if *midiIn {
		g.Go(func() error {
			return playMidi(ctx, p)
		})
	} else {
		g.Go(func() error {
			defer cancel() // stop the stream once the score is over
			return playScore(ctx, p, demoScore())
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("main() ended.")
}

func oscillatorFor(name string) (synth.Oscillator, error) {
	switch name {
	case "sine":
		return synth.SineOscillator{}, nil
	case "saw":
		return synth.SawOscillator{}, nil
	case "square":
		return synth.SquareOscillator{}, nil
	case "noise":
		return synth.NoiseOscillator{}, nil
	case "harmonic":
		return synth.NewHarmonicOscillator([]float32{1, 0.5, 0.3, 0.2}), nil
	default:
		return nil, fmt.Errorf("unknown wave kind: %s", name)
	}
}

// printWaveform renders the first 256 samples of a single 440 Hz note
// at a low sample rate and draws them as an ASCII waveform, one row
// per sample.
func printWaveform(osc synth.Oscillator, env synth.Envelope) {
	cfg := synth.DefaultConfig()
	cfg.SampleRate = 4000 // low enough to make single cycles visible
	s := synth.NewSynth(cfg, osc, env, 1)
	buf := make([]float32, 256)
	s.StartNote(440, 0.5)
	s.Render(buf)

	const width = 80
	const zero = width / 2
	line := make([]byte, width)
	for _, sample := range buf {
		pos := zero + int(sample*zero)
		for i := range line {
			switch i {
			case zero:
				line[i] = '|'
			case pos:
				line[i] = '+'
			default:
				line[i] = ' '
			}
		}
		fmt.Println(string(line))
	}
}
