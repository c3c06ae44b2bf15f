package main

import (
	"context"
	"io"
	"log"
	"sync"

	"github.com/hajimehoshi/oto"
	"github.com/jinjor/happy-synth/src/synth"
)

const (
	channelNum      = 2
	bitDepthInBytes = 2
)
const bytesPerSample = bitDepthInBytes * channelNum

// player adapts a Synth to the pull model of the audio device. Every
// Read renders mono blocks of cfg.BufferSize samples and interleaves
// them as 16-bit little-endian stereo; rendered samples the device did
// not consume are carried into the next read. cfg.LeftoverSampleCount
// is the headroom the default buffer sizing reserves for that carry.
//
// The synth itself does no locking, so player owns the mutex that
// serializes note scheduling with the render path.
type player struct {
	mu    sync.Mutex
	synth *synth.Synth
	cfg   synth.Config
	ctx   context.Context
	mono  []float32 // reusable render buffer, length cfg.BufferSize
	carry []float32 // tail of mono still to be consumed
}

var _ io.Reader = (*player)(nil)

func newPlayer(s *synth.Synth, cfg synth.Config) *player {
	return &player{
		synth: s,
		cfg:   cfg,
		ctx:   context.Background(),
		mono:  make([]float32, cfg.BufferSize),
	}
}

// StartNote ...
func (p *player) StartNote(freq, amp float32) synth.NoteID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.synth.StartNote(freq, amp)
}

// EndNote ...
func (p *player) EndNote(id synth.NoteID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.synth.EndNote(id)
}

func (p *player) Read(buf []byte) (int, error) {
	select {
	case <-p.ctx.Done():
		log.Println("Read() interrupted.")
		return 0, io.EOF
	default:
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	sampleCount := len(buf) / bytesPerSample
	for i := 0; i < sampleCount; {
		if len(p.carry) == 0 {
			for j := range p.mono {
				p.mono[j] = 0
			}
			p.synth.Render(p.mono)
			p.synth.Bookkeeping()
			p.carry = p.mono
		}
		take := sampleCount - i
		if take > len(p.carry) {
			take = len(p.carry)
		}
		writeBuffer(p.carry[:take], buf[i*bytesPerSample:])
		p.carry = p.carry[take:]
		i += take
	}
	return sampleCount * bytesPerSample, nil
}

// writeBuffer converts mono samples to 16-bit little-endian and copies
// each one across all channels.
func writeBuffer(out []float32, buf []byte) {
	for i, value := range out {
		const max = 32767
		b := int16(value * max)
		for ch := 0; ch < channelNum; ch++ {
			buf[bytesPerSample*i+2*ch] = byte(b)
			buf[bytesPerSample*i+2*ch+1] = byte(b >> 8)
		}
	}
}

// Start opens the audio device and streams until ctx is cancelled.
func (p *player) Start(ctx context.Context) error {
	otoContext, err := oto.NewContext(int(p.cfg.SampleRate), channelNum, bitDepthInBytes, p.cfg.BufferSize*bytesPerSample)
	if err != nil {
		return err
	}
	defer func() {
		if err := otoContext.Close(); err != nil {
			log.Printf("error while closing audio context: %v", err)
		}
	}()
	otoPlayer := otoContext.NewPlayer()
	defer func() {
		if err := otoPlayer.Close(); err != nil {
			log.Printf("error while closing audio player: %v", err)
		}
	}()
	p.ctx = ctx

	// block until cancel() called
	if _, err := io.CopyBuffer(otoPlayer, p, make([]byte, p.cfg.BufferSize*bytesPerSample)); err != nil {
		return err
	}
	log.Println("Start() ended.")
	return nil
}
