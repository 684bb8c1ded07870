// Package player plays one resource at a time into a voice connection.
package player

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/keshon/dare/internal/music/stream"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusBuffering Status = "buffering"
	StatusPlaying   Status = "playing"
	StatusPaused    Status = "paused"
)

func (s Status) StringEmoji() string {
	m := map[Status]string{
		StatusIdle:      "⏹",
		StatusBuffering: "⏳",
		StatusPlaying:   "▶️",
		StatusPaused:    "⏸",
	}
	return m[s]
}

// Event reports a status change for a resource. An idle event carries the
// resource that finished and, when playback broke, the error that ended it.
type Event struct {
	Resource *stream.Resource
	Status   Status
	Err      error
}

// Player is the per-guild audio output.
type Player interface {
	// Play replaces whatever is playing with res. The replaced resource does
	// not produce an idle event.
	Play(res *stream.Resource)
	// Stop ends playback and emits idle for the stopped resource.
	Stop()
	Pause() bool
	Resume() bool
	Status() Status
	Current() *stream.Resource
	Events() <-chan Event
	Close()
}

// Sink receives encoded frames.
type Sink interface {
	SendOpus(ctx context.Context, frame []byte) error
	Speaking(on bool) error
}

type Encoder interface {
	Encode(pcm []int16) ([]byte, error)
}

type EncoderFactory func() (Encoder, error)

type VoicePlayer struct {
	sink       Sink
	newEncoder EncoderFactory
	log        zerolog.Logger

	mu      sync.Mutex
	token   uint64
	current *stream.Resource
	status  Status
	stop    chan struct{}
	done    chan struct{}
	paused  bool
	wake    chan struct{}

	events    chan Event
	closed    chan struct{}
	closeOnce sync.Once
}

func New(sink Sink, newEncoder EncoderFactory, log zerolog.Logger) *VoicePlayer {
	return &VoicePlayer{
		sink:       sink,
		newEncoder: newEncoder,
		log:        log,
		status:     StatusIdle,
		events:     make(chan Event, 32),
		closed:     make(chan struct{}),
	}
}

func (p *VoicePlayer) Events() <-chan Event { return p.events }

func (p *VoicePlayer) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *VoicePlayer) Current() *stream.Resource {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *VoicePlayer) Play(res *stream.Resource) {
	p.mu.Lock()
	prevStop, prevDone, prevRes := p.stop, p.done, p.current
	p.token++
	tok := p.token
	stop, done := make(chan struct{}), make(chan struct{})
	p.stop, p.done = stop, done
	p.current = res
	p.status = StatusBuffering
	p.paused = false
	p.wake = nil
	p.mu.Unlock()

	if prevStop != nil {
		close(prevStop)
		if prevRes != nil && prevRes != res {
			_ = prevRes.Close()
		}
		<-prevDone
	}

	p.log.Debug().Str("track", res.Title()).Msg("starting playback")
	go p.run(tok, res, stop, done)
}

func (p *VoicePlayer) Stop() {
	p.mu.Lock()
	stop, done, res := p.stop, p.done, p.current
	if stop == nil {
		p.mu.Unlock()
		return
	}
	p.token++
	p.stop, p.done = nil, nil
	p.current = nil
	p.status = StatusIdle
	p.paused = false
	p.wake = nil
	p.mu.Unlock()

	close(stop)
	_ = res.Close()
	<-done

	p.log.Debug().Str("track", res.Title()).Msg("playback stopped")
	p.emit(Event{Resource: res, Status: StatusIdle})
}

func (p *VoicePlayer) Pause() bool {
	p.mu.Lock()
	if p.current == nil || p.paused {
		p.mu.Unlock()
		return false
	}
	p.paused = true
	p.wake = make(chan struct{})
	p.status = StatusPaused
	res := p.current
	p.mu.Unlock()

	p.emit(Event{Resource: res, Status: StatusPaused})
	return true
}

func (p *VoicePlayer) Resume() bool {
	p.mu.Lock()
	if p.current == nil || !p.paused {
		p.mu.Unlock()
		return false
	}
	p.paused = false
	close(p.wake)
	p.wake = nil
	p.status = StatusPlaying
	res := p.current
	p.mu.Unlock()

	p.emit(Event{Resource: res, Status: StatusPlaying})
	return true
}

// Close stops playback without emitting further events.
func (p *VoicePlayer) Close() {
	p.closeOnce.Do(func() { close(p.closed) })
	p.Stop()
}

func (p *VoicePlayer) run(tok uint64, res *stream.Resource, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer res.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	enc, err := p.newEncoder()
	if err != nil {
		p.finish(tok, res, err)
		return
	}

	pcm := make([]int16, stream.FrameSamples)
	speaking := false
	defer func() {
		if speaking {
			_ = p.sink.Speaking(false)
		}
	}()

	for {
		select {
		case <-stop:
			return
		default:
		}

		if wake, ok := p.pausedWake(tok); ok {
			if speaking {
				_ = p.sink.Speaking(false)
				speaking = false
			}
			select {
			case <-wake:
			case <-stop:
				return
			}
		}

		err := res.ReadFrame(pcm)
		if errors.Is(err, io.EOF) {
			p.finish(tok, res, nil)
			return
		}
		if err != nil {
			p.finish(tok, res, err)
			return
		}

		frame, err := enc.Encode(pcm)
		if err != nil {
			p.finish(tok, res, err)
			return
		}

		if !speaking {
			_ = p.sink.Speaking(true)
			speaking = true
			p.markPlaying(tok, res)
		}

		if err := p.sink.SendOpus(ctx, frame); err != nil {
			if ctx.Err() != nil {
				return
			}
			p.finish(tok, res, err)
			return
		}
	}
}

func (p *VoicePlayer) pausedWake(tok uint64) (chan struct{}, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token != tok || !p.paused {
		return nil, false
	}
	return p.wake, true
}

func (p *VoicePlayer) markPlaying(tok uint64, res *stream.Resource) {
	p.mu.Lock()
	if p.token != tok || p.status != StatusBuffering {
		p.mu.Unlock()
		return
	}
	p.status = StatusPlaying
	p.mu.Unlock()

	p.emit(Event{Resource: res, Status: StatusPlaying})
}

// finish settles the player after a resource ended on its own. A resource
// that was replaced or stopped in the meantime reports nothing.
func (p *VoicePlayer) finish(tok uint64, res *stream.Resource, err error) {
	p.mu.Lock()
	if p.token != tok {
		p.mu.Unlock()
		return
	}
	p.stop, p.done = nil, nil
	p.current = nil
	p.status = StatusIdle
	p.paused = false
	p.wake = nil
	p.mu.Unlock()

	if err != nil {
		p.log.Warn().Err(err).Str("track", res.Title()).Msg("playback ended with error")
	} else {
		p.log.Debug().Str("track", res.Title()).Msg("playback finished")
	}
	p.emit(Event{Resource: res, Status: StatusIdle, Err: err})
}

func (p *VoicePlayer) emit(ev Event) {
	select {
	case p.events <- ev:
	case <-p.closed:
	}
}
