package stream

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"sync"
	"sync/atomic"

	"github.com/keshon/dare/internal/music/parsers"
	"github.com/keshon/dare/internal/music/track"
)

// FrameSamples is the number of interleaved samples in one 20ms frame.
const FrameSamples = parsers.FrameSize * parsers.Channels

// Resource is one decoded, playable stream. Its gain can be changed while it
// is being played.
type Resource struct {
	track   track.Track
	src     io.ReadCloser
	cleanup func()

	gain atomic.Uint64
	buf  []byte

	closeOnce sync.Once
	closed    atomic.Bool
}

func NewResource(t track.Track, src io.ReadCloser, cleanup func()) *Resource {
	r := &Resource{
		track:   t,
		src:     src,
		cleanup: cleanup,
		buf:     make([]byte, FrameSamples*2),
	}
	r.gain.Store(math.Float64bits(1))
	return r
}

func (r *Resource) Track() track.Track { return r.track }

func (r *Resource) Title() string { return r.track.DisplayName() }

// SetVolume sets the live gain applied to every following frame.
func (r *Resource) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	r.gain.Store(math.Float64bits(v))
}

func (r *Resource) Volume() float64 {
	return math.Float64frombits(r.gain.Load())
}

// ReadFrame fills pcm with the next frame. A trailing partial frame is padded
// with silence; io.EOF is returned once the source is drained.
func (r *Resource) ReadFrame(pcm []int16) error {
	if r.closed.Load() {
		return io.EOF
	}

	n, err := io.ReadFull(r.src, r.buf)
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		clear(r.buf[n:])
	case err != nil:
		return err
	}

	gain := r.Volume()
	for i := range pcm {
		s := int16(binary.LittleEndian.Uint16(r.buf[i*2 : i*2+2]))
		pcm[i] = scale(s, gain)
	}
	return nil
}

func scale(s int16, gain float64) int16 {
	if gain == 1 {
		return s
	}
	v := math.Round(float64(s) * gain)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// Close releases the decoder. It is safe to call more than once.
func (r *Resource) Close() error {
	var err error
	r.closeOnce.Do(func() {
		r.closed.Store(true)
		if r.src != nil {
			err = r.src.Close()
		}
		if r.cleanup != nil {
			r.cleanup()
		}
	})
	return err
}
