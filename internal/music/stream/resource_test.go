package stream

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/dare/internal/music/track"
)

func pcmBytes(samples ...int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return buf
}

func frameOf(v int16) []int16 {
	f := make([]int16, FrameSamples)
	for i := range f {
		f[i] = v
	}
	return f
}

func TestResourceAppliesGain(t *testing.T) {
	src := io.NopCloser(bytes.NewReader(pcmBytes(frameOf(1000)...)))
	r := NewResource(track.Track{Locator: "a.mp3", Kind: track.KindEffect}, src, nil)
	r.SetVolume(0.5)

	pcm := make([]int16, FrameSamples)
	require.NoError(t, r.ReadFrame(pcm))
	assert.Equal(t, int16(500), pcm[0])
	assert.Equal(t, int16(500), pcm[FrameSamples-1])

	assert.ErrorIs(t, r.ReadFrame(pcm), io.EOF)
}

func TestResourceSaturates(t *testing.T) {
	assert.Equal(t, int16(math.MaxInt16), scale(30000, 2))
	assert.Equal(t, int16(math.MinInt16), scale(-30000, 2))
	assert.Equal(t, int16(0), scale(12345, 0))
}

func TestResourcePadsPartialFrame(t *testing.T) {
	src := io.NopCloser(bytes.NewReader(pcmBytes(7, 7, 7, 7)))
	r := NewResource(track.Track{Locator: "a.mp3"}, src, nil)

	pcm := frameOf(99)
	require.NoError(t, r.ReadFrame(pcm))
	assert.Equal(t, []int16{7, 7, 7, 7}, pcm[:4])
	assert.Equal(t, int16(0), pcm[4])
	assert.ErrorIs(t, r.ReadFrame(pcm), io.EOF)
}

func TestResourceVolumeClampsNegative(t *testing.T) {
	r := NewResource(track.Track{}, io.NopCloser(bytes.NewReader(nil)), nil)
	assert.Equal(t, 1.0, r.Volume())
	r.SetVolume(-3)
	assert.Equal(t, 0.0, r.Volume())
}

func TestResourceCloseIsIdempotent(t *testing.T) {
	calls := 0
	r := NewResource(track.Track{}, io.NopCloser(bytes.NewReader(pcmBytes(frameOf(1)...))), func() { calls++ })

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	assert.Equal(t, 1, calls)

	assert.ErrorIs(t, r.ReadFrame(make([]int16, FrameSamples)), io.EOF)
}
