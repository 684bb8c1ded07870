// Package codec wraps the opus encoder used for voice frames.
package codec

import (
	"fmt"

	"layeh.com/gopus"

	"github.com/keshon/dare/internal/music/parsers"
)

// maxPacket bounds a single encoded frame.
const maxPacket = parsers.FrameSize * parsers.Channels * 2

type Opus struct {
	enc *gopus.Encoder
}

func NewOpus() (*Opus, error) {
	enc, err := gopus.NewEncoder(parsers.SampleRate, parsers.Channels, gopus.Audio)
	if err != nil {
		return nil, fmt.Errorf("encoder error: %w", err)
	}
	return &Opus{enc: enc}, nil
}

// Encode compresses one interleaved PCM frame.
func (o *Opus) Encode(pcm []int16) ([]byte, error) {
	return o.enc.Encode(pcm, parsers.FrameSize, maxPacket)
}
