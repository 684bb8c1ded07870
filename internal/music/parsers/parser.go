// Package parsers holds the decoders that turn a locator into raw PCM.
//
// Every streamer produces signed 16-bit little endian stereo at 48 kHz, the
// format the player encodes to opus in 20 ms frames.
package parsers

import (
	"context"
	"errors"
	"io"
)

const (
	Channels   = 2
	SampleRate = 48000
	FrameSize  = 960 // 20ms at 48kHz
)

// ErrNoAudio is returned when a decoder exits before producing any audio.
var ErrNoAudio = errors.New("decoder produced no audio")

// Streamer opens decoded PCM for a locator. Link mode hands the final media URL
// to the decoder, pipe mode feeds the decoder's stdin from a download.
type Streamer interface {
	GetLinkStream(ctx context.Context, locator string) (io.ReadCloser, func(), error)
	GetPipeStream(ctx context.Context, locator string) (io.ReadCloser, func(), error)
	SupportsPipe() bool
}
