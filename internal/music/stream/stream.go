// Package stream opens tracks into playable resources, trying each decoder
// registered for the track's kind until one produces audio.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/keshon/dare/internal/music/parsers"
	"github.com/keshon/dare/internal/music/parsers/ffmpeg"
	"github.com/keshon/dare/internal/music/track"
)

// ErrStreamFailed wraps every failure to turn a track into audio.
var ErrStreamFailed = errors.New("stream failed")

// Decoder turns an already open media stream into PCM.
type Decoder interface {
	Decode(ctx context.Context, src io.ReadCloser) (io.ReadCloser, func(), error)
}

type Opener struct {
	Streamers map[string]parsers.Streamer
	Chains    map[track.Kind][]string
	Decoder   Decoder
	log       zerolog.Logger
}

// NewOpener wires the default parser chains: remote tracks go through kkdai
// and fall back to yt-dlp, local effects and arbitrary media go straight to
// ffmpeg.
func NewOpener(decoder *ffmpeg.FFMPEGStreamer, kk, yt parsers.Streamer, log zerolog.Logger) *Opener {
	streamers := map[string]parsers.Streamer{
		"ffmpeg-link": decoder,
	}
	remote := []string{}
	if kk != nil {
		streamers["kkdai-link"] = kk
		streamers["kkdai-pipe"] = kk
		remote = append(remote, "kkdai-link", "kkdai-pipe")
	}
	if yt != nil {
		streamers["ytdlp-link"] = yt
		streamers["ytdlp-pipe"] = yt
		remote = append(remote, "ytdlp-link", "ytdlp-pipe")
	}

	return &Opener{
		Streamers: streamers,
		Chains: map[track.Kind][]string{
			track.KindEffect:    {"ffmpeg-link"},
			track.KindArbitrary: {"ffmpeg-link"},
			track.KindRemote:    remote,
		},
		Decoder: decoder,
		log:     log,
	}
}

func isPipeMode(parser string) bool {
	return strings.HasSuffix(parser, "-pipe")
}

// Open produces a resource for t. Each parser of the kind's chain is tried in
// order; the errors of all failed attempts are returned together.
func (o *Opener) Open(ctx context.Context, t track.Track) (*Resource, error) {
	chain := o.Chains[t.Kind]
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: no parsers for kind %q", ErrStreamFailed, t.Kind)
	}

	var errs []error
	for _, parser := range chain {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r, cleanup, err := o.openWith(ctx, parser, t.Locator)
		if err == nil {
			return NewResource(t, r, cleanup), nil
		}

		errs = append(errs, fmt.Errorf("parser %s: %w", parser, err))
		o.log.Debug().Err(err).Str("parser", parser).Str("track", t.DisplayName()).Msg("parser failed, trying next")
	}

	return nil, fmt.Errorf("%w for %s: %w", ErrStreamFailed, t.DisplayName(), errors.Join(errs...))
}

// FromReader decodes an in-memory or streamed payload, such as synthesized
// speech, into a resource.
func (o *Opener) FromReader(ctx context.Context, t track.Track, src io.ReadCloser) (*Resource, error) {
	if o.Decoder == nil {
		src.Close()
		return nil, fmt.Errorf("%w: no decoder configured", ErrStreamFailed)
	}
	r, cleanup, err := o.Decoder.Decode(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %w", ErrStreamFailed, t.DisplayName(), err)
	}
	return NewResource(t, r, cleanup), nil
}

func (o *Opener) openWith(ctx context.Context, parser, locator string) (io.ReadCloser, func(), error) {
	streamer, ok := o.Streamers[parser]
	if !ok {
		return nil, nil, fmt.Errorf("streamer not found for parser: %v", parser)
	}

	if isPipeMode(parser) && streamer.SupportsPipe() {
		return streamer.GetPipeStream(ctx, locator)
	}
	return streamer.GetLinkStream(ctx, locator)
}
