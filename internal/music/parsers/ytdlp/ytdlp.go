// Package ytdlp is the fallback streamer for remote tracks kkdai cannot open.
package ytdlp

import (
	"context"
	"io"

	"github.com/keshon/dare/internal/music/parsers/ffmpeg"
)

type YTDLPStreamer struct {
	Path    string
	decoder *ffmpeg.FFMPEGStreamer
}

func New(path string, decoder *ffmpeg.FFMPEGStreamer) *YTDLPStreamer {
	if path == "" {
		path = "yt-dlp"
	}
	return &YTDLPStreamer{Path: path, decoder: decoder}
}

func (s *YTDLPStreamer) GetLinkStream(ctx context.Context, locator string) (io.ReadCloser, func(), error) {
	return s.link(ctx, locator)
}

func (s *YTDLPStreamer) GetPipeStream(ctx context.Context, locator string) (io.ReadCloser, func(), error) {
	return s.pipe(ctx, locator)
}

func (s *YTDLPStreamer) SupportsPipe() bool {
	return true
}
