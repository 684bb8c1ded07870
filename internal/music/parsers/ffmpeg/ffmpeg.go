package ffmpeg

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/keshon/dare/internal/music/parsers"
)

// FFMPEGStreamer decodes files and direct media URLs with an ffmpeg binary.
type FFMPEGStreamer struct {
	Path string
}

func New(path string) *FFMPEGStreamer {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFMPEGStreamer{Path: path}
}

func (s *FFMPEGStreamer) GetLinkStream(ctx context.Context, locator string) (io.ReadCloser, func(), error) {
	return s.link(ctx, locator)
}

func (s *FFMPEGStreamer) GetPipeStream(ctx context.Context, locator string) (io.ReadCloser, func(), error) {
	return nil, nil, errors.New("pipe streaming not supported for direct links")
}

func (s *FFMPEGStreamer) SupportsPipe() bool {
	return false
}

// Decode feeds src into ffmpeg and returns the decoded PCM. src is closed by
// the returned cleanup.
func (s *FFMPEGStreamer) Decode(ctx context.Context, src io.ReadCloser) (io.ReadCloser, func(), error) {
	return s.pipe(ctx, src)
}

func isRemote(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

func outputArgs() []string {
	return []string{
		"-vn",
		"-f", "s16le",
		"-ar", itoa(parsers.SampleRate),
		"-ac", itoa(parsers.Channels),
		"-loglevel", "warning",
		"pipe:1",
	}
}
