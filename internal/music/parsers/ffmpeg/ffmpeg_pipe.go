package ffmpeg

import (
	"context"
	"io"
	"os/exec"
)

func (s *FFMPEGStreamer) pipe(ctx context.Context, src io.ReadCloser) (io.ReadCloser, func(), error) {
	args := append([]string{"-i", "pipe:0"}, outputArgs()...)

	cmd := exec.Command(s.Path, args...)
	cmd.Stdin = src
	return start(ctx, cmd, func() { src.Close() })
}
