package ffmpeg

import (
	"context"
	"io"
	"os/exec"
)

func (s *FFMPEGStreamer) link(ctx context.Context, input string) (io.ReadCloser, func(), error) {
	args := make([]string, 0, 16)
	if isRemote(input) {
		args = append(args,
			"-reconnect", "1",
			"-reconnect_streamed", "1",
			"-reconnect_delay_max", "5",
		)
	}
	args = append(args, "-i", input)
	args = append(args, outputArgs()...)

	cmd := exec.Command(s.Path, args...)
	return start(ctx, cmd, nil)
}
