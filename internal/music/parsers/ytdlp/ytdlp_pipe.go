package ytdlp

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

func (s *YTDLPStreamer) pipe(ctx context.Context, locator string) (io.ReadCloser, func(), error) {
	download := exec.Command(s.Path, "-f", "bestaudio", "-o", "-", "--quiet", locator)

	stdout, err := download.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("yt-dlp stdout pipe error: %w", err)
	}
	if err := download.Start(); err != nil {
		return nil, nil, fmt.Errorf("yt-dlp start error: %w", err)
	}

	src := &processReader{ReadCloser: stdout, cmd: download}
	return s.decoder.Decode(ctx, src)
}

// processReader stops the download when the decoder releases its input.
type processReader struct {
	io.ReadCloser
	cmd *exec.Cmd
}

func (p *processReader) Close() error {
	err := p.ReadCloser.Close()
	_ = p.cmd.Process.Kill()
	_ = p.cmd.Wait()
	return err
}
