package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/keshon/dare/internal/music/parsers"
)

const stderrTail = 2048

// start runs cmd and blocks until it has written its first byte of audio, so
// an unreachable source fails here instead of inside the player.
func start(ctx context.Context, cmd *exec.Cmd, release func()) (io.ReadCloser, func(), error) {
	stderr := &tailBuffer{}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		if release != nil {
			release()
		}
		return nil, nil, fmt.Errorf("stdout pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		if release != nil {
			release()
		}
		return nil, nil, fmt.Errorf("command start error: %w", err)
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			if release != nil {
				release()
			}
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
		})
	}

	reader := bufio.NewReaderSize(stdout, 64*1024)
	ready := make(chan error, 1)
	go func() {
		_, err := reader.Peek(1)
		ready <- err
	}()

	select {
	case err := <-ready:
		if err != nil {
			cleanup()
			if msg := stderr.String(); msg != "" {
				return nil, nil, fmt.Errorf("%w: %s", parsers.ErrNoAudio, msg)
			}
			return nil, nil, fmt.Errorf("%w: %v", parsers.ErrNoAudio, err)
		}
	case <-ctx.Done():
		cleanup()
		<-ready
		return nil, nil, ctx.Err()
	}

	return &pcmStream{Reader: reader, closer: stdout}, cleanup, nil
}

type pcmStream struct {
	*bufio.Reader
	closer io.Closer
}

func (p *pcmStream) Close() error {
	return p.closer.Close()
}

// tailBuffer keeps the last bytes ffmpeg wrote to stderr.
type tailBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if len(t.buf) > stderrTail {
		t.buf = t.buf[len(t.buf)-stderrTail:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.TrimSpace(string(t.buf))
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
