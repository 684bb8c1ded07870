package kkdai

import (
	"context"
	"fmt"
	"io"
)

func (s *KKDAIStreamer) pipe(ctx context.Context, locator string) (io.ReadCloser, func(), error) {
	video, err := s.client.GetVideoContext(ctx, locator)
	if err != nil {
		return nil, nil, fmt.Errorf("get video error: %w", err)
	}

	format, err := pickAudioFormat(video)
	if err != nil {
		return nil, nil, err
	}

	// The download outlives ctx, which only bounds the open.
	download, _, err := s.client.GetStreamContext(context.WithoutCancel(ctx), video, format)
	if err != nil {
		return nil, nil, fmt.Errorf("get stream error: %w", err)
	}

	return s.decoder.Decode(ctx, download)
}
