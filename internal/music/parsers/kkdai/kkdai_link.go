package kkdai

import (
	"context"
	"fmt"
	"io"
)

func (s *KKDAIStreamer) link(ctx context.Context, locator string) (io.ReadCloser, func(), error) {
	video, err := s.client.GetVideoContext(ctx, locator)
	if err != nil {
		return nil, nil, fmt.Errorf("get video error: %w", err)
	}

	format, err := pickAudioFormat(video)
	if err != nil {
		return nil, nil, err
	}

	streamURL, err := s.client.GetStreamURLContext(ctx, video, format)
	if err != nil {
		return nil, nil, fmt.Errorf("get stream url error: %w", err)
	}

	return s.decoder.GetLinkStream(ctx, streamURL)
}
