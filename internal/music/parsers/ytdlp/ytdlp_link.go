package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

type format struct {
	URL string `json:"url"`
}

type info struct {
	URL     string   `json:"url"`
	Formats []format `json:"formats"`
}

func (s *YTDLPStreamer) link(ctx context.Context, locator string) (io.ReadCloser, func(), error) {
	output, err := exec.CommandContext(ctx, s.Path, "-j", "-f", "bestaudio", locator).Output()
	if err != nil {
		return nil, nil, fmt.Errorf("yt-dlp get-url error: %w", err)
	}

	link, err := mediaURL(output)
	if err != nil {
		return nil, nil, err
	}

	return s.decoder.GetLinkStream(ctx, link)
}

func mediaURL(output []byte) (string, error) {
	var meta info
	if err := json.Unmarshal(output, &meta); err != nil {
		return "", fmt.Errorf("json unmarshal error: %w", err)
	}

	link := strings.TrimSpace(meta.URL)
	if link == "" && len(meta.Formats) > 0 {
		link = strings.TrimSpace(meta.Formats[0].URL)
	}
	if link == "" {
		return "", errors.New("empty URL returned from yt-dlp")
	}
	return link, nil
}
