// Package radio validates arbitrary media links, such as internet radio
// streams or direct audio files, before they are queued.
package radio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

var validContentTypes = []string{
	"audio/", // General catch
	"video/",
	"application/vnd.apple.mpegurl",
	"application/x-mpegurl",
	"application/ogg",
	"application/x-scpls",
	"application/xspf+xml",
	"application/octet-stream", // risky but often used for streams
}

// RadioResolver validates streaming links by checking headers and heuristics.
type RadioResolver struct {
	Client *http.Client
}

func NewRadioResolver() *RadioResolver {
	return &RadioResolver{
		Client: &http.Client{
			Timeout: 5 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
	}
}

// Validate returns the content type rawURL serves, or an error when it does
// not look like playable media.
func (r *RadioResolver) Validate(ctx context.Context, rawURL string) (string, error) {
	contentType, finalURL, err := r.fetchContentType(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch content type: %w", err)
	}

	if isAllowedType(contentType) || isLikelyPlaylist(finalURL) || isLikelyMedia(finalURL) {
		return contentType, nil
	}

	return contentType, fmt.Errorf("invalid stream content-type: %q, url: %s", contentType, finalURL)
}

func (r *RadioResolver) fetchContentType(ctx context.Context, rawURL string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := r.Client.Do(req)
	if err == nil && resp.StatusCode < 400 {
		defer resp.Body.Close()
		return resp.Header.Get("Content-Type"), resp.Request.URL.String(), nil
	}
	if err == nil {
		resp.Body.Close()
	}

	// Some stream servers reject HEAD; retry with a GET and read only the headers.
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err = r.Client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("GET fallback failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.CopyN(io.Discard, resp.Body, 512)

	if resp.StatusCode >= 400 {
		return "", "", fmt.Errorf("GET fallback failed: status %d", resp.StatusCode)
	}
	return resp.Header.Get("Content-Type"), resp.Request.URL.String(), nil
}

func isAllowedType(contentType string) bool {
	// Normalize and strip params like "audio/mpeg; charset=utf-8"
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	for _, allowed := range validContentTypes {
		if strings.HasPrefix(contentType, allowed) {
			return true
		}
	}
	return false
}

func isLikelyPlaylist(rawURL string) bool {
	switch extOf(rawURL) {
	case ".m3u", ".m3u8", ".pls", ".xspf", ".asx":
		return true
	}
	return false
}

func isLikelyMedia(rawURL string) bool {
	switch extOf(rawURL) {
	case ".mp3", ".ogg", ".opus", ".wav", ".flac", ".m4a", ".aac", ".webm", ".mp4":
		return true
	}
	return false
}

func extOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(path.Ext(u.Path))
}
