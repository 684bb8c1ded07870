package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"

	"github.com/keshon/dare/pkg/retrylimit"
)

var (
	videoPattern    = regexp.MustCompile(`"url":"/watch\?v=([a-zA-Z0-9_-]{11})`)
	ErrNoVideoMatch = errors.New("no video found for the given title")
	ErrEmptyMix     = errors.New("no video URLs found in the mix")
)

// pageResolver scrapes the public search and watch pages.
type pageResolver struct {
	BaseURL string
	Client  *http.Client
}

func (r *pageResolver) fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")

	resp, err := r.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &retrylimit.StatusError{URL: pageURL, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// SearchFirstVideoID returns the id of the top search result.
func (r *pageResolver) SearchFirstVideoID(ctx context.Context, query string) (string, error) {
	searchURL := fmt.Sprintf("%s/results?search_query=%s", r.BaseURL, url.QueryEscape(query))

	body, err := r.fetch(ctx, searchURL)
	if err != nil {
		return "", err
	}

	if m := videoPattern.FindStringSubmatch(body); len(m) > 1 {
		return m[1], nil
	}
	return "", ErrNoVideoMatch
}

// MixVideoIDs lists the videos of an auto-generated mix from its watch page.
func (r *pageResolver) MixVideoIDs(ctx context.Context, listID string) ([]string, error) {
	mixURL := fmt.Sprintf("%s/playlist?list=%s", r.BaseURL, url.QueryEscape(listID))

	body, err := r.fetch(ctx, mixURL)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, m := range videoPattern.FindAllStringSubmatch(body, -1) {
		if len(m) > 1 {
			ids = append(ids, m[1])
		}
	}
	if len(ids) == 0 {
		return nil, ErrEmptyMix
	}
	return removeDuplicates(ids), nil
}
