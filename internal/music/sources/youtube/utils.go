package youtube

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	videoIDPattern    = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	playlistIDPattern = regexp.MustCompile(`^(PL|UU|LL|RD|OL|FL)[A-Za-z0-9_-]{10,}$`)
)

func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// WatchURL is the canonical link for a video id.
func WatchURL(id string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", id)
}

func PlaylistURL(id string) string {
	return fmt.Sprintf("https://www.youtube.com/playlist?list=%s", id)
}

// youTubeHost strips the subdomains YouTube serves the same pages on.
func youTubeHost(raw string) (*url.URL, string, bool) {
	if !IsURL(raw) {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, "", false
	}
	host := strings.ToLower(u.Hostname())
	for _, prefix := range []string{"www.", "m.", "music."} {
		host = strings.TrimPrefix(host, prefix)
	}
	switch host {
	case "youtube.com", "youtu.be", "youtube-nocookie.com":
		return u, host, true
	}
	return nil, "", false
}

// VideoID extracts a video id from a watch, shorts, embed, live or youtu.be
// link, or accepts a bare 11 character id.
func VideoID(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if videoIDPattern.MatchString(input) {
		return input, true
	}

	u, host, ok := youTubeHost(input)
	if !ok {
		return "", false
	}

	var id string
	if host == "youtu.be" {
		id = strings.Trim(u.Path, "/")
	} else {
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		switch {
		case len(segments) == 1 && segments[0] == "watch":
			id = u.Query().Get("v")
		case len(segments) >= 2 && (segments[0] == "shorts" || segments[0] == "embed" || segments[0] == "live" || segments[0] == "v"):
			id = segments[1]
		}
	}

	if !videoIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

// PlaylistID extracts a playlist id from a link carrying list=, or accepts a
// bare playlist id.
func PlaylistID(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if playlistIDPattern.MatchString(input) {
		return input, true
	}

	u, _, ok := youTubeHost(input)
	if !ok {
		return "", false
	}
	id := u.Query().Get("list")
	if id == "" {
		return "", false
	}
	return id, true
}

// IsMix reports whether a playlist id is an auto-generated mix, which the
// playlist API does not serve.
func IsMix(id string) bool {
	return strings.HasPrefix(id, "RD")
}

func removeDuplicates(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	var result []string
	for _, u := range input {
		if _, exists := seen[u]; !exists {
			seen[u] = struct{}{}
			result = append(result, u)
		}
	}
	return result
}
