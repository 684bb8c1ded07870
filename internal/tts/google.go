package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/keshon/dare/pkg/retrylimit"
)

const chunkSize = 200

var ErrEmptyText = errors.New("nothing to say")

// Google synthesizes speech with the public translate TTS endpoint. Long
// text is split into chunks the endpoint accepts and the MP3 parts are
// concatenated.
type Google struct {
	BaseURL string
	Client  *http.Client
	limiter *retrylimit.AdaptiveLimiter
}

func NewGoogle(limiter *retrylimit.AdaptiveLimiter) *Google {
	return &Google{
		BaseURL: "https://translate.google.com/translate_tts",
		Client:  &http.Client{Timeout: 15 * time.Second},
		limiter: limiter,
	}
}

func (g *Google) Synthesize(ctx context.Context, text, lang string) (io.ReadCloser, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if lang == "" {
		lang = DefaultLanguage
	}

	chunks := splitText(text, chunkSize)
	buf := bytes.NewBuffer(nil)
	for i, chunk := range chunks {
		audio, err := g.fetch(ctx, chunk, lang, i, len(chunks))
		if err != nil {
			return nil, err
		}
		buf.Write(audio)
	}

	return io.NopCloser(bytes.NewReader(buf.Bytes())), nil
}

func (g *Google) fetch(ctx context.Context, text, lang string, idx, total int) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("q", text)
	params.Set("tl", lang)
	params.Set("total", strconv.Itoa(total))
	params.Set("idx", strconv.Itoa(idx))
	params.Set("textlen", strconv.Itoa(len([]rune(text))))

	var audio []byte
	do := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+params.Encode(), nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0")

		resp, err := g.Client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("tts: %w", &retrylimit.StatusError{URL: g.BaseURL, Code: resp.StatusCode})
		}

		audio, err = io.ReadAll(resp.Body)
		return err
	}

	if g.limiter == nil {
		return audio, do()
	}
	err := g.limiter.Do(ctx, do)
	return audio, err
}

// splitText cuts text into pieces of at most size runes, breaking at the last
// space inside the window when there is one.
func splitText(text string, size int) []string {
	runes := []rune(text)
	var chunks []string

	for len(runes) > 0 {
		if len(runes) <= size {
			chunks = append(chunks, string(runes))
			break
		}

		cut := size
		for i := size; i > size/2; i-- {
			if unicode.IsSpace(runes[i]) {
				cut = i
				break
			}
		}

		chunk := strings.TrimSpace(string(runes[:cut]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		runes = []rune(strings.TrimLeftFunc(string(runes[cut:]), unicode.IsSpace))
	}
	return chunks
}
