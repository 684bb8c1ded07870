package tts

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeConcatenatesChunks(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "tw-ob", q.Get("client"))
		assert.Equal(t, "es", q.Get("tl"))
		assert.Equal(t, "Mozilla/5.0", r.Header.Get("User-Agent"))
		mu.Lock()
		seen = append(seen, q.Get("idx")+"/"+q.Get("total"))
		mu.Unlock()
		_, _ = w.Write([]byte("[" + q.Get("idx") + "]"))
	}))
	defer srv.Close()

	g := NewGoogle(nil)
	g.BaseURL = srv.URL
	g.Client = srv.Client()

	text := strings.Repeat("hola mundo ", 30)
	rc, err := g.Synthesize(context.Background(), text, "es")
	require.NoError(t, err)
	defer rc.Close()

	out, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "[0][1]", string(out))
	assert.Equal(t, []string{"0/2", "1/2"}, seen)
}

func TestSynthesizeErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewGoogle(nil)
	g.BaseURL = srv.URL
	g.Client = srv.Client()

	_, err := g.Synthesize(context.Background(), "oi", "pt")
	assert.ErrorContains(t, err, "429")

	_, err = g.Synthesize(context.Background(), "   ", "pt")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestSplitText(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitText("short", 200))

	long := strings.Repeat("palavra ", 60)
	chunks := splitText(strings.TrimSpace(long), 200)
	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 200)
		assert.False(t, strings.HasPrefix(c, " "))
		assert.True(t, strings.HasSuffix(c, "palavra"))
	}

	nospace := strings.Repeat("é", 450)
	chunks = splitText(nospace, 200)
	require.Len(t, chunks, 3)
	assert.Equal(t, 200, utf8.RuneCountInString(chunks[0]))
	assert.Equal(t, 50, utf8.RuneCountInString(chunks[2]))
}
