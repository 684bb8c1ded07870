package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVideoID(t *testing.T) {
	tests := []struct {
		in   string
		id   string
		isID bool
	}{
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtube.com/watch?v=dQw4w9WgXcQ&list=PLabcdefghijkl", "dQw4w9WgXcQ", true},
		{"https://music.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://m.youtube.com/watch?v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ?t=10", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/playlist?list=PLabcdefghijkl", "", false},
		{"https://www.youtube.com/watch?v=short", "", false},
		{"https://example.com/watch?v=dQw4w9WgXcQ", "", false},
		{"never gonna give you up", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			id, ok := VideoID(tt.in)
			assert.Equal(t, tt.isID, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestPlaylistID(t *testing.T) {
	tests := []struct {
		in string
		id string
		ok bool
	}{
		{"https://www.youtube.com/playlist?list=PLabcdefghijkl", "PLabcdefghijkl", true},
		{"https://youtube.com/watch?v=dQw4w9WgXcQ&list=RDdQw4w9WgXcQ", "RDdQw4w9WgXcQ", true},
		{"PLabcdefghijkl", "PLabcdefghijkl", true},
		{"OLAK5uy_abcdefghij", "OLAK5uy_abcdefghij", true},
		{"PL", "", false},
		{"https://example.com/playlist?list=PLabcdefghijkl", "", false},
		{"lofi beats", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			id, ok := PlaylistID(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestIsMix(t *testing.T) {
	assert.True(t, IsMix("RDdQw4w9WgXcQ"))
	assert.False(t, IsMix("PLabcdefghijkl"))
}

func TestRemoveDuplicates(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, removeDuplicates([]string{"a", "b", "a", "c", "b"}))
}
