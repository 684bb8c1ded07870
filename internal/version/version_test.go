package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShort(t *testing.T) {
	assert.Equal(t, "dev", Info{Version: "dev"}.Short())
	assert.Equal(t, "v1.0.0 (1a2b3c4)", Info{Version: "v1.0.0", Commit: "1a2b3c4d5e6f"}.Short())
	assert.Equal(t, "v1.0.0 (abc-dirty)", Info{Version: "v1.0.0", Commit: "abc", Modified: true}.Short())
}

func TestGet(t *testing.T) {
	assert.NotEmpty(t, Get().Version)
}
