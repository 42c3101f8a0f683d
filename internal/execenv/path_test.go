package execenv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAugmentPath_AppendsExistingToolDirs(t *testing.T) {
	exists := func(dir string) bool {
		return dir == "/home/dev/.cargo/bin" || dir == "/usr/local/bin"
	}

	got := augmentPath("/usr/bin:/bin", "/home/dev", exists)
	assert.Equal(t, "/usr/bin:/bin:/home/dev/.cargo/bin:/usr/local/bin", got)
}

func TestAugmentPath_Deduplicates(t *testing.T) {
	exists := func(string) bool { return true }

	got := augmentPath("/usr/local/bin:/usr/local/bin:/bin", "", exists)
	// Tilde entries are skipped without a home directory; literals that are
	// already present are not re-added.
	assert.Equal(t, "/usr/local/bin:/bin:/opt/homebrew/bin:/usr/local/go/bin", got)
}

func TestAugmentPath_EmptyBase(t *testing.T) {
	exists := func(dir string) bool { return dir == "/home/dev/go/bin" }

	got := augmentPath("", "/home/dev", exists)
	assert.Equal(t, "/home/dev/go/bin", got)
}
