package analysis

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	t.Run("short text is unchanged", func(t *testing.T) {
		assert.Equal(t, "MRI of the lumbar spine", truncate("MRI of the lumbar spine", 100))
	})

	t.Run("exact length is unchanged", func(t *testing.T) {
		s := strings.Repeat("x", 100)
		assert.Equal(t, s, truncate(s, 100))
	})

	t.Run("long text is cut to the rune limit", func(t *testing.T) {
		s := strings.Repeat("x", 150)
		assert.Equal(t, strings.Repeat("x", 100), truncate(s, 100))
	})

	t.Run("multi-byte runes are not split", func(t *testing.T) {
		// "é" is two bytes in UTF-8; a byte-indexed cut at an odd offset
		// would leave a dangling continuation byte.
		s := strings.Repeat("é", 150)
		got := truncate(s, 100)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, 100, utf8.RuneCountInString(got))
		assert.Equal(t, strings.Repeat("é", 100), got)
	})
}
