package document

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextDegradesOnUnparseableInput(t *testing.T) {
	e := NewExtractor(slog.Default())

	t.Run("garbage bytes yield placeholder", func(t *testing.T) {
		got := e.Text(context.Background(), "notes.pdf", []byte("not a pdf at all"))
		assert.Equal(t, `[document "notes.pdf" could not be parsed]`, got)
	})

	t.Run("empty input yields placeholder", func(t *testing.T) {
		got := e.Text(context.Background(), "empty.pdf", nil)
		assert.Contains(t, got, "empty.pdf")
		assert.Contains(t, got, "[document")
	})

	t.Run("nil logger is safe", func(t *testing.T) {
		quiet := NewExtractor(nil)
		got := quiet.Text(context.Background(), "x.pdf", []byte{0x25, 0x50})
		assert.Contains(t, got, "could not be parsed")
	})
}
