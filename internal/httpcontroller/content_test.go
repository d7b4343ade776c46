package httpcontroller

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestExtractTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "title element",
			markup: "<html><head><title>Wild Geese</title></head><body><h1>Other</h1></body></html>",
			want:   "Wild Geese",
		},
		{
			name:   "h1 fallback",
			markup: "<h1>Wild Geese</h1><p>poem</p>",
			want:   "Wild Geese",
		},
		{
			name:   "first h1 wins",
			markup: "<h1>First</h1><h1>Second</h1>",
			want:   "First",
		},
		{
			name:   "whitespace trimmed",
			markup: "<title>\n  Spaced Out \n</title>",
			want:   "Spaced Out",
		},
		{
			name:   "no title or heading",
			markup: "<p>just a paragraph</p>",
			want:   "",
		},
		{
			name:   "empty markup",
			markup: "",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extractTitle(tt.markup))
		})
	}
}

func TestPageDescription(t *testing.T) {
	t.Parallel()

	t.Run("strips markup", func(t *testing.T) {
		t.Parallel()
		got := pageDescription("<p>You do not have to be good.</p>")
		assert.Equal(t, "You do not have to be good.", got)
	})

	t.Run("collapses whitespace", func(t *testing.T) {
		t.Parallel()
		got := pageDescription("<p>one\n\n  two   three</p>")
		assert.Equal(t, "one two three", got)
	})

	t.Run("unbroken multibyte text truncates on a rune boundary", func(t *testing.T) {
		t.Parallel()
		got := pageDescription("<p>" + strings.Repeat("ä", 200) + "</p>")
		assert.True(t, utf8.ValidString(got))
		assert.LessOrEqual(t, len(got), descriptionMaxLen+len("…"))
	})

	t.Run("truncates long text at a word boundary", func(t *testing.T) {
		t.Parallel()
		long := "<p>"
		for range 40 {
			long += "wordy "
		}
		long += "</p>"

		got := pageDescription(long)
		assert.LessOrEqual(t, len(got), descriptionMaxLen+len("…"))
		assert.NotContains(t, got, "wordy…w")
	})
}

func TestSlugDisplayName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "mary oliver", slugDisplayName("mary-oliver"))
	assert.Equal(t, "ted kooser", slugDisplayName("ted_kooser"))
	assert.Equal(t, "plain", slugDisplayName("plain"))
}
