package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractText(t *testing.T) {
	html := `<p>First paragraph.</p><p>Second one with <strong>bold</strong> text.</p>`
	got := ExtractText(html)
	assert.Equal(t, "First paragraph. Second one with bold text.", got)
}

func TestExtractTextSkipsNonContent(t *testing.T) {
	html := `<p>Visible.</p><script>var hidden = 1;</script><style>p{color:red}</style>`
	got := ExtractText(html)
	assert.Equal(t, "Visible.", got)
	assert.NotContains(t, got, "hidden")
}

func TestExtractTextEmpty(t *testing.T) {
	assert.Equal(t, "", ExtractText(""))
	assert.Equal(t, "", ExtractText("   \n  "))
}

func TestExtractTextPlainText(t *testing.T) {
	assert.Equal(t, "just words here", ExtractText("just   words\nhere"))
}

func TestExcerptShortTextUnchanged(t *testing.T) {
	text := "One sentence. Two sentences."
	assert.Equal(t, text, Excerpt(text, 10))
}

func TestExcerptLimitsSentences(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("This is a filler sentence about software. ")
	}
	got := Excerpt(b.String(), 5)
	assert.Less(t, len(got), b.Len()/2)
	assert.NotEmpty(t, got)
}

func TestExcerptEmpty(t *testing.T) {
	assert.Equal(t, "", Excerpt("", 5))
}
