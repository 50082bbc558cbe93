package util

import (
	"strings"

	"github.com/neurosnap/sentences"
)

// DefaultExcerptSentences bounds how much of a post body is sent to the
// generation service. A handful of opening sentences is plenty for naming
// a topical category.
const DefaultExcerptSentences = 30

// Excerpt returns the first maxSentences sentences of text. When the
// sentence tokenizer cannot be built the text is cut on word boundaries
// instead, assuming roughly twenty words per sentence.
func Excerpt(text string, maxSentences int) string {
	text = strings.TrimSpace(text)
	if text == "" || maxSentences <= 0 {
		return text
	}

	tokenizer := sentences.NewSentenceTokenizer(nil)
	if tokenizer == nil {
		words := strings.Fields(text)
		limit := maxSentences * 20
		if len(words) <= limit {
			return text
		}
		return strings.Join(words[:limit], " ")
	}

	sents := tokenizer.Tokenize(text)
	if len(sents) <= maxSentences {
		return text
	}

	var b strings.Builder
	for _, s := range sents[:maxSentences] {
		b.WriteString(s.Text)
	}
	return strings.TrimSpace(b.String())
}
