// Package textprep prepares raw article text for the fusion core. It strips
// HTML markup and applies NFKC normalization while keeping original casing and
// punctuation, because the downstream NER stage needs intact surface forms to
// detect place names.
package textprep

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/laraDundar/pvo-limburg/internal/model"
)

// Clean strips HTML to plain text (tags become word boundaries) and
// NFKC-normalizes the result. Whitespace runs collapse to single spaces.
// Blank or whitespace-only input yields "".
func Clean(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	s = stripHTML(s)
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// RawText returns the best available text for an article: the full text when
// present, otherwise title and summary joined.
func RawText(a model.Article) string {
	if strings.TrimSpace(a.FullText) != "" {
		return a.FullText
	}
	return strings.TrimSpace(a.Title + " " + a.Summary)
}

// stripHTML extracts the text content of an HTML fragment. Script and style
// bodies are dropped entirely. Input that contains no markup passes through
// unchanged apart from entity decoding.
func stripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return html.UnescapeString(s)
	}

	var b strings.Builder
	tok := html.NewTokenizer(strings.NewReader(s))
	skipDepth := 0
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			name, _ := tok.TagName()
			if isSkippedTag(string(name)) {
				skipDepth++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			name, _ := tok.TagName()
			if isSkippedTag(string(name)) && skipDepth > 0 {
				skipDepth--
			}
			b.WriteByte(' ')
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(tok.Text())
			}
		}
	}
}

func isSkippedTag(name string) bool {
	return name == "script" || name == "style"
}
