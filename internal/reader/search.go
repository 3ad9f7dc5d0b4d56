package reader

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	// maxMatchesPerChapter bounds result volume on common terms.
	maxMatchesPerChapter = 10
	// excerptRadius is the context window, in runes, kept on each side
	// of a match.
	excerptRadius = 50
	// ellipsis marks a context window truncated inside the document.
	ellipsis = "..."
)

// SearchResult is one match produced by a query. Results are transient
// per query and never persisted.
type SearchResult struct {
	ChapterIndex int
	ChapterTitle string
	Excerpt      string // context window with the match wrapped in <mark>
	Locator      string // opaque position reference within the chapter
	SearchText   string
	MatchedText  string
	MatchIndex   int // ordinal of the match within its chapter
}

// Search scans the loaded content units for a query string. The scan is
// case-insensitive, capped at maxMatchesPerChapter occurrences per unit,
// and results follow strict unit order then in-unit occurrence order —
// no relevance ranking. An empty or whitespace-only query yields nil.
func Search(query string, chapters []Chapter) []SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	var results []SearchResult
	lowQuery := strings.ToLower(query)

	for ci := range chapters {
		text := plainText(chapters[ci].Content)
		lowText := strings.ToLower(text)

		matchIndex := 0
		for pos := 0; matchIndex < maxMatchesPerChapter; {
			rel := strings.Index(lowText[pos:], lowQuery)
			if rel < 0 {
				break
			}
			start := pos + rel
			end := start + len(lowQuery)

			matched := sliceOriginal(text, lowText, start, end)
			results = append(results, SearchResult{
				ChapterIndex: ci,
				ChapterTitle: chapters[ci].Title,
				Excerpt:      buildExcerpt(text, lowText, start, end, matched),
				Locator:      fmt.Sprintf("%d:%d", ci, start),
				SearchText:   query,
				MatchedText:  matched,
				MatchIndex:   matchIndex,
			})

			matchIndex++
			pos = end
		}
	}

	return results
}

// plainText strips markup from a chapter's content fragment.
func plainText(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// sliceOriginal extracts the original-case text for a match located in
// the lowercased copy. Lowercasing changes byte length only for a few
// exotic code points; when it does, the lowercased slice is used.
func sliceOriginal(text, lowText string, start, end int) string {
	if len(text) == len(lowText) && end <= len(text) {
		return text[start:end]
	}
	return lowText[start:end]
}

// buildExcerpt produces a fixed-width context window around a match,
// ellipsis-truncated at document boundaries, with the match wrapped in
// a highlight marker.
func buildExcerpt(text, lowText string, start, end int, matched string) string {
	if len(text) != len(lowText) {
		text = lowText
	}

	before := text[:start]
	after := ""
	if end <= len(text) {
		after = text[end:]
	}

	prefix := before
	leadTruncated := false
	for i := 0; i < excerptRadius && len(before) > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(before)
		before = before[:len(before)-size]
	}
	if len(before) > 0 {
		prefix = prefix[len(before):]
		leadTruncated = true
	}

	suffix := after
	tailTruncated := false
	kept := 0
	for i := 0; i < excerptRadius && kept < len(after); i++ {
		_, size := utf8.DecodeRuneInString(after[kept:])
		kept += size
	}
	if kept < len(after) {
		suffix = after[:kept]
		tailTruncated = true
	}

	var b strings.Builder
	if leadTruncated {
		b.WriteString(ellipsis)
	}
	b.WriteString(prefix)
	b.WriteString("<mark>")
	b.WriteString(matched)
	b.WriteString("</mark>")
	b.WriteString(suffix)
	if tailTruncated {
		b.WriteString(ellipsis)
	}
	return b.String()
}
