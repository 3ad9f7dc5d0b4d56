package reader

import (
	"fmt"
	"strings"
	"testing"
)

func searchFixture() []Chapter {
	return []Chapter{
		{Title: "Intro", Content: "<p>Nothing to see here.</p>"},
		{Title: "The Lair", Content: "<p>The dragon roared. Another dragon appeared. A third dragon slept.</p>"},
		{Title: "Epilogue", Content: "<p>No dragon survived.</p>"},
	}
}

func TestSearchBasic(t *testing.T) {
	results := Search("dragon", searchFixture())

	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}

	// Strict unit order, then in-unit occurrence order.
	for i, res := range results[:3] {
		if res.ChapterIndex != 1 {
			t.Errorf("results[%d].ChapterIndex = %d, want 1", i, res.ChapterIndex)
		}
		if res.MatchIndex != i {
			t.Errorf("results[%d].MatchIndex = %d, want %d", i, res.MatchIndex, i)
		}
		if res.ChapterTitle != "The Lair" {
			t.Errorf("results[%d].ChapterTitle = %q", i, res.ChapterTitle)
		}
		if res.MatchedText != "dragon" {
			t.Errorf("results[%d].MatchedText = %q", i, res.MatchedText)
		}
		if !strings.Contains(res.Excerpt, "<mark>dragon</mark>") {
			t.Errorf("results[%d].Excerpt = %q, match not highlighted", i, res.Excerpt)
		}
	}
	if results[3].ChapterIndex != 2 || results[3].MatchIndex != 0 {
		t.Errorf("last result = chapter %d match %d, want chapter 2 match 0",
			results[3].ChapterIndex, results[3].MatchIndex)
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	chapters := []Chapter{{Title: "C", Content: "<p>A Dragon appeared.</p>"}}

	results := Search("DRAGON", chapters)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].MatchedText != "Dragon" {
		t.Errorf("MatchedText = %q, want original casing preserved", results[0].MatchedText)
	}
	if results[0].SearchText != "DRAGON" {
		t.Errorf("SearchText = %q", results[0].SearchText)
	}
}

func TestSearchMatchCapPerChapter(t *testing.T) {
	content := "<p>" + strings.Repeat("dragon ", 25) + "</p>"
	chapters := []Chapter{{Title: "C", Content: content}}

	results := Search("dragon", chapters)
	if len(results) != maxMatchesPerChapter {
		t.Errorf("got %d results, want cap of %d", len(results), maxMatchesPerChapter)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	if got := Search("", searchFixture()); got != nil {
		t.Errorf("empty query = %v, want nil", got)
	}
	if got := Search("   \t ", searchFixture()); got != nil {
		t.Errorf("whitespace query = %v, want nil", got)
	}
}

func TestSearchNoMatches(t *testing.T) {
	if got := Search("unicorn", searchFixture()); len(got) != 0 {
		t.Errorf("got %v, want no results", got)
	}
}

func TestSearchIgnoresMarkup(t *testing.T) {
	chapters := []Chapter{{Title: "C", Content: "<p>hello <strong>world</strong></p>"}}
	if got := Search("strong", chapters); len(got) != 0 {
		t.Errorf("tag names must not be searchable, got %v", got)
	}
}

func TestSearchLocator(t *testing.T) {
	chapters := []Chapter{{Title: "C", Content: "<p>find the needle here</p>"}}
	results := Search("needle", chapters)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	want := fmt.Sprintf("0:%d", strings.Index("find the needle here", "needle"))
	if results[0].Locator != want {
		t.Errorf("Locator = %q, want %q", results[0].Locator, want)
	}
}

func TestExcerptWindowAndEllipsis(t *testing.T) {
	text := strings.Repeat("a", 60) + " needle " + strings.Repeat("b", 60)
	chapters := []Chapter{{Title: "C", Content: "<p>" + text + "</p>"}}

	results := Search("needle", chapters)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	want := ellipsis + strings.Repeat("a", 49) + " " +
		"<mark>needle</mark>" +
		" " + strings.Repeat("b", 49) + ellipsis
	if results[0].Excerpt != want {
		t.Errorf("Excerpt = %q\nwant      %q", results[0].Excerpt, want)
	}
}

func TestExcerptNoEllipsisAtBoundaries(t *testing.T) {
	chapters := []Chapter{{Title: "C", Content: "<p>short needle text</p>"}}

	results := Search("needle", chapters)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	want := "short <mark>needle</mark> text"
	if results[0].Excerpt != want {
		t.Errorf("Excerpt = %q, want %q", results[0].Excerpt, want)
	}
}
