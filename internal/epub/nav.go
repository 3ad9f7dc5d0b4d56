package epub

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseNav parses an EPUB 3 navigation document into an ordered NavPoint
// tree. The nav element carrying epub:type="toc" is preferred; when no
// nav element declares a type, the first nav in the document is used.
//
// The format has no explicit ordering field — document order is
// authoritative, so every entry's Order stays 0. Hrefs are kept raw.
func ParseNav(data []byte) ([]NavPoint, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse nav document: %w", err)
	}

	nav := findTocNav(doc)
	if nav == nil {
		return nil, nil
	}

	list := nav.ChildrenFiltered("ol")
	if list.Length() == 0 {
		list = nav.Find("ol").First()
	}
	if list.Length() == 0 {
		return nil, nil
	}

	counter := 0
	return parseNavList(list.First(), 0, &counter), nil
}

// findTocNav selects the toc nav element from the document.
func findTocNav(doc *goquery.Document) *goquery.Selection {
	var toc, untyped *goquery.Selection
	doc.Find("nav").EachWithBreak(func(i int, s *goquery.Selection) bool {
		navType := s.AttrOr("epub:type", "")
		if hasToken(navType, "toc") {
			toc = s
			return false
		}
		if navType == "" && untyped == nil {
			untyped = s
		}
		return true
	})
	if toc != nil {
		return toc
	}
	return untyped
}

// parseNavList converts an ol element's li children into NavPoints.
// Nesting past one level is collapsed into the depth-1 children because
// the content loader expands only one level.
func parseNavList(list *goquery.Selection, level int, counter *int) []NavPoint {
	var points []NavPoint

	list.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
		*counter++
		np := NavPoint{
			ID:    fmt.Sprintf("nav-%d", *counter),
			Level: level,
		}

		// The entry's own link may be wrapped (e.g., inside a span), but
		// links inside a nested list belong to the children, so the
		// nested lists are cut away before looking. Headings without a
		// link keep their own text as the label.
		own := li.Clone()
		own.Find("ol, ul").Remove()
		link := own.Find("a").First()
		if link.Length() > 0 {
			np.Href = link.AttrOr("href", "")
			np.Title = trimText(link.Text())
		} else {
			np.Title = trimText(own.Text())
		}

		if level == 0 {
			if sub := li.ChildrenFiltered("ol"); sub.Length() > 0 {
				np.Children = parseNavList(sub.First(), level+1, counter)
			}
		}

		points = append(points, np)
	})

	return points
}

// hasToken reports whether a space-separated token list contains token.
func hasToken(list, token string) bool {
	for _, t := range strings.Fields(list) {
		if t == token {
			return true
		}
	}
	return false
}

// trimText trims and collapses the whitespace runs that XML pretty-printing
// leaves inside label text.
func trimText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
