package reader

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gosimple/slug"
	"github.com/h2non/filetype"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ovidiuiliescu/epubreader/internal/epub"
)

// loadChapters materializes one content unit per navigation entry, in
// the depth-first flattening of the navigation tree. Entries with
// children are expanded one level deep, each child becoming its own
// unit at depth 1. Every failure along the way produces a placeholder
// unit instead of aborting the traversal, so the chapter sequence stays
// aligned with the navigation tree.
func loadChapters(s *loadSession, points []epub.NavPoint) []Chapter {
	flat := flattenNavPoints(points)

	chapters := make([]Chapter, 0, len(flat))
	seen := make(map[string]int, len(flat))
	for _, np := range flat {
		ch := s.loadChapter(np)

		// Navigation ids are not guaranteed unique across the tree;
		// chapter ids must be.
		if n := seen[ch.ID]; n > 0 {
			seen[ch.ID] = n + 1
			ch.ID = fmt.Sprintf("%s-%d", ch.ID, n+1)
		} else {
			seen[ch.ID] = 1
		}

		chapters = append(chapters, ch)
	}
	return chapters
}

// flattenNavPoints flattens the navigation tree depth-first, one level deep.
func flattenNavPoints(points []epub.NavPoint) []epub.NavPoint {
	var flat []epub.NavPoint
	for _, np := range points {
		children := np.Children
		np.Children = nil
		flat = append(flat, np)
		for _, child := range children {
			child.Children = nil
			flat = append(flat, child)
		}
	}
	return flat
}

// loadChapter fetches and extracts one content unit. It never fails:
// any error is logged, recorded as a warning, and turned into a
// placeholder paragraph so the remaining traversal continues.
func (s *loadSession) loadChapter(np epub.NavPoint) Chapter {
	refPath, _ := epub.SplitFragment(np.Href)
	resolved := epub.ResolveReference(refPath, s.baseDir, "")

	ch := Chapter{
		ID:    np.ID,
		Href:  resolved,
		Title: np.Title,
		Level: np.Level,
	}
	if ch.Title == "" {
		ch.Title = titleFromPath(resolved)
	}

	text, err := s.archive.ReadTextFile(resolved)
	if err != nil {
		s.chapterFailed(&ch, resolved, "document not readable", err)
		return ch
	}
	if strings.TrimSpace(text) == "" {
		s.chapterEmpty(&ch, resolved, "document is empty")
		return ch
	}

	body, found := extractBodyMarkup([]byte(text))
	if !found {
		s.chapterFailed(&ch, resolved, "no body element", nil)
		return ch
	}
	if body == "" {
		s.chapterEmpty(&ch, resolved, "body element is empty")
		return ch
	}

	content, err := s.rewriteImages(body, path.Dir(resolved))
	if err != nil {
		// Rewriting is best-effort; fall back to the unrewritten body.
		s.log.Warn("image rewrite failed",
			zap.String("chapter", ch.Title),
			zap.String("path", resolved),
			zap.Error(err))
		content = body
	}

	ch.Content = content
	return ch
}

func (s *loadSession) chapterFailed(ch *Chapter, resolved, reason string, err error) {
	s.log.Warn("unable to load chapter",
		zap.String("chapter", ch.Title),
		zap.String("path", resolved),
		zap.String("reason", reason),
		zap.Error(err))
	s.warn(fmt.Errorf("chapter %q (%s): %s", ch.Title, resolved, reason))
	ch.Content = fmt.Sprintf("<p>Unable to load chapter: %s</p>", ch.Title)
}

func (s *loadSession) chapterEmpty(ch *Chapter, resolved, reason string) {
	s.log.Warn("empty chapter",
		zap.String("chapter", ch.Title),
		zap.String("path", resolved),
		zap.String("reason", reason))
	s.warn(fmt.Errorf("chapter %q (%s): %s", ch.Title, resolved, reason))
	ch.Content = fmt.Sprintf("<p>Empty chapter: %s</p>", ch.Title)
}

// extractBodyMarkup parses a content document and renders the inner
// markup of its body element. The parser tolerates XML-style
// self-closing and namespaced markup, not only plain HTML. When the
// standard body lookup fails, a namespace-aware search accepts elements
// whose local name is "body" regardless of prefix.
func extractBodyMarkup(data []byte) (markup string, found bool) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", false
	}

	body := findElement(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Body
	})
	if body == nil {
		body = findElement(doc, func(n *html.Node) bool {
			return n.Data == "body" || strings.HasSuffix(n.Data, ":body")
		})
	}
	if body == nil {
		return "", false
	}

	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", false
		}
	}
	return strings.TrimSpace(buf.String()), true
}

// findElement performs a depth-first search for an element node
// accepted by match.
func findElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, match); result != nil {
			return result
		}
	}
	return nil
}

// rewriteImages rewrites every img src in the body fragment to a
// locally-addressable blob handle. Image paths resolve relative to the
// containing chapter's directory, not the package root. Inline data
// URIs and fragment references are skipped, and a per-chapter cache
// avoids materializing the same source twice. An image that cannot be
// resolved or read keeps its original reference; that never fails the
// containing unit.
func (s *loadSession) rewriteImages(body, chapterDir string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", err
	}

	srcCache := make(map[string]string)
	doc.Find("img[src]").Each(func(i int, img *goquery.Selection) {
		src := img.AttrOr("src", "")
		if src == "" || strings.HasPrefix(src, "data:") || strings.HasPrefix(src, "#") {
			return
		}
		if handle, ok := srcCache[src]; ok {
			img.SetAttr("src", handle)
			return
		}

		resolved := epub.ResolveReference(src, "", chapterDir)
		data, err := s.archive.ReadFile(resolved)
		if err != nil {
			s.log.Warn("image not found, keeping original reference",
				zap.String("src", src),
				zap.String("path", resolved),
				zap.Error(err))
			s.warn(fmt.Errorf("image %s: %w", resolved, err))
			return
		}

		handle := s.materializeBlob(resolved, sniffMediaType(resolved, data), data)
		srcCache[src] = handle
		img.SetAttr("src", handle)
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// sniffMediaType determines an image's media type from its content,
// falling back to the file extension.
func sniffMediaType(p string, data []byte) string {
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".svg":
		return "image/svg+xml"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// titleFromPath derives a display title from a resolved archive path.
func titleFromPath(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}

// ChapterByHref dereferences an internal cross-reference link. When the
// target is already a loaded chapter its index is returned; otherwise
// the referenced document is loaded on demand and appended past the
// navigation-derived sequence, with an id and title synthesized from
// the resolved path.
//
// Appended units are the one documented exception to the ordering
// invariant: their position is stable only relative to other appended
// units, not to the navigation tree.
func (b *Book) ChapterByHref(ref string) (int, error) {
	if b.session == nil || b.session.archive == nil {
		return -1, fmt.Errorf("book is closed")
	}

	refPath, _ := epub.SplitFragment(ref)
	if refPath == "" {
		return -1, fmt.Errorf("fragment-only reference %q has no target document", ref)
	}
	resolved := epub.ResolveReference(refPath, b.session.baseDir, "")

	for i := range b.Chapters {
		if b.Chapters[i].Href == resolved {
			return i, nil
		}
	}

	np := epub.NavPoint{
		ID:    slug.Make(resolved),
		Href:  refPath,
		Title: titleFromPath(resolved),
	}
	b.Chapters = append(b.Chapters, b.session.loadChapter(np))
	return len(b.Chapters) - 1, nil
}
