package reader

import (
	"time"

	"github.com/ovidiuiliescu/epubreader/internal/epub"
)

// Metadata is the book-level record handed to presentation and
// persistence collaborators. ID is the stable identity used both for
// cache correlation and to re-associate saved reading progress on
// reopen; it is generated fresh only for first-time loads.
type Metadata struct {
	ID             string
	Title          string
	Author         string
	Description    string
	Publisher      string
	Published      string
	Language       string
	AddedAt        time.Time
	LastReadAt     time.Time
	Progress       float64 // percentage, 0-100
	CurrentChapter int
}

// Chapter is one flattened, order-stable content unit. Content is either
// the sanitized body markup of the referenced document, with image
// references rewritten to blob handles, or a placeholder paragraph
// describing the failure. A chapter is never dropped on failure, so
// index-based references stay aligned with navigation and search.
type Chapter struct {
	ID      string
	Href    string // resolved archive-internal path
	Title   string
	Level   int
	Content string
}

// Blob is a locally-addressable resource materialized during content
// loading, looked up by the handle written into the chapter markup.
type Blob struct {
	Data      []byte
	MediaType string
	Path      string // archive-internal source path
}

// Cover holds the book's cover image, when one was discoverable.
type Cover struct {
	Data      []byte
	Thumbnail []byte // bounded-width JPEG, nil when generation failed
	MediaType string
	Path      string
}

// Book is the in-memory aggregate produced by a load: metadata, the
// ordered content units, the navigation tree for TOC display, and the
// cover. It is replaced wholesale on each new load. After publication
// the pipeline no longer mutates it; only the presentation layer
// touches the progress fields.
type Book struct {
	Metadata Metadata
	Chapters []Chapter
	Nav      epub.Navigation
	Cover    *Cover

	session *loadSession
}

// Chapter returns the content unit at index i, or nil when out of range.
func (b *Book) Chapter(i int) *Chapter {
	if i < 0 || i >= len(b.Chapters) {
		return nil
	}
	return &b.Chapters[i]
}

// Blob resolves a handle written into chapter markup back to its bytes.
func (b *Book) Blob(handle string) (Blob, bool) {
	if b.session == nil {
		return Blob{}, false
	}
	blob, ok := b.session.blobs[handle]
	return blob, ok
}

// Warnings returns the per-unit and per-resource failures swallowed
// during the load, combined into one error. Nil when the load was clean.
func (b *Book) Warnings() error {
	if b.session == nil {
		return nil
	}
	return b.session.warnings
}

// Close releases the underlying archive. The book's chapters, metadata
// and blobs stay usable; only on-demand chapter loading stops working.
// Close is idempotent.
func (b *Book) Close() {
	if b.session != nil && b.session.archive != nil {
		b.session.archive.Release()
		b.session.archive = nil
	}
}
