// Package reader implements the archive-to-document resolution pipeline:
// it takes a zip-packaged EPUB held in memory and produces an ordered,
// self-contained sequence of renderable chapters with embedded resources
// rewritten to locally resolvable blob handles, plus book metadata, a
// navigation tree and the cover image.
package reader

import (
	"fmt"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/ovidiuiliescu/epubreader/internal/epub"
)

// Options configures a Reader.
type Options struct {
	// Logger receives diagnostic detail for every per-unit and
	// per-resource failure swallowed during loading. Defaults to a nop
	// logger.
	Logger *zap.Logger
	// ThumbnailWidth bounds the generated cover thumbnail; zero means
	// the default.
	ThumbnailWidth int
}

// Reader loads books and runs queries against the current one. The
// whole pipeline runs sequentially on the calling goroutine: navigation
// resolution always completes before chapter loading starts, and
// chapters are produced strictly in traversal order so that index-based
// references stay stable.
//
// A Reader is not safe for concurrent use; callers must serialize
// loads — at most one in-flight load per Reader.
type Reader struct {
	opts      Options
	log       *zap.Logger
	book      *Book
	lastQuery string
}

// New creates a Reader.
func New(opts Options) *Reader {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Reader{opts: opts, log: log}
}

// Load opens an in-memory EPUB buffer and publishes it as the current
// book, replacing any previous one wholesale. prev carries the
// previously assigned identity and reading state for re-opens; pass nil
// for a first-time load, in which case a fresh identity is generated.
//
// Only a buffer that cannot be opened as an archive fails the load as a
// whole. Every later failure is confined to the unit or resource it
// concerns: the affected chapter becomes a placeholder, the affected
// image keeps its original reference, and the load succeeds. A book
// with no discoverable navigation loads with zero chapters.
func (r *Reader) Load(data []byte, fileName string, prev *SavedState) (*Book, error) {
	archive, err := epub.OpenArchive(data)
	if err != nil {
		return nil, err
	}

	opfData, err := archive.ReadFile(archive.OPFPath())
	if err != nil {
		archive.Release()
		return nil, fmt.Errorf("failed to read package document: %w", err)
	}

	opf, err := epub.ParseOPF(opfData, contentRootDir(archive.OPFPath()))
	if err != nil {
		archive.Release()
		return nil, fmt.Errorf("failed to parse package document: %w", err)
	}

	s := newLoadSession(archive, opf, r.log)

	// Navigation must be fully resolved before any chapter loads; the
	// loader consumes the tree.
	nav := epub.ResolveNavigation(archive, opf, r.log)
	if nav.Format == epub.NavFormatNone {
		r.log.Warn("no navigation discoverable, book loads with no content",
			zap.String("file", fileName))
	} else {
		r.log.Info("navigation resolved",
			zap.String("format", nav.Format.String()),
			zap.String("path", nav.Path),
			zap.Int("entries", len(nav.Points)))
	}

	chapters := loadChapters(s, nav.Points)
	cover := s.extractCover(r.opts.ThumbnailWidth)

	now := time.Now()
	meta := Metadata{
		Title:       opf.Metadata.Title,
		Author:      opf.Metadata.Author(),
		Description: opf.Metadata.Description,
		Publisher:   opf.Metadata.Publisher,
		Published:   opf.Metadata.Date,
		Language:    opf.Metadata.Language,
		AddedAt:     now,
		LastReadAt:  now,
	}
	if prev != nil && prev.ID != "" {
		meta.ID = prev.ID
		meta.Progress = prev.Progress
		meta.CurrentChapter = prev.CurrentChapter
	} else {
		meta.ID = GenerateID(data, fileName, now)
	}
	if meta.Title == "" {
		meta.Title = titleFromPath(fileName)
	}

	book := &Book{
		Metadata: meta,
		Chapters: chapters,
		Nav:      nav,
		Cover:    cover,
		session:  s,
	}

	if r.book != nil {
		r.book.Close()
	}
	r.book = book
	r.lastQuery = ""
	return book, nil
}

// Book returns the currently loaded book, nil before the first load.
func (r *Reader) Book() *Book {
	return r.book
}

// Search runs a query against the current book's chapters. An empty or
// whitespace-only query clears the stored query state and yields no
// results.
func (r *Reader) Search(query string) []SearchResult {
	if r.book == nil {
		return nil
	}
	results := Search(query, r.book.Chapters)
	if results == nil {
		r.lastQuery = ""
		return nil
	}
	r.lastQuery = query
	return results
}

// LastQuery returns the most recent non-empty query, "" after a clear.
func (r *Reader) LastQuery() string {
	return r.lastQuery
}

// contentRootDir derives the root content-document directory from the
// package document's own path, "" for the archive root.
func contentRootDir(opfPath string) string {
	d := path.Dir(opfPath)
	if d == "." || d == "/" {
		return ""
	}
	return d
}
