package reader

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ovidiuiliescu/epubreader/internal/epub"
)

// loadSession is the explicit context object owned by a single in-flight
// load. Every pipeline step receives it instead of sharing process-wide
// state, so two Reader instances never interfere.
type loadSession struct {
	archive  *epub.Archive
	opf      *epub.OPF
	baseDir  string // root content-document directory, from the OPF's own path
	log      *zap.Logger
	blobs    map[string]Blob
	nextBlob int
	warnings error
}

func newLoadSession(archive *epub.Archive, opf *epub.OPF, log *zap.Logger) *loadSession {
	return &loadSession{
		archive: archive,
		opf:     opf,
		baseDir: opf.BaseDir,
		log:     log,
		blobs:   make(map[string]Blob),
	}
}

// materializeBlob stores resource bytes under a fresh handle and returns
// the handle to write into the markup.
func (s *loadSession) materializeBlob(path, mediaType string, data []byte) string {
	s.nextBlob++
	handle := fmt.Sprintf("blob:%d", s.nextBlob)
	s.blobs[handle] = Blob{Data: data, MediaType: mediaType, Path: path}
	return handle
}

// warn records a swallowed per-unit or per-resource failure.
func (s *loadSession) warn(err error) {
	s.warnings = multierr.Append(s.warnings, err)
}
