package epub

import (
	"go.uber.org/zap"
)

// NavFormat identifies which navigation source format produced a tree.
type NavFormat int

const (
	// NavFormatNone means no navigation could be discovered in either
	// supported format. The book has no content units; downstream this
	// surfaces as an empty book, not an error.
	NavFormatNone NavFormat = iota
	// NavFormatNCX is the legacy ordered-map format (toc.ncx).
	NavFormatNCX
	// NavFormatNavDoc is the EPUB 3 structured navigation document.
	NavFormatNavDoc
)

// String returns a short name for the format.
func (f NavFormat) String() string {
	switch f {
	case NavFormatNCX:
		return "ncx"
	case NavFormatNavDoc:
		return "nav"
	default:
		return "none"
	}
}

// Navigation is the resolved navigation source: the format that produced
// it, the path it was read from, and the ordered entry tree.
type Navigation struct {
	Format NavFormat
	Path   string
	Points []NavPoint
}

// ResolveNavigation discovers and parses the book's navigation structure.
//
// The legacy NCX format is attempted first; when it yields zero entries
// the EPUB 3 nav document is attempted. When both yield zero entries the
// result is an empty tree with NavFormatNone — never an error, because a
// book without discoverable navigation must load as "no content".
// Read and parse failures along the way are logged and treated as a
// zero-entry outcome for that format.
func ResolveNavigation(a *Archive, opf *OPF, log *zap.Logger) Navigation {
	if points, path := tryNCX(a, opf, log); len(points) > 0 {
		return Navigation{Format: NavFormatNCX, Path: path, Points: points}
	}
	if points, path := tryNavDoc(a, opf, log); len(points) > 0 {
		return Navigation{Format: NavFormatNavDoc, Path: path, Points: points}
	}
	return Navigation{Format: NavFormatNone}
}

// tryNCX attempts the legacy NCX format.
func tryNCX(a *Archive, opf *OPF, log *zap.Logger) ([]NavPoint, string) {
	path := opf.NCXPath
	if path == "" {
		// Some packages register the NCX without wiring the spine toc
		// attribute; fall back to the manifest media type.
		for _, id := range opf.ManifestOrder {
			item := opf.Manifest[id]
			if item.MediaType == "application/x-dtbncx+xml" {
				path = item.Href
				break
			}
		}
	}
	if path == "" {
		return nil, ""
	}

	data, err := a.ReadFile(path)
	if err != nil {
		log.Warn("NCX document not readable",
			zap.String("path", path), zap.Error(err))
		return nil, ""
	}

	points, err := ParseNCX(data)
	if err != nil {
		log.Warn("NCX document not parsable",
			zap.String("path", path), zap.Error(err))
		return nil, ""
	}
	return points, path
}

// tryNavDoc attempts the EPUB 3 navigation document.
func tryNavDoc(a *Archive, opf *OPF, log *zap.Logger) ([]NavPoint, string) {
	path, ok := opf.FindNavPath()
	if !ok {
		return nil, ""
	}

	data, err := a.ReadFile(path)
	if err != nil {
		log.Warn("nav document not readable",
			zap.String("path", path), zap.Error(err))
		return nil, ""
	}

	points, err := ParseNav(data)
	if err != nil {
		log.Warn("nav document not parsable",
			zap.String("path", path), zap.Error(err))
		return nil, ""
	}
	return points, path
}
