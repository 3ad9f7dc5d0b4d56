package epub

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// Archive provides path-addressed access to the contents of an EPUB
// container held fully in memory. Lookups are tolerant of the path
// mismatches that occur in practice between references found in
// navigation or content documents and the archive's actual entry names
// (leading slashes, percent-encoding, differing storage prefixes).
//
// An Archive is owned exclusively by a single load and is not safe for
// concurrent use.
type Archive struct {
	files   map[string]*zip.File
	names   []string // entry names in archive order, for fallback scans
	opfPath string
}

// container.xml structure
type containerXML struct {
	Rootfiles struct {
		Rootfile []struct {
			FullPath  string `xml:"full-path,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"rootfile"`
	} `xml:"rootfiles"`
}

// OpenArchive opens an in-memory EPUB buffer and locates its package
// document. A buffer that cannot be read as a ZIP container fails with
// ErrCorruptArchive; everything past that point is recoverable.
func OpenArchive(data []byte) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}

	a := &Archive{
		files: make(map[string]*zip.File, len(zr.File)),
		names: make([]string, 0, len(zr.File)),
	}
	for _, f := range zr.File {
		name := normalizeEntryName(f.Name)
		if _, exists := a.files[name]; !exists {
			a.files[name] = f
		}
		a.names = append(a.names, name)
	}

	if err := a.parseContainer(); err != nil {
		return nil, err
	}
	return a, nil
}

// OPFPath returns the archive-internal path of the package document.
func (a *Archive) OPFPath() string {
	return a.opfPath
}

// Paths returns all entry names in archive order.
func (a *Archive) Paths() []string {
	return append([]string(nil), a.names...)
}

// Has reports whether path resolves to an entry, including fallback matching.
func (a *Archive) Has(path string) bool {
	return a.find(path) != nil
}

// ReadFile reads the contents of an archive entry.
//
// Lookup proceeds in three stages: an exact match on the requested
// path; an exact match after stripping any leading separator and
// percent-decoding; and finally a scan of the full entry list accepting
// the first entry whose path ends with the decoded path on a directory
// boundary. The last stage absorbs differences between an absolute
// reference and the archive's actual nested storage path. Returns
// ErrFileNotFound only when no candidate matches.
func (a *Archive) ReadFile(path string) ([]byte, error) {
	f := a.find(path)
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open entry %s: %w", path, err)
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// ReadTextFile reads an archive entry as a string.
func (a *Archive) ReadTextFile(path string) (string, error) {
	data, err := a.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Release drops the archive's entry index. The Archive must not be used
// after Release; a load calls it once all content units are materialized
// or on any unrecoverable failure.
func (a *Archive) Release() {
	a.files = nil
	a.names = nil
}

// find implements the staged lookup described on ReadFile.
func (a *Archive) find(path string) *zip.File {
	if f, ok := a.files[path]; ok {
		return f
	}

	cleaned := CleanEntryPath(path)
	if f, ok := a.files[cleaned]; ok {
		return f
	}

	// Suffix scan over all entries. A candidate must match on a path
	// separator boundary so that "text/ch1.xhtml" never matches an
	// unrelated "othertext/ch1.xhtml". First match in archive entry
	// order wins, keeping the result deterministic for a given archive.
	if cleaned == "" {
		return nil
	}
	for _, name := range a.names {
		if name == cleaned || strings.HasSuffix(name, "/"+cleaned) {
			return a.files[name]
		}
	}
	return nil
}

// parseContainer parses META-INF/container.xml to find the OPF path.
func (a *Archive) parseContainer() error {
	data, err := a.ReadFile("META-INF/container.xml")
	if err != nil {
		return fmt.Errorf("%w: missing META-INF/container.xml", ErrOPFNotFound)
	}

	var c containerXML
	if err := xml.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("failed to parse container.xml: %w", err)
	}

	for _, rf := range c.Rootfiles.Rootfile {
		if rf.MediaType == "application/oebps-package+xml" || rf.MediaType == "" {
			a.opfPath = normalizeEntryName(rf.FullPath)
			return nil
		}
	}
	if len(c.Rootfiles.Rootfile) > 0 {
		a.opfPath = normalizeEntryName(c.Rootfiles.Rootfile[0].FullPath)
		return nil
	}
	return ErrOPFNotFound
}

// CleanEntryPath strips a leading separator and percent-decodes a path,
// producing the form handed to archive lookups.
func CleanEntryPath(path string) string {
	path = strings.TrimPrefix(path, "/")
	if decoded, err := url.PathUnescape(path); err == nil {
		path = decoded
	}
	return path
}

// normalizeEntryName normalizes ZIP entry names (removes ./ prefix).
func normalizeEntryName(name string) string {
	return strings.TrimPrefix(name, "./")
}
