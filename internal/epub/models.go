package epub

// OPF represents the parsed Open Package Format document.
type OPF struct {
	Metadata      Metadata
	Manifest      map[string]ManifestItem // id -> item
	ManifestOrder []string                // manifest ids in document order
	Spine         []SpineItem
	Guide         []GuideReference
	NCXPath       string // resolved from the spine toc attribute, if any
	BaseDir       string // directory of the OPF itself, "" for archive root
}

// Metadata represents the metadata section of the OPF.
type Metadata struct {
	Title       string
	Creators    []Creator
	Language    string
	Identifier  string
	Publisher   string
	Date        string
	Description string
	Subjects    []string
	CoverID     string // EPUB 2.0 cover image manifest item ID (from meta name="cover")
}

// Creator represents a creator (author, editor, etc.) of the book.
type Creator struct {
	Name string
	Role string // e.g., "aut" for author, "edt" for editor
}

// ManifestItem represents an item in the manifest. Href is resolved
// against the OPF directory.
type ManifestItem struct {
	ID         string
	Href       string
	MediaType  string
	Properties []string
}

// SpineItem represents an item reference in the spine.
type SpineItem struct {
	IDRef  string
	Linear bool
}

// GuideReference represents a reference in the EPUB 2.0 guide section.
type GuideReference struct {
	Type  string
	Title string
	Href  string
}

// NavPoint is one node in the book's navigation tree.
//
// Href is the raw reference as found in the navigation source; callers
// resolve it through ResolveReference before handing it to the archive.
// Order is the explicit ordering key from the legacy NCX format
// (playOrder); entries without one carry 0 and keep document order as a
// stable tie-break. Nav documents carry no ordering key, so all their
// entries report 0 and document order is authoritative.
type NavPoint struct {
	ID       string
	Href     string
	Title    string
	Level    int
	Order    int
	Children []NavPoint
}
