package reader

// SavedState is the reading position a persistence collaborator returns
// for a previously cached book.
type SavedState struct {
	ID             string
	Progress       float64 // percentage, 0-100
	CurrentChapter int
}

// Store is the persistence collaborator boundary. Implementations cache
// books and hand back previously stored archives with their reading
// state; capacity and eviction policy are theirs to enforce.
type Store interface {
	SaveBook(meta Metadata, archive, cover []byte) error
	LoadBook(id string) (archive []byte, state SavedState, err error)
}

// Highlight is the instruction handed to the presentation layer to
// re-render a chapter with a specific search match emphasized and
// scrolled into view.
type Highlight struct {
	ChapterIndex int
	SearchText   string
	MatchIndex   int
}
