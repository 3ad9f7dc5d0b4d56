package epub

import "errors"

// Sentinel errors returned by the epub package.
var (
	// ErrCorruptArchive indicates the input buffer is not a readable ZIP
	// container. This is the only failure that aborts a load as a whole.
	ErrCorruptArchive = errors.New("epub: corrupt archive")

	// ErrFileNotFound indicates the requested path does not exist in the
	// archive, even after fallback matching. Callers treat this as a
	// per-entry recoverable condition, never fatal to the whole load.
	ErrFileNotFound = errors.New("epub: file not found in archive")

	// ErrOPFNotFound indicates container.xml names no package document.
	ErrOPFNotFound = errors.New("epub: OPF path not found in container.xml")
)
