package epub

import (
	"net/url"
	"path"
	"strings"
)

// ResolveReference normalizes a reference found in navigation or content
// markup into a canonical archive-internal path.
//
// Rules, in order:
//  1. Absolute http(s) references resolve to their URL path component.
//  2. data: URIs and fragment-only references ("#...") pass through
//     unresolved; callers special-case these.
//  3. Otherwise the reference is joined against baseDir, the archive's
//     root content-document directory, when one is known. References in
//     navigation documents are relative to the package root, which is
//     why baseDir takes priority.
//  4. When no baseDir is known, the reference is joined against docDir,
//     the directory of the referring document.
//
// All results are stripped of a leading separator and percent-decoded.
// A reference already under baseDir is returned unchanged, so resolving
// an already-canonical path is idempotent.
func ResolveReference(ref, baseDir, docDir string) string {
	if ref == "" {
		return ""
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		if u, err := url.Parse(ref); err == nil {
			return CleanEntryPath(u.Path)
		}
		return ref
	}

	if strings.HasPrefix(ref, "data:") || strings.HasPrefix(ref, "#") {
		return ref
	}

	cleaned := CleanEntryPath(ref)

	base := baseDir
	if base == "" || base == "." {
		base = docDir
	}
	if base == "" || base == "." {
		return path.Clean(cleaned)
	}

	// Already canonical relative to the base: keep it stable.
	if cleaned == base || strings.HasPrefix(cleaned, base+"/") {
		return path.Clean(cleaned)
	}

	return path.Clean(path.Join(base, cleaned))
}

// SplitFragment splits a source reference into path and fragment identifier.
func SplitFragment(src string) (p, fragment string) {
	if src == "" {
		return "", ""
	}
	parts := strings.SplitN(src, "#", 2)
	p = parts[0]
	if len(parts) == 2 {
		fragment = parts[1]
	}
	return p, fragment
}
