package reader

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// idHashLen is the number of hex digits of the content digest kept in
// generated identifiers. 12 digits (48 bits) is plenty for a personal
// library while keeping ids readable in logs.
const idHashLen = 12

// GenerateID derives a stable content-addressed identifier for an
// archive: a prefix of the SHA-256 digest of the full byte buffer,
// the slugified file name, and the load timestamp. The result is
// human-debuggable but collision-resistant, and deterministic in its
// inputs.
//
// The identifier is never recomputed for a book once assigned; on
// reopen, callers pass the previously assigned identifier back in so it
// stays the persistent cache and progress key across sessions.
func GenerateID(data []byte, fileName string, at time.Time) string {
	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])[:idHashLen]

	base := strings.TrimSuffix(path.Base(fileName), path.Ext(fileName))
	name := slug.Make(base)
	if name == "" {
		name = "book"
	}

	return fmt.Sprintf("%s-%s-%d", digest, name, at.UnixMilli())
}
