package clone

import (
	"bytes"

	"github.com/agnivade/levenshtein"

	"github.com/jask/uidclone/internal/block0"
)

// ConfirmClone reports whether the scanned UID is the one that was cloned.
func ConfirmClone(expected, scanned []byte) bool {
	return bytes.Equal(expected, scanned)
}

// uidDistance counts how many hex digits separate two UIDs, so a mismatch
// report can tell a near miss from a completely different tag.
func uidDistance(expected, scanned []byte) int {
	return levenshtein.ComputeDistance(block0.FormatHex(expected), block0.FormatHex(scanned))
}
