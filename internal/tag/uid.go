package tag

import "github.com/jask/uidclone/internal/block0"

// UID is a tag's unique identifier, 4, 7 or 10 bytes for MIFARE Classic.
// The bytes are held in a string so a UID is immutable and comparable with ==.
type UID struct {
	raw string
}

func NewUID(b []byte) UID {
	return UID{raw: string(b)}
}

// Bytes returns a copy of the raw UID bytes.
func (u UID) Bytes() []byte {
	return []byte(u.raw)
}

func (u UID) Len() int {
	return len(u.raw)
}

// String formats the UID the way operators type it into the UID field.
func (u UID) String() string {
	return block0.FormatHex([]byte(u.raw))
}
