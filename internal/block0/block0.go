// Package block0 assembles the manufacturer block of a MIFARE Classic tag.
//
// Block 0 is UID ‖ BCC ‖ manufacturer data for 4-byte UIDs and
// UID ‖ manufacturer data for 7 and 10-byte UIDs. Everything here is pure.
package block0

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// Size is the length of a MIFARE Classic block in bytes.
const Size = 16

// Defaults used when the operator does not supply their own values.
const (
	// DefaultTail was taken from an original tag with a 4-byte UID. Most
	// access control systems only look at the UID anyway.
	DefaultTail = "880400475955D141103607"
	// DefaultKey is the factory key of block 0 on a magic gen2 tag.
	DefaultKey = "FFFFFFFFFFFF"
)

// Block is a complete 16-byte manufacturer block.
type Block [Size]byte

// String returns the block as uppercase hex.
func (b Block) String() string {
	return strings.ToUpper(hex.EncodeToString(b[:]))
}

// ValidUIDLen reports whether n is a UID length MIFARE Classic knows about.
func ValidUIDLen(n int) bool {
	return n == 4 || n == 7 || n == 10
}

// BCC returns the block check character: the XOR of all UID bytes.
func BCC(uid []byte) byte {
	var bcc byte
	for _, b := range uid {
		bcc ^= b
	}
	return bcc
}

// TailLen returns how many tail bytes are needed to fill block 0 after a UID
// of uidLen bytes. A 4-byte UID leaves room for the BCC byte.
func TailLen(uidLen int) (int, error) {
	if !ValidUIDLen(uidLen) {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidLength, uidLen)
	}
	if uidLen == 4 {
		return Size - 1 - uidLen, nil
	}
	return Size - uidLen, nil
}

// Compute builds block 0 from uid and tail.
//
// For a 4-byte UID the BCC follows the UID and the first bytes of tail fill
// the rest. For 7 and 10-byte UIDs there is no BCC and the last bytes of
// tail are used.
func Compute(uid, tail []byte) (Block, error) {
	var b Block
	need, err := TailLen(len(uid))
	if err != nil {
		return b, err
	}
	if len(tail) < need {
		return b, fmt.Errorf("%w: need %d bytes, got %d", ErrInsufficientTail, need, len(tail))
	}

	n := copy(b[:], uid)
	if len(uid) == 4 {
		b[n] = BCC(uid)
		n++
		copy(b[n:], tail[:need])
		return b, nil
	}
	copy(b[n:], tail[len(tail)-need:])
	return b, nil
}

// ParseHex decodes s, which must be a non-empty run of hex digits with an
// even length. Surrounding whitespace is ignored.
func ParseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !HexDigits(s) || len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotHex, s)
	}
	out, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotHex, err)
	}
	return out, nil
}

// IsHex reports whether s would be accepted by ParseHex.
func IsHex(s string) bool {
	_, err := ParseHex(s)
	return err == nil
}

// HexDigits reports whether s is a non-empty run of hex digits. Unlike
// ParseHex it does not care whether the digits pair up into bytes.
func HexDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isHexDigit(r) {
			return false
		}
	}
	return true
}

// FormatHex renders b as uppercase hex without separators.
func FormatHex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

// RandomUID draws a random 4-byte UID from r. 00000000 is skipped because
// some readers choke on it.
func RandomUID(r io.Reader) ([]byte, error) {
	uid := make([]byte, 4)
	for {
		if _, err := io.ReadFull(r, uid); err != nil {
			return nil, fmt.Errorf("random uid: %w", err)
		}
		for _, b := range uid {
			if b != 0 {
				return uid, nil
			}
		}
	}
}

func isHexDigit(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'f':
		return true
	case r >= 'A' && r <= 'F':
		return true
	}
	return false
}
