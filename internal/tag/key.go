package tag

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// KeySize is the length of a MIFARE Classic sector key.
const KeySize = 6

// Key is a MIFARE Classic key A or key B.
type Key [KeySize]byte

// ParseKey decodes a 12 digit hex key.
func ParseKey(s string) (Key, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %v", ErrKeyLength, err)
	}
	return KeyFromBytes(raw)
}

// KeyFromBytes copies b into a Key. b must be exactly six bytes long.
func KeyFromBytes(b []byte) (Key, error) {
	var k Key
	if len(b) != KeySize {
		return k, fmt.Errorf("%w: got %d", ErrKeyLength, len(b))
	}
	copy(k[:], b)
	return k, nil
}

func (k Key) String() string {
	return strings.ToUpper(hex.EncodeToString(k[:]))
}

// KeyName returns "A" or "B" for the key selector used in writes.
func KeyName(useKeyB bool) string {
	if useKeyB {
		return "B"
	}
	return "A"
}
