package clone

import (
	"fmt"

	"github.com/jask/uidclone/internal/block0"
	"github.com/jask/uidclone/internal/tag"
)

// Form is the operator input as typed: hex text plus the key selector.
type Form struct {
	UID     string
	Tail    string
	Key     string
	UseKeyB bool
}

// Request is a validated Form with block 0 already assembled.
type Request struct {
	UID     []byte
	Block0  block0.Block
	Key     tag.Key
	UseKeyB bool
}

// Parse validates the form and assembles block 0.
//
// Checks run in a fixed order so the operator always sees the same message
// for the same input: hex digits in every field, then the key length, then
// the UID length, then the length of the block 0 tail.
func (f Form) Parse() (Request, error) {
	// Whitespace is not hex. Input is taken exactly as typed.
	uidText, tailText, keyText := f.UID, f.Tail, f.Key

	if !block0.HexDigits(uidText) || !block0.HexDigits(tailText) || !block0.HexDigits(keyText) {
		return Request{}, block0.ErrNotHex
	}
	if len(keyText) != tag.KeySize*2 {
		return Request{}, fmt.Errorf("%w: got %d hex digits", tag.ErrKeyLength, len(keyText))
	}
	if len(uidText)%2 != 0 || !block0.ValidUIDLen(len(uidText)/2) {
		return Request{}, fmt.Errorf("%w: got %d hex digits", block0.ErrInvalidLength, len(uidText))
	}

	uid, err := block0.ParseHex(uidText)
	if err != nil {
		return Request{}, err
	}
	need, err := block0.TailLen(len(uid))
	if err != nil {
		return Request{}, err
	}
	if len(tailText) < need*2 {
		return Request{}, fmt.Errorf("%w: need %d hex digits, got %d", block0.ErrInsufficientTail, need*2, len(tailText))
	}

	// Only the digits that end up in block 0 have to pair up into bytes:
	// the head of the tail for 4-byte UIDs, the end of it otherwise.
	if len(uid) == 4 {
		tailText = tailText[:need*2]
	} else {
		tailText = tailText[len(tailText)-need*2:]
	}
	tail, err := block0.ParseHex(tailText)
	if err != nil {
		return Request{}, err
	}
	b0, err := block0.Compute(uid, tail)
	if err != nil {
		return Request{}, err
	}
	key, err := tag.ParseKey(keyText)
	if err != nil {
		return Request{}, err
	}
	return Request{UID: uid, Block0: b0, Key: key, UseKeyB: f.UseKeyB}, nil
}
