package block0

import "errors"

var (
	ErrNotHex           = errors.New("block0: not hex data")
	ErrInvalidLength    = errors.New("block0: uid must be 4, 7 or 10 bytes")
	ErrInsufficientTail = errors.New("block0: rest of block 0 too short")
)
