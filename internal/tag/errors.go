package tag

import "errors"

var (
	ErrKeyLength   = errors.New("tag: key must be 6 bytes")
	ErrUnknownTag  = errors.New("tag: no such tag in field")
	ErrBadTagEntry = errors.New("tag: invalid tag entry")
)
