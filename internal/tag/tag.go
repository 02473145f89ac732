// Package tag defines the tag reader/writer collaborator used by the clone
// workflow, together with a simulated MIFARE Classic 1K tag and an RF field
// of such tags backed by a TOML file.
package tag

import "context"

// Status is the raw result code of a block write.
type Status int

const (
	StatusOK         Status = 0
	StatusAuthFailed Status = 4
	StatusError      Status = -1
)

// Tag is a MIFARE Classic tag currently in the field of a reader.
//
// Tags that hold a reader connection may also implement io.Closer; callers
// close them once they are done writing.
type Tag interface {
	UID() UID
	WriteBlock(ctx context.Context, sector, block int, data []byte, key Key, useKeyB bool) Status
}
