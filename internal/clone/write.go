package clone

import (
	"context"
	"fmt"
	"io"

	"github.com/jask/uidclone/internal/tag"
)

// Outcome classifies the result of writing block 0.
type Outcome int

const (
	WriteSuccess Outcome = iota
	WriteAuthFailed
	WriteIOError
	WriteLengthMismatch
	// WriteUnknown is a status code the tag layer does not document. It is
	// never treated as success.
	WriteUnknown
)

func (o Outcome) String() string {
	switch o {
	case WriteSuccess:
		return "success"
	case WriteAuthFailed:
		return "auth_failed"
	case WriteIOError:
		return "io_error"
	case WriteLengthMismatch:
		return "length_mismatch"
	default:
		return "unknown"
	}
}

// WriteResult is the classified outcome of a Write effect.
type WriteResult struct {
	Outcome Outcome
	// Code is the raw status from the tag. Zero for length mismatches,
	// which never reach the tag.
	Code tag.Status
	// TagUIDLen is the UID length the target tag reported.
	TagUIDLen int
	// Gen is copied from the Write that produced the result.
	Gen uint64
}

func (r WriteResult) OK() bool { return r.Outcome == WriteSuccess }

func (r WriteResult) String() string {
	if r.Outcome == WriteUnknown {
		return fmt.Sprintf("unknown (status %d)", int(r.Code))
	}
	return r.Outcome.String()
}

// Classify maps a raw tag status to an outcome.
func Classify(st tag.Status) Outcome {
	switch st {
	case tag.StatusOK:
		return WriteSuccess
	case tag.StatusAuthFailed:
		return WriteAuthFailed
	case tag.StatusError:
		return WriteIOError
	default:
		return WriteUnknown
	}
}

// WriteBlock0 writes w.Block0 to sector 0, block 0 of t.
//
// The write is refused before touching the tag when the tag's UID length
// differs from the UID block 0 was built for. Tags implementing io.Closer
// are closed after a successful write.
func WriteBlock0(ctx context.Context, t tag.Tag, w Write) WriteResult {
	uidLen := t.UID().Len()
	if uidLen != w.UIDLen {
		return WriteResult{Outcome: WriteLengthMismatch, TagUIDLen: uidLen, Gen: w.Gen}
	}

	st := t.WriteBlock(ctx, 0, 0, w.Block0[:], w.Key, w.UseKeyB)
	res := WriteResult{Outcome: Classify(st), Code: st, TagUIDLen: uidLen, Gen: w.Gen}
	if res.OK() {
		if c, ok := t.(io.Closer); ok {
			_ = c.Close()
		}
	}
	return res
}
