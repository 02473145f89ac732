package clone

import (
	"errors"
	"fmt"

	"github.com/jask/uidclone/internal/block0"
	"github.com/jask/uidclone/internal/tag"
)

// Transition applies ev to s and returns the next session together with the
// effects the caller must carry out, in order.
func Transition(s Session, ev Event) (Session, []Effect) {
	switch e := ev.(type) {
	case Calculate:
		return calculate(s, e.Form)
	case TagScanned:
		return scanned(s, e.UID)
	case WriteFinished:
		return writeFinished(s, e.Result)
	case Reset:
		return s.restart(), nil
	}
	return s, nil
}

func calculate(s Session, f Form) (Session, []Effect) {
	req, err := f.Parse()
	if err != nil {
		return s, []Effect{Notice{Text: noticeFor(err)}}
	}
	next := Session{
		State:   StateBlock0Computed,
		Gen:     s.Gen + 1,
		UID:     req.UID,
		Block0:  req.Block0,
		Key:     req.Key,
		UseKeyB: req.UseKeyB,
	}
	return next, []Effect{
		Log{Text: fmt.Sprintf("Block 0 calculated (%s)", req.Block0)},
		Log{Text: "Waiting for a magic gen2 tag. Hold it to the reader to write block 0."},
		HideOptions{},
	}
}

func scanned(s Session, uid tag.UID) (Session, []Effect) {
	switch s.State {
	case StateInitial:
		return s, []Effect{
			FillUID{UID: uid.String()},
			Log{Text: fmt.Sprintf("Using UID of scanned tag (%s)", uid)},
		}
	case StateBlock0Computed:
		return s, []Effect{
			Log{Text: fmt.Sprintf("Tag detected (%s), writing block 0 with key %s", uid, tag.KeyName(s.UseKeyB))},
			Write{Block0: s.Block0, Key: s.Key, UseKeyB: s.UseKeyB, UIDLen: len(s.UID), Gen: s.Gen},
		}
	case StateCloned:
		effects := []Effect{Log{Text: "Checking the UID of the cloned tag"}}
		got := uid.Bytes()
		if ConfirmClone(s.UID, got) {
			return s.restart(), append(effects, Log{Text: fmt.Sprintf("UID %s cloned successfully", uid)})
		}
		next := s.clone()
		next.State = StateBlock0Computed
		return next, append(effects,
			Log{Text: fmt.Sprintf("UIDs do not match (%s <-> %s, %d hex digits differ)",
				s.UIDHex(), block0.FormatHex(got), uidDistance(s.UID, got))},
			Log{Text: "Cloning failed. Present a magic tag to try again."},
		)
	}
	return s, nil
}

func writeFinished(s Session, r WriteResult) (Session, []Effect) {
	// A result that arrives after the operator recalculated or reset
	// belongs to a request that no longer exists.
	if s.State != StateBlock0Computed || r.Gen != s.Gen {
		return s, nil
	}
	switch r.Outcome {
	case WriteSuccess:
		next := s.clone()
		next.State = StateCloned
		return next, []Effect{
			Log{Text: "Block 0 written without errors"},
			Log{Text: "Present the tag again to check the cloned UID"},
		}
	case WriteAuthFailed:
		return s, []Effect{Log{Text: fmt.Sprintf("Authentication failed: key %s is not correct for block 0", tag.KeyName(s.UseKeyB))}}
	case WriteIOError:
		return s, []Effect{
			Notice{Text: "Error while writing block 0. Is this a magic gen2 tag?"},
			Log{Text: "Cloning failed"},
		}
	case WriteLengthMismatch:
		return s, []Effect{Log{Text: fmt.Sprintf("UID length of the tag (%d bytes) does not match the original UID (%d bytes)", r.TagUIDLen, len(s.UID))}}
	default:
		return s, []Effect{Log{Text: fmt.Sprintf("Write returned unrecognised status %d; block 0 may not have been written", int(r.Code))}}
	}
}

func noticeFor(err error) string {
	switch {
	case errors.Is(err, block0.ErrNotHex):
		return "Invalid input: only hex digits (0-9, A-F) are allowed"
	case errors.Is(err, tag.ErrKeyLength):
		return "The write key must be 6 bytes (12 hex digits)"
	case errors.Is(err, block0.ErrInvalidLength):
		return "The UID must be 4, 7 or 10 bytes (8, 14 or 20 hex digits)"
	case errors.Is(err, block0.ErrInsufficientTail):
		return "The rest of block 0 is too short for this UID"
	default:
		return err.Error()
	}
}
