// Package clone is the UID cloning workflow for magic gen2 tags.
//
// The workflow is a three-state machine driven from outside: the operator
// calculates block 0, presents a magic tag to have it written, and presents
// it once more to confirm the clone. Transition is pure; everything that has
// to happen in the world (writing the tag, logging, notifying the operator)
// comes back as Effect values for the caller to carry out.
package clone

import (
	"github.com/jask/uidclone/internal/block0"
	"github.com/jask/uidclone/internal/tag"
)

// State is the position in the cloning workflow.
type State int

const (
	StateInitial State = iota
	StateBlock0Computed
	StateCloned
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateBlock0Computed:
		return "block0_computed"
	case StateCloned:
		return "cloned"
	default:
		return "unknown"
	}
}

// Session is the whole workflow state. It is a value: Transition returns a
// new Session and never modifies the one it was given.
type Session struct {
	State State

	// Gen numbers block 0 calculations. Write effects and their results
	// carry it, so a result can be matched to the request that caused it.
	Gen uint64

	// Set once block 0 has been calculated.
	UID     []byte
	Block0  block0.Block
	Key     tag.Key
	UseKeyB bool
}

// NewSession returns a session in the initial state.
func NewSession() Session {
	return Session{State: StateInitial}
}

// UIDHex returns the source UID as uppercase hex.
func (s Session) UIDHex() string {
	return block0.FormatHex(s.UID)
}

// restart returns an initial session that keeps the calculation counter, so
// results of writes requested before the restart stay recognisably stale.
func (s Session) restart() Session {
	next := NewSession()
	next.Gen = s.Gen
	return next
}

func (s Session) clone() Session {
	out := s
	if s.UID != nil {
		out.UID = append([]byte(nil), s.UID...)
	}
	return out
}
