package clone

import (
	"github.com/jask/uidclone/internal/block0"
	"github.com/jask/uidclone/internal/tag"
)

// Event is something that happened outside the workflow.
type Event interface{ isEvent() }

// Calculate asks for block 0 to be built from the form.
type Calculate struct{ Form Form }

// TagScanned reports a tag entering the reader field.
type TagScanned struct{ UID tag.UID }

// WriteFinished carries the outcome of a Write effect.
type WriteFinished struct{ Result WriteResult }

// Reset drops any calculated block 0 and returns to the initial state.
type Reset struct{}

func (Calculate) isEvent()     {}
func (TagScanned) isEvent()    {}
func (WriteFinished) isEvent() {}
func (Reset) isEvent()         {}

// Effect is work the caller has to carry out after a transition.
type Effect interface{ isEffect() }

// Log appends a line to the status log.
type Log struct{ Text string }

// Notice shows a short-lived message to the operator.
type Notice struct{ Text string }

// FillUID replaces the content of the UID input.
type FillUID struct{ UID string }

// HideOptions collapses the block 0 tail and key options.
type HideOptions struct{}

// Write requests block 0 to be written to the tag in the field.
type Write struct {
	Block0  block0.Block
	Key     tag.Key
	UseKeyB bool
	// UIDLen is the length of the UID block 0 was built from. The target
	// tag must have a UID of the same length.
	UIDLen int
	// Gen is the Session.Gen of the calculation this write belongs to.
	Gen uint64
}

func (Log) isEffect()         {}
func (Notice) isEffect()      {}
func (FillUID) isEffect()     {}
func (HideOptions) isEffect() {}
func (Write) isEffect()       {}
