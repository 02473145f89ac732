package tui

import (
	"github.com/jask/uidclone/internal/database/repository"
	"github.com/jask/uidclone/internal/service"
)

// writeDoneMsg carries the result of a block 0 write back into Update. err
// is set when the write happened but could not be recorded.
type writeDoneMsg struct {
	report service.WriteReport
	err    error
}

type pasteMsg string

type historyMsg []repository.Attempt

type statusMsg string

type errMsg struct{ error }
