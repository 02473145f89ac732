package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jask/uidclone/internal/block0"
	"github.com/jask/uidclone/internal/clone"
	"github.com/jask/uidclone/internal/database"
	"github.com/jask/uidclone/internal/database/repository"
	"github.com/jask/uidclone/internal/tag"
)

// Cloner carries out the tag side of the clone workflow and keeps the
// history of scans and writes.
type Cloner struct {
	Scans    *repository.ScanRepo
	Attempts *repository.AttemptRepo
	// Field, when set, is saved after every successful write so virtual
	// tags keep their new UID.
	Field *tag.Field
	Log   *slog.Logger
}

// WriteReport is the outcome of Write.
type WriteReport struct {
	AttemptID string
	Result    clone.WriteResult
}

func (c *Cloner) logger() *slog.Logger {
	if c.Log == nil {
		return slog.Default().With("component", "cloner")
	}
	return c.Log
}

// RecordScan stores a tag presentation.
func (c *Cloner) RecordScan(ctx context.Context, name string, uid tag.UID, state clone.State) error {
	c.logger().Info("tag scanned", "tag", name, "uid", uid.String(), "state", state.String())
	if c.Scans == nil {
		return nil
	}
	if err := c.Scans.Insert(ctx, repository.Scan{
		ID:      uuid.NewString(),
		TagName: name,
		UID:     uid.String(),
		State:   state.String(),
	}); err != nil {
		return fmt.Errorf("record scan: %w", err)
	}
	return nil
}

// Write writes block 0 to t and records the attempt. The returned report
// is valid even when recording or saving the field fails.
func (c *Cloner) Write(ctx context.Context, t tag.Tag, name string, w clone.Write) (WriteReport, error) {
	log := c.logger()
	tagUID := t.UID()
	res := clone.WriteBlock0(ctx, t, w)
	rep := WriteReport{AttemptID: uuid.NewString(), Result: res}

	log.Info("block 0 written",
		"tag", name,
		"tag_uid", tagUID.String(),
		"block0", w.Block0.String(),
		"key", tag.KeyName(w.UseKeyB),
		"result", res.String(),
	)

	// The tag has changed by now, so the attempt is recorded and the field
	// saved even if the other step fails.
	recErr := c.recordAttempt(ctx, rep, name, tagUID, w)
	var saveErr error
	if res.OK() && c.Field != nil {
		if err := c.Field.Save(); err != nil {
			log.Error("save field failed", "error", err)
			saveErr = fmt.Errorf("save tags: %w", err)
		}
	}
	return rep, errors.Join(recErr, saveErr)
}

func (c *Cloner) recordAttempt(ctx context.Context, rep WriteReport, name string, tagUID tag.UID, w clone.Write) error {
	if c.Attempts == nil {
		return nil
	}
	res := rep.Result
	srcLen := w.UIDLen
	if srcLen < 0 || srcLen > block0.Size {
		srcLen = 0
	}
	if err := c.Attempts.Insert(ctx, repository.Attempt{
		ID:         rep.AttemptID,
		SourceUID:  block0.FormatHex(w.Block0[:srcLen]),
		Block0:     w.Block0.String(),
		KeyType:    tag.KeyName(w.UseKeyB),
		TagName:    name,
		TagUID:     tagUID.String(),
		Result:     res.Outcome.String(),
		StatusCode: int(res.Code),
	}); err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

// Confirm stores the outcome of the confirmation scan for an attempt.
func (c *Cloner) Confirm(ctx context.Context, attemptID string, ok bool) error {
	c.logger().Info("clone checked", "attempt", attemptID, "confirmed", ok)
	if c.Attempts == nil || attemptID == "" {
		return nil
	}
	if err := c.Attempts.MarkConfirmed(ctx, attemptID, ok, database.Now()); err != nil {
		return fmt.Errorf("confirm attempt %s: %w", attemptID, err)
	}
	return nil
}

// History returns the most recent attempts, newest first.
func (c *Cloner) History(ctx context.Context, limit int) ([]repository.Attempt, error) {
	if c.Attempts == nil {
		return nil, nil
	}
	return c.Attempts.ListRecent(ctx, limit)
}
