package repository

import (
	"context"
	"database/sql"
	"time"
)

const attemptColumns = "id, source_uid, block0, key_type, tag_name, tag_uid, result, status_code, confirmed, created_at, confirmed_at"

// AttemptRepo handles clone attempts.
type AttemptRepo struct {
	db *sql.DB
}

func NewAttemptRepo(db *sql.DB) *AttemptRepo { return &AttemptRepo{db: db} }

func (r *AttemptRepo) Insert(ctx context.Context, a Attempt) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO clone_attempts(
	 id, source_uid, block0, key_type, tag_name, tag_uid, result, status_code, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, a.ID, a.SourceUID, a.Block0, a.KeyType, a.TagName, a.TagUID, a.Result, a.StatusCode)
	return err
}

// MarkConfirmed records the outcome of the confirmation scan.
func (r *AttemptRepo) MarkConfirmed(ctx context.Context, id string, ok bool, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE clone_attempts SET confirmed = ?, confirmed_at = ? WHERE id = ?`, ok, at, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *AttemptRepo) Get(ctx context.Context, id string) (*Attempt, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+attemptColumns+` FROM clone_attempts WHERE id = ?`, id)
	a, err := scanAttempt(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// ListRecent returns up to limit attempts, newest first.
func (r *AttemptRepo) ListRecent(ctx context.Context, limit int) ([]Attempt, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+attemptColumns+` FROM clone_attempts ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAttempt(row scanner) (Attempt, error) {
	var a Attempt
	var confirmed sql.NullBool
	var confirmedAt sql.NullTime
	if err := row.Scan(&a.ID, &a.SourceUID, &a.Block0, &a.KeyType, &a.TagName, &a.TagUID,
		&a.Result, &a.StatusCode, &confirmed, &a.CreatedAt, &confirmedAt); err != nil {
		return Attempt{}, err
	}
	if confirmed.Valid {
		a.Confirmed = &confirmed.Bool
	}
	if confirmedAt.Valid {
		a.ConfirmedAt = &confirmedAt.Time
	}
	return a, nil
}
