package repository

import (
	"context"
	"database/sql"
)

// ScanRepo handles the scan log.
type ScanRepo struct {
	db *sql.DB
}

func NewScanRepo(db *sql.DB) *ScanRepo { return &ScanRepo{db: db} }

func (r *ScanRepo) Insert(ctx context.Context, s Scan) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO scans(id, tag_name, uid, state, scanned_at)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, s.ID, s.TagName, s.UID, s.State)
	return err
}

// ListRecent returns up to limit scans, newest first.
func (r *ScanRepo) ListRecent(ctx context.Context, limit int) ([]Scan, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, tag_name, uid, state, scanned_at FROM scans ORDER BY scanned_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Scan
	for rows.Next() {
		var s Scan
		if err := rows.Scan(&s.ID, &s.TagName, &s.UID, &s.State, &s.ScannedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
