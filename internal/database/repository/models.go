package repository

import "time"

// Scan represents a tag presented to the reader.
type Scan struct {
	ID        string
	TagName   string
	UID       string
	State     string
	ScannedAt time.Time
}

// Attempt represents one write of block 0 and, once the tag has been
// presented again, whether the clone was confirmed.
type Attempt struct {
	ID          string
	SourceUID   string
	Block0      string
	KeyType     string
	TagName     string
	TagUID      string
	Result      string
	StatusCode  int
	Confirmed   *bool
	CreatedAt   time.Time
	ConfirmedAt *time.Time
}
