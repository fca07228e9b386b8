package domain

import "time"

// MemoFile is a deck of memo rows owned by a user
type MemoFile struct {
	ID        string
	UserID    int64
	Name      string
	RowsCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MemoRow is a single card of a memo file.
// ID is the zero-based position of the row inside its file, ids are dense.
type MemoRow struct {
	ID          int
	MemoFileID  string
	Word        string
	Translation string
	Flag        bool
}

// Front returns the side shown before the answer is revealed
func (r MemoRow) Front(translationFirst bool) string {
	if translationFirst {
		return r.Translation
	}
	return r.Word
}

// Back returns the side shown after reveal
func (r MemoRow) Back(translationFirst bool) string {
	if translationFirst {
		return r.Word
	}
	return r.Translation
}

// RowInput is a word-translation pair to be appended to a memo file
type RowInput struct {
	Word        string
	Translation string
	Flag        bool
}
