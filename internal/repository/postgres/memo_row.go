package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"memorizer/internal/domain"
)

// MemoRowRepo implements repository.MemoRowRepository
type MemoRowRepo struct {
	db *sql.DB
}

// NewMemoRowRepo creates a new memo row repository
func NewMemoRowRepo(db *sql.DB) *MemoRowRepo {
	return &MemoRowRepo{db: db}
}

// ListByFile returns all rows of a memo file ordered by id
func (r *MemoRowRepo) ListByFile(memoFileID string) ([]domain.MemoRow, error) {
	query := `
		SELECT id, memo_file_id, word, translation, flag
		FROM memo_rows
		WHERE memo_file_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(query, memoFileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memoRows []domain.MemoRow
	for rows.Next() {
		var m domain.MemoRow
		if err := rows.Scan(&m.ID, &m.MemoFileID, &m.Word, &m.Translation, &m.Flag); err != nil {
			return nil, err
		}
		memoRows = append(memoRows, m)
	}

	return memoRows, rows.Err()
}

// AppendRows adds rows to the end of a memo file.
// Ids continue from the current last row so they stay dense.
func (r *MemoRowRepo) AppendRows(memoFileID string, rows []domain.RowInput) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	// Lock the file so concurrent appends do not pick the same ids
	var lockedID string
	err = tx.QueryRow(`SELECT id FROM memo_files WHERE id = $1 FOR UPDATE`, memoFileID).Scan(&lockedID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	var nextID int
	err = tx.QueryRow(`SELECT COALESCE(MAX(id) + 1, 0) FROM memo_rows WHERE memo_file_id = $1`, memoFileID).Scan(&nextID)
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO memo_rows (memo_file_id, id, word, translation, flag)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.Exec(memoFileID, nextID+i, row.Word, row.Translation, row.Flag); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", nextID+i, err)
		}
	}

	if _, err := tx.Exec(`UPDATE memo_files SET updated_at = NOW() WHERE id = $1`, memoFileID); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return len(rows), nil
}

// SetFlag marks or unmarks a row
func (r *MemoRowRepo) SetFlag(memoFileID string, id int, flag bool) error {
	query := `UPDATE memo_rows SET flag = $3 WHERE memo_file_id = $1 AND id = $2`
	res, err := r.db.Exec(query, memoFileID, id, flag)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// CountByFile returns the number of rows in a memo file
func (r *MemoRowRepo) CountByFile(memoFileID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM memo_rows WHERE memo_file_id = $1`
	err := r.db.QueryRow(query, memoFileID).Scan(&count)
	return count, err
}
