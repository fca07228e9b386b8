package postgres

import (
	"database/sql"
	"errors"

	"memorizer/internal/domain"

	"github.com/google/uuid"
)

// MemoFileRepo implements repository.MemoFileRepository
type MemoFileRepo struct {
	db *sql.DB
}

// NewMemoFileRepo creates a new memo file repository
func NewMemoFileRepo(db *sql.DB) *MemoFileRepo {
	return &MemoFileRepo{db: db}
}

// ListByUser returns memo files of the user with their row counts, ordered by name
func (r *MemoFileRepo) ListByUser(userID int64) ([]domain.MemoFile, error) {
	query := `
		SELECT f.id, f.user_id, f.name, COUNT(r.id), f.created_at, f.updated_at
		FROM memo_files f
		LEFT JOIN memo_rows r ON r.memo_file_id = f.id
		WHERE f.user_id = $1
		GROUP BY f.id
		ORDER BY f.name, f.created_at
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []domain.MemoFile
	for rows.Next() {
		var f domain.MemoFile
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.RowsCount, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	return files, rows.Err()
}

// Get returns a memo file by id
func (r *MemoFileRepo) Get(id string) (*domain.MemoFile, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}

	var f domain.MemoFile
	query := `
		SELECT f.id, f.user_id, f.name,
			(SELECT COUNT(*) FROM memo_rows r WHERE r.memo_file_id = f.id),
			f.created_at, f.updated_at
		FROM memo_files f
		WHERE f.id = $1
	`
	err := r.db.QueryRow(query, id).Scan(&f.ID, &f.UserID, &f.Name, &f.RowsCount, &f.CreatedAt, &f.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &f, nil
}

// Create inserts a memo file, the id is chosen by the caller
func (r *MemoFileRepo) Create(file *domain.MemoFile) error {
	query := `
		INSERT INTO memo_files (id, user_id, name)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(query, file.ID, file.UserID, file.Name).Scan(&file.CreatedAt, &file.UpdatedAt)
}

// Rename changes the name of a memo file
func (r *MemoFileRepo) Rename(id, name string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	query := `UPDATE memo_files SET name = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.Exec(query, id, name)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// Delete removes a memo file together with its rows
func (r *MemoFileRepo) Delete(id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	query := `DELETE FROM memo_files WHERE id = $1`
	res, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// validID reports whether id can be compared with the UUID id column
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
