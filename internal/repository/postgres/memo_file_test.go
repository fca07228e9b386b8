package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"memorizer/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

const (
	fileID1 = "3f0c6f52-9d8e-4a43-9a3e-2b7c1d6f1a01"
	fileID2 = "3f0c6f52-9d8e-4a43-9a3e-2b7c1d6f1a02"
)

func TestMemoFileRepo_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewMemoFileRepo(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "count", "created_at", "updated_at"}).
		AddRow(fileID1, 123, "animals", 40, now, now).
		AddRow(fileID2, 123, "verbs", 0, now, now)

	mock.ExpectQuery("SELECT f.id, f.user_id, f.name, COUNT\\(r.id\\)").
		WithArgs(int64(123)).
		WillReturnRows(rows)

	files, err := repo.ListByUser(123)

	assert.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Equal(t, "animals", files[0].Name)
	assert.Equal(t, 40, files[0].RowsCount)
	assert.Equal(t, 0, files[1].RowsCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoFileRepo_ListByUser_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewMemoFileRepo(db)

	mock.ExpectQuery("SELECT f.id").
		WithArgs(int64(123)).
		WillReturnError(fmt.Errorf("query error"))

	files, err := repo.ListByUser(123)

	assert.Error(t, err)
	assert.Nil(t, files)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoFileRepo_Get(t *testing.T) {
	tests := []struct {
		name          string
		mockRows      *sqlmock.Rows
		mockError     error
		expectedError error
	}{
		{
			name: "found",
			mockRows: sqlmock.NewRows([]string{"id", "user_id", "name", "count", "created_at", "updated_at"}).
				AddRow(fileID1, 123, "animals", 3, time.Now(), time.Now()),
		},
		{
			name:          "not found",
			mockError:     sql.ErrNoRows,
			expectedError: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewMemoFileRepo(db)

			query := "SELECT f.id, f.user_id, f.name"
			if tt.mockError != nil {
				mock.ExpectQuery(query).WithArgs(fileID1).WillReturnError(tt.mockError)
			} else {
				mock.ExpectQuery(query).WithArgs(fileID1).WillReturnRows(tt.mockRows)
			}

			file, err := repo.Get(fileID1)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, file)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, int64(123), file.UserID)
				assert.Equal(t, 3, file.RowsCount)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMemoFileRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewMemoFileRepo(db)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO memo_files").
		WithArgs(fileID1, int64(123), "animals").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	file := &domain.MemoFile{ID: fileID1, UserID: 123, Name: "animals"}
	err = repo.Create(file)

	assert.NoError(t, err)
	assert.Equal(t, now, file.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoFileRepo_Rename(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewMemoFileRepo(db)

	mock.ExpectExec("UPDATE memo_files SET name = \\$2").
		WithArgs(fileID1, "pets").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE memo_files SET name = \\$2").
		WithArgs(fileID2, "pets").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Rename(fileID1, "pets"))
	assert.ErrorIs(t, repo.Rename(fileID2, "pets"), domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoFileRepo_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewMemoFileRepo(db)

	mock.ExpectExec("DELETE FROM memo_files WHERE id = \\$1").
		WithArgs(fileID1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Delete(fileID1)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoFileRepo_MalformedID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewMemoFileRepo(db)

	for _, id := range []string{"", "f1", "not-a-uuid", "'; DROP TABLE memo_files; --"} {
		file, err := repo.Get(id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, file)
		assert.ErrorIs(t, repo.Rename(id, "pets"), domain.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(id), domain.ErrNotFound)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}
