package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"memorizer/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestMemoRowRepo_ListByFile(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewMemoRowRepo(db)

	rows := sqlmock.NewRows([]string{"id", "memo_file_id", "word", "translation", "flag"}).
		AddRow(0, "f1", "cat", "кот", false).
		AddRow(1, "f1", "dog", "пёс", true)

	mock.ExpectQuery("SELECT id, memo_file_id, word, translation, flag FROM memo_rows WHERE memo_file_id = \\$1 ORDER BY id").
		WithArgs("f1").
		WillReturnRows(rows)

	memoRows, err := repo.ListByFile("f1")

	assert.NoError(t, err)
	assert.Len(t, memoRows, 2)
	assert.Equal(t, "dog", memoRows[1].Word)
	assert.True(t, memoRows[1].Flag)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoRowRepo_ListByFile_ScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewMemoRowRepo(db)

	// Create rows with wrong column type to cause scan error
	rows := sqlmock.NewRows([]string{"id", "memo_file_id", "word", "translation", "flag"}).
		AddRow("invalid", "f1", "cat", "кот", false)

	mock.ExpectQuery("SELECT id, memo_file_id").
		WithArgs("f1").
		WillReturnRows(rows)

	memoRows, err := repo.ListByFile("f1")

	assert.Error(t, err)
	assert.Nil(t, memoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoRowRepo_AppendRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewMemoRowRepo(db)

	input := []domain.RowInput{
		{Word: "cat", Translation: "кот"},
		{Word: "dog", Translation: "пёс", Flag: true},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM memo_files WHERE id = \\$1 FOR UPDATE").
		WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("f1"))
	mock.ExpectQuery("SELECT COALESCE\\(MAX\\(id\\) \\+ 1, 0\\) FROM memo_rows").
		WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(5))
	prep := mock.ExpectPrepare("INSERT INTO memo_rows")
	prep.ExpectExec().WithArgs("f1", 5, "cat", "кот", false).WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs("f1", 6, "dog", "пёс", true).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE memo_files SET updated_at").
		WithArgs("f1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := repo.AppendRows("f1", input)

	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoRowRepo_AppendRows_FileMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewMemoRowRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM memo_files").
		WithArgs("f1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	n, err := repo.AppendRows("f1", []domain.RowInput{{Word: "cat", Translation: "кот"}})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoRowRepo_AppendRows_InsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewMemoRowRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM memo_files").
		WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("f1"))
	mock.ExpectQuery("SELECT COALESCE").
		WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(0))
	prep := mock.ExpectPrepare("INSERT INTO memo_rows")
	prep.ExpectExec().WithArgs("f1", 0, "cat", "кот", false).WillReturnError(fmt.Errorf("duplicate key"))
	mock.ExpectRollback()

	_, err = repo.AppendRows("f1", []domain.RowInput{{Word: "cat", Translation: "кот"}})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoRowRepo_AppendRows_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewMemoRowRepo(db)

	n, err := repo.AppendRows("f1", nil)

	assert.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoRowRepo_SetFlag(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewMemoRowRepo(db)

	mock.ExpectExec("UPDATE memo_rows SET flag = \\$3 WHERE memo_file_id = \\$1 AND id = \\$2").
		WithArgs("f1", 4, true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.SetFlag("f1", 4, true)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoRowRepo_CountByFile(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewMemoRowRepo(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM memo_rows").
		WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(14))

	count, err := repo.CountByFile("f1")

	assert.NoError(t, err)
	assert.Equal(t, 14, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
