package repository

import (
	"memorizer/internal/domain"
)

// UserRepository defines user data operations
type UserRepository interface {
	EnsureUserExists(userID int64, name string) error
	IsAuthorized(userID int64) (bool, error)
	AuthorizeUser(userID int64, demo bool) error
	GetUser(userID int64) (*domain.User, error)
	UpdateSettings(userID int64, settings domain.UserSettings) error
	SetActiveMemoFile(userID int64, memoFileID *string) error
}

// MemoFileRepository defines memo file data operations
type MemoFileRepository interface {
	ListByUser(userID int64) ([]domain.MemoFile, error)
	Get(id string) (*domain.MemoFile, error)
	Create(file *domain.MemoFile) error
	Rename(id, name string) error
	Delete(id string) error
}

// MemoRowRepository defines memo row data operations
type MemoRowRepository interface {
	ListByFile(memoFileID string) ([]domain.MemoRow, error)
	AppendRows(memoFileID string, rows []domain.RowInput) (int, error)
	SetFlag(memoFileID string, id int, flag bool) error
	CountByFile(memoFileID string) (int, error)
}
