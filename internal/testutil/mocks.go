package testutil

import (
	"memorizer/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) EnsureUserExists(userID int64, name string) error {
	args := m.Called(userID, name)
	return args.Error(0)
}

func (m *MockUserRepository) IsAuthorized(userID int64) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) AuthorizeUser(userID int64, demo bool) error {
	args := m.Called(userID, demo)
	return args.Error(0)
}

func (m *MockUserRepository) GetUser(userID int64) (*domain.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateSettings(userID int64, settings domain.UserSettings) error {
	args := m.Called(userID, settings)
	return args.Error(0)
}

func (m *MockUserRepository) SetActiveMemoFile(userID int64, memoFileID *string) error {
	args := m.Called(userID, memoFileID)
	return args.Error(0)
}

// MockMemoFileRepository is a mock for MemoFileRepository
type MockMemoFileRepository struct {
	mock.Mock
}

func (m *MockMemoFileRepository) ListByUser(userID int64) ([]domain.MemoFile, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MemoFile), args.Error(1)
}

func (m *MockMemoFileRepository) Get(id string) (*domain.MemoFile, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MemoFile), args.Error(1)
}

func (m *MockMemoFileRepository) Create(file *domain.MemoFile) error {
	args := m.Called(file)
	return args.Error(0)
}

func (m *MockMemoFileRepository) Rename(id, name string) error {
	args := m.Called(id, name)
	return args.Error(0)
}

func (m *MockMemoFileRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockMemoRowRepository is a mock for MemoRowRepository
type MockMemoRowRepository struct {
	mock.Mock
}

func (m *MockMemoRowRepository) ListByFile(memoFileID string) ([]domain.MemoRow, error) {
	args := m.Called(memoFileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MemoRow), args.Error(1)
}

func (m *MockMemoRowRepository) AppendRows(memoFileID string, rows []domain.RowInput) (int, error) {
	args := m.Called(memoFileID, rows)
	return args.Int(0), args.Error(1)
}

func (m *MockMemoRowRepository) SetFlag(memoFileID string, id int, flag bool) error {
	args := m.Called(memoFileID, id, flag)
	return args.Error(0)
}

func (m *MockMemoRowRepository) CountByFile(memoFileID string) (int, error) {
	args := m.Called(memoFileID)
	return args.Int(0), args.Error(1)
}
