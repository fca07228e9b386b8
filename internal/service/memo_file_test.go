package service

import (
	"fmt"
	"testing"

	"memorizer/internal/domain"
	"memorizer/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type memoFileMocks struct {
	users *testutil.MockUserRepository
	files *testutil.MockMemoFileRepository
	rows  *testutil.MockMemoRowRepository
}

func newMemoFileService() (*MemoFileService, memoFileMocks) {
	m := memoFileMocks{
		users: new(testutil.MockUserRepository),
		files: new(testutil.MockMemoFileRepository),
		rows:  new(testutil.MockMemoRowRepository),
	}
	return NewMemoFileService(m.users, m.files, m.rows, testutil.NewTestLogger()), m
}

func (m memoFileMocks) assertExpectations(t *testing.T) {
	m.users.AssertExpectations(t)
	m.files.AssertExpectations(t)
	m.rows.AssertExpectations(t)
}

func TestMemoFileService_Create(t *testing.T) {
	service, m := newMemoFileService()

	m.users.On("GetUser", int64(123)).Return(testutil.NewTestUser(123, ""), nil)
	m.files.On("Create", mock.MatchedBy(func(f *domain.MemoFile) bool {
		return f.UserID == 123 && f.Name == "animals" && len(f.ID) == 36
	})).Return(nil)
	m.users.On("SetActiveMemoFile", int64(123), mock.AnythingOfType("*string")).Return(nil)

	file, err := service.Create(123, "  animals ")

	require.NoError(t, err)
	assert.Equal(t, "animals", file.Name)
	m.assertExpectations(t)
}

func TestMemoFileService_Create_Validation(t *testing.T) {
	tests := []struct {
		name          string
		user          *domain.User
		fileName      string
		expectedError error
	}{
		{
			name:          "empty name",
			user:          testutil.NewTestUser(123, ""),
			fileName:      "   ",
			expectedError: domain.ErrEmptyInput,
		},
		{
			name:          "demo user",
			user:          &domain.User{UserID: 123, Demo: true, Authorized: true},
			fileName:      "animals",
			expectedError: domain.ErrReadOnly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := newMemoFileService()
			m.users.On("GetUser", int64(123)).Return(tt.user, nil)

			file, err := service.Create(123, tt.fileName)

			assert.ErrorIs(t, err, tt.expectedError)
			assert.Nil(t, file)
			m.assertExpectations(t)
		})
	}
}

func TestMemoFileService_Get_ForeignFile(t *testing.T) {
	service, m := newMemoFileService()
	m.files.On("Get", "f1").Return(testutil.NewTestMemoFile("f1", 999, "other", 0), nil)

	file, err := service.Get(123, "f1")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, file)
	m.assertExpectations(t)
}

func TestMemoFileService_Rename(t *testing.T) {
	service, m := newMemoFileService()
	m.users.On("GetUser", int64(123)).Return(testutil.NewTestUser(123, ""), nil)
	m.files.On("Get", "f1").Return(testutil.NewTestMemoFile("f1", 123, "animals", 0), nil)
	m.files.On("Rename", "f1", "pets").Return(nil)

	err := service.Rename(123, "f1", "pets")

	assert.NoError(t, err)
	m.assertExpectations(t)
}

func TestMemoFileService_Delete(t *testing.T) {
	tests := []struct {
		name         string
		activeFileID string
		deactivate   bool
	}{
		{
			name:         "active file",
			activeFileID: "f1",
			deactivate:   true,
		},
		{
			name:         "other file active",
			activeFileID: "f2",
			deactivate:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := newMemoFileService()
			m.users.On("GetUser", int64(123)).Return(testutil.NewTestUser(123, tt.activeFileID), nil)
			m.files.On("Get", "f1").Return(testutil.NewTestMemoFile("f1", 123, "animals", 0), nil)
			if tt.deactivate {
				m.users.On("SetActiveMemoFile", int64(123), (*string)(nil)).Return(nil)
			}
			m.files.On("Delete", "f1").Return(nil)

			err := service.Delete(123, "f1")

			assert.NoError(t, err)
			m.assertExpectations(t)
			if !tt.deactivate {
				m.users.AssertNotCalled(t, "SetActiveMemoFile", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestMemoFileService_Delete_RepoError(t *testing.T) {
	service, m := newMemoFileService()
	m.users.On("GetUser", int64(123)).Return(testutil.NewTestUser(123, ""), nil)
	m.files.On("Get", "f1").Return(testutil.NewTestMemoFile("f1", 123, "animals", 0), nil)
	m.files.On("Delete", "f1").Return(fmt.Errorf("db error"))

	err := service.Delete(123, "f1")

	assert.Error(t, err)
	m.assertExpectations(t)
}

func TestMemoFileService_SetActive(t *testing.T) {
	service, m := newMemoFileService()
	m.files.On("Get", "f1").Return(testutil.NewTestMemoFile("f1", 123, "animals", 3), nil)
	m.users.On("SetActiveMemoFile", int64(123), mock.AnythingOfType("*string")).Return(nil)

	file, err := service.SetActive(123, "f1")

	require.NoError(t, err)
	assert.Equal(t, "animals", file.Name)
	m.assertExpectations(t)
}

func TestMemoFileService_Active(t *testing.T) {
	t.Run("no active file", func(t *testing.T) {
		service, m := newMemoFileService()
		m.users.On("GetUser", int64(123)).Return(testutil.NewTestUser(123, ""), nil)

		_, err := service.Active(123)

		assert.ErrorIs(t, err, domain.ErrNoActiveMemoFile)
		m.assertExpectations(t)
	})

	t.Run("active file deleted", func(t *testing.T) {
		service, m := newMemoFileService()
		m.users.On("GetUser", int64(123)).Return(testutil.NewTestUser(123, "f1"), nil)
		m.files.On("Get", "f1").Return(nil, domain.ErrNotFound)

		_, err := service.Active(123)

		assert.ErrorIs(t, err, domain.ErrNoActiveMemoFile)
		m.assertExpectations(t)
	})
}

func TestMemoFileService_AddRow(t *testing.T) {
	t.Run("valid pair", func(t *testing.T) {
		service, m := newMemoFileService()
		m.users.On("GetUser", int64(123)).Return(testutil.NewTestUser(123, "f1"), nil)
		m.files.On("Get", "f1").Return(testutil.NewTestMemoFile("f1", 123, "animals", 3), nil)
		m.rows.On("AppendRows", "f1", []domain.RowInput{{Word: "cat", Translation: "кот"}}).Return(1, nil)

		file, err := service.AddRow(123, " cat ", "кот")

		require.NoError(t, err)
		assert.Equal(t, "f1", file.ID)
		m.assertExpectations(t)
	})

	t.Run("empty translation", func(t *testing.T) {
		service, m := newMemoFileService()

		_, err := service.AddRow(123, "cat", " ")

		assert.ErrorIs(t, err, domain.ErrEmptyInput)
		m.assertExpectations(t)
	})
}

func TestMemoFileService_ImportCSV(t *testing.T) {
	service, m := newMemoFileService()
	m.users.On("GetUser", int64(123)).Return(testutil.NewTestUser(123, "f1"), nil)
	m.files.On("Get", "f1").Return(testutil.NewTestMemoFile("f1", 123, "animals", 0), nil)
	m.rows.On("AppendRows", "f1", []domain.RowInput{
		{Word: "cat", Translation: "кот"},
		{Word: "dog", Translation: "пёс"},
	}).Return(2, nil)

	imported, skipped, err := service.ImportCSV(123, "f1", []byte("cat,кот\n,\ndog,пёс\n"))

	assert.NoError(t, err)
	assert.Equal(t, 2, imported)
	assert.Equal(t, 1, skipped)
	m.assertExpectations(t)
}

func TestMemoFileService_ImportCSV_NoRows(t *testing.T) {
	service, m := newMemoFileService()
	m.users.On("GetUser", int64(123)).Return(testutil.NewTestUser(123, "f1"), nil)
	m.files.On("Get", "f1").Return(testutil.NewTestMemoFile("f1", 123, "animals", 0), nil)

	_, _, err := service.ImportCSV(123, "f1", []byte("just one column\n"))

	assert.ErrorIs(t, err, domain.ErrEmptyInput)
	m.assertExpectations(t)
}

func TestMemoFileService_ExportCSV(t *testing.T) {
	service, m := newMemoFileService()
	m.files.On("Get", "f1").Return(testutil.NewTestMemoFile("f1", 123, "animals", 1), nil)
	m.rows.On("ListByFile", "f1").Return([]domain.MemoRow{{ID: 0, Word: "cat", Translation: "кот"}}, nil)

	file, data, err := service.ExportCSV(123, "f1")

	require.NoError(t, err)
	assert.Equal(t, "animals", file.Name)
	assert.Contains(t, string(data), "cat,кот,")
	m.assertExpectations(t)
}
