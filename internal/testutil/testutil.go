package testutil

import (
	"fmt"
	"time"

	"memorizer/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates an authorized test user, activeMemoFileID may be empty
func NewTestUser(userID int64, activeMemoFileID string) *domain.User {
	u := &domain.User{
		UserID:     userID,
		Name:       "tester",
		Randomize:  false,
		Authorized: true,
		CreatedAt:  time.Now(),
	}
	if activeMemoFileID != "" {
		u.ActiveMemoFileID = &activeMemoFileID
	}
	return u
}

// NewTestMemoFile creates a test memo file
func NewTestMemoFile(id string, userID int64, name string, rowsCount int) *domain.MemoFile {
	return &domain.MemoFile{
		ID:        id,
		UserID:    userID,
		Name:      name,
		RowsCount: rowsCount,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// NewTestRows creates n rows with dense ids, the listed ids are flagged
func NewTestRows(memoFileID string, n int, flagged ...int) []domain.MemoRow {
	flags := make(map[int]bool, len(flagged))
	for _, id := range flagged {
		flags[id] = true
	}

	rows := make([]domain.MemoRow, n)
	for i := range rows {
		rows[i] = domain.MemoRow{
			ID:          i,
			MemoFileID:  memoFileID,
			Word:        fmt.Sprintf("word%d", i),
			Translation: fmt.Sprintf("translation%d", i),
			Flag:        flags[i],
		}
	}
	return rows
}
