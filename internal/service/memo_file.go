package service

import (
	"errors"
	"fmt"
	"strings"

	"memorizer/internal/domain"
	"memorizer/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxMemoFileNameLength = 64

// MemoFileService handles memo file management
type MemoFileService struct {
	userRepo repository.UserRepository
	fileRepo repository.MemoFileRepository
	rowRepo  repository.MemoRowRepository
	logger   *zap.Logger
}

// NewMemoFileService creates a new memo file service
func NewMemoFileService(
	userRepo repository.UserRepository,
	fileRepo repository.MemoFileRepository,
	rowRepo repository.MemoRowRepository,
	logger *zap.Logger,
) *MemoFileService {
	return &MemoFileService{
		userRepo: userRepo,
		fileRepo: fileRepo,
		rowRepo:  rowRepo,
		logger:   logger,
	}
}

// List returns memo files of the user
func (s *MemoFileService) List(userID int64) ([]domain.MemoFile, error) {
	return s.fileRepo.ListByUser(userID)
}

// Get returns a memo file owned by the user
func (s *MemoFileService) Get(userID int64, fileID string) (*domain.MemoFile, error) {
	file, err := s.fileRepo.Get(fileID)
	if err != nil {
		return nil, err
	}
	if file.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return file, nil
}

// Create creates a memo file and makes it active
func (s *MemoFileService) Create(userID int64, name string) (*domain.MemoFile, error) {
	if err := s.ensureWritable(userID); err != nil {
		return nil, err
	}

	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	file := &domain.MemoFile{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
	}
	if err := s.fileRepo.Create(file); err != nil {
		return nil, fmt.Errorf("failed to create memo file: %w", err)
	}

	if err := s.userRepo.SetActiveMemoFile(userID, &file.ID); err != nil {
		return nil, fmt.Errorf("failed to activate memo file: %w", err)
	}

	s.logger.Info("Memo file created",
		zap.Int64("user_id", userID),
		zap.String("memo_file_id", file.ID),
	)
	return file, nil
}

// Rename changes the name of a memo file
func (s *MemoFileService) Rename(userID int64, fileID, name string) error {
	if err := s.ensureWritable(userID); err != nil {
		return err
	}

	name, err := cleanName(name)
	if err != nil {
		return err
	}

	if _, err := s.Get(userID, fileID); err != nil {
		return err
	}
	return s.fileRepo.Rename(fileID, name)
}

// Delete removes a memo file and deactivates it if it was active
func (s *MemoFileService) Delete(userID int64, fileID string) error {
	if err := s.ensureWritable(userID); err != nil {
		return err
	}

	if _, err := s.Get(userID, fileID); err != nil {
		return err
	}

	user, err := s.userRepo.GetUser(userID)
	if err != nil {
		return err
	}
	if user.HasActiveMemoFile() && *user.ActiveMemoFileID == fileID {
		if err := s.userRepo.SetActiveMemoFile(userID, nil); err != nil {
			return fmt.Errorf("failed to deactivate memo file: %w", err)
		}
	}

	if err := s.fileRepo.Delete(fileID); err != nil {
		return fmt.Errorf("failed to delete memo file: %w", err)
	}

	s.logger.Info("Memo file deleted",
		zap.Int64("user_id", userID),
		zap.String("memo_file_id", fileID),
	)
	return nil
}

// SetActive selects the memo file the user studies
func (s *MemoFileService) SetActive(userID int64, fileID string) (*domain.MemoFile, error) {
	file, err := s.Get(userID, fileID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SetActiveMemoFile(userID, &file.ID); err != nil {
		return nil, err
	}
	return file, nil
}

// Active returns the active memo file of the user
func (s *MemoFileService) Active(userID int64) (*domain.MemoFile, error) {
	user, err := s.userRepo.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if !user.HasActiveMemoFile() {
		return nil, domain.ErrNoActiveMemoFile
	}

	file, err := s.Get(userID, *user.ActiveMemoFileID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoActiveMemoFile
	}
	return file, err
}

// AddRow appends a word-translation pair to the active memo file
func (s *MemoFileService) AddRow(userID int64, word, translation string) (*domain.MemoFile, error) {
	word = strings.TrimSpace(word)
	translation = strings.TrimSpace(translation)
	if word == "" || translation == "" {
		return nil, fmt.Errorf("word and translation cannot be empty: %w", domain.ErrEmptyInput)
	}

	if err := s.ensureWritable(userID); err != nil {
		return nil, err
	}

	file, err := s.Active(userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.rowRepo.AppendRows(file.ID, []domain.RowInput{{Word: word, Translation: translation}}); err != nil {
		return nil, err
	}
	return file, nil
}

// ImportCSV appends the pairs of a CSV document to a memo file.
// Returns the number of imported and skipped lines.
func (s *MemoFileService) ImportCSV(userID int64, fileID string, data []byte) (int, int, error) {
	if err := s.ensureWritable(userID); err != nil {
		return 0, 0, err
	}

	if _, err := s.Get(userID, fileID); err != nil {
		return 0, 0, err
	}

	rows, skipped, err := ParseRowsCSV(data)
	if err != nil {
		return 0, skipped, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}
	if len(rows) == 0 {
		return 0, skipped, fmt.Errorf("no rows in csv: %w", domain.ErrEmptyInput)
	}

	imported, err := s.rowRepo.AppendRows(fileID, rows)
	if err != nil {
		return 0, skipped, err
	}

	s.logger.Info("Memo rows imported",
		zap.Int64("user_id", userID),
		zap.String("memo_file_id", fileID),
		zap.Int("imported", imported),
		zap.Int("skipped", skipped),
	)
	return imported, skipped, nil
}

// ExportCSV renders all rows of a memo file as CSV
func (s *MemoFileService) ExportCSV(userID int64, fileID string) (*domain.MemoFile, []byte, error) {
	file, err := s.Get(userID, fileID)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.rowRepo.ListByFile(fileID)
	if err != nil {
		return nil, nil, err
	}

	data, err := BuildRowsCSV(rows)
	if err != nil {
		return nil, nil, err
	}
	return file, data, nil
}

func (s *MemoFileService) ensureWritable(userID int64) error {
	user, err := s.userRepo.GetUser(userID)
	if err != nil {
		return err
	}
	if user.Demo {
		return domain.ErrReadOnly
	}
	return nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("memo file name cannot be empty: %w", domain.ErrEmptyInput)
	}
	if runes := []rune(name); len(runes) > maxMemoFileNameLength {
		name = string(runes[:maxMemoFileNameLength])
	}
	return name, nil
}
