package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"memorizer/internal/domain"
	"memorizer/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const maxImportSize = 1 << 20

// filesView renders the memo file list, the active file is marked
func filesView(files []domain.MemoFile, activeID string) (string, *tele.ReplyMarkup) {
	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}

	var sb strings.Builder
	if len(files) == 0 {
		sb.WriteString("📂 You have no memo files yet.")
	} else {
		sb.WriteString("📂 Your memo files:\n")
		for _, f := range files {
			label := fmt.Sprintf("%s (%d)", f.Name, f.RowsCount)
			if f.ID == activeID {
				label = "✅ " + label
			}
			rows = append(rows, markup.Row(
				markup.Data(label, prefixFile+f.ID),
				markup.Data("✏️", prefixRename+f.ID),
				markup.Data("📤", prefixExport+f.ID),
				markup.Data("🗑", prefixDelete+f.ID),
			))
		}
	}

	rows = append(rows, markup.Row(btnNewFile), markup.Row(btnBack))
	markup.Inline(rows...)
	return sb.String(), markup
}

// handleFiles shows memo files of the user
func (h *Handler) handleFiles(c tele.Context) error {
	return h.sendFiles(c, "")
}

func (h *Handler) sendFiles(c tele.Context, notice string) error {
	userID := c.Sender().ID

	files, err := h.memoFileService.List(userID)
	if err != nil {
		return h.fail(c, err, "list memo files")
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		return h.fail(c, err, "load user")
	}

	activeID := ""
	if user.HasActiveMemoFile() {
		activeID = *user.ActiveMemoFileID
	}

	text, markup := filesView(files, activeID)
	if notice != "" {
		text = notice + "\n\n" + text
	}
	return h.show(c, text, markup)
}

// handleNewFile asks for the name of a new memo file, /new <name> creates it at once
func (h *Handler) handleNewFile(c tele.Context) error {
	if c.Callback() == nil {
		if name := strings.TrimSpace(c.Message().Payload); name != "" {
			return h.createFile(c, name)
		}
	}

	h.SetState(c.Sender().ID, &domain.StateData{State: domain.StateWaitingFileName})
	return h.show(c, "Send the name of the new memo file", cancelMarkup())
}

func (h *Handler) createFile(c tele.Context, name string) error {
	userID := c.Sender().ID

	file, err := h.memoFileService.Create(userID, name)
	if err != nil {
		return h.fail(c, err, "create memo file")
	}

	h.ResetState(userID)
	h.studyService.Invalidate(userID)
	return c.Send(fmt.Sprintf("✅ Memo file «%s» created and selected.\n\nSend words to fill it or upload a CSV file.", file.Name),
		mainMenuMarkup())
}

// handleSelectFile makes a memo file active
func (h *Handler) handleSelectFile(c tele.Context, fileID string) error {
	userID := c.Sender().ID

	file, err := h.memoFileService.SetActive(userID, fileID)
	if err != nil {
		return h.fail(c, err, "select memo file")
	}

	h.studyService.Invalidate(userID)
	return h.show(c, fmt.Sprintf("📚 «%s» selected, %d rows.\n\n%s", file.Name, file.RowsCount, mainMenuText), mainMenuMarkup())
}

func (h *Handler) handleAskRename(c tele.Context, fileID string) error {
	userID := c.Sender().ID

	file, err := h.memoFileService.Get(userID, fileID)
	if err != nil {
		return h.fail(c, err, "load memo file")
	}

	h.SetState(userID, &domain.StateData{State: domain.StateWaitingRename, MemoFileID: file.ID})
	return h.show(c, fmt.Sprintf("Send a new name for «%s»", file.Name), cancelMarkup())
}

func (h *Handler) handleAskDelete(c tele.Context, fileID string) error {
	file, err := h.memoFileService.Get(c.Sender().ID, fileID)
	if err != nil {
		return h.fail(c, err, "load memo file")
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("🗑 Delete", prefixDeleteConfirm+file.ID),
		btnFiles,
	))
	return h.show(c, fmt.Sprintf("Delete «%s» with all %d rows?", file.Name, file.RowsCount), markup)
}

func (h *Handler) handleDeleteFile(c tele.Context, fileID string) error {
	userID := c.Sender().ID

	if err := h.memoFileService.Delete(userID, fileID); err != nil {
		return h.fail(c, err, "delete memo file")
	}

	h.studyService.Invalidate(userID)
	return h.sendFiles(c, "🗑 Deleted.")
}

// handleExport sends the active memo file as CSV
func (h *Handler) handleExport(c tele.Context) error {
	file, err := h.memoFileService.Active(c.Sender().ID)
	if err != nil {
		return h.fail(c, err, "load active memo file")
	}
	return h.handleExportFile(c, file.ID)
}

func (h *Handler) handleExportFile(c tele.Context, fileID string) error {
	file, data, err := h.memoFileService.ExportCSV(c.Sender().ID, fileID)
	if err != nil {
		return h.fail(c, err, "export memo file")
	}

	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(data)),
		FileName: file.Name + ".csv",
		MIME:     "text/csv",
	}
	if c.Callback() != nil {
		c.Respond()
	}
	return c.Send(doc)
}

// handleDocument imports an uploaded CSV into the active memo file
func (h *Handler) handleDocument(c tele.Context) error {
	userID := c.Sender().ID
	doc := c.Message().Document
	if doc == nil {
		return nil
	}

	if doc.FileSize > maxImportSize {
		return c.Send("The file is too large, the limit is 1 MB.")
	}

	file, err := h.memoFileService.Active(userID)
	if err != nil {
		return h.fail(c, err, "load active memo file")
	}

	reader, err := h.bot.File(&doc.File)
	if err != nil {
		return h.fail(c, err, "download document")
	}
	defer reader.Close()

	data, err := io.ReadAll(io.LimitReader(reader, maxImportSize+1))
	if err != nil {
		return h.fail(c, err, "read document")
	}

	imported, skipped, err := h.memoFileService.ImportCSV(userID, file.ID, data)
	if errors.Is(err, service.ErrInvalidCSV) || errors.Is(err, domain.ErrEmptyInput) {
		h.logger.Warn("CSV import rejected",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.String("file_name", doc.FileName),
		)
		return c.Send("Could not read rows from the file. Send a CSV with word and translation columns.")
	}
	if err != nil {
		return h.fail(c, err, "import csv")
	}

	h.studyService.Invalidate(userID)
	return c.Send(fmt.Sprintf("✅ Imported %d rows into «%s», skipped %d lines.", imported, file.Name, skipped),
		mainMenuMarkup())
}
