package handler

import (
	"strconv"
	"strings"

	"memorizer/internal/domain"
	"memorizer/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	// Ensure user exists
	if err := h.authService.EnsureUserExists(userID, middleware.SenderName(c.Sender())); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return nil
	}

	// Check authorization first
	authorized, err := h.authService.IsAuthorized(userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(middleware.FailureMsg)
	}

	if !authorized {
		return h.handlePassword(c, text)
	}

	state := h.GetState(userID)

	switch state.State {
	case domain.StateWaitingFileName:
		return h.createFile(c, text)

	case domain.StateWaitingRename:
		if err := h.memoFileService.Rename(userID, state.MemoFileID, text); err != nil {
			return h.fail(c, err, "rename memo file")
		}
		h.ResetState(userID)
		h.studyService.Invalidate(userID)
		return h.sendFiles(c, "✅ Renamed.")

	case domain.StateWaitingTranslation:
		word := state.CurrentWord
		file, err := h.memoFileService.AddRow(userID, word, text)
		if err != nil {
			return h.fail(c, err, "save memo row")
		}

		h.logger.Info("Memo row saved",
			zap.Int64("user_id", userID),
			zap.String("memo_file_id", file.ID),
		)

		h.studyService.Invalidate(userID)
		h.SetState(userID, &domain.StateData{State: domain.StateWaitingWord})
		return c.Send("✅ Saved to «"+file.Name+"».\n\nSend the next word or /cancel", mainMenuMarkup())

	case domain.StateWaitingFrom, domain.StateWaitingTo:
		n, err := strconv.Atoi(text)
		if err != nil {
			return c.Send("Send a row number, for example 15", cancelMarkup())
		}

		if state.State == domain.StateWaitingFrom {
			_, err = h.studyService.SetFrom(userID, n)
		} else {
			_, err = h.studyService.SetTo(userID, n)
		}
		if err != nil {
			return h.fail(c, err, "set row range")
		}

		h.ResetState(userID)
		return h.handlePages(c)

	case domain.StateWaitingEmail:
		if err := h.authService.SetEmail(userID, text); err != nil {
			return h.fail(c, err, "save email")
		}
		h.ResetState(userID)
		return h.handleSettings(c)

	default:
		// Idle or waiting for a word: start row input flow
		h.SetState(userID, &domain.StateData{
			State:       domain.StateWaitingTranslation,
			CurrentWord: text,
		})
		return c.Send("Now send the translation", cancelMarkup())
	}
}

// handlePassword authorizes the user when the password matches
func (h *Handler) handlePassword(c tele.Context, password string) error {
	userID := c.Sender().ID

	ok, demo := h.authService.CheckPassword(password)
	if !ok {
		return c.Send("Wrong password")
	}

	if err := h.authService.AuthorizeUser(userID, demo); err != nil {
		h.logger.Error("Failed to authorize user", zap.Error(err))
		return c.Send(middleware.FailureMsg)
	}

	h.logger.Info("User authorized", zap.Int64("user_id", userID), zap.Bool("demo", demo))
	h.ResetState(userID)

	greeting := "✅ Access granted!"
	if demo {
		greeting = "✅ Demo access granted, memo files are read-only."
	}
	return c.Send(greeting+"\n\n"+mainMenuText, mainMenuMarkup())
}

// handleAddRow starts the row input flow
func (h *Handler) handleAddRow(c tele.Context) error {
	if _, err := h.memoFileService.Active(c.Sender().ID); err != nil {
		return h.fail(c, err, "load active memo file")
	}

	h.SetState(c.Sender().ID, &domain.StateData{State: domain.StateWaitingWord})
	return h.show(c, "Send a word to add", cancelMarkup())
}
