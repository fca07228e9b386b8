package handler

import (
	"memorizer/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const mainMenuText = "🏠 Main menu\n\nChoose an action:"

const helpText = `📖 How it works

/files – your memo files, pick one to study
/new – create a memo file
/study – go through the cards
/pages – choose pages, row range and flagged rows
/export – download the active memo file as CSV
/settings – question side, email
/email – set your email
/cancel – stop the current input

Send a CSV file (word,translation per line) to import rows into the active memo file.
Any other text adds a row: first the word, then its translation.`

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	// Ensure user exists in database
	if err := h.authService.EnsureUserExists(userID, middleware.SenderName(c.Sender())); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return c.Send(middleware.FailureMsg)
	}

	// Check if authorized
	authorized, err := h.authService.IsAuthorized(userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(middleware.FailureMsg)
	}

	h.ResetState(userID)
	if !authorized {
		return c.Send(middleware.PasswordPrompt)
	}

	return h.show(c, mainMenuText, mainMenuMarkup())
}

// handleHelp handles /help command
func (h *Handler) handleHelp(c tele.Context) error {
	return c.Send(helpText, mainMenuMarkup())
}

// handleCancel cancels current input and resets state
func (h *Handler) handleCancel(c tele.Context) error {
	h.ResetState(c.Sender().ID)
	return h.show(c, mainMenuText, mainMenuMarkup())
}
