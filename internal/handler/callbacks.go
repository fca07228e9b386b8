package handler

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"memorizer/internal/domain"
	"memorizer/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Prefixes of dynamic callback data
const (
	prefixFile          = "file_"
	prefixRename        = "fren_"
	prefixDelete        = "fdel_"
	prefixDeleteConfirm = "fdok_"
	prefixExport        = "fexp_"
	prefixPage          = "pg_"
	prefixPageWindow    = "pgw_"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	// The message already shows this content, e.g. after a double tap
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	// Always acknowledge callback before sending new message
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// show edits the message of a callback or sends a new one for commands
func (h *Handler) show(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() == nil {
		return c.Send(text, markup)
	}

	if err := c.Edit(text, markup); err != nil {
		if handleErr := h.handleEditError(err, c, c.Sender().ID); handleErr == nil {
			return nil // Message was already modified, just acknowledged
		}
		return c.Send(text, markup)
	}
	return c.Respond()
}

// fail reports an error to the user, unexpected errors are logged
func (h *Handler) fail(c tele.Context, err error, action string) error {
	text := userMessage(err)
	if text == "" {
		h.logger.Error("Failed to "+action,
			zap.Error(err),
			zap.Int64("user_id", c.Sender().ID),
		)
		text = middleware.FailureMsg
	}

	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
	}
	return c.Send(text)
}

// userMessage explains expected errors, it is empty for unexpected ones
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoActiveMemoFile):
		return "Choose or create a memo file first: /files"
	case errors.Is(err, domain.ErrReadOnly):
		return "The demo account cannot change memo files."
	case errors.Is(err, domain.ErrNotFound):
		return "Memo file not found."
	case errors.Is(err, domain.ErrEmptyInput):
		return "Nothing to save, the input is empty."
	case errors.Is(err, domain.ErrRowOutOfRange):
		return "Row number is outside the selected pages."
	}
	return ""
}

// handleCallback handles callbacks of dynamic buttons
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	h.logger.Debug("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	switch {
	case strings.HasPrefix(data, prefixFile):
		return h.handleSelectFile(c, strings.TrimPrefix(data, prefixFile))
	case strings.HasPrefix(data, prefixRename):
		return h.handleAskRename(c, strings.TrimPrefix(data, prefixRename))
	case strings.HasPrefix(data, prefixDeleteConfirm):
		return h.handleDeleteFile(c, strings.TrimPrefix(data, prefixDeleteConfirm))
	case strings.HasPrefix(data, prefixDelete):
		return h.handleAskDelete(c, strings.TrimPrefix(data, prefixDelete))
	case strings.HasPrefix(data, prefixExport):
		return h.handleExportFile(c, strings.TrimPrefix(data, prefixExport))
	case strings.HasPrefix(data, prefixPageWindow):
		start, err := strconv.Atoi(strings.TrimPrefix(data, prefixPageWindow))
		if err != nil {
			return c.Respond(&tele.CallbackResponse{Text: "Invalid page"})
		}
		return h.handlePageWindow(c, start)
	case strings.HasPrefix(data, prefixPage):
		page, err := strconv.Atoi(strings.TrimPrefix(data, prefixPage))
		if err != nil {
			return c.Respond(&tele.CallbackResponse{Text: "Invalid page"})
		}
		return h.handleTogglePage(c, page)
	}

	// If it's not handled, acknowledge it anyway
	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}
