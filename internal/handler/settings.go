package handler

import (
	"fmt"

	"memorizer/internal/domain"

	tele "gopkg.in/telebot.v3"
)

// settingsView renders the user settings
func settingsView(user *domain.User) (string, *tele.ReplyMarkup) {
	side := "word"
	if user.TranslationByDefault {
		side = "translation"
	}
	order := "in order"
	if user.Randomize {
		order = "random"
	}
	email := user.Email
	if email == "" {
		email = "not set"
	}

	text := fmt.Sprintf("⚙️ Settings\n\nName: %s\nEmail: %s\nQuestion side: %s\nCard order: %s",
		user.Name, email, side, order)
	if user.Demo {
		text += "\n\nDemo account, memo files are read-only."
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(btnTranslationFirst),
		markup.Row(btnSetEmail),
		markup.Row(btnBack),
	)
	return text, markup
}

// handleSettings shows user settings
func (h *Handler) handleSettings(c tele.Context) error {
	user, err := h.authService.GetUser(c.Sender().ID)
	if err != nil {
		return h.fail(c, err, "load settings")
	}

	text, markup := settingsView(user)
	return h.show(c, text, markup)
}

func (h *Handler) handleToggleTranslationFirst(c tele.Context) error {
	userID := c.Sender().ID

	value, err := h.authService.ToggleTranslationByDefault(userID)
	if err != nil {
		return h.fail(c, err, "update settings")
	}

	h.studyService.SetTranslationFirst(userID, value)
	return h.handleSettings(c)
}

func (h *Handler) handleAskEmail(c tele.Context) error {
	h.SetState(c.Sender().ID, &domain.StateData{State: domain.StateWaitingEmail})
	return h.show(c, "Send your email", cancelMarkup())
}
