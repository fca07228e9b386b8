package middleware

import (
	"strings"

	"memorizer/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Replies shared with the handlers
const (
	FailureMsg     = "Something went wrong. Try again later."
	PasswordPrompt = "Hi! Enter the password to continue:"
)

// SenderName returns a display name of the Telegram user
func SenderName(u *tele.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Username
	}
	return name
}

// AuthMiddleware creates authentication middleware
func AuthMiddleware(authService *service.AuthService, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			userID := c.Sender().ID

			if err := authService.EnsureUserExists(userID, SenderName(c.Sender())); err != nil {
				logger.Error("Failed to ensure user exists in middleware", zap.Error(err))
				return c.Send(FailureMsg)
			}

			authorized, err := authService.IsAuthorized(userID)
			if err != nil {
				logger.Error("Failed to check authorization in middleware", zap.Error(err))
				return c.Send(FailureMsg)
			}

			if !authorized {
				if c.Callback() != nil {
					_ = c.Respond()
				}
				return c.Send(PasswordPrompt)
			}

			return next(c)
		}
	}
}
