package service

import (
	"strings"

	"memorizer/internal/domain"
	"memorizer/internal/repository"
)

// AuthService handles authentication and user settings
type AuthService struct {
	userRepo     repository.UserRepository
	botPassword  string
	demoPassword string
}

// NewAuthService creates a new auth service.
// An empty demoPassword disables demo access.
func NewAuthService(userRepo repository.UserRepository, botPassword, demoPassword string) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		botPassword:  botPassword,
		demoPassword: demoPassword,
	}
}

// CheckPassword verifies the password and tells whether it grants demo access
func (s *AuthService) CheckPassword(password string) (ok bool, demo bool) {
	if password == "" {
		return false, false
	}
	if password == s.botPassword {
		return true, false
	}
	if s.demoPassword != "" && password == s.demoPassword {
		return true, true
	}
	return false, false
}

// IsAuthorized checks if user is authorized
func (s *AuthService) IsAuthorized(userID int64) (bool, error) {
	return s.userRepo.IsAuthorized(userID)
}

// AuthorizeUser authorizes a user
func (s *AuthService) AuthorizeUser(userID int64, demo bool) error {
	return s.userRepo.AuthorizeUser(userID, demo)
}

// EnsureUserExists creates user record if doesn't exist
func (s *AuthService) EnsureUserExists(userID int64, name string) error {
	return s.userRepo.EnsureUserExists(userID, name)
}

// GetUser returns the user with settings
func (s *AuthService) GetUser(userID int64) (*domain.User, error) {
	return s.userRepo.GetUser(userID)
}

// SetEmail stores the contact email of the user
func (s *AuthService) SetEmail(userID int64, email string) error {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return domain.ErrEmptyInput
	}
	return s.userRepo.UpdateSettings(userID, domain.UserSettings{Email: &email})
}

// ToggleTranslationByDefault flips which side of a card is asked first
func (s *AuthService) ToggleTranslationByDefault(userID int64) (bool, error) {
	user, err := s.userRepo.GetUser(userID)
	if err != nil {
		return false, err
	}

	value := !user.TranslationByDefault
	if err := s.userRepo.UpdateSettings(userID, domain.UserSettings{TranslationByDefault: &value}); err != nil {
		return false, err
	}
	return value, nil
}

// SetRandomize stores whether cards are drawn randomly
func (s *AuthService) SetRandomize(userID int64, randomize bool) error {
	return s.userRepo.UpdateSettings(userID, domain.UserSettings{Randomize: &randomize})
}
