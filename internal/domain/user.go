package domain

import "time"

// User represents a bot user
type User struct {
	UserID               int64
	Email                string
	Name                 string
	ActiveMemoFileID     *string
	TranslationByDefault bool
	Demo                 bool
	Randomize            bool
	Authorized           bool
	CreatedAt            time.Time
}

// HasActiveMemoFile reports whether the user picked a memo file to study
func (u *User) HasActiveMemoFile() bool {
	return u.ActiveMemoFileID != nil && *u.ActiveMemoFileID != ""
}

// UserSettings is a partial update of user settings, nil fields are left untouched
type UserSettings struct {
	Email                *string
	TranslationByDefault *bool
	Randomize            *bool
}

// IsEmpty reports whether the update changes nothing
func (s UserSettings) IsEmpty() bool {
	return s.Email == nil && s.TranslationByDefault == nil && s.Randomize == nil
}

// UserState represents user's current interaction state
type UserState string

const (
	StateIdle               UserState = "idle"
	StateWaitingPassword    UserState = "waiting_password"
	StateWaitingFileName    UserState = "waiting_file_name"
	StateWaitingRename      UserState = "waiting_rename"
	StateWaitingWord        UserState = "waiting_word"
	StateWaitingTranslation UserState = "waiting_translation"
	StateWaitingFrom        UserState = "waiting_from"
	StateWaitingTo          UserState = "waiting_to"
	StateWaitingEmail       UserState = "waiting_email"
)

// StateData holds temporary data for user's current state
type StateData struct {
	State       UserState
	CurrentWord string
	MemoFileID  string // file being renamed
}
