package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"memorizer/internal/domain"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// EnsureUserExists creates user if not exists
func (r *UserRepo) EnsureUserExists(userID int64, name string) error {
	query := `
		INSERT INTO users (user_id, name, authorized)
		VALUES ($1, $2, FALSE)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.Exec(query, userID, name)
	return err
}

// IsAuthorized checks if user is authorized
func (r *UserRepo) IsAuthorized(userID int64) (bool, error) {
	var authorized bool
	query := `SELECT authorized FROM users WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&authorized)

	if errors.Is(err, sql.ErrNoRows) {
		// User doesn't exist yet
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return authorized, nil
}

// AuthorizeUser marks user as authorized, demo users get read-only access
func (r *UserRepo) AuthorizeUser(userID int64, demo bool) error {
	query := `
		INSERT INTO users (user_id, authorized, demo)
		VALUES ($1, TRUE, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET authorized = TRUE, demo = $2
	`
	_, err := r.db.Exec(query, userID, demo)
	return err
}

// GetUser returns the user with all settings
func (r *UserRepo) GetUser(userID int64) (*domain.User, error) {
	var u domain.User
	var activeMemoFileID sql.NullString
	query := `
		SELECT user_id, email, name, active_memo_file_id, translation_by_default,
			demo, randomize, authorized, created_at
		FROM users
		WHERE user_id = $1
	`
	err := r.db.QueryRow(query, userID).Scan(
		&u.UserID, &u.Email, &u.Name, &activeMemoFileID, &u.TranslationByDefault,
		&u.Demo, &u.Randomize, &u.Authorized, &u.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if activeMemoFileID.Valid {
		u.ActiveMemoFileID = &activeMemoFileID.String
	}

	return &u, nil
}

// UpdateSettings updates only the settings present in the update
func (r *UserRepo) UpdateSettings(userID int64, settings domain.UserSettings) error {
	if settings.IsEmpty() {
		return nil
	}

	var sets []string
	args := []interface{}{userID}

	if settings.Email != nil {
		args = append(args, *settings.Email)
		sets = append(sets, fmt.Sprintf("email = $%d", len(args)))
	}
	if settings.TranslationByDefault != nil {
		args = append(args, *settings.TranslationByDefault)
		sets = append(sets, fmt.Sprintf("translation_by_default = $%d", len(args)))
	}
	if settings.Randomize != nil {
		args = append(args, *settings.Randomize)
		sets = append(sets, fmt.Sprintf("randomize = $%d", len(args)))
	}

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE user_id = $1`
	res, err := r.db.Exec(query, args...)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// SetActiveMemoFile sets or clears the memo file the user studies
func (r *UserRepo) SetActiveMemoFile(userID int64, memoFileID *string) error {
	query := `UPDATE users SET active_memo_file_id = $2 WHERE user_id = $1`

	var id sql.NullString
	if memoFileID != nil {
		id = sql.NullString{String: *memoFileID, Valid: true}
	}

	res, err := r.db.Exec(query, userID, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
