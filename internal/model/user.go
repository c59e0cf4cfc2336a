package model

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

// User represents an account in the catalog
type User struct {
	ID             uuid.UUID   `json:"_id"`
	Username       string      `json:"Username"`
	Password       string      `json:"-"` // bcrypt hash, never plaintext
	Email          string      `json:"Email"`
	Birthday       *time.Time  `json:"Birthday,omitempty"`
	FavoriteMovies []uuid.UUID `json:"FavoriteMovies"`
}

// UserInput carries the caller-supplied fields of a new User.
// Password is plaintext here and only here.
type UserInput struct {
	Username       string      `json:"Username" validate:"required"`
	Password       string      `json:"Password" validate:"required"`
	Email          string      `json:"Email" validate:"required"`
	Birthday       *time.Time  `json:"Birthday"`
	FavoriteMovies []uuid.UUID `json:"FavoriteMovies"`
}

// NewUser validates in, hashes the password and returns a User with a fresh ID.
// FavoriteMovies is never nil on the result.
func NewUser(in UserInput) (*User, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	favorites := slices.Clone(in.FavoriteMovies)
	if favorites == nil {
		favorites = []uuid.UUID{}
	}

	return &User{
		ID:             uuid.New(),
		Username:       in.Username,
		Password:       hashed,
		Email:          in.Email,
		Birthday:       in.Birthday,
		FavoriteMovies: favorites,
	}, nil
}

// SetPassword replaces the stored hash with the hash of password.
func (u *User) SetPassword(password string) error {
	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return nil
}

// ValidatePassword checks password against the stored hash.
func (u *User) ValidatePassword(password string) (bool, error) {
	return VerifyPassword(password, u.Password)
}

// HasFavorite reports whether movieID is in the favorites list.
func (u *User) HasFavorite(movieID uuid.UUID) bool {
	return slices.Contains(u.FavoriteMovies, movieID)
}

// AddFavorite appends movieID unless it is already present.
// It reports whether the list changed.
func (u *User) AddFavorite(movieID uuid.UUID) bool {
	if u.HasFavorite(movieID) {
		return false
	}
	u.FavoriteMovies = append(u.FavoriteMovies, movieID)
	return true
}

// RemoveFavorite drops every occurrence of movieID and reports whether the list changed.
func (u *User) RemoveFavorite(movieID uuid.UUID) bool {
	n := len(u.FavoriteMovies)
	u.FavoriteMovies = slices.DeleteFunc(u.FavoriteMovies, func(id uuid.UUID) bool { return id == movieID })
	return len(u.FavoriteMovies) != n
}

// UpdateUserInput holds optional changes to a User; nil fields are left alone.
type UpdateUserInput struct {
	Username *string    `json:"Username"`
	Password *string    `json:"Password"`
	Email    *string    `json:"Email"`
	Birthday *time.Time `json:"Birthday"`
}

// Apply validates the change set and writes it onto u.
// Setting a required field to "" is a validation failure; a new password is hashed.
// u is left untouched when an error is returned.
func (in UpdateUserInput) Apply(u *User) error {
	var missing []string
	if in.Username != nil && *in.Username == "" {
		missing = append(missing, "Username")
	}
	if in.Password != nil && *in.Password == "" {
		missing = append(missing, "Password")
	}
	if in.Email != nil && *in.Email == "" {
		missing = append(missing, "Email")
	}
	if len(missing) > 0 {
		return newValidationError(missing...)
	}

	hashed := u.Password
	if in.Password != nil {
		h, err := HashPassword(*in.Password)
		if err != nil {
			return err
		}
		hashed = h
	}

	u.Password = hashed
	if in.Username != nil {
		u.Username = *in.Username
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Birthday != nil {
		u.Birthday = in.Birthday
	}
	return nil
}

// IsEmpty reports whether the change set carries no fields.
func (in UpdateUserInput) IsEmpty() bool {
	return in.Username == nil && in.Password == nil && in.Email == nil && in.Birthday == nil
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when attempting to create a user with a taken username
	ErrUsernameExists = errors.New("username already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoChanges is returned when an update carries no fields
	ErrNoChanges = errors.New("no fields to update")
)
