package user

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxNameLength = 100

var (
	ErrInvalidName  = errors.New("invalid display name")
	ErrInvalidEmail = errors.New("invalid email")
	ErrEmailTaken   = errors.New("email already registered")
	ErrOwnerExists  = errors.New("owner already exists")
)

// User is a pool participant. Points is derived from predictions and only
// written by the recompute.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Points       int
	IsAdmin      bool
	IsOwner      bool
	IsVerified   bool
	Token        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) Principal() Principal {
	return Principal{
		UserID:  u.ID,
		IsAdmin: u.IsAdmin || u.IsOwner,
		IsOwner: u.IsOwner,
	}
}

// NormalizeName trims the display name and checks its length.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n == 0 {
		return "", fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if n > MaxNameLength {
		return "", fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, MaxNameLength)
	}
	return name, nil
}

// NormalizeEmail lower-cases the address so uniqueness is case-insensitive.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidEmail)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return email, nil
}
