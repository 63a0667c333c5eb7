package user

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"library-lending/internal/pkg/errs"
)

var (
	ErrInvalidEmail = errs.New("invalid email format")
	ErrInvalidRole  = errs.New("invalid role")
	ErrEmptyName    = errs.New("name cannot be empty")
	ErrNameTooLong  = errs.New("name exceeds maximum length")
)

const MaxNameLength = 120

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type Email struct {
	value string
}

func NewEmail(s string) (Email, error) {
	s = strings.TrimSpace(s)
	if !emailRegex.MatchString(s) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: strings.ToLower(s)}, nil
}

func (e Email) Value() string {
	return e.value
}

type Name struct {
	value string
}

func NewName(s string) (Name, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Name{}, ErrEmptyName
	}
	if utf8.RuneCountInString(s) > MaxNameLength {
		return Name{}, ErrNameTooLong
	}
	return Name{value: s}, nil
}

func (n Name) String() string {
	return n.value
}

// ReconstructEmail and ReconstructName wrap stored values without re-validating them.
func ReconstructEmail(s string) Email { return Email{value: s} }

func ReconstructName(s string) Name { return Name{value: s} }
