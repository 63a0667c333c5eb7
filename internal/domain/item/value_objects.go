package item

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength  = 255
	MaxAuthorLength = 255
	MaxGenreLength  = 100
)

type Title struct {
	value string
}

func NewTitle(s string) (Title, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return Title{}, ErrEmptyTitle
	}
	if utf8.RuneCountInString(t) > MaxTitleLength {
		return Title{}, ErrTitleTooLong
	}
	return Title{value: t}, nil
}

func (t Title) String() string { return t.value }

type Author struct {
	value string
}

func NewAuthor(s string) (Author, error) {
	a := strings.TrimSpace(s)
	if a == "" {
		return Author{}, ErrEmptyAuthor
	}
	if utf8.RuneCountInString(a) > MaxAuthorLength {
		return Author{}, ErrAuthorTooLong
	}
	return Author{value: a}, nil
}

func (a Author) String() string { return a.value }

// Genre is optional; the empty genre is valid.
type Genre struct {
	value string
}

func NewGenre(s string) (Genre, error) {
	g := strings.TrimSpace(s)
	if utf8.RuneCountInString(g) > MaxGenreLength {
		return Genre{}, ErrGenreTooLong
	}
	return Genre{value: g}, nil
}

func (g Genre) String() string { return g.value }

// ReconstructTitle, ReconstructAuthor and ReconstructGenre wrap values already validated
// before they were stored.
func ReconstructTitle(s string) Title { return Title{value: s} }

func ReconstructAuthor(s string) Author { return Author{value: s} }

func ReconstructGenre(s string) Genre { return Genre{value: s} }
