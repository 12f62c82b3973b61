package util

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxFileNameLength caps sanitized upload names, counted in runes.
const MaxFileNameLength = 128

var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName flattens an uploaded job description name into a single
// path segment. Separators become underscores, control characters are dropped,
// and traversal patterns are rejected.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, strings.TrimSpace(name))
	if s == "" {
		return "", ErrInvalidFileName
	}
	if utf8.RuneCountInString(s) > MaxFileNameLength {
		s = string([]rune(s)[:MaxFileNameLength])
	}
	return s, nil
}
