package validate

import (
	"regexp"
	"strings"
)

var (
	reID       = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reUsername = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)
	reURL      = regexp.MustCompile(`^https?://[^\s]{1,500}$`)
)

// ID validates a simple resource identifier (listing/category ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUsername.MatchString(s)
}

// Password enforces a simple length window for login checks.
func Password(s string) bool {
	l := len(s)
	return l >= 8 && l <= 64
}

// Title validates a displayable listing title.
func Title(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 64 {
		return "", false
	}
	return s, true
}

// ImageURL validates an optional image reference; empty is allowed.
func ImageURL(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	return s, reURL.MatchString(s)
}

// CategoryName validates the category form value.
func CategoryName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 64 {
		return "", false
	}
	return s, true
}
