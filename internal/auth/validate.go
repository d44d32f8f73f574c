package auth

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail reports whether the address looks like an email.
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePassword requires an upper-case letter, a lower-case letter, a
// digit, a special character and at least 6 characters overall.
func ValidatePassword(password string) bool {
	var hasUpper, hasLower, hasDigit, hasSpecial bool

	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case isSpecial(r):
			hasSpecial = true
		}
	}

	return hasUpper && hasLower && hasDigit && hasSpecial && len(password) >= 6
}

func isSpecial(r rune) bool {
	const specials = `!@#$%^&*(),.?":{}|<>`
	for _, s := range specials {
		if r == s {
			return true
		}
	}
	return false
}

// ValidateNickname requires at least 2 characters.
func ValidateNickname(nickname string) bool {
	return utf8.RuneCountInString(nickname) >= 2
}

// ValidateSignup runs all client-side checks before any remote call and
// returns the first violation as a localized error.
func ValidateSignup(email, password, passwordConfirm, nickname string) error {
	if !ValidateEmail(email) {
		return ErrInvalidEmail
	}
	if !ValidatePassword(password) {
		return ErrWeakPassword
	}
	if password != passwordConfirm {
		return ErrPasswordMismatch
	}
	if !ValidateNickname(nickname) {
		return ErrNicknameTooShort
	}
	return nil
}
