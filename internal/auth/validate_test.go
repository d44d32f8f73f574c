package auth

import (
	"errors"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@b.co", true},
		{"user.name+tag@example.com", true},
		{"not-an-email", false},
		{"", false},
		{"a b@c.co", false},
		{"a@b", false},
	}

	for _, tt := range tests {
		if got := ValidateEmail(tt.email); got != tt.want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Abcdef1!", true},
		{"abcdef", false},          // missing upper, digit, special
		{"ABCDEF1!", false},        // missing lower
		{"Abcdefg!", false},        // missing digit
		{"Abcdef12", false},        // missing special
		{"Ab1!", false},            // too short
		{`Xy9"long enough`, true},  // quote counts as special
	}

	for _, tt := range tests {
		if got := ValidatePassword(tt.password); got != tt.want {
			t.Errorf("ValidatePassword(%q) = %v, want %v", tt.password, got, tt.want)
		}
	}
}

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		name                      string
		email, pw, confirm, nick  string
		wantErr                   error
	}{
		{"valid", "a@b.co", "Abcdef1!", "Abcdef1!", "길동", nil},
		{"bad email", "nope", "Abcdef1!", "Abcdef1!", "길동", ErrInvalidEmail},
		{"weak password", "a@b.co", "abcdef", "abcdef", "길동", ErrWeakPassword},
		{"mismatch", "a@b.co", "Abcdef1!", "Abcdef2!", "길동", ErrPasswordMismatch},
		{"short nickname", "a@b.co", "Abcdef1!", "Abcdef1!", "김", ErrNicknameTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignup(tt.email, tt.pw, tt.confirm, tt.nick)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSignup() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	if got := Message(ErrEmailInUse); got != "이미 사용 중인 이메일입니다." {
		t.Errorf("Message(ErrEmailInUse) = %q", got)
	}
	if got := Message(ErrWrongPassword); got != "비밀번호가 올바르지 않습니다." {
		t.Errorf("Message(ErrWrongPassword) = %q", got)
	}

	// Wrapped errors must still resolve to their localized text.
	wrapped := errors.Join(errors.New("context"), ErrNotVerified)
	if got := Message(wrapped); got != "이메일 인증이 완료되지 않았습니다. 메일함을 확인해주세요." {
		t.Errorf("Message(wrapped ErrNotVerified) = %q", got)
	}

	if got := Message(errors.New("boom")); got != "요청 처리 중 오류가 발생했습니다." {
		t.Errorf("Message(unknown) = %q", got)
	}
}
