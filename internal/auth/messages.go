package auth

import "errors"

var (
	// ErrEmailInUse is returned when the email is already registered
	ErrEmailInUse = errors.New("email already in use")
	// ErrInvalidEmail is returned when the email address is malformed
	ErrInvalidEmail = errors.New("invalid email")
	// ErrWeakPassword is returned when the password fails the strength rules
	ErrWeakPassword = errors.New("weak password")
	// ErrPasswordMismatch is returned when the confirmation does not match
	ErrPasswordMismatch = errors.New("password mismatch")
	// ErrNicknameTooShort is returned when the nickname is under 2 characters
	ErrNicknameTooShort = errors.New("nickname too short")
	// ErrNetworkFailure is returned when the backing store is unreachable
	ErrNetworkFailure = errors.New("network request failed")
	// ErrUnauthorizedContinueURL is returned when the verification link
	// configuration is rejected
	ErrUnauthorizedContinueURL = errors.New("unauthorized continue url")
	// ErrUserNotFound is returned when no account exists for the email
	ErrUserNotFound = errors.New("user not found")
	// ErrWrongPassword is returned when the password does not match
	ErrWrongPassword = errors.New("wrong password")
	// ErrTooManyRequests is returned when sign-in attempts are throttled
	ErrTooManyRequests = errors.New("too many requests")
	// ErrNotVerified is returned when the account email was never verified
	ErrNotVerified = errors.New("email not verified")
	// ErrInvalidToken is returned for unknown or expired verification tokens
	ErrInvalidToken = errors.New("invalid or expired verification token")
)

// messages maps the auth error taxonomy to user-facing Korean text.
var messages = map[error]string{
	ErrEmailInUse:              "이미 사용 중인 이메일입니다.",
	ErrInvalidEmail:            "유효하지 않은 이메일입니다.",
	ErrWeakPassword:            "비밀번호가 너무 약합니다.",
	ErrPasswordMismatch:        "비밀번호가 일치하지 않습니다.",
	ErrNicknameTooShort:        "닉네임은 2자 이상이어야 합니다.",
	ErrNetworkFailure:          "네트워크 연결을 확인해주세요.",
	ErrUnauthorizedContinueURL: "이메일 인증 설정에 문제가 있습니다. 관리자에게 문의해주세요.",
	ErrUserNotFound:            "존재하지 않는 계정입니다.",
	ErrWrongPassword:           "비밀번호가 올바르지 않습니다.",
	ErrTooManyRequests:         "요청이 너무 많습니다. 잠시 후 다시 시도해주세요.",
	ErrNotVerified:             "이메일 인증이 완료되지 않았습니다. 메일함을 확인해주세요.",
	ErrInvalidToken:            "유효하지 않거나 만료된 인증 링크입니다.",
}

// Message translates an auth error into its localized user-facing text.
// Unknown errors fall back to a generic message.
func Message(err error) string {
	for sentinel, msg := range messages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	return "요청 처리 중 오류가 발생했습니다."
}
