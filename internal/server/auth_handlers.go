package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JeongUpGi/SnapBoard/internal/auth"
	"github.com/JeongUpGi/SnapBoard/internal/model"
	"github.com/JeongUpGi/SnapBoard/internal/session"
)

// SignUpRequest is the request body for POST /auth/signup.
type SignUpRequest struct {
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	Nickname        string `json:"nickname" binding:"required"`
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the request body for PATCH /auth/profile. Empty
// fields keep their current value.
type UpdateProfileRequest struct {
	Nickname string `json:"nickname"`
	PhotoURL string `json:"photo_url"`
}

// authStatus maps account errors to HTTP status codes. Unknown errors are
// treated as server faults.
func authStatus(err error) int {
	switch {
	case errors.Is(err, auth.ErrEmailInUse):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrPasswordMismatch),
		errors.Is(err, auth.ErrNicknameTooShort),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrWrongPassword), errors.Is(err, auth.ErrNotVerified):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrTooManyRequests):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// signupHandler handles POST /auth/signup.
func (s *Server) signupHandler(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "Invalid request body: " + err.Error(),
		})
		return
	}

	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, model.AuthResponse{
			Success: false,
			Message: auth.Message(auth.ErrPasswordMismatch),
		})
		return
	}

	user, err := s.accounts.SignUp(c.Request.Context(), req.Email, req.Password, req.Nickname)
	if err != nil {
		c.JSON(authStatus(err), model.AuthResponse{
			Success: false,
			Message: auth.Message(err),
		})
		return
	}

	c.JSON(http.StatusCreated, model.AuthResponse{
		Success: true,
		Message: "인증 메일을 발송했습니다. 메일함을 확인해주세요.",
		User:    user,
	})
}

// verifyHandler handles GET /auth/verify?token=... from the emailed link.
func (s *Server) verifyHandler(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "Missing verification token",
		})
		return
	}

	if err := s.accounts.VerifyEmail(c.Request.Context(), token); err != nil {
		c.JSON(authStatus(err), model.AuthResponse{
			Success: false,
			Message: auth.Message(err),
		})
		return
	}

	c.JSON(http.StatusOK, model.AuthResponse{
		Success: true,
		Message: "이메일 인증이 완료되었습니다. 로그인해주세요.",
	})
}

// loginHandler handles POST /auth/login and sets the session cookie.
func (s *Server) loginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "Invalid request body: " + err.Error(),
		})
		return
	}

	user, err := s.accounts.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(authStatus(err), model.AuthResponse{
			Success: false,
			Message: auth.Message(err),
		})
		return
	}

	maxAge := int(s.cfg.SessionTTL.Seconds())
	sessionID, err := s.sessions.Create(c.Request.Context(), session.Session{
		UserID:   user.ID,
		Email:    user.Email,
		Nickname: user.Nickname,
		PhotoURL: user.PhotoURL,
	}, maxAge)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.AuthResponse{
			Success: false,
			Message: auth.Message(auth.ErrNetworkFailure),
		})
		return
	}

	c.SetCookie(SessionCookieName, sessionID, maxAge, "/", "", false, true)
	c.JSON(http.StatusOK, model.AuthResponse{
		Success: true,
		Message: "로그인되었습니다.",
		User:    user,
	})
}

// logoutHandler handles POST /auth/logout. Logging out without a session is
// not an error.
func (s *Server) logoutHandler(c *gin.Context) {
	if sessionID, err := c.Cookie(SessionCookieName); err == nil && sessionID != "" {
		if err := s.sessions.Delete(c.Request.Context(), sessionID); err != nil {
			slog.Warn("Failed to delete session", "error", err)
		}
	}

	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "로그아웃되었습니다.",
	})
}

// meHandler handles GET /auth/me.
func (s *Server) meHandler(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{
			Success: false,
			Error:   "Unauthorized: user not authenticated",
		})
		return
	}

	user, err := s.accounts.GetUserByID(c.Request.Context(), sess.UserID)
	if err != nil {
		c.JSON(authStatus(err), model.AuthResponse{
			Success: false,
			Message: auth.Message(err),
		})
		return
	}

	c.JSON(http.StatusOK, model.AuthResponse{
		Success: true,
		User:    user,
	})
}

// updateProfileHandler handles PATCH /auth/profile. The new nickname and
// image are propagated to the user's existing posts and comments.
func (s *Server) updateProfileHandler(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{
			Success: false,
			Error:   "Unauthorized: user not authenticated",
		})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "Invalid request body: " + err.Error(),
		})
		return
	}

	user, err := s.accounts.UpdateProfile(c.Request.Context(), sess.UserID, req.Nickname, req.PhotoURL)
	if err != nil {
		c.JSON(authStatus(err), model.AuthResponse{
			Success: false,
			Message: auth.Message(err),
		})
		return
	}

	// Denormalized author fields on existing documents go stale otherwise.
	if err := s.gateway.PropagateProfile(c.Request.Context(), user.ID, user.Nickname, user.PhotoURL); err != nil {
		slog.Warn("Failed to propagate profile change", "user_id", user.ID, "error", err)
	}

	c.JSON(http.StatusOK, model.AuthResponse{
		Success: true,
		Message: "프로필이 수정되었습니다.",
		User:    user,
	})
}

// deleteAccountHandler handles DELETE /auth/account.
func (s *Server) deleteAccountHandler(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{
			Success: false,
			Error:   "Unauthorized: user not authenticated",
		})
		return
	}

	if err := s.accounts.DeleteAccount(c.Request.Context(), sess.UserID); err != nil {
		c.JSON(authStatus(err), model.AuthResponse{
			Success: false,
			Message: auth.Message(err),
		})
		return
	}

	if err := s.sessions.Delete(c.Request.Context(), sess.ID); err != nil {
		slog.Warn("Failed to delete session", "error", err)
	}
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "탈퇴가 완료되었습니다.",
	})
}
