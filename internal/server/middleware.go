package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/JeongUpGi/SnapBoard/internal/model"
	"github.com/JeongUpGi/SnapBoard/internal/session"
)

// SessionCookieName is the cookie carrying the session ID.
const SessionCookieName = "snapboard_session"

const contextSessionKey = "session"

// SessionAuth validates the session cookie and stores the session in the
// request context. Requests without a valid session are rejected.
func (s *Server) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || sessionID == "" {
			c.JSON(http.StatusUnauthorized, model.ErrorResponse{
				Success: false,
				Error:   "Unauthorized: missing session",
			})
			c.Abort()
			return
		}

		sess, err := s.sessions.Get(c.Request.Context(), sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, model.ErrorResponse{
				Success: false,
				Error:   "Unauthorized: invalid or expired session",
			})
			c.Abort()
			return
		}

		c.Set(contextSessionKey, sess)
		c.Next()
	}
}

// OptionalSessionAuth stores the session if a valid cookie is present but
// lets unauthenticated requests through. The feed is readable without an
// account; only the viewer's like status depends on it.
func (s *Server) OptionalSessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessionID, err := c.Cookie(SessionCookieName); err == nil && sessionID != "" {
			if sess, err := s.sessions.Get(c.Request.Context(), sessionID); err == nil {
				c.Set(contextSessionKey, sess)
			}
		}
		c.Next()
	}
}

// RequestID tags every request with a unique ID for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// RequestLogger writes one structured log line per request, leveled by
// response status.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"request_id", c.GetString("request_id"),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", float64(time.Since(start).Milliseconds()),
			"client_ip", c.ClientIP(),
			"response_size", c.Writer.Size(),
		}
		if query := c.Request.URL.RawQuery; query != "" {
			attrs = append(attrs, "query", query)
		}
		if sess, ok := GetSession(c); ok {
			attrs = append(attrs, "user_id", sess.UserID)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			slog.Error("Request failed - server error", attrs...)
		case status >= 400:
			slog.Warn("Request failed - client error", attrs...)
		default:
			slog.Info("Request completed", attrs...)
		}
	}
}

// GetSession extracts the validated session from the request context.
func GetSession(c *gin.Context) (*session.Session, bool) {
	value, exists := c.Get(contextSessionKey)
	if !exists {
		return nil, false
	}
	sess, ok := value.(*session.Session)
	return sess, ok
}
