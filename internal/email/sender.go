// Package email sends account verification mail. It supports a development
// mode that only logs and a production mode that delivers via SMTP.
package email

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"os"
	"strconv"
)

// Sender defines the interface for sending verification mail
type Sender interface {
	SendVerificationLink(email, link string) error
}

// Config holds email configuration
type Config struct {
	Mode     string // "log" or "smtp"
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// NewConfig creates a new email configuration from environment variables
func NewConfig() *Config {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))

	return &Config{
		Mode:     getEnvOrDefault("EMAIL_MODE", "log"),
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		User:     os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     getEnvOrDefault("SMTP_FROM", "noreply@snapboard.app"),
		FromName: getEnvOrDefault("SMTP_FROM_NAME", "SnapBoard"),
	}
}

// NewSender creates a new email sender based on configuration
func NewSender(cfg *Config) Sender {
	if cfg.Mode == "smtp" {
		return &smtpSender{config: cfg}
	}
	return &logSender{}
}

// logSender logs mail to the console (development mode)
type logSender struct{}

func (s *logSender) SendVerificationLink(email, link string) error {
	slog.Info("[DEV] Verification link", "email", email, "link", link)
	return nil
}

// smtpSender delivers mail via SMTP (production mode)
type smtpSender struct {
	config *Config
}

func (s *smtpSender) SendVerificationLink(email, link string) error {
	subject := "SnapBoard 이메일 인증"
	body := s.buildEmailBody(link)

	message := fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.From)
	message += fmt.Sprintf("To: %s\r\n", email)
	message += fmt.Sprintf("Subject: %s\r\n", subject)
	message += "MIME-Version: 1.0\r\n"
	message += "Content-Type: text/html; charset=UTF-8\r\n"
	message += "\r\n"
	message += body

	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	if err := smtp.SendMail(addr, auth, s.config.From, []string{email}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("Verification link sent via SMTP", "email", email)
	return nil
}

func (s *smtpSender) buildEmailBody(link string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>이메일 인증</title></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1>SnapBoard</h1>
    <p>아래 링크를 눌러 이메일 인증을 완료해주세요.</p>
    <p><a href="%s">%s</a></p>
    <p style="font-size: 12px; color: #999;">본인이 요청하지 않았다면 이 메일을 무시하셔도 됩니다.</p>
</body>
</html>
`, link, link)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
