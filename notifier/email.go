package notifier

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
)

// SMTPConfig holds the mail server settings
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPNotifier delivers status emails over SMTP. One attempt per
// notification, no retries; failures are logged and reported as false.
type SMTPNotifier struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPNotifier creates an SMTP-backed notifier
func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPNotifier{cfg: cfg, send: smtp.SendMail}
}

// Notify builds and sends the status email, honoring context cancellation
func (s *SMTPNotifier) Notify(ctx context.Context, notification StatusNotification) bool {
	if err := ctx.Err(); err != nil {
		log.Printf("Warning: skipping email notification for grievance %s: %v", notification.GrievanceID, err)
		return false
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		s.cfg.From, notification.To, subject(notification.Status), body(notification))

	addr := s.cfg.Host + ":" + s.cfg.Port
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := s.send(addr, auth, s.cfg.From, []string{notification.To}, []byte(msg)); err != nil {
		log.Printf("Warning: failed to send email notification for grievance %s: %v", notification.GrievanceID, err)
		return false
	}

	return true
}
