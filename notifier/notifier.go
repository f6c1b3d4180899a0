// Package notifier delivers status-change messages to students. Delivery
// is best-effort: implementations report success or failure as a boolean
// and never block a status transition.
package notifier

import (
	"context"
	"fmt"
	"os"

	"grievancedesk-backend/models"
)

// StatusNotification carries everything needed to tell a student about a
// status change on their grievance
type StatusNotification struct {
	To          string
	StudentName string
	GrievanceID string
	Status      models.Status
	Category    models.Category
	Urgency     models.Urgency
	Message     string // optional note from the administrator
}

// Notifier sends a single notification, reporting delivery success only
type Notifier interface {
	Notify(ctx context.Context, notification StatusNotification) bool
}

// NewNotifierFromEnv selects the SMTP notifier when SMTP_HOST is
// configured and falls back to the console notifier otherwise
func NewNotifierFromEnv() Notifier {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return NewConsoleNotifier()
	}

	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}

	return NewSMTPNotifier(SMTPConfig{
		Host:     host,
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	})
}

// NotifyBatch sends each notification once and returns the success count
func NotifyBatch(ctx context.Context, n Notifier, notifications []StatusNotification) int {
	successCount := 0
	for _, notification := range notifications {
		if n.Notify(ctx, notification) {
			successCount++
		}
	}
	return successCount
}

// subject returns the status-specific email subject
func subject(status models.Status) string {
	if status == models.StatusViewed {
		return "Your Grievance Has Been Reviewed"
	}
	return "Your Grievance Has Been Resolved"
}

// body renders the plain-text email body
func body(n StatusNotification) string {
	statusMessage := "Your grievance has been resolved and cleared from our system."
	if n.Status == models.StatusViewed {
		statusMessage = "Your grievance has been reviewed by our administration team."
	}

	text := fmt.Sprintf("Hi %s,\n\n%s\n", n.StudentName, statusMessage)
	if n.Message != "" {
		text += "\n" + n.Message + "\n"
	}
	text += fmt.Sprintf("\nGrievance ID: %s\nCategory: %s\nUrgency: %s\n", n.GrievanceID, n.Category, n.Urgency)
	text += "\nIf you have any questions, please contact the grievance redressal team.\n"
	text += "\nThis is an automated message. Please do not reply to this email.\n"
	return text
}
