package notifier

import (
	"context"
	"log"
)

// ConsoleNotifier logs the would-be email instead of sending it.
// It is the default when no mail server is configured.
type ConsoleNotifier struct{}

// NewConsoleNotifier creates a console notifier
func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

// Notify logs the notification and always reports success
func (c *ConsoleNotifier) Notify(_ context.Context, notification StatusNotification) bool {
	log.Printf("EMAIL NOTIFICATION To: %s Subject: %s", notification.To, subject(notification.Status))
	log.Printf("Grievance: %s Status: %s Category: %s Urgency: %s",
		notification.GrievanceID, notification.Status, notification.Category, notification.Urgency)
	return true
}
