package notifier

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"grievancedesk-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNotification() StatusNotification {
	return StatusNotification{
		To:          "ana@u.edu",
		StudentName: "Ana",
		GrievanceID: "11111111-2222-3333-4444-555555555555",
		Status:      models.StatusViewed,
		Category:    models.CategoryHostel,
		Urgency:     models.UrgencyHigh,
	}
}

func TestSMTPNotifierSendsMail(t *testing.T) {
	var sentTo []string
	var sentMsg string
	n := NewSMTPNotifier(SMTPConfig{Host: "mail.campus.edu", Port: "587", From: "noreply@campus.edu"})
	n.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		assert.Equal(t, "mail.campus.edu:587", addr)
		assert.Equal(t, "noreply@campus.edu", from)
		sentTo = to
		sentMsg = string(msg)
		return nil
	}

	ok := n.Notify(context.Background(), testNotification())
	require.True(t, ok)
	assert.Equal(t, []string{"ana@u.edu"}, sentTo)
	assert.Contains(t, sentMsg, "Subject: Your Grievance Has Been Reviewed")
	assert.Contains(t, sentMsg, "Hi Ana,")
	assert.Contains(t, sentMsg, "Grievance ID: 11111111-2222-3333-4444-555555555555")
}

func TestSMTPNotifierReportsFailure(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{Host: "mail.campus.edu", Port: "587"})
	n.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	assert.False(t, n.Notify(context.Background(), testNotification()))
}

func TestSMTPNotifierHonorsCancelledContext(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{Host: "mail.campus.edu", Port: "587"})
	n.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send should not be called with a cancelled context")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, n.Notify(ctx, testNotification()))
}

func TestBodyIncludesAdminMessage(t *testing.T) {
	n := testNotification()
	n.Status = models.StatusCleared
	n.Message = "Maintenance replaced the fuse this morning."

	text := body(n)
	assert.Contains(t, text, "resolved and cleared")
	assert.Contains(t, text, "Maintenance replaced the fuse this morning.")
	assert.True(t, strings.Contains(text, "Category: Hostel"))
}

func TestConsoleNotifierAlwaysSucceeds(t *testing.T) {
	n := NewConsoleNotifier()
	assert.True(t, n.Notify(context.Background(), testNotification()))
}

type flakyNotifier struct {
	results []bool
	calls   int
}

func (f *flakyNotifier) Notify(context.Context, StatusNotification) bool {
	ok := f.results[f.calls%len(f.results)]
	f.calls++
	return ok
}

func TestNotifyBatchCountsSuccesses(t *testing.T) {
	n := &flakyNotifier{results: []bool{true, false, true}}
	notifications := []StatusNotification{testNotification(), testNotification(), testNotification()}

	assert.Equal(t, 2, NotifyBatch(context.Background(), n, notifications))
	assert.Equal(t, 3, n.calls)
}
