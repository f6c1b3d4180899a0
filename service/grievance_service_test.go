package service

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"testing"
	"time"

	"grievancedesk-backend/models"
	"grievancedesk-backend/notifier"
	"grievancedesk-backend/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	succeed bool
	calls   []notifier.StatusNotification
}

func (f *fakeNotifier) Notify(_ context.Context, n notifier.StatusNotification) bool {
	f.calls = append(f.calls, n)
	return f.succeed
}

func newTestService(n notifier.Notifier) (*GrievanceService, *repository.MemoryGrievanceRepository) {
	repo := repository.NewMemoryGrievanceRepository()
	svc := NewGrievanceService(
		WithRepository(repo),
		WithNotifier(n),
	)
	return svc, repo
}

func submit(t *testing.T, svc *GrievanceService, complaint string) *models.Grievance {
	t.Helper()
	result, err := svc.SubmitGrievance(context.Background(), SubmitGrievanceRequest{
		StudentName:  "Ana",
		StudentEmail: "ana@u.edu",
		Complaint:    complaint,
	})
	require.NoError(t, err)
	return result.Grievance
}

func TestSubmitGrievanceClassifiesAndStores(t *testing.T) {
	svc, repo := newTestService(nil)

	result, err := svc.SubmitGrievance(context.Background(), SubmitGrievanceRequest{
		StudentName:  "Ana",
		StudentEmail: "ana@u.edu",
		Complaint:    "The hostel room has no electricity and it's urgent",
	})
	require.NoError(t, err)

	assert.Equal(t, models.CategoryHostel, result.Analysis.Category)
	assert.Equal(t, models.UrgencyHigh, result.Analysis.Urgency)
	assert.Equal(t, models.StatusSubmitted, result.Grievance.Status)
	assert.NotEqual(t, uuid.Nil, result.Grievance.ID)

	stored, err := repo.GetByID(context.Background(), result.Grievance.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Grievance.Category, stored.Category)
}

func TestSubmitGrievanceRequiresFields(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.SubmitGrievance(context.Background(), SubmitGrievanceRequest{
		StudentName: "Ana",
		Complaint:   "no email given",
	})
	assert.ErrorIs(t, err, ErrMissingRequiredFields)
}

func TestSubmitTwiceCreatesTwoRecords(t *testing.T) {
	svc, repo := newTestService(nil)

	first := submit(t, svc, "The mess food is stale")
	second := submit(t, svc, "The mess food is stale")
	assert.NotEqual(t, first.ID, second.ID)

	grievances, err := repo.List(context.Background(), repository.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, grievances, 2)
}

func TestUpdateStatusFullWorkflow(t *testing.T) {
	n := &fakeNotifier{succeed: true}
	svc, _ := newTestService(n)
	g := submit(t, svc, "wifi outage on the third floor")

	viewed, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: g.ID, Status: models.StatusViewed})
	require.NoError(t, err)
	assert.Equal(t, models.StatusViewed, viewed.Grievance.Status)
	assert.True(t, viewed.NotificationSent)

	cleared, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: g.ID, Status: models.StatusCleared, Message: "Fixed by facilities"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCleared, cleared.Grievance.Status)

	require.Len(t, n.calls, 2)
	assert.Equal(t, "ana@u.edu", n.calls[0].To)
	assert.Equal(t, "Fixed by facilities", n.calls[1].Message)
}

func TestUpdateStatusDirectClear(t *testing.T) {
	svc, _ := newTestService(&fakeNotifier{succeed: true})
	g := submit(t, svc, "broken chair")

	cleared, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: g.ID, Status: models.StatusCleared})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCleared, cleared.Grievance.Status)
}

func TestUpdateStatusRejectsInvalidTransitions(t *testing.T) {
	svc, _ := newTestService(nil)
	g := submit(t, svc, "noise at night")

	// Same-state request
	_, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: g.ID, Status: models.StatusSubmitted})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: g.ID, Status: models.StatusViewed})
	require.NoError(t, err)

	// Backward request
	_, err = svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: g.ID, Status: models.StatusViewed})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: g.ID, Status: models.StatusCleared})
	require.NoError(t, err)

	// Nothing leaves cleared
	_, err = svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: g.ID, Status: models.StatusViewed})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: g.ID, Status: models.StatusCleared})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: uuid.New(), Status: models.StatusViewed})
	assert.ErrorIs(t, err, repository.ErrGrievanceNotFound)
}

func TestUpdateStatusCommitsDespiteNotifierFailure(t *testing.T) {
	n := &fakeNotifier{succeed: false}
	svc, repo := newTestService(n)
	g := submit(t, svc, "lift stuck again")

	result, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: g.ID, Status: models.StatusViewed})
	require.NoError(t, err)
	assert.False(t, result.NotificationSent)

	// The status change is the system of record
	stored, err := repo.GetByID(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusViewed, stored.Status)
}

func TestUpdateStatusRefreshesUpdatedAt(t *testing.T) {
	svc, _ := newTestService(nil)
	g := submit(t, svc, "water cooler leaking")
	time.Sleep(time.Millisecond)

	result, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: g.ID, Status: models.StatusViewed})
	require.NoError(t, err)
	assert.True(t, result.Grievance.UpdatedAt.After(g.UpdatedAt))
}

func TestDeleteGrievance(t *testing.T) {
	svc, _ := newTestService(nil)
	g := submit(t, svc, "projector bulb dead")

	require.NoError(t, svc.DeleteGrievance(context.Background(), DeleteGrievanceRequest{ID: g.ID}))
	assert.ErrorIs(t,
		svc.DeleteGrievance(context.Background(), DeleteGrievanceRequest{ID: g.ID}),
		repository.ErrGrievanceNotFound)
}

type fakeStorage struct {
	fail    bool
	uploads []string
}

func (f *fakeStorage) Upload(_ context.Context, attachmentID uuid.UUID, filename string, _ io.Reader) (string, error) {
	if f.fail {
		return "", errors.New("bucket unavailable")
	}
	path := attachmentID.String() + "_" + filename
	f.uploads = append(f.uploads, path)
	return path, nil
}

func (f *fakeStorage) Download(_ context.Context, _ string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStorage) Delete(_ context.Context, _ string) error {
	return nil
}

func TestSubmitGrievanceOffloadsAttachments(t *testing.T) {
	store := &fakeStorage{}
	repo := repository.NewMemoryGrievanceRepository()
	svc := NewGrievanceService(
		WithRepository(repo),
		WithAttachmentStorage(store),
	)

	content := base64.StdEncoding.EncodeToString([]byte("fake image bytes"))
	result, err := svc.SubmitGrievance(context.Background(), SubmitGrievanceRequest{
		StudentName:  "Ana",
		StudentEmail: "ana@u.edu",
		Complaint:    "broken fan in room 204",
		Attachments: models.Attachments{
			{Name: "fan.jpg", MimeType: "image/jpeg", SizeBytes: 16, Content: "data:image/jpeg;base64," + content},
		},
	})
	require.NoError(t, err)
	require.Len(t, store.uploads, 1)

	attachment := result.Grievance.Attachments[0]
	assert.Empty(t, attachment.Content)
	assert.Equal(t, store.uploads[0], attachment.StoragePath)
}

func TestSubmitGrievanceKeepsAttachmentInlineOnUploadFailure(t *testing.T) {
	repo := repository.NewMemoryGrievanceRepository()
	svc := NewGrievanceService(
		WithRepository(repo),
		WithAttachmentStorage(&fakeStorage{fail: true}),
	)

	content := base64.StdEncoding.EncodeToString([]byte("fake image bytes"))
	result, err := svc.SubmitGrievance(context.Background(), SubmitGrievanceRequest{
		StudentName:  "Ana",
		StudentEmail: "ana@u.edu",
		Complaint:    "broken fan in room 204",
		Attachments: models.Attachments{
			{Name: "fan.jpg", MimeType: "image/jpeg", SizeBytes: 16, Content: content},
		},
	})
	require.NoError(t, err)

	attachment := result.Grievance.Attachments[0]
	assert.Equal(t, content, attachment.Content)
	assert.Empty(t, attachment.StoragePath)
}

func TestGetStatsFromService(t *testing.T) {
	svc, _ := newTestService(nil)
	submit(t, svc, "hostel door broken")
	submit(t, svc, "mess food cold")
	submit(t, svc, "mess rice undercooked")

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByCategory[models.CategoryMess])
	assert.Equal(t, 1, stats.ByCategory[models.CategoryHostel])
	assert.Equal(t, 3, stats.ByStatus[models.StatusSubmitted])
}
