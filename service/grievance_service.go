package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"log"
	"strings"

	"grievancedesk-backend/attachmentstore"
	"grievancedesk-backend/classifier"
	"grievancedesk-backend/models"
	"grievancedesk-backend/notifier"
	"grievancedesk-backend/repository"

	"github.com/google/uuid"
)

var (
	ErrMissingRequiredFields = errors.New("studentName, studentEmail and complaint are required")
	ErrInvalidStatus         = errors.New("status must be either 'viewed' or 'cleared'")
	ErrInvalidTransition     = errors.New("status transition not allowed")
)

// GrievanceService handles business logic for grievances: submission
// with classification, the status workflow, and deletion
type GrievanceService struct {
	repo        repository.GrievanceRepository
	classifier  classifier.Classifier
	notifier    notifier.Notifier
	attachments attachmentstore.Storage
}

// GrievanceServiceOption is a functional option for GrievanceService
type GrievanceServiceOption func(*GrievanceService)

// WithRepository sets the grievance repository
func WithRepository(repo repository.GrievanceRepository) GrievanceServiceOption {
	return func(s *GrievanceService) {
		s.repo = repo
	}
}

// WithClassifier sets the complaint classifier
func WithClassifier(c classifier.Classifier) GrievanceServiceOption {
	return func(s *GrievanceService) {
		s.classifier = c
	}
}

// WithNotifier sets the status-change notifier
func WithNotifier(n notifier.Notifier) GrievanceServiceOption {
	return func(s *GrievanceService) {
		s.notifier = n
	}
}

// WithAttachmentStorage sets the attachment blob store
func WithAttachmentStorage(store attachmentstore.Storage) GrievanceServiceOption {
	return func(s *GrievanceService) {
		s.attachments = store
	}
}

// NewGrievanceService creates a new grievance service
func NewGrievanceService(opts ...GrievanceServiceOption) *GrievanceService {
	s := &GrievanceService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.classifier == nil {
		s.classifier = classifier.NewRuleBased()
	}
	return s
}

// SubmitGrievanceRequest represents a new complaint submission
type SubmitGrievanceRequest struct {
	StudentName  string
	StudentEmail string
	Complaint    string
	Attachments  models.Attachments
}

// SubmitGrievanceResult carries the stored record and its labels
type SubmitGrievanceResult struct {
	Grievance *models.Grievance
	Analysis  *models.AnalysisResult
}

// SubmitGrievance classifies the complaint and stores the record with
// status submitted. Classification never blocks submission: on any
// classifier error the deterministic rule-based labels are used.
func (s *GrievanceService) SubmitGrievance(ctx context.Context, req SubmitGrievanceRequest) (*SubmitGrievanceResult, error) {
	if s.repo == nil {
		return nil, errors.New("grievance repository not set")
	}

	if req.StudentName == "" || req.StudentEmail == "" || req.Complaint == "" {
		return nil, ErrMissingRequiredFields
	}

	analysis, err := s.classifier.Classify(ctx, req.Complaint)
	if err != nil {
		log.Printf("Warning: classification failed, using rule-based analysis: %v", err)
		analysis, _ = classifier.NewRuleBased().Classify(ctx, req.Complaint)
	}

	grievance := &models.Grievance{
		StudentName:  req.StudentName,
		StudentEmail: req.StudentEmail,
		Complaint:    req.Complaint,
		Category:     analysis.Category,
		Urgency:      analysis.Urgency,
		Sentiment:    analysis.Sentiment,
		Summary:      analysis.Summary,
		Attachments:  s.offloadAttachments(ctx, req.Attachments),
	}

	if err := s.repo.Create(ctx, grievance); err != nil {
		return nil, err
	}

	return &SubmitGrievanceResult{Grievance: grievance, Analysis: analysis}, nil
}

// offloadAttachments moves inline base64 content to the blob store when
// one is configured. Offload failure keeps the content inline rather
// than failing the submission.
func (s *GrievanceService) offloadAttachments(ctx context.Context, attachments models.Attachments) models.Attachments {
	if len(attachments) == 0 {
		return nil
	}
	if s.attachments == nil {
		return attachments
	}

	offloaded := make(models.Attachments, 0, len(attachments))
	for _, attachment := range attachments {
		if attachment.Content == "" {
			offloaded = append(offloaded, attachment)
			continue
		}

		data, err := decodeAttachmentContent(attachment.Content)
		if err != nil {
			log.Printf("Warning: keeping attachment %q inline, invalid base64 content: %v", attachment.Name, err)
			offloaded = append(offloaded, attachment)
			continue
		}

		storagePath, err := s.attachments.Upload(ctx, uuid.New(), attachment.Name, bytes.NewReader(data))
		if err != nil {
			log.Printf("Warning: keeping attachment %q inline, blob store rejected it: %v", attachment.Name, err)
			offloaded = append(offloaded, attachment)
			continue
		}

		attachment.Content = ""
		attachment.StoragePath = storagePath
		offloaded = append(offloaded, attachment)
	}
	return offloaded
}

// decodeAttachmentContent accepts raw base64 or a data URL
func decodeAttachmentContent(content string) ([]byte, error) {
	if idx := strings.Index(content, ";base64,"); idx >= 0 {
		content = content[idx+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(content)
}

// GetGrievanceRequest identifies a single record
type GetGrievanceRequest struct {
	ID uuid.UUID
}

// GetGrievanceResult carries the looked-up record
type GetGrievanceResult struct {
	Grievance *models.Grievance
}

// GetGrievance retrieves a grievance by ID
func (s *GrievanceService) GetGrievance(ctx context.Context, req GetGrievanceRequest) (*GetGrievanceResult, error) {
	if s.repo == nil {
		return nil, errors.New("grievance repository not set")
	}

	grievance, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	return &GetGrievanceResult{Grievance: grievance}, nil
}

// ListGrievancesRequest represents a filtered listing
type ListGrievancesRequest struct {
	Filter repository.ListFilter
}

// ListGrievancesResult carries the matches, newest first
type ListGrievancesResult struct {
	Grievances []*models.Grievance
}

// ListGrievances lists grievances matching the filter
func (s *GrievanceService) ListGrievances(ctx context.Context, req ListGrievancesRequest) (*ListGrievancesResult, error) {
	if s.repo == nil {
		return nil, errors.New("grievance repository not set")
	}

	grievances, err := s.repo.List(ctx, req.Filter)
	if err != nil {
		return nil, err
	}

	return &ListGrievancesResult{Grievances: grievances}, nil
}

// UpdateStatusRequest asks for a workflow transition
type UpdateStatusRequest struct {
	ID      uuid.UUID
	Status  models.Status
	Message string // optional note included in the notification
}

// UpdateStatusResult carries the updated record and whether the
// best-effort notification went out
type UpdateStatusResult struct {
	Grievance        *models.Grievance
	NotificationSent bool
}

// UpdateStatus validates the transition, commits the status change, and
// then notifies the student. The status change is the system of record:
// notification failure is reported as a flag, never rolled back.
func (s *GrievanceService) UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*UpdateStatusResult, error) {
	if s.repo == nil {
		return nil, errors.New("grievance repository not set")
	}

	if req.Status != models.StatusViewed && req.Status != models.StatusCleared {
		return nil, ErrInvalidStatus
	}

	grievance, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if !grievance.Status.CanTransitionTo(req.Status) {
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.UpdateStatus(ctx, req.ID, req.Status)
	if err != nil {
		return nil, err
	}

	notificationSent := false
	if s.notifier != nil {
		notificationSent = s.notifier.Notify(ctx, notifier.StatusNotification{
			To:          updated.StudentEmail,
			StudentName: updated.StudentName,
			GrievanceID: updated.ID.String(),
			Status:      updated.Status,
			Category:    updated.Category,
			Urgency:     updated.Urgency,
			Message:     req.Message,
		})
	}

	return &UpdateStatusResult{
		Grievance:        updated,
		NotificationSent: notificationSent,
	}, nil
}

// DeleteGrievanceRequest identifies the record to remove
type DeleteGrievanceRequest struct {
	ID uuid.UUID
}

// DeleteGrievance removes a grievance permanently
func (s *GrievanceService) DeleteGrievance(ctx context.Context, req DeleteGrievanceRequest) error {
	if s.repo == nil {
		return errors.New("grievance repository not set")
	}
	return s.repo.Delete(ctx, req.ID)
}

// GetStats recomputes the aggregate view from the full record set
func (s *GrievanceService) GetStats(ctx context.Context) (*models.GrievanceStats, error) {
	if s.repo == nil {
		return nil, errors.New("grievance repository not set")
	}

	grievances, err := s.repo.List(ctx, repository.ListFilter{})
	if err != nil {
		return nil, err
	}

	return ComputeStats(grievances), nil
}
