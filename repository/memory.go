package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"grievancedesk-backend/models"

	"github.com/google/uuid"
)

// MemoryGrievanceRepository keeps records in a mutex-guarded map. It is
// the test implementation and the dev mode used when no DATABASE_URL is
// configured. Records are copied on the way in and out so callers never
// share memory with the store.
type MemoryGrievanceRepository struct {
	mu         sync.Mutex
	grievances map[uuid.UUID]*models.Grievance
}

// NewMemoryGrievanceRepository creates an empty in-memory repository
func NewMemoryGrievanceRepository() *MemoryGrievanceRepository {
	return &MemoryGrievanceRepository{
		grievances: make(map[uuid.UUID]*models.Grievance),
	}
}

// Create assigns a fresh id and timestamps and stores the record
func (r *MemoryGrievanceRepository) Create(_ context.Context, grievance *models.Grievance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	grievance.ID = uuid.New()
	grievance.Status = models.StatusSubmitted
	grievance.CreatedAt = now
	grievance.UpdatedAt = now

	stored := *grievance
	r.grievances[stored.ID] = &stored
	return nil
}

// GetByID returns a copy of the record or ErrGrievanceNotFound
func (r *MemoryGrievanceRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Grievance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.grievances[id]
	if !ok {
		return nil, ErrGrievanceNotFound
	}
	grievance := *stored
	return &grievance, nil
}

// List returns matching records ordered by createdAt descending
func (r *MemoryGrievanceRepository) List(_ context.Context, filter ListFilter) ([]*models.Grievance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var grievances []*models.Grievance
	for _, stored := range r.grievances {
		if !matchesFilter(stored, filter) {
			continue
		}
		grievance := *stored
		grievances = append(grievances, &grievance)
	}

	sort.Slice(grievances, func(i, j int) bool {
		return grievances[i].CreatedAt.After(grievances[j].CreatedAt)
	})

	return grievances, nil
}

// UpdateStatus sets the status and refreshes updatedAt
func (r *MemoryGrievanceRepository) UpdateStatus(_ context.Context, id uuid.UUID, status models.Status) (*models.Grievance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.grievances[id]
	if !ok {
		return nil, ErrGrievanceNotFound
	}

	stored.Status = status
	stored.UpdatedAt = time.Now().UTC()

	grievance := *stored
	return &grievance, nil
}

// Delete removes the record or returns ErrGrievanceNotFound
func (r *MemoryGrievanceRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.grievances[id]; !ok {
		return ErrGrievanceNotFound
	}
	delete(r.grievances, id)
	return nil
}

func matchesFilter(grievance *models.Grievance, filter ListFilter) bool {
	if filter.Category != nil && grievance.Category != *filter.Category {
		return false
	}
	if filter.Urgency != nil && grievance.Urgency != *filter.Urgency {
		return false
	}
	if filter.Status != nil && grievance.Status != *filter.Status {
		return false
	}
	if filter.StartDate != nil && grievance.CreatedAt.Before(*filter.StartDate) {
		return false
	}
	if filter.EndDate != nil && grievance.CreatedAt.After(*filter.EndDate) {
		return false
	}
	return true
}
