// Package repository provides the grievance store behind a small port
// with a Postgres implementation and an in-memory one for tests and
// storeless development.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"grievancedesk-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrGrievanceNotFound is returned when no record matches the given id
var ErrGrievanceNotFound = errors.New("grievance not found")

// ListFilter is an optional conjunction over the filterable dimensions.
// Nil fields are not applied.
type ListFilter struct {
	Category  *models.Category
	Urgency   *models.Urgency
	Status    *models.Status
	StartDate *time.Time
	EndDate   *time.Time
}

// GrievanceRepository is the storage port for grievance records
type GrievanceRepository interface {
	// Create assigns a fresh id, sets both timestamps, forces status to
	// submitted, and persists the record
	Create(ctx context.Context, grievance *models.Grievance) error

	// GetByID returns the record or ErrGrievanceNotFound
	GetByID(ctx context.Context, id uuid.UUID) (*models.Grievance, error)

	// List returns all matches ordered by createdAt descending;
	// an empty filter returns everything
	List(ctx context.Context, filter ListFilter) ([]*models.Grievance, error)

	// UpdateStatus sets the status and refreshes updatedAt, returning
	// the updated record or ErrGrievanceNotFound
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) (*models.Grievance, error)

	// Delete removes the record permanently or returns ErrGrievanceNotFound
	Delete(ctx context.Context, id uuid.UUID) error
}

const grievanceColumns = `id, student_name, student_email, complaint,
			category, urgency, sentiment, summary, status, attachments,
			created_at, updated_at`

// PostgresGrievanceRepository handles database operations for grievances
type PostgresGrievanceRepository struct {
	db *pgxpool.Pool
}

// NewPostgresGrievanceRepository creates a Postgres-backed repository
func NewPostgresGrievanceRepository(db *pgxpool.Pool) *PostgresGrievanceRepository {
	return &PostgresGrievanceRepository{db: db}
}

// Create inserts a new grievance
func (r *PostgresGrievanceRepository) Create(ctx context.Context, grievance *models.Grievance) error {
	grievance.Status = models.StatusSubmitted

	query := `
		INSERT INTO grievances (
			student_name, student_email, complaint,
			category, urgency, sentiment, summary, status, attachments
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		grievance.StudentName,
		grievance.StudentEmail,
		grievance.Complaint,
		grievance.Category,
		grievance.Urgency,
		grievance.Sentiment,
		grievance.Summary,
		grievance.Status,
		grievance.Attachments,
	).Scan(&grievance.ID, &grievance.CreatedAt, &grievance.UpdatedAt)

	return err
}

// GetByID retrieves a grievance by ID
func (r *PostgresGrievanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Grievance, error) {
	query := `SELECT ` + grievanceColumns + ` FROM grievances WHERE id = $1`

	grievance, err := scanGrievance(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGrievanceNotFound
		}
		return nil, err
	}

	return grievance, nil
}

// List retrieves grievances matching the filter, newest first
func (r *PostgresGrievanceRepository) List(ctx context.Context, filter ListFilter) ([]*models.Grievance, error) {
	query := `SELECT ` + grievanceColumns + ` FROM grievances WHERE 1=1`

	args := []interface{}{}
	argIndex := 1

	if filter.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, *filter.Category)
		argIndex++
	}
	if filter.Urgency != nil {
		query += fmt.Sprintf(" AND urgency = $%d", argIndex)
		args = append(args, *filter.Urgency)
		argIndex++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}
	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIndex)
		args = append(args, *filter.StartDate)
		argIndex++
	}
	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIndex)
		args = append(args, *filter.EndDate)
		argIndex++
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grievances []*models.Grievance
	for rows.Next() {
		grievance, err := scanGrievance(rows)
		if err != nil {
			return nil, err
		}
		grievances = append(grievances, grievance)
	}

	return grievances, rows.Err()
}

// UpdateStatus sets the status and refreshes updated_at
func (r *PostgresGrievanceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) (*models.Grievance, error) {
	query := `
		UPDATE grievances SET
			status = $2,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + grievanceColumns

	grievance, err := scanGrievance(r.db.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGrievanceNotFound
		}
		return nil, err
	}

	return grievance, nil
}

// Delete removes a grievance permanently
func (r *PostgresGrievanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM grievances WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGrievanceNotFound
	}
	return nil
}

func scanGrievance(row pgx.Row) (*models.Grievance, error) {
	grievance := &models.Grievance{}
	err := row.Scan(
		&grievance.ID,
		&grievance.StudentName,
		&grievance.StudentEmail,
		&grievance.Complaint,
		&grievance.Category,
		&grievance.Urgency,
		&grievance.Sentiment,
		&grievance.Summary,
		&grievance.Status,
		&grievance.Attachments,
		&grievance.CreatedAt,
		&grievance.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return grievance, nil
}
