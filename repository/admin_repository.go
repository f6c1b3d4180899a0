package repository

import (
	"context"
	"errors"

	"grievancedesk-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrAdminNotFound is returned when no admin matches the given email
var ErrAdminNotFound = errors.New("admin not found")

// AdminRepository looks up administrator accounts for login
type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// PostgresAdminRepository handles database operations for admins
type PostgresAdminRepository struct {
	db *pgxpool.Pool
}

// NewPostgresAdminRepository creates a Postgres-backed admin repository
func NewPostgresAdminRepository(db *pgxpool.Pool) *PostgresAdminRepository {
	return &PostgresAdminRepository{db: db}
}

// GetByEmail retrieves an admin by email
func (r *PostgresAdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	admin := &models.Admin{}
	query := `
		SELECT id, email, name, pin_hash, created_at
		FROM admins
		WHERE email = $1`

	err := r.db.QueryRow(ctx, query, email).Scan(
		&admin.ID,
		&admin.Email,
		&admin.Name,
		&admin.PinHash,
		&admin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}

	return admin, nil
}

// Create inserts a new admin account
func (r *PostgresAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (email, name, pin_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return r.db.QueryRow(ctx, query, admin.Email, admin.Name, admin.PinHash).
		Scan(&admin.ID, &admin.CreatedAt)
}
