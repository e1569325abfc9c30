package contacts

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmk-contents/backend/internal/models"
)

// Repository handles contact submission persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a contact repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const contactColumns = `id, name, email, subject, message, status, created_at, updated_at`

func scanContact(row interface{ Scan(dest ...any) error }, m *models.ContactSubmission) error {
	return row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Status, &m.CreatedAt, &m.UpdatedAt)
}

// Create inserts a new contact submission in pending status.
func (r *Repository) Create(ctx context.Context, m *models.ContactSubmission) error {
	const q = `INSERT INTO contact_submissions (id, name, email, subject, message, status)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, 'pending')
		RETURNING id, status, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, m.Name, m.Email, m.Subject, m.Message).
		Scan(&m.ID, &m.Status, &m.CreatedAt, &m.UpdatedAt)
}

// GetByID returns a contact submission by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.ContactSubmission, error) {
	const q = `SELECT ` + contactColumns + ` FROM contact_submissions WHERE id = $1`
	var m models.ContactSubmission
	if err := scanContact(r.pool.QueryRow(ctx, q, id), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns contact submissions, newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status string) ([]models.ContactSubmission, error) {
	q := `SELECT ` + contactColumns + ` FROM contact_submissions`
	var args []interface{}
	if status != "" {
		q += ` WHERE status = $1`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.ContactSubmission
	for rows.Next() {
		var m models.ContactSubmission
		if err := scanContact(rows, &m); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// UpdateStatus sets the workflow status of a submission. Status is the only
// mutable field after creation.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ContactStatus) (*models.ContactSubmission, error) {
	const q = `UPDATE contact_submissions SET status = $2, updated_at = NOW() WHERE id = $1
		RETURNING ` + contactColumns
	var m models.ContactSubmission
	if err := scanContact(r.pool.QueryRow(ctx, q, id, status), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// CountPending returns the number of pending submissions.
func (r *Repository) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contact_submissions WHERE status = 'pending'`).Scan(&n)
	return n, err
}
