package lectures

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmk-contents/backend/internal/models"
)

// Repository handles lecture persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a lecture repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const lectureColumns = `id, app_id, COALESCE(category,''), title, COALESCE(description,''), COALESCE(audio_url,''), COALESCE(duration_seconds,0), COALESCE(transcript,''), created_at, updated_at`

func scanLecture(row interface{ Scan(dest ...any) error }, m *models.Lecture) error {
	return row.Scan(&m.ID, &m.AppID, &m.Category, &m.Title, &m.Description, &m.AudioURL, &m.DurationSeconds, &m.Transcript, &m.CreatedAt, &m.UpdatedAt)
}

// Create inserts a new lecture.
func (r *Repository) Create(ctx context.Context, m *models.Lecture) error {
	const q = `INSERT INTO lectures (id, app_id, category, title, description, audio_url, duration_seconds, transcript)
		VALUES (gen_random_uuid(), $1, NULLIF($2,''), $3, NULLIF($4,''), NULLIF($5,''), $6, NULLIF($7,''))
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, m.AppID, m.Category, m.Title, m.Description, m.AudioURL, m.DurationSeconds, m.Transcript).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

// GetByID returns a lecture by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Lecture, error) {
	const q = `SELECT ` + lectureColumns + ` FROM lectures WHERE id = $1`
	var m models.Lecture
	if err := scanLecture(r.pool.QueryRow(ctx, q, id), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByApp returns lectures for an app, newest first, optionally filtered
// by category.
func (r *Repository) ListByApp(ctx context.Context, appID, category string) ([]models.Lecture, error) {
	q := `SELECT ` + lectureColumns + ` FROM lectures WHERE app_id = $1`
	args := []interface{}{appID}
	if category != "" {
		q += ` AND category = $2`
		args = append(args, category)
	}
	q += ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Lecture
	for rows.Next() {
		var m models.Lecture
		if err := scanLecture(rows, &m); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListAll returns every lecture, newest first (admin listing).
func (r *Repository) ListAll(ctx context.Context) ([]models.Lecture, error) {
	const q = `SELECT ` + lectureColumns + ` FROM lectures ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Lecture
	for rows.Next() {
		var m models.Lecture
		if err := scanLecture(rows, &m); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Update applies non-nil params to a lecture and returns the updated record.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, category, title, description, audioURL *string, durationSeconds *int, transcript *string) (*models.Lecture, error) {
	const q = `UPDATE lectures SET
		category = COALESCE($2, category),
		title = COALESCE($3, title),
		description = COALESCE($4, description),
		audio_url = COALESCE($5, audio_url),
		duration_seconds = COALESCE($6, duration_seconds),
		transcript = COALESCE($7, transcript),
		updated_at = NOW()
		WHERE id = $1
		RETURNING ` + lectureColumns
	var m models.Lecture
	if err := scanLecture(r.pool.QueryRow(ctx, q, id, category, title, description, audioURL, durationSeconds, transcript), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Delete removes a lecture by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM lectures WHERE id = $1`, id)
	return err
}

// Count returns the number of lectures.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM lectures`).Scan(&n)
	return n, err
}
