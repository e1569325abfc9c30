package concepts

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmk-contents/backend/internal/models"
)

// Repository handles concept persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a concept repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const conceptColumns = `id, app_id, category, title, content, importance, COALESCE(keywords,''), COALESCE(study_note,''), created_at, updated_at`

func scanConcept(row interface{ Scan(dest ...any) error }, m *models.Concept) error {
	return row.Scan(&m.ID, &m.AppID, &m.Category, &m.Title, &m.Content, &m.Importance, &m.Keywords, &m.StudyNote, &m.CreatedAt, &m.UpdatedAt)
}

// Create inserts a new concept.
func (r *Repository) Create(ctx context.Context, m *models.Concept) error {
	const q = `INSERT INTO concepts (id, app_id, category, title, content, importance, keywords, study_note)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, NULLIF($6,''), NULLIF($7,''))
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, m.AppID, m.Category, m.Title, m.Content, m.Importance, m.Keywords, m.StudyNote).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

// GetByID returns a concept by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Concept, error) {
	const q = `SELECT ` + conceptColumns + ` FROM concepts WHERE id = $1`
	var m models.Concept
	if err := scanConcept(r.pool.QueryRow(ctx, q, id), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByApp returns concepts for an app, most important first, optionally
// filtered by category.
func (r *Repository) ListByApp(ctx context.Context, appID, category string) ([]models.Concept, error) {
	q := `SELECT ` + conceptColumns + ` FROM concepts WHERE app_id = $1`
	args := []interface{}{appID}
	if category != "" {
		q += ` AND category = $2`
		args = append(args, category)
	}
	q += ` ORDER BY importance DESC, created_at DESC`
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Concept
	for rows.Next() {
		var m models.Concept
		if err := scanConcept(rows, &m); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListAll returns every concept, newest first (admin listing).
func (r *Repository) ListAll(ctx context.Context) ([]models.Concept, error) {
	const q = `SELECT ` + conceptColumns + ` FROM concepts ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Concept
	for rows.Next() {
		var m models.Concept
		if err := scanConcept(rows, &m); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Update applies non-nil params to a concept and returns the updated record.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, category, title, content *string, importance *int, keywords, studyNote *string) (*models.Concept, error) {
	const q = `UPDATE concepts SET
		category = COALESCE($2, category),
		title = COALESCE($3, title),
		content = COALESCE($4, content),
		importance = COALESCE($5, importance),
		keywords = COALESCE($6, keywords),
		study_note = COALESCE($7, study_note),
		updated_at = NOW()
		WHERE id = $1
		RETURNING ` + conceptColumns
	var m models.Concept
	if err := scanConcept(r.pool.QueryRow(ctx, q, id, category, title, content, importance, keywords, studyNote), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Delete removes a concept by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM concepts WHERE id = $1`, id)
	return err
}

// Count returns the number of concepts.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM concepts`).Scan(&n)
	return n, err
}
