package ads

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmk-contents/backend/internal/models"
)

// Repository handles affiliate ad persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an affiliate ad repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const adColumns = `id, ad_type, title, image_url, link_url, is_active, priority,
	start_date, end_date, impressions, clicks, app_ids, COALESCE(experiment_group,''), created_at, updated_at`

func scanAd(row interface{ Scan(dest ...any) error }, a *models.AffiliateAd) error {
	return row.Scan(&a.ID, &a.Type, &a.Title, &a.ImageURL, &a.LinkURL, &a.IsActive, &a.Priority,
		&a.StartDate, &a.EndDate, &a.Impressions, &a.Clicks, &a.AppIDs, &a.ExperimentGroup, &a.CreatedAt, &a.UpdatedAt)
}

// Create inserts a new affiliate ad. Counters start at zero.
func (r *Repository) Create(ctx context.Context, a *models.AffiliateAd) error {
	const q = `INSERT INTO affiliate_ads (id, ad_type, title, image_url, link_url, is_active, priority, start_date, end_date, app_ids, experiment_group)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10,''))
		RETURNING id, impressions, clicks, created_at, updated_at`
	if len(a.AppIDs) == 0 {
		a.AppIDs = []string{models.TargetAll}
	}
	return r.pool.QueryRow(ctx, q, a.Type, a.Title, a.ImageURL, a.LinkURL, a.IsActive, a.Priority,
		a.StartDate, a.EndDate, a.AppIDs, a.ExperimentGroup).
		Scan(&a.ID, &a.Impressions, &a.Clicks, &a.CreatedAt, &a.UpdatedAt)
}

// GetByID returns an affiliate ad by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.AffiliateAd, error) {
	const q = `SELECT ` + adColumns + ` FROM affiliate_ads WHERE id = $1`
	var a models.AffiliateAd
	if err := scanAd(r.pool.QueryRow(ctx, q, id), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns all affiliate ads, newest first.
func (r *Repository) List(ctx context.Context) ([]models.AffiliateAd, error) {
	const q = `SELECT ` + adColumns + ` FROM affiliate_ads ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.AffiliateAd
	for rows.Next() {
		var a models.AffiliateAd
		if err := scanAd(rows, &a); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// UpdateParams holds the mutable affiliate ad fields. Nil pointers leave
// the stored value untouched; the counters are never writable through here.
type UpdateParams struct {
	Type            *models.AdType
	Title           *string
	ImageURL        *string
	LinkURL         *string
	IsActive        *bool
	Priority        *int
	StartDate       *time.Time
	EndDate         *time.Time
	ClearStartDate  bool
	ClearEndDate    bool
	AppIDs          []string
	ExperimentGroup *string
}

// Update applies params to an ad and returns the updated record.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.AffiliateAd, error) {
	const q = `UPDATE affiliate_ads SET
		ad_type = COALESCE($2, ad_type),
		title = COALESCE($3, title),
		image_url = COALESCE($4, image_url),
		link_url = COALESCE($5, link_url),
		is_active = COALESCE($6, is_active),
		priority = COALESCE($7, priority),
		start_date = CASE WHEN $8 THEN NULL ELSE COALESCE($9, start_date) END,
		end_date = CASE WHEN $10 THEN NULL ELSE COALESCE($11, end_date) END,
		app_ids = COALESCE($12, app_ids),
		experiment_group = CASE WHEN $13::text IS NULL THEN experiment_group ELSE NULLIF($13,'') END,
		updated_at = NOW()
		WHERE id = $1
		RETURNING ` + adColumns
	var a models.AffiliateAd
	err := scanAd(r.pool.QueryRow(ctx, q, id, p.Type, p.Title, p.ImageURL, p.LinkURL, p.IsActive, p.Priority,
		p.ClearStartDate, p.StartDate, p.ClearEndDate, p.EndDate, p.AppIDs, p.ExperimentGroup), &a)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ToggleActive flips is_active for an ad and returns the new state.
func (r *Repository) ToggleActive(ctx context.Context, id uuid.UUID) (bool, error) {
	const q = `UPDATE affiliate_ads SET is_active = NOT is_active, updated_at = NOW() WHERE id = $1 RETURNING is_active`
	var active bool
	if err := r.pool.QueryRow(ctx, q, id).Scan(&active); err != nil {
		return false, err
	}
	return active, nil
}

// Delete removes an ad by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM affiliate_ads WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}

// IncrementImpressions bumps the impression counter with a store-side
// atomic increment, so concurrent trackers never lose updates.
func (r *Repository) IncrementImpressions(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE affiliate_ads SET impressions = impressions + 1, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}

// IncrementClicks bumps the click counter atomically in the store.
func (r *Repository) IncrementClicks(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE affiliate_ads SET clicks = clicks + 1, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}

// Count returns the number of affiliate ads.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM affiliate_ads`).Scan(&n)
	return n, err
}
