package apps

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmk-contents/backend/internal/models"
)

// ErrNotFound is returned when no app with the given bundle ID exists.
var ErrNotFound = errors.New("app not found")

// Repository handles app persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an app repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const appColumns = `bundle_id, app_name, COALESCE(app_name_full,''), COALESCE(description,''), COALESCE(description_full,''),
	categories, status, COALESCE(icon_url,''), COALESCE(app_store_url,''), rating, review_count, download_count, is_featured, created_at, updated_at`

func scanApp(row interface{ Scan(dest ...any) error }, a *models.App) error {
	return row.Scan(&a.BundleID, &a.AppName, &a.AppNameFull, &a.Description, &a.DescriptionFull,
		&a.Categories, &a.Status, &a.IconURL, &a.AppStoreURL, &a.Rating, &a.ReviewCount, &a.DownloadCount, &a.IsFeatured, &a.CreatedAt, &a.UpdatedAt)
}

// Create inserts a new app. The bundle ID is caller-assigned and immutable.
func (r *Repository) Create(ctx context.Context, a *models.App) error {
	const q = `INSERT INTO apps (bundle_id, app_name, app_name_full, description, description_full, categories, status, icon_url, app_store_url, rating, review_count, download_count, is_featured)
		VALUES ($1, $2, NULLIF($3,''), NULLIF($4,''), NULLIF($5,''), $6, $7, NULLIF($8,''), NULLIF($9,''), $10, $11, $12, $13)
		RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, q, a.BundleID, a.AppName, a.AppNameFull, a.Description, a.DescriptionFull,
		a.Categories, a.Status, a.IconURL, a.AppStoreURL, a.Rating, a.ReviewCount, a.DownloadCount, a.IsFeatured).
		Scan(&a.CreatedAt, &a.UpdatedAt)
}

// GetByBundleID returns an app by bundle ID, any status.
func (r *Repository) GetByBundleID(ctx context.Context, bundleID string) (*models.App, error) {
	const q = `SELECT ` + appColumns + ` FROM apps WHERE bundle_id = $1`
	var a models.App
	err := scanApp(r.pool.QueryRow(ctx, q, bundleID), &a)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetPublished returns a published app by bundle ID.
func (r *Repository) GetPublished(ctx context.Context, bundleID string) (*models.App, error) {
	a, err := r.GetByBundleID(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	if a.Status != models.AppStatusPublished {
		return nil, ErrNotFound
	}
	return a, nil
}

// ListPublished returns published apps, newest first, optionally filtered by category.
func (r *Repository) ListPublished(ctx context.Context, category string) ([]models.App, error) {
	q := `SELECT ` + appColumns + ` FROM apps WHERE status = 'published'`
	var args []interface{}
	if category != "" {
		q += ` AND $1 = ANY(categories)`
		args = append(args, category)
	}
	q += ` ORDER BY created_at DESC`
	return r.list(ctx, q, args...)
}

// ListFeatured returns the top published apps by rating then downloads.
func (r *Repository) ListFeatured(ctx context.Context, limit int) ([]models.App, error) {
	if limit <= 0 {
		limit = 3
	}
	const q = `SELECT ` + appColumns + ` FROM apps WHERE status = 'published'
		ORDER BY rating DESC, download_count DESC LIMIT $1`
	return r.list(ctx, q, limit)
}

// ListAll returns every app regardless of status (admin listing).
func (r *Repository) ListAll(ctx context.Context) ([]models.App, error) {
	const q = `SELECT ` + appColumns + ` FROM apps ORDER BY created_at DESC`
	return r.list(ctx, q)
}

func (r *Repository) list(ctx context.Context, q string, args ...interface{}) ([]models.App, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.App
	for rows.Next() {
		var a models.App
		if err := scanApp(rows, &a); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// UpdateParams holds the mutable app fields. The bundle ID itself is never
// updatable.
type UpdateParams struct {
	AppName         *string
	AppNameFull     *string
	Description     *string
	DescriptionFull *string
	Categories      []string
	Status          *models.AppStatus
	IconURL         *string
	AppStoreURL     *string
	Rating          *float64
	ReviewCount     *int
	DownloadCount   *int
	IsFeatured      *bool
}

// Update applies params to an app and returns the updated record.
func (r *Repository) Update(ctx context.Context, bundleID string, p UpdateParams) (*models.App, error) {
	const q = `UPDATE apps SET
		app_name = COALESCE($2, app_name),
		app_name_full = COALESCE($3, app_name_full),
		description = COALESCE($4, description),
		description_full = COALESCE($5, description_full),
		categories = COALESCE($6, categories),
		status = COALESCE($7, status),
		icon_url = COALESCE($8, icon_url),
		app_store_url = COALESCE($9, app_store_url),
		rating = COALESCE($10, rating),
		review_count = COALESCE($11, review_count),
		download_count = COALESCE($12, download_count),
		is_featured = COALESCE($13, is_featured),
		updated_at = NOW()
		WHERE bundle_id = $1
		RETURNING ` + appColumns
	var a models.App
	err := scanApp(r.pool.QueryRow(ctx, q, bundleID, p.AppName, p.AppNameFull, p.Description, p.DescriptionFull,
		p.Categories, p.Status, p.IconURL, p.AppStoreURL, p.Rating, p.ReviewCount, p.DownloadCount, p.IsFeatured), &a)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// IncrementDownloadCount bumps the download counter with a store-side
// atomic increment so concurrent writers never lose updates.
func (r *Repository) IncrementDownloadCount(ctx context.Context, bundleID string) error {
	const q = `UPDATE apps SET download_count = download_count + 1, updated_at = NOW() WHERE bundle_id = $1`
	tag, err := r.pool.Exec(ctx, q, bundleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of apps.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM apps`).Scan(&n)
	return n, err
}
