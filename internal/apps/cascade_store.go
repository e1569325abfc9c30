package apps

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Repository implements CascadeStore so the cascade deleter can run
// directly against PostgreSQL.

// AppExists reports whether an app with bundleID exists, any status.
func (r *Repository) AppExists(ctx context.Context, bundleID string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM apps WHERE bundle_id = $1)`
	var exists bool
	err := r.pool.QueryRow(ctx, q, bundleID).Scan(&exists)
	return exists, err
}

// ListDependents returns the complete set of concept and lecture IDs
// referencing the app. No pagination: the whole set is read before any
// delete so progress reporting stays exact.
func (r *Repository) ListDependents(ctx context.Context, bundleID string) ([]DependentRef, error) {
	var refs []DependentRef
	for kind, table := range map[DependentKind]string{
		DependentConcept: "concepts",
		DependentLecture: "lectures",
	} {
		rows, err := r.pool.Query(ctx, fmt.Sprintf(`SELECT id FROM %s WHERE app_id = $1`, table), bundleID)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var id uuid.UUID
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, err
			}
			refs = append(refs, DependentRef{Kind: kind, ID: id})
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	return refs, nil
}

// DeleteDependents removes the given refs in one transaction, so each
// batch commits atomically even when it spans both child tables.
func (r *Repository) DeleteDependents(ctx context.Context, refs []DependentRef) error {
	if len(refs) == 0 {
		return nil
	}
	var conceptIDs, lectureIDs []uuid.UUID
	for _, ref := range refs {
		switch ref.Kind {
		case DependentConcept:
			conceptIDs = append(conceptIDs, ref.ID)
		case DependentLecture:
			lectureIDs = append(lectureIDs, ref.ID)
		}
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if len(conceptIDs) > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM concepts WHERE id = ANY($1)`, conceptIDs); err != nil {
			return fmt.Errorf("delete concepts: %w", err)
		}
	}
	if len(lectureIDs) > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM lectures WHERE id = ANY($1)`, lectureIDs); err != nil {
			return fmt.Errorf("delete lectures: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// DeleteApp removes the app record itself.
func (r *Repository) DeleteApp(ctx context.Context, bundleID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM apps WHERE bundle_id = $1`, bundleID)
	return err
}
