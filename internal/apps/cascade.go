package apps

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeleteBatchLimit is the ceiling on records per delete batch, imposed by
// the store's per-batch operation limit.
const DeleteBatchLimit = 500

// DependentKind names the child collections an app owns.
type DependentKind string

const (
	DependentConcept DependentKind = "concept"
	DependentLecture DependentKind = "lecture"
)

// DependentRef identifies one child record of an app.
type DependentRef struct {
	Kind DependentKind
	ID   uuid.UUID
}

// CascadeStore is the storage surface the cascade coordinator drives.
// DeleteDependents must commit the given refs as one atomic batch; batches
// are otherwise independent, there is no cross-batch rollback.
type CascadeStore interface {
	AppExists(ctx context.Context, bundleID string) (bool, error)
	ListDependents(ctx context.Context, bundleID string) ([]DependentRef, error)
	DeleteDependents(ctx context.Context, refs []DependentRef) error
	DeleteApp(ctx context.Context, bundleID string) error
}

// PartialDeleteError reports a cascade that failed after removing some
// dependents. Deleted is the count already committed; earlier batches are
// not rolled back and the operator re-invokes the delete to finish.
type PartialDeleteError struct {
	BundleID string
	Deleted  int
	Err      error
}

func (e *PartialDeleteError) Error() string {
	return fmt.Sprintf("cascade delete %s: removed %d dependents, then: %v", e.BundleID, e.Deleted, e.Err)
}

func (e *PartialDeleteError) Unwrap() error { return e.Err }

// CascadeDeleter removes an app together with every concept and lecture
// that references it, batching dependent deletes under DeleteBatchLimit.
type CascadeDeleter struct {
	store     CascadeStore
	batchSize int
	logger    *zap.Logger
}

// NewCascadeDeleter creates a cascade deleter over the given store.
func NewCascadeDeleter(store CascadeStore, logger *zap.Logger) *CascadeDeleter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CascadeDeleter{store: store, batchSize: DeleteBatchLimit, logger: logger}
}

// Delete removes the app with bundleID and all its dependents. It returns
// the number of dependent records removed. ErrNotFound is returned before
// any side effect when the app does not exist, so a repeat call after
// success fails rather than silently succeeding. The full dependent set is
// fetched up front so the reported count cannot go stale mid-delete.
func (d *CascadeDeleter) Delete(ctx context.Context, bundleID string) (int, error) {
	exists, err := d.store.AppExists(ctx, bundleID)
	if err != nil {
		return 0, fmt.Errorf("check app: %w", err)
	}
	if !exists {
		return 0, ErrNotFound
	}

	refs, err := d.store.ListDependents(ctx, bundleID)
	if err != nil {
		return 0, fmt.Errorf("list dependents: %w", err)
	}

	deleted := 0
	for start := 0; start < len(refs); start += d.batchSize {
		end := start + d.batchSize
		if end > len(refs) {
			end = len(refs)
		}
		if err := d.store.DeleteDependents(ctx, refs[start:end]); err != nil {
			return deleted, &PartialDeleteError{BundleID: bundleID, Deleted: deleted, Err: err}
		}
		deleted += end - start
	}

	if err := d.store.DeleteApp(ctx, bundleID); err != nil {
		return deleted, &PartialDeleteError{BundleID: bundleID, Deleted: deleted, Err: err}
	}

	d.logger.Info("app cascade deleted",
		zap.String("bundle_id", bundleID),
		zap.Int("deleted_dependents", deleted),
	)
	return deleted, nil
}
