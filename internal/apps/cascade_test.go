package apps

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

type fakeCascadeStore struct {
	exists     bool
	refs       []DependentRef
	batches    [][]DependentRef
	failBatch  int // 1-based batch number to fail on; 0 = never
	failParent bool
	appDeleted bool
}

func (f *fakeCascadeStore) AppExists(ctx context.Context, bundleID string) (bool, error) {
	return f.exists, nil
}

func (f *fakeCascadeStore) ListDependents(ctx context.Context, bundleID string) ([]DependentRef, error) {
	return f.refs, nil
}

func (f *fakeCascadeStore) DeleteDependents(ctx context.Context, refs []DependentRef) error {
	if f.failBatch > 0 && len(f.batches)+1 == f.failBatch {
		return fmt.Errorf("store unavailable")
	}
	batch := make([]DependentRef, len(refs))
	copy(batch, refs)
	f.batches = append(f.batches, batch)
	return nil
}

func (f *fakeCascadeStore) DeleteApp(ctx context.Context, bundleID string) error {
	if f.failParent {
		return fmt.Errorf("store unavailable")
	}
	f.appDeleted = true
	return nil
}

func makeRefs(n int) []DependentRef {
	refs := make([]DependentRef, n)
	for i := range refs {
		kind := DependentConcept
		if i%2 == 1 {
			kind = DependentLecture
		}
		refs[i] = DependentRef{Kind: kind, ID: uuid.New()}
	}
	return refs
}

func TestCascadeDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("missing app returns not found before side effects", func(t *testing.T) {
		store := &fakeCascadeStore{exists: false, refs: makeRefs(3)}
		deleter := NewCascadeDeleter(store, nil)

		if _, err := deleter.Delete(ctx, "com.example.gone"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
		if len(store.batches) != 0 || store.appDeleted {
			t.Error("side effects on a missing app")
		}
	})

	t.Run("deletes mixed dependents and the app", func(t *testing.T) {
		store := &fakeCascadeStore{exists: true, refs: makeRefs(5)} // 3 concepts, 2 lectures
		deleter := NewCascadeDeleter(store, nil)

		deleted, err := deleter.Delete(ctx, "com.example.indsafety")
		if err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if deleted != 5 {
			t.Errorf("deleted = %d, want 5", deleted)
		}
		if len(store.batches) != 1 {
			t.Errorf("batches = %d, want 1", len(store.batches))
		}
		if !store.appDeleted {
			t.Error("app record not deleted")
		}
	})

	t.Run("no dependents still deletes the app", func(t *testing.T) {
		store := &fakeCascadeStore{exists: true}
		deleter := NewCascadeDeleter(store, nil)

		deleted, err := deleter.Delete(ctx, "com.example.empty")
		if err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if deleted != 0 {
			t.Errorf("deleted = %d, want 0", deleted)
		}
		if len(store.batches) != 0 {
			t.Errorf("batches = %d, want 0", len(store.batches))
		}
		if !store.appDeleted {
			t.Error("app record not deleted")
		}
	})

	t.Run("chunks large dependent sets", func(t *testing.T) {
		store := &fakeCascadeStore{exists: true, refs: makeRefs(1200)}
		deleter := NewCascadeDeleter(store, nil)

		deleted, err := deleter.Delete(ctx, "com.example.big")
		if err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if deleted != 1200 {
			t.Errorf("deleted = %d, want 1200", deleted)
		}
		wantSizes := []int{500, 500, 200}
		if len(store.batches) != len(wantSizes) {
			t.Fatalf("batches = %d, want %d", len(store.batches), len(wantSizes))
		}
		for i, want := range wantSizes {
			if len(store.batches[i]) != want {
				t.Errorf("batch %d size = %d, want %d", i, len(store.batches[i]), want)
			}
		}
	})

	t.Run("mid-cascade failure reports committed count", func(t *testing.T) {
		store := &fakeCascadeStore{exists: true, refs: makeRefs(1200), failBatch: 2}
		deleter := NewCascadeDeleter(store, nil)

		deleted, err := deleter.Delete(ctx, "com.example.big")
		var partial *PartialDeleteError
		if !errors.As(err, &partial) {
			t.Fatalf("err = %v, want PartialDeleteError", err)
		}
		if deleted != 500 || partial.Deleted != 500 {
			t.Errorf("deleted = %d/%d, want 500", deleted, partial.Deleted)
		}
		if store.appDeleted {
			t.Error("app deleted despite failed dependent batch")
		}
	})

	t.Run("parent delete failure reports full dependent count", func(t *testing.T) {
		store := &fakeCascadeStore{exists: true, refs: makeRefs(10), failParent: true}
		deleter := NewCascadeDeleter(store, nil)

		deleted, err := deleter.Delete(ctx, "com.example.app")
		var partial *PartialDeleteError
		if !errors.As(err, &partial) {
			t.Fatalf("err = %v, want PartialDeleteError", err)
		}
		if deleted != 10 || partial.Deleted != 10 {
			t.Errorf("deleted = %d/%d, want 10", deleted, partial.Deleted)
		}
	})
}
