package memory

import (
	"context"
	"errors"
	"testing"

	"placement-readiness/internal/shared/storage/object"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.Get(ctx, "history"); !errors.Is(err, object.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}

	payload := []byte(`[1,2,3]`)
	if err := s.Put(ctx, "history", "application/json", payload); err != nil {
		t.Fatalf("Put: %v", err)
	}
	payload[0] = 'x'

	got, err := s.Get(ctx, "history")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `[1,2,3]` {
		t.Fatalf("unexpected payload %q", got)
	}

	if err := s.Delete(ctx, "history"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "history"); !errors.Is(err, object.ErrNotExist) {
		t.Fatalf("expected ErrNotExist after delete, got %v", err)
	}
	if err := s.Delete(ctx, "history"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
}

func TestStoreHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := New().Put(ctx, "k", "", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
