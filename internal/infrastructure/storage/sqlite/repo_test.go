package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestRecordAndListPrices(t *testing.T) {
	repo, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	if err := repo.RecordPrice(ctx, "mintA", "AAA", 10.5, 1000); err != nil {
		t.Fatalf("RecordPrice failed: %v", err)
	}
	if err := repo.RecordPrice(ctx, "mintA", "AAA", 11.0, 2000); err != nil {
		t.Fatalf("RecordPrice failed: %v", err)
	}
	if err := repo.RecordPrice(ctx, "mintB", "BBB", 1.0, 1500); err != nil {
		t.Fatalf("RecordPrice failed: %v", err)
	}

	points, err := repo.ListPrices(ctx, "mintA", 10)
	if err != nil {
		t.Fatalf("ListPrices failed: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	// newest first
	if points[0].Ts != 2000 || points[0].Price != 11.0 {
		t.Errorf("first = %+v", points[0])
	}
	if points[1].Ts != 1000 || points[1].Price != 10.5 {
		t.Errorf("second = %+v", points[1])
	}
}

func TestListPricesHonorsLimit(t *testing.T) {
	repo, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := repo.RecordPrice(ctx, "mintA", "AAA", float64(i), int64(i)); err != nil {
			t.Fatalf("RecordPrice failed: %v", err)
		}
	}

	points, err := repo.ListPrices(ctx, "mintA", 3)
	if err != nil {
		t.Fatalf("ListPrices failed: %v", err)
	}
	if len(points) != 3 {
		t.Errorf("got %d points, want 3", len(points))
	}
}

func TestListPricesUnknownMint(t *testing.T) {
	repo, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	defer repo.Close()

	points, err := repo.ListPrices(context.Background(), "missing", 10)
	if err != nil {
		t.Fatalf("ListPrices failed: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("got %d points, want 0", len(points))
	}
}
