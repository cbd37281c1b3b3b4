package usecases_test

import (
	"context"
	"testing"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
	"github.com/samirrijal/nearmeconnect/internal/core/usecases"
)

func TestCategoryService_ListIsCached(t *testing.T) {
	calls := 0
	repo := &mockCategoryRepo{listFn: func(ctx context.Context) ([]domain.Category, error) {
		calls++
		return []domain.Category{{ID: 1, Name: "Electrician"}, {ID: 2, Name: "Plumber"}}, nil
	}}
	svc := usecases.NewCategoryService(repo, newMockCache())

	for i := 0; i < 3; i++ {
		c, all, err := svc.Match(context.Background(), "PLUMBER")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c == nil || c.ID != 2 || len(all) != 2 {
			t.Fatalf("unexpected match %+v from %+v", c, all)
		}
	}
	if calls != 1 {
		t.Errorf("expected one repository read, got %d", calls)
	}
}

func TestCategoryService_WritesInvalidateCache(t *testing.T) {
	calls := 0
	repo := &mockCategoryRepo{listFn: func(ctx context.Context) ([]domain.Category, error) {
		calls++
		return []domain.Category{{ID: 1, Name: "Electrician"}}, nil
	}}
	cache := newMockCache()
	svc := usecases.NewCategoryService(repo, cache)
	ctx := context.Background()

	writes := []struct {
		name string
		do   func() error
	}{
		{"create", func() error { _, err := svc.Create(ctx, "Tutor"); return err }},
		{"update", func() error { _, err := svc.Update(ctx, 1, "Electricians"); return err }},
		{"delete", func() error { return svc.Delete(ctx, 1) }},
	}
	for _, w := range writes {
		if _, err := svc.List(ctx); err != nil {
			t.Fatalf("%s: %v", w.name, err)
		}
		if err := w.do(); err != nil {
			t.Fatalf("%s: %v", w.name, err)
		}
		if _, ok := cache.data["categories:all"]; ok {
			t.Errorf("%s: expected cached list to be dropped", w.name)
		}
		before := calls
		if _, err := svc.List(ctx); err != nil {
			t.Fatalf("%s: %v", w.name, err)
		}
		if calls != before+1 {
			t.Errorf("%s: expected a fresh repository read", w.name)
		}
	}
}

func TestCategoryService_CreateRejectsBlankName(t *testing.T) {
	svc := usecases.NewCategoryService(&mockCategoryRepo{}, nil)
	if _, err := svc.Create(context.Background(), "   "); err == nil {
		t.Fatal("expected an error for a blank name")
	}
}
