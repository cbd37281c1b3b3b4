package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
	"github.com/samirrijal/nearmeconnect/internal/core/ports"
)

const (
	categoriesKey = "categories:all"
	categoriesTTL = 10 * 60
)

// CategoryService handles service categories. The full list is cached since
// every discovery call validates against it.
type CategoryService struct {
	categories ports.CategoryRepository
	cache      ports.CacheService
}

// NewCategoryService creates a new CategoryService. cache may be nil.
func NewCategoryService(categories ports.CategoryRepository, cache ports.CacheService) *CategoryService {
	return &CategoryService{categories: categories, cache: cache}
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	var all []domain.Category
	if cacheGet(ctx, s.cache, "categories", categoriesKey, &all) {
		return all, nil
	}
	all, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	cacheSet(ctx, s.cache, "categories", categoriesKey, all, categoriesTTL)
	return all, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", domain.ErrInvalidInput)
	}
	c := &domain.Category{Name: name}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", domain.ErrInvalidInput)
	}
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = name
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	cacheDelete(ctx, s.cache, "categories", categoriesKey)
}

// Match finds the category whose name equals name case-insensitively.
// It returns the matched category (nil if none) and every known category.
func (s *CategoryService) Match(ctx context.Context, name string) (*domain.Category, []domain.Category, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	for i := range all {
		if strings.EqualFold(all[i].Name, name) {
			return &all[i], all, nil
		}
	}
	return nil, all, nil
}
