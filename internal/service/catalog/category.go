package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/flixhub/catalog-search/internal/domain"
)

type categoryRepo interface {
	Insert(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id string) (*domain.Category, error)
}

// CategoryService applies category CDC events to the search projection.
type CategoryService struct {
	repo categoryRepo
	log  *slog.Logger
	now  func() time.Time
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(log *slog.Logger, repo categoryRepo) *CategoryService {
	return &CategoryService{
		repo: repo,
		log:  log.With("service", "category"),
		now:  time.Now,
	}
}

// Save upserts a category document from a full row image. Create and
// update converge on the same write, which keeps at-least-once delivery
// harmless.
func (s *CategoryService) Save(ctx context.Context, in SaveCategoryInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	category := &domain.Category{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		IsActive:    in.IsActive,
		CreatedAt:   in.CreatedAt,
	}

	if err := s.repo.Insert(ctx, category); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "category saved", slog.String("id", in.ID))
	return nil
}

// Delete soft-deletes a category: the document stays in the index with a
// deleted_at timestamp and disappears from scoped queries. Deleting an
// already-deleted category is a no-op so redelivery converges.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.NewNotFoundError(string(domain.TypeCategory), id)
	}
	if category.IsDeleted() {
		return nil
	}

	deletedAt := s.now().UTC()
	category.DeletedAt = &deletedAt

	if err := s.repo.Insert(ctx, category); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "category soft-deleted", slog.String("id", id))
	return nil
}
