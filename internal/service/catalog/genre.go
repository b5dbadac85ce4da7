package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/flixhub/catalog-search/internal/domain"
)

type genreRepo interface {
	Insert(ctx context.Context, genre *domain.Genre) error
	FindByID(ctx context.Context, id string) (*domain.Genre, error)
}

type categoryResolver interface {
	ResolveCategories(ctx context.Context, ids []string) ([]domain.NestedCategory, error)
}

// GenreService applies genre CDC events to the search projection.
type GenreService struct {
	repo     genreRepo
	resolver categoryResolver
	log      *slog.Logger
	now      func() time.Time
}

// NewGenreService creates a GenreService.
func NewGenreService(log *slog.Logger, repo genreRepo, resolver categoryResolver) *GenreService {
	return &GenreService{
		repo:     repo,
		resolver: resolver,
		log:      log.With("service", "genre"),
		now:      time.Now,
	}
}

// Save upserts a genre document. Every save re-resolves the embedded
// category snapshots from the category repository's current state and
// replaces the nested array wholesale; this is the only mechanism that
// refreshes a genre's snapshots.
func (s *GenreService) Save(ctx context.Context, in SaveGenreInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	categories, err := s.resolver.ResolveCategories(ctx, in.CategoryIDs)
	if err != nil {
		return err
	}

	genre := &domain.Genre{
		ID:         in.ID,
		Name:       in.Name,
		IsActive:   in.IsActive,
		CreatedAt:  in.CreatedAt,
		Categories: categories,
	}

	if err := s.repo.Insert(ctx, genre); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "genre saved",
		slog.String("id", in.ID),
		slog.Int("categories", len(categories)),
	)
	return nil
}

// AddCategory appends one category snapshot to an existing genre. A
// narrower companion to the wholesale replace in Save, meant for
// single-item edits.
func (s *GenreService) AddCategory(ctx context.Context, genreID, categoryID string) error {
	genre, err := s.repo.FindByID(ctx, genreID)
	if err != nil {
		return err
	}
	if genre == nil {
		return domain.NewNotFoundError(string(domain.TypeGenre), genreID)
	}

	for _, c := range genre.Categories {
		if c.ID == categoryID {
			return nil
		}
	}

	snapshots, err := s.resolver.ResolveCategories(ctx, []string{categoryID})
	if err != nil {
		return err
	}
	genre.Categories = append(genre.Categories, snapshots...)

	return s.repo.Insert(ctx, genre)
}

// RemoveCategory removes one category snapshot from an existing genre.
// Removing the last snapshot is rejected: a non-deleted genre must keep at
// least one category.
func (s *GenreService) RemoveCategory(ctx context.Context, genreID, categoryID string) error {
	genre, err := s.repo.FindByID(ctx, genreID)
	if err != nil {
		return err
	}
	if genre == nil {
		return domain.NewNotFoundError(string(domain.TypeGenre), genreID)
	}

	kept := genre.Categories[:0:0]
	for _, c := range genre.Categories {
		if c.ID != categoryID {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(genre.Categories) {
		return nil
	}
	if len(kept) == 0 {
		return domain.NewValidationError("categories_id", "cannot remove the last category of a genre")
	}
	genre.Categories = kept

	return s.repo.Insert(ctx, genre)
}

// Delete soft-deletes a genre. Idempotent for already-deleted genres.
func (s *GenreService) Delete(ctx context.Context, id string) error {
	genre, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if genre == nil {
		return domain.NewNotFoundError(string(domain.TypeGenre), id)
	}
	if genre.IsDeleted() {
		return nil
	}

	deletedAt := s.now().UTC()
	genre.DeletedAt = &deletedAt

	if err := s.repo.Insert(ctx, genre); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "genre soft-deleted", slog.String("id", id))
	return nil
}
