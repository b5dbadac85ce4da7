package catalog

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flixhub/catalog-search/internal/domain"
)

type mockCategoryResolver struct {
	ResolveCategoriesFunc func(ctx context.Context, ids []string) ([]domain.NestedCategory, error)
}

func (m *mockCategoryResolver) ResolveCategories(ctx context.Context, ids []string) ([]domain.NestedCategory, error) {
	return m.ResolveCategoriesFunc(ctx, ids)
}

func newGenreService(repo *mockGenreRepo, resolver categoryResolver) *GenreService {
	svc := NewGenreService(slog.Default(), repo, resolver)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func validGenreInput() SaveGenreInput {
	return SaveGenreInput{
		ID:          "0b9f2c7e-65b0-4c9a-9d3a-111111111111",
		Name:        "Action",
		IsActive:    true,
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		CategoryIDs: []string{"c1"},
	}
}

func TestGenreService_Save_ReplacesSnapshotsWholesale(t *testing.T) {
	t.Parallel()

	var written *domain.Genre
	repo := &mockGenreRepo{
		InsertFunc: func(_ context.Context, g *domain.Genre) error {
			written = g
			return nil
		},
	}
	resolver := &mockCategoryResolver{
		ResolveCategoriesFunc: func(_ context.Context, ids []string) ([]domain.NestedCategory, error) {
			out := make([]domain.NestedCategory, len(ids))
			for i, id := range ids {
				out[i] = domain.NestedCategory{ID: id, Name: "cat-" + id, IsActive: true}
			}
			return out, nil
		},
	}
	svc := newGenreService(repo, resolver)

	in := validGenreInput()
	in.CategoryIDs = []string{"A", "B"}
	require.NoError(t, svc.Save(context.Background(), in))
	require.NotNil(t, written)
	require.Len(t, written.Categories, 2)

	// A second save with a different set replaces, never merges.
	in.CategoryIDs = []string{"C"}
	require.NoError(t, svc.Save(context.Background(), in))
	require.Len(t, written.Categories, 1)
	assert.Equal(t, "C", written.Categories[0].ID)
}

func TestGenreService_Save_ResolutionFailureAbortsWrite(t *testing.T) {
	t.Parallel()

	repo := &mockGenreRepo{}
	resolver := &mockCategoryResolver{
		ResolveCategoriesFunc: func(context.Context, []string) ([]domain.NestedCategory, error) {
			return nil, domain.NewValidationError("categories_id", "category missing-id not found")
		},
	}
	svc := newGenreService(repo, resolver)

	err := svc.Save(context.Background(), validGenreInput())
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, repo.insertCalls, "no partial write on resolution failure")
}

func TestGenreService_Save_InvalidInput(t *testing.T) {
	t.Parallel()

	svc := newGenreService(&mockGenreRepo{}, &mockCategoryResolver{})

	in := validGenreInput()
	in.ID = "not-a-uuid"
	in.Name = ""

	err := svc.Save(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrValidation)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 2, "field errors are collected, not fail-fast")
}

func TestGenreService_Delete_SoftDeletes(t *testing.T) {
	t.Parallel()

	existing := &domain.Genre{
		ID:         "g1",
		Name:       "Action",
		Categories: []domain.NestedCategory{{ID: "c1", Name: "Comedy"}},
	}
	var written *domain.Genre
	repo := &mockGenreRepo{
		FindByIDFunc: func(context.Context, string) (*domain.Genre, error) { return existing, nil },
		InsertFunc: func(_ context.Context, g *domain.Genre) error {
			written = g
			return nil
		},
	}
	svc := newGenreService(repo, &mockCategoryResolver{})

	require.NoError(t, svc.Delete(context.Background(), "g1"))
	require.NotNil(t, written)
	require.NotNil(t, written.DeletedAt)
	assert.Equal(t, 2024, written.DeletedAt.Year())
}

func TestGenreService_Delete_AlreadyDeletedIsNoop(t *testing.T) {
	t.Parallel()

	deletedAt := time.Now().UTC()
	repo := &mockGenreRepo{
		FindByIDFunc: func(context.Context, string) (*domain.Genre, error) {
			return &domain.Genre{ID: "g1", DeletedAt: &deletedAt}, nil
		},
	}
	svc := newGenreService(repo, &mockCategoryResolver{})

	require.NoError(t, svc.Delete(context.Background(), "g1"))
	assert.Zero(t, repo.insertCalls)
}

func TestGenreService_Delete_Missing(t *testing.T) {
	t.Parallel()

	svc := newGenreService(&mockGenreRepo{}, &mockCategoryResolver{})

	err := svc.Delete(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGenreService_RemoveCategory_LastOneRejected(t *testing.T) {
	t.Parallel()

	repo := &mockGenreRepo{
		FindByIDFunc: func(context.Context, string) (*domain.Genre, error) {
			return &domain.Genre{
				ID:         "g1",
				Categories: []domain.NestedCategory{{ID: "c1"}},
			}, nil
		},
	}
	svc := newGenreService(repo, &mockCategoryResolver{})

	err := svc.RemoveCategory(context.Background(), "g1", "c1")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, repo.insertCalls)
}

func TestGenreService_AddCategory_DuplicateIsNoop(t *testing.T) {
	t.Parallel()

	repo := &mockGenreRepo{
		FindByIDFunc: func(context.Context, string) (*domain.Genre, error) {
			return &domain.Genre{
				ID:         "g1",
				Categories: []domain.NestedCategory{{ID: "c1"}},
			}, nil
		},
	}
	svc := newGenreService(repo, &mockCategoryResolver{
		ResolveCategoriesFunc: func(context.Context, []string) ([]domain.NestedCategory, error) {
			t.Fatal("resolver should not be called for a duplicate add")
			return nil, nil
		},
	})

	require.NoError(t, svc.AddCategory(context.Background(), "g1", "c1"))
	assert.Zero(t, repo.insertCalls)
}
