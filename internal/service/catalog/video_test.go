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

type mockVideoRepo struct {
	InsertFunc func(ctx context.Context, v *domain.Video) error
	DeleteFunc func(ctx context.Context, id string) error

	insertCalls int
}

func (m *mockVideoRepo) Insert(ctx context.Context, v *domain.Video) error {
	m.insertCalls++
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, v)
	}
	return nil
}

func (m *mockVideoRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

type mockRelationResolver struct {
	ResolveCategoriesFunc  func(ctx context.Context, ids []string) ([]domain.NestedCategory, error)
	ResolveGenresFunc      func(ctx context.Context, ids []string) ([]domain.NestedGenre, error)
	ResolveCastMembersFunc func(ctx context.Context, ids []string) ([]domain.NestedCastMember, error)
}

func (m *mockRelationResolver) ResolveCategories(ctx context.Context, ids []string) ([]domain.NestedCategory, error) {
	if m.ResolveCategoriesFunc != nil {
		return m.ResolveCategoriesFunc(ctx, ids)
	}
	return []domain.NestedCategory{{ID: ids[0]}}, nil
}

func (m *mockRelationResolver) ResolveGenres(ctx context.Context, ids []string) ([]domain.NestedGenre, error) {
	if m.ResolveGenresFunc != nil {
		return m.ResolveGenresFunc(ctx, ids)
	}
	return []domain.NestedGenre{{ID: ids[0]}}, nil
}

func (m *mockRelationResolver) ResolveCastMembers(ctx context.Context, ids []string) ([]domain.NestedCastMember, error) {
	if m.ResolveCastMembersFunc != nil {
		return m.ResolveCastMembersFunc(ctx, ids)
	}
	return []domain.NestedCastMember{{ID: ids[0]}}, nil
}

func validVideoInput() SaveVideoInput {
	return SaveVideoInput{
		ID:            "7f1d7a4e-1e4b-4d2c-8a3f-222222222222",
		Title:         "The Big Lebowski",
		Description:   "A case of mistaken identity.",
		LaunchYear:    1998,
		Rating:        "16",
		Duration:      117,
		Opened:        true,
		Published:     true,
		CreatedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		CategoryIDs:   []string{"c1"},
		GenreIDs:      []string{"g1"},
		CastMemberIDs: []string{"m1"},
	}
}

func TestVideoService_Save_ResolvesAllThreeRelations(t *testing.T) {
	t.Parallel()

	var written *domain.Video
	repo := &mockVideoRepo{
		InsertFunc: func(_ context.Context, v *domain.Video) error {
			written = v
			return nil
		},
	}
	svc := NewVideoService(slog.Default(), repo, &mockRelationResolver{})

	require.NoError(t, svc.Save(context.Background(), validVideoInput()))
	require.NotNil(t, written)
	assert.Len(t, written.Categories, 1)
	assert.Len(t, written.Genres, 1)
	assert.Len(t, written.CastMembers, 1)
	assert.Equal(t, domain.Rating16, written.Rating)
}

func TestVideoService_Save_GenreResolutionFailureAbortsAll(t *testing.T) {
	t.Parallel()

	repo := &mockVideoRepo{}
	resolver := &mockRelationResolver{
		ResolveGenresFunc: func(context.Context, []string) ([]domain.NestedGenre, error) {
			return nil, domain.NewValidationError("genres_id", "genre g1 not found")
		},
	}
	svc := NewVideoService(slog.Default(), repo, resolver)

	err := svc.Save(context.Background(), validVideoInput())
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, repo.insertCalls, "partially resolved data must never be persisted")
}

func TestVideoService_Save_InvalidInputCollectsErrors(t *testing.T) {
	t.Parallel()

	svc := NewVideoService(slog.Default(), &mockVideoRepo{}, &mockRelationResolver{})

	in := validVideoInput()
	in.Title = ""
	in.Rating = "PG-13"
	in.CastMemberIDs = nil

	err := svc.Save(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrValidation)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 3)
}

func TestVideoService_Delete_HardDeletes(t *testing.T) {
	t.Parallel()

	var deletedID string
	repo := &mockVideoRepo{
		DeleteFunc: func(_ context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	svc := NewVideoService(slog.Default(), repo, &mockRelationResolver{})

	require.NoError(t, svc.Delete(context.Background(), "v1"))
	assert.Equal(t, "v1", deletedID)
}

func TestVideoService_Delete_NotFoundBubbles(t *testing.T) {
	t.Parallel()

	repo := &mockVideoRepo{
		DeleteFunc: func(_ context.Context, id string) error {
			return domain.NewNotFoundError("Video", id)
		},
	}
	svc := NewVideoService(slog.Default(), repo, &mockRelationResolver{})

	err := svc.Delete(context.Background(), "v1")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
