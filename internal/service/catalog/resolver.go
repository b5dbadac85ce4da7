// Package catalog implements the aggregate save/delete use cases driven by
// CDC ingestion, including the relation resolver that rebuilds denormalized
// nested snapshots from their authoritative repositories.
package catalog

import (
	"context"
	"fmt"

	"github.com/flixhub/catalog-search/internal/domain"
)

// relatedRepo is the narrow view a resolver needs of a sibling aggregate's
// repository.
type relatedRepo[T any] interface {
	FindByIDs(ctx context.Context, ids []string) ([]*T, []string, error)
}

// Resolver rebuilds nested snapshot arrays from the current authoritative
// state of related aggregates. Resolution is wholesale: the returned slice
// completely replaces whatever the owning aggregate embedded before.
//
// Missing ids are collected, not fail-fast, so one round trip reports every
// problem.
type Resolver struct {
	categories  relatedRepo[domain.Category]
	genres      relatedRepo[domain.Genre]
	castMembers relatedRepo[domain.CastMember]
}

// NewResolver creates a Resolver over the three aggregate repositories.
// Repositories are consumed unscoped: snapshots of soft-deleted aggregates
// carry their deleted_at so the owning document reflects it.
func NewResolver(
	categories relatedRepo[domain.Category],
	genres relatedRepo[domain.Genre],
	castMembers relatedRepo[domain.CastMember],
) *Resolver {
	return &Resolver{
		categories:  categories,
		genres:      genres,
		castMembers: castMembers,
	}
}

// ResolveCategories resolves category ids into snapshots.
func (r *Resolver) ResolveCategories(ctx context.Context, ids []string) ([]domain.NestedCategory, error) {
	found, err := resolve(ctx, r.categories, ids, "categories_id", "category")
	if err != nil {
		return nil, err
	}
	snapshots := make([]domain.NestedCategory, len(found))
	for i, c := range found {
		snapshots[i] = c.Snapshot()
	}
	return snapshots, nil
}

// ResolveGenres resolves genre ids into snapshots.
func (r *Resolver) ResolveGenres(ctx context.Context, ids []string) ([]domain.NestedGenre, error) {
	found, err := resolve(ctx, r.genres, ids, "genres_id", "genre")
	if err != nil {
		return nil, err
	}
	snapshots := make([]domain.NestedGenre, len(found))
	for i, g := range found {
		snapshots[i] = g.Snapshot()
	}
	return snapshots, nil
}

// ResolveCastMembers resolves cast member ids into snapshots.
func (r *Resolver) ResolveCastMembers(ctx context.Context, ids []string) ([]domain.NestedCastMember, error) {
	found, err := resolve(ctx, r.castMembers, ids, "cast_members_id", "cast member")
	if err != nil {
		return nil, err
	}
	snapshots := make([]domain.NestedCastMember, len(found))
	for i, m := range found {
		snapshots[i] = m.Snapshot()
	}
	return snapshots, nil
}

func resolve[T any](ctx context.Context, repo relatedRepo[T], ids []string, field, entity string) ([]*T, error) {
	if len(ids) == 0 {
		return nil, domain.NewValidationError(field, "at least one "+entity+" id is required")
	}

	found, missing, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", field, err)
	}
	if len(missing) > 0 {
		fieldErrs := make([]domain.FieldError, len(missing))
		for i, id := range missing {
			fieldErrs[i] = domain.FieldError{
				Field:   field,
				Message: fmt.Sprintf("%s %s not found", entity, id),
			}
		}
		return nil, domain.NewValidationErrors(fieldErrs)
	}
	return found, nil
}
