package es

import (
	"context"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/flixhub/catalog-search/internal/domain"
)

var categorySortable = map[string]string{
	"name":       "name.keyword",
	"created_at": "created_at",
}

// CategoryRepo stores Category documents in the shared index.
type CategoryRepo struct {
	*Repo[domain.Category]
}

// NewCategoryRepo creates a category repository. With refresh enabled
// every write waits for index visibility (read-your-write, used in tests
// and sync paths that read back immediately).
func NewCategoryRepo(client *elasticsearch.Client, index string, refresh bool, log *slog.Logger) *CategoryRepo {
	return &CategoryRepo{
		Repo: newRepo(client, index, domain.TypeCategory, categoryMapper{}, categorySortable, refresh, log),
	}
}

// IgnoreSoftDeleted returns a handle excluding soft-deleted categories.
func (r *CategoryRepo) IgnoreSoftDeleted() *CategoryRepo {
	return &CategoryRepo{Repo: r.Repo.IgnoreSoftDeleted()}
}

// ClearScopes returns a scope-free handle.
func (r *CategoryRepo) ClearScopes() *CategoryRepo {
	return &CategoryRepo{Repo: r.Repo.ClearScopes()}
}

// Search runs the paginated category read path.
func (r *CategoryRepo) Search(ctx context.Context, page domain.Page, filter domain.CategoryFilter) (domain.SearchResult[*domain.Category], error) {
	return r.Repo.Search(ctx, page, buildCategoryFilters(filter))
}

func buildCategoryFilters(f domain.CategoryFilter) []map[string]any {
	var clauses []map[string]any
	if f.Name != nil {
		clauses = append(clauses, wildcardClause("name", *f.Name))
	}
	if f.IsActive != nil {
		clauses = append(clauses, termClause("is_active", *f.IsActive))
	}
	return clauses
}
