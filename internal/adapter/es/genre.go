package es

import (
	"context"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/flixhub/catalog-search/internal/domain"
)

var genreSortable = map[string]string{
	"name":       "name.keyword",
	"created_at": "created_at",
}

// GenreRepo stores Genre documents in the shared index.
type GenreRepo struct {
	*Repo[domain.Genre]
}

// NewGenreRepo creates a genre repository.
func NewGenreRepo(client *elasticsearch.Client, index string, refresh bool, log *slog.Logger) *GenreRepo {
	return &GenreRepo{
		Repo: newRepo(client, index, domain.TypeGenre, genreMapper{}, genreSortable, refresh, log),
	}
}

// IgnoreSoftDeleted returns a handle excluding soft-deleted genres.
func (r *GenreRepo) IgnoreSoftDeleted() *GenreRepo {
	return &GenreRepo{Repo: r.Repo.IgnoreSoftDeleted()}
}

// ClearScopes returns a scope-free handle.
func (r *GenreRepo) ClearScopes() *GenreRepo {
	return &GenreRepo{Repo: r.Repo.ClearScopes()}
}

// Search runs the paginated genre read path.
func (r *GenreRepo) Search(ctx context.Context, page domain.Page, filter domain.GenreFilter) (domain.SearchResult[*domain.Genre], error) {
	return r.Repo.Search(ctx, page, buildGenreFilters(filter))
}

func buildGenreFilters(f domain.GenreFilter) []map[string]any {
	var clauses []map[string]any
	if f.Name != nil {
		clauses = append(clauses, wildcardClause("name", *f.Name))
	}
	if f.IsActive != nil {
		clauses = append(clauses, termClause("is_active", *f.IsActive))
	}
	if f.CategoryID != nil {
		clauses = append(clauses, nestedTermClause("categories", "id", *f.CategoryID))
	}
	return clauses
}
