package es

import (
	"context"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/flixhub/catalog-search/internal/domain"
)

var videoSortable = map[string]string{
	"title":      "title.keyword",
	"created_at": "created_at",
}

// VideoRepo stores Video documents in the shared index. Videos are
// hard-deleted, so soft-delete scopes are never applied to this repo.
type VideoRepo struct {
	*Repo[domain.Video]
}

// NewVideoRepo creates a video repository.
func NewVideoRepo(client *elasticsearch.Client, index string, refresh bool, log *slog.Logger) *VideoRepo {
	return &VideoRepo{
		Repo: newRepo(client, index, domain.TypeVideo, videoMapper{}, videoSortable, refresh, log),
	}
}

// Search runs the paginated video read path.
func (r *VideoRepo) Search(ctx context.Context, page domain.Page, filter domain.VideoFilter) (domain.SearchResult[*domain.Video], error) {
	return r.Repo.Search(ctx, page, buildVideoFilters(filter))
}

func buildVideoFilters(f domain.VideoFilter) []map[string]any {
	var clauses []map[string]any
	if f.TitleOrDescription != nil {
		clauses = append(clauses, multiMatchClause(*f.TitleOrDescription, "title", "description"))
	}
	if f.CategoryID != nil {
		clauses = append(clauses, nestedTermClause("categories", "id", *f.CategoryID))
	}
	if f.GenreID != nil {
		clauses = append(clauses, nestedTermClause("genres", "id", *f.GenreID))
	}
	if f.CastMemberID != nil {
		clauses = append(clauses, nestedTermClause("cast_members", "id", *f.CastMemberID))
	}
	if f.IsPublished != nil {
		clauses = append(clauses, termClause("published", *f.IsPublished))
	}
	return clauses
}
