package es

import (
	"context"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/flixhub/catalog-search/internal/domain"
)

var castMemberSortable = map[string]string{
	"name":       "name.keyword",
	"created_at": "created_at",
}

// CastMemberRepo stores CastMember documents in the shared index.
type CastMemberRepo struct {
	*Repo[domain.CastMember]
}

// NewCastMemberRepo creates a cast member repository.
func NewCastMemberRepo(client *elasticsearch.Client, index string, refresh bool, log *slog.Logger) *CastMemberRepo {
	return &CastMemberRepo{
		Repo: newRepo(client, index, domain.TypeCastMember, castMemberMapper{}, castMemberSortable, refresh, log),
	}
}

// IgnoreSoftDeleted returns a handle excluding soft-deleted cast members.
func (r *CastMemberRepo) IgnoreSoftDeleted() *CastMemberRepo {
	return &CastMemberRepo{Repo: r.Repo.IgnoreSoftDeleted()}
}

// ClearScopes returns a scope-free handle.
func (r *CastMemberRepo) ClearScopes() *CastMemberRepo {
	return &CastMemberRepo{Repo: r.Repo.ClearScopes()}
}

// Search runs the paginated cast member read path.
func (r *CastMemberRepo) Search(ctx context.Context, page domain.Page, filter domain.CastMemberFilter) (domain.SearchResult[*domain.CastMember], error) {
	return r.Repo.Search(ctx, page, buildCastMemberFilters(filter))
}

func buildCastMemberFilters(f domain.CastMemberFilter) []map[string]any {
	var clauses []map[string]any
	if f.Name != nil {
		clauses = append(clauses, wildcardClause("name", *f.Name))
	}
	if f.Type != nil {
		clauses = append(clauses, termClause("cast_member_type", int(*f.Type)))
	}
	return clauses
}
