package es

import (
	"encoding/json"
	"fmt"

	"github.com/flixhub/catalog-search/internal/domain"
)

// Mapper converts between a domain aggregate and its stored document.
// FromDocument enforces read-time invariants: a document that cannot be
// materialized into a valid entity yields a domain.LoadEntityError, never
// a silently partial result.
type Mapper[T any] interface {
	DocID(e *T) string
	ToDocument(e *T) any
	FromDocument(raw json.RawMessage) (*T, error)
}

// ---------------------------------------------------------------------------
// Category
// ---------------------------------------------------------------------------

type categoryMapper struct{}

func (categoryMapper) DocID(c *domain.Category) string { return c.ID }

func (categoryMapper) ToDocument(c *domain.Category) any {
	return categoryDocument{
		Type:        string(domain.TypeCategory),
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		DeletedAt:   c.DeletedAt,
	}
}

func (categoryMapper) FromDocument(raw json.RawMessage) (*domain.Category, error) {
	var doc categoryDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal category document: %w", err)
	}
	return &domain.Category{
		ID:          doc.ID,
		Name:        doc.Name,
		Description: doc.Description,
		IsActive:    doc.IsActive,
		CreatedAt:   doc.CreatedAt,
		DeletedAt:   doc.DeletedAt,
	}, nil
}

// ---------------------------------------------------------------------------
// Genre
// ---------------------------------------------------------------------------

type genreMapper struct{}

func (genreMapper) DocID(g *domain.Genre) string { return g.ID }

func (genreMapper) ToDocument(g *domain.Genre) any {
	return genreDocument{
		Type:       string(domain.TypeGenre),
		ID:         g.ID,
		Name:       g.Name,
		IsActive:   g.IsActive,
		CreatedAt:  g.CreatedAt,
		DeletedAt:  g.DeletedAt,
		Categories: toNestedCategoryDocs(g.Categories),
	}
}

func (genreMapper) FromDocument(raw json.RawMessage) (*domain.Genre, error) {
	var doc genreDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal genre document: %w", err)
	}
	if doc.DeletedAt == nil && len(doc.Categories) == 0 {
		return nil, &domain.LoadEntityError{
			Type:   string(domain.TypeGenre),
			ID:     doc.ID,
			Reason: "genre has no embedded categories",
		}
	}
	return &domain.Genre{
		ID:         doc.ID,
		Name:       doc.Name,
		IsActive:   doc.IsActive,
		CreatedAt:  doc.CreatedAt,
		DeletedAt:  doc.DeletedAt,
		Categories: fromNestedCategoryDocs(doc.Categories),
	}, nil
}

// ---------------------------------------------------------------------------
// CastMember
// ---------------------------------------------------------------------------

type castMemberMapper struct{}

func (castMemberMapper) DocID(m *domain.CastMember) string { return m.ID }

func (castMemberMapper) ToDocument(m *domain.CastMember) any {
	return castMemberDocument{
		Type:           string(domain.TypeCastMember),
		ID:             m.ID,
		Name:           m.Name,
		CastMemberType: int(m.Type),
		CreatedAt:      m.CreatedAt,
		DeletedAt:      m.DeletedAt,
	}
}

func (castMemberMapper) FromDocument(raw json.RawMessage) (*domain.CastMember, error) {
	var doc castMemberDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal cast member document: %w", err)
	}
	memberType, err := domain.ParseCastMemberType(doc.CastMemberType)
	if err != nil {
		return nil, &domain.LoadEntityError{
			Type:   string(domain.TypeCastMember),
			ID:     doc.ID,
			Reason: fmt.Sprintf("invalid cast member type %d", doc.CastMemberType),
		}
	}
	return &domain.CastMember{
		ID:        doc.ID,
		Name:      doc.Name,
		Type:      memberType,
		CreatedAt: doc.CreatedAt,
		DeletedAt: doc.DeletedAt,
	}, nil
}

// ---------------------------------------------------------------------------
// Video
// ---------------------------------------------------------------------------

type videoMapper struct{}

func (videoMapper) DocID(v *domain.Video) string { return v.ID }

func (videoMapper) ToDocument(v *domain.Video) any {
	return videoDocument{
		Type:             string(domain.TypeVideo),
		ID:               v.ID,
		Title:            v.Title,
		Description:      v.Description,
		LaunchYear:       v.LaunchYear,
		Rating:           string(v.Rating),
		Duration:         v.Duration,
		Opened:           v.Opened,
		Published:        v.Published,
		BannerURL:        v.BannerURL,
		ThumbnailURL:     v.ThumbnailURL,
		ThumbnailHalfURL: v.ThumbnailHalfURL,
		TrailerURL:       v.TrailerURL,
		VideoURL:         v.VideoURL,
		CreatedAt:        v.CreatedAt,
		Categories:       toNestedCategoryDocs(v.Categories),
		Genres:           toNestedGenreDocs(v.Genres),
		CastMembers:      toNestedCastMemberDocs(v.CastMembers),
	}
}

func (videoMapper) FromDocument(raw json.RawMessage) (*domain.Video, error) {
	var doc videoDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal video document: %w", err)
	}
	loadErr := func(reason string) error {
		return &domain.LoadEntityError{Type: string(domain.TypeVideo), ID: doc.ID, Reason: reason}
	}
	if len(doc.Categories) == 0 {
		return nil, loadErr("video has no embedded categories")
	}
	if len(doc.Genres) == 0 {
		return nil, loadErr("video has no embedded genres")
	}
	if len(doc.CastMembers) == 0 {
		return nil, loadErr("video has no embedded cast members")
	}
	rating, err := domain.ParseRating(doc.Rating)
	if err != nil {
		return nil, loadErr(fmt.Sprintf("invalid rating %q", doc.Rating))
	}
	return &domain.Video{
		ID:               doc.ID,
		Title:            doc.Title,
		Description:      doc.Description,
		LaunchYear:       doc.LaunchYear,
		Rating:           rating,
		Duration:         doc.Duration,
		Opened:           doc.Opened,
		Published:        doc.Published,
		BannerURL:        doc.BannerURL,
		ThumbnailURL:     doc.ThumbnailURL,
		ThumbnailHalfURL: doc.ThumbnailHalfURL,
		TrailerURL:       doc.TrailerURL,
		VideoURL:         doc.VideoURL,
		CreatedAt:        doc.CreatedAt,
		Categories:       fromNestedCategoryDocs(doc.Categories),
		Genres:           fromNestedGenreDocs(doc.Genres),
		CastMembers:      fromNestedCastMemberDocs(doc.CastMembers),
	}, nil
}

// ---------------------------------------------------------------------------
// Nested snapshot helpers
// ---------------------------------------------------------------------------

func toNestedCategoryDocs(in []domain.NestedCategory) []nestedCategoryDocument {
	out := make([]nestedCategoryDocument, len(in))
	for i, c := range in {
		out[i] = nestedCategoryDocument{ID: c.ID, Name: c.Name, IsActive: c.IsActive, DeletedAt: c.DeletedAt}
	}
	return out
}

func fromNestedCategoryDocs(in []nestedCategoryDocument) []domain.NestedCategory {
	out := make([]domain.NestedCategory, len(in))
	for i, d := range in {
		out[i] = domain.NestedCategory{ID: d.ID, Name: d.Name, IsActive: d.IsActive, DeletedAt: d.DeletedAt}
	}
	return out
}

func toNestedGenreDocs(in []domain.NestedGenre) []nestedGenreDocument {
	out := make([]nestedGenreDocument, len(in))
	for i, g := range in {
		out[i] = nestedGenreDocument{ID: g.ID, Name: g.Name, IsActive: g.IsActive, DeletedAt: g.DeletedAt}
	}
	return out
}

func fromNestedGenreDocs(in []nestedGenreDocument) []domain.NestedGenre {
	out := make([]domain.NestedGenre, len(in))
	for i, d := range in {
		out[i] = domain.NestedGenre{ID: d.ID, Name: d.Name, IsActive: d.IsActive, DeletedAt: d.DeletedAt}
	}
	return out
}

func toNestedCastMemberDocs(in []domain.NestedCastMember) []nestedCastMemberDocument {
	out := make([]nestedCastMemberDocument, len(in))
	for i, m := range in {
		out[i] = nestedCastMemberDocument{ID: m.ID, Name: m.Name, Type: int(m.Type), DeletedAt: m.DeletedAt}
	}
	return out
}

func fromNestedCastMemberDocs(in []nestedCastMemberDocument) []domain.NestedCastMember {
	out := make([]domain.NestedCastMember, len(in))
	for i, d := range in {
		out[i] = domain.NestedCastMember{ID: d.ID, Name: d.Name, Type: domain.CastMemberType(d.Type), DeletedAt: d.DeletedAt}
	}
	return out
}
