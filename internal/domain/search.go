package domain

// Sort directions accepted by the search path.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Page holds the pagination/sorting portion of a search request. The
// aggregate-specific filter travels separately because its shape differs
// per repository.
type Page struct {
	Page    int
	PerPage int
	Sort    string
	SortDir string
}

// Offset returns the zero-based result offset for the page.
func (p Page) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// SearchResult is a single page of search hits.
//
// CurrentPage echoes the requested page even when it exceeds LastPage;
// no clamping happens anywhere on the read path.
type SearchResult[T any] struct {
	Items       []T
	Total       int
	CurrentPage int
	PerPage     int
	LastPage    int
}

// NewSearchResult assembles a result page, deriving LastPage from the
// total hit count: last_page = ceil(total / per_page).
func NewSearchResult[T any](items []T, total int, p Page) SearchResult[T] {
	lastPage := 0
	if p.PerPage > 0 {
		lastPage = (total + p.PerPage - 1) / p.PerPage
	}
	return SearchResult[T]{
		Items:       items,
		Total:       total,
		CurrentPage: p.Page,
		PerPage:     p.PerPage,
		LastPage:    lastPage,
	}
}

// CategoryFilter narrows a category search.
type CategoryFilter struct {
	Name     *string
	IsActive *bool
}

// GenreFilter narrows a genre search. CategoryID matches genres embedding
// a snapshot of that category.
type GenreFilter struct {
	Name       *string
	IsActive   *bool
	CategoryID *string
}

// CastMemberFilter narrows a cast member search.
type CastMemberFilter struct {
	Name *string
	Type *CastMemberType
}

// VideoFilter narrows a video search. TitleOrDescription is fuzzy-matched
// across both text fields; the relation ids match against the nested
// snapshot arrays.
type VideoFilter struct {
	TitleOrDescription *string
	CategoryID         *string
	GenreID            *string
	CastMemberID       *string
	IsPublished        *bool
}
