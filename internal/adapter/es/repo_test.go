package es

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flixhub/catalog-search/internal/domain"
)

// fakeTransport serves canned store responses and records every request
// body, so tests can assert on the exact query sent over the wire.
type fakeTransport struct {
	respond func(req *http.Request) (status int, body string)

	requests []capturedRequest
}

type capturedRequest struct {
	method string
	path   string
	query  string
	body   []byte
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body.Close()
	}
	f.requests = append(f.requests, capturedRequest{
		method: req.Method,
		path:   req.URL.Path,
		query:  req.URL.RawQuery,
		body:   body,
	})

	status, respBody := http.StatusOK, "{}"
	if f.respond != nil {
		status, respBody = f.respond(req)
	}
	return &http.Response{
		StatusCode: status,
		Header: http.Header{
			"X-Elastic-Product": []string{"Elasticsearch"},
			"Content-Type":      []string{"application/json"},
		},
		Body: io.NopCloser(strings.NewReader(respBody)),
	}, nil
}

func newTestCategoryRepo(t *testing.T, transport *fakeTransport) *CategoryRepo {
	t.Helper()
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://store.local:9200"},
		Transport: transport,
	})
	require.NoError(t, err)
	return NewCategoryRepo(client, "catalog", false, slog.Default())
}

func searchResponseJSON(t *testing.T, total int, sources ...any) string {
	t.Helper()
	hits := make([]map[string]any, len(sources))
	for i, src := range sources {
		raw, err := json.Marshal(src)
		require.NoError(t, err)
		var doc map[string]any
		require.NoError(t, json.Unmarshal(raw, &doc))
		hits[i] = map[string]any{"_id": doc["id"], "_source": doc}
	}
	out, err := json.Marshal(map[string]any{
		"hits": map[string]any{
			"total": map[string]any{"value": total},
			"hits":  hits,
		},
	})
	require.NoError(t, err)
	return string(out)
}

func lastQuery(t *testing.T, transport *fakeTransport) map[string]any {
	t.Helper()
	require.NotEmpty(t, transport.requests)
	var body map[string]any
	require.NoError(t, json.Unmarshal(transport.requests[len(transport.requests)-1].body, &body))
	return body["query"].(map[string]any)
}

func categoryDoc(id, name string) categoryDocument {
	return categoryDocument{Type: "Category", ID: id, Name: name, IsActive: true}
}

func mustTime(t *testing.T, s string) *time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return &ts
}

func TestRepo_FindByID_AlwaysCarriesTypePredicate(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{respond: func(*http.Request) (int, string) {
		return http.StatusOK, searchResponseJSON(t, 1, categoryDoc("cat-1", "Movies"))
	}}
	repo := newTestCategoryRepo(t, transport)

	got, err := repo.FindByID(context.Background(), "cat-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Movies", got.Name)

	boolPart := lastQuery(t, transport)["bool"].(map[string]any)
	filters := boolPart["filter"].([]any)
	require.Len(t, filters, 2)
	term := filters[0].(map[string]any)["term"].(map[string]any)
	assert.Equal(t, "Category", term["type"])
	// The default scope set does not exclude soft-deleted documents.
	assert.NotContains(t, boolPart, "must_not")
}

func TestRepo_FindByID_AbsentIsNilNotError(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{respond: func(*http.Request) (int, string) {
		return http.StatusOK, searchResponseJSON(t, 0)
	}}
	repo := newTestCategoryRepo(t, transport)

	got, err := repo.FindByID(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepo_IgnoreSoftDeleted_ScopesQueryWithoutMutatingOriginal(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{respond: func(*http.Request) (int, string) {
		return http.StatusOK, searchResponseJSON(t, 0)
	}}
	repo := newTestCategoryRepo(t, transport)
	scoped := repo.IgnoreSoftDeleted()

	_, err := scoped.FindByID(context.Background(), "cat-1")
	require.NoError(t, err)

	boolPart := lastQuery(t, transport)["bool"].(map[string]any)
	mustNot := boolPart["must_not"].([]any)
	require.Len(t, mustNot, 1)
	exists := mustNot[0].(map[string]any)["exists"].(map[string]any)
	assert.Equal(t, "deleted_at", exists["field"])

	// The original handle still queries unscoped.
	_, err = repo.FindByID(context.Background(), "cat-1")
	require.NoError(t, err)
	assert.NotContains(t, lastQuery(t, transport)["bool"].(map[string]any), "must_not")
}

func TestRepo_SoftDeletedVisibleUnscopedHiddenScoped(t *testing.T) {
	t.Parallel()

	deleted := categoryDoc("cat-1", "Ghost")
	now := "2025-03-01T10:00:00Z"
	deleted.DeletedAt = mustTime(t, now)

	// Serve the tombstoned document only to queries that do not exclude
	// soft-deleted documents, mimicking the store's predicate evaluation.
	transport := &fakeTransport{}
	transport.respond = func(*http.Request) (int, string) {
		body := transport.requests[len(transport.requests)-1].body
		if strings.Contains(string(body), "must_not") {
			return http.StatusOK, searchResponseJSON(t, 0)
		}
		return http.StatusOK, searchResponseJSON(t, 1, deleted)
	}
	repo := newTestCategoryRepo(t, transport)

	got, err := repo.FindByID(context.Background(), "cat-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsDeleted())

	scoped, err := repo.IgnoreSoftDeleted().FindByID(context.Background(), "cat-1")
	require.NoError(t, err)
	assert.Nil(t, scoped)
}

func TestRepo_ClearScopes_DropsAccumulatedScopes(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{respond: func(*http.Request) (int, string) {
		return http.StatusOK, searchResponseJSON(t, 0)
	}}
	repo := newTestCategoryRepo(t, transport).IgnoreSoftDeleted().ClearScopes()

	_, err := repo.FindByID(context.Background(), "cat-1")
	require.NoError(t, err)
	assert.NotContains(t, lastQuery(t, transport)["bool"].(map[string]any), "must_not")
}

func TestRepo_FindByIDs_PartitionsAndPreservesMissingOrder(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{respond: func(*http.Request) (int, string) {
		return http.StatusOK, searchResponseJSON(t, 1, categoryDoc("b", "Found"))
	}}
	repo := newTestCategoryRepo(t, transport)

	found, missing, err := repo.FindByIDs(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "b", found[0].ID)
	assert.Equal(t, []string{"a", "c"}, missing)
}

func TestRepo_FindByIDs_EmptyInputSkipsStore(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{}
	repo := newTestCategoryRepo(t, transport)

	found, missing, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, found)
	assert.Nil(t, missing)
	assert.Empty(t, transport.requests)
}

func TestRepo_Search_SortFallbackOnUnknownField(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{respond: func(*http.Request) (int, string) {
		return http.StatusOK, searchResponseJSON(t, 0)
	}}
	repo := newTestCategoryRepo(t, transport)

	_, err := repo.Search(context.Background(),
		domain.Page{Page: 1, PerPage: 15, Sort: "password", SortDir: "asc"},
		domain.CategoryFilter{},
	)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(transport.requests[0].body, &body))
	sort := body["sort"].([]any)[0].(map[string]any)
	created := sort["created_at"].(map[string]any)
	assert.Equal(t, "desc", created["order"])
}

func TestRepo_Search_AllowlistedSortMapsToKeywordField(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{respond: func(*http.Request) (int, string) {
		return http.StatusOK, searchResponseJSON(t, 0)
	}}
	repo := newTestCategoryRepo(t, transport)

	_, err := repo.Search(context.Background(),
		domain.Page{Page: 1, PerPage: 15, Sort: "name", SortDir: "desc"},
		domain.CategoryFilter{},
	)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(transport.requests[0].body, &body))
	sort := body["sort"].([]any)[0].(map[string]any)
	name := sort["name.keyword"].(map[string]any)
	assert.Equal(t, "desc", name["order"])
}

func TestRepo_Search_PaginationParamsOnWire(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{respond: func(*http.Request) (int, string) {
		return http.StatusOK, searchResponseJSON(t, 31, categoryDoc("cat-1", "Movies"))
	}}
	repo := newTestCategoryRepo(t, transport)

	result, err := repo.Search(context.Background(),
		domain.Page{Page: 3, PerPage: 15},
		domain.CategoryFilter{},
	)
	require.NoError(t, err)

	query := transport.requests[0].query
	assert.Contains(t, query, "from=30")
	assert.Contains(t, query, "size=15")

	assert.Equal(t, 31, result.Total)
	assert.Equal(t, 3, result.CurrentPage)
	assert.Equal(t, 3, result.LastPage)
}

func TestRepo_Search_FiltersLayeredIntoMust(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{respond: func(*http.Request) (int, string) {
		return http.StatusOK, searchResponseJSON(t, 0)
	}}
	repo := newTestCategoryRepo(t, transport)

	name := "mov"
	active := true
	_, err := repo.Search(context.Background(),
		domain.Page{Page: 1, PerPage: 15},
		domain.CategoryFilter{Name: &name, IsActive: &active},
	)
	require.NoError(t, err)

	boolPart := lastQuery(t, transport)["bool"].(map[string]any)
	must := boolPart["must"].([]any)
	require.Len(t, must, 2)
	wildcard := must[0].(map[string]any)["wildcard"].(map[string]any)["name.keyword"].(map[string]any)
	assert.Equal(t, "*mov*", wildcard["value"])
}

func TestRepo_Delete_ZeroMatchesIsNotFound(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{respond: func(*http.Request) (int, string) {
		return http.StatusOK, `{"deleted": 0}`
	}}
	repo := newTestCategoryRepo(t, transport)

	err := repo.Delete(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, domain.IsRetriable(err))
}

func TestRepo_Delete_MatchedDocumentSucceeds(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{respond: func(*http.Request) (int, string) {
		return http.StatusOK, `{"deleted": 1}`
	}}
	repo := newTestCategoryRepo(t, transport)

	require.NoError(t, repo.Delete(context.Background(), "cat-1"))

	req := transport.requests[0]
	assert.Contains(t, req.path, "_delete_by_query")
}

func TestRepo_Insert_WritesDocumentUnderEntityID(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{}
	repo := newTestCategoryRepo(t, transport)

	err := repo.Insert(context.Background(), &domain.Category{ID: "cat-1", Name: "Movies"})
	require.NoError(t, err)

	req := transport.requests[0]
	assert.Equal(t, "/catalog/_doc/cat-1", req.path)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(req.body, &doc))
	assert.Equal(t, "Category", doc["type"])
}

func TestRepo_Update_MissingDocumentIsNotFound(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{respond: func(*http.Request) (int, string) {
		return http.StatusOK, searchResponseJSON(t, 0)
	}}
	repo := newTestCategoryRepo(t, transport)

	err := repo.Update(context.Background(), &domain.Category{ID: "ghost"})
	require.ErrorIs(t, err, domain.ErrNotFound)
	// Only the existence probe hit the store; no write was attempted.
	require.Len(t, transport.requests, 1)
}

func TestRepo_ServerErrorsAreRetriable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		retriable bool
	}{
		{"bad request", http.StatusBadRequest, false},
		{"too many requests", http.StatusTooManyRequests, true},
		{"server error", http.StatusInternalServerError, true},
		{"unavailable", http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			transport := &fakeTransport{respond: func(*http.Request) (int, string) {
				return tt.status, `{"error": "boom"}`
			}}
			repo := newTestCategoryRepo(t, transport)

			_, err := repo.FindByID(context.Background(), "cat-1")
			require.Error(t, err)
			assert.Equal(t, tt.retriable, domain.IsRetriable(err))
		})
	}
}

func TestRepo_FindOneBy_UsesTermPredicate(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{respond: func(*http.Request) (int, string) {
		return http.StatusOK, searchResponseJSON(t, 1, categoryDoc("cat-1", "Movies"))
	}}
	repo := newTestCategoryRepo(t, transport)

	got, err := repo.FindOneBy(context.Background(), "name.keyword", "Movies")
	require.NoError(t, err)
	require.NotNil(t, got)

	boolPart := lastQuery(t, transport)["bool"].(map[string]any)
	filters := boolPart["filter"].([]any)
	require.Len(t, filters, 2)
	term := filters[1].(map[string]any)["term"].(map[string]any)
	assert.Equal(t, "Movies", term["name.keyword"])
}
