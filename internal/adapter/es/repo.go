package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"

	"github.com/flixhub/catalog-search/internal/domain"
)

// findAllCap bounds unpaginated reads (FindAll, FindBy). It matches the
// index.max_result_window default.
const findAllCap = 10000

type scopeKind int

const scopeIgnoreSoftDeleted scopeKind = iota

// Repo is a soft-delete-aware document repository for one aggregate type
// within the shared index. The zero scope set includes soft-deleted
// documents in every read, FindAll and Search included: excluding them is
// always an explicit opt-in via IgnoreSoftDeleted.
//
// Scope mutators return a new handle wrapping the same client, so a scoped
// view can never leak into code holding the original handle.
type Repo[T any] struct {
	client   *elasticsearch.Client
	index    string
	agg      domain.AggregateType
	mapper   Mapper[T]
	sortable map[string]string // logical -> physical sort field
	scopes   []scopeKind
	refresh  bool
	log      *slog.Logger
}

func newRepo[T any](client *elasticsearch.Client, index string, agg domain.AggregateType, mapper Mapper[T], sortable map[string]string, refresh bool, log *slog.Logger) *Repo[T] {
	return &Repo[T]{
		client:   client,
		index:    index,
		agg:      agg,
		mapper:   mapper,
		sortable: sortable,
		refresh:  refresh,
		log:      log.With("adapter", "es", "aggregate", string(agg)),
	}
}

// IgnoreSoftDeleted returns a new handle whose every subsequent query
// excludes documents with a deleted_at timestamp.
func (r *Repo[T]) IgnoreSoftDeleted() *Repo[T] {
	clone := *r
	clone.scopes = append(append([]scopeKind(nil), r.scopes...), scopeIgnoreSoftDeleted)
	return &clone
}

// ClearScopes returns a new handle with no scopes applied.
func (r *Repo[T]) ClearScopes() *Repo[T] {
	clone := *r
	clone.scopes = nil
	return &clone
}

// baseQuery starts a bool query with the mandatory type predicate and the
// handle's scope predicates appended last.
func (r *Repo[T]) baseQuery() *boolQuery {
	b := newBoolQuery().Filter(termClause("type", string(r.agg)))
	for _, s := range r.scopes {
		if s == scopeIgnoreSoftDeleted {
			b.MustNot(existsClause("deleted_at"))
		}
	}
	return b
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// Insert writes one complete document keyed by the entity id, overwriting
// any previous body. It never checks prior existence; this is the upsert
// primitive the CDC pipeline relies on for idempotency.
func (r *Repo[T]) Insert(ctx context.Context, entity *T) error {
	body, err := json.Marshal(r.mapper.ToDocument(entity))
	if err != nil {
		return fmt.Errorf("marshal %s document: %w", r.agg, err)
	}

	res, err := r.client.Index(
		r.index,
		bytes.NewReader(body),
		r.client.Index.WithContext(ctx),
		r.client.Index.WithDocumentID(r.mapper.DocID(entity)),
		r.client.Index.WithRefresh(r.refreshParam()),
	)
	if err != nil {
		return domain.Retriable(fmt.Errorf("index %s: %w", r.agg, err))
	}
	defer res.Body.Close()

	return r.checkResponse(res.StatusCode, res.Body, "index")
}

// BulkInsert writes a batch of documents with the same overwrite semantics
// as Insert. Used by fixture and backfill loads.
func (r *Repo[T]) BulkInsert(ctx context.Context, entities []*T) error {
	if len(entities) == 0 {
		return nil
	}

	indexer, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:  r.client,
		Index:   r.index,
		Refresh: r.refreshParam(),
	})
	if err != nil {
		return fmt.Errorf("create bulk indexer: %w", err)
	}

	var itemErr error
	for _, entity := range entities {
		body, err := json.Marshal(r.mapper.ToDocument(entity))
		if err != nil {
			return fmt.Errorf("marshal %s document: %w", r.agg, err)
		}
		err = indexer.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: r.mapper.DocID(entity),
			Body:       bytes.NewReader(body),
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if itemErr == nil {
					if err == nil {
						err = fmt.Errorf("%s: %s", res.Error.Type, res.Error.Reason)
					}
					itemErr = fmt.Errorf("bulk index %s %s: %w", r.agg, item.DocumentID, err)
				}
			},
		})
		if err != nil {
			return domain.Retriable(fmt.Errorf("bulk add %s: %w", r.agg, err))
		}
	}
	if err := indexer.Close(ctx); err != nil {
		return domain.Retriable(fmt.Errorf("bulk close: %w", err))
	}
	if itemErr != nil {
		return itemErr
	}
	if stats := indexer.Stats(); stats.NumFailed > 0 {
		return fmt.Errorf("bulk index %s: %d items failed", r.agg, stats.NumFailed)
	}
	return nil
}

// Update overwrites an existing document. Unlike Insert it fails with a
// NotFoundError when no in-scope document has the entity's id, so updating
// through an IgnoreSoftDeleted handle fails even if the document
// physically exists.
func (r *Repo[T]) Update(ctx context.Context, entity *T) error {
	id := r.mapper.DocID(entity)

	exists, _, err := r.ExistsByID(ctx, []string{id})
	if err != nil {
		return err
	}
	if len(exists) == 0 {
		return domain.NewNotFoundError(string(r.agg), id)
	}

	return r.Insert(ctx, entity)
}

// Delete removes documents matching the id within the handle's type and
// scope predicates. It is a delete-by-query rather than a delete-by-id
// because the operation is always scope- and type-qualified; zero matches
// surface as NotFoundError.
func (r *Repo[T]) Delete(ctx context.Context, id string) error {
	query := r.baseQuery().Filter(idsClause([]string{id}))
	body, err := json.Marshal(map[string]any{"query": query.Build()})
	if err != nil {
		return fmt.Errorf("marshal delete query: %w", err)
	}

	res, err := r.client.DeleteByQuery(
		[]string{r.index},
		bytes.NewReader(body),
		r.client.DeleteByQuery.WithContext(ctx),
		r.client.DeleteByQuery.WithRefresh(r.refresh),
	)
	if err != nil {
		return domain.Retriable(fmt.Errorf("delete %s: %w", r.agg, err))
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return domain.Retriable(fmt.Errorf("read delete response: %w", err))
	}
	if err := r.checkResponse(res.StatusCode, bytes.NewReader(raw), "delete_by_query"); err != nil {
		return err
	}

	var out struct {
		Deleted int `json:"deleted"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode delete response: %w", err)
	}
	if out.Deleted == 0 {
		return domain.NewNotFoundError(string(r.agg), id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// FindByID returns the in-scope document with the given id, or nil when it
// is absent or scoped out. Absence is never an error on this path.
func (r *Repo[T]) FindByID(ctx context.Context, id string) (*T, error) {
	query := r.baseQuery().Filter(idsClause([]string{id}))

	hits, _, err := r.doSearch(ctx, query, nil, 0, 1)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}
	return r.mapper.FromDocument(hits[0].Source)
}

// FindByIDs partitions the requested ids into found entities and missing
// ids. The missing slice preserves the input order and includes anything
// excluded by active scopes.
func (r *Repo[T]) FindByIDs(ctx context.Context, ids []string) ([]*T, []string, error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}
	query := r.baseQuery().Filter(idsClause(ids))

	hits, _, err := r.doSearch(ctx, query, nil, 0, len(ids))
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[string]*T, len(hits))
	for _, hit := range hits {
		entity, err := r.mapper.FromDocument(hit.Source)
		if err != nil {
			return nil, nil, err
		}
		byID[hit.ID] = entity
	}

	found := make([]*T, 0, len(byID))
	var missing []string
	for _, id := range ids {
		if entity, ok := byID[id]; ok {
			found = append(found, entity)
		} else {
			missing = append(missing, id)
		}
	}
	return found, missing, nil
}

// ExistsByID partitions ids into existing and non-existing without
// materializing document bodies (_source is suppressed).
func (r *Repo[T]) ExistsByID(ctx context.Context, ids []string) (exists, notExists []string, err error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}
	query := r.baseQuery().Filter(idsClause(ids))
	body := map[string]any{
		"query":   query.Build(),
		"_source": false,
	}

	hits, _, err := r.rawSearch(ctx, body, 0, len(ids))
	if err != nil {
		return nil, nil, err
	}

	present := make(map[string]struct{}, len(hits))
	for _, hit := range hits {
		present[hit.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := present[id]; ok {
			exists = append(exists, id)
		} else {
			notExists = append(notExists, id)
		}
	}
	return exists, notExists, nil
}

// FindAll returns every in-scope document of the repository's type,
// soft-deleted ones included unless the handle says otherwise.
func (r *Repo[T]) FindAll(ctx context.Context) ([]*T, error) {
	hits, _, err := r.doSearch(ctx, r.baseQuery(), nil, 0, findAllCap)
	if err != nil {
		return nil, err
	}
	return r.mapHits(hits)
}

// FindBy returns documents matching a simple term predicate, optionally
// ordered. The field is matched verbatim; callers pass keyword sub-fields
// where exact matching is needed.
func (r *Repo[T]) FindBy(ctx context.Context, field string, value any, sort ...map[string]any) ([]*T, error) {
	query := r.baseQuery().Filter(termClause(field, value))
	hits, _, err := r.doSearch(ctx, query, sort, 0, findAllCap)
	if err != nil {
		return nil, err
	}
	return r.mapHits(hits)
}

// FindOneBy returns the first document matching a simple term predicate,
// or nil when there is none.
func (r *Repo[T]) FindOneBy(ctx context.Context, field string, value any) (*T, error) {
	query := r.baseQuery().Filter(termClause(field, value))
	hits, _, err := r.doSearch(ctx, query, nil, 0, 1)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}
	return r.mapper.FromDocument(hits[0].Source)
}

// Search runs the paginated read path. Filter clauses come from the
// concrete repository's filter builder; sorting falls back silently to
// created_at desc when the requested field is not allowlisted.
func (r *Repo[T]) Search(ctx context.Context, page domain.Page, filters []map[string]any) (domain.SearchResult[*T], error) {
	var zero domain.SearchResult[*T]

	query := r.baseQueryWithFilters(filters)
	sort := []map[string]any{r.resolveSort(page)}

	hits, total, err := r.doSearch(ctx, query, sort, page.Offset(), page.PerPage)
	if err != nil {
		return zero, err
	}
	items, err := r.mapHits(hits)
	if err != nil {
		return zero, err
	}
	return domain.NewSearchResult(items, total, page), nil
}

// baseQueryWithFilters layers aggregate filters between the type predicate
// and the trailing scope predicates.
func (r *Repo[T]) baseQueryWithFilters(filters []map[string]any) *boolQuery {
	b := newBoolQuery().Filter(termClause("type", string(r.agg)))
	b.Must(filters...)
	for _, s := range r.scopes {
		if s == scopeIgnoreSoftDeleted {
			b.MustNot(existsClause("deleted_at"))
		}
	}
	return b
}

// resolveSort maps the logical sort field to its physical counterpart.
// Unknown fields are ignored, not rejected: the default created_at desc
// ordering applies.
func (r *Repo[T]) resolveSort(page domain.Page) map[string]any {
	physical, ok := r.sortable[page.Sort]
	if !ok {
		return map[string]any{"created_at": map[string]any{"order": domain.SortDesc}}
	}
	dir := page.SortDir
	if dir != domain.SortAsc && dir != domain.SortDesc {
		dir = domain.SortAsc
	}
	return map[string]any{physical: map[string]any{"order": dir}}
}

// ---------------------------------------------------------------------------
// Low-level search plumbing
// ---------------------------------------------------------------------------

type searchHit struct {
	ID     string          `json:"_id"`
	Source json.RawMessage `json:"_source"`
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []searchHit `json:"hits"`
	} `json:"hits"`
}

func (r *Repo[T]) doSearch(ctx context.Context, query *boolQuery, sort []map[string]any, from, size int) ([]searchHit, int, error) {
	body := map[string]any{"query": query.Build()}
	if len(sort) > 0 {
		body["sort"] = sort
	}
	return r.rawSearch(ctx, body, from, size)
}

func (r *Repo[T]) rawSearch(ctx context.Context, body map[string]any, from, size int) ([]searchHit, int, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal search body: %w", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(bytes.NewReader(raw)),
		r.client.Search.WithFrom(from),
		r.client.Search.WithSize(size),
		r.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, 0, domain.Retriable(fmt.Errorf("search %s: %w", r.agg, err))
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, 0, domain.Retriable(fmt.Errorf("read search response: %w", err))
	}
	if err := r.checkResponse(res.StatusCode, bytes.NewReader(payload), "search"); err != nil {
		return nil, 0, err
	}

	var out searchResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}
	return out.Hits.Hits, out.Hits.Total.Value, nil
}

func (r *Repo[T]) mapHits(hits []searchHit) ([]*T, error) {
	entities := make([]*T, 0, len(hits))
	for _, hit := range hits {
		entity, err := r.mapper.FromDocument(hit.Source)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// checkResponse turns a non-2xx store response into an error. Server-side
// and throttling failures are retriable; client-side failures are not.
func (r *Repo[T]) checkResponse(status int, body io.Reader, op string) error {
	if status < http.StatusBadRequest {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(body, 512))
	err := fmt.Errorf("%s %s: status %d: %s", op, r.agg, status, snippet)
	if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests {
		return domain.Retriable(err)
	}
	return err
}

func (r *Repo[T]) refreshParam() string {
	if r.refresh {
		return "true"
	}
	return "false"
}
