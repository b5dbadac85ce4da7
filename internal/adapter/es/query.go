// Package es implements the shared-index document store adapter. All four
// catalog aggregates live in one Elasticsearch index discriminated by the
// "type" field; every query issued through this package carries the type
// predicate so documents of sibling aggregates never leak across
// repositories.
package es

import "strings"

// boolQuery assembles an Elasticsearch bool query as a plain map tree.
type boolQuery struct {
	must    []map[string]any
	filter  []map[string]any
	mustNot []map[string]any
}

func newBoolQuery() *boolQuery { return &boolQuery{} }

func (b *boolQuery) Must(clauses ...map[string]any) *boolQuery {
	b.must = append(b.must, clauses...)
	return b
}

func (b *boolQuery) Filter(clauses ...map[string]any) *boolQuery {
	b.filter = append(b.filter, clauses...)
	return b
}

func (b *boolQuery) MustNot(clauses ...map[string]any) *boolQuery {
	b.mustNot = append(b.mustNot, clauses...)
	return b
}

func (b *boolQuery) Build() map[string]any {
	body := map[string]any{}
	if len(b.must) > 0 {
		body["must"] = b.must
	}
	if len(b.filter) > 0 {
		body["filter"] = b.filter
	}
	if len(b.mustNot) > 0 {
		body["must_not"] = b.mustNot
	}
	return map[string]any{"bool": body}
}

// ---------------------------------------------------------------------------
// Leaf clauses
// ---------------------------------------------------------------------------

func termClause(field string, value any) map[string]any {
	return map[string]any{"term": map[string]any{field: value}}
}

func idsClause(ids []string) map[string]any {
	return map[string]any{"ids": map[string]any{"values": ids}}
}

func existsClause(field string) map[string]any {
	return map[string]any{"exists": map[string]any{"field": field}}
}

// wildcardClause matches a case-insensitive substring against the keyword
// sub-field, so filtering stays exact-ish while the analyzed sibling field
// keeps serving full-text queries.
func wildcardClause(field, text string) map[string]any {
	return map[string]any{
		"wildcard": map[string]any{
			field + ".keyword": map[string]any{
				"value":            "*" + strings.ToLower(text) + "*",
				"case_insensitive": true,
			},
		},
	}
}

// multiMatchClause fuzzy-matches text across several analyzed fields.
func multiMatchClause(text string, fields ...string) map[string]any {
	return map[string]any{
		"multi_match": map[string]any{
			"query":     text,
			"fields":    fields,
			"fuzziness": "AUTO",
		},
	}
}

// nestedClause scopes a query to one element of a nested snapshot array:
// a match on any element satisfies the predicate.
func nestedClause(path string, query map[string]any) map[string]any {
	return map[string]any{
		"nested": map[string]any{
			"path":  path,
			"query": query,
		},
	}
}

// nestedTermClause is the common relation filter: any snapshot in the
// array with the given id.
func nestedTermClause(path, field string, value any) map[string]any {
	return nestedClause(path, termClause(path+"."+field, value))
}
