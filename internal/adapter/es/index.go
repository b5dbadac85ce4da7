package es

import (
	"context"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
)

// indexMapping is the shared-index schema. Text fields carry a keyword
// sub-field so the same field supports full-text search, exact sort and
// case-insensitive wildcard filtering; relation snapshots are nested so
// array elements are queried as independent sub-documents.
const indexMapping = `{
  "mappings": {
    "properties": {
      "type":        {"type": "keyword"},
      "id":          {"type": "keyword"},
      "name":        {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "title":       {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "description": {"type": "text"},
      "is_active":   {"type": "boolean"},
      "cast_member_type": {"type": "integer"},
      "launch_year": {"type": "integer"},
      "rating":      {"type": "keyword"},
      "duration":    {"type": "integer"},
      "opened":      {"type": "boolean"},
      "published":   {"type": "boolean"},
      "banner_url":         {"type": "keyword", "index": false},
      "thumbnail_url":      {"type": "keyword", "index": false},
      "thumbnail_half_url": {"type": "keyword", "index": false},
      "trailer_url":        {"type": "keyword", "index": false},
      "video_url":          {"type": "keyword", "index": false},
      "created_at":  {"type": "date"},
      "deleted_at":  {"type": "date"},
      "categories": {
        "type": "nested",
        "properties": {
          "id":         {"type": "keyword"},
          "name":       {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
          "is_active":  {"type": "boolean"},
          "deleted_at": {"type": "date"}
        }
      },
      "genres": {
        "type": "nested",
        "properties": {
          "id":         {"type": "keyword"},
          "name":       {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
          "is_active":  {"type": "boolean"},
          "deleted_at": {"type": "date"}
        }
      },
      "cast_members": {
        "type": "nested",
        "properties": {
          "id":         {"type": "keyword"},
          "name":       {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
          "type":       {"type": "integer"},
          "deleted_at": {"type": "date"}
        }
      }
    }
  }
}`

// EnsureIndex creates the shared index with its mapping if it does not
// exist yet. It is safe to call on every startup.
func EnsureIndex(ctx context.Context, client *elasticsearch.Client, index string) error {
	res, err := client.Indices.Exists(
		[]string{index},
		client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es: check index %s: %w", index, err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	createRes, err := client.Indices.Create(
		index,
		client.Indices.Create.WithContext(ctx),
		client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("es: create index %s: %w", index, err)
	}
	defer createRes.Body.Close()
	if createRes.IsError() {
		return fmt.Errorf("es: create index %s: status %d", index, createRes.StatusCode)
	}
	return nil
}

// DeleteIndex removes the shared index. Missing indices are ignored so
// recreate flows stay idempotent.
func DeleteIndex(ctx context.Context, client *elasticsearch.Client, index string) error {
	res, err := client.Indices.Delete(
		[]string{index},
		client.Indices.Delete.WithContext(ctx),
		client.Indices.Delete.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return fmt.Errorf("es: delete index %s: %w", index, err)
	}
	res.Body.Close()
	return nil
}
