package cdc

import (
	"encoding/json"

	"github.com/flixhub/catalog-search/internal/domain"
)

// Row images as emitted by the source connector. Field names follow the
// relational schema, including the *_id arrays the source denormalizes
// into its outbox rows.

type categoryPayload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IsActive    Bool      `json:"is_active"`
	CreatedAt   Timestamp `json:"created_at"`
}

type genrePayload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	IsActive    Bool      `json:"is_active"`
	CreatedAt   Timestamp `json:"created_at"`
	CategoryIDs []string  `json:"categories_id"`
}

type castMemberPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      int       `json:"type"`
	CreatedAt Timestamp `json:"created_at"`
}

type videoPayload struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	LaunchYear       int       `json:"launch_year"`
	Rating           string    `json:"rating"`
	Duration         int       `json:"duration"`
	Opened           Bool      `json:"opened"`
	Published        Bool      `json:"is_published"`
	BannerURL        string    `json:"banner_file_url"`
	ThumbnailURL     string    `json:"thumb_file_url"`
	ThumbnailHalfURL string    `json:"thumb_half_file_url"`
	TrailerURL       string    `json:"trailer_file_url"`
	VideoURL         string    `json:"video_file_url"`
	CreatedAt        Timestamp `json:"created_at"`

	CategoryIDs   []string `json:"categories_id"`
	GenreIDs      []string `json:"genres_id"`
	CastMemberIDs []string `json:"cast_members_id"`
}

// identity extracts the aggregate id from a before image. Deletes carry at
// least the identifier.
func identity(raw json.RawMessage, entity string) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", domain.NewValidationError("before", "delete event for "+entity+" has no before image")
	}
	var row struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &row); err != nil {
		return "", domain.NewValidationError("before", "malformed before image: "+err.Error())
	}
	if row.ID == "" {
		return "", domain.NewValidationError("before.id", "required")
	}
	return row.ID, nil
}

// decodeAfter decodes the after image of a create/update into dst.
func decodeAfter(raw json.RawMessage, entity string, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return domain.NewValidationError("after", "create/update event for "+entity+" has no after image")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return domain.NewValidationError("after", "malformed after image: "+err.Error())
	}
	return nil
}
