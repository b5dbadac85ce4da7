package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/flixhub/catalog-search/internal/domain"
)

// Inputs are the validated shapes the CDC pipeline feeds into the save
// paths. Validation is explicit and collects every field problem before
// returning, so a malformed payload is reported in one pass.

// SaveCategoryInput carries a full category row image.
type SaveCategoryInput struct {
	ID          string
	Name        string
	Description *string
	IsActive    bool
	CreatedAt   time.Time
}

// Validate reports every invalid field.
func (in SaveCategoryInput) Validate() error {
	var errs []domain.FieldError
	errs = appendIDError(errs, in.ID)
	errs = appendNameError(errs, in.Name)
	errs = appendCreatedAtError(errs, in.CreatedAt)
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// SaveGenreInput carries a full genre row image plus its relation ids.
type SaveGenreInput struct {
	ID          string
	Name        string
	IsActive    bool
	CreatedAt   time.Time
	CategoryIDs []string
}

// Validate reports every invalid field. Relation membership is checked by
// the resolver, not here; this only validates shape.
func (in SaveGenreInput) Validate() error {
	var errs []domain.FieldError
	errs = appendIDError(errs, in.ID)
	errs = appendNameError(errs, in.Name)
	errs = appendCreatedAtError(errs, in.CreatedAt)
	if len(in.CategoryIDs) == 0 {
		errs = append(errs, domain.FieldError{Field: "categories_id", Message: "at least one category id is required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// SaveCastMemberInput carries a full cast member row image.
type SaveCastMemberInput struct {
	ID        string
	Name      string
	Type      int
	CreatedAt time.Time
}

// Validate reports every invalid field.
func (in SaveCastMemberInput) Validate() error {
	var errs []domain.FieldError
	errs = appendIDError(errs, in.ID)
	errs = appendNameError(errs, in.Name)
	errs = appendCreatedAtError(errs, in.CreatedAt)
	if _, err := domain.ParseCastMemberType(in.Type); err != nil {
		errs = append(errs, domain.FieldError{Field: "type", Message: "must be 1 (director) or 2 (actor)"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// SaveVideoInput carries a full video row image plus its relation ids.
type SaveVideoInput struct {
	ID               string
	Title            string
	Description      string
	LaunchYear       int
	Rating           string
	Duration         int
	Opened           bool
	Published        bool
	BannerURL        string
	ThumbnailURL     string
	ThumbnailHalfURL string
	TrailerURL       string
	VideoURL         string
	CreatedAt        time.Time

	CategoryIDs   []string
	GenreIDs      []string
	CastMemberIDs []string
}

// Validate reports every invalid field.
func (in SaveVideoInput) Validate() error {
	var errs []domain.FieldError
	errs = appendIDError(errs, in.ID)
	if in.Title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if _, err := domain.ParseRating(in.Rating); err != nil {
		errs = append(errs, domain.FieldError{Field: "rating", Message: "must be one of L, 10, 12, 14, 16, 18"})
	}
	if in.LaunchYear <= 0 {
		errs = append(errs, domain.FieldError{Field: "launch_year", Message: "must be positive"})
	}
	if in.Duration < 0 {
		errs = append(errs, domain.FieldError{Field: "duration", Message: "must be >= 0"})
	}
	errs = appendCreatedAtError(errs, in.CreatedAt)
	if len(in.CategoryIDs) == 0 {
		errs = append(errs, domain.FieldError{Field: "categories_id", Message: "at least one category id is required"})
	}
	if len(in.GenreIDs) == 0 {
		errs = append(errs, domain.FieldError{Field: "genres_id", Message: "at least one genre id is required"})
	}
	if len(in.CastMemberIDs) == 0 {
		errs = append(errs, domain.FieldError{Field: "cast_members_id", Message: "at least one cast member id is required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func appendIDError(errs []domain.FieldError, id string) []domain.FieldError {
	if id == "" {
		return append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	if _, err := uuid.Parse(id); err != nil {
		return append(errs, domain.FieldError{Field: "id", Message: "must be a valid uuid"})
	}
	return errs
}

func appendNameError(errs []domain.FieldError, name string) []domain.FieldError {
	if name == "" {
		return append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	return errs
}

func appendCreatedAtError(errs []domain.FieldError, t time.Time) []domain.FieldError {
	if t.IsZero() {
		return append(errs, domain.FieldError{Field: "created_at", Message: "required"})
	}
	return errs
}
