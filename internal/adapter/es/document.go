package es

import "time"

// Documents are the wire/storage shapes kept in the shared index. Every
// document carries the "type" discriminator and its aggregate id; writes
// always replace the whole body, never patch.

type nestedCategoryDocument struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	IsActive  bool       `json:"is_active"`
	DeletedAt *time.Time `json:"deleted_at"`
}

type nestedGenreDocument struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	IsActive  bool       `json:"is_active"`
	DeletedAt *time.Time `json:"deleted_at"`
}

type nestedCastMemberDocument struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Type      int        `json:"type"`
	DeletedAt *time.Time `json:"deleted_at"`
}

type categoryDocument struct {
	Type        string     `json:"type"`
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `json:"deleted_at"`
}

type genreDocument struct {
	Type       string                   `json:"type"`
	ID         string                   `json:"id"`
	Name       string                   `json:"name"`
	IsActive   bool                     `json:"is_active"`
	CreatedAt  time.Time                `json:"created_at"`
	DeletedAt  *time.Time               `json:"deleted_at"`
	Categories []nestedCategoryDocument `json:"categories"`
}

// castMemberDocument stores the member kind under "cast_member_type"
// because "type" is taken by the index-wide discriminator.
type castMemberDocument struct {
	Type           string     `json:"type"`
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	CastMemberType int        `json:"cast_member_type"`
	CreatedAt      time.Time  `json:"created_at"`
	DeletedAt      *time.Time `json:"deleted_at"`
}

type videoDocument struct {
	Type             string    `json:"type"`
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	LaunchYear       int       `json:"launch_year"`
	Rating           string    `json:"rating"`
	Duration         int       `json:"duration"`
	Opened           bool      `json:"opened"`
	Published        bool      `json:"published"`
	BannerURL        string    `json:"banner_url"`
	ThumbnailURL     string    `json:"thumbnail_url"`
	ThumbnailHalfURL string    `json:"thumbnail_half_url"`
	TrailerURL       string    `json:"trailer_url"`
	VideoURL         string    `json:"video_url"`
	CreatedAt        time.Time `json:"created_at"`

	Categories  []nestedCategoryDocument   `json:"categories"`
	Genres      []nestedGenreDocument      `json:"genres"`
	CastMembers []nestedCastMemberDocument `json:"cast_members"`
}
