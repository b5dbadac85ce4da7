package domain

import "time"

// Video is the richest aggregate in the catalog. It embeds snapshots of
// every related category, genre and cast member; each of the three nested
// arrays is mandatory (at least one member). Videos are hard-deleted,
// there is no soft-delete scope for them.
type Video struct {
	ID               string
	Title            string
	Description      string
	LaunchYear       int
	Rating           Rating
	Duration         int
	Opened           bool
	Published        bool
	BannerURL        string
	ThumbnailURL     string
	ThumbnailHalfURL string
	TrailerURL       string
	VideoURL         string
	CreatedAt        time.Time

	Categories  []NestedCategory
	Genres      []NestedGenre
	CastMembers []NestedCastMember
}
