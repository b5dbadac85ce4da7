package domain

import "time"

// Genre is a catalog genre aggregate. A non-deleted genre always embeds
// at least one category snapshot.
type Genre struct {
	ID         string
	Name       string
	IsActive   bool
	CreatedAt  time.Time
	DeletedAt  *time.Time
	Categories []NestedCategory
}

// IsDeleted returns true if the genre has been soft-deleted.
func (g *Genre) IsDeleted() bool {
	return g.DeletedAt != nil
}

// Snapshot returns the point-in-time copy embedded into videos at sync time.
func (g *Genre) Snapshot() NestedGenre {
	return NestedGenre{
		ID:        g.ID,
		Name:      g.Name,
		IsActive:  g.IsActive,
		DeletedAt: g.DeletedAt,
	}
}

// NestedGenre is an embedded genre snapshot.
type NestedGenre struct {
	ID        string
	Name      string
	IsActive  bool
	DeletedAt *time.Time
}
