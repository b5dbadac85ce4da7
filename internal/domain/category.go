package domain

import "time"

// Category is a catalog category aggregate as projected into the search
// index.
type Category struct {
	ID          string
	Name        string
	Description *string
	IsActive    bool
	CreatedAt   time.Time
	DeletedAt   *time.Time
}

// IsDeleted returns true if the category has been soft-deleted.
func (c *Category) IsDeleted() bool {
	return c.DeletedAt != nil
}

// Snapshot returns the point-in-time copy embedded into owning aggregates
// (genres, videos) at sync time. Snapshots are not kept live-consistent;
// they are refreshed only when the owning aggregate is re-saved.
func (c *Category) Snapshot() NestedCategory {
	return NestedCategory{
		ID:        c.ID,
		Name:      c.Name,
		IsActive:  c.IsActive,
		DeletedAt: c.DeletedAt,
	}
}

// NestedCategory is an embedded category snapshot.
type NestedCategory struct {
	ID        string
	Name      string
	IsActive  bool
	DeletedAt *time.Time
}
