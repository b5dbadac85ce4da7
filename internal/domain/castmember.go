package domain

import "time"

// CastMember is a catalog cast member aggregate (director or actor).
type CastMember struct {
	ID        string
	Name      string
	Type      CastMemberType
	CreatedAt time.Time
	DeletedAt *time.Time
}

// IsDeleted returns true if the cast member has been soft-deleted.
func (m *CastMember) IsDeleted() bool {
	return m.DeletedAt != nil
}

// Snapshot returns the point-in-time copy embedded into videos at sync time.
func (m *CastMember) Snapshot() NestedCastMember {
	return NestedCastMember{
		ID:        m.ID,
		Name:      m.Name,
		Type:      m.Type,
		DeletedAt: m.DeletedAt,
	}
}

// NestedCastMember is an embedded cast member snapshot.
type NestedCastMember struct {
	ID        string
	Name      string
	Type      CastMemberType
	DeletedAt *time.Time
}
