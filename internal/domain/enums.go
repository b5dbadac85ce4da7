package domain

import "fmt"

// AggregateType is the document discriminator stored alongside every
// document in the shared index.
type AggregateType string

const (
	TypeCategory   AggregateType = "Category"
	TypeGenre      AggregateType = "Genre"
	TypeCastMember AggregateType = "CastMember"
	TypeVideo      AggregateType = "Video"
)

// CastMemberType distinguishes directors from actors. Wire values match
// the upstream relational enum.
type CastMemberType int

const (
	CastMemberDirector CastMemberType = 1
	CastMemberActor    CastMemberType = 2
)

// ParseCastMemberType validates a raw enum value from a CDC payload.
func ParseCastMemberType(v int) (CastMemberType, error) {
	switch t := CastMemberType(v); t {
	case CastMemberDirector, CastMemberActor:
		return t, nil
	default:
		return 0, NewValidationError("type", fmt.Sprintf("invalid cast member type %d", v))
	}
}

func (t CastMemberType) String() string {
	switch t {
	case CastMemberDirector:
		return "director"
	case CastMemberActor:
		return "actor"
	default:
		return fmt.Sprintf("CastMemberType(%d)", int(t))
	}
}

// Rating is the audience rating of a video.
type Rating string

const (
	RatingFree Rating = "L"
	Rating10   Rating = "10"
	Rating12   Rating = "12"
	Rating14   Rating = "14"
	Rating16   Rating = "16"
	Rating18   Rating = "18"
)

var validRatings = map[Rating]struct{}{
	RatingFree: {}, Rating10: {}, Rating12: {}, Rating14: {}, Rating16: {}, Rating18: {},
}

// ParseRating validates a raw rating value from a CDC payload.
func ParseRating(v string) (Rating, error) {
	r := Rating(v)
	if _, ok := validRatings[r]; !ok {
		return "", NewValidationError("rating", fmt.Sprintf("invalid rating %q", v))
	}
	return r, nil
}
