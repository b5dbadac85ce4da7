package cdc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/flixhub/catalog-search/internal/domain"
	"github.com/flixhub/catalog-search/internal/service/catalog"
	"github.com/flixhub/catalog-search/pkg/ctxutil"
)

// HandlerFunc processes one decoded message payload. A nil return commits
// the offset; a retriable error (per domain.IsRetriable) asks the broker
// layer for redelivery; anything else is terminal for the message.
type HandlerFunc func(ctx context.Context, payload []byte) error

// Service seams, one per aggregate.

type categoryService interface {
	Save(ctx context.Context, in catalog.SaveCategoryInput) error
	Delete(ctx context.Context, id string) error
}

type genreService interface {
	Save(ctx context.Context, in catalog.SaveGenreInput) error
	Delete(ctx context.Context, id string) error
}

type castMemberService interface {
	Save(ctx context.Context, in catalog.SaveCastMemberInput) error
	Delete(ctx context.Context, id string) error
}

type videoService interface {
	Save(ctx context.Context, in catalog.SaveVideoInput) error
	Delete(ctx context.Context, id string) error
}

// dispatch implements the per-envelope state machine shared by all four
// aggregates: read events are backfill echoes and dropped, create/update
// go through the save path, delete is tolerant of targets that are
// already gone so duplicate delivery converges.
func dispatch(ctx context.Context, log *slog.Logger, payload []byte, entity string,
	save func(context.Context, *Envelope) error,
	del func(context.Context, *Envelope) error,
) error {
	if key := ctxutil.MessageKeyFromCtx(ctx); key != "" {
		log = log.With(slog.String("key", key))
	}

	env, err := ParseEnvelope(payload)
	if err != nil {
		return err
	}

	switch env.Op {
	case OpRead:
		log.DebugContext(ctx, "read event discarded", slog.String("entity", entity))
		return nil
	case OpCreate, OpUpdate:
		return save(ctx, env)
	case OpDelete:
		err := del(ctx, env)
		if errors.Is(err, domain.ErrNotFound) {
			log.DebugContext(ctx, "delete for absent document tolerated",
				slog.String("entity", entity))
			return nil
		}
		return err
	default:
		return domain.NewValidationError("op", fmt.Sprintf("unknown operation %q", env.Op))
	}
}

// NewCategoryHandler routes category CDC envelopes.
func NewCategoryHandler(log *slog.Logger, svc categoryService) HandlerFunc {
	log = log.With("handler", "category")
	return func(ctx context.Context, payload []byte) error {
		return dispatch(ctx, log, payload, "category",
			func(ctx context.Context, env *Envelope) error {
				var row categoryPayload
				if err := decodeAfter(env.After, "category", &row); err != nil {
					return err
				}
				return svc.Save(ctx, catalog.SaveCategoryInput{
					ID:          row.ID,
					Name:        row.Name,
					Description: row.Description,
					IsActive:    bool(row.IsActive),
					CreatedAt:   row.CreatedAt.Time,
				})
			},
			func(ctx context.Context, env *Envelope) error {
				id, err := identity(env.Before, "category")
				if err != nil {
					return err
				}
				return svc.Delete(ctx, id)
			},
		)
	}
}

// NewGenreHandler routes genre CDC envelopes.
func NewGenreHandler(log *slog.Logger, svc genreService) HandlerFunc {
	log = log.With("handler", "genre")
	return func(ctx context.Context, payload []byte) error {
		return dispatch(ctx, log, payload, "genre",
			func(ctx context.Context, env *Envelope) error {
				var row genrePayload
				if err := decodeAfter(env.After, "genre", &row); err != nil {
					return err
				}
				return svc.Save(ctx, catalog.SaveGenreInput{
					ID:          row.ID,
					Name:        row.Name,
					IsActive:    bool(row.IsActive),
					CreatedAt:   row.CreatedAt.Time,
					CategoryIDs: row.CategoryIDs,
				})
			},
			func(ctx context.Context, env *Envelope) error {
				id, err := identity(env.Before, "genre")
				if err != nil {
					return err
				}
				return svc.Delete(ctx, id)
			},
		)
	}
}

// NewCastMemberHandler routes cast member CDC envelopes.
func NewCastMemberHandler(log *slog.Logger, svc castMemberService) HandlerFunc {
	log = log.With("handler", "castmember")
	return func(ctx context.Context, payload []byte) error {
		return dispatch(ctx, log, payload, "cast member",
			func(ctx context.Context, env *Envelope) error {
				var row castMemberPayload
				if err := decodeAfter(env.After, "cast member", &row); err != nil {
					return err
				}
				return svc.Save(ctx, catalog.SaveCastMemberInput{
					ID:        row.ID,
					Name:      row.Name,
					Type:      row.Type,
					CreatedAt: row.CreatedAt.Time,
				})
			},
			func(ctx context.Context, env *Envelope) error {
				id, err := identity(env.Before, "cast member")
				if err != nil {
					return err
				}
				return svc.Delete(ctx, id)
			},
		)
	}
}

// NewVideoHandler routes video CDC envelopes.
func NewVideoHandler(log *slog.Logger, svc videoService) HandlerFunc {
	log = log.With("handler", "video")
	return func(ctx context.Context, payload []byte) error {
		return dispatch(ctx, log, payload, "video",
			func(ctx context.Context, env *Envelope) error {
				var row videoPayload
				if err := decodeAfter(env.After, "video", &row); err != nil {
					return err
				}
				return svc.Save(ctx, videoInput(row))
			},
			func(ctx context.Context, env *Envelope) error {
				id, err := identity(env.Before, "video")
				if err != nil {
					return err
				}
				return svc.Delete(ctx, id)
			},
		)
	}
}

// NewVideoAggregateHandler consumes the fixed-name aggregate topic whose
// messages are hand-emitted full video payloads, not CDC envelopes. They
// run the same save path as connector events.
func NewVideoAggregateHandler(log *slog.Logger, svc videoService) HandlerFunc {
	log = log.With("handler", "video_aggregate")
	return func(ctx context.Context, payload []byte) error {
		var row videoPayload
		if err := decodeAfter(payload, "video", &row); err != nil {
			return err
		}
		log.DebugContext(ctx, "aggregate save", slog.String("id", row.ID))
		return svc.Save(ctx, videoInput(row))
	}
}

func videoInput(row videoPayload) catalog.SaveVideoInput {
	return catalog.SaveVideoInput{
		ID:               row.ID,
		Title:            row.Title,
		Description:      row.Description,
		LaunchYear:       row.LaunchYear,
		Rating:           row.Rating,
		Duration:         row.Duration,
		Opened:           bool(row.Opened),
		Published:        bool(row.Published),
		BannerURL:        row.BannerURL,
		ThumbnailURL:     row.ThumbnailURL,
		ThumbnailHalfURL: row.ThumbnailHalfURL,
		TrailerURL:       row.TrailerURL,
		VideoURL:         row.VideoURL,
		CreatedAt:        row.CreatedAt.Time,
		CategoryIDs:      row.CategoryIDs,
		GenreIDs:         row.GenreIDs,
		CastMemberIDs:    row.CastMemberIDs,
	}
}
