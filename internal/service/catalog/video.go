package catalog

import (
	"context"
	"log/slog"

	"github.com/flixhub/catalog-search/internal/domain"
)

type videoRepo interface {
	Insert(ctx context.Context, video *domain.Video) error
	Delete(ctx context.Context, id string) error
}

type relationResolver interface {
	ResolveCategories(ctx context.Context, ids []string) ([]domain.NestedCategory, error)
	ResolveGenres(ctx context.Context, ids []string) ([]domain.NestedGenre, error)
	ResolveCastMembers(ctx context.Context, ids []string) ([]domain.NestedCastMember, error)
}

// VideoService applies video CDC events to the search projection.
type VideoService struct {
	repo     videoRepo
	resolver relationResolver
	log      *slog.Logger
}

// NewVideoService creates a VideoService.
func NewVideoService(log *slog.Logger, repo videoRepo, resolver relationResolver) *VideoService {
	return &VideoService{
		repo:     repo,
		resolver: resolver,
		log:      log.With("service", "video"),
	}
}

// Save upserts a video document. All three relation kinds are re-resolved
// sequentially from their current authoritative state; any resolution
// failure aborts the save before anything is written, so partially
// resolved data is never persisted. Redelivery redoes the same resolution
// and converges on the same document.
func (s *VideoService) Save(ctx context.Context, in SaveVideoInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	categories, err := s.resolver.ResolveCategories(ctx, in.CategoryIDs)
	if err != nil {
		return err
	}
	genres, err := s.resolver.ResolveGenres(ctx, in.GenreIDs)
	if err != nil {
		return err
	}
	castMembers, err := s.resolver.ResolveCastMembers(ctx, in.CastMemberIDs)
	if err != nil {
		return err
	}

	// Validate already checked the enum.
	rating, _ := domain.ParseRating(in.Rating)

	video := &domain.Video{
		ID:               in.ID,
		Title:            in.Title,
		Description:      in.Description,
		LaunchYear:       in.LaunchYear,
		Rating:           rating,
		Duration:         in.Duration,
		Opened:           in.Opened,
		Published:        in.Published,
		BannerURL:        in.BannerURL,
		ThumbnailURL:     in.ThumbnailURL,
		ThumbnailHalfURL: in.ThumbnailHalfURL,
		TrailerURL:       in.TrailerURL,
		VideoURL:         in.VideoURL,
		CreatedAt:        in.CreatedAt,
		Categories:       categories,
		Genres:           genres,
		CastMembers:      castMembers,
	}

	if err := s.repo.Insert(ctx, video); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "video saved",
		slog.String("id", in.ID),
		slog.Int("categories", len(categories)),
		slog.Int("genres", len(genres)),
		slog.Int("cast_members", len(castMembers)),
	)
	return nil
}

// Delete hard-removes a video document. Videos have no soft-delete
// concept, so the index entry is physically deleted by query.
func (s *VideoService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "video deleted", slog.String("id", id))
	return nil
}
