package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/flixhub/catalog-search/internal/domain"
)

type castMemberRepo interface {
	Insert(ctx context.Context, member *domain.CastMember) error
	FindByID(ctx context.Context, id string) (*domain.CastMember, error)
}

// CastMemberService applies cast member CDC events to the search
// projection.
type CastMemberService struct {
	repo castMemberRepo
	log  *slog.Logger
	now  func() time.Time
}

// NewCastMemberService creates a CastMemberService.
func NewCastMemberService(log *slog.Logger, repo castMemberRepo) *CastMemberService {
	return &CastMemberService{
		repo: repo,
		log:  log.With("service", "castmember"),
		now:  time.Now,
	}
}

// Save upserts a cast member document from a full row image.
func (s *CastMemberService) Save(ctx context.Context, in SaveCastMemberInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	// Validate already checked the enum.
	memberType, _ := domain.ParseCastMemberType(in.Type)

	member := &domain.CastMember{
		ID:        in.ID,
		Name:      in.Name,
		Type:      memberType,
		CreatedAt: in.CreatedAt,
	}

	if err := s.repo.Insert(ctx, member); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "cast member saved", slog.String("id", in.ID))
	return nil
}

// Delete soft-deletes a cast member. Idempotent for already-deleted
// members.
func (s *CastMemberService) Delete(ctx context.Context, id string) error {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if member == nil {
		return domain.NewNotFoundError(string(domain.TypeCastMember), id)
	}
	if member.IsDeleted() {
		return nil
	}

	deletedAt := s.now().UTC()
	member.DeletedAt = &deletedAt

	if err := s.repo.Insert(ctx, member); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "cast member soft-deleted", slog.String("id", id))
	return nil
}
