// AngelaMos | 2026
// service.go

package review

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/angelamos/reviewdeck/internal/authz"
	"github.com/angelamos/reviewdeck/internal/core"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) CreateReview(
	ctx context.Context,
	principal *authz.Principal,
	titleID string,
	req CreateReviewRequest,
) (*Review, error) {
	if !authz.CanCreateContent(principal) {
		return nil, core.UnauthorizedError("authentication required")
	}

	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	taken, err := s.repo.HasReviewByAuthor(ctx, titleID, principal.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, core.ConflictError("you have already reviewed this title")
	}

	rev := &Review{
		ID:             uuid.New().String(),
		TitleID:        titleID,
		AuthorID:       principal.ID,
		AuthorUsername: principal.Username,
		Score:          req.Score,
		Text:           req.Text,
	}

	if err := s.repo.CreateReview(ctx, rev); err != nil {
		// The unique constraint catches the race the pre-check missed.
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.ConflictError(
				"you have already reviewed this title",
			)
		}
		return nil, err
	}

	s.logger.Info("review created",
		"review_id", rev.ID,
		"title_id", titleID,
		"author", principal.Username,
	)

	return rev, nil
}

func (s *Service) GetReview(
	ctx context.Context,
	titleID, reviewID string,
) (*Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	return s.repo.GetReview(ctx, titleID, reviewID)
}

func (s *Service) UpdateReview(
	ctx context.Context,
	principal *authz.Principal,
	titleID, reviewID string,
	req UpdateReviewRequest,
) (*Review, error) {
	rev, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if !authz.CanModifyContent(principal, rev.AuthorID) {
		return nil, core.ForbiddenError(
			"you may not modify another user's review",
		)
	}

	if req.Score != nil {
		rev.Score = *req.Score
	}
	if req.Text != nil {
		rev.Text = *req.Text
	}

	if err := s.repo.UpdateReview(ctx, rev); err != nil {
		return nil, err
	}

	return rev, nil
}

func (s *Service) DeleteReview(
	ctx context.Context,
	principal *authz.Principal,
	titleID, reviewID string,
) error {
	rev, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}

	if !authz.CanModifyContent(principal, rev.AuthorID) {
		return core.ForbiddenError(
			"you may not delete another user's review",
		)
	}

	if err := s.repo.DeleteReview(ctx, rev.ID); err != nil {
		return err
	}

	s.logger.Info("review deleted",
		"review_id", rev.ID,
		"title_id", titleID,
		"actor", principal.Username,
	)

	return nil
}

func (s *Service) ListReviews(
	ctx context.Context,
	titleID string,
	params ListParams,
) ([]Review, int, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}

	return s.repo.ListReviews(ctx, titleID, params)
}

func (s *Service) CreateComment(
	ctx context.Context,
	principal *authz.Principal,
	titleID, reviewID string,
	req CreateCommentRequest,
) (*Comment, error) {
	if !authz.CanCreateContent(principal) {
		return nil, core.UnauthorizedError("authentication required")
	}

	// Resolves 404 for both an unknown title and a review that does not
	// belong to it.
	rev, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:             uuid.New().String(),
		ReviewID:       rev.ID,
		AuthorID:       principal.ID,
		AuthorUsername: principal.Username,
		Text:           req.Text,
	}

	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment created",
		"comment_id", comment.ID,
		"review_id", rev.ID,
		"author", principal.Username,
	)

	return comment, nil
}

func (s *Service) GetComment(
	ctx context.Context,
	titleID, reviewID, commentID string,
) (*Comment, error) {
	rev, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	return s.repo.GetComment(ctx, rev.ID, commentID)
}

func (s *Service) UpdateComment(
	ctx context.Context,
	principal *authz.Principal,
	titleID, reviewID, commentID string,
	req UpdateCommentRequest,
) (*Comment, error) {
	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if !authz.CanModifyContent(principal, comment.AuthorID) {
		return nil, core.ForbiddenError(
			"you may not modify another user's comment",
		)
	}

	comment.Text = req.Text

	if err := s.repo.UpdateComment(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *Service) DeleteComment(
	ctx context.Context,
	principal *authz.Principal,
	titleID, reviewID, commentID string,
) error {
	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if !authz.CanModifyContent(principal, comment.AuthorID) {
		return core.ForbiddenError(
			"you may not delete another user's comment",
		)
	}

	if err := s.repo.DeleteComment(ctx, comment.ID); err != nil {
		return err
	}

	s.logger.Info("comment deleted",
		"comment_id", comment.ID,
		"review_id", reviewID,
		"actor", principal.Username,
	)

	return nil
}

func (s *Service) ListComments(
	ctx context.Context,
	titleID, reviewID string,
	params ListParams,
) ([]Comment, int, error) {
	rev, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, 0, err
	}

	return s.repo.ListComments(ctx, rev.ID, params)
}

func (s *Service) requireTitle(ctx context.Context, titleID string) error {
	exists, err := s.repo.TitleExists(ctx, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return core.NotFoundError("title")
	}
	return nil
}
