// AngelaMos | 2026
// repository.go

package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/angelamos/reviewdeck/internal/core"
)

type Repository interface {
	TitleExists(ctx context.Context, titleID string) (bool, error)

	CreateReview(ctx context.Context, rev *Review) error
	GetReview(ctx context.Context, titleID, reviewID string) (*Review, error)
	HasReviewByAuthor(
		ctx context.Context,
		titleID, authorID string,
	) (bool, error)
	UpdateReview(ctx context.Context, rev *Review) error
	DeleteReview(ctx context.Context, reviewID string) error
	ListReviews(
		ctx context.Context,
		titleID string,
		params ListParams,
	) ([]Review, int, error)

	CreateComment(ctx context.Context, comment *Comment) error
	GetComment(
		ctx context.Context,
		reviewID, commentID string,
	) (*Comment, error)
	UpdateComment(ctx context.Context, comment *Comment) error
	DeleteComment(ctx context.Context, commentID string) error
	ListComments(
		ctx context.Context,
		reviewID string,
		params ListParams,
	) ([]Comment, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) TitleExists(
	ctx context.Context,
	titleID string,
) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM titles WHERE id = $1)", titleID)
	if err != nil {
		return false, fmt.Errorf("check title exists: %w", err)
	}

	return exists, nil
}

const reviewSelect = `
	SELECT
		r.id, r.title_id, r.author_id, u.username AS author_username,
		r.score, r.text, r.created_at, r.updated_at
	FROM reviews r
	JOIN users u ON u.id = r.author_id
`

func (r *repository) CreateReview(ctx context.Context, rev *Review) error {
	query := `
		INSERT INTO reviews (id, title_id, author_id, score, text)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, rev, query,
		rev.ID,
		rev.TitleID,
		rev.AuthorID,
		rev.Score,
		rev.Text,
	)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("review per author: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

func (r *repository) GetReview(
	ctx context.Context,
	titleID, reviewID string,
) (*Review, error) {
	query := reviewSelect + `WHERE r.id = $1 AND r.title_id = $2`

	var rev Review
	err := r.db.GetContext(ctx, &rev, query, reviewID, titleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get review: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}

	return &rev, nil
}

func (r *repository) HasReviewByAuthor(
	ctx context.Context,
	titleID, authorID string,
) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM reviews
			WHERE title_id = $1 AND author_id = $2
		)`, titleID, authorID)
	if err != nil {
		return false, fmt.Errorf("check review exists: %w", err)
	}

	return exists, nil
}

func (r *repository) UpdateReview(ctx context.Context, rev *Review) error {
	query := `
		UPDATE reviews
		SET score = $2, text = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &rev.UpdatedAt, query,
		rev.ID, rev.Score, rev.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update review: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}

	return nil
}

func (r *repository) DeleteReview(ctx context.Context, reviewID string) error {
	return r.execOne(ctx, "delete review",
		"DELETE FROM reviews WHERE id = $1", reviewID)
}

func (r *repository) ListReviews(
	ctx context.Context,
	titleID string,
	params ListParams,
) ([]Review, int, error) {
	params.Normalize()

	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM reviews WHERE title_id = $1", titleID)
	if err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	query := reviewSelect + `
		WHERE r.title_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3`

	var reviews []Review
	err = r.db.SelectContext(ctx, &reviews, query,
		titleID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}

	return reviews, total, nil
}

const commentSelect = `
	SELECT
		c.id, c.review_id, c.author_id, u.username AS author_username,
		c.text, c.created_at, c.updated_at
	FROM comments c
	JOIN users u ON u.id = c.author_id
`

func (r *repository) CreateComment(
	ctx context.Context,
	comment *Comment,
) error {
	query := `
		INSERT INTO comments (id, review_id, author_id, text)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, comment, query,
		comment.ID,
		comment.ReviewID,
		comment.AuthorID,
		comment.Text,
	)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

func (r *repository) GetComment(
	ctx context.Context,
	reviewID, commentID string,
) (*Comment, error) {
	query := commentSelect + `WHERE c.id = $1 AND c.review_id = $2`

	var comment Comment
	err := r.db.GetContext(ctx, &comment, query, commentID, reviewID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get comment: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}

	return &comment, nil
}

func (r *repository) UpdateComment(
	ctx context.Context,
	comment *Comment,
) error {
	query := `
		UPDATE comments
		SET text = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &comment.UpdatedAt, query,
		comment.ID, comment.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update comment: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}

	return nil
}

func (r *repository) DeleteComment(
	ctx context.Context,
	commentID string,
) error {
	return r.execOne(ctx, "delete comment",
		"DELETE FROM comments WHERE id = $1", commentID)
}

func (r *repository) ListComments(
	ctx context.Context,
	reviewID string,
	params ListParams,
) ([]Comment, int, error) {
	params.Normalize()

	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM comments WHERE review_id = $1", reviewID)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	query := commentSelect + `
		WHERE c.review_id = $1
		ORDER BY c.created_at ASC
		LIMIT $2 OFFSET $3`

	var comments []Comment
	err = r.db.SelectContext(ctx, &comments, query,
		reviewID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}

	return comments, total, nil
}

func (r *repository) execOne(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}
