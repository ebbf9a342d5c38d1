// AngelaMos | 2026
// service_test.go

package review

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/reviewdeck/internal/authz"
	"github.com/angelamos/reviewdeck/internal/core"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) TitleExists(
	ctx context.Context,
	titleID string,
) (bool, error) {
	args := m.Called(ctx, titleID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) CreateReview(ctx context.Context, rev *Review) error {
	return m.Called(ctx, rev).Error(0)
}

func (m *mockRepository) GetReview(
	ctx context.Context,
	titleID, reviewID string,
) (*Review, error) {
	args := m.Called(ctx, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Review), args.Error(1)
}

func (m *mockRepository) HasReviewByAuthor(
	ctx context.Context,
	titleID, authorID string,
) (bool, error) {
	args := m.Called(ctx, titleID, authorID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) UpdateReview(ctx context.Context, rev *Review) error {
	return m.Called(ctx, rev).Error(0)
}

func (m *mockRepository) DeleteReview(
	ctx context.Context,
	reviewID string,
) error {
	return m.Called(ctx, reviewID).Error(0)
}

func (m *mockRepository) ListReviews(
	ctx context.Context,
	titleID string,
	params ListParams,
) ([]Review, int, error) {
	args := m.Called(ctx, titleID, params)
	var reviews []Review
	if args.Get(0) != nil {
		reviews = args.Get(0).([]Review)
	}
	return reviews, args.Int(1), args.Error(2)
}

func (m *mockRepository) CreateComment(
	ctx context.Context,
	comment *Comment,
) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *mockRepository) GetComment(
	ctx context.Context,
	reviewID, commentID string,
) (*Comment, error) {
	args := m.Called(ctx, reviewID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Comment), args.Error(1)
}

func (m *mockRepository) UpdateComment(
	ctx context.Context,
	comment *Comment,
) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *mockRepository) DeleteComment(
	ctx context.Context,
	commentID string,
) error {
	return m.Called(ctx, commentID).Error(0)
}

func (m *mockRepository) ListComments(
	ctx context.Context,
	reviewID string,
	params ListParams,
) ([]Comment, int, error) {
	args := m.Called(ctx, reviewID, params)
	var comments []Comment
	if args.Get(0) != nil {
		comments = args.Get(0).([]Comment)
	}
	return comments, args.Int(1), args.Error(2)
}

func newTestService(repo Repository) *Service {
	return NewService(repo, slog.New(slog.DiscardHandler))
}

func userPrincipal(id string) *authz.Principal {
	return &authz.Principal{ID: id, Username: "u-" + id, Role: authz.RoleUser}
}

func TestCreateReview(t *testing.T) {
	req := CreateReviewRequest{Text: "great", Score: 9}

	t.Run("anonymous rejected", func(t *testing.T) {
		svc := newTestService(new(mockRepository))

		_, err := svc.CreateReview(context.Background(), nil, "t1", req)
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	})

	t.Run("unknown title yields not found", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("TitleExists", mock.Anything, "ghost").Return(false, nil)

		svc := newTestService(repo)
		_, err := svc.CreateReview(
			context.Background(),
			userPrincipal("a1"),
			"ghost",
			req,
		)

		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("second review for same title conflicts", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("TitleExists", mock.Anything, "t1").Return(true, nil)
		repo.On("HasReviewByAuthor", mock.Anything, "t1", "a1").
			Return(true, nil)

		svc := newTestService(repo)
		_, err := svc.CreateReview(
			context.Background(),
			userPrincipal("a1"),
			"t1",
			req,
		)

		assert.ErrorIs(t, err, core.ErrConflict)
		repo.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything)
	})

	t.Run("insert race maps to the same conflict", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("TitleExists", mock.Anything, "t1").Return(true, nil)
		repo.On("HasReviewByAuthor", mock.Anything, "t1", "a1").
			Return(false, nil)
		repo.On("CreateReview", mock.Anything, mock.Anything).
			Return(core.ErrDuplicateKey)

		svc := newTestService(repo)
		_, err := svc.CreateReview(
			context.Background(),
			userPrincipal("a1"),
			"t1",
			req,
		)

		assert.ErrorIs(t, err, core.ErrConflict)
	})

	t.Run("success stamps author from principal", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("TitleExists", mock.Anything, "t1").Return(true, nil)
		repo.On("HasReviewByAuthor", mock.Anything, "t1", "a1").
			Return(false, nil)
		repo.On(
			"CreateReview",
			mock.Anything,
			mock.MatchedBy(func(rev *Review) bool {
				return rev.AuthorID == "a1" &&
					rev.TitleID == "t1" &&
					rev.Score == 9
			}),
		).Return(nil)

		svc := newTestService(repo)
		rev, err := svc.CreateReview(
			context.Background(),
			userPrincipal("a1"),
			"t1",
			req,
		)

		require.NoError(t, err)
		assert.Equal(t, "u-a1", rev.AuthorUsername)
		repo.AssertExpectations(t)
	})
}

func TestModifyReviewAuthorization(t *testing.T) {
	existing := &Review{
		ID:       "r1",
		TitleID:  "t1",
		AuthorID: "author-1",
		Score:    5,
		Text:     "fine",
	}

	newRepo := func() *mockRepository {
		repo := new(mockRepository)
		repo.On("TitleExists", mock.Anything, "t1").Return(true, nil)
		repo.On("GetReview", mock.Anything, "t1", "r1").Return(existing, nil)
		return repo
	}

	t.Run("stranger cannot delete", func(t *testing.T) {
		repo := newRepo()
		svc := newTestService(repo)

		err := svc.DeleteReview(
			context.Background(),
			userPrincipal("someone-else"),
			"t1",
			"r1",
		)

		assert.ErrorIs(t, err, core.ErrForbidden)
		repo.AssertNotCalled(t, "DeleteReview", mock.Anything, mock.Anything)
	})

	t.Run("moderator deletes someone else's review", func(t *testing.T) {
		repo := newRepo()
		repo.On("DeleteReview", mock.Anything, "r1").Return(nil)

		moderator := &authz.Principal{
			ID:       "mod-1",
			Username: "mod",
			Role:     authz.RoleModerator,
		}

		svc := newTestService(repo)
		err := svc.DeleteReview(context.Background(), moderator, "t1", "r1")

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("author updates own review", func(t *testing.T) {
		repo := newRepo()
		repo.On("UpdateReview", mock.Anything, mock.Anything).Return(nil)

		score := 8

		svc := newTestService(repo)
		rev, err := svc.UpdateReview(
			context.Background(),
			userPrincipal("author-1"),
			"t1",
			"r1",
			UpdateReviewRequest{Score: &score},
		)

		require.NoError(t, err)
		assert.Equal(t, 8, rev.Score)
	})
}

func TestComments(t *testing.T) {
	parent := &Review{ID: "r1", TitleID: "t1", AuthorID: "author-1"}

	t.Run("comment on review in wrong title is not found", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("TitleExists", mock.Anything, "other-title").Return(true, nil)
		repo.On("GetReview", mock.Anything, "other-title", "r1").
			Return(nil, core.ErrNotFound)

		svc := newTestService(repo)
		_, err := svc.CreateComment(
			context.Background(),
			userPrincipal("a1"),
			"other-title",
			"r1",
			CreateCommentRequest{Text: "hi"},
		)

		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("any authenticated user may comment", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("TitleExists", mock.Anything, "t1").Return(true, nil)
		repo.On("GetReview", mock.Anything, "t1", "r1").Return(parent, nil)
		repo.On(
			"CreateComment",
			mock.Anything,
			mock.MatchedBy(func(c *Comment) bool {
				return c.ReviewID == "r1" && c.AuthorID == "a2"
			}),
		).Return(nil)

		svc := newTestService(repo)
		comment, err := svc.CreateComment(
			context.Background(),
			userPrincipal("a2"),
			"t1",
			"r1",
			CreateCommentRequest{Text: "agreed"},
		)

		require.NoError(t, err)
		assert.Equal(t, "agreed", comment.Text)
	})

	t.Run("stranger cannot edit a comment", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("TitleExists", mock.Anything, "t1").Return(true, nil)
		repo.On("GetReview", mock.Anything, "t1", "r1").Return(parent, nil)
		repo.On("GetComment", mock.Anything, "r1", "c1").Return(&Comment{
			ID:       "c1",
			ReviewID: "r1",
			AuthorID: "a2",
		}, nil)

		svc := newTestService(repo)
		_, err := svc.UpdateComment(
			context.Background(),
			userPrincipal("a3"),
			"t1",
			"r1",
			"c1",
			UpdateCommentRequest{Text: "hijack"},
		)

		assert.ErrorIs(t, err, core.ErrForbidden)
	})
}
