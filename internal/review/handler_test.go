// AngelaMos | 2026
// handler_test.go

package review

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/angelamos/reviewdeck/internal/authz"
	"github.com/angelamos/reviewdeck/internal/middleware"
)

func stampPrincipal(
	principal *authz.Principal,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(
				r.Context(),
				middleware.PrincipalKey,
				principal,
			)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newReviewRouter(repo Repository, principal *authz.Principal) chi.Router {
	handler := NewHandler(newTestService(repo))

	r := chi.NewRouter()
	r.Route("/titles/{titleID}", func(tr chi.Router) {
		handler.RegisterRoutes(tr, stampPrincipal(principal))
	})
	return r
}

func postJSON(r chi.Router, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateReviewScoreBounds(t *testing.T) {
	invalid := []struct {
		name string
		body string
	}{
		{"score below range", `{"text":"meh","score":0}`},
		{"score above range", `{"text":"wow","score":11}`},
		{"fractional score", `{"text":"odd","score":9.5}`},
		{"missing score", `{"text":"quiet"}`},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepository)
			r := newReviewRouter(repo, userPrincipal("a1"))

			rec := postJSON(r, "/titles/t1/reviews", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			repo.AssertNotCalled(t, "CreateReview",
				mock.Anything, mock.Anything)
		})
	}

	for _, score := range []int{1, 10} {
		t.Run(fmt.Sprintf("score %d accepted", score), func(t *testing.T) {
			repo := new(mockRepository)
			repo.On("TitleExists", mock.Anything, "t1").Return(true, nil)
			repo.On("HasReviewByAuthor", mock.Anything, "t1", "a1").
				Return(false, nil)
			repo.On(
				"CreateReview",
				mock.Anything,
				mock.MatchedBy(func(rev *Review) bool {
					return rev.Score == score
				}),
			).Return(nil)

			r := newReviewRouter(repo, userPrincipal("a1"))
			rec := postJSON(
				r,
				"/titles/t1/reviews",
				fmt.Sprintf(`{"text":"fine","score":%d}`, score),
			)

			assert.Equal(t, http.StatusCreated, rec.Code)
			repo.AssertExpectations(t)
		})
	}
}
