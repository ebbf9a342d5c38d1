// AngelaMos | 2026
// service.go

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

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

// deriveSlug fills in a missing slug from the name. gosimple/slug already
// emits only [-a-z0-9_] so the derived value satisfies the slug pattern.
func deriveSlug(explicit, name string) string {
	if explicit != "" {
		return explicit
	}

	derived := slug.Make(name)
	if len(derived) > MaxSlugLength {
		derived = derived[:MaxSlugLength]
	}
	return derived
}

func (s *Service) CreateCategory(
	ctx context.Context,
	req CreateCategoryRequest,
) (*Category, error) {
	category := &Category{
		ID:   uuid.New().String(),
		Name: req.Name,
		Slug: deriveSlug(req.Slug, req.Name),
	}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("slug")
		}
		return nil, err
	}

	s.logger.Info("category created",
		"slug", category.Slug,
		"name", category.Name,
	)

	return category, nil
}

func (s *Service) ListCategories(
	ctx context.Context,
	params ListTermsParams,
) ([]Category, int, error) {
	return s.repo.ListCategories(ctx, params)
}

func (s *Service) DeleteCategory(ctx context.Context, slug string) error {
	if err := s.repo.DeleteCategory(ctx, slug); err != nil {
		return err
	}

	s.logger.Info("category deleted", "slug", slug)
	return nil
}

func (s *Service) CreateGenre(
	ctx context.Context,
	req CreateGenreRequest,
) (*Genre, error) {
	genre := &Genre{
		ID:   uuid.New().String(),
		Name: req.Name,
		Slug: deriveSlug(req.Slug, req.Name),
	}

	if err := s.repo.CreateGenre(ctx, genre); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("slug")
		}
		return nil, err
	}

	s.logger.Info("genre created",
		"slug", genre.Slug,
		"name", genre.Name,
	)

	return genre, nil
}

func (s *Service) ListGenres(
	ctx context.Context,
	params ListTermsParams,
) ([]Genre, int, error) {
	return s.repo.ListGenres(ctx, params)
}

func (s *Service) DeleteGenre(ctx context.Context, slug string) error {
	if err := s.repo.DeleteGenre(ctx, slug); err != nil {
		return err
	}

	s.logger.Info("genre deleted", "slug", slug)
	return nil
}

func (s *Service) CreateTitle(
	ctx context.Context,
	req CreateTitleRequest,
) (*Title, error) {
	if err := validateYear(*req.Year); err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	genreIDs, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	title := &Title{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Year:        *req.Year,
		Description: req.Description,
		CategoryID:  categoryID,
	}

	if err := s.repo.CreateTitle(ctx, title, genreIDs); err != nil {
		return nil, err
	}

	s.logger.Info("title created",
		"title_id", title.ID,
		"name", title.Name,
	)

	return title, nil
}

func (s *Service) GetTitle(ctx context.Context, id string) (*Title, error) {
	return s.repo.GetTitle(ctx, id)
}

func (s *Service) UpdateTitle(
	ctx context.Context,
	id string,
	req UpdateTitleRequest,
) (*Title, error) {
	title, err := s.repo.GetTitle(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		if err := validateYear(*req.Year); err != nil {
			return nil, err
		}
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = *req.Description
	}
	if req.Category != nil {
		categoryID, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = categoryID
	}

	var genreIDs []string
	if req.Genre != nil {
		genreIDs, err = s.resolveGenres(ctx, *req.Genre)
		if err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateTitle(ctx, title, genreIDs); err != nil {
		return nil, err
	}

	return title, nil
}

func (s *Service) DeleteTitle(ctx context.Context, id string) error {
	if err := s.repo.DeleteTitle(ctx, id); err != nil {
		return err
	}

	s.logger.Info("title deleted", "title_id", id)
	return nil
}

func (s *Service) ListTitles(
	ctx context.Context,
	params ListTitlesParams,
) ([]Title, int, error) {
	return s.repo.ListTitles(ctx, params)
}

func validateYear(year int) error {
	if year > time.Now().Year() {
		return core.ValidationAppError(map[string]string{
			"year": "must not be in the future",
		})
	}
	return nil
}

func (s *Service) resolveCategory(
	ctx context.Context,
	categorySlug string,
) (*string, error) {
	if categorySlug == "" {
		return nil, nil
	}

	category, err := s.repo.GetCategoryBySlug(ctx, categorySlug)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ValidationAppError(map[string]string{
				"category": "unknown category slug",
			})
		}
		return nil, err
	}

	return &category.ID, nil
}

func (s *Service) resolveGenres(
	ctx context.Context,
	slugs []string,
) ([]string, error) {
	genres, err := s.repo.GetGenresBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}

	known := make(map[string]string, len(genres))
	for _, g := range genres {
		known[g.Slug] = g.ID
	}

	ids := make([]string, 0, len(slugs))
	seen := make(map[string]struct{}, len(slugs))
	for _, requested := range slugs {
		id, ok := known[requested]
		if !ok {
			return nil, core.ValidationAppError(map[string]string{
				"genre": fmt.Sprintf("unknown genre slug %q", requested),
			})
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids, nil
}
