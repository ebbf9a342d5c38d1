// AngelaMos | 2026
// repository.go

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/angelamos/reviewdeck/internal/core"
)

type Repository interface {
	CreateCategory(ctx context.Context, category *Category) error
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	ListCategories(
		ctx context.Context,
		params ListTermsParams,
	) ([]Category, int, error)
	DeleteCategory(ctx context.Context, slug string) error

	CreateGenre(ctx context.Context, genre *Genre) error
	GetGenreBySlug(ctx context.Context, slug string) (*Genre, error)
	GetGenresBySlugs(ctx context.Context, slugs []string) ([]Genre, error)
	ListGenres(
		ctx context.Context,
		params ListTermsParams,
	) ([]Genre, int, error)
	DeleteGenre(ctx context.Context, slug string) error

	CreateTitle(ctx context.Context, title *Title, genreIDs []string) error
	GetTitle(ctx context.Context, id string) (*Title, error)
	UpdateTitle(ctx context.Context, title *Title, genreIDs []string) error
	DeleteTitle(ctx context.Context, id string) error
	ListTitles(
		ctx context.Context,
		params ListTitlesParams,
	) ([]Title, int, error)
}

// repository holds the root *sqlx.DB rather than core.DBTX because title
// writes span two tables (titles + title_genres) and run inside core.InTx.
type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateCategory(
	ctx context.Context,
	category *Category,
) error {
	query := `
		INSERT INTO categories (id, name, slug)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &category.CreatedAt, query,
		category.ID, category.Name, category.Slug)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("category slug: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}

func (r *repository) GetCategoryBySlug(
	ctx context.Context,
	slug string,
) (*Category, error) {
	query := `
		SELECT id, name, slug, created_at
		FROM categories WHERE slug = $1`

	var category Category
	err := r.db.GetContext(ctx, &category, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get category: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &category, nil
}

func (r *repository) ListCategories(
	ctx context.Context,
	params ListTermsParams,
) ([]Category, int, error) {
	var categories []Category
	total, err := r.listTerms(ctx, "categories", params, &categories)
	return categories, total, err
}

func (r *repository) DeleteCategory(ctx context.Context, slug string) error {
	return r.deleteBySlug(ctx, "delete category", "categories", slug)
}

func (r *repository) CreateGenre(ctx context.Context, genre *Genre) error {
	query := `
		INSERT INTO genres (id, name, slug)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &genre.CreatedAt, query,
		genre.ID, genre.Name, genre.Slug)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("genre slug: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create genre: %w", err)
	}

	return nil
}

func (r *repository) GetGenreBySlug(
	ctx context.Context,
	slug string,
) (*Genre, error) {
	query := `
		SELECT id, name, slug, created_at
		FROM genres WHERE slug = $1`

	var genre Genre
	err := r.db.GetContext(ctx, &genre, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get genre: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get genre: %w", err)
	}

	return &genre, nil
}

func (r *repository) GetGenresBySlugs(
	ctx context.Context,
	slugs []string,
) ([]Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, name, slug, created_at
		FROM genres WHERE slug IN (?)
		ORDER BY name`, slugs)
	if err != nil {
		return nil, fmt.Errorf("get genres by slugs: %w", err)
	}

	var genres []Genre
	err = r.db.SelectContext(ctx, &genres, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("get genres by slugs: %w", err)
	}

	return genres, nil
}

func (r *repository) ListGenres(
	ctx context.Context,
	params ListTermsParams,
) ([]Genre, int, error) {
	var genres []Genre
	total, err := r.listTerms(ctx, "genres", params, &genres)
	return genres, total, err
}

func (r *repository) DeleteGenre(ctx context.Context, slug string) error {
	return r.deleteBySlug(ctx, "delete genre", "genres", slug)
}

// listTerms serves both categories and genres, which share a schema. The
// table name comes from a fixed internal call site, never from user input.
func (r *repository) listTerms(
	ctx context.Context,
	table string,
	params ListTermsParams,
	dest any,
) (int, error) {
	params.Normalize()

	whereClause := "TRUE"
	var args []any
	argIdx := 1

	if params.Search != "" {
		whereClause = fmt.Sprintf("name ILIKE $%d", argIdx)
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE %s",
		table, whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, slug, created_at
		FROM %s
		WHERE %s
		ORDER BY name
		LIMIT $%d OFFSET $%d`,
		table, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	if err := r.db.SelectContext(ctx, dest, query, args...); err != nil {
		return 0, fmt.Errorf("list %s: %w", table, err)
	}

	return total, nil
}

func (r *repository) deleteBySlug(
	ctx context.Context,
	op, table, slug string,
) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE slug = $1", table)

	result, err := r.db.ExecContext(ctx, query, slug)
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

const titleSelect = `
	SELECT
		t.id, t.name, t.year, t.description, t.category_id,
		c.name AS category_name, c.slug AS category_slug,
		ROUND(AVG(r.score))::int AS rating,
		t.created_at, t.updated_at
	FROM titles t
	LEFT JOIN categories c ON c.id = t.category_id
	LEFT JOIN reviews r ON r.title_id = t.id
`

const titleGroupBy = `
	GROUP BY t.id, c.name, c.slug
`

func (r *repository) CreateTitle(
	ctx context.Context,
	title *Title,
	genreIDs []string,
) error {
	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO titles (id, name, year, description, category_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at, updated_at`

		row := tx.QueryRowxContext(ctx, query,
			title.ID,
			title.Name,
			title.Year,
			title.Description,
			title.CategoryID,
		)
		if err := row.Scan(&title.CreatedAt, &title.UpdatedAt); err != nil {
			return fmt.Errorf("insert title: %w", err)
		}

		return replaceTitleGenres(ctx, tx, title.ID, genreIDs)
	})
	if err != nil {
		return err
	}

	loaded, err := r.GetTitle(ctx, title.ID)
	if err != nil {
		return err
	}
	*title = *loaded

	return nil
}

func (r *repository) GetTitle(ctx context.Context, id string) (*Title, error) {
	query := titleSelect + `WHERE t.id = $1` + titleGroupBy

	var title Title
	err := r.db.GetContext(ctx, &title, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get title: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get title: %w", err)
	}

	if err := r.attachGenres(ctx, []*Title{&title}); err != nil {
		return nil, err
	}

	return &title, nil
}

func (r *repository) UpdateTitle(
	ctx context.Context,
	title *Title,
	genreIDs []string,
) error {
	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE titles
			SET name = $2, year = $3, description = $4, category_id = $5,
			    updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`

		row := tx.QueryRowxContext(ctx, query,
			title.ID,
			title.Name,
			title.Year,
			title.Description,
			title.CategoryID,
		)
		if err := row.Scan(&title.UpdatedAt); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("update title: %w", core.ErrNotFound)
			}
			return fmt.Errorf("update title: %w", err)
		}

		if genreIDs == nil {
			return nil
		}
		return replaceTitleGenres(ctx, tx, title.ID, genreIDs)
	})
	if err != nil {
		return err
	}

	loaded, err := r.GetTitle(ctx, title.ID)
	if err != nil {
		return err
	}
	*title = *loaded

	return nil
}

func (r *repository) DeleteTitle(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM titles WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete title: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete title: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete title: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListTitles(
	ctx context.Context,
	params ListTitlesParams,
) ([]Title, int, error) {
	params.Normalize()

	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if params.Category != "" {
		conditions = append(conditions, fmt.Sprintf("c.slug = $%d", argIdx))
		args = append(args, params.Category)
		argIdx++
	}

	if params.Genre != "" {
		conditions = append(conditions, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM title_genres tg
			JOIN genres g ON g.id = tg.genre_id
			WHERE tg.title_id = t.id AND g.slug = $%d)`, argIdx))
		args = append(args, params.Genre)
		argIdx++
	}

	if params.Name != "" {
		conditions = append(conditions, fmt.Sprintf(
			"t.name ILIKE $%d", argIdx))
		args = append(args, "%"+escapeLike(params.Name)+"%")
		argIdx++
	}

	if params.Year != nil {
		conditions = append(conditions, fmt.Sprintf("t.year = $%d", argIdx))
		args = append(args, *params.Year)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM titles t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE %s`, whereClause)

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	query := fmt.Sprintf(
		titleSelect+`WHERE %s`+titleGroupBy+`
		ORDER BY t.name
		LIMIT $%d OFFSET $%d`,
		whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var titles []Title
	if err := r.db.SelectContext(ctx, &titles, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list titles: %w", err)
	}

	refs := make([]*Title, len(titles))
	for i := range titles {
		refs[i] = &titles[i]
	}
	if err := r.attachGenres(ctx, refs); err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

func replaceTitleGenres(
	ctx context.Context,
	tx *sqlx.Tx,
	titleID string,
	genreIDs []string,
) error {
	_, err := tx.ExecContext(ctx,
		"DELETE FROM title_genres WHERE title_id = $1", titleID)
	if err != nil {
		return fmt.Errorf("clear title genres: %w", err)
	}

	for _, genreID := range genreIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO title_genres (title_id, genre_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, titleID, genreID)
		if err != nil {
			return fmt.Errorf("link title genre: %w", err)
		}
	}

	return nil
}

type titleGenreRow struct {
	TitleID string `db:"title_id"`
	Genre
}

func (r *repository) attachGenres(ctx context.Context, titles []*Title) error {
	if len(titles) == 0 {
		return nil
	}

	ids := make([]string, len(titles))
	byID := make(map[string]*Title, len(titles))
	for i, t := range titles {
		ids[i] = t.ID
		byID[t.ID] = t
		t.Genres = []Genre{}
	}

	query, args, err := sqlx.In(`
		SELECT tg.title_id, g.id, g.name, g.slug, g.created_at
		FROM title_genres tg
		JOIN genres g ON g.id = tg.genre_id
		WHERE tg.title_id IN (?)
		ORDER BY g.name`, ids)
	if err != nil {
		return fmt.Errorf("load title genres: %w", err)
	}

	var rows []titleGenreRow
	err = r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("load title genres: %w", err)
	}

	for _, row := range rows {
		if t, ok := byID[row.TitleID]; ok {
			t.Genres = append(t.Genres, row.Genre)
		}
	}

	return nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
