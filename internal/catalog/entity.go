// AngelaMos | 2026
// entity.go

package catalog

import (
	"time"
)

type Category struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	CreatedAt time.Time `db:"created_at"`
}

type Genre struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	CreatedAt time.Time `db:"created_at"`
}

// Title carries its joined category fields and the computed rating so list
// and detail reads are a single query. Rating is nil until the first review
// lands; it is never stored.
type Title struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Year         int       `db:"year"`
	Description  string    `db:"description"`
	CategoryID   *string   `db:"category_id"`
	CategoryName *string   `db:"category_name"`
	CategorySlug *string   `db:"category_slug"`
	Rating       *int      `db:"rating"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`

	Genres []Genre `db:"-"`
}
