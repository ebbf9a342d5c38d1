// AngelaMos | 2026
// entity.go

package review

import (
	"time"
)

// Review is one user's verdict on a title. The (title_id, author_id) pair is
// unique; the service pre-checks it and the DDL constraint backstops races.
type Review struct {
	ID             string    `db:"id"`
	TitleID        string    `db:"title_id"`
	AuthorID       string    `db:"author_id"`
	AuthorUsername string    `db:"author_username"`
	Score          int       `db:"score"`
	Text           string    `db:"text"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type Comment struct {
	ID             string    `db:"id"`
	ReviewID       string    `db:"review_id"`
	AuthorID       string    `db:"author_id"`
	AuthorUsername string    `db:"author_username"`
	Text           string    `db:"text"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}
