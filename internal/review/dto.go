// AngelaMos | 2026
// dto.go

package review

import (
	"time"
)

const MaxTextLength = 8192

type CreateReviewRequest struct {
	Text  string `json:"text" validate:"required,max=8192"`
	Score int    `json:"score" validate:"required,gte=1,lte=10"`
}

type UpdateReviewRequest struct {
	Text  *string `json:"text" validate:"omitempty,max=8192"`
	Score *int    `json:"score" validate:"omitempty,gte=1,lte=10"`
}

type ReviewResponse struct {
	ID      string    `json:"id"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
}

type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,max=8192"`
}

type UpdateCommentRequest struct {
	Text string `json:"text" validate:"required,max=8192"`
}

type CommentResponse struct {
	ID      string    `json:"id"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
}

type ListParams struct {
	Page     int
	PageSize int
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToReviewResponse(rev *Review) ReviewResponse {
	return ReviewResponse{
		ID:      rev.ID,
		Author:  rev.AuthorUsername,
		Score:   rev.Score,
		Text:    rev.Text,
		PubDate: rev.CreatedAt,
	}
}

func ToReviewResponseList(reviews []Review) []ReviewResponse {
	out := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		out[i] = ToReviewResponse(&reviews[i])
	}
	return out
}

func ToCommentResponse(c *Comment) CommentResponse {
	return CommentResponse{
		ID:      c.ID,
		Author:  c.AuthorUsername,
		Text:    c.Text,
		PubDate: c.CreatedAt,
	}
}

func ToCommentResponseList(comments []Comment) []CommentResponse {
	out := make([]CommentResponse, len(comments))
	for i := range comments {
		out[i] = ToCommentResponse(&comments[i])
	}
	return out
}
