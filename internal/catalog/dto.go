// AngelaMos | 2026
// dto.go

package catalog

const (
	MaxNameLength = 256
	MaxSlugLength = 50
)

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"omitempty,max=50,slugfmt"`
}

type CreateGenreRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"omitempty,max=50,slugfmt"`
}

type TermResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Year is a pointer so the required check rejects an absent year without
// also rejecting year zero, which only the upper bound rules out.
type CreateTitleRequest struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        *int     `json:"year" validate:"required"`
	Description string   `json:"description" validate:"omitempty,max=4096"`
	Category    string   `json:"category" validate:"omitempty,max=50"`
	Genre       []string `json:"genre" validate:"required,min=1,dive,max=50"`
}

type UpdateTitleRequest struct {
	Name        *string   `json:"name" validate:"omitempty,max=256"`
	Year        *int      `json:"year"`
	Description *string   `json:"description" validate:"omitempty,max=4096"`
	Category    *string   `json:"category" validate:"omitempty,max=50"`
	Genre       *[]string `json:"genre" validate:"omitempty,min=1,dive,max=50"`
}

type TitleResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Year        int            `json:"year"`
	Rating      *int           `json:"rating"`
	Description string         `json:"description"`
	Genre       []TermResponse `json:"genre"`
	Category    *TermResponse  `json:"category"`
}

type ListTermsParams struct {
	Page     int
	PageSize int
	Search   string
}

func (p *ListTermsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
}

func (p *ListTermsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type ListTitlesParams struct {
	Page     int
	PageSize int
	Category string
	Genre    string
	Name     string
	Year     *int
}

func (p *ListTitlesParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
}

func (p *ListTitlesParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToTermResponse(name, slug string) TermResponse {
	return TermResponse{Name: name, Slug: slug}
}

func ToCategoryResponse(c *Category) TermResponse {
	return ToTermResponse(c.Name, c.Slug)
}

func ToGenreResponse(g *Genre) TermResponse {
	return ToTermResponse(g.Name, g.Slug)
}

func ToCategoryResponseList(categories []Category) []TermResponse {
	out := make([]TermResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out
}

func ToGenreResponseList(genres []Genre) []TermResponse {
	out := make([]TermResponse, len(genres))
	for i := range genres {
		out[i] = ToGenreResponse(&genres[i])
	}
	return out
}

func ToTitleResponse(t *Title) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       make([]TermResponse, len(t.Genres)),
	}

	for i := range t.Genres {
		resp.Genre[i] = ToGenreResponse(&t.Genres[i])
	}

	if t.CategorySlug != nil && t.CategoryName != nil {
		resp.Category = &TermResponse{
			Name: *t.CategoryName,
			Slug: *t.CategorySlug,
		}
	}

	return resp
}

func ToTitleResponseList(titles []Title) []TitleResponse {
	out := make([]TitleResponse, len(titles))
	for i := range titles {
		out[i] = ToTitleResponse(&titles[i])
	}
	return out
}
