package api

import (
	"github.com/starford/inkwell/internal/blog"
	"github.com/starford/inkwell/internal/leads"
	"github.com/starford/inkwell/internal/models"
)

// PostListResponse wraps post listings.
type PostListResponse struct {
	Posts []models.PostSummary `json:"posts" validate:"required"`
	Total int                  `json:"total" example:"12" validate:"required"`
}

// RelatedResponse wraps the posts related to one slug, best match first.
type RelatedResponse struct {
	Slug  string            `json:"slug" example:"fryer-repair" validate:"required"`
	Posts []blog.ScoredPost `json:"posts" validate:"required"`
}

// CategoriesResponse wraps per-category counts.
type CategoriesResponse struct {
	Categories []models.CategoryCount `json:"categories" validate:"required"`
}

// TagsResponse wraps per-tag counts.
type TagsResponse struct {
	Tags []models.TagCount `json:"tags" validate:"required"`
}

// CreatePostRequest is the request body for scaffolding a post.
type CreatePostRequest struct {
	Slug     string   `json:"slug" example:"fryer-repair" validate:"required"`
	Title    string   `json:"title" example:"Fryer Repair Basics" validate:"required"`
	Excerpt  string   `json:"excerpt"`
	Date     string   `json:"date" example:"2024-01-03"`
	Author   string   `json:"author"`
	Category string   `json:"category" example:"Repair"`
	Tags     []string `json:"tags"`
	Image    string   `json:"image"`
	Body     string   `json:"body"`
}

func (req CreatePostRequest) toNewPost() blog.NewPost {
	return blog.NewPost{
		Slug:     req.Slug,
		Title:    req.Title,
		Excerpt:  req.Excerpt,
		Date:     req.Date,
		Author:   req.Author,
		Category: req.Category,
		Tags:     req.Tags,
		Image:    req.Image,
		Body:     req.Body,
	}
}

// DraftRequest is the request body for saving a form draft or submitting a
// form.
type DraftRequest struct {
	Fields map[string]string `json:"fields" validate:"required"`
}

// FormResponse describes a lead form to clients.
type FormResponse struct {
	Form                    string   `json:"form"`
	Required                []string `json:"required"`
	AutoSaveIntervalSeconds int      `json:"autosaveIntervalSeconds"`
}

// DraftResponse is a saved form draft.
type DraftResponse = leads.Draft

// SubmitResponse is the validation outcome of a form submission.
type SubmitResponse = leads.Result
