package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/inkwell/internal/blog"
	"github.com/starford/inkwell/internal/leads"
)

// NewRouter creates a chi router with all API routes mounted. It is meant
// to be mounted under /api. forms and events are optional.
func NewRouter(posts *blog.Service, forms *leads.Service, events http.Handler) chi.Router {
	h := NewHandler(posts)

	r := chi.NewRouter()

	// Posts.
	r.Get("/posts", h.ListPosts)
	r.Post("/posts", h.CreatePost)
	r.Get("/posts/{slug}", h.GetPost)
	r.Get("/posts/{slug}/related", h.RelatedPosts)

	// Taxonomy.
	r.Get("/categories", h.ListCategories)
	r.Get("/categories/{name}/posts", h.PostsByCategory)
	r.Get("/tags", h.ListTags)
	r.Get("/tags/{name}/posts", h.PostsByTag)

	// Lead forms.
	if forms != nil {
		fh := NewFormHandler(forms)
		r.Get("/forms/{form}", fh.Describe)
		r.Get("/forms/{form}/draft", fh.GetDraft)
		r.Put("/forms/{form}/draft", fh.SaveDraft)
		r.Delete("/forms/{form}/draft", fh.ClearDraft)
		r.Post("/forms/{form}/submit", fh.Submit)
	}

	if events != nil {
		r.Get("/events", events.ServeHTTP)
	}

	return r
}
