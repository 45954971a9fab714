package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/inkwell/internal/blog"
)

// Handler holds the post route handlers.
type Handler struct {
	svc *blog.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *blog.Service) *Handler {
	return &Handler{svc: svc}
}

// ListPosts handles GET /api/posts.
//
//	@Summary		List all posts, most recent first
//	@Tags			posts
//	@Produce		json
//	@Success		200	{object}	PostListResponse
//	@Router			/posts [get]
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ListAll(r.Context())
	if err != nil {
		writeError(w, "list posts", err)
		return
	}
	writeJSON(w, http.StatusOK, PostListResponse{Posts: posts, Total: len(posts)})
}

// GetPost handles GET /api/posts/{slug}.
//
//	@Summary		Get a single post with its body
//	@Tags			posts
//	@Produce		json
//	@Param			slug	path		string	true	"Post slug"
//	@Success		200		{object}	models.Post
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Router			/posts/{slug} [get]
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	post, found, err := h.svc.GetPost(r.Context(), slug)
	if err != nil {
		writeError(w, "get post", err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}

	etag := strconv.Quote(post.Checksum)
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// CreatePost handles POST /api/posts.
//
//	@Summary		Scaffold a new post
//	@Tags			posts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreatePostRequest	true	"Post to create"
//	@Success		201		{object}	models.Post
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Router			/posts [post]
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	post, err := h.svc.CreatePost(r.Context(), req.toNewPost())
	if err != nil {
		writeError(w, "create post", err)
		return
	}
	w.Header().Set("Location", "/api/posts/"+post.Slug)
	writeJSON(w, http.StatusCreated, post)
}

// RelatedPosts handles GET /api/posts/{slug}/related.
//
//	@Summary		Posts related to a slug, best match first
//	@Tags			posts
//	@Produce		json
//	@Param			slug	path		string	true	"Post slug"
//	@Param			limit	query		int		false	"Max results (default 3)"
//	@Success		200		{object}	RelatedResponse
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Router			/posts/{slug}/related [get]
func (h *Handler) RelatedPosts(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorBody("limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	posts, err := h.svc.RelatedScored(r.Context(), slug, limit)
	if err != nil {
		writeError(w, "related posts", err)
		return
	}
	writeJSON(w, http.StatusOK, RelatedResponse{Slug: slug, Posts: posts})
}

// ListCategories handles GET /api/categories.
//
//	@Summary		Post count per category
//	@Tags			taxonomy
//	@Produce		json
//	@Success		200	{object}	CategoriesResponse
//	@Router			/categories [get]
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.AllCategories(r.Context())
	if err != nil {
		writeError(w, "list categories", err)
		return
	}
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: cats})
}

// PostsByCategory handles GET /api/categories/{name}/posts.
//
//	@Summary		Posts in a category (case-insensitive)
//	@Tags			taxonomy
//	@Produce		json
//	@Param			name	path		string	true	"Category"
//	@Success		200		{object}	PostListResponse
//	@Router			/categories/{name}/posts [get]
func (h *Handler) PostsByCategory(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ByCategory(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, "posts by category", err)
		return
	}
	writeJSON(w, http.StatusOK, PostListResponse{Posts: posts, Total: len(posts)})
}

// ListTags handles GET /api/tags.
//
//	@Summary		Usage count per tag
//	@Tags			taxonomy
//	@Produce		json
//	@Success		200	{object}	TagsResponse
//	@Router			/tags [get]
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.AllTags(r.Context())
	if err != nil {
		writeError(w, "list tags", err)
		return
	}
	writeJSON(w, http.StatusOK, TagsResponse{Tags: tags})
}

// PostsByTag handles GET /api/tags/{name}/posts.
//
//	@Summary		Posts carrying a tag (case-insensitive)
//	@Tags			taxonomy
//	@Produce		json
//	@Param			name	path		string	true	"Tag"
//	@Success		200		{object}	PostListResponse
//	@Router			/tags/{name}/posts [get]
func (h *Handler) PostsByTag(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ByTag(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, "posts by tag", err)
		return
	}
	writeJSON(w, http.StatusOK, PostListResponse{Posts: posts, Total: len(posts)})
}
