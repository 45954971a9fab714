package blog

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/inkwell/internal/apperr"
	"github.com/starford/inkwell/internal/models"
	"github.com/starford/inkwell/internal/parser"
	"github.com/starford/inkwell/internal/storage"
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// NewPost describes a post to scaffold. Empty optional fields are left out
// of the header so readers apply their defaults.
type NewPost struct {
	Slug     string
	Title    string
	Excerpt  string
	Date     string
	Author   string
	Category string
	Tags     []string
	Image    string
	Body     string
}

// Validate validates the new post.
func (n *NewPost) Validate() error {
	return validation.ValidateStruct(n,
		validation.Field(&n.Slug, validation.Required, validation.Match(slugRe).Error("must be lowercase words joined by hyphens")),
		validation.Field(&n.Title, validation.Required),
		validation.Field(&n.Date, validation.By(func(v any) error {
			if s, _ := v.(string); s != "" {
				if _, err := parser.ParseDate(s); err != nil {
					return fmt.Errorf("must be an ISO-8601 date")
				}
			}
			return nil
		})),
	)
}

// CreatePost writes a new post document and returns it assembled. The date
// defaults to today according to the service clock. An existing slug, even
// a malformed one, yields apperr.ErrAlreadyExists.
func (s *Service) CreatePost(ctx context.Context, in NewPost) (*models.Post, error) {
	w, ok := s.store.(storage.Writer)
	if !ok {
		return nil, fmt.Errorf("blog: create post: store is read-only")
	}
	in.Slug = strings.TrimSpace(in.Slug)
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("blog: create post: %w: %v", apperr.ErrInvalid, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	exists, err := w.Exists(in.Slug)
	if err != nil {
		return nil, fmt.Errorf("blog: create post: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("blog: create post %s: %w", in.Slug, apperr.ErrAlreadyExists)
	}

	if in.Date == "" {
		in.Date = s.clock().UTC().Format("2006-01-02")
	}
	doc, err := parser.Compose(parser.FrontMatter{
		Title:    optional(in.Title),
		Excerpt:  optional(in.Excerpt),
		Date:     optional(in.Date),
		Author:   optional(in.Author),
		Category: optional(in.Category),
		Tags:     cleanTags(in.Tags),
		Image:    optional(in.Image),
	}, in.Body)
	if err != nil {
		return nil, err
	}
	if err := w.Write(in.Slug, doc); err != nil {
		return nil, fmt.Errorf("blog: create post: %w", err)
	}

	post, _, err := s.GetPost(ctx, in.Slug)
	return post, err
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func cleanTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
