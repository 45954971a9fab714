package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/inkwell/internal/apperr"
	"github.com/starford/inkwell/internal/checksum"
	"github.com/starford/inkwell/internal/metrics"
	"github.com/starford/inkwell/internal/models"
	"github.com/starford/inkwell/internal/parser"
	"github.com/starford/inkwell/internal/readtime"
)

// GetPost loads and assembles one post.
//
// A slug with no document returns found == false and a nil error. A document
// whose header cannot be parsed returns found == true and an error matching
// apperr.ErrMalformed, so callers can tell "missing" from "broken".
func (s *Service) GetPost(ctx context.Context, slug string) (*models.Post, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	data, err := s.store.Read(slug)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("blog: get post: %w", err)
	}
	post, err := s.assemble(slug, data)
	if err != nil {
		return nil, true, err
	}
	return post, true, nil
}

// assemble turns raw document bytes into a fully populated post.
func (s *Service) assemble(slug string, data []byte) (*models.Post, error) {
	res, err := parser.Parse(data)
	if err != nil {
		return nil, &apperr.ParseError{Slug: slug, Err: err}
	}
	fm := res.FrontMatter

	date, published, err := s.resolveDate(fm.Date)
	if err != nil {
		return nil, &apperr.ParseError{Slug: slug, Err: err}
	}

	tags := []string{}
	if len(fm.Tags) > 0 {
		tags = slices.Clone(fm.Tags)
	}

	return &models.Post{
		PostSummary: models.PostSummary{
			Slug:        slug,
			Title:       orDefault(fm.Title, s.defaults.Title),
			Excerpt:     orDefault(fm.Excerpt, ""),
			Date:        date,
			Author:      orDefault(fm.Author, s.defaults.Author),
			Category:    orDefault(fm.Category, s.defaults.Category),
			Tags:        tags,
			Image:       orDefault(fm.Image, ""),
			ReadingTime: readtime.Estimate(res.Body, s.wpm).Text,
			Checksum:    checksum.Sum(data),
			PublishedAt: published,
		},
		Body: res.Body,
	}, nil
}

// resolveDate returns the date label and sort key for a post.
func (s *Service) resolveDate(authored *string) (string, time.Time, error) {
	if authored == nil || strings.TrimSpace(*authored) == "" {
		if s.requireDate {
			return "", time.Time{}, fmt.Errorf("blog: date is required: %w", apperr.ErrMalformed)
		}
		now := s.clock().UTC()
		return now.Format(parser.ISOLayout), now, nil
	}
	t, err := parser.ParseDate(*authored)
	if err != nil {
		return "", time.Time{}, err
	}
	return strings.TrimSpace(*authored), t, nil
}

func orDefault(v *string, def string) string {
	if v == nil || *v == "" {
		return def
	}
	return *v
}

// AllSummaries assembles every post in the store and returns them without
// bodies, most recent first. Posts with the same date are ordered by slug.
//
// Posts that fail to parse, cannot be read, or vanish between listing and
// reading are left out and logged; only a failure to enumerate the store or
// a cancelled context fails the call.
func (s *Service) AllSummaries(ctx context.Context) ([]models.PostSummary, error) {
	start := time.Now()

	slugs, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("blog: list: %w", err)
	}

	// Each worker writes only its own slot, so the base order is slug order.
	posts := make([]*models.Post, len(slugs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, slug := range slugs {
		g.Go(func() error {
			post, found, err := s.GetPost(gctx, slug)
			switch {
			case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
				return err
			case errors.Is(err, apperr.ErrMalformed):
				metrics.RecordParseFailure()
				s.logger.Warn("blog: skip malformed post",
					slog.String("slug", slug),
					slog.String("error", err.Error()))
			case err != nil:
				s.logger.Warn("blog: skip unreadable post",
					slog.String("slug", slug),
					slog.String("error", err.Error()))
			case !found:
				s.logger.Debug("blog: post vanished during listing", slog.String("slug", slug))
			default:
				posts[i] = post
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.PostSummary, 0, len(posts))
	for _, p := range posts {
		if p != nil {
			out = append(out, p.Summary())
		}
	}
	slices.SortStableFunc(out, compareListing)

	metrics.RecordAssemble(len(out), time.Since(start).Seconds())
	return out, nil
}

// compareListing orders by publish date descending, then slug ascending.
func compareListing(a, b models.PostSummary) int {
	if c := b.PublishedAt.Compare(a.PublishedAt); c != 0 {
		return c
	}
	return strings.Compare(a.Slug, b.Slug)
}

// Problem is a post that could not be assembled.
type Problem struct {
	Slug string
	Err  error
}

// Check assembles every post and reports the ones that fail. The result is
// ordered by slug.
func (s *Service) Check(ctx context.Context) ([]Problem, error) {
	slugs, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("blog: list: %w", err)
	}
	var problems []Problem
	for _, slug := range slugs {
		_, found, err := s.GetPost(ctx, slug)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			problems = append(problems, Problem{Slug: slug, Err: err})
			continue
		}
		if !found {
			s.logger.Debug("blog: post vanished during check", slog.String("slug", slug))
		}
	}
	return problems, nil
}
