package blog

import (
	"context"
	"slices"
	"strings"

	"github.com/starford/inkwell/internal/models"
)

// ListAll returns every post summary, most recent first.
func (s *Service) ListAll(ctx context.Context) ([]models.PostSummary, error) {
	return s.AllSummaries(ctx)
}

// ByCategory returns the posts whose category equals category, ignoring
// case, in ListAll order.
func (s *Service) ByCategory(ctx context.Context, category string) ([]models.PostSummary, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter(all, func(p models.PostSummary) bool {
		return strings.EqualFold(p.Category, category)
	}), nil
}

// ByTag returns the posts carrying tag, ignoring case, in ListAll order.
func (s *Service) ByTag(ctx context.Context, tag string) ([]models.PostSummary, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter(all, func(p models.PostSummary) bool {
		return slices.ContainsFunc(p.Tags, func(t string) bool {
			return strings.EqualFold(t, tag)
		})
	}), nil
}

// AllCategories counts posts per category, largest first. Categories with
// equal counts keep the order in which ListAll first mentions them.
func (s *Service) AllCategories(ctx context.Context) ([]models.CategoryCount, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	names, counts := tally(all, func(p models.PostSummary) []string {
		return []string{p.Category}
	})
	out := make([]models.CategoryCount, len(names))
	for i, n := range names {
		out[i] = models.CategoryCount{Name: n, Count: counts[n]}
	}
	slices.SortStableFunc(out, func(a, b models.CategoryCount) int { return b.Count - a.Count })
	return out, nil
}

// AllTags counts tag usage across all posts, largest first. A tag repeated
// inside one post counts every time it appears.
func (s *Service) AllTags(ctx context.Context) ([]models.TagCount, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	names, counts := tally(all, func(p models.PostSummary) []string {
		return p.Tags
	})
	out := make([]models.TagCount, len(names))
	for i, n := range names {
		out[i] = models.TagCount{Name: n, Count: counts[n]}
	}
	slices.SortStableFunc(out, func(a, b models.TagCount) int { return b.Count - a.Count })
	return out, nil
}

func filter(posts []models.PostSummary, keep func(models.PostSummary) bool) []models.PostSummary {
	out := make([]models.PostSummary, 0, len(posts))
	for _, p := range posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// tally counts the keys produced for each post, returning the keys in
// first-seen order.
func tally(posts []models.PostSummary, keys func(models.PostSummary) []string) ([]string, map[string]int) {
	var order []string
	counts := make(map[string]int)
	for _, p := range posts {
		for _, k := range keys(p) {
			if _, ok := counts[k]; !ok {
				order = append(order, k)
			}
			counts[k]++
		}
	}
	return order, counts
}
