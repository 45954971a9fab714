package blog

import (
	"context"
	"errors"
	"slices"

	"github.com/starford/inkwell/internal/apperr"
	"github.com/starford/inkwell/internal/models"
)

// DefaultRelatedLimit is the number of related posts returned when the
// caller does not ask for a specific count.
const DefaultRelatedLimit = 3

// Scores awarded by Relatedness.
const (
	CategoryScore  = 2
	SharedTagScore = 1
)

// ScoredPost is a related post with its relatedness score.
type ScoredPost struct {
	models.PostSummary
	Score int `json:"score"`
}

// Relatedness scores candidate against source: CategoryScore when the
// categories are identical (case-sensitive) plus SharedTagScore for every
// distinct tag both posts carry.
func Relatedness(source, candidate models.PostSummary) int {
	score := 0
	if candidate.Category == source.Category {
		score += CategoryScore
	}
	srcTags := make(map[string]struct{}, len(source.Tags))
	for _, t := range source.Tags {
		srcTags[t] = struct{}{}
	}
	seen := make(map[string]struct{}, len(candidate.Tags))
	for _, t := range candidate.Tags {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := srcTags[t]; ok {
			score += SharedTagScore
		}
	}
	return score
}

// RelatedScored ranks every other post by Relatedness to slug and returns
// the best limit of them. Equal scores keep ListAll order. limit <= 0 means
// DefaultRelatedLimit.
//
// An unknown or impossible slug yields an empty result. A slug whose own document is
// malformed yields the parse error.
func (s *Service) RelatedScored(ctx context.Context, slug string, limit int) ([]ScoredPost, error) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	source, found, err := s.GetPost(ctx, slug)
	if errors.Is(err, apperr.ErrInvalid) {
		// A slug the store refuses can never name a post.
		return []ScoredPost{}, nil
	}
	if err != nil {
		return nil, err
	}
	if !found {
		return []ScoredPost{}, nil
	}

	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredPost, 0, len(all))
	for _, p := range all {
		if p.Slug == source.Slug {
			continue
		}
		scored = append(scored, ScoredPost{PostSummary: p, Score: Relatedness(source.PostSummary, p)})
	}
	slices.SortStableFunc(scored, func(a, b ScoredPost) int { return b.Score - a.Score })

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// RelatedTo returns the posts most related to slug. See RelatedScored.
func (s *Service) RelatedTo(ctx context.Context, slug string, limit int) ([]models.PostSummary, error) {
	scored, err := s.RelatedScored(ctx, slug, limit)
	if err != nil {
		return nil, err
	}
	out := make([]models.PostSummary, len(scored))
	for i, sp := range scored {
		out[i] = sp.PostSummary
	}
	return out, nil
}
