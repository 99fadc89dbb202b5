package usecase

import (
	"sort"
	"strings"

	"github.com/foodiebot/backend/internal/domain"
)

// Result limits of the two ranking call sites
const (
	ConversationMatchLimit = 6
	SearchResultLimit      = 30
)

// searchPopularityScale converts popularity into a plain search score
const searchPopularityScale = 10.0

// SearchFilter holds the optional predicates of a plain catalog search.
// Zero values disable the corresponding predicate; any other value, including
// a negative MaxPrice or whitespace in Query, is applied literally.
type SearchFilter struct {
	Query    string
	Category string
	MaxPrice float64
}

// RankCandidates scores products against signals, drops every product whose score
// is not strictly positive, and returns the best `limit` in descending score order.
// Equal scores keep their catalog order.
func RankCandidates(products []domain.Product, signals domain.SignalSet, limit int) []domain.MatchResult {
	scored := make([]domain.MatchResult, 0, len(products))
	for i := range products {
		score := MatchScore(&products[i], signals)
		if score > 0 {
			scored = append(scored, domain.MatchResult{Product: products[i], Score: score})
		}
	}
	return rankScored(scored, limit)
}

// SearchCatalog filters products by the search predicates and ranks them by popularity.
// Unlike RankCandidates, zero-score products are kept.
func SearchCatalog(products []domain.Product, filter SearchFilter) []domain.MatchResult {
	query := strings.ToLower(filter.Query)
	category := strings.ToLower(filter.Category)

	scored := make([]domain.MatchResult, 0, len(products))
	for i := range products {
		p := &products[i]
		if category != "" && strings.ToLower(p.Category) != category {
			continue
		}
		if filter.MaxPrice != 0 && p.Price > filter.MaxPrice {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		scored = append(scored, domain.MatchResult{
			Product: *p,
			Score:   float64(p.PopularityScore) / searchPopularityScale,
		})
	}
	return rankScored(scored, SearchResultLimit)
}

// rankScored stable-sorts by score descending, truncates to limit and assigns rank positions
func rankScored(scored []domain.MatchResult, limit int) []domain.MatchResult {
	if limit <= 0 {
		return []domain.MatchResult{}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored
}
