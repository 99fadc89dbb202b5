package usecase

import (
	"strings"

	"github.com/foodiebot/backend/internal/domain"
)

// Compatibility scoring terms
const (
	moodMatchBonus         = 10.0 // Any mood was indicated
	dietaryCompatibleBonus = 15.0 // Restriction stated, product has no conflict marker
	dietaryConflictPenalty = 20.0 // Restriction stated, product contains gluten or dairy
	keywordMatchBonus      = 8.0  // Per keyword found in product name or category
	budgetFitBonus         = 12.0 // Price within the stated ceiling
	budgetExceededPenalty  = 8.0  // Price above the stated ceiling
	popularityScale        = 20.0 // Popularity contributes popularity/scale
	spiceLevelMultiplier   = 0.3  // Spice level weight when preferences were stated
)

// productKeywords are matched against every product's name and category
var productKeywords = []string{
	"spicy", "korean", "burger", "taco", "pizza", "chicken", "vegan", "vegetarian", "salad",
}

// dietaryConflictTags mark products incompatible with a stated dietary restriction
var dietaryConflictTags = []string{domain.TagContainsGluten, domain.TagContainsDairy}

// MatchScore computes how well a product fits the extracted signals. The result is
// never negative and has no upper bound.
func MatchScore(product *domain.Product, signals domain.SignalSet) float64 {
	score := 0.0

	if signals.Has(domain.SignalMoodIndication) {
		score += moodMatchBonus
	}

	if signals.Has(domain.SignalDietaryRestrictions) {
		if hasDietaryConflict(product) {
			score -= dietaryConflictPenalty
		} else {
			score += dietaryCompatibleBonus
		}
	}

	score += float64(countKeywordMatches(product)) * keywordMatchBonus

	if ceiling, ok := signals.Number(domain.SignalBudgetMention); ok {
		if product.Price <= ceiling {
			score += budgetFitBonus
		} else {
			score -= budgetExceededPenalty
		}
	}

	score += float64(product.PopularityScore) / popularityScale

	// Spice eligibility follows the specific_preferences vocabulary, which includes "spicy"
	if signals.Has(domain.SignalSpecificPreferences) {
		score += float64(product.SpiceLevel) * spiceLevelMultiplier
	}

	if score < 0 {
		return 0
	}
	return score
}

// countKeywordMatches counts keywords present in the product name or category.
// Each keyword counts once even if it appears in both.
func countKeywordMatches(product *domain.Product) int {
	name := strings.ToLower(product.Name)
	category := strings.ToLower(product.Category)

	matches := 0
	for _, kw := range productKeywords {
		if strings.Contains(name, kw) || strings.Contains(category, kw) {
			matches++
		}
	}
	return matches
}

func hasDietaryConflict(product *domain.Product) bool {
	for _, tag := range dietaryConflictTags {
		if product.HasDietaryTag(tag) {
			return true
		}
	}
	return false
}
