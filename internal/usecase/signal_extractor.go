package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/foodiebot/backend/internal/domain"
)

// Compiled regex patterns for signal extraction
var (
	// Matches a budget ceiling like "under $10" or "under 10"; the digits are the ceiling
	budgetCeilingPattern = regexp.MustCompile(`\bunder\s*\$?(\d+)`)

	// Matches any dollar amount like "$12"
	dollarAmountPattern = regexp.MustCompile(`\$\d+`)
)

// Keyword vocabularies. Matching is plain substring containment on the lower-cased text,
// so spelling variants ("gluten-free", "gluten free") are listed separately.
var (
	specificPreferenceTerms = []string{
		"spicy", "korean", "burger", "taco", "tacos", "pizza", "vegan", "vegetarian",
		"gluten-free", "gluten free", "dessert", "salad", "breakfast", "cheap", "under $",
	}

	dietaryRestrictionTerms = []string{
		"vegetarian", "vegan", "no meat", "no pork", "no beef", "lactose", "dairy-free",
		"gluten-free", "allergy", "allergic",
	}

	moodTerms = []string{"adventurous", "comfort", "cheer", "indulgent", "healthy"}

	enthusiasmTerms = []string{"amazing", "love", "perfect", "awesome", "great", "delicious", "yum"}

	orderIntentPhrases = []string{
		"add to cart", "i'll take", "i will take", "order now", "i want to order", "buy it", "add it",
	}

	hesitationPhrases = []string{"maybe", "not sure", "i don't know", "dont know"}

	rejectionPhrases = []string{"too expensive", "not for me", "i don't like that", "i dont like that"}

	// Overlaps with rejectionPhrases on "too expensive"; both signals fire for that phrase.
	budgetConcernTerms = []string{"too expensive", "costly", "expensive"}
)

// keywordTest is one entry of the extraction battery
type keywordTest struct {
	signal domain.SignalName
	terms  []string
}

// keywordBattery runs in order after the budget/price checks
var keywordBattery = []keywordTest{
	{domain.SignalMoodIndication, moodTerms},
	{domain.SignalEnthusiasmWords, enthusiasmTerms},
	{domain.SignalOrderIntent, orderIntentPhrases},
	{domain.SignalHesitation, hesitationPhrases},
	{domain.SignalRejection, rejectionPhrases},
	{domain.SignalBudgetConcern, budgetConcernTerms},
}

// ExtractSignals classifies an utterance into a signal set. It never fails:
// text that matches nothing yields an empty set.
func ExtractSignals(text string) domain.SignalSet {
	lower := strings.ToLower(text)
	b := domain.NewSignalSetBuilder()

	if containsAny(lower, specificPreferenceTerms) {
		b.Set(domain.SignalSpecificPreferences, domain.Flag())
	}
	if containsAny(lower, dietaryRestrictionTerms) {
		b.Set(domain.SignalDietaryRestrictions, domain.Flag())
	}

	// A budget ceiling claims the utterance before the generic price check
	if ceiling, ok := parseBudgetCeiling(lower); ok {
		b.Set(domain.SignalBudgetMention, domain.Numeric(ceiling))
	} else if dollarAmountPattern.MatchString(lower) {
		b.Set(domain.SignalPriceInquiry, domain.Flag())
	}

	if strings.Contains(lower, "?") {
		b.Set(domain.SignalQuestionAsking, domain.Flag())
	}

	for _, test := range keywordBattery {
		if containsAny(lower, test.terms) {
			b.Set(test.signal, domain.Flag())
		}
	}

	return b.Build()
}

// parseBudgetCeiling returns the first "under $N" amount in text
func parseBudgetCeiling(text string) (float64, bool) {
	m := budgetCeilingPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	ceiling, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		// Only digits reach here, so the sole failure is overflow
		return math.MaxFloat64, true
	}
	return ceiling, true
}

// containsAny reports whether s contains any of the given substrings
func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
