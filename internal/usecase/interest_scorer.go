package usecase

import "github.com/foodiebot/backend/internal/domain"

// Engagement score bounds
const (
	MinInterestScore = 0
	MaxInterestScore = 100
)

// FactorWeight is the fixed contribution of one signal to the engagement score
type FactorWeight struct {
	Signal domain.SignalName
	Weight int
}

// PositiveFactors add to the engagement score when their signal is present.
// budget_mention only counts when it carries a numeric ceiling.
var PositiveFactors = []FactorWeight{
	{domain.SignalSpecificPreferences, 15},
	{domain.SignalDietaryRestrictions, 10},
	{domain.SignalBudgetMention, 5},
	{domain.SignalMoodIndication, 20},
	{domain.SignalQuestionAsking, 10},
	{domain.SignalEnthusiasmWords, 8},
	{domain.SignalPriceInquiry, 25},
	{domain.SignalOrderIntent, 30},
}

// NegativeFactors subtract from the engagement score when their signal is present
var NegativeFactors = []FactorWeight{
	{domain.SignalHesitation, -10},
	{domain.SignalBudgetConcern, -15},
	{domain.SignalRejection, -25},
}

// ReservedFactors are part of the weight taxonomy but never applied by ScoreInterest
var ReservedFactors = []FactorWeight{
	{domain.SignalDietaryConflict, -20},
	{domain.SignalDelayResponse, -5},
}

// ScoreInterest aggregates signals into an engagement score clamped to [0,100]
func ScoreInterest(signals domain.SignalSet) int {
	score := 0

	for _, f := range PositiveFactors {
		if factorApplies(signals, f.Signal) {
			score += f.Weight
		}
	}
	for _, f := range NegativeFactors {
		if factorApplies(signals, f.Signal) {
			score += f.Weight
		}
	}

	return clampInt(score, MinInterestScore, MaxInterestScore)
}

// ExtractAndScore runs the signal extractor and interest scorer on one utterance
func ExtractAndScore(text string) (domain.SignalSet, int) {
	signals := ExtractSignals(text)
	return signals, ScoreInterest(signals)
}

func factorApplies(signals domain.SignalSet, name domain.SignalName) bool {
	if name == domain.SignalBudgetMention {
		_, ok := signals.Number(name)
		return ok
	}
	return signals.Has(name)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
