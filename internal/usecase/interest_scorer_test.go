package usecase

import (
	"testing"

	"github.com/foodiebot/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestScoreInterest(t *testing.T) {
	flags := func(names ...domain.SignalName) domain.SignalSet {
		b := domain.NewSignalSetBuilder()
		for _, n := range names {
			b.Set(n, domain.Flag())
		}
		return b.Build()
	}

	tests := []struct {
		name    string
		signals domain.SignalSet
		want    int
	}{
		{name: "no signals", signals: domain.SignalSet{}, want: 0},
		{name: "single positive", signals: flags(domain.SignalOrderIntent), want: 30},
		{
			name:    "numeric budget counts",
			signals: domain.NewSignalSet(map[domain.SignalName]domain.SignalValue{domain.SignalBudgetMention: domain.Numeric(10)}),
			want:    5,
		},
		{name: "flag-only budget does not count", signals: flags(domain.SignalBudgetMention), want: 0},
		{name: "negatives clamp to zero", signals: flags(domain.SignalRejection, domain.SignalBudgetConcern), want: 0},
		{
			name:    "mixed positive and negative",
			signals: flags(domain.SignalMoodIndication, domain.SignalPriceInquiry, domain.SignalHesitation),
			want:    35,
		},
		{
			name: "positives clamp to one hundred",
			signals: flags(
				domain.SignalSpecificPreferences, domain.SignalDietaryRestrictions, domain.SignalMoodIndication,
				domain.SignalQuestionAsking, domain.SignalEnthusiasmWords, domain.SignalPriceInquiry,
				domain.SignalOrderIntent,
			),
			want: 100,
		},
		{name: "reserved signals are not applied", signals: flags(domain.SignalQuestionAsking, domain.SignalDelayResponse, domain.SignalDietaryConflict), want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreInterest(tt.signals))
		})
	}
}

func TestExtractAndScore(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"Is this spicy and under $10?", 30},
		{"That's too expensive, not for me", 0},
		{"I want something spicy and cheap, under $10", 20},
		{"I'll take the spicy vegan one for $10? amazing and healthy", 100},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, got := ExtractAndScore(tt.text)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreInterest_AlwaysBounded(t *testing.T) {
	inputs := []string{
		"", "?", "$1", "under $0", "maybe not sure i don't know, too expensive, costly, not for me",
		"amazing love perfect awesome great delicious yum add to cart order now under $5 healthy vegan spicy?",
		"I dont like that. I DONT KNOW.", "under $99999999999999999999999999999999999999",
	}
	for _, text := range inputs {
		_, score := ExtractAndScore(text)
		if score < MinInterestScore || score > MaxInterestScore {
			t.Errorf("ExtractAndScore(%q) = %d, want within [0,100]", text, score)
		}
	}
}

func TestWeightTables(t *testing.T) {
	for _, f := range PositiveFactors {
		assert.True(t, f.Weight >= 5 && f.Weight <= 30, "%s weight %d out of range", f.Signal, f.Weight)
	}
	for _, f := range NegativeFactors {
		assert.True(t, f.Weight >= -25 && f.Weight <= -10, "%s weight %d out of range", f.Signal, f.Weight)
	}
	assert.Len(t, PositiveFactors, 8)
	assert.Len(t, NegativeFactors, 3)

	// Reserved factors are weighted but never produced by the extractor
	assert.Equal(t, []FactorWeight{
		{domain.SignalDietaryConflict, -20},
		{domain.SignalDelayResponse, -5},
	}, ReservedFactors)

	seen := map[domain.SignalName]bool{}
	for _, table := range [][]FactorWeight{PositiveFactors, NegativeFactors, ReservedFactors} {
		for _, f := range table {
			assert.True(t, f.Signal.Valid(), "%s is not in the vocabulary", f.Signal)
			assert.False(t, seen[f.Signal], "%s weighted twice", f.Signal)
			seen[f.Signal] = true
		}
	}
}
