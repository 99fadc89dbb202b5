package domain

import (
	"bytes"
	"strconv"
)

// SignalName identifies a deterministic classification extracted from user text
type SignalName string

// Positive engagement signals
const (
	SignalSpecificPreferences SignalName = "specific_preferences"
	SignalDietaryRestrictions SignalName = "dietary_restrictions"
	SignalBudgetMention       SignalName = "budget_mention"
	SignalMoodIndication      SignalName = "mood_indication"
	SignalQuestionAsking      SignalName = "question_asking"
	SignalEnthusiasmWords     SignalName = "enthusiasm_words"
	SignalPriceInquiry        SignalName = "price_inquiry"
	SignalOrderIntent         SignalName = "order_intent"
)

// Negative engagement signals
const (
	SignalHesitation    SignalName = "hesitation"
	SignalBudgetConcern SignalName = "budget_concern"
	SignalRejection     SignalName = "rejection"

	// Reserved in the taxonomy; nothing produces these yet.
	SignalDietaryConflict SignalName = "dietary_conflict"
	SignalDelayResponse   SignalName = "delay_response"
)

// signalOrder is the canonical vocabulary order used for iteration and serialization
var signalOrder = []SignalName{
	SignalSpecificPreferences,
	SignalDietaryRestrictions,
	SignalBudgetMention,
	SignalPriceInquiry,
	SignalMoodIndication,
	SignalQuestionAsking,
	SignalEnthusiasmWords,
	SignalOrderIntent,
	SignalHesitation,
	SignalRejection,
	SignalBudgetConcern,
	SignalDietaryConflict,
	SignalDelayResponse,
}

// Valid reports whether the name belongs to the signal vocabulary
func (n SignalName) Valid() bool {
	for _, known := range signalOrder {
		if n == known {
			return true
		}
	}
	return false
}

type signalKind uint8

const (
	kindFlag signalKind = iota + 1
	kindNumeric
)

// SignalValue is either a presence flag or a value-carrying signal (e.g. a budget ceiling).
// The zero value means "absent".
type SignalValue struct {
	kind   signalKind
	number float64
}

// Flag returns a presence-only signal value
func Flag() SignalValue {
	return SignalValue{kind: kindFlag}
}

// Numeric returns a signal value carrying a number
func Numeric(v float64) SignalValue {
	return SignalValue{kind: kindNumeric, number: v}
}

// Present reports whether the value was set at all
func (v SignalValue) Present() bool {
	return v.kind != 0
}

// Number returns the numeric payload; ok is false for flags and absent values
func (v SignalValue) Number() (float64, bool) {
	if v.kind != kindNumeric {
		return 0, false
	}
	return v.number, true
}

// SignalSet is an immutable mapping of signal names to values, built fresh per utterance.
// The zero value is an empty set.
type SignalSet struct {
	values map[SignalName]SignalValue
	names  []SignalName // present names in vocabulary order
}

// NewSignalSet copies the given values into a new set. Absent values and unknown names are dropped.
func NewSignalSet(values map[SignalName]SignalValue) SignalSet {
	b := NewSignalSetBuilder()
	for name, value := range values {
		b.Set(name, value)
	}
	return b.Build()
}

// Has reports whether the named signal fired
func (s SignalSet) Has(name SignalName) bool {
	_, ok := s.values[name]
	return ok
}

// Value returns the value for name; absent signals return the zero SignalValue
func (s SignalSet) Value(name SignalName) SignalValue {
	return s.values[name]
}

// Number returns the numeric payload of name, if any
func (s SignalSet) Number(name SignalName) (float64, bool) {
	return s.values[name].Number()
}

// Len returns the number of signals present
func (s SignalSet) Len() int {
	return len(s.values)
}

// Names returns the present signal names in vocabulary order
func (s SignalSet) Names() []SignalName {
	names := make([]SignalName, len(s.names))
	copy(names, s.names)
	return names
}

// MarshalJSON encodes flags as true and numeric signals as their number
func (s SignalSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(string(name)))
		buf.WriteByte(':')
		if n, ok := s.Number(name); ok {
			buf.WriteString(strconv.FormatFloat(n, 'f', -1, 64))
		} else {
			buf.WriteString("true")
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SignalSetBuilder accumulates signals before freezing them into a SignalSet
type SignalSetBuilder struct {
	values map[SignalName]SignalValue
}

// NewSignalSetBuilder creates an empty builder
func NewSignalSetBuilder() *SignalSetBuilder {
	return &SignalSetBuilder{values: make(map[SignalName]SignalValue)}
}

// Set records a signal. Absent values and names outside the vocabulary are ignored.
func (b *SignalSetBuilder) Set(name SignalName, value SignalValue) *SignalSetBuilder {
	if !value.Present() || !name.Valid() {
		return b
	}
	b.values[name] = value
	return b
}

// Build returns an immutable snapshot of the signals recorded so far
func (b *SignalSetBuilder) Build() SignalSet {
	set := SignalSet{
		values: make(map[SignalName]SignalValue, len(b.values)),
		names:  make([]SignalName, 0, len(b.values)),
	}
	for _, name := range signalOrder {
		if value, ok := b.values[name]; ok {
			set.values[name] = value
			set.names = append(set.names, name)
		}
	}
	return set
}
