package domain

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Catalog categories
const (
	CategoryBurgers      = "Burgers"
	CategoryPizza        = "Pizza"
	CategoryFriedChicken = "Fried Chicken"
	CategoryTacosWraps   = "Tacos & Wraps"
	CategorySides        = "Sides & Appetizers"
	CategoryBeverages    = "Beverages"
	CategoryDesserts     = "Desserts"
	CategorySalads       = "Salads"
	CategoryBreakfast    = "Breakfast"
	CategoryLimitedTime  = "Limited Time Specials"
)

// Categories is the closed set of catalog categories
var Categories = []string{
	CategoryBurgers, CategoryPizza, CategoryFriedChicken, CategoryTacosWraps, CategorySides,
	CategoryBeverages, CategoryDesserts, CategorySalads, CategoryBreakfast, CategoryLimitedTime,
}

// IsCategory reports whether c belongs to the closed category set
func IsCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Dietary tags. The contains_* tags conflict with a stated dietary restriction.
const (
	TagVegetarian     = "vegetarian"
	TagVegan          = "vegan"
	TagContainsGluten = "contains_gluten"
	TagContainsDairy  = "contains_dairy"
	TagContainsSoy    = "contains_soy"
	TagGlutenFree     = "gluten_free"
)

// Bounds for catalog metadata
const (
	MaxPopularityScore = 100
	MaxSpiceLevel      = 10

	// DefaultPopularityScore is applied to admin-created products that omit it
	DefaultPopularityScore = 50
)

// Product represents a sellable catalog item
type Product struct {
	ProductID       string   `json:"product_id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Description     string   `json:"description"`
	Ingredients     []string `json:"ingredients"`
	Price           float64  `json:"price"`
	Calories        int      `json:"calories"`
	PrepTime        string   `json:"prep_time"`
	DietaryTags     []string `json:"dietary_tags"`
	MoodTags        []string `json:"mood_tags"`
	Allergens       []string `json:"allergens"`
	PopularityScore int      `json:"popularity_score"`
	ChefSpecial     bool     `json:"chef_special"`
	LimitedTime     bool     `json:"limited_time"`
	SpiceLevel      int      `json:"spice_level"`
	ImagePrompt     string   `json:"image_prompt"`
	ImageURL        string   `json:"image_url"`
}

// HasDietaryTag reports whether the product carries the given dietary tag
func (p *Product) HasDietaryTag(tag string) bool {
	for _, t := range p.DietaryTags {
		if t == tag {
			return true
		}
	}
	return false
}

// Validate checks the fields required to store a product. Category may be left empty.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.ProductID) == "" {
		return fmt.Errorf("%w: product_id is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}
	if p.Category != "" && !IsCategory(p.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidRequest, p.Category)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price must be non-negative, got %.2f", ErrInvalidRequest, p.Price)
	}
	if p.PopularityScore < 0 || p.PopularityScore > MaxPopularityScore {
		return fmt.Errorf("%w: popularity_score must be within [0,%d], got %d", ErrInvalidRequest, MaxPopularityScore, p.PopularityScore)
	}
	if p.SpiceLevel < 0 || p.SpiceLevel > MaxSpiceLevel {
		return fmt.Errorf("%w: spice_level must be within [0,%d], got %d", ErrInvalidRequest, MaxSpiceLevel, p.SpiceLevel)
	}
	return nil
}

// ParseTags decodes a stored JSON tag list. Empty or malformed payloads yield an empty set.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}

// EncodeTags is the inverse of ParseTags; nil encodes as an empty list
func EncodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// MatchResult is a scored catalog item at a given rank position (1-based)
type MatchResult struct {
	Product Product
	Score   float64
	Rank    int
}
