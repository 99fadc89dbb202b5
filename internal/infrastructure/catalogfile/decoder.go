// Package catalogfile loads catalog fixtures (products.json) into the record store.
package catalogfile

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/foodiebot/backend/internal/domain"
)

// record mirrors one entry of products.json. Absent fields keep their zero value.
type record struct {
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

// Decode reads a JSON array of products and validates every entry
func Decode(r io.Reader) ([]domain.Product, error) {
	var records []record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	products := make([]domain.Product, 0, len(records))
	for i, rec := range records {
		p := mapToProduct(rec)
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		products = append(products, p)
	}
	return products, nil
}

// DecodeFile opens path and decodes it
func DecodeFile(path string) ([]domain.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

func mapToProduct(rec record) domain.Product {
	return domain.Product{
		ProductID:       rec.ProductID,
		Name:            rec.Name,
		Category:        rec.Category,
		Description:     rec.Description,
		Ingredients:     nonNil(rec.Ingredients),
		Price:           rec.Price,
		Calories:        rec.Calories,
		PrepTime:        rec.PrepTime,
		DietaryTags:     nonNil(rec.DietaryTags),
		MoodTags:        nonNil(rec.MoodTags),
		Allergens:       nonNil(rec.Allergens),
		PopularityScore: rec.PopularityScore,
		ChefSpecial:     rec.ChefSpecial,
		LimitedTime:     rec.LimitedTime,
		SpiceLevel:      rec.SpiceLevel,
		ImagePrompt:     rec.ImagePrompt,
		ImageURL:        rec.ImageURL,
	}
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
