package recommend

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog holds the deterministic meal templates per diet type and the pool
// of lifestyle tips. It is loaded once at startup; an empty path yields the
// compiled-in default.
type Catalog struct {
	Meals map[string][]string `yaml:"meals" json:"meals"`
	Tips  []string            `yaml:"tips" json:"tips"`
}

func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Catalog{}, fmt.Errorf("read recommendation catalog: %w", err)
	}
	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, fmt.Errorf("parse recommendation catalog: %w", err)
	}
	if len(cat.Meals) == 0 {
		return Catalog{}, fmt.Errorf("recommendation catalog has no meal templates")
	}
	return cat, nil
}

// MealTemplate resolves a diet-type token to a template. Any token containing
// "veg" (vegetarian, veg, pure-veg) selects the vegetarian template; anything
// else falls back to non_vegetarian.
func (c Catalog) MealTemplate(dietType string) []string {
	key := "non_vegetarian"
	if strings.Contains(strings.ToLower(strings.TrimSpace(dietType)), "veg") &&
		!strings.Contains(strings.ToLower(dietType), "non") {
		key = "vegetarian"
	}
	if template, ok := c.Meals[key]; ok {
		return template
	}
	for _, template := range c.Meals {
		return template
	}
	return nil
}

func DefaultCatalog() Catalog {
	return Catalog{
		Meals: map[string][]string{
			"vegetarian": {
				"Breakfast: Dalia / Poha + low-fat milk (approx 350 kcal)",
				"Mid-morning: Fruit (banana / apple)",
				"Lunch: 1.5 rotis + dal + sabzi + salad",
				"Evening: Buttermilk or tea + roasted chana",
				"Dinner: Paneer curry or soya chunk curry + 2 rotis",
			},
			"non_vegetarian": {
				"Breakfast: Omelette (2 eggs) + 1 slice whole wheat toast",
				"Mid-morning: Fruit (banana / orange)",
				"Lunch: Rice + chicken curry + salad",
				"Evening: Whey shake or roasted peanuts",
				"Dinner: Grilled chicken or egg curry + 1-2 rotis",
			},
		},
		Tips: []string{
			"Drink at least 2-3 litres of water through the day",
			"Keep a consistent sleep schedule, including weekends",
			"Take a 5 minute walk after every meal",
			"Swap sugary drinks for water or unsweetened tea",
			"Prefer whole grains over refined flour",
			"Schedule screen-free wind-down time before bed",
		},
	}
}
