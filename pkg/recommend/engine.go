package recommend

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/wellmate-ai/wellmate/pkg/common/models"
)

// Goal tokens accepted by the engine. Anything else means maintain.
const (
	GoalLose     = "lose"
	GoalGain     = "gain"
	GoalMaintain = "maintain"
)

var activityMultipliers = [5]float64{1.2, 1.375, 1.55, 1.725, 1.9}

var exerciseBase = [5]string{
	"Start with 15-20 min walking, 3x/week",
	"30 min brisk walk or light cardio 3-4x/week",
	"40-60 min mixed cardio + strength 4x/week",
	"45-75 min intensive training 4-6x/week",
	"Daily physical activity: cardio + strength",
}

// Engine produces the rule-based diet and exercise bundle. Tip selection is
// the only non-deterministic part and runs through the injected rand so tests
// can pin it.
type Engine struct {
	catalog  Catalog
	tipCount int

	mu  sync.Mutex // guards rng; concurrent recommendations share it
	rng *rand.Rand
}

// NewEngine builds an engine. A nil rng gets a time-seeded source.
func NewEngine(catalog Catalog, tipCount int, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{catalog: catalog, tipCount: tipCount, rng: rng}
}

// Recommend assembles calories, macros, meals, an exercise plan and tips for
// a sample. Missing optional inputs substitute the same defaults the feature
// builder uses; the adjusted score only gates the practitioner advisory tip.
func (e *Engine) Recommend(sample models.RawHealthSample, adjustedScore float64, goal, dietType string, activityLevel *int) models.RecommendationBundle {
	goal = normalizeGoal(goal)

	age := orElse(sample.Age, 30)
	heightCm := orElse(sample.HeightCm, 170)
	weightKg := orElse(sample.WeightKg, 70)
	steps := orElse(sample.DailySteps, 5000)

	activity := resolveActivity(activityLevel, steps)
	bmr := BMR(sample.Gender, weightKg, heightCm, age)
	calories := RecommendedCalories(bmr, activity, goal)
	macros := MacroSplit(calories, weightKg, goal)

	meals := append([]string{}, e.catalog.MealTemplate(dietType)...)
	meals = append(meals, fmt.Sprintf("Adjust portions to target calories: ~%d kcal/day", calories))

	bundle := models.RecommendationBundle{
		DailyCalories: calories,
		Macros:        macros,
		Meals:         meals,
		ExercisePlan:  ExercisePlan(goal, activity),
	}

	if adjustedScore >= 60 {
		bundle.Tips = append(bundle.Tips, "Your risk score is high: discuss these results with a practitioner before major changes")
	}
	bundle.Tips = append(bundle.Tips, e.pickTips()...)
	return bundle
}

// BMR uses the Harris-Benedict estimate. The male formula applies to the
// "Male" token, the female formula to everything else.
func BMR(genderToken string, weightKg, heightCm, age float64) float64 {
	if strings.EqualFold(strings.TrimSpace(genderToken), "male") {
		return 88.362 + 13.397*weightKg + 4.799*heightCm - 5.677*age
	}
	return 447.593 + 9.247*weightKg + 3.098*heightCm - 4.330*age
}

// RecommendedCalories scales BMR by the activity multiplier, then applies the
// goal adjustment: lose drops 500 kcal with a 1200 floor, gain adds 300.
func RecommendedCalories(bmr float64, activity int, goal string) int {
	maintenance := bmr * activityMultipliers[clampLevel(activity)]
	switch goal {
	case GoalLose:
		calories := int(maintenance - 500)
		if calories < 1200 {
			calories = 1200
		}
		return calories
	case GoalGain:
		return int(maintenance + 300)
	default:
		return int(maintenance)
	}
}

// MacroSplit allocates protein by body weight (1.8 g/kg losing, 2.0 gaining,
// 1.6 otherwise), 25% of calories to fat, and the remainder to carbs.
func MacroSplit(totalCalories int, weightKg float64, goal string) models.Macros {
	proteinPerKg := 1.6
	switch goal {
	case GoalLose:
		proteinPerKg = 1.8
	case GoalGain:
		proteinPerKg = 2.0
	}
	proteinCalories := int(proteinPerKg * weightKg * 4)
	fatCalories := int(0.25 * float64(totalCalories))
	carbsCalories := totalCalories - proteinCalories - fatCalories
	if carbsCalories < 0 {
		carbsCalories = 0
	}
	return models.Macros{
		ProteinG: proteinCalories / 4,
		FatG:     fatCalories / 9,
		CarbsG:   carbsCalories / 4,
	}
}

// ExercisePlan keys a base sentence on activity bucket and adds goal advice.
func ExercisePlan(goal string, activity int) string {
	base := exerciseBase[clampLevel(activity)]
	var advice string
	switch goal {
	case GoalLose:
		advice = "Focus on calorie deficit + cardio + resistance training"
	case GoalGain:
		advice = "Slight calorie surplus + progressive overload strength training"
	default:
		advice = "Maintain weight with balanced diet and mixed training"
	}
	return fmt.Sprintf("%s. Goal advice: %s.", base, advice)
}

// ActivityFromSteps buckets a daily step count into the 0..4 activity scale.
func ActivityFromSteps(steps float64) int {
	switch {
	case steps < 3000:
		return 0
	case steps < 6000:
		return 1
	case steps < 10000:
		return 2
	case steps < 15000:
		return 3
	default:
		return 4
	}
}

func resolveActivity(level *int, steps float64) int {
	if level != nil {
		return clampLevel(*level)
	}
	return ActivityFromSteps(steps)
}

func (e *Engine) pickTips() []string {
	if e.tipCount <= 0 || len(e.catalog.Tips) == 0 {
		return nil
	}
	count := e.tipCount
	if count > len(e.catalog.Tips) {
		count = len(e.catalog.Tips)
	}
	e.mu.Lock()
	picked := e.rng.Perm(len(e.catalog.Tips))[:count]
	e.mu.Unlock()
	tips := make([]string, 0, count)
	for _, idx := range picked {
		tips = append(tips, e.catalog.Tips[idx])
	}
	return tips
}

func normalizeGoal(goal string) string {
	switch strings.ToLower(strings.TrimSpace(goal)) {
	case GoalLose:
		return GoalLose
	case GoalGain:
		return GoalGain
	default:
		return GoalMaintain
	}
}

func clampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > 4 {
		return 4
	}
	return level
}

func orElse(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}
