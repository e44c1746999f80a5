package recommend

import (
	"math"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/wellmate-ai/wellmate/pkg/common/models"
)

func fptr(v float64) *float64 { return &v }

func TestBMRHarrisBenedict(t *testing.T) {
	male := BMR("Male", 70, 175, 30)
	want := 88.362 + 13.397*70 + 4.799*175 - 5.677*30
	if math.Abs(male-want) > 1e-6 {
		t.Fatalf("male BMR: expected %.2f, got %.2f", want, male)
	}

	female := BMR("Female", 60, 165, 30)
	wantF := 447.593 + 9.247*60 + 3.098*165 - 4.330*30
	if math.Abs(female-wantF) > 1e-6 {
		t.Fatalf("female BMR: expected %.2f, got %.2f", wantF, female)
	}
}

func TestRecommendedCalories(t *testing.T) {
	// BMR 1500, moderate activity (1.55) -> maintenance 2325.
	if got := RecommendedCalories(1500, 2, GoalMaintain); got != 2325 {
		t.Fatalf("maintain: expected 2325, got %d", got)
	}
	if got := RecommendedCalories(1500, 2, GoalLose); got != 1825 {
		t.Fatalf("lose: expected 1825, got %d", got)
	}
	if got := RecommendedCalories(1500, 2, GoalGain); got != 2625 {
		t.Fatalf("gain: expected 2625, got %d", got)
	}
	// Deficit floor at 1200.
	if got := RecommendedCalories(1000, 0, GoalLose); got != 1200 {
		t.Fatalf("floor: expected 1200, got %d", got)
	}
}

func TestMacroSplit(t *testing.T) {
	macros := MacroSplit(2000, 70, GoalMaintain)
	if macros.ProteinG != 112 {
		t.Fatalf("expected 112g protein, got %d", macros.ProteinG)
	}
	if macros.FatG != 55 {
		t.Fatalf("expected 55g fat, got %d", macros.FatG)
	}
	if macros.CarbsG != 263 {
		t.Fatalf("expected 263g carbs, got %d", macros.CarbsG)
	}

	// Carbs floor at zero when protein + fat exceed the budget.
	lowCal := MacroSplit(800, 100, GoalGain)
	if lowCal.CarbsG < 0 {
		t.Fatalf("carbs went negative: %d", lowCal.CarbsG)
	}
}

func TestActivityFromSteps(t *testing.T) {
	cases := []struct {
		steps float64
		want  int
	}{
		{1000, 0}, {2999, 0}, {3000, 1}, {5999, 1},
		{6000, 2}, {9999, 2}, {10000, 3}, {14999, 3}, {15000, 4},
	}
	for _, tc := range cases {
		if got := ActivityFromSteps(tc.steps); got != tc.want {
			t.Fatalf("steps %.0f: expected level %d, got %d", tc.steps, tc.want, got)
		}
	}
}

func TestRecommendMealTemplates(t *testing.T) {
	engine := NewEngine(DefaultCatalog(), 0, rand.New(rand.NewSource(1)))
	sample := models.RawHealthSample{Age: fptr(30), HeightCm: fptr(175), WeightKg: fptr(70), Gender: "Male"}

	veg := engine.Recommend(sample, 30, GoalMaintain, "vegetarian", nil)
	if len(veg.Meals) == 0 {
		t.Fatal("expected non-empty meal list")
	}
	if !strings.Contains(veg.Meals[0], "Dalia") {
		t.Fatalf("expected vegetarian template, got %q", veg.Meals[0])
	}

	nonVeg := engine.Recommend(sample, 30, GoalMaintain, "non_vegetarian", nil)
	if !strings.Contains(nonVeg.Meals[0], "Omelette") {
		t.Fatalf("expected non-vegetarian template, got %q", nonVeg.Meals[0])
	}

	last := veg.Meals[len(veg.Meals)-1]
	if !strings.Contains(last, "kcal/day") {
		t.Fatalf("expected trailing calorie sentence, got %q", last)
	}
}

func TestRecommendExercisePlan(t *testing.T) {
	engine := NewEngine(DefaultCatalog(), 0, rand.New(rand.NewSource(1)))
	sample := models.RawHealthSample{Age: fptr(30), HeightCm: fptr(175), WeightKg: fptr(70), DailySteps: fptr(1000)}

	bundle := engine.Recommend(sample, 30, GoalLose, "vegetarian", nil)
	if !strings.Contains(bundle.ExercisePlan, "15-20 min walking") {
		t.Fatalf("expected sedentary base plan, got %q", bundle.ExercisePlan)
	}
	if !strings.Contains(bundle.ExercisePlan, "calorie deficit") {
		t.Fatalf("expected lose-goal advice, got %q", bundle.ExercisePlan)
	}

	level := 4
	bundle = engine.Recommend(sample, 30, GoalGain, "vegetarian", &level)
	if !strings.Contains(bundle.ExercisePlan, "Daily physical activity") {
		t.Fatalf("explicit level should override steps, got %q", bundle.ExercisePlan)
	}
}

func TestRecommendTipsReproducible(t *testing.T) {
	sample := models.RawHealthSample{Age: fptr(30), HeightCm: fptr(175), WeightKg: fptr(70)}

	a := NewEngine(DefaultCatalog(), 2, rand.New(rand.NewSource(42)))
	b := NewEngine(DefaultCatalog(), 2, rand.New(rand.NewSource(42)))
	tipsA := a.Recommend(sample, 30, GoalMaintain, "veg", nil).Tips
	tipsB := b.Recommend(sample, 30, GoalMaintain, "veg", nil).Tips
	if !reflect.DeepEqual(tipsA, tipsB) {
		t.Fatalf("same seed produced different tips: %v vs %v", tipsA, tipsB)
	}
	if len(tipsA) != 2 {
		t.Fatalf("expected 2 tips, got %d", len(tipsA))
	}
}

func TestRecommendHighScoreAdvisory(t *testing.T) {
	engine := NewEngine(DefaultCatalog(), 0, rand.New(rand.NewSource(1)))
	sample := models.RawHealthSample{Age: fptr(30), HeightCm: fptr(175), WeightKg: fptr(70)}

	bundle := engine.Recommend(sample, 72, GoalMaintain, "veg", nil)
	if len(bundle.Tips) == 0 || !strings.Contains(bundle.Tips[0], "practitioner") {
		t.Fatalf("expected practitioner advisory for high score, got %v", bundle.Tips)
	}

	bundle = engine.Recommend(sample, 30, GoalMaintain, "veg", nil)
	if len(bundle.Tips) != 0 {
		t.Fatalf("expected no tips for low score with tipCount 0, got %v", bundle.Tips)
	}
}

func TestCatalogMealTemplateTokens(t *testing.T) {
	cat := DefaultCatalog()
	for _, token := range []string{"vegetarian", "veg", "Pure-Veg"} {
		if !strings.Contains(cat.MealTemplate(token)[0], "Dalia") {
			t.Fatalf("token %q should select vegetarian template", token)
		}
	}
	for _, token := range []string{"non_vegetarian", "anything", ""} {
		if !strings.Contains(cat.MealTemplate(token)[0], "Omelette") {
			t.Fatalf("token %q should select non-vegetarian template", token)
		}
	}
}
