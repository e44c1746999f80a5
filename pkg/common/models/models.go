package models

import (
	"time"

	"github.com/google/uuid"
)

// RawHealthSample is one user-supplied set of health metrics. Numeric fields
// are pointers so an absent value is distinguishable from zero; binary fields
// carry the original categorical token ("Male"/"Female", "Yes"/"No").
type RawHealthSample struct {
	Age                  *float64 `json:"age,omitempty"`
	HeightCm             *float64 `json:"height_cm,omitempty"`
	WeightKg             *float64 `json:"weight_kg,omitempty"`
	DailySteps           *float64 `json:"daily_steps,omitempty"`
	SleepHours           *float64 `json:"sleep_hours,omitempty"`
	Calories             *float64 `json:"calories,omitempty"`
	HeartRate            *float64 `json:"heart_rate,omitempty"`
	SystolicBP           *float64 `json:"systolic_bp,omitempty"`
	DiastolicBP          *float64 `json:"diastolic_bp,omitempty"`
	ExerciseHoursPerWeek *float64 `json:"exercise_hours_per_week,omitempty"`
	AlcoholUnitsPerWeek  *float64 `json:"alcohol_units_per_week,omitempty"`
	Gender               string   `json:"gender,omitempty"`
	Smoker               string   `json:"smoker,omitempty"`
	Diabetic             string   `json:"diabetic,omitempty"`
	HeartDisease         string   `json:"heart_disease,omitempty"`
}

// RiskCategory is the ordinal label derived from the adjusted score.
type RiskCategory string

const (
	CategoryLow      RiskCategory = "Low"
	CategoryModerate RiskCategory = "Moderate"
	CategoryElevated RiskCategory = "Elevated"
	CategoryHigh     RiskCategory = "High"
	CategoryVeryHigh RiskCategory = "Very High"
)

type RiskScore struct {
	Raw        float64      `json:"raw"`
	Adjusted   float64      `json:"adjusted"`
	Category   RiskCategory `json:"category"`
	Confidence float64      `json:"confidence"`
	Reason     string       `json:"reason"`
}

type Macros struct {
	ProteinG int `json:"protein_g"`
	FatG     int `json:"fat_g"`
	CarbsG   int `json:"carbs_g"`
}

type RecommendationBundle struct {
	DailyCalories int      `json:"daily_calories"`
	Macros        Macros   `json:"macros"`
	Meals         []string `json:"meals"`
	ExercisePlan  string   `json:"exercise_plan"`
	Tips          []string `json:"tips,omitempty"`
}

// ResultRecord is one persisted pipeline outcome. Records are insert-only;
// a newer record supersedes an older one, it never mutates it.
type ResultRecord struct {
	ID             uuid.UUID            `json:"id"`
	UserID         string               `json:"user_id"`
	Timestamp      int64                `json:"timestamp"` // epoch milliseconds
	Score          RiskScore            `json:"score"`
	Recommendation RecommendationBundle `json:"recommendation"`
}

// Pipeline request/response surface.
type PredictRequest struct {
	UserID        string          `json:"user_id"`
	Sample        RawHealthSample `json:"sample"`
	Goal          string          `json:"goal,omitempty"`      // lose, gain, maintain
	DietType      string          `json:"diet_type,omitempty"` // vegetarian, non_vegetarian
	ActivityLevel *int            `json:"activity_level,omitempty"`
}

type PredictResponse struct {
	UserID         string               `json:"user_id"`
	Score          RiskScore            `json:"score"`
	Recommendation RecommendationBundle `json:"recommendation"`
	RecordID       uuid.UUID            `json:"record_id,omitempty"`
	Persisted      bool                 `json:"persisted"`
	PersistError   string               `json:"persist_error,omitempty"`
	Latency        time.Duration        `json:"latency"`
}

// Event Bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}
