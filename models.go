package main

import (
	"time"

	"github.com/shopspring/decimal"
)

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. The id is an opaque string issued at
// provisioning time. Password and AuthToken are hidden from JSON responses.
type user struct {
	ID              string     `json:"id" db:"id"`
	Username        string     `json:"username" db:"username"`
	Email           string     `json:"email" db:"email"`
	Password        string     `json:"-" db:"password"`
	AuthToken       string     `json:"-" db:"auth_token"`
	FirstName       *string    `json:"firstName" db:"first_name"`
	LastName        *string    `json:"lastName" db:"last_name"`
	ProfileImageURL *string    `json:"profileImageUrl" db:"profile_image_url"`
	CreatedAt       *time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       *time.Time `json:"updatedAt" db:"updated_at"`
}

// food maps to the foods table. Per-serving macros are NUMERIC columns and
// serialize as decimal strings, so "1.5" survives the round trip unchanged.
type food struct {
	ID                 int             `json:"id" db:"id"`
	Name               string          `json:"name" db:"name"`
	CaloriesPerServing decimal.Decimal `json:"caloriesPerServing" db:"calories_per_serving"`
	ProteinPerServing  decimal.Decimal `json:"proteinPerServing" db:"protein_per_serving"`
	CarbsPerServing    decimal.Decimal `json:"carbsPerServing" db:"carbs_per_serving"`
	FatPerServing      decimal.Decimal `json:"fatPerServing" db:"fat_per_serving"`
	IsCommon           bool            `json:"isCommon" db:"is_common"`
	CreatedAt          *time.Time      `json:"createdAt" db:"created_at"`
}

// userGoals maps to user_goals. The UNIQUE constraint on user_id is what
// makes the ON CONFLICT upsert safe under concurrent writers.
type userGoals struct {
	ID            int        `json:"id" db:"id"`
	UserID        string     `json:"userId" db:"user_id"`
	DailyCalories int        `json:"dailyCalories" db:"daily_calories"`
	DailyProtein  int        `json:"dailyProtein" db:"daily_protein"`
	DailyCarbs    int        `json:"dailyCarbs" db:"daily_carbs"`
	DailyFat      int        `json:"dailyFat" db:"daily_fat"`
	WeightGoal    string     `json:"weightGoal" db:"weight_goal"`
	CreatedAt     *time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     *time.Time `json:"updatedAt" db:"updated_at"`
}

// defaultGoals is the read-only fallback returned when a user has no stored
// goals row. It is never written to the database on behalf of a read.
func defaultGoals(userID string) userGoals {
	return userGoals{
		UserID:        userID,
		DailyCalories: 2000,
		DailyProtein:  150,
		DailyCarbs:    250,
		DailyFat:      67,
		WeightGoal:    "maintain",
	}
}

// foodEntry maps to food_entries. EntryDate is the logical day bucket as a
// YYYY-MM-DD string, deliberately independent of ConsumedAt's calendar date.
type foodEntry struct {
	ID         int             `json:"id" db:"id"`
	UserID     string          `json:"userId" db:"user_id"`
	FoodID     int             `json:"foodId" db:"food_id"`
	Servings   decimal.Decimal `json:"servings" db:"servings"`
	MealType   string          `json:"mealType" db:"meal_type"`
	ConsumedAt *time.Time      `json:"consumedAt" db:"consumed_at"`
	EntryDate  string          `json:"entryDate" db:"entry_date"`
	CreatedAt  *time.Time      `json:"createdAt" db:"created_at"`
}

// foodEntryWithFood is a food entry joined with its referenced food — a
// read-only composed view, never stored.
type foodEntryWithFood struct {
	foodEntry
	Food food `json:"food"`
}

// entryFoodRow is the flat shape of one row from the entries-to-foods join
// query. Food columns carry an f_ alias to avoid name collisions with the
// entry columns; rows are reassembled into foodEntryWithFood after scanning.
type entryFoodRow struct {
	ID         int             `db:"id"`
	UserID     string          `db:"user_id"`
	FoodID     int             `db:"food_id"`
	Servings   decimal.Decimal `db:"servings"`
	MealType   string          `db:"meal_type"`
	ConsumedAt *time.Time      `db:"consumed_at"`
	EntryDate  string          `db:"entry_date"`
	CreatedAt  *time.Time      `db:"created_at"`

	FID                 int             `db:"f_id"`
	FName               string          `db:"f_name"`
	FCaloriesPerServing decimal.Decimal `db:"f_calories_per_serving"`
	FProteinPerServing  decimal.Decimal `db:"f_protein_per_serving"`
	FCarbsPerServing    decimal.Decimal `db:"f_carbs_per_serving"`
	FFatPerServing      decimal.Decimal `db:"f_fat_per_serving"`
	FIsCommon           bool            `db:"f_is_common"`
	FCreatedAt          *time.Time      `db:"f_created_at"`
}

func (r entryFoodRow) toEntryWithFood() foodEntryWithFood {
	return foodEntryWithFood{
		foodEntry: foodEntry{
			ID:         r.ID,
			UserID:     r.UserID,
			FoodID:     r.FoodID,
			Servings:   r.Servings,
			MealType:   r.MealType,
			ConsumedAt: r.ConsumedAt,
			EntryDate:  r.EntryDate,
			CreatedAt:  r.CreatedAt,
		},
		Food: food{
			ID:                 r.FID,
			Name:               r.FName,
			CaloriesPerServing: r.FCaloriesPerServing,
			ProteinPerServing:  r.FProteinPerServing,
			CarbsPerServing:    r.FCarbsPerServing,
			FatPerServing:      r.FFatPerServing,
			IsCommon:           r.FIsCommon,
			CreatedAt:          r.FCreatedAt,
		},
	}
}

// dailyStats is the response shape for GET /api/stats/daily — summed macro
// totals for one user on one date, rounded to integers once at the end.
type dailyStats struct {
	Date     string `json:"date"`
	Calories int64  `json:"calories"`
	Protein  int64  `json:"protein"`
	Carbs    int64  `json:"carbs"`
	Fat      int64  `json:"fat"`
}

// weeklyProgress is one element of the GET /api/stats/weekly response: the
// day's calorie total as a percentage of the daily calorie goal. Dates with
// no entries are absent from the list, not zero-filled.
type weeklyProgress struct {
	Date       string `json:"date"`
	Calories   int64  `json:"calories"`
	Percentage int64  `json:"percentage"`
}

// dailyCalorieRow is the shape of each row from the weekly GROUP BY query.
type dailyCalorieRow struct {
	EntryDate string          `db:"entry_date"`
	Calories  decimal.Decimal `db:"calories"`
}

/* ─── Request bodies ─────────────────────────────────────────────────── */

// createFoodRequest is the body for POST /api/foods. CaloriesPerServing is a
// pointer so a missing field is distinguishable from an explicit zero;
// omitted optional macros default to 0.
type createFoodRequest struct {
	Name               string           `json:"name"`
	CaloriesPerServing *decimal.Decimal `json:"caloriesPerServing"`
	ProteinPerServing  *decimal.Decimal `json:"proteinPerServing"`
	CarbsPerServing    *decimal.Decimal `json:"carbsPerServing"`
	FatPerServing      *decimal.Decimal `json:"fatPerServing"`
	IsCommon           bool             `json:"isCommon"`
}

// upsertGoalsRequest is the body for POST /api/goals. The userId is injected
// from the authenticated identity, never taken from the body.
type upsertGoalsRequest struct {
	DailyCalories int    `json:"dailyCalories"`
	DailyProtein  int    `json:"dailyProtein"`
	DailyCarbs    int    `json:"dailyCarbs"`
	DailyFat      int    `json:"dailyFat"`
	WeightGoal    string `json:"weightGoal"`
}

// createFoodEntryRequest is the body for POST /api/food-entries.
type createFoodEntryRequest struct {
	FoodID     int              `json:"foodId"`
	Servings   *decimal.Decimal `json:"servings"`
	MealType   string           `json:"mealType"`
	ConsumedAt *time.Time       `json:"consumedAt"`
	EntryDate  string           `json:"entryDate"`
}

// updateFoodEntryRequest is the body for PATCH /api/food-entries/:id.
// All fields are pointers — only non-nil fields get written to the database.
type updateFoodEntryRequest struct {
	FoodID     *int             `json:"foodId"`
	Servings   *decimal.Decimal `json:"servings"`
	MealType   *string          `json:"mealType"`
	ConsumedAt *time.Time       `json:"consumedAt"`
	EntryDate  *string          `json:"entryDate"`
}
