package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// validMealTypes is the set of allowed values for the meal_type column.
// Reject unknown values with 400 rather than letting the DB return a cryptic 500.
var validMealTypes = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snack":     true,
}

// entryWithFoodSelect joins entries to their foods. Food columns are aliased
// with an f_ prefix so the flat scan struct has unambiguous names.
const entryWithFoodSelect = `
	SELECT
		e.id, e.user_id, e.food_id, e.servings, e.meal_type,
		e.consumed_at, e.entry_date, e.created_at,
		f.id AS f_id, f.name AS f_name,
		f.calories_per_serving AS f_calories_per_serving,
		f.protein_per_serving  AS f_protein_per_serving,
		f.carbs_per_serving    AS f_carbs_per_serving,
		f.fat_per_serving      AS f_fat_per_serving,
		f.is_common AS f_is_common, f.created_at AS f_created_at
	FROM food_entries e
	JOIN foods f ON f.id = e.food_id`

// fetchEntriesForDate returns one user's entries for an exact entry_date,
// joined with their foods, most recently consumed first. Shared between the
// food-entries endpoint and the daily stats aggregator.
func (h *Handler) fetchEntriesForDate(c *gin.Context, userID, date string) ([]foodEntryWithFood, error) {
	rows, err := queryMany[entryFoodRow](h.db, c,
		entryWithFoodSelect+`
	WHERE e.user_id = @userID AND e.entry_date = @date
	ORDER BY e.consumed_at DESC`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		return nil, err
	}

	entries := make([]foodEntryWithFood, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.toEntryWithFood())
	}
	return entries, nil
}

// getFoodEntries returns the user's entries for a given date with the joined
// food on each. GET /api/food-entries?date=YYYY-MM-DD.
func (h *Handler) getFoodEntries(c *gin.Context) {
	userID := c.GetString("user_id")
	date := c.Query("date")

	if date == "" {
		apiError(c, http.StatusBadRequest, "date query param is required")
		return
	}
	// Validate date format before querying — an invalid value silently returns no rows.
	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	entries, err := h.fetchEntriesForDate(c, userID, date)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch food entries")
		return
	}

	c.JSON(http.StatusOK, entries)
}

// createFoodEntry inserts a new consumption entry. A dangling foodId is left
// to the foreign key, which rejects it at the store. consumedAt defaults to
// now; entryDate is the caller's day bucket, not derived from consumedAt.
// POST /api/food-entries.
func (h *Handler) createFoodEntry(c *gin.Context) {
	userID := c.GetString("user_id")

	var body createFoodEntryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.FoodID <= 0 {
		apiError(c, http.StatusBadRequest, "foodId is required")
		return
	}
	if body.Servings == nil || body.Servings.LessThanOrEqual(decimal.Zero) {
		apiError(c, http.StatusBadRequest, "servings must be a positive number")
		return
	}
	if !validMealTypes[body.MealType] {
		apiError(c, http.StatusBadRequest, "mealType must be one of: breakfast, lunch, dinner, snack")
		return
	}
	if _, err := time.Parse("2006-01-02", body.EntryDate); err != nil {
		apiError(c, http.StatusBadRequest, "invalid entryDate, expected YYYY-MM-DD")
		return
	}

	entry, err := queryOne[foodEntry](h.db, c,
		`INSERT INTO food_entries (user_id, food_id, servings, meal_type, consumed_at, entry_date)
		 VALUES (@userID, @foodID, @servings, @mealType, COALESCE(@consumedAt, now()), @entryDate)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "foodID": body.FoodID, "servings": *body.Servings,
			"mealType": body.MealType, "consumedAt": body.ConsumedAt,
			"entryDate": body.EntryDate,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create food entry")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// updateFoodEntry partially updates an entry the user owns.
// PATCH /api/food-entries/:id. Uses COALESCE so omitted fields keep their
// current value. Requiring both id and user_id to match stops one user from
// editing another user's entry by guessing ids.
func (h *Handler) updateFoodEntry(c *gin.Context) {
	userID := c.GetString("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid entry id")
		return
	}

	var body updateFoodEntryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.MealType != nil && !validMealTypes[*body.MealType] {
		apiError(c, http.StatusBadRequest, "mealType must be one of: breakfast, lunch, dinner, snack")
		return
	}
	if body.Servings != nil && body.Servings.LessThanOrEqual(decimal.Zero) {
		apiError(c, http.StatusBadRequest, "servings must be a positive number")
		return
	}
	if body.EntryDate != nil {
		if _, err := time.Parse("2006-01-02", *body.EntryDate); err != nil {
			apiError(c, http.StatusBadRequest, "invalid entryDate, expected YYYY-MM-DD")
			return
		}
	}

	entry, err := queryOne[foodEntry](h.db, c,
		`UPDATE food_entries SET
			food_id     = COALESCE(@foodID, food_id),
			servings    = COALESCE(@servings, servings),
			meal_type   = COALESCE(@mealType, meal_type),
			consumed_at = COALESCE(@consumedAt, consumed_at),
			entry_date  = COALESCE(@entryDate, entry_date)
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{
			"id": id, "userID": userID,
			"foodID": body.FoodID, "servings": body.Servings,
			"mealType": body.MealType, "consumedAt": body.ConsumedAt,
			"entryDate": body.EntryDate,
		})
	if err != nil {
		// ErrNoRows means no row matched both id and user_id.
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "food entry not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to update food entry")
		}
		return
	}

	c.JSON(http.StatusOK, entry)
}

// deleteFoodEntry removes an entry the user owns. Returns 204 on success and
// 404 when nothing matched — deleting an id that does not exist (or belongs
// to someone else) is reported, not silently swallowed.
// DELETE /api/food-entries/:id.
func (h *Handler) deleteFoodEntry(c *gin.Context) {
	userID := c.GetString("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid entry id")
		return
	}

	result, err := h.db.Exec(c,
		"DELETE FROM food_entries WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete food entry")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "food entry not found")
		return
	}

	c.Status(http.StatusNoContent)
}
