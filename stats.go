package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// sumDailyStats folds a day's entries into macro totals. Each entry
// contributes servings × per-serving value, summed at full decimal precision;
// each total is rounded exactly once at the end, half away from zero.
// Rounding per entry first would accumulate error across the day.
func sumDailyStats(date string, entries []foodEntryWithFood) dailyStats {
	var calories, protein, carbs, fat decimal.Decimal
	for _, e := range entries {
		calories = calories.Add(e.Servings.Mul(e.Food.CaloriesPerServing))
		protein = protein.Add(e.Servings.Mul(e.Food.ProteinPerServing))
		carbs = carbs.Add(e.Servings.Mul(e.Food.CarbsPerServing))
		fat = fat.Add(e.Servings.Mul(e.Food.FatPerServing))
	}
	return dailyStats{
		Date:     date,
		Calories: calories.Round(0).IntPart(),
		Protein:  protein.Round(0).IntPart(),
		Carbs:    carbs.Round(0).IntPart(),
		Fat:      fat.Round(0).IntPart(),
	}
}

// goalPercentage returns round(100 × calories / goal). A non-positive goal
// yields 0 rather than a division panic.
func goalPercentage(calories decimal.Decimal, goal int) int64 {
	if goal <= 0 {
		return 0
	}
	return calories.
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(goal))).
		Round(0).
		IntPart()
}

// getDailyStats returns summed macro totals for the authenticated user on one
// date. GET /api/stats/daily?date=YYYY-MM-DD.
func (h *Handler) getDailyStats(c *gin.Context) {
	userID := c.GetString("user_id")
	date := c.Query("date")

	if date == "" {
		apiError(c, http.StatusBadRequest, "date query param is required")
		return
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	entries, err := h.fetchEntriesForDate(c, userID, date)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch daily stats")
		return
	}

	c.JSON(http.StatusOK, sumDailyStats(date, entries))
}

// getWeeklyStats returns per-day calorie totals over [startDate, endDate]
// inclusive, each expressed as a percentage of the user's daily calorie goal
// (2000 when no goals row exists). Only dates with at least one entry appear.
// GET /api/stats/weekly?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD.
func (h *Handler) getWeeklyStats(c *gin.Context) {
	userID := c.GetString("user_id")
	start := c.Query("startDate")
	end := c.Query("endDate")

	if start == "" || end == "" {
		apiError(c, http.StatusBadRequest, "startDate and endDate query params are required")
		return
	}
	if _, err := time.Parse("2006-01-02", start); err != nil {
		apiError(c, http.StatusBadRequest, "invalid startDate, expected YYYY-MM-DD")
		return
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		apiError(c, http.StatusBadRequest, "invalid endDate, expected YYYY-MM-DD")
		return
	}
	if start > end {
		apiError(c, http.StatusBadRequest, "startDate must not be after endDate")
		return
	}

	// Calorie goal: the user's stored target, or the 2000-calorie default.
	calorieGoal := defaultGoals(userID).DailyCalories
	g, err := queryOne[userGoals](h.db, c,
		"SELECT * FROM user_goals WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err == nil {
		calorieGoal = g.DailyCalories
	} else if !errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusInternalServerError, "failed to fetch goals")
		return
	}

	rows, err := queryMany[dailyCalorieRow](h.db, c,
		`SELECT e.entry_date, SUM(e.servings * f.calories_per_serving) AS calories
		 FROM food_entries e
		 JOIN foods f ON f.id = e.food_id
		 WHERE e.user_id = @userID AND e.entry_date >= @start AND e.entry_date <= @end
		 GROUP BY e.entry_date
		 ORDER BY e.entry_date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start, "end": end})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch weekly stats")
		return
	}

	progress := make([]weeklyProgress, 0, len(rows))
	for _, row := range rows {
		progress = append(progress, weeklyProgress{
			Date:       row.EntryDate,
			Calories:   row.Calories.Round(0).IntPart(),
			Percentage: goalPercentage(row.Calories, calorieGoal),
		})
	}

	c.JSON(http.StatusOK, progress)
}
