package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// validWeightGoals is the set of allowed values for the weight_goal column.
// Reject unknown values with 400 rather than letting the DB return a cryptic 500.
var validWeightGoals = map[string]bool{
	"lose":     true,
	"maintain": true,
	"gain":     true,
}

// getGoals returns the authenticated user's daily goals, falling back to the
// hardcoded defaults when no row exists. The fallback is presentation only —
// reading goals never writes a row.
// GET /api/goals.
func (h *Handler) getGoals(c *gin.Context) {
	userID := c.GetString("user_id")

	g, err := queryOne[userGoals](h.db, c,
		"SELECT * FROM user_goals WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusOK, defaultGoals(userID))
			return
		}
		apiError(c, http.StatusInternalServerError, "failed to fetch goals")
		return
	}

	c.JSON(http.StatusOK, g)
}

// upsertGoals creates or replaces the user's goals row in a single statement.
// The UNIQUE(user_id) constraint plus ON CONFLICT keeps at most one row per
// user even under concurrent writers — never read-then-branch here.
// POST /api/goals.
func (h *Handler) upsertGoals(c *gin.Context) {
	userID := c.GetString("user_id")

	var body upsertGoalsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.DailyCalories <= 0 {
		apiError(c, http.StatusBadRequest, "dailyCalories must be a positive integer")
		return
	}
	if body.DailyProtein < 0 || body.DailyCarbs < 0 || body.DailyFat < 0 {
		apiError(c, http.StatusBadRequest, "macro goals must not be negative")
		return
	}
	if body.WeightGoal == "" {
		body.WeightGoal = "maintain"
	}
	if !validWeightGoals[body.WeightGoal] {
		apiError(c, http.StatusBadRequest, "weightGoal must be one of: lose, maintain, gain")
		return
	}

	g, err := queryOne[userGoals](h.db, c,
		`INSERT INTO user_goals (user_id, daily_calories, daily_protein, daily_carbs, daily_fat, weight_goal)
		 VALUES (@userID, @dailyCalories, @dailyProtein, @dailyCarbs, @dailyFat, @weightGoal)
		 ON CONFLICT (user_id) DO UPDATE SET
			daily_calories = EXCLUDED.daily_calories,
			daily_protein  = EXCLUDED.daily_protein,
			daily_carbs    = EXCLUDED.daily_carbs,
			daily_fat      = EXCLUDED.daily_fat,
			weight_goal    = EXCLUDED.weight_goal,
			updated_at     = now()
		 RETURNING *`,
		pgx.NamedArgs{
			"userID":        userID,
			"dailyCalories": body.DailyCalories,
			"dailyProtein":  body.DailyProtein,
			"dailyCarbs":    body.DailyCarbs,
			"dailyFat":      body.DailyFat,
			"weightGoal":    body.WeightGoal,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save goals")
		return
	}

	c.JSON(http.StatusOK, g)
}
