package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// likeEscaper quotes the LIKE metacharacters so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps q for a substring ILIKE match.
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

// searchFoods returns catalog foods whose name contains the query, common
// foods first, capped at 20. Ties within the common/non-common partition
// keep catalog insertion order.
// GET /api/foods/search?q=<substring>.
func (h *Handler) searchFoods(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		apiError(c, http.StatusBadRequest, "q query param is required")
		return
	}

	foods, err := queryMany[food](h.db, c,
		`SELECT * FROM foods
		 WHERE name ILIKE @pattern
		 ORDER BY is_common DESC, id ASC
		 LIMIT 20`,
		pgx.NamedArgs{"pattern": likePattern(q)})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to search foods")
		return
	}
	// Ensure foods is an empty array (not null) in JSON
	if foods == nil {
		foods = []food{}
	}

	c.JSON(http.StatusOK, foods)
}

// getCommonFoods returns up to 10 foods flagged for prioritized display,
// ordered alphabetically. GET /api/foods/common.
func (h *Handler) getCommonFoods(c *gin.Context) {
	foods, err := queryMany[food](h.db, c,
		`SELECT * FROM foods
		 WHERE is_common = true
		 ORDER BY name ASC
		 LIMIT 10`, nil)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch common foods")
		return
	}
	if foods == nil {
		foods = []food{}
	}

	c.JSON(http.StatusOK, foods)
}

// createFood inserts a new catalog food. Duplicate names are permitted;
// foods are immutable once created (no update or delete endpoints exist).
// POST /api/foods.
func (h *Handler) createFood(c *gin.Context) {
	var body createFoodRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		apiError(c, http.StatusBadRequest, "name is required")
		return
	}
	if body.CaloriesPerServing == nil {
		apiError(c, http.StatusBadRequest, "caloriesPerServing is required")
		return
	}

	// Optional macros default to 0.
	orZero := func(d *decimal.Decimal) decimal.Decimal {
		if d == nil {
			return decimal.Zero
		}
		return *d
	}

	f, err := queryOne[food](h.db, c,
		`INSERT INTO foods (name, calories_per_serving, protein_per_serving, carbs_per_serving, fat_per_serving, is_common)
		 VALUES (@name, @calories, @protein, @carbs, @fat, @isCommon)
		 RETURNING *`,
		pgx.NamedArgs{
			"name": body.Name, "calories": *body.CaloriesPerServing,
			"protein": orZero(body.ProteinPerServing), "carbs": orZero(body.CarbsPerServing),
			"fat": orZero(body.FatPerServing), "isCommon": body.IsCommon,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create food")
		return
	}

	c.JSON(http.StatusCreated, f)
}

// getFoodByID fetches one catalog food. Not routed — used by tooling and tests.
func (h *Handler) getFoodByID(c *gin.Context, id int) (food, error) {
	return queryOne[food](h.db, c,
		"SELECT * FROM foods WHERE id = @id",
		pgx.NamedArgs{"id": id})
}
