package main

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

const testUserID = "user-123"

// newMockPool creates a pgxmock pool standing in for the pgxpool handle
// behind the DB interface. Expectations double as assertions on the SQL each
// handler issues.
func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return mock
}

// asUser is a stand-in for the auth middleware in handler tests — it stamps
// a fixed authenticated identity on the context.
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

// newTestRouter returns a bare gin engine in test mode.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// doRequest sends a JSON request through the router and records the response.
func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

/* ─── Row fixtures ───────────────────────────────────────────────────── */

var testTime = time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC)

// foodColumns matches the foods table / food struct db tags.
func foodRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "calories_per_serving", "protein_per_serving",
		"carbs_per_serving", "fat_per_serving", "is_common", "created_at",
	})
}

func goalRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "user_id", "daily_calories", "daily_protein", "daily_carbs",
		"daily_fat", "weight_goal", "created_at", "updated_at",
	})
}

func entryRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "user_id", "food_id", "servings", "meal_type",
		"consumed_at", "entry_date", "created_at",
	})
}

// entryWithFoodRows matches the entries-to-foods join projection.
func entryWithFoodRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "user_id", "food_id", "servings", "meal_type",
		"consumed_at", "entry_date", "created_at",
		"f_id", "f_name", "f_calories_per_serving", "f_protein_per_serving",
		"f_carbs_per_serving", "f_fat_per_serving", "f_is_common", "f_created_at",
	})
}

// calorieRows matches the weekly GROUP BY projection.
func calorieRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"entry_date", "calories"})
}

func userRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "username", "email", "password", "auth_token",
		"first_name", "last_name", "profile_image_url", "created_at", "updated_at",
	})
}
