package main

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEntryRoutes(h *Handler) *gin.Engine {
	router := newTestRouter()
	router.GET("/api/food-entries", asUser(testUserID), h.getFoodEntries)
	router.POST("/api/food-entries", asUser(testUserID), h.createFoodEntry)
	router.PATCH("/api/food-entries/:id", asUser(testUserID), h.updateFoodEntry)
	router.DELETE("/api/food-entries/:id", asUser(testUserID), h.deleteFoodEntry)
	return router
}

// addJoinedEntry appends one joined entry row: `servings` of a 500-calorie
// food on the given date.
func addJoinedEntry(rows *pgxmock.Rows, id int, servings, date string) *pgxmock.Rows {
	return rows.AddRow(
		id, testUserID, 10, decimal.RequireFromString(servings), "lunch",
		&testTime, date, &testTime,
		10, "Burrito", decimal.NewFromInt(500), decimal.NewFromInt(20),
		decimal.NewFromInt(55), decimal.NewFromInt(18), false, &testTime,
	)
}

func TestGetFoodEntries_DateValidation(t *testing.T) {
	h := &Handler{}
	router := setupEntryRoutes(h)

	for _, path := range []string{"/api/food-entries", "/api/food-entries?date=notadate"} {
		w := doRequest(router, "GET", path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "path %s", path)
	}
}

// TestGetFoodEntries_JoinedMostRecentFirst verifies the join projection and
// the consumed_at DESC ordering clause, and that the joined food rides along
// on each entry.
func TestGetFoodEntries_JoinedMostRecentFirst(t *testing.T) {
	mock := newMockPool(t)
	h := &Handler{db: mock}
	router := setupEntryRoutes(h)

	rows := addJoinedEntry(entryWithFoodRows(), 2, "1.5", "2024-01-01")
	rows = addJoinedEntry(rows, 1, "1", "2024-01-01")
	mock.ExpectQuery(`(?s)JOIN foods f ON f.id = e.food_id.*ORDER BY e.consumed_at DESC`).
		WithArgs(testUserID, "2024-01-01").
		WillReturnRows(rows)

	w := doRequest(router, "GET", "/api/food-entries?date=2024-01-01", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var entries []foodEntryWithFood
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[0].ID)
	assert.Equal(t, "Burrito", entries[0].Food.Name)
	assert.Equal(t, "2024-01-01", entries[0].EntryDate)
	assert.True(t, entries[0].Servings.Equal(decimal.RequireFromString("1.5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFoodEntries_EmptyResultIsArray(t *testing.T) {
	mock := newMockPool(t)
	h := &Handler{db: mock}
	router := setupEntryRoutes(h)

	mock.ExpectQuery("FROM food_entries e").
		WithArgs(testUserID, "2024-01-01").
		WillReturnRows(entryWithFoodRows())

	w := doRequest(router, "GET", "/api/food-entries?date=2024-01-01", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestCreateFoodEntry_Validation(t *testing.T) {
	h := &Handler{}
	router := setupEntryRoutes(h)

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing foodId", `{"servings":"1","mealType":"lunch","entryDate":"2024-01-01"}`},
		{"missing servings", `{"foodId":1,"mealType":"lunch","entryDate":"2024-01-01"}`},
		{"zero servings", `{"foodId":1,"servings":"0","mealType":"lunch","entryDate":"2024-01-01"}`},
		{"unknown meal type", `{"foodId":1,"servings":"1","mealType":"brunch","entryDate":"2024-01-01"}`},
		{"bad entry date", `{"foodId":1,"servings":"1","mealType":"lunch","entryDate":"Jan 1"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(router, "POST", "/api/food-entries", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

// TestCreateFoodEntry_RoundTrip verifies 201 plus field fidelity: the created
// row comes back with the caller's servings, meal type, and day bucket.
func TestCreateFoodEntry_RoundTrip(t *testing.T) {
	mock := newMockPool(t)
	h := &Handler{db: mock}
	router := setupEntryRoutes(h)

	mock.ExpectQuery("INSERT INTO food_entries").
		WithArgs(testUserID, 10, pgxmock.AnyArg(), "dinner", pgxmock.AnyArg(), "2024-01-01").
		WillReturnRows(entryRows().
		AddRow(7, testUserID, 10, decimal.RequireFromString("1.5"), "dinner",
			&testTime, "2024-01-01", &testTime))

	w := doRequest(router, "POST", "/api/food-entries",
		`{"foodId":10,"servings":"1.5","mealType":"dinner","entryDate":"2024-01-01"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var e foodEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.Equal(t, 7, e.ID)
	assert.Equal(t, testUserID, e.UserID)
	assert.Equal(t, 10, e.FoodID)
	assert.Equal(t, "dinner", e.MealType)
	assert.Equal(t, "2024-01-01", e.EntryDate)
	assert.True(t, e.Servings.Equal(decimal.RequireFromString("1.5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFoodEntry_BadID(t *testing.T) {
	h := &Handler{}
	router := setupEntryRoutes(h)

	w := doRequest(router, "PATCH", "/api/food-entries/abc", `{"servings":"2"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestUpdateFoodEntry_ScopedToOwner verifies the UPDATE matches on both id
// and user_id, so a guessed id belonging to another user updates nothing and
// reports 404.
func TestUpdateFoodEntry_ScopedToOwner(t *testing.T) {
	mock := newMockPool(t)
	h := &Handler{db: mock}
	router := setupEntryRoutes(h)

	mock.ExpectQuery(`(?s)UPDATE food_entries SET.*WHERE id = @id AND user_id = @userID`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), 999, testUserID).
		WillReturnRows(entryRows())

	w := doRequest(router, "PATCH", "/api/food-entries/999", `{"servings":"2"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFoodEntry_PartialUpdate(t *testing.T) {
	mock := newMockPool(t)
	h := &Handler{db: mock}
	router := setupEntryRoutes(h)

	mock.ExpectQuery("UPDATE food_entries SET").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), 7, testUserID).
		WillReturnRows(entryRows().
		AddRow(7, testUserID, 10, decimal.NewFromInt(2), "dinner",
			&testTime, "2024-01-01", &testTime))

	w := doRequest(router, "PATCH", "/api/food-entries/7", `{"servings":"2"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var e foodEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.True(t, e.Servings.Equal(decimal.NewFromInt(2)))
}

func TestUpdateFoodEntry_Validation(t *testing.T) {
	h := &Handler{}
	router := setupEntryRoutes(h)

	cases := []struct {
		name string
		body string
	}{
		{"unknown meal type", `{"mealType":"brunch"}`},
		{"zero servings", `{"servings":"0"}`},
		{"bad entry date", `{"entryDate":"01/02/2024"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(router, "PATCH", "/api/food-entries/7", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestDeleteFoodEntry_NoContent(t *testing.T) {
	mock := newMockPool(t)
	h := &Handler{db: mock}
	router := setupEntryRoutes(h)

	mock.ExpectExec("DELETE FROM food_entries").
		WithArgs(7, testUserID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	w := doRequest(router, "DELETE", "/api/food-entries/7", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestDeleteFoodEntry_NotFound pins the chosen delete semantics: deleting an
// id that matched no owned row is 404, not silent success.
func TestDeleteFoodEntry_NotFound(t *testing.T) {
	mock := newMockPool(t)
	h := &Handler{db: mock}
	router := setupEntryRoutes(h)

	mock.ExpectExec("DELETE FROM food_entries").
		WithArgs(999, testUserID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	w := doRequest(router, "DELETE", "/api/food-entries/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
