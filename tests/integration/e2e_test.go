//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odimsom/managemymoney-backend/internal/adapter/repository/postgres"
)

var (
	db       *postgres.DB
	baseURL  string
	apiToken string
)

// TestMain sets up the test environment
func TestMain(m *testing.M) {
	dbConnStr := getEnv("TEST_DB_CONN_STR",
		"host=localhost port=5432 user=postgres password=postgres dbname=managemymoney_test sslmode=disable")
	baseURL = getEnv("TEST_API_URL", "http://localhost:8080")
	apiToken = getEnv("TEST_API_TOKEN", "dev-token")

	var err error
	db, err = postgres.NewDB(dbConnStr)
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		panic(fmt.Sprintf("Failed to run migrations: %v", err))
	}

	os.Exit(m.Run())
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func apiCall(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, baseURL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if resp.ContentLength != 0 {
		json.NewDecoder(resp.Body).Decode(&decoded)
	}
	return resp, decoded
}

func TestBudgetLifecycle(t *testing.T) {
	userID := uuid.NewString()

	resp, created := apiCall(t, http.MethodPost, "/api/v1/budgets", map[string]any{
		"name":       "Integration Groceries",
		"limit":      "500",
		"currency":   "USD",
		"period":     "MONTHLY",
		"user_id":    userID,
		"start_date": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		"end_date":   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	budgetID := created["id"].(string)

	resp, spent := apiCall(t, http.MethodPost, "/api/v1/budgets/"+budgetID+"/spend", map[string]any{
		"amount":   "420",
		"currency": "USD",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "84", spent["percentage_used"])

	// Currency mismatch must not change persisted state
	resp, _ = apiCall(t, http.MethodPost, "/api/v1/budgets/"+budgetID+"/spend", map[string]any{
		"amount":   "10",
		"currency": "EUR",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, fetched := apiCall(t, http.MethodGet, "/api/v1/budgets/"+budgetID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	spentDTO := fetched["spent"].(map[string]any)
	assert.Equal(t, "420", spentDTO["amount"])

	resp, _ = apiCall(t, http.MethodPost, "/api/v1/budgets/"+budgetID+"/deactivate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = apiCall(t, http.MethodPost, "/api/v1/budgets/"+budgetID+"/deactivate", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestGoalCompletionRoundTrip(t *testing.T) {
	userID := uuid.NewString()

	resp, created := apiCall(t, http.MethodPost, "/api/v1/goals", map[string]any{
		"name":     "Integration Emergency Fund",
		"target":   "100",
		"currency": "USD",
		"user_id":  userID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	goalID := created["id"].(string)

	resp, completed := apiCall(t, http.MethodPost, "/api/v1/goals/"+goalID+"/contributions", map[string]any{
		"amount":   "100",
		"currency": "USD",
		"date":     time.Now().UTC(),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "COMPLETED", completed["status"])

	// Withdrawal below the target reverts completion
	resp, reverted := apiCall(t, http.MethodPost, "/api/v1/goals/"+goalID+"/withdrawals", map[string]any{
		"amount":   "30",
		"currency": "USD",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ACTIVE", reverted["status"])
	assert.Nil(t, reverted["completed_at"])

	resp, progress := apiCall(t, http.MethodGet, "/api/v1/goals/"+goalID+"/progress", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "70", progress["progress_percentage"])
}

func TestRecurringExpenseSchedule(t *testing.T) {
	userID := uuid.NewString()

	resp, created := apiCall(t, http.MethodPost, "/api/v1/recurring/expenses", map[string]any{
		"name":        "Integration Rent",
		"amount":      "1200",
		"currency":    "USD",
		"recurrence":  "MONTHLY",
		"day_of_month": 15,
		"category_id": uuid.NewString(),
		"account_id":  uuid.NewString(),
		"user_id":     userID,
		"start_date":  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotNil(t, created["next_due_date"])
	expenseID := created["id"].(string)

	resp, paused := apiCall(t, http.MethodPost, "/api/v1/recurring/expenses/"+expenseID+"/pause", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, paused["is_active"])

	resp, resumed := apiCall(t, http.MethodPost, "/api/v1/recurring/expenses/"+expenseID+"/resume", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, resumed["is_active"])
	assert.NotNil(t, resumed["next_due_date"])
}
