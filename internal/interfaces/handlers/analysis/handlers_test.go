package analysis

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	analysissvc "proforma-backend/internal/application/analysis"
	"proforma-backend/internal/cache"
	"proforma-backend/internal/engine"
	"proforma-backend/internal/infrastructure/database"
	"proforma-backend/internal/params"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAnalysisHandlers(t *testing.T) *Handlers {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	svc := &analysissvc.Service{
		DB:       db,
		Cache:    &cache.ResultCache{Rdb: rdb, TTL: time.Minute},
		Snapshot: params.Default(),
		Metrics:  engine.DefaultConfig(),
	}
	return &Handlers{Service: svc}
}

func analysisApp(h *Handlers) *fiber.App {
	app := fiber.New()
	app.Post("/analysis/run", h.Run)
	app.Get("/analysis/:id", h.Get)
	return app
}

func validBody() map[string]interface{} {
	return map[string]interface{}{
		"property": map[string]interface{}{
			"residential":    map[string]interface{}{"units": 24, "monthly_rent": 2500},
			"location_code":  "US-TX-AUS",
			"purchase_price": 2500000,
			"horizon_years":  6,
		},
		"assumptions": map[string]interface{}{
			"name":                "base",
			"interest_rate":       []float64{0.06},
			"cap_rate":            []float64{0.06},
			"vacancy_rate":        []float64{0.05},
			"rent_growth_rate":    []float64{0.03},
			"expense_growth_rate": []float64{0.02},
			"appreciation_rate":   []float64{0.03},
			"ltv_ratio":           0.75,
			"closing_cost_pct":    0.03,
			"lender_reserves_pct": 0.10,
		},
	}
}

func TestRun_ReturnsMetrics(t *testing.T) {
	app := analysisApp(setupAnalysisHandlers(t))

	body, _ := json.Marshal(validBody())
	req := httptest.NewRequest("POST", "/analysis/run", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 10_000)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "success", result["status"])
	data, _ := result["data"].(map[string]interface{})
	require.NotNil(t, data)
	metrics, _ := data["metrics"].(map[string]interface{})
	require.NotNil(t, metrics)
	assert.Contains(t, metrics, "npv")
	assert.Contains(t, metrics, "recommendation")
}

func TestRun_ValidationErrorIs400WithField(t *testing.T) {
	app := analysisApp(setupAnalysisHandlers(t))

	body := validBody()
	body["assumptions"].(map[string]interface{})["vacancy_rate"] = []float64{1.5}
	b, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/analysis/run", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 10_000)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	errObj, _ := result["error"].(map[string]interface{})
	require.NotNil(t, errObj)
	details, _ := errObj["details"].(map[string]interface{})
	assert.Equal(t, "vacancy_rate", details["field"])
}

func TestRun_MalformedBodyIs400(t *testing.T) {
	app := analysisApp(setupAnalysisHandlers(t))

	req := httptest.NewRequest("POST", "/analysis/run", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGet_RoundTripAndNotFound(t *testing.T) {
	h := setupAnalysisHandlers(t)
	app := analysisApp(h)

	body, _ := json.Marshal(validBody())
	req := httptest.NewRequest("POST", "/analysis/run", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 10_000)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var runResult map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&runResult))
	data, _ := runResult["data"].(map[string]interface{})
	id, _ := data["analysis_id"].(string)
	require.NotEmpty(t, id)

	resp, err = app.Test(httptest.NewRequest("GET", "/analysis/"+id, nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/analysis/"+uuid.New().String(), nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/analysis/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
