package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fareflow/fareflow/internal/common"
	"github.com/fareflow/fareflow/internal/estimator"
	"github.com/fareflow/fareflow/internal/model"
	"github.com/fareflow/fareflow/internal/pipeline"
	"github.com/fareflow/fareflow/internal/storage"
)

func testFeatures(brand, carModel, city string) model.FeatureVector {
	return model.FeatureVector{
		Brand:        brand,
		Model:        carModel,
		PickupCity:   city,
		Seats:        5,
		PickupDow:    4,
		PickupMonth:  12,
		DropoffDow:   2,
		DropoffMonth: 12,
		CreditScore:  700,
	}
}

func trainedEstimator(t *testing.T) *estimator.Estimator {
	t.Helper()

	rows := []model.TrainingRow{
		{FeatureVector: testFeatures("Toyota", "Camry", "New York"), Price: 275},
		{FeatureVector: testFeatures("Toyota", "Camry", "Los Angeles"), Price: 165},
		{FeatureVector: testFeatures("Honda", "Civic", "New York"), Price: 220},
		{FeatureVector: testFeatures("Honda", "Civic", "Los Angeles"), Price: 385},
	}

	p := pipeline.New()
	require.NoError(t, p.Fit(rows))

	e, err := estimator.NewFromArtifact(p.Artifact("test", time.Now().UTC(), len(rows)))
	require.NoError(t, err)
	return e
}

func testStorage(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	s, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seatCount(n int) *int { return &n }

func seedCatalog(t *testing.T, s *storage.SQLiteStorage) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.SaveVehicleTypes(ctx, []model.VehicleType{
		{TypeID: 1, Brand: "Toyota", Model: "Camry", Seats: seatCount(5)},
		{TypeID: 2, Brand: "Honda", Model: "Civic", Seats: seatCount(5)},
	}))
	require.NoError(t, s.SaveLocations(ctx, []model.Location{
		{LocationID: 1, Street: "123 Main St", City: "New York", State: "NY", ZipCode: "10001", Country: "USA"},
	}))
}

func predictBody(t *testing.T, overrides map[string]any) []byte {
	t.Helper()

	body := map[string]any{
		"Brand":          "Toyota",
		"Model":          "Camry",
		"Location_City":  "New York",
		"Seats":          5,
		"Pick_Up_Day":    4,
		"Pick_Up_Month":  12,
		"Drop_Off_Day":   2,
		"Drop_Off_Month": 12,
		"Credit_Score":   700,
	}
	for k, v := range overrides {
		if v == nil {
			delete(body, k)
			continue
		}
		body[k] = v
	}

	payload, err := json.Marshal(body)
	require.NoError(t, err)
	return payload
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	srv := New(":0", trainedEstimator(t), testStorage(t))

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_PredictPrice(t *testing.T) {
	srv := New(":0", trainedEstimator(t), testStorage(t))

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/predict-price", predictBody(t, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp, "estimated_price")
}

func TestServer_PredictPriceDefaults(t *testing.T) {
	srv := New(":0", trainedEstimator(t), testStorage(t))

	// Seats and Credit_Score are optional and fall back to defaults.
	body := predictBody(t, map[string]any{"Seats": nil, "Credit_Score": nil})
	rec := doRequest(t, srv.Handler(), http.MethodPost, "/predict-price", body)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_PredictPriceErrors(t *testing.T) {
	srv := New(":0", trainedEstimator(t), testStorage(t))

	tests := []struct {
		name       string
		body       []byte
		wantStatus int
	}{
		{
			name:       "malformed json",
			body:       []byte("{not json"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing pickup day",
			body:       predictBody(t, map[string]any{"Pick_Up_Day": nil}),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing brand",
			body:       predictBody(t, map[string]any{"Brand": ""}),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown brand",
			body:       predictBody(t, map[string]any{"Brand": "BMW", "Model": "X5"}),
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv.Handler(), http.MethodPost, "/predict-price", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp, "error")
		})
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "unknown category", err: common.ErrUnknownCategory, want: http.StatusUnprocessableEntity},
		{name: "invalid input", err: common.ErrInvalidInput, want: http.StatusBadRequest},
		{name: "wrapped invalid input", err: fmt.Errorf("brand: %w", common.ErrInvalidInput), want: http.StatusBadRequest},
		{name: "estimator not loaded", err: common.ErrEstimatorNotLoaded, want: http.StatusServiceUnavailable},
		{name: "anything else", err: errors.New("disk on fire"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusForError(tt.err))
		})
	}
}

func TestServer_PredictPriceNoArtifactLoaded(t *testing.T) {
	srv := New(":0", estimator.New(), testStorage(t))

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/predict-price", predictBody(t, nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_CarTypes(t *testing.T) {
	store := testStorage(t)
	seedCatalog(t, store)
	srv := New(":0", trainedEstimator(t), store)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/car-types", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, "Toyota", summaries[0]["Brand"])

	rec = doRequest(t, srv.Handler(), http.MethodGet, "/car-types/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Toyota Camry", resp["type"])

	rec = doRequest(t, srv.Handler(), http.MethodGet, "/car-types/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_CarTypesEmptyCatalog(t *testing.T) {
	srv := New(":0", trainedEstimator(t), testStorage(t))

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/car-types", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Locations(t *testing.T) {
	store := testStorage(t)
	seedCatalog(t, store)
	srv := New(":0", trainedEstimator(t), store)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/locations", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "New York", summaries[0]["City"])

	rec = doRequest(t, srv.Handler(), http.MethodGet, "/locations/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["location"], "New York")

	rec = doRequest(t, srv.Handler(), http.MethodGet, "/locations/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
