// Package server exposes the estimation service and catalog reads over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/fareflow/fareflow/internal/common"
	"github.com/fareflow/fareflow/internal/model"
	"github.com/fareflow/fareflow/internal/service"
)

// Defaults applied to optional prediction request fields.
const (
	defaultSeats       = 4
	defaultCreditScore = 700
)

// Server routes prediction and catalog requests to the core services.
type Server struct {
	predictor  service.PricePredictor
	storage    service.Storage
	httpServer *http.Server
}

// New creates an HTTP server bound to the given address.
func New(addr string, predictor service.PricePredictor, storage service.Storage) *Server {
	s := &Server{
		predictor: predictor,
		storage:   storage,
	}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/predict-price", s.handlePredictPrice).Methods(http.MethodPost)
	router.HandleFunc("/car-types", s.handleListCarTypes).Methods(http.MethodGet)
	router.HandleFunc("/car-types/{id:[0-9]+}", s.handleGetCarType).Methods(http.MethodGet)
	router.HandleFunc("/locations", s.handleListLocations).Methods(http.MethodGet)
	router.HandleFunc("/locations/{id:[0-9]+}", s.handleGetLocation).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves requests until the context is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		slog.Info("HTTP server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// predictRequest mirrors the JSON contract of the /predict-price endpoint.
// Field names match the historical API; optional fields are pointers so
// absent and zero are distinguishable.
type predictRequest struct {
	Seats        *float64 `json:"Seats"`
	PickUpDay    *float64 `json:"Pick_Up_Day"`
	PickUpMonth  *float64 `json:"Pick_Up_Month"`
	DropOffDay   *float64 `json:"Drop_Off_Day"`
	DropOffMonth *float64 `json:"Drop_Off_Month"`
	CreditScore  *float64 `json:"Credit_Score"`
	Brand        string   `json:"Brand"`
	Model        string   `json:"Model"`
	LocationCity string   `json:"Location_City"`
}

func (r *predictRequest) toFeatureVector() (model.FeatureVector, error) {
	fv := model.FeatureVector{
		Brand:       r.Brand,
		Model:       r.Model,
		PickupCity:  r.LocationCity,
		Seats:       defaultSeats,
		CreditScore: defaultCreditScore,
	}

	required := map[string]*float64{
		"Pick_Up_Day":    r.PickUpDay,
		"Pick_Up_Month":  r.PickUpMonth,
		"Drop_Off_Day":   r.DropOffDay,
		"Drop_Off_Month": r.DropOffMonth,
	}
	for name, value := range required {
		if value == nil {
			return fv, fmt.Errorf("%w: %s is required", common.ErrInvalidInput, name)
		}
	}

	fv.PickupDow = *r.PickUpDay
	fv.PickupMonth = *r.PickUpMonth
	fv.DropoffDow = *r.DropOffDay
	fv.DropoffMonth = *r.DropOffMonth
	if r.Seats != nil {
		fv.Seats = *r.Seats
	}
	if r.CreditScore != nil {
		fv.CreditScore = *r.CreditScore
	}

	return fv, nil
}

func (s *Server) handlePredictPrice(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: malformed JSON body", common.ErrInvalidInput))
		return
	}

	fv, err := req.toFeatureVector()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.predictor.Predict(fv)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]float64{"estimated_price": result.EstimatedPrice})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// carTypeSummary is the list-endpoint projection of a vehicle type.
type carTypeSummary struct {
	Brand  string `json:"Brand"`
	Model  string `json:"Model"`
	TypeID int64  `json:"TypeId"`
}

func (s *Server) handleListCarTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.storage.FetchVehicleTypes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if len(types) == 0 {
		writeError(w, http.StatusNotFound, errors.New("no car types found"))
		return
	}

	summaries := make([]carTypeSummary, len(types))
	for i, vt := range types {
		summaries[i] = carTypeSummary{TypeID: vt.TypeID, Brand: vt.Brand, Model: vt.Model}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetCarType(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: invalid car type id", common.ErrInvalidInput))
		return
	}

	vt, err := s.storage.GetVehicleType(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, errors.New("car type not found"))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"type": fmt.Sprintf("%s %s", vt.Brand, vt.Model)})
}

func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := s.storage.FetchLocations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if len(locations) == 0 {
		writeError(w, http.StatusNotFound, errors.New("no locations found"))
		return
	}

	type locationSummary struct {
		Street  string `json:"Street"`
		City    string `json:"City"`
		State   string `json:"State"`
		ZipCode string `json:"ZipCode"`
		Country string `json:"Country"`
		ID      int64  `json:"Id"`
	}
	summaries := make([]locationSummary, len(locations))
	for i, loc := range locations {
		summaries[i] = locationSummary{
			ID: loc.LocationID, Street: loc.Street, City: loc.City,
			State: loc.State, ZipCode: loc.ZipCode, Country: loc.Country,
		}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: invalid location id", common.ErrInvalidInput))
		return
	}

	loc, err := s.storage.GetLocation(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, errors.New("location not found"))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"location": fmt.Sprintf("%s, %s, %s %s", loc.Street, loc.City, loc.State, loc.ZipCode),
	})
}

// statusForError maps the prediction error taxonomy to HTTP status codes.
// Failed predictions always return an error category, never a best-guess
// number.
func statusForError(err error) int {
	switch {
	case errors.Is(err, common.ErrUnknownCategory):
		return http.StatusUnprocessableEntity
	case common.IsRequestError(err):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrEstimatorNotLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
