package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"energy-model-builder/internal/calendar"
	"energy-model-builder/internal/models"
	"energy-model-builder/internal/repository"
	"energy-model-builder/internal/services"
	"energy-model-builder/pkg/logging"
	"energy-model-builder/pkg/metrics"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	ctx := context.Background()
	repo := repository.NewMemoryRepository()

	one := 1
	seed := map[string][]models.Row{
		models.TableTechnologies: {
			models.Technology{Tech: "NGCC", Flag: "p", Sector: "generation", Desc: "NaturalGas_CC"},
			models.Technology{Tech: "IMP_natural_gas", Flag: "r", Sector: "import", UnlimCap: &one},
		},
		models.TableEfficiency: {
			models.Efficiency{Region: "R1", InputComm: "natural_gas", Tech: "NGCC", Vintage: 2025, OutputComm: "electricity", Efficiency: 6.4},
			models.Efficiency{Region: "R2", InputComm: "natural_gas", Tech: "NGCC", Vintage: 2025, OutputComm: "electricity", Efficiency: 6.5},
		},
		models.TableCostVariable: {
			models.CostVariable{Region: "R1", Period: 2025, Tech: "NGCC", Vintage: 2025, Cost: 2},
			models.CostVariable{Region: "R1", Period: 2030, Tech: "NGCC", Vintage: 2025, Cost: 2},
		},
	}
	cal := calendar.New()
	for _, hour := range []int{2, 1} {
		slice, _ := cal.HourToSlice(hour)
		seed[models.TableDemandSpecificDistribution] = append(seed[models.TableDemandSpecificDistribution], models.DemandSpecificDistribution{
			Region: "R1", Season: slice.Season, TimeOfDay: slice.TimeOfDay, DemandName: "demand_elec", Fraction: 0.5,
		})
	}
	for table, rows := range seed {
		if err := repo.InsertMany(ctx, table, rows); err != nil {
			t.Fatal(err)
		}
	}

	logger := logging.NewNopLogger()
	collector := metrics.NewCollectorWithRegistry("test", prometheus.NewRegistry())
	handler := NewModelHandler(services.NewInspectionService(repo, logger, collector), logger, collector)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	router.HandleFunc("/api/docs/openapi.json", OpenAPISpec).Methods("GET")
	router.HandleFunc("/api/docs", SwaggerUI).Methods("GET")
	return router
}

func get(t *testing.T, router http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var body struct {
		Data  []map[string]interface{} `json:"data"`
		Total int                      `json:"total"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Total != len(body.Data) {
		t.Errorf("total = %d, want %d", body.Total, len(body.Data))
	}
	return body.Data
}

func TestModelHandler_Lists(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name  string
		url   string
		count int
	}{
		{"all technologies", "/api/technologies", 2},
		{"import technologies", "/api/technologies?sector=import", 1},
		{"efficiency by region", "/api/efficiency?region=R2", 1},
		{"efficiency by tech", "/api/efficiency?tech=NGCC", 2},
		{"variable costs by period", "/api/costs/variable?region=R1&period=2030", 1},
		{"demand distribution", "/api/demand/distribution?region=R1", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, router, tt.url)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			if got := len(decodeList(t, rec)); got != tt.count {
				t.Errorf("rows = %d, want %d", got, tt.count)
			}
		})
	}
}

func TestModelHandler_DemandDistributionOrder(t *testing.T) {
	rec := get(t, newTestRouter(t), "/api/demand/distribution?region=R1")
	rows := decodeList(t, rec)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0]["hour"] != float64(1) || rows[1]["hour"] != float64(2) {
		t.Errorf("hours = %v, %v, want 1, 2", rows[0]["hour"], rows[1]["hour"])
	}
}

func TestModelHandler_Errors(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		url  string
		code int
	}{
		{"/api/costs/variable?period=soon", http.StatusBadRequest},
		{"/api/demand/distribution", http.StatusBadRequest},
		{"/api/demand/distribution?region=R9", http.StatusNotFound},
	}

	for _, tt := range tests {
		rec := get(t, router, tt.url)
		if rec.Code != tt.code {
			t.Errorf("GET %s status = %d, want %d", tt.url, rec.Code, tt.code)
		}
		var body ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
		if body.Code != tt.code {
			t.Errorf("GET %s error code = %d, want %d", tt.url, body.Code, tt.code)
		}
	}
}

func TestModelHandler_TablesAndHealth(t *testing.T) {
	router := newTestRouter(t)

	rec := get(t, router, "/api/tables")
	if rec.Code != http.StatusOK {
		t.Fatalf("tables status = %d", rec.Code)
	}
	var counts map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&counts); err != nil {
		t.Fatal(err)
	}
	if counts[models.TableEfficiency] != 2 {
		t.Errorf("Efficiency count = %d, want 2", counts[models.TableEfficiency])
	}

	rec = get(t, router, "/health")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "healthy") {
		t.Errorf("health = %d %s", rec.Code, rec.Body.String())
	}
}

func TestDocs(t *testing.T) {
	router := newTestRouter(t)

	rec := get(t, router, "/api/docs/openapi.json")
	var doc map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decode openapi: %v", err)
	}
	paths, _ := doc["paths"].(map[string]interface{})
	for _, p := range []string{"/api/technologies", "/api/efficiency", "/api/costs/variable", "/api/demand/distribution", "/health"} {
		if _, ok := paths[p]; !ok {
			t.Errorf("openapi document is missing %s", p)
		}
	}

	rec = get(t, router, "/api/docs")
	if !strings.Contains(rec.Body.String(), "swagger-ui") {
		t.Error("swagger page does not mount swagger-ui")
	}
}
