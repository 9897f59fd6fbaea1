package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/ecobuild-core/internal/analysis"
	"github.com/nerrad567/ecobuild-core/internal/audit"
	"github.com/nerrad567/ecobuild-core/internal/auth"
	"github.com/nerrad567/ecobuild-core/internal/building"
	"github.com/nerrad567/ecobuild-core/internal/events"
	"github.com/nerrad567/ecobuild-core/internal/infrastructure/config"
	"github.com/nerrad567/ecobuild-core/internal/infrastructure/database"
	"github.com/nerrad567/ecobuild-core/internal/infrastructure/logging"
	_ "github.com/nerrad567/ecobuild-core/migrations" // registers the schema
)

// stubAnalyzer is a scripted scoring collaborator.
type stubAnalyzer struct {
	mu sync.Mutex

	result   building.AnalysisResult
	err      error
	location building.LocationAnalysis
	locErr   error
	answer   string
	askErr   error

	// onLocation runs inside AnalyzeLocation, while no wizard lock is held.
	onLocation func()

	calls int
}

func (a *stubAnalyzer) AnalyzeSustainability(_ context.Context, _ building.BuildingData) (building.AnalysisResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	return a.result, a.err
}

func (a *stubAnalyzer) AnalyzeLocation(_ context.Context, region building.Region) (building.LocationAnalysis, error) {
	if !region.IsValid() {
		return building.LocationAnalysis{}, analysis.ErrRegionRequired
	}
	if a.onLocation != nil {
		a.onLocation()
	}
	return a.location, a.locErr
}

func (a *stubAnalyzer) Ask(_ context.Context, question string) (string, error) {
	if question == "" {
		return "", analysis.ErrPromptRequired
	}
	return a.answer, a.askErr
}

// recordingPublisher captures external building events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
	return nil
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

// failingRepository refuses every write.
type failingRepository struct {
	building.Repository
}

func (failingRepository) Create(context.Context, *building.SavedBuilding) error {
	return errors.New("disk full")
}

func (failingRepository) Update(context.Context, *building.SavedBuilding) error {
	return errors.New("disk full")
}

type testEnv struct {
	srv      *Server
	handler  http.Handler
	analyzer *stubAnalyzer
	events   *recordingPublisher
}

type envOption func(*Deps)

func withRepository(wrap func(building.Repository) building.Repository) envOption {
	return func(d *Deps) { d.Buildings = wrap(d.Buildings) }
}

func withChecks(checks map[string]HealthChecker) envOption {
	return func(d *Deps) { d.Checks = checks }
}

func withoutAudit() envOption {
	return func(d *Deps) { d.Audit = nil }
}

func withCORS(origins ...string) envOption {
	return func(d *Deps) { d.Config.CORS.AllowedOrigins = origins }
}

// testServer creates a Server backed by a migrated temp-file SQLite database.
func testServer(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	db, err := database.Open(context.Background(), database.Config{
		Path:        filepath.Join(t.TempDir(), "api-test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}

	authSvc := auth.NewService(auth.NewUserRepository(db.DB), auth.NewSessionRepository(db.DB), auth.ServiceConfig{
		Secret:     "test-secret-key-at-least-32-characters-long",
		SessionTTL: time.Hour,
		Params:     auth.Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16},
	})

	analyzer := &stubAnalyzer{
		result: building.AnalysisResult{
			SustainabilityScore: 72,
			Summary:             "Good passive design.",
			Recommendations: map[building.Category][]string{
				building.CategoryEnergy: {"Add solar panels"},
			},
		},
		location: building.LocationAnalysis{
			WeatherSummary:         "Mild winters.",
			SustainabilityMeasures: []string{"Shade west windows"},
			TransportationNotes:    "Good bus links.",
		},
		answer: "Use **cross-laminated timber**.",
	}
	pub := &recordingPublisher{}

	deps := Deps{
		Config: config.APIConfig{
			Host:     "127.0.0.1",
			Port:     0,
			Timeouts: config.APITimeoutConfig{Read: 5, Write: 5, Idle: 5},
		},
		WS:        config.WebSocketConfig{MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10},
		Wizard:    config.WizardConfig{SessionTTL: 60},
		Logger:    logging.Nop(),
		Auth:      authSvc,
		Buildings: building.NewSQLiteRepository(db.DB),
		Analyzer:  analyzer,
		Events:    pub,
		Audit:     audit.NewSQLiteRepository(db.DB),
		Version:   "test",
	}
	for _, opt := range opts {
		opt(&deps)
	}

	srv, err := New(deps)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return &testEnv{srv: srv, handler: srv.buildRouter(), analyzer: analyzer, events: pub}
}

// do sends a JSON request through the router. body may be nil, a string or
// any JSON-encodable value.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// signUp registers and logs in a user, returning the user ID and token.
func (e *testEnv) signUp(t *testing.T, username string) (userID, token string) {
	t.Helper()

	creds := map[string]string{"username": username, "password": "correct horse"}
	if rec := e.do(t, http.MethodPost, "/api/register", "", creds); rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", rec.Code, rec.Body.String())
	}
	rec := e.do(t, http.MethodPost, "/api/login", "", creds)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp loginResponse
	decodeBody(t, rec, &resp)
	return resp.UserID, resp.Token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	decodeBody(t, rec, &resp)
	return resp.Error
}

// validBuilding returns a fully filled, catalogue-valid description.
func validBuilding() building.BuildingData {
	return building.BuildingData{
		ProjectName:        "Harbour View",
		LocationRegion:     building.RegionEast,
		HousingType:        building.HousingStudioApartment,
		Floors:             building.Floors6To10,
		RoomsMin:           2,
		RoomsMax:           8,
		Elevators:          1,
		SpacePerRoom:       building.Space300To500,
		ArchitecturalStyle: building.StyleModern,
		MaterialType:       building.MaterialCrossLaminate,
		WasteReduction:     []building.WasteOption{building.WasteComposting},
		EnergyEfficiency:   []building.EnergyOption{building.EnergyHeatPumps},
		WaterFixtures:      building.WaterLowFlow,
	}
}

func validResult(score int) building.AnalysisResult {
	return building.AnalysisResult{
		SustainabilityScore: score,
		Summary:             "Solid design.",
		Recommendations: map[building.Category][]string{
			building.CategoryWater: {"Harvest rainwater"},
		},
	}
}

func newRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, nil)
}

func serve(e *testEnv, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}
