package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/ecobuild-core/internal/building"
	"github.com/nerrad567/ecobuild-core/internal/results"
	"github.com/nerrad567/ecobuild-core/internal/session"
)

var _ results.Store = (*Client)(nil)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // test server
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/")
}

func testSession() session.Session {
	return session.Session{UserID: "usr-1", Username: "ada", Token: "tok-123"}
}

func TestLogin_Success(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada", body["username"])
		assert.Equal(t, "secret", body["password"])

		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Login successful", "userId": "usr-1", "token": "tok-123", "expiresIn": 3600,
		})
	})
	c.now = func() time.Time { return fixed }

	s, err := c.Login(context.Background(), "ada", "secret")
	require.NoError(t, err)
	assert.Equal(t, "usr-1", s.UserID)
	assert.Equal(t, "ada", s.Username)
	assert.Equal(t, "tok-123", s.Token)
	assert.Equal(t, fixed.Add(time.Hour), s.ExpiresAt)
}

func TestLogin_ErrorsAreVerbatim(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
	}{
		{"unknown user", http.StatusNotFound, "User not found"},
		{"wrong password", http.StatusUnauthorized, "Incorrect password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, tt.status, map[string]string{"error": tt.message})
			})

			_, err := c.Login(context.Background(), "ada", "nope")
			require.Error(t, err)
			assert.EqualError(t, err, tt.message)
			assert.Equal(t, tt.status, StatusCode(err))
		})
	}
}

func TestLogin_MissingToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"message": "Login successful"})
	})

	_, err := c.Login(context.Background(), "ada", "secret")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRegister_Conflict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/register", r.URL.Path)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "User already exists"})
	})

	err := c.Register(context.Background(), "ada", "secret")
	assert.EqualError(t, err, "User already exists")
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
}

func TestRegister_Created(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]string{"message": "User created"})
	})

	assert.NoError(t, c.Register(context.Background(), "ada", "secret"))
}

func TestSaveBuildingAnalysis(t *testing.T) {
	data := building.BuildingData{LocationRegion: building.RegionEast, RoomsMin: 1, RoomsMax: 6}
	result := building.AnalysisResult{SustainabilityScore: 72, Summary: "Good."}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/buildings", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		var req buildingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, building.RegionEast, req.BuildingData.LocationRegion)
		assert.Equal(t, 72, req.AnalysisResult.SustainabilityScore)

		writeJSON(w, http.StatusCreated, building.SavedBuilding{
			ID: "bld-1", UserID: "usr-1", BuildingData: req.BuildingData, AnalysisResult: req.AnalysisResult,
		})
	})

	saved, err := c.SaveBuildingAnalysis(context.Background(), testSession(), data, result)
	require.NoError(t, err)
	assert.Equal(t, "bld-1", saved.ID)
	assert.Equal(t, 6, saved.BuildingData.RoomsMax)
}

func TestUpdateBuilding(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/buildings/bld-7", r.URL.Path)
		writeJSON(w, http.StatusOK, building.SavedBuilding{ID: "bld-7"})
	})

	saved, err := c.UpdateBuilding(context.Background(), testSession(), "bld-7",
		building.BuildingData{}, building.AnalysisResult{})
	require.NoError(t, err)
	assert.Equal(t, "bld-7", saved.ID)
}

func TestListBuildings(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		writeJSON(w, http.StatusOK, map[string]any{
			"buildings": []building.SavedBuilding{{ID: "bld-2"}, {ID: "bld-1"}},
			"count":     2,
		})
	})

	list, err := c.ListBuildings(context.Background(), testSession())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "bld-2", list[0].ID)
}

func TestListBuildings_EmptyIsNonNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"count": 0})
	})

	list, err := c.ListBuildings(context.Background(), testSession())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestNonJSONErrorUsesStatusText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	err := c.Logout(context.Background(), testSession())
	assert.EqualError(t, err, "Bad Gateway")
	assert.Equal(t, http.StatusBadGateway, StatusCode(err))
}

func TestUnreachable(t *testing.T) {
	c := New("http://127.0.0.1:1", WithTimeout(time.Second))

	_, err := c.SaveBuildingAnalysis(context.Background(), testSession(), building.BuildingData{}, building.AnalysisResult{})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 0, StatusCode(err))
}

func TestContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListBuildings(ctx, testSession())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPersisterDegradesThroughClient(t *testing.T) {
	c := New("http://127.0.0.1:1", WithTimeout(time.Second))
	p := results.NewPersister(c, nil)
	s := testSession()

	out := p.Save(context.Background(), &s, building.BuildingData{}, building.AnalysisResult{SustainabilityScore: 50})

	assert.True(t, out.Degraded)
	assert.False(t, out.Persisted)
	assert.Contains(t, out.ID, "local-")
	assert.Equal(t, results.SaveFailedMessage, out.Message)
}
