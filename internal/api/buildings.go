package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/ecobuild-core/internal/building"
)

const msgBuildingNotFound = "Building not found"

// buildingRequest is the request body for creating or replacing a building.
type buildingRequest struct {
	BuildingData   building.BuildingData   `json:"buildingData"`
	AnalysisResult building.AnalysisResult `json:"analysisResult"`
}

// validate checks both documents, returning the message to show on failure.
func (req *buildingRequest) validate() (string, bool) {
	if err := req.BuildingData.Validate(); err != nil {
		return err.Error(), false
	}
	req.AnalysisResult = req.AnalysisResult.Normalised()
	if err := req.AnalysisResult.Validate(); err != nil {
		return err.Error(), false
	}
	return "", true
}

// handleListBuildings returns the caller's buildings, newest first.
func (s *Server) handleListBuildings(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())
	buildings, err := s.buildings.list(r.Context(), p.UserID)
	if err != nil {
		s.logger.Error("list buildings failed", "error", err, "user_id", p.UserID)
		writeInternalError(w, "Failed to list buildings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"buildings": buildings, "count": len(buildings)})
}

// handleCreateBuilding stores an analysed building for the caller.
func (s *Server) handleCreateBuilding(w http.ResponseWriter, r *http.Request) {
	var req buildingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg, ok := req.validate(); !ok {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, msg)
		return
	}

	saved, err := s.buildings.SaveBuildingAnalysis(r.Context(), *sessionFromContext(r.Context()),
		req.BuildingData, req.AnalysisResult)
	if err != nil {
		s.writeBuildingError(w, "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// handleGetBuilding returns one of the caller's buildings.
func (s *Server) handleGetBuilding(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())
	saved, err := s.buildings.get(r.Context(), p.UserID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeBuildingError(w, "get", err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// handleUpdateBuilding replaces the data and analysis of one of the
// caller's buildings.
func (s *Server) handleUpdateBuilding(w http.ResponseWriter, r *http.Request) {
	var req buildingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg, ok := req.validate(); !ok {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, msg)
		return
	}

	saved, err := s.buildings.UpdateBuilding(r.Context(), *sessionFromContext(r.Context()),
		chi.URLParam(r, "id"), req.BuildingData, req.AnalysisResult)
	if err != nil {
		s.writeBuildingError(w, "update", err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// handleDeleteBuilding removes one of the caller's buildings.
func (s *Server) handleDeleteBuilding(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())
	if err := s.buildings.delete(r.Context(), p.UserID, chi.URLParam(r, "id")); err != nil {
		s.writeBuildingError(w, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleBuildingStats summarises the caller's scores. A user with no
// buildings gets a zero count rather than an error.
func (s *Server) handleBuildingStats(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())
	buildings, err := s.buildings.list(r.Context(), p.UserID)
	if err != nil {
		s.logger.Error("list buildings for stats failed", "error", err, "user_id", p.UserID)
		writeInternalError(w, "Failed to compute statistics")
		return
	}

	stats, err := building.ComputeStats(buildings)
	if err != nil && !errors.Is(err, building.ErrNoScores) {
		s.logger.Error("compute stats failed", "error", err, "user_id", p.UserID)
		writeInternalError(w, "Failed to compute statistics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) writeBuildingError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, building.ErrBuildingNotFound):
		writeNotFound(w, msgBuildingNotFound)
	case errors.Is(err, building.ErrOwnerNotFound):
		writeNotFound(w, msgUserNotFound)
	default:
		s.logger.Error("building operation failed", "op", op, "error", err)
		writeInternalError(w, "Failed to "+op+" building")
	}
}
