package api

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/ecobuild-core/internal/building"
	"github.com/nerrad567/ecobuild-core/internal/session"
	"github.com/nerrad567/ecobuild-core/internal/wizard"
)

// handleAddUserBuilding appends a flattened building to a user's list and
// returns the whole list.
//
// The route is keyed by the user ID in the path and takes no token. It is
// kept for clients built against the first version of the API; new clients
// use POST /api/buildings.
func (s *Server) handleAddUserBuilding(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var req building.UserBuilding
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SustainabilityScore < building.MinScore || req.SustainabilityScore > building.MaxScore {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "sustainabilityScore must be between 0 and 100")
		return
	}

	exists, err := s.auth.UserExists(r.Context(), userID)
	if err != nil {
		s.logger.Error("user lookup failed", "error", err, "user_id", userID)
		writeInternalError(w, "Failed to add building")
		return
	}
	if !exists {
		writeNotFound(w, msgUserNotFound)
		return
	}

	data := wizard.NewDraft().Data()
	data.ProjectName = req.Name
	result := building.AnalysisResult{
		SustainabilityScore: req.SustainabilityScore,
		Summary:             req.SustainabilitySummary,
		Recommendations:     req.Recommendations,
	}.Normalised()

	owner := session.Session{UserID: userID}
	if _, err := s.buildings.SaveBuildingAnalysis(r.Context(), owner, data, result); err != nil {
		s.writeBuildingError(w, "add", err)
		return
	}

	saved, err := s.buildings.list(r.Context(), userID)
	if err != nil {
		s.logger.Error("list buildings failed", "error", err, "user_id", userID)
		writeInternalError(w, "Failed to add building")
		return
	}
	// Oldest first, in the order the buildings were added.
	flat := make([]building.UserBuilding, 0, len(saved))
	for _, b := range saved {
		flat = append(flat, b.Flatten())
	}
	slices.Reverse(flat)

	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Building added",
		"buildings": flat,
	})
}
