package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/ecobuild-core/internal/building"
	"github.com/nerrad567/ecobuild-core/internal/results"
	"github.com/nerrad567/ecobuild-core/internal/wizard"
)

const msgWizardNotFound = "Wizard session not found"

// createWizardRequest optionally names a stored building to edit.
type createWizardRequest struct {
	BuildingID string `json:"buildingId,omitempty"`
}

// wizardResponse is the body of every wizard endpoint.
type wizardResponse struct {
	ID     string          `json:"id"`
	Wizard wizard.Snapshot `json:"wizard"`

	// Persistence is set after a successful submit.
	Persistence *results.Outcome `json:"persistence,omitempty"`
}

// fieldRequest is one form edit. Value may be a JSON string, number or bool.
type fieldRequest struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// rawValue converts a JSON scalar into the text a form input would submit.
func rawValue(v json.RawMessage) (string, bool) {
	text := strings.TrimSpace(string(v))
	if text == "" || text == "null" {
		return "", true
	}
	if text[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", false
		}
		return s, true
	}
	if text[0] == '{' || text[0] == '[' {
		return "", false
	}
	return text, true
}

// userIDFrom returns the caller's user ID, or empty for an anonymous request.
func userIDFrom(r *http.Request) string {
	if p := principalFromContext(r.Context()); p != nil {
		return p.UserID
	}
	return ""
}

// handleCreateWizard starts a wizard, either fresh or editing a stored
// building the caller owns.
func (s *Server) handleCreateWizard(w http.ResponseWriter, r *http.Request) {
	var req createWizardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	userID := userIDFrom(r)
	wiz := wizard.New()
	if req.BuildingID != "" {
		if userID == "" {
			writeUnauthorized(w, "Authentication required to edit a building")
			return
		}
		saved, err := s.buildings.get(r.Context(), userID, req.BuildingID)
		if err != nil {
			s.writeBuildingError(w, "load", err)
			return
		}
		wiz = wizard.FromSaved(*saved)
	}

	id, entry := s.wizards.create(userID, wiz)
	writeJSON(w, http.StatusCreated, wizardResponse{ID: id, Wizard: entry.wiz.Snapshot()})
}

// withWizard looks up the wizard named in the URL and runs fn under its lock.
func (s *Server) withWizard(w http.ResponseWriter, r *http.Request, fn func(*wizard.Wizard) (int, error)) {
	id := chi.URLParam(r, "id")
	entry, ok := s.wizards.get(id, userIDFrom(r))
	if !ok {
		writeNotFound(w, msgWizardNotFound)
		return
	}

	entry.mu.Lock()
	status, err := fn(entry.wiz)
	snap := entry.wiz.Snapshot()
	entry.mu.Unlock()

	if err != nil {
		writeWizardError(w, err)
		return
	}
	writeJSON(w, status, wizardResponse{ID: id, Wizard: snap})
}

// handleGetWizard returns the wizard's current state.
func (s *Server) handleGetWizard(w http.ResponseWriter, r *http.Request) {
	s.withWizard(w, r, func(*wizard.Wizard) (int, error) { return http.StatusOK, nil })
}

// handleDeleteWizard discards a wizard session.
func (s *Server) handleDeleteWizard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.wizards.get(id, userIDFrom(r)); !ok {
		writeNotFound(w, msgWizardNotFound)
		return
	}
	s.wizards.remove(id)
	w.WriteHeader(http.StatusNoContent)
}

// handleWizardField applies one form edit.
func (s *Server) handleWizardField(w http.ResponseWriter, r *http.Request) {
	var req fieldRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	value, ok := rawValue(req.Value)
	if !ok {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "value must be a string, number or boolean")
		return
	}
	update, err := wizard.ParseFieldUpdate(req.Name, value)
	if err != nil {
		writeWizardError(w, err)
		return
	}

	s.withWizard(w, r, func(wiz *wizard.Wizard) (int, error) {
		return http.StatusOK, wiz.Apply(update)
	})
}

// handleWizardNext advances one step.
func (s *Server) handleWizardNext(w http.ResponseWriter, r *http.Request) {
	s.withWizard(w, r, func(wiz *wizard.Wizard) (int, error) {
		wiz.Next()
		return http.StatusOK, nil
	})
}

// handleWizardPrevious goes back one step.
func (s *Server) handleWizardPrevious(w http.ResponseWriter, r *http.Request) {
	s.withWizard(w, r, func(wiz *wizard.Wizard) (int, error) {
		wiz.Previous()
		return http.StatusOK, nil
	})
}

// handleWizardGoTo jumps to the step in the URL.
func (s *Server) handleWizardGoTo(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		writeBadRequest(w, "step must be a number between 1 and 5")
		return
	}
	s.withWizard(w, r, func(wiz *wizard.Wizard) (int, error) {
		return http.StatusOK, wiz.GoTo(n)
	})
}

// handleWizardEdit leaves the results view for step 1.
func (s *Server) handleWizardEdit(w http.ResponseWriter, r *http.Request) {
	s.withWizard(w, r, func(wiz *wizard.Wizard) (int, error) {
		return http.StatusOK, wiz.Edit()
	})
}

// handleWizardLocation fetches the regional context for the selected
// region. The wizard lock is not held during the request; if the region
// changes or another request is issued meanwhile, this response is dropped.
func (s *Server) handleWizardLocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry, ok := s.wizards.get(id, userIDFrom(r))
	if !ok {
		writeNotFound(w, msgWizardNotFound)
		return
	}

	entry.mu.Lock()
	req, err := entry.wiz.BeginLocation()
	entry.mu.Unlock()
	if err != nil {
		writeWizardError(w, err)
		return
	}

	la, analysisErr := s.analyzer.AnalyzeLocation(r.Context(), req.Region)

	entry.mu.Lock()
	err = entry.wiz.ApplyLocation(req, la, analysisErr)
	snap := entry.wiz.Snapshot()
	entry.mu.Unlock()

	switch {
	case errors.Is(err, wizard.ErrStaleResponse):
		writeConflict(w, "Location changed while the analysis was running")
	case err != nil:
		s.logger.Debug("location analysis failed", "error", err, "region", string(req.Region))
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":  err.Error(),
			"code":   ErrCodeUpstream,
			"wizard": snap,
		})
	default:
		writeJSON(w, http.StatusOK, wizardResponse{ID: id, Wizard: snap})
	}
}

// handleWizardSubmit sends the draft for scoring and, for a signed-in
// caller, stores the result.
//
// The wizard shows loading while the scoring collaborator runs; a second
// submit in that window is rejected. On failure the wizard stays on Review
// with the failure message, ready for a resubmit. If storing fails the
// result is still returned, with a placeholder ID.
func (s *Server) handleWizardSubmit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry, ok := s.wizards.get(id, userIDFrom(r))
	if !ok {
		writeNotFound(w, msgWizardNotFound)
		return
	}

	entry.mu.Lock()
	data, err := entry.wiz.BeginSubmit()
	entry.mu.Unlock()
	if err != nil {
		writeWizardError(w, err)
		return
	}

	result, analysisErr := s.analyzer.AnalyzeSustainability(r.Context(), data)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.wiz.CompleteSubmit(result, analysisErr)
	if analysisErr != nil {
		s.logger.Debug("sustainability analysis failed", "error", analysisErr, "wizard_id", id)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":  analysisErr.Error(),
			"code":   ErrCodeUpstream,
			"wizard": entry.wiz.Snapshot(),
		})
		return
	}

	outcome := s.persist(r, entry.wiz, data)
	writeJSON(w, http.StatusOK, wizardResponse{ID: id, Wizard: entry.wiz.Snapshot(), Persistence: &outcome})
}

// persist saves or updates the wizard's result for the caller. The caller
// holds the entry lock.
func (s *Server) persist(r *http.Request, wiz *wizard.Wizard, data building.BuildingData) results.Outcome {
	sess := sessionFromContext(r.Context())
	result := *wiz.Result()

	var outcome results.Outcome
	if existing := wiz.BuildingID(); existing != "" {
		outcome = s.persister.Update(r.Context(), sess, existing, data, result)
	} else {
		outcome = s.persister.Save(r.Context(), sess, data, result)
	}
	if outcome.Persisted {
		wiz.SetBuildingID(outcome.ID)
	}
	return outcome
}

// writeWizardError maps wizard errors to responses.
func writeWizardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wizard.ErrUnknownField), errors.Is(err, wizard.ErrInvalidValue),
		errors.Is(err, wizard.ErrInvalidStep):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
	case errors.Is(err, wizard.ErrRegionNotSet):
		writeBadRequest(w, "Location region is required")
	case errors.Is(err, wizard.ErrNotOnReview), errors.Is(err, wizard.ErrSubmitInProgress),
		errors.Is(err, wizard.ErrNotOnResults):
		writeConflict(w, err.Error())
	default:
		writeInternalError(w, err.Error())
	}
}
