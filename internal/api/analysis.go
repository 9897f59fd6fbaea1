package api

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/nerrad567/ecobuild-core/internal/analysis"
	"github.com/nerrad567/ecobuild-core/internal/building"
	"github.com/nerrad567/ecobuild-core/internal/results"
)

type locationRequest struct {
	Region building.Region `json:"region"`
}

type sustainabilityRequest struct {
	BuildingData building.BuildingData `json:"buildingData"`
}

type sustainabilityResponse struct {
	AnalysisResult building.AnalysisResult `json:"analysisResult"`
	View           results.View            `json:"view"`
}

type chatRequest struct {
	Prompt string `json:"prompt"`
}

type chatResponse struct {
	Text string `json:"text"`
	HTML string `json:"html"`
}

// handleAnalyzeLocation returns the regional context for one region.
func (s *Server) handleAnalyzeLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	la, err := s.analyzer.AnalyzeLocation(r.Context(), req.Region)
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, la)
}

// handleAnalyzeSustainability scores a building description without
// storing it.
func (s *Server) handleAnalyzeSustainability(w http.ResponseWriter, r *http.Request) {
	var req sustainabilityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.BuildingData.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}

	result, err := s.analyzer.AnalyzeSustainability(r.Context(), req.BuildingData)
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}
	result = result.Normalised()
	writeJSON(w, http.StatusOK, sustainabilityResponse{AnalysisResult: result, View: results.Success(result)})
}

// handleChat answers a free-form sustainability question. The answer is
// returned as the model's markdown and rendered to HTML.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	text, err := s.analyzer.Ask(r.Context(), req.Prompt)
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}

	var html bytes.Buffer
	if err := s.markdown.Convert([]byte(text), &html); err != nil {
		s.logger.Warn("rendering chat answer failed", "error", err)
		html.Reset()
	}
	writeJSON(w, http.StatusOK, chatResponse{Text: text, HTML: html.String()})
}

// writeAnalysisError maps scoring collaborator errors to responses. Upstream
// failures carry the fixed user-facing message; the cause is only logged.
func (s *Server) writeAnalysisError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, analysis.ErrRegionRequired):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "Location region is required")
	case errors.Is(err, analysis.ErrPromptRequired):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "Prompt is required")
	default:
		s.logger.Debug("analysis request failed", "error", err)
		writeError(w, http.StatusBadGateway, ErrCodeUpstream, err.Error())
	}
}
