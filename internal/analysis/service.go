package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/nerrad567/ecobuild-core/internal/building"
	"github.com/nerrad567/ecobuild-core/internal/infrastructure/logging"
)

// Service turns building descriptions into analyses using a Generator.
// Each call makes exactly one request; nothing is retried.
type Service struct {
	gen    Generator
	logger *logging.Logger
}

// NewService creates an analysis service.
func NewService(gen Generator, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{gen: gen, logger: logger.With("component", "analysis")}
}

// AnalyzeSustainability scores data.
//
// Every failure, whether transport, HTTP status, free text instead of JSON
// or missing keys, is returned as a *Failure matching ErrAnalysisFailed
// whose message is SustainabilityFailedMessage. The cause is logged.
func (s *Service) AnalyzeSustainability(ctx context.Context, data building.BuildingData) (building.AnalysisResult, error) {
	text, err := s.gen.Generate(ctx, SustainabilityPrompt(data), SustainabilitySchema())
	if err != nil {
		s.logger.Error("sustainability analysis request failed", "error", err)
		return building.AnalysisResult{}, sustainabilityFailure(err)
	}

	result, err := ParseAnalysisResult(text)
	if err != nil {
		s.logger.Error("sustainability analysis response rejected", "error", err, "response_bytes", len(text))
		return building.AnalysisResult{}, sustainabilityFailure(err)
	}

	s.logger.Info("sustainability analysis complete",
		"region", data.LocationRegion,
		"score", result.SustainabilityScore,
	)
	return result, nil
}

// AnalyzeLocation describes region. The region must be one of the
// catalogue regions.
func (s *Service) AnalyzeLocation(ctx context.Context, region building.Region) (building.LocationAnalysis, error) {
	if region == "" || !region.IsValid() {
		return building.LocationAnalysis{}, ErrRegionRequired
	}

	text, err := s.gen.Generate(ctx, LocationPrompt(region), LocationSchema())
	if err != nil {
		s.logger.Error("location analysis request failed", "region", region, "error", err)
		return building.LocationAnalysis{}, locationFailure(err)
	}

	la, err := ParseLocationAnalysis(text)
	if err != nil {
		s.logger.Error("location analysis response rejected", "region", region, "error", err)
		return building.LocationAnalysis{}, locationFailure(err)
	}
	return la, nil
}

// Ask answers a free-form sustainability question. The answer may contain
// Markdown.
func (s *Service) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrPromptRequired
	}

	text, err := s.gen.Generate(ctx, ChatPrompt(question), nil)
	if err != nil {
		s.logger.Error("chat request failed", "error", err)
		return "", chatFailure(err)
	}
	if text == "" {
		return "", chatFailure(fmt.Errorf("%w: empty answer", ErrMalformedResponse))
	}
	return text, nil
}

// ParseAnalysisResult decodes model output into an AnalysisResult.
//
// The output must be a JSON object containing sustainabilityScore, summary
// and recommendations, optionally wrapped in a Markdown code fence. The
// score may be fractional and is rounded. Missing categories are
// normalised to empty lists; unknown categories are dropped.
func ParseAnalysisResult(text string) (building.AnalysisResult, error) {
	raw := cleanJSONContent(text)
	if !gjson.Valid(raw) || !gjson.Parse(raw).IsObject() {
		return building.AnalysisResult{}, fmt.Errorf("%w: not a JSON object", ErrMalformedResponse)
	}

	for _, key := range []string{"sustainabilityScore", "summary", "recommendations"} {
		if !gjson.Get(raw, key).Exists() {
			return building.AnalysisResult{}, fmt.Errorf("%w: missing %q", ErrMalformedResponse, key)
		}
	}

	score := gjson.Get(raw, "sustainabilityScore")
	if score.Type != gjson.Number {
		return building.AnalysisResult{}, fmt.Errorf("%w: sustainabilityScore is not a number", ErrMalformedResponse)
	}

	recs := gjson.Get(raw, "recommendations")
	if !recs.IsObject() {
		return building.AnalysisResult{}, fmt.Errorf("%w: recommendations is not an object", ErrMalformedResponse)
	}

	var wire struct {
		Summary         string                         `json:"summary"`
		Recommendations map[building.Category][]string `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return building.AnalysisResult{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	result := building.AnalysisResult{
		SustainabilityScore: int(math.Round(score.Float())),
		Summary:             wire.Summary,
		Recommendations:     wire.Recommendations,
	}.Normalised()

	if err := result.Validate(); err != nil {
		return building.AnalysisResult{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return result, nil
}

// ParseLocationAnalysis decodes model output into a LocationAnalysis.
func ParseLocationAnalysis(text string) (building.LocationAnalysis, error) {
	raw := cleanJSONContent(text)
	if !gjson.Valid(raw) || !gjson.Parse(raw).IsObject() {
		return building.LocationAnalysis{}, fmt.Errorf("%w: not a JSON object", ErrMalformedResponse)
	}
	for _, key := range []string{"weatherSummary", "sustainabilityMeasures", "transportationNotes"} {
		if !gjson.Get(raw, key).Exists() {
			return building.LocationAnalysis{}, fmt.Errorf("%w: missing %q", ErrMalformedResponse, key)
		}
	}

	var la building.LocationAnalysis
	if err := json.Unmarshal([]byte(raw), &la); err != nil {
		return building.LocationAnalysis{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if la.SustainabilityMeasures == nil {
		la.SustainabilityMeasures = []string{}
	}
	return la, nil
}

// cleanJSONContent removes a surrounding Markdown code fence, which models
// sometimes add despite being asked not to.
func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") && strings.HasSuffix(content, "```") && len(content) >= 6 {
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimPrefix(content, "json")
		content = strings.TrimSpace(content)
	}
	return content
}
