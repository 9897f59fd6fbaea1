package wizard

import (
	"context"
	"fmt"

	"github.com/nerrad567/ecobuild-core/internal/building"
	"github.com/nerrad567/ecobuild-core/internal/results"
)

// Step is a wizard page, numbered from 1.
type Step int

// Wizard steps in order.
const (
	StepBasics Step = iota + 1
	StepStyle
	StepEfficiency
	StepAdditional
	StepReview
)

// FirstStep and LastStep bound the navigable range.
const (
	FirstStep = StepBasics
	LastStep  = StepReview
)

var stepNames = map[Step]string{
	StepBasics:     "Basics",
	StepStyle:      "Style & Materials",
	StepEfficiency: "Efficiency",
	StepAdditional: "Additional Details",
	StepReview:     "Review",
}

// String returns the step's title.
func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// Analyzer scores a building description.
type Analyzer interface {
	AnalyzeSustainability(ctx context.Context, data building.BuildingData) (building.AnalysisResult, error)
}

// LocationAnalyzer describes a region.
type LocationAnalyzer interface {
	AnalyzeLocation(ctx context.Context, region building.Region) (building.LocationAnalysis, error)
}

// LocationRequest identifies one location analysis request. Only the newest
// request for the current region may update the wizard.
type LocationRequest struct {
	Seq    uint64
	Region building.Region
}

// Wizard drives one building description from step 1 through review to the
// results view. It performs no gating: any step is reachable at any time.
// A Wizard is not safe for concurrent use.
type Wizard struct {
	draft      *Draft
	step       Step
	inResults  bool
	submitting bool
	view       results.View
	result     *building.AnalysisResult
	buildingID string

	locationSeq    uint64
	locationRegion building.Region
	location       *building.LocationAnalysis
	locationError  string
}

// New starts a wizard on step 1 with a fresh draft.
func New() *Wizard {
	return &Wizard{draft: NewDraft(), step: FirstStep, view: results.Idle()}
}

// FromSaved starts the edit flow for a stored building. The wizard keeps the
// building's ID so the next submission replaces it.
func FromSaved(b building.SavedBuilding) *Wizard {
	w := New()
	w.draft = DraftFrom(b.BuildingData)
	w.buildingID = b.ID
	return w
}

// Step returns the current step.
func (w *Wizard) Step() Step { return w.step }

// InResults reports whether the results view is showing.
func (w *Wizard) InResults() bool { return w.inResults }

// Data returns a snapshot of the draft.
func (w *Wizard) Data() building.BuildingData { return w.draft.Data() }

// View returns the result pane state.
func (w *Wizard) View() results.View { return w.view }

// Result returns the last successful analysis, if any.
func (w *Wizard) Result() *building.AnalysisResult { return w.result }

// BuildingID is the stored building this wizard edits, or empty for a new one.
func (w *Wizard) BuildingID() string { return w.buildingID }

// SetBuildingID records the ID assigned when the result was saved, so a
// later edit-and-resubmit updates the same record.
func (w *Wizard) SetBuildingID(id string) { w.buildingID = id }

// Apply performs a field update on the draft. Changing the region discards
// any location analysis for the previous region.
func (w *Wizard) Apply(u FieldUpdate) error {
	before := w.draft.data.LocationRegion
	if err := w.draft.Apply(u); err != nil {
		return err
	}
	if w.draft.data.LocationRegion != before {
		w.location = nil
		w.locationError = ""
		w.locationRegion = ""
	}
	return nil
}

// RoomsMaxMin is the lowest value the roomsMax input accepts.
func (w *Wizard) RoomsMaxMin() int { return w.draft.RoomsMaxMin() }

// Next advances one step, stopping at Review. From the results view it
// returns to the form first.
func (w *Wizard) Next() {
	w.leaveResults()
	if w.step < LastStep {
		w.step++
	}
}

// Previous goes back one step, stopping at step 1. From the results view it
// returns to the form first.
func (w *Wizard) Previous() {
	w.leaveResults()
	if w.step > FirstStep {
		w.step--
	}
}

// leaveResults closes the results view so navigation always lands on a
// numbered form step. The draft and the last result are kept.
func (w *Wizard) leaveResults() {
	if !w.inResults {
		return
	}
	w.inResults = false
	w.view = results.Idle()
}

// GoTo jumps directly to step n in 1..5 regardless of which fields are filled.
func (w *Wizard) GoTo(n int) error {
	s := Step(n)
	if s < FirstStep || s > LastStep {
		return fmt.Errorf("%w: %d", ErrInvalidStep, n)
	}
	w.leaveResults()
	w.step = s
	return nil
}

// BeginSubmit starts a submission from Review and returns the data to
// analyse. The view moves to loading until CompleteSubmit is called.
func (w *Wizard) BeginSubmit() (building.BuildingData, error) {
	if w.inResults || w.step != StepReview {
		return building.BuildingData{}, ErrNotOnReview
	}
	if w.submitting {
		return building.BuildingData{}, ErrSubmitInProgress
	}
	w.submitting = true
	w.view = results.Loading()
	return w.draft.Data(), nil
}

// CompleteSubmit records the outcome of the submission started by
// BeginSubmit. On success the wizard enters the results view; on failure it
// stays on Review with the error's message shown, ready for a resubmit.
// Navigation while the analysis ran is undone: the outcome belongs to Review.
func (w *Wizard) CompleteSubmit(result building.AnalysisResult, err error) {
	w.submitting = false
	w.step = StepReview
	if err != nil {
		w.view = results.Failed(err.Error())
		return
	}
	r := result.Normalised()
	w.result = &r
	w.view = results.Success(r)
	w.inResults = true
}

// Submit runs BeginSubmit, the analysis and CompleteSubmit in one call.
//
// Parameters:
//   - ctx: Context for the analysis request
//   - a: Scoring collaborator
//
// Returns:
//   - building.AnalysisResult: Normalised result on success
//   - error: ErrNotOnReview, ErrSubmitInProgress or the analysis error
func (w *Wizard) Submit(ctx context.Context, a Analyzer) (building.AnalysisResult, error) {
	data, err := w.BeginSubmit()
	if err != nil {
		return building.AnalysisResult{}, err
	}
	result, err := a.AnalyzeSustainability(ctx, data)
	w.CompleteSubmit(result, err)
	if err != nil {
		return building.AnalysisResult{}, err
	}
	return *w.result, nil
}

// Edit leaves the results view and rewinds to step 1, keeping the draft.
func (w *Wizard) Edit() error {
	if !w.inResults {
		return ErrNotOnResults
	}
	w.inResults = false
	w.step = FirstStep
	w.view = results.Idle()
	return nil
}

// BeginLocation issues a new location request for the current region.
// Any earlier request still in flight becomes stale.
func (w *Wizard) BeginLocation() (LocationRequest, error) {
	region := w.draft.data.LocationRegion
	if region == "" {
		return LocationRequest{}, ErrRegionNotSet
	}
	w.locationSeq++
	w.locationRegion = region
	return LocationRequest{Seq: w.locationSeq, Region: region}, nil
}

// ApplyLocation records the response to req. Responses to superseded
// requests, or for a region that is no longer selected, are dropped with
// ErrStaleResponse.
func (w *Wizard) ApplyLocation(req LocationRequest, la building.LocationAnalysis, err error) error {
	if req.Seq != w.locationSeq || req.Region != w.draft.data.LocationRegion {
		return ErrStaleResponse
	}
	if err != nil {
		w.location = nil
		w.locationError = err.Error()
		return err
	}
	w.location = &la
	w.locationError = ""
	return nil
}

// RefreshLocation requests and applies a location analysis synchronously.
func (w *Wizard) RefreshLocation(ctx context.Context, a LocationAnalyzer) error {
	req, err := w.BeginLocation()
	if err != nil {
		return err
	}
	la, err := a.AnalyzeLocation(ctx, req.Region)
	return w.ApplyLocation(req, la, err)
}

// Location returns the analysis for the current region, if one has arrived.
func (w *Wizard) Location() *building.LocationAnalysis { return w.location }

// Snapshot is the serialisable state of a wizard.
type Snapshot struct {
	Step          int                        `json:"step"`
	StepName      string                     `json:"stepName"`
	InResults     bool                       `json:"inResults"`
	Submitting    bool                       `json:"submitting"`
	BuildingData  building.BuildingData      `json:"buildingData"`
	RoomsMaxMin   int                        `json:"roomsMaxMin"`
	View          results.View               `json:"view"`
	BuildingID    string                     `json:"buildingId,omitempty"`
	Location      *building.LocationAnalysis `json:"location,omitempty"`
	LocationError string                     `json:"locationError,omitempty"`
}

// Snapshot captures the wizard's current state.
func (w *Wizard) Snapshot() Snapshot {
	return Snapshot{
		Step:          int(w.step),
		StepName:      w.step.String(),
		InResults:     w.inResults,
		Submitting:    w.submitting,
		BuildingData:  w.draft.Data(),
		RoomsMaxMin:   w.draft.RoomsMaxMin(),
		View:          w.view,
		BuildingID:    w.buildingID,
		Location:      w.location,
		LocationError: w.locationError,
	}
}
