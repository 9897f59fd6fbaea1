package results

import "github.com/nerrad567/ecobuild-core/internal/building"

// State is the exclusive display state of the result pane.
type State string

// Result pane states.
const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateError   State = "error"
	StateSuccess State = "success"
)

// LoadingMessage is shown while an analysis is in flight.
const LoadingMessage = "Analyzing your building's sustainability..."

// Group is one recommendation category as rendered.
type Group struct {
	Category building.Category `json:"category"`
	Items    []string          `json:"items"`
}

// View is the rendered state of the result pane. Exactly one of the
// loading, error or success payloads is meaningful, selected by State.
type View struct {
	State   State           `json:"state"`
	Message string          `json:"message,omitempty"`
	Score   int             `json:"score,omitempty"`
	Rating  building.Rating `json:"rating,omitempty"`
	Summary string          `json:"summary,omitempty"`
	Groups  []Group         `json:"groups,omitempty"`
}

// Idle is the view before anything was submitted.
func Idle() View { return View{State: StateIdle} }

// Loading is the view while the analysis is running.
func Loading() View { return View{State: StateLoading, Message: LoadingMessage} }

// Failed is the view after the analysis failed. The message is shown verbatim.
func Failed(message string) View { return View{State: StateError, Message: message} }

// Success renders an analysis. Recommendations are normalised and always
// listed in the fixed category order, so every category appears even when
// the analysis had nothing to say about it.
func Success(r building.AnalysisResult) View {
	r = r.Normalised()
	groups := make([]Group, 0, len(building.AllCategories()))
	for _, c := range building.AllCategories() {
		groups = append(groups, Group{Category: c, Items: r.Recommendations[c]})
	}
	return View{
		State:   StateSuccess,
		Score:   r.SustainabilityScore,
		Rating:  building.RatingFor(r.SustainabilityScore),
		Summary: r.Summary,
		Groups:  groups,
	}
}
