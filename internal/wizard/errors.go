package wizard

import "errors"

// Domain errors for the wizard package.
var (
	// ErrUnknownField is returned by ParseFieldUpdate for a name the form does not have.
	ErrUnknownField = errors.New("wizard: unknown field")

	// ErrInvalidValue is returned when a field value is not a permitted option or is out of range.
	ErrInvalidValue = errors.New("wizard: invalid value")

	// ErrInvalidStep is returned by GoTo for a step outside 1..5.
	ErrInvalidStep = errors.New("wizard: invalid step")

	// ErrNotOnReview is returned when submitting from any step other than Review.
	ErrNotOnReview = errors.New("wizard: submit is only possible from the review step")

	// ErrSubmitInProgress is returned when a submission is already awaiting its analysis.
	ErrSubmitInProgress = errors.New("wizard: analysis already in progress")

	// ErrNotOnResults is returned by Edit when no result is being shown.
	ErrNotOnResults = errors.New("wizard: not showing results")

	// ErrStaleResponse is returned when an analysis response was superseded by a newer request.
	ErrStaleResponse = errors.New("wizard: stale response")

	// ErrRegionNotSet is returned when requesting a location analysis before choosing a region.
	ErrRegionNotSet = errors.New("wizard: location region not set")
)
