package building

import "errors"

// Domain errors for the building package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, building.ErrBuildingNotFound) {
//	    // handle not found case
//	}
var (
	// ErrBuildingNotFound is returned when a building ID does not exist.
	ErrBuildingNotFound = errors.New("building: not found")

	// ErrOwnerNotFound is returned when a building references an unknown user.
	ErrOwnerNotFound = errors.New("building: owner not found")

	// ErrInvalidBuilding is returned when BuildingData validation fails.
	ErrInvalidBuilding = errors.New("building: invalid")

	// ErrInvalidAnalysis is returned when an AnalysisResult is out of range or incomplete.
	ErrInvalidAnalysis = errors.New("building: invalid analysis")

	// ErrNoScores is returned by ComputeStats when there is nothing to summarise.
	ErrNoScores = errors.New("building: no scores")
)
