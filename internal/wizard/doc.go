// Package wizard implements the five-step building description form.
//
// A Draft holds the BuildingData and changes only through FieldUpdate
// commands, one type per form field. ParseFieldUpdate is the boundary that
// turns raw form input into those commands.
//
// A Wizard adds navigation over the steps Basics, Style & Materials,
// Efficiency, Additional Details and Review, the submission to a scoring
// collaborator, and the edit-and-resubmit loop from the results view.
// Navigation is free: every step is reachable from every other.
package wizard
