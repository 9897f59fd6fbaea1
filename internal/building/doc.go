// Package building defines the building description collected by the wizard,
// the sustainability analysis returned for it, and their persistence.
//
// Key types:
//   - BuildingData: the canonical wizard shape
//   - AnalysisResult: score, summary and recommendations in four fixed categories
//   - LocationAnalysis: regional context for a location
//   - SavedBuilding: a persisted BuildingData with its latest analysis
//
// Buildings are stored as JSON documents by SQLiteRepository. Option labels
// live in catalogue.go and are the only values accepted for choice fields.
package building
