// Package analysis builds prompts for the hosted language model and parses
// its structured replies into building analyses.
//
// Service is the entry point: AnalyzeSustainability scores a BuildingData,
// AnalyzeLocation describes a region and Ask answers a free-form question.
// GeminiClient is the production Generator; tests substitute their own.
//
// Failures are indistinct to callers. Network errors, error
// statuses and malformed output all surface as a Failure carrying one fixed
// message, and the underlying cause is logged.
package analysis
