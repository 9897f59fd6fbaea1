// Package results renders a sustainability analysis for display and
// persists it for the signed-in user.
//
// View is a small state machine with idle, loading, error and success
// states. Persister never fails the caller: when the store is unreachable
// the outcome carries a local placeholder ID and Degraded is set.
package results
