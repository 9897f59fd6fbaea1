// Package backend is an HTTP client for the EcoBuild API.
//
// It is used by the analyze command to sign in and store results on a
// running server. Client implements results.Store, so a CLI run persists
// through the same degraded-mode policy as the server-side wizard.
//
// Error bodies of the form {"error": "..."} are returned as *APIError whose
// message is the server's text unchanged, e.g. "Incorrect password".
package backend
