package api

import (
	"net/http"
	"strconv"

	"github.com/nerrad567/ecobuild-core/internal/audit"
)

// handleListActivity returns the caller's building history, newest first.
//
// Query parameters:
//   - action: saved, updated or deleted
//   - building: one building ID
//   - limit: max results (default 50, max 200)
//   - offset: pagination offset
func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())
	q := r.URL.Query()

	filter := audit.Filter{
		UserID:   p.UserID,
		Action:   q.Get("action"),
		EntityID: q.Get("building"),
	}
	for _, param := range []struct {
		name string
		dst  *int
	}{
		{"limit", &filter.Limit},
		{"offset", &filter.Offset},
	} {
		v := q.Get(param.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, ErrCodeValidation, param.name+" must be a non-negative integer")
			return
		}
		*param.dst = n
	}

	result, err := s.audit.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("list activity failed", "error", err, "user_id", p.UserID)
		writeInternalError(w, "Failed to list activity")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
