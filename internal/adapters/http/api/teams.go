package api

import (
	"net/http"
	"net/url"
	"strings"
)

// TeamsHandler handles team lookups.
type TeamsHandler struct {
	deps TeamsDependencies
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps TeamsDependencies) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

// HandleGetTeam handles GET /teams/{team} requests. The name is path-escaped
// so teams like "Texas A&M" or "UNC/Wilmington" round-trip.
func (h *TeamsHandler) HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_team"
	if !allow(w, r, op, http.MethodGet) {
		return
	}
	escaped := strings.TrimPrefix(r.URL.EscapedPath(), "/teams/")
	if escaped == "" || strings.Contains(escaped, "/") {
		writeError(w, WrapKind(op, ErrBadRequest, errMissingTeam))
		return
	}
	team, err := url.PathUnescape(escaped)
	if err != nil || strings.TrimSpace(team) == "" {
		writeError(w, WrapKind(op, ErrBadRequest, errMissingTeam))
		return
	}
	tb, err := h.deps.TeamBadges(r.Context(), team)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, tb)
}
