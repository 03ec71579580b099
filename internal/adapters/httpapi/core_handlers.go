package httpapi

import (
	"net/http"

	"github.com/apa-portal/member-portal/internal/app/sessions"
)

// MemberGate redirects to the dashboard when a session is present and to the login page otherwise.
func (s *Server) MemberGate(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, sessions.Destination(ResolutionFromContext(r.Context())), http.StatusFound)
}

func (s *Server) AuthStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, AuthStatusResponse{Authenticated: false})
		return
	}
	writeJSON(w, http.StatusOK, AuthStatusResponse{Authenticated: true, Member: memberSessionFromDomain(sess)})
}

// RewardCatalog lists active reward types, cheapest first. A store fault is
// reported with its message as {"error": "..."} and a 500.
func (s *Server) RewardCatalog(w http.ResponseWriter, r *http.Request) {
	rts, err := s.Rewards.ListCatalog(r.Context())
	if err != nil {
		s.log.ErrorContext(r.Context(), "reward catalog query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, CatalogErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rewardTypesFromDomain(rts))
}
