package discordapi

import (
	"net/http"

	"github.com/fakecord/fakecord-api/internal/httpx"
)

type fakeUser struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	GlobalName    string `json:"global_name"`
	Discriminator string `json:"discriminator"`
}

// GetMe implements GET /api/v10/users/@me, returning a synthetic user
// derived from the bearer token's tenant (spec.md §4.3).
func (s *Server) GetMe(w http.ResponseWriter, r *http.Request) {
	tenant, ok := s.requireBearer(w, r)
	if !ok {
		return
	}
	markTenant(r, tenant.ID)

	httpx.WriteJSON(w, http.StatusOK, fakeUser{
		ID:            "fake-user-" + tenant.ID,
		Username:      "fakeuser",
		GlobalName:    "Fake User (" + tenant.ID + ")",
		Discriminator: "0",
	})
}
