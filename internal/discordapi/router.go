package discordapi

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the ten Discord-shaped endpoints onto r, under
// /oauth2 and /api/v10 as spec.md §6 reserves them. The catch-all 404
// is registered once, on the top-level router, by cmd/server/main.go.
func (s *Server) Routes(r chi.Router) {
	r.Get("/oauth2/authorize", s.Authorize)
	r.Post("/api/v10/oauth2/token", s.TokenExchange)
	r.Get("/api/v10/users/@me", s.GetMe)
	r.Get("/api/v10/channels/{id}", s.GetChannel)
	r.Post("/api/v10/channels/{id}/messages", s.SendMessage)
	r.Patch("/api/v10/channels/{ch}/messages/{msg}", s.EditMessage)
	r.Put("/api/v10/channels/{ch}/messages/{msg}/reactions/{emoji}/@me", s.AddReaction)
	r.Patch("/api/v10/webhooks/{clientId}/{token}/messages/@original", s.EditInteractionResponse)
	r.Post("/api/v10/webhooks/{clientId}/{token}", s.SendFollowup)
	r.Put("/api/v10/applications/{clientId}/guilds/{guildId}/commands", s.BulkOverwriteCommands)
}
