package testcontrol

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fakecord/fakecord-api/internal/httpx"
	"github.com/fakecord/fakecord-api/internal/signer"
)

type sendInteractionReq struct {
	WebhookURL  string         `json:"webhookUrl"`
	Interaction map[string]any `json:"interaction"`
}

type sendInteractionResp struct {
	StatusCode int `json:"statusCode"`
	Body       any `json:"body"`
}

// SendSignedInteraction implements the test-control signed-interaction
// delivery (spec.md §4.5). The interaction is serialized to JSON once;
// those exact bytes are both signed and POSTed, so the signature
// always verifies against what the system under test receives.
func (s *Server) SendSignedInteraction(w http.ResponseWriter, r *http.Request) {
	tenant, ok := s.resolveTenant(w, r)
	if !ok {
		return
	}

	var req sendInteractionReq
	if !httpx.DecodeJSONBody(r, &req) {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.WebhookURL == "" {
		httpx.Err(w, http.StatusBadRequest, "Missing required field: webhookUrl")
		return
	}

	body, err := json.Marshal(req.Interaction)
	if err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	timestamp := strconv.FormatInt(s.Now().Unix(), 10)
	signature, err := signer.Sign(tenant.PrivateKey, timestamp, string(body))
	if err != nil {
		httpx.Message(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp, err := s.HTTPClient.R().
		SetContext(r.Context()).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Signature-Ed25519", signature).
		SetHeader("X-Signature-Timestamp", timestamp).
		SetBody(body).
		Post(req.WebhookURL)
	if err != nil {
		httpx.Err(w, http.StatusBadGateway, "Webhook request failed: "+err.Error())
		return
	}

	var parsedBody any
	if jsonErr := json.Unmarshal(resp.Body(), &parsedBody); jsonErr != nil {
		parsedBody = string(resp.Body())
	}

	httpx.WriteJSON(w, http.StatusOK, sendInteractionResp{
		StatusCode: resp.StatusCode(),
		Body:       parsedBody,
	})
}
