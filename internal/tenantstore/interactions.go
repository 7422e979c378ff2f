package tenantstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fakecord/fakecord-api/internal/tenantmodel"
)

// UpsertInteractionResponse inserts or replaces the single response
// row for an interaction token via INSERT ... ON CONFLICT DO UPDATE —
// at most one row ever exists per (tenant, token) (spec.md §4.1,
// invariant 4). The response id is only assigned on first insert; a
// later PATCH to the same token reuses it.
func (s *Store) UpsertInteractionResponse(ctx context.Context, tenantID, token string, payload map[string]any) (*tenantmodel.InteractionResponse, error) {
	newID, err := s.GenerateID(ctx, tenantID, "resp")
	if err != nil {
		return nil, err
	}

	var ir tenantmodel.InteractionResponse
	err = s.DB.QueryRow(ctx, `
		INSERT INTO interaction_responses (tenant_id, interaction_token, response_id, payload, responded_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (tenant_id, interaction_token) DO UPDATE SET
			payload = EXCLUDED.payload,
			responded_at = EXCLUDED.responded_at
		RETURNING tenant_id, interaction_token, response_id, payload, responded_at
	`, tenantID, token, newID, payload).Scan(&ir.TenantID, &ir.InteractionToken, &ir.ResponseID, &ir.Payload, &ir.RespondedAt)
	if err != nil {
		return nil, err
	}
	return &ir, nil
}

// GetInteractionResponse looks up the response for an interaction
// token, if any.
func (s *Store) GetInteractionResponse(ctx context.Context, tenantID, token string) (*tenantmodel.InteractionResponse, error) {
	var ir tenantmodel.InteractionResponse
	err := s.DB.QueryRow(ctx, `
		SELECT tenant_id, interaction_token, response_id, payload, responded_at
		FROM interaction_responses WHERE tenant_id = $1 AND interaction_token = $2
	`, tenantID, token).Scan(&ir.TenantID, &ir.InteractionToken, &ir.ResponseID, &ir.Payload, &ir.RespondedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ir, nil
}

// AppendFollowup appends a followup message for an interaction token;
// any number are allowed per token.
func (s *Store) AppendFollowup(ctx context.Context, tenantID, token string, payload map[string]any) (*tenantmodel.Followup, error) {
	id, err := s.GenerateID(ctx, tenantID, "followup")
	if err != nil {
		return nil, err
	}

	var f tenantmodel.Followup
	err = s.DB.QueryRow(ctx, `
		INSERT INTO followups (tenant_id, id, interaction_token, payload, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING tenant_id, id, interaction_token, payload, created_at
	`, tenantID, id, token, payload).Scan(&f.TenantID, &f.ID, &f.InteractionToken, &f.Payload, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFollowups returns every followup for an interaction token,
// ordered by created_at.
func (s *Store) ListFollowups(ctx context.Context, tenantID, token string) ([]tenantmodel.Followup, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT tenant_id, id, interaction_token, payload, created_at
		FROM followups
		WHERE tenant_id = $1 AND interaction_token = $2
		ORDER BY created_at, id
	`, tenantID, token)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []tenantmodel.Followup{}
	for rows.Next() {
		var f tenantmodel.Followup
		if err := rows.Scan(&f.TenantID, &f.ID, &f.InteractionToken, &f.Payload, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
