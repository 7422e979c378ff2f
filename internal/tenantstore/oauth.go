package tenantstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fakecord/fakecord-api/internal/tenantmodel"
)

// ErrAuthCodeNotFound indicates a code was never issued or has already
// been consumed.
var ErrAuthCodeNotFound = errors.New("tenantstore: auth code not found")

// CreateAuthCode issues a fresh single-use authorization code.
func (s *Store) CreateAuthCode(ctx context.Context, tenantID, guildID, redirectURI string) (*tenantmodel.AuthCode, error) {
	code := uuid.New().String()
	if _, err := s.DB.Exec(ctx,
		`INSERT INTO auth_codes (code, tenant_id, guild_id, redirect_uri) VALUES ($1, $2, $3, $4)`,
		code, tenantID, guildID, redirectURI); err != nil {
		return nil, err
	}
	return &tenantmodel.AuthCode{Code: code, TenantID: tenantID, GuildID: guildID, RedirectURI: redirectURI}, nil
}

// ConsumeAuthCode atomically reads and deletes an auth code in a
// single statement ("DELETE ... RETURNING"), so two concurrent
// redemptions of the same code can never both succeed (spec.md §5,
// §9: "do not split into separate read and delete without wrapping in
// a transaction").
func (s *Store) ConsumeAuthCode(ctx context.Context, code string) (*tenantmodel.AuthCode, error) {
	var ac tenantmodel.AuthCode
	err := s.DB.QueryRow(ctx,
		`DELETE FROM auth_codes WHERE code = $1 RETURNING code, tenant_id, guild_id, redirect_uri`,
		code).Scan(&ac.Code, &ac.TenantID, &ac.GuildID, &ac.RedirectURI)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAuthCodeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ac, nil
}

// CreateAccessToken issues a bearer token resolving back to tenantID.
func (s *Store) CreateAccessToken(ctx context.Context, tenantID string) (string, error) {
	token := uuid.New().String()
	if _, err := s.DB.Exec(ctx,
		`INSERT INTO access_tokens (token, tenant_id) VALUES ($1, $2)`,
		token, tenantID); err != nil {
		return "", err
	}
	return token, nil
}
