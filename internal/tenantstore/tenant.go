package tenantstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/fakecord/fakecord-api/internal/tenantmodel"
)

// ChannelInput is a caller-supplied channel within a guild at tenant
// creation. IDs are caller-supplied (not server-generated) so test
// drivers can reference "g"/"c" style fixtures directly afterward.
type ChannelInput struct {
	ID   string
	Name string
}

// GuildInput is a caller-supplied guild within a tenant's fixed
// topology.
type GuildInput struct {
	ID       string
	Name     string
	Channels []ChannelInput
}

// CreateTenantInput is the full set of fields required to create a
// tenant (spec.md §4.4).
type CreateTenantInput struct {
	BotToken     string
	ClientID     string
	ClientSecret string
	PublicKey    string
	PrivateKey   string
	Guilds       []GuildInput
}

// CreateTenant inserts a tenant and its guild/channel topology in one
// transaction. A concurrent creator racing the same bot token or
// client id gets ErrBotTokenInUse / ErrClientIDInUse — the unique
// index is the authority, not an application-side pre-check (spec.md
// §8: "concurrent creators with the same bot token must produce
// exactly one 201 and one 409").
func (s *Store) CreateTenant(ctx context.Context, in CreateTenantInput) (*tenantmodel.Tenant, error) {
	id := uuid.New().String()

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var createdAt time.Time
	err = tx.QueryRow(ctx, `
		INSERT INTO tenants (id, bot_token, client_id, client_secret, public_key, private_key, next_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 1, now())
		RETURNING created_at
	`, id, in.BotToken, in.ClientID, in.ClientSecret, in.PublicKey, in.PrivateKey).Scan(&createdAt)
	if err != nil {
		if constraint, ok := isUniqueViolation(err); ok {
			switch constraint {
			case "tenants_bot_token_key":
				return nil, ErrBotTokenInUse
			case "tenants_client_id_key":
				return nil, ErrClientIDInUse
			}
		}
		return nil, err
	}

	for _, g := range in.Guilds {
		if _, err := tx.Exec(ctx,
			`INSERT INTO guilds (tenant_id, id, name) VALUES ($1, $2, $3)`,
			id, g.ID, g.Name); err != nil {
			return nil, err
		}
		for _, c := range g.Channels {
			if _, err := tx.Exec(ctx,
				`INSERT INTO channels (tenant_id, id, guild_id, name) VALUES ($1, $2, $3, $4)`,
				id, c.ID, g.ID, c.Name); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Str("tenant_id", id).Int("guild_count", len(in.Guilds)).Msg("tenant created")

	return &tenantmodel.Tenant{
		ID:           id,
		BotToken:     in.BotToken,
		ClientID:     in.ClientID,
		ClientSecret: in.ClientSecret,
		PublicKey:    in.PublicKey,
		PrivateKey:   in.PrivateKey,
		NextID:       1,
		CreatedAt:    createdAt,
	}, nil
}

func scanTenant(row pgx.Row) (*tenantmodel.Tenant, error) {
	var t tenantmodel.Tenant
	err := row.Scan(&t.ID, &t.BotToken, &t.ClientID, &t.ClientSecret, &t.PublicKey, &t.PrivateKey, &t.NextID, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const tenantColumns = `id, bot_token, client_id, client_secret, public_key, private_key, next_id, created_at`

// GetTenantByID resolves a tenant by its primary key.
func (s *Store) GetTenantByID(ctx context.Context, id string) (*tenantmodel.Tenant, error) {
	return scanTenant(s.DB.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id))
}

// GetTenantByBotToken resolves a tenant by its bot token.
func (s *Store) GetTenantByBotToken(ctx context.Context, botToken string) (*tenantmodel.Tenant, error) {
	return scanTenant(s.DB.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE bot_token = $1`, botToken))
}

// GetTenantByClientID resolves a tenant by its OAuth client id.
func (s *Store) GetTenantByClientID(ctx context.Context, clientID string) (*tenantmodel.Tenant, error) {
	return scanTenant(s.DB.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE client_id = $1`, clientID))
}

// GetTenantByAccessToken resolves a tenant via the access_tokens join.
func (s *Store) GetTenantByAccessToken(ctx context.Context, token string) (*tenantmodel.Tenant, error) {
	return scanTenant(s.DB.QueryRow(ctx, `
		SELECT t.`+tenantColumns+`
		FROM tenants t
		JOIN access_tokens a ON a.tenant_id = t.id
		WHERE a.token = $1
	`, token))
}

// deleteTenantChildren removes every child row for a tenant, in the
// same batch used by both DeleteTenant and the expiry sweeper.
func deleteTenantChildren(ctx context.Context, tx pgx.Tx, tenantID string) error {
	tables := []string{
		"followups", "interaction_responses", "registered_commands",
		"reactions", "message_edits", "messages",
		"access_tokens", "auth_codes", "audit_logs",
		"channels", "guilds",
	}
	for _, table := range tables {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE tenant_id = $1`, tenantID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteTenant cascades every child row and the tenant row itself in
// one transaction.
func (s *Store) DeleteTenant(ctx context.Context, tenantID string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := deleteTenantChildren(ctx, tx, tenantID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, tenantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

// ResetTenant deletes all mutable rows for a tenant and resets next_id
// to 1, leaving tenant config and guild/channel topology untouched
// (spec.md §4.4, invariant 7).
func (s *Store) ResetTenant(ctx context.Context, tenantID string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	mutable := []string{
		"followups", "interaction_responses", "registered_commands",
		"reactions", "message_edits", "messages",
		"access_tokens", "auth_codes", "audit_logs",
	}
	for _, table := range mutable {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE tenant_id = $1`, tenantID); err != nil {
			return err
		}
	}

	tag, err := tx.Exec(ctx, `UPDATE tenants SET next_id = 1 WHERE id = $1`, tenantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

// GetGuild looks up a single guild belonging to a tenant.
func (s *Store) GetGuild(ctx context.Context, tenantID, guildID string) (*tenantmodel.Guild, error) {
	var g tenantmodel.Guild
	err := s.DB.QueryRow(ctx,
		`SELECT tenant_id, id, name FROM guilds WHERE tenant_id = $1 AND id = $2`,
		tenantID, guildID).Scan(&g.TenantID, &g.ID, &g.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// FirstGuildByID returns the tenant's first guild ordered by id
// ascending, used by the OAuth authorize endpoint.
func (s *Store) FirstGuildByID(ctx context.Context, tenantID string) (*tenantmodel.Guild, error) {
	var g tenantmodel.Guild
	err := s.DB.QueryRow(ctx,
		`SELECT tenant_id, id, name FROM guilds WHERE tenant_id = $1 ORDER BY id ASC LIMIT 1`,
		tenantID).Scan(&g.TenantID, &g.ID, &g.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetChannel looks up a single channel belonging to a tenant.
func (s *Store) GetChannel(ctx context.Context, tenantID, channelID string) (*tenantmodel.Channel, error) {
	var c tenantmodel.Channel
	err := s.DB.QueryRow(ctx,
		`SELECT tenant_id, id, guild_id, name FROM channels WHERE tenant_id = $1 AND id = $2`,
		tenantID, channelID).Scan(&c.TenantID, &c.ID, &c.GuildID, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListStaleTenants returns every tenant created before the cutoff, for
// the expiry sweeper.
func (s *Store) ListStaleTenants(ctx context.Context, cutoff time.Time) ([]tenantmodel.Tenant, error) {
	rows, err := s.DB.Query(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE created_at < $1 ORDER BY created_at`,
		cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tenantmodel.Tenant
	for rows.Next() {
		var t tenantmodel.Tenant
		if err := rows.Scan(&t.ID, &t.BotToken, &t.ClientID, &t.ClientSecret, &t.PublicKey, &t.PrivateKey, &t.NextID, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListTenants returns every tenant ordered by creation time, for the
// test-control browse surface.
func (s *Store) ListTenants(ctx context.Context) ([]tenantmodel.Tenant, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+tenantColumns+` FROM tenants ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tenantmodel.Tenant
	for rows.Next() {
		var t tenantmodel.Tenant
		if err := rows.Scan(&t.ID, &t.BotToken, &t.ClientID, &t.ClientSecret, &t.PublicKey, &t.PrivateKey, &t.NextID, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
