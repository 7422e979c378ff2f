package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// schema creates every table and index the tenant state store relies
// on. The fake owns its schema outright (spec.md treats the storage
// back end itself as an external collaborator, but the tables it must
// support are part of this service), so it is applied directly rather
// than through a migration tool.
const schema = `
CREATE TABLE IF NOT EXISTS tenants (
	id            TEXT PRIMARY KEY,
	bot_token     TEXT NOT NULL UNIQUE,
	client_id     TEXT NOT NULL UNIQUE,
	client_secret TEXT NOT NULL,
	public_key    TEXT NOT NULL,
	private_key   TEXT NOT NULL,
	next_id       BIGINT NOT NULL DEFAULT 1,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_tenants_created_at ON tenants (created_at);

CREATE TABLE IF NOT EXISTS guilds (
	tenant_id TEXT NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
	id        TEXT NOT NULL,
	name      TEXT NOT NULL,
	PRIMARY KEY (tenant_id, id)
);

CREATE TABLE IF NOT EXISTS channels (
	tenant_id TEXT NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
	id        TEXT NOT NULL,
	guild_id  TEXT NOT NULL,
	name      TEXT NOT NULL,
	PRIMARY KEY (tenant_id, id)
);

CREATE TABLE IF NOT EXISTS auth_codes (
	code         TEXT PRIMARY KEY,
	tenant_id    TEXT NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
	guild_id     TEXT NOT NULL,
	redirect_uri TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_auth_codes_tenant ON auth_codes (tenant_id);

CREATE TABLE IF NOT EXISTS access_tokens (
	token     TEXT PRIMARY KEY,
	tenant_id TEXT NOT NULL REFERENCES tenants(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_access_tokens_tenant ON access_tokens (tenant_id);

CREATE TABLE IF NOT EXISTS messages (
	tenant_id  TEXT NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
	id         TEXT NOT NULL,
	channel_id TEXT NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (tenant_id, id)
);
CREATE INDEX IF NOT EXISTS idx_messages_tenant_channel_created
	ON messages (tenant_id, channel_id, created_at);

CREATE TABLE IF NOT EXISTS message_edits (
	id         BIGSERIAL PRIMARY KEY,
	tenant_id  TEXT NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
	message_id TEXT NOT NULL,
	payload    JSONB NOT NULL,
	edited_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_message_edits_tenant_message
	ON message_edits (tenant_id, message_id, edited_at);

CREATE TABLE IF NOT EXISTS reactions (
	id         BIGSERIAL PRIMARY KEY,
	tenant_id  TEXT NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
	channel_id TEXT NOT NULL,
	message_id TEXT NOT NULL,
	emoji      TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_reactions_tenant_created ON reactions (tenant_id, created_at);

CREATE TABLE IF NOT EXISTS interaction_responses (
	tenant_id         TEXT NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
	interaction_token TEXT NOT NULL,
	response_id       TEXT NOT NULL,
	payload           JSONB NOT NULL,
	responded_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (tenant_id, interaction_token)
);

CREATE TABLE IF NOT EXISTS followups (
	tenant_id         TEXT NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
	id                TEXT NOT NULL,
	interaction_token TEXT NOT NULL,
	payload           JSONB NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (tenant_id, id)
);
CREATE INDEX IF NOT EXISTS idx_followups_tenant_token_created
	ON followups (tenant_id, interaction_token, created_at);

CREATE TABLE IF NOT EXISTS registered_commands (
	tenant_id     TEXT NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
	id            TEXT NOT NULL,
	guild_id      TEXT NOT NULL,
	payload       JSONB NOT NULL,
	registered_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (tenant_id, id)
);
CREATE INDEX IF NOT EXISTS idx_commands_tenant_guild_registered
	ON registered_commands (tenant_id, guild_id, registered_at);

CREATE TABLE IF NOT EXISTS audit_logs (
	id              BIGSERIAL PRIMARY KEY,
	tenant_id       TEXT REFERENCES tenants(id) ON DELETE CASCADE,
	method          TEXT NOT NULL,
	url             TEXT NOT NULL,
	request_body    TEXT,
	response_status INT NOT NULL,
	response_body   TEXT,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_audit_logs_tenant_created ON audit_logs (tenant_id, created_at);
`

// Migrate applies the schema. Safe to call on every startup; every
// statement is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return err
	}
	log.Info().Msg("schema migration applied")
	return nil
}
