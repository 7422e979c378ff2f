package tenantstore

import (
	"context"

	"github.com/fakecord/fakecord-api/internal/tenantmodel"
)

// BulkOverwriteCommands replaces the entire (tenant, guild) command set
// in one transaction — a DELETE of the old set followed by inserts of
// the new one — so a concurrent reader sees either the previous set or
// the new set, never a partial state (spec.md §5).
func (s *Store) BulkOverwriteCommands(ctx context.Context, tenantID, guildID string, payloads []map[string]any) ([]tenantmodel.RegisteredCommand, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM registered_commands WHERE tenant_id = $1 AND guild_id = $2`,
		tenantID, guildID); err != nil {
		return nil, err
	}

	out := make([]tenantmodel.RegisteredCommand, 0, len(payloads))
	for _, payload := range payloads {
		id, err := generateID(ctx, tx, tenantID, "cmd")
		if err != nil {
			return nil, err
		}

		var cmd tenantmodel.RegisteredCommand
		err = tx.QueryRow(ctx, `
			INSERT INTO registered_commands (tenant_id, id, guild_id, payload, registered_at)
			VALUES ($1, $2, $3, $4, now())
			RETURNING tenant_id, id, guild_id, payload, registered_at
		`, tenantID, id, guildID, payload).Scan(&cmd.TenantID, &cmd.ID, &cmd.GuildID, &cmd.Payload, &cmd.RegisteredAt)
		if err != nil {
			return nil, err
		}
		out = append(out, cmd)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCommands returns the registered command set for a (tenant,
// guild) pair, ordered by registration time.
func (s *Store) ListCommands(ctx context.Context, tenantID, guildID string) ([]tenantmodel.RegisteredCommand, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT tenant_id, id, guild_id, payload, registered_at
		FROM registered_commands
		WHERE tenant_id = $1 AND guild_id = $2
		ORDER BY registered_at, id
	`, tenantID, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []tenantmodel.RegisteredCommand{}
	for rows.Next() {
		var c tenantmodel.RegisteredCommand
		if err := rows.Scan(&c.TenantID, &c.ID, &c.GuildID, &c.Payload, &c.RegisteredAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
