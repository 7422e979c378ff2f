package tenantstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fakecord/fakecord-api/internal/tenantmodel"
)

// SendMessage persists payload verbatim as a new message and returns
// the generated id.
func (s *Store) SendMessage(ctx context.Context, tenantID, channelID string, payload map[string]any) (*tenantmodel.Message, error) {
	id, err := s.GenerateID(ctx, tenantID, "msg")
	if err != nil {
		return nil, err
	}

	var m tenantmodel.Message
	err = s.DB.QueryRow(ctx, `
		INSERT INTO messages (tenant_id, id, channel_id, payload, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING tenant_id, id, channel_id, payload, created_at
	`, tenantID, id, channelID, payload).Scan(&m.TenantID, &m.ID, &m.ChannelID, &m.Payload, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// EditMessage captures the message's current payload into
// message_edits, then overwrites it, in one transaction: the pre-image
// is in message_edits if and only if the payload has been updated
// (spec.md §5). Returns ErrNotFound if the message does not exist —
// the pre-image INSERT ... SELECT affecting zero rows is the signal
// (a zero-row UPDATE is also mapped to ErrNotFound), not a separate
// read into application memory.
func (s *Store) EditMessage(ctx context.Context, tenantID, messageID string, newPayload map[string]any) (*tenantmodel.Message, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO message_edits (tenant_id, message_id, payload, edited_at)
		SELECT tenant_id, id, payload, now() FROM messages
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, messageID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	var m tenantmodel.Message
	err = tx.QueryRow(ctx, `
		UPDATE messages SET payload = $3
		WHERE tenant_id = $1 AND id = $2
		RETURNING tenant_id, id, channel_id, payload, created_at
	`, tenantID, messageID, newPayload).Scan(&m.TenantID, &m.ID, &m.ChannelID, &m.Payload, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMessage looks up a single message.
func (s *Store) GetMessage(ctx context.Context, tenantID, messageID string) (*tenantmodel.Message, error) {
	var m tenantmodel.Message
	err := s.DB.QueryRow(ctx, `
		SELECT tenant_id, id, channel_id, payload, created_at
		FROM messages WHERE tenant_id = $1 AND id = $2
	`, tenantID, messageID).Scan(&m.TenantID, &m.ID, &m.ChannelID, &m.Payload, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMessagesByChannel returns every message in a channel, ordered by
// created_at, each with its edit history attached oldest-first (joined
// from message_edits on (tenant_id, message_id)).
func (s *Store) ListMessagesByChannel(ctx context.Context, tenantID, channelID string) ([]tenantmodel.MessageWithHistory, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT tenant_id, id, channel_id, payload, created_at
		FROM messages
		WHERE tenant_id = $1 AND channel_id = $2
		ORDER BY created_at, id
	`, tenantID, channelID)
	if err != nil {
		return nil, err
	}

	var out []tenantmodel.MessageWithHistory
	for rows.Next() {
		var m tenantmodel.Message
		if err := rows.Scan(&m.TenantID, &m.ID, &m.ChannelID, &m.Payload, &m.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, tenantmodel.MessageWithHistory{Message: m, EditHistory: []tenantmodel.MessageEdit{}})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range out {
		history, err := s.listMessageEdits(ctx, tenantID, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].EditHistory = history
	}
	return out, nil
}

func (s *Store) listMessageEdits(ctx context.Context, tenantID, messageID string) ([]tenantmodel.MessageEdit, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, tenant_id, message_id, payload, edited_at
		FROM message_edits
		WHERE tenant_id = $1 AND message_id = $2
		ORDER BY edited_at, id
	`, tenantID, messageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	edits := []tenantmodel.MessageEdit{}
	for rows.Next() {
		var e tenantmodel.MessageEdit
		if err := rows.Scan(&e.ID, &e.TenantID, &e.MessageID, &e.Payload, &e.EditedAt); err != nil {
			return nil, err
		}
		edits = append(edits, e)
	}
	return edits, rows.Err()
}

// AddReaction appends a reaction row without checking that the
// channel or message exists; the handler resolves channel/message
// first to produce the right 404 body.
func (s *Store) AddReaction(ctx context.Context, tenantID, channelID, messageID, emoji string) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO reactions (tenant_id, channel_id, message_id, emoji, created_at)
		VALUES ($1, $2, $3, $4, now())
	`, tenantID, channelID, messageID, emoji)
	return err
}

// ListReactions returns every reaction recorded for a tenant, ordered
// by created_at (the (tenant_id, created_at) index in spec.md §4.1).
func (s *Store) ListReactions(ctx context.Context, tenantID string) ([]tenantmodel.Reaction, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, tenant_id, channel_id, message_id, emoji, created_at
		FROM reactions WHERE tenant_id = $1 ORDER BY created_at, id
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []tenantmodel.Reaction{}
	for rows.Next() {
		var r tenantmodel.Reaction
		if err := rows.Scan(&r.ID, &r.TenantID, &r.ChannelID, &r.MessageID, &r.Emoji, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
