package tenantstore

import (
	"context"

	"github.com/fakecord/fakecord-api/internal/tenantmodel"
)

// InsertAuditLog appends one audit-log row. tenantID may be nil when
// the request never resolved to a tenant.
func (s *Store) InsertAuditLog(ctx context.Context, entry tenantmodel.AuditLogEntry) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO audit_logs (tenant_id, method, url, request_body, response_status, response_body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
	`, entry.TenantID, entry.Method, entry.URL, entry.RequestBody, entry.ResponseStatus, entry.ResponseBody)
	return err
}

// ListAuditLogs returns a page of audit-log rows for a tenant ordered
// by id (the autoincrement id is the total order per spec.md §4.6),
// plus the total row count for the tenant.
func (s *Store) ListAuditLogs(ctx context.Context, tenantID string, limit, offset int) ([]tenantmodel.AuditLogEntry, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx,
		`SELECT count(*) FROM audit_logs WHERE tenant_id = $1`, tenantID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, `
		SELECT id, tenant_id, method, url, request_body, response_status, response_body, created_at
		FROM audit_logs
		WHERE tenant_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3
	`, tenantID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []tenantmodel.AuditLogEntry{}
	for rows.Next() {
		var e tenantmodel.AuditLogEntry
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Method, &e.URL, &e.RequestBody, &e.ResponseStatus, &e.ResponseBody, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

// DeleteGlobalAuditLogs clears audit-log rows that never resolved to a
// tenant (tenant_id IS NULL) — the explicit admin action spec.md §3
// Ownership calls for, since nothing else ever clears them. Returns
// the number of rows removed.
func (s *Store) DeleteGlobalAuditLogs(ctx context.Context) (int64, error) {
	tag, err := s.DB.Exec(ctx, `DELETE FROM audit_logs WHERE tenant_id IS NULL`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
