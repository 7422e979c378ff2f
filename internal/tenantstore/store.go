// Package tenantstore is the Tenant State Store (spec.md §4.1): the
// persistent tables and indexes backing every tenant, its guild/channel
// topology, auth codes, access tokens, messages, edits, reactions,
// interaction responses, followups, registered commands, and audit
// logs, plus the monotonic per-tenant id counter.
//
// Every write that spec.md calls out as an atomic batch (tenant
// creation, tenant deletion, reset, edit-message, bulk-overwrite) is a
// single pgx transaction here; every "DELETE ... RETURNING" or
// "UPDATE ... RETURNING" the spec asks for is one round-trip, not a
// separate read-then-write from the application.
package tenantstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sentinel errors returned by store operations; handlers map these to
// the HTTP error shapes in spec.md §7.
var (
	ErrNotFound      = errors.New("tenantstore: not found")
	ErrBotTokenInUse = errors.New("tenantstore: botToken already in use")
	ErrClientIDInUse = errors.New("tenantstore: clientId already in use")
)

const uniqueViolation = "23505"

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, letting every
// store method run either standalone or as part of a caller-managed
// transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the Tenant State Store.
type Store struct {
	DB *pgxpool.Pool
}

// New wires a Store to a connection pool.
func New(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// generateID atomically increments a tenant's id counter and returns
// "{prefix}-{k}" where k is the post-increment value minus one (the
// counter's value before this call, so a fresh tenant's first id is
// "{prefix}-1"). Run against the
// pool for a standalone call, or against a transaction when the
// generated id must commit atomically alongside other writes (e.g.
// bulk command overwrite).
func generateID(ctx context.Context, q Querier, tenantID, prefix string) (string, error) {
	var nextID int64
	err := q.QueryRow(ctx,
		`UPDATE tenants SET next_id = next_id + 1 WHERE id = $1 RETURNING next_id`,
		tenantID).Scan(&nextID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return formatID(prefix, nextID-1), nil
}

// GenerateID is the exported form of generateID for callers (handlers,
// other packages) that need a fresh id outside of a store-internal
// batch, e.g. the message-send endpoint.
func (s *Store) GenerateID(ctx context.Context, tenantID, prefix string) (string, error) {
	return generateID(ctx, s.DB, tenantID, prefix)
}

func isUniqueViolation(err error) (column string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}
