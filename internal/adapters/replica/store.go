package replica

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hearthgrid/smarthouse/internal/domain"
)

const upsertSQL = `
INSERT INTO devices (
    id, name, type, description, location, connection_info, tags, created_at, updated_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
)
ON CONFLICT (id)
DO UPDATE SET
    name            = EXCLUDED.name,
    type            = EXCLUDED.type,
    description     = EXCLUDED.description,
    location        = EXCLUDED.location,
    connection_info = EXCLUDED.connection_info,
    tags            = EXCLUDED.tags,
    updated_at      = NOW()`

// Store is the replica row writer. Both operations are idempotent: a
// redelivered event converges to the same final state, and an upsert
// overwrites every mutable field rather than merging, so a partial snapshot
// blanks out previously populated fields.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Upsert(ctx context.Context, snapshot domain.DeviceSnapshot) error {
	info, err := marshalConnectionInfo(snapshot.ConnectionInfo)
	if err != nil {
		return err
	}
	tags := snapshot.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err = s.pool.Exec(ctx, upsertSQL,
		snapshot.ID,
		snapshot.Name,
		snapshot.Type,
		nullIfEmpty(snapshot.Description),
		nullIfEmpty(snapshot.Location),
		info,
		tags,
	)
	if err != nil {
		return fmt.Errorf("upsert device %d: %w", snapshot.ID, err)
	}
	return nil
}

// Delete removes the replica row; a missing id is a no-op so that
// redelivered deletions stay idempotent.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM devices WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete device %d: %w", id, err)
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM devices WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check device %d: %w", id, err)
	}
	return exists, nil
}

func marshalConnectionInfo(info map[string]any) ([]byte, error) {
	if info == nil {
		info = map[string]any{}
	}
	raw, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("marshal connection info: %w", err)
	}
	return raw, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
