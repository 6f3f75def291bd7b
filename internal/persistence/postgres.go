package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"vocalcart/internal/cart"
	apperrors "vocalcart/internal/common/errors"
	"vocalcart/internal/common/logger"
)

// DefaultCartTable is used when the configured table name is empty.
const DefaultCartTable = "cart_snapshots"

var (
	ErrInvalidTableName = errors.New("INVALID_TABLE_NAME")

	tableName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

// PostgresCartStore upserts one JSONB snapshot row per session.
type PostgresCartStore struct {
	db     *sql.DB
	table  string
	logger logger.Logger
}

func NewPostgresCartStore(db *sql.DB, table string, log logger.Logger) (*PostgresCartStore, error) {
	if table == "" {
		table = DefaultCartTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTableName, table)
	}
	return &PostgresCartStore{
		db:     db,
		table:  table,
		logger: logger.ForComponent(log, "persistence.postgres"),
	}, nil
}

// EnsureSchema creates the snapshot table when missing.
func (s *PostgresCartStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			session_id TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			total      INTEGER NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, s.table))
	if err != nil {
		return apperrors.NewDatabaseConnectionFailedError(err)
	}
	return nil
}

func (s *PostgresCartStore) SaveCart(ctx context.Context, sessionID string, snap cart.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return apperrors.NewCartPersistenceFailedError("save", err)
	}

	_, err = s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (session_id, payload, total, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (session_id)
		DO UPDATE SET payload = EXCLUDED.payload, total = EXCLUDED.total, updated_at = NOW()`, s.table),
		sessionID, payload, snap.Total)
	if err != nil {
		return apperrors.NewCartPersistenceFailedError("save", err)
	}

	s.logger.Debug("cart saved", map[string]interface{}{
		"sessionId": sessionID,
		"lines":     len(snap.Items),
		"total":     snap.Total,
	})
	return nil
}

// LoadCart returns nil, nil when the session has no stored cart.
func (s *PostgresCartStore) LoadCart(ctx context.Context, sessionID string) (*cart.Snapshot, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT payload
		FROM %s
		WHERE session_id = $1`, s.table), sessionID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewCartPersistenceFailedError("load", err)
	}

	var snap cart.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, apperrors.NewCartPersistenceFailedError("load", err)
	}
	return &snap, nil
}

func (s *PostgresCartStore) DeleteCart(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE session_id = $1`, s.table), sessionID)
	if err != nil {
		return apperrors.NewCartPersistenceFailedError("delete", err)
	}
	return nil
}
