package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/nook/internal/errors"
	"github.com/hpungsan/nook/internal/workspace"
)

// DocumentVersion tags each stored collection document with the shape it
// was written in.
const DocumentVersion = 1

// Store keeps workspace collections as JSON documents keyed by name.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewStore returns a Store over an initialized database.
func NewStore(db *sql.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger, now: time.Now}
}

// Load returns the collection stored under key. It reports false when
// nothing is stored. A malformed document is normalized, never rejected.
func (s *Store) Load(ctx context.Context, key string) (*workspace.Collection, bool, error) {
	var document string
	var version int
	err := s.db.QueryRowContext(ctx,
		`SELECT document, schema_version FROM collections WHERE key = ?`, key,
	).Scan(&document, &version)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return workspace.NewCollection(), false, nil
		}
		if ctx.Err() != nil {
			return nil, false, errors.NewCancelled("load")
		}
		return nil, false, errors.NewInternal(err)
	}

	c, repaired := workspace.DecodeCollection([]byte(document))
	if repaired {
		s.logger.Warn("stored collection was malformed and has been normalized",
			zap.String("key", key),
			zap.Int("schema_version", version),
			zap.Int("workspaces", len(c.Workspaces)))
	}
	return c, true, nil
}

// Save writes c under key, replacing any previous document.
func (s *Store) Save(ctx context.Context, key string, c *workspace.Collection) error {
	data, err := workspace.EncodeCollection(c)
	if err != nil {
		return errors.NewInternal(err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO collections (key, document, schema_version, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			document = excluded.document,
			schema_version = excluded.schema_version,
			updated_at = excluded.updated_at
	`, key, string(data), DocumentVersion, s.now().UnixMilli())
	if err != nil {
		if ctx.Err() != nil {
			return errors.NewCancelled("save")
		}
		return errors.NewInternal(err)
	}
	return nil
}
