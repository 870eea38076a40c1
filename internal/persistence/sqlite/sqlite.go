package sqlite

import (
	"log/slog"
	"time"
)

// Storage bundles the SQLite-backed repositories that share one connection pool.
type Storage struct {
	*DirectoryRepository
	*SessionRepository

	pool   *ConnectionPool
	logger *slog.Logger
}

// Open connects to the database at dsn. Call Migrate before first use.
func Open(dsn string) (*Storage, error) {
	return OpenWithLogger(dsn, nil)
}

// OpenWithLogger is like Open but reports migrations through logger.
func OpenWithLogger(dsn string, logger *slog.Logger) (*Storage, error) {
	pool, err := NewConnectionPool(DefaultPoolConfig(dsn))
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	now := func() time.Time { return time.Now().UTC() }
	return &Storage{
		DirectoryRepository: NewDirectoryRepository(pool, now),
		SessionRepository:   NewSessionRepository(pool, now),
		pool:                pool,
		logger:              logger.With("component", "sqlite"),
	}, nil
}

// Close releases the underlying connection pool.
func (s *Storage) Close() error {
	return s.pool.Close()
}

// Pool exposes the connection pool shared by the repositories.
func (s *Storage) Pool() *ConnectionPool {
	return s.pool
}

const timestampLayout = time.RFC3339Nano

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(value string) (time.Time, error) {
	return time.Parse(timestampLayout, value)
}
