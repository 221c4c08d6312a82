// Package repository persists finished-match records to PostgreSQL.
// The archive is optional; a server without a database URL runs
// sessions normally and simply keeps no history.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/landsraad/dune-server-go/internal/config"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS match_results (
    id         BIGSERIAL PRIMARY KEY,
    game_id    TEXT        NOT NULL,
    winner     TEXT        NOT NULL DEFAULT '',
    factions   TEXT[]      NOT NULL DEFAULT '{}',
    turns      INT         NOT NULL,
    started_at TIMESTAMPTZ NOT NULL,
    ended_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS match_results_game_id_idx ON match_results (game_id);
`

// MatchResult is one finished session's outcome.
type MatchResult struct {
	GameID    string
	Winner    string
	Factions  []string
	Turns     int
	StartedAt time.Time
	EndedAt   time.Time
}

// MatchStore writes and reads match results. A nil *MatchStore is
// valid and ignores every call, so callers never need to branch on
// whether archiving is configured.
type MatchStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewMatchStore connects to the archive database. An empty URL returns
// a nil store.
func NewMatchStore(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*MatchStore, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}

	logger.Info("match archive connected",
		zap.Int32("max_conns", poolCfg.MaxConns),
	)
	return &MatchStore{pool: pool, logger: logger}, nil
}

// SaveResult records one finished match.
func (s *MatchStore) SaveResult(ctx context.Context, r MatchResult) error {
	if s == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO match_results (game_id, winner, factions, turns, started_at, ended_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		r.GameID, r.Winner, r.Factions, r.Turns, r.StartedAt, r.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting match result: %w", err)
	}
	return nil
}

// RecentResults returns the newest results, most recent first.
func (s *MatchStore) RecentResults(ctx context.Context, limit int) ([]MatchResult, error) {
	if s == nil {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT game_id, winner, factions, turns, started_at, ended_at
		 FROM match_results ORDER BY ended_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying match results: %w", err)
	}
	defer rows.Close()

	var out []MatchResult
	for rows.Next() {
		var r MatchResult
		if err := rows.Scan(&r.GameID, &r.Winner, &r.Factions, &r.Turns, &r.StartedAt, &r.EndedAt); err != nil {
			return nil, fmt.Errorf("scanning match result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the connection pool.
func (s *MatchStore) Close() {
	if s == nil {
		return
	}
	s.pool.Close()
}
