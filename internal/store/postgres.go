package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/laraDundar/pvo-limburg/internal/model"
)

// Pool is the subset of pgxpool.Pool the store needs, satisfied by pgxmock
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using a pgx connection pool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool; used by tests.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS fusion_results (
	id               UUID PRIMARY KEY,
	article_id       TEXT NOT NULL,
	country          TEXT NOT NULL,
	country_score    DOUBLE PRECISION NOT NULL,
	country_evidence JSONB NOT NULL DEFAULT '[]',
	sme_probability  DOUBLE PRECISION NOT NULL,
	sme_label        SMALLINT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_fusion_results_article_id ON fusion_results(article_id);
CREATE INDEX IF NOT EXISTS idx_fusion_results_country ON fusion_results(country);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// SaveResults inserts one row per result. A re-run appends fresh rows;
// stored results are never mutated in place.
func (s *PostgresStore) SaveResults(ctx context.Context, results []model.FusionResult) error {
	now := time.Now().UTC()
	for _, r := range results {
		evidence, err := json.Marshal(r.CountryEvidence)
		if err != nil {
			return eris.Wrapf(err, "postgres: marshal evidence for %s", r.ArticleID)
		}
		_, err = s.pool.Exec(ctx,
			`INSERT INTO fusion_results (id, article_id, country, country_score, country_evidence, sme_probability, sme_label, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.New().String(), r.ArticleID, r.Country, r.CountryScore, string(evidence), r.SMEProbability, r.SMELabel, now,
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: insert result for %s", r.ArticleID)
		}
	}
	return nil
}

// ListResults returns stored results matching the filter, newest first.
func (s *PostgresStore) ListResults(ctx context.Context, filter ResultFilter) ([]model.FusionResult, error) {
	query := `SELECT article_id, country, country_score, country_evidence, sme_probability, sme_label FROM fusion_results WHERE 1=1`
	var args []any

	if len(filter.Countries) > 0 {
		args = append(args, filter.Countries)
		query += fmt.Sprintf(` AND country = ANY($%d)`, len(args))
	}
	if filter.MinCountryScore > 0 {
		args = append(args, filter.MinCountryScore)
		query += fmt.Sprintf(` AND country_score >= $%d`, len(args))
	}
	if filter.MinSMEProbability > 0 {
		args = append(args, filter.MinSMEProbability)
		query += fmt.Sprintf(` AND sme_probability >= $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list results")
	}
	defer rows.Close()

	var results []model.FusionResult
	for rows.Next() {
		var r model.FusionResult
		var evidence []byte
		if err := rows.Scan(&r.ArticleID, &r.Country, &r.CountryScore, &evidence, &r.SMEProbability, &r.SMELabel); err != nil {
			return nil, eris.Wrap(err, "postgres: scan result")
		}
		if err := json.Unmarshal(evidence, &r.CountryEvidence); err != nil {
			return nil, eris.Wrapf(err, "postgres: unmarshal evidence for %s", r.ArticleID)
		}
		results = append(results, r)
	}
	return results, eris.Wrap(rows.Err(), "postgres: iterate results")
}
