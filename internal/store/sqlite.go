package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/laraDundar/pvo-limburg/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS fusion_results (
	id               TEXT PRIMARY KEY,
	article_id       TEXT NOT NULL,
	country          TEXT NOT NULL,
	country_score    REAL NOT NULL,
	country_evidence TEXT NOT NULL DEFAULT '[]',
	sme_probability  REAL NOT NULL,
	sme_label        INTEGER NOT NULL,
	created_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_fusion_results_article_id ON fusion_results(article_id);
CREATE INDEX IF NOT EXISTS idx_fusion_results_country ON fusion_results(country);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveResults inserts one row per result in a single transaction. A re-run
// appends fresh rows; stored results are never mutated in place.
func (s *SQLiteStore) SaveResults(ctx context.Context, results []model.FusionResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, r := range results {
		evidence, err := json.Marshal(r.CountryEvidence)
		if err != nil {
			return eris.Wrapf(err, "sqlite: marshal evidence for %s", r.ArticleID)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO fusion_results (id, article_id, country, country_score, country_evidence, sme_probability, sme_label, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), r.ArticleID, r.Country, r.CountryScore, string(evidence), r.SMEProbability, r.SMELabel, now,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert result for %s", r.ArticleID)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit results")
}

// ListResults returns stored results matching the filter, newest first.
func (s *SQLiteStore) ListResults(ctx context.Context, filter ResultFilter) ([]model.FusionResult, error) {
	query := `SELECT article_id, country, country_score, country_evidence, sme_probability, sme_label FROM fusion_results WHERE 1=1`
	var args []any

	if len(filter.Countries) > 0 {
		query += ` AND country IN (?` + strings.Repeat(",?", len(filter.Countries)-1) + `)`
		for _, cc := range filter.Countries {
			args = append(args, cc)
		}
	}
	if filter.MinCountryScore > 0 {
		query += ` AND country_score >= ?`
		args = append(args, filter.MinCountryScore)
	}
	if filter.MinSMEProbability > 0 {
		query += ` AND sme_probability >= ?`
		args = append(args, filter.MinSMEProbability)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list results")
	}
	defer rows.Close()

	var results []model.FusionResult
	for rows.Next() {
		var r model.FusionResult
		var evidence string
		if err := rows.Scan(&r.ArticleID, &r.Country, &r.CountryScore, &evidence, &r.SMEProbability, &r.SMELabel); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan result")
		}
		if err := json.Unmarshal([]byte(evidence), &r.CountryEvidence); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal evidence for %s", r.ArticleID)
		}
		results = append(results, r)
	}
	return results, eris.Wrap(rows.Err(), "sqlite: iterate results")
}
