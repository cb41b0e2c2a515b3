// Package store persists fusion results so downstream consumers (export,
// dashboards) can query and re-threshold them without re-running the fusion
// pass. Two backends share one interface: SQLite for local runs and Postgres
// for shared deployments.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/laraDundar/pvo-limburg/internal/model"
)

// ResultFilter specifies criteria for listing stored results. Score filters
// re-threshold against the stored raw scores; the scores themselves are never
// discarded at write time.
type ResultFilter struct {
	Countries         []string `json:"countries,omitempty"`
	MinCountryScore   float64  `json:"min_country_score,omitempty"`
	MinSMEProbability float64  `json:"min_sme_probability,omitempty"`
	Limit             int      `json:"limit,omitempty"`
}

// Store defines the persistence interface for fusion results.
type Store interface {
	SaveResults(ctx context.Context, results []model.FusionResult) error
	ListResults(ctx context.Context, filter ResultFilter) ([]model.FusionResult, error)
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn)
	default:
		return nil, eris.Errorf("store: unknown driver %q (want sqlite or postgres)", driver)
	}
}
