package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// queryTimeout bounds each statement issued through the weather.Store methods,
// which carry no context of their own.
const queryTimeout = 5 * time.Second

const schemaSQL = `
CREATE TABLE IF NOT EXISTS weather_reports (
    id           BIGSERIAL PRIMARY KEY,
    location_key TEXT        NOT NULL,
    fetched_at   TIMESTAMPTZ NOT NULL,
    report       JSONB       NOT NULL
);
CREATE INDEX IF NOT EXISTS weather_reports_key_fetched_idx
    ON weather_reports (location_key, fetched_at DESC);
CREATE TABLE IF NOT EXISTS weather_settings (
    name  TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`

const insertReportSQL = `
INSERT INTO weather_reports (location_key, fetched_at, report)
VALUES ($1, $2, $3)`

// trimByCountSQL keeps the newest $2 reports of a location.
const trimByCountSQL = `
DELETE FROM weather_reports
WHERE location_key = $1
  AND id NOT IN (
    SELECT id FROM weather_reports
    WHERE location_key = $1
    ORDER BY fetched_at DESC, id DESC
    LIMIT $2
  )`

// trimByAgeSQL drops reports older than $2 but never the newest one.
const trimByAgeSQL = `
DELETE FROM weather_reports
WHERE location_key = $1
  AND fetched_at < $2
  AND id <> (
    SELECT id FROM weather_reports
    WHERE location_key = $1
    ORDER BY fetched_at DESC, id DESC
    LIMIT 1
  )`

const latestReportSQL = `
SELECT report FROM weather_reports
WHERE location_key = $1
ORDER BY fetched_at DESC, id DESC
LIMIT 1`

const rangeReportsSQL = `
SELECT report FROM weather_reports
WHERE location_key = $1 AND fetched_at >= $2 AND fetched_at <= $3
ORDER BY fetched_at, id`

const upsertLastCitySQL = `
INSERT INTO weather_settings (name, value) VALUES ('last_city', $1)
ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value`

const lastCitySQL = `SELECT value FROM weather_settings WHERE name = 'last_city'`

// PostgresStore persists reports and the remembered city in PostgreSQL, so
// both survive restarts. Retention follows the same rules as MemoryStore.
type PostgresStore struct {
	pool *pgxpool.Pool

	maxHistory int
	maxAge     time.Duration

	now func() time.Time
}

// NewPostgresStore connects to databaseURL and creates the tables if needed.
func NewPostgresStore(ctx context.Context, databaseURL string, maxHistory int, maxAge time.Duration) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{
		pool:       pool,
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}, nil
}

// Close releases the pool resources.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// SaveReport inserts a report and enforces retention in one batch. Failures
// are logged; the lookup that produced the report has already succeeded.
func (s *PostgresStore) SaveReport(key string, report weather.Report) {
	payload, err := json.Marshal(report)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("store: encode report")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	batch := &pgx.Batch{}
	batch.Queue(insertReportSQL, key, report.FetchedAt, payload)
	if s.maxHistory > 0 {
		batch.Queue(trimByCountSQL, key, s.maxHistory)
	}
	if s.maxAge > 0 {
		batch.Queue(trimByAgeSQL, key, s.now().Add(-s.maxAge))
	}

	res := s.pool.SendBatch(ctx, batch)
	defer res.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := res.Exec(); err != nil {
			log.Error().Err(err).Str("key", key).Msg("store: save report")
			return
		}
	}
}

// GetLatest returns the most recent report for a location.
func (s *PostgresStore) GetLatest(key string) (weather.Report, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var payload []byte
	if err := s.pool.QueryRow(ctx, latestReportSQL, key).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return weather.Report{}, ErrNotFound
		}
		return weather.Report{}, err
	}

	var report weather.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return weather.Report{}, err
	}
	return report, nil
}

// GetRange returns all reports for a location fetched between from and to (inclusive).
func (s *PostgresStore) GetRange(key string, from, to time.Time) ([]weather.Report, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, rangeReportsSQL, key, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []weather.Report
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var report weather.Report
		if err := json.Unmarshal(payload, &report); err != nil {
			return nil, err
		}
		result = append(result, report)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// SetLastCity remembers the most recently looked-up city.
func (s *PostgresStore) SetLastCity(city string) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if _, err := s.pool.Exec(ctx, upsertLastCitySQL, city); err != nil {
		log.Error().Err(err).Str("city", city).Msg("store: save last city")
	}
}

// LastCity returns the remembered city, if any.
func (s *PostgresStore) LastCity() (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var city string
	if err := s.pool.QueryRow(ctx, lastCitySQL).Scan(&city); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Error().Err(err).Msg("store: load last city")
		}
		return "", false
	}
	return city, city != ""
}

var _ weather.Store = (*PostgresStore)(nil)
