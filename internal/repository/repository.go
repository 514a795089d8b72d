package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrUnsupportedDriver is returned by Open for an unknown driver name.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// sqlitePragmas keep concurrent writers from failing fast with SQLITE_BUSY.
const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"

// NewPool は PostgreSQL 接続プールを生成する
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// OpenSQLite opens (creating if needed) the SQLite database file at path.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite", path+sep+sqlitePragmas)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Store bundles the repositories of one backing database.
type Store struct {
	Submissions SubmissionRepository
	Analytics   AnalyticsRepository
	Subscribers SubscriberRepository
	// Health is pinged by the readiness probe.
	Health DB

	driver string
	sqlDB  *sql.DB
	pool   *pgxpool.Pool
}

// Open connects to the database named by driver and dsn. For SQLite dsn is
// the database file path; for PostgreSQL it is a connection URL.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite:
		db, err := OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
		}
		return NewSQLiteStore(db), nil
	case DriverPostgres:
		pool, err := NewPool(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return NewPgStore(pool), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// NewSQLiteStore wires the SQLite repositories around an open database.
func NewSQLiteStore(db *sql.DB) *Store {
	return &Store{
		Submissions: NewSQLiteSubmissionRepository(db),
		Analytics:   NewSQLiteAnalyticsRepository(db),
		Subscribers: NewSQLiteSubscriberRepository(db),
		Health:      sqlPinger{db},
		driver:      DriverSQLite,
		sqlDB:       db,
	}
}

// NewPgStore wires the PostgreSQL repositories around a pool.
func NewPgStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Submissions: NewPgSubmissionRepository(pool),
		Analytics:   NewPgAnalyticsRepository(pool),
		Subscribers: NewPgSubscriberRepository(pool),
		Health:      pool,
		driver:      DriverPostgres,
		sqlDB:       stdlib.OpenDBFromPool(pool),
		pool:        pool,
	}
}

// Driver reports which backend the store talks to.
func (s *Store) Driver() string { return s.driver }

// Close releases the underlying connections.
func (s *Store) Close() error {
	err := s.sqlDB.Close()
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}

type sqlPinger struct{ db *sql.DB }

func (p sqlPinger) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

// sqliteTimeLayout is fixed width so that TEXT comparison orders chronologically.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000Z07:00"

func formatSQLiteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseSQLiteTime(s string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, s)
}
