// Package postgres provides the Postgres-backed record store.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobradar/jobradar-crawler/internal/ingest"
)

// Config controls the Postgres connection pool.
type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// pgxIface is the slice of pgxpool.Pool the store needs; pgxmock implements
// it, which keeps the insert paths testable without a database.
type pgxIface interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Ping(context.Context) error
	Close()
}

// Store appends normalized records as rows. Both tables are append-only:
// rows are never updated or deleted, and duplicates across runs are allowed.
// Assumed schema:
//
//	CREATE TABLE job_postings (
//	    id bigserial PRIMARY KEY,
//	    run_id uuid NOT NULL,
//	    captured_date date NOT NULL,
//	    title text NOT NULL,
//	    company text NOT NULL,
//	    posting_url text NOT NULL,
//	    deadline_text text NOT NULL,
//	    location text NOT NULL,
//	    experience_level text NOT NULL,
//	    requirement text NOT NULL,
//	    employment_type text NOT NULL,
//	    created_at timestamptz NOT NULL DEFAULT now()
//	);
//
//	CREATE TABLE company_salaries (
//	    id bigserial PRIMARY KEY,
//	    run_id uuid NOT NULL,
//	    captured_date date NOT NULL,
//	    company_name text NOT NULL,
//	    company_url text NOT NULL,
//	    logo_url text NOT NULL,
//	    company_type text NOT NULL,
//	    industry text NOT NULL,
//	    avg_salary integer NOT NULL,
//	    min_salary integer NOT NULL,
//	    max_salary integer NOT NULL,
//	    created_at timestamptz NOT NULL DEFAULT now()
//	);
type Store struct {
	pool pgxIface
}

// NewStore opens a connection pool and verifies it with a ping. The pool is
// the process-wide storage handle: acquired once at startup, injected where
// needed, closed on shutdown.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewStoreWithPool constructs a store from an existing pool (primarily for
// testing).
func NewStoreWithPool(pool pgxIface) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &Store{pool: pool}, nil
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("store is not configured")
	}
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// InsertJob appends one job posting row.
func (s *Store) InsertJob(ctx context.Context, rec ingest.JobPosting) error {
	query := `
INSERT INTO job_postings (
	run_id,
	captured_date,
	title,
	company,
	posting_url,
	deadline_text,
	location,
	experience_level,
	requirement,
	employment_type
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10
)`
	_, err := s.pool.Exec(ctx, query,
		rec.RunID,
		rec.CapturedDate,
		rec.Title,
		rec.Company,
		rec.PostingURL,
		rec.DeadlineText,
		rec.Location,
		rec.ExperienceLevel,
		rec.Requirement,
		rec.EmploymentType,
	)
	if err != nil {
		return fmt.Errorf("insert job posting: %w", err)
	}
	return nil
}

// InsertSalary appends one company salary row.
func (s *Store) InsertSalary(ctx context.Context, rec ingest.CompanySalary) error {
	query := `
INSERT INTO company_salaries (
	run_id,
	captured_date,
	company_name,
	company_url,
	logo_url,
	company_type,
	industry,
	avg_salary,
	min_salary,
	max_salary
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10
)`
	_, err := s.pool.Exec(ctx, query,
		rec.RunID,
		rec.CapturedDate,
		rec.CompanyName,
		rec.CompanyURL,
		rec.LogoURL,
		rec.CompanyType,
		rec.Industry,
		rec.AvgSalary,
		rec.MinSalary,
		rec.MaxSalary,
	)
	if err != nil {
		return fmt.Errorf("insert company salary: %w", err)
	}
	return nil
}
