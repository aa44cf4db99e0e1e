package store

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mcncl/casegen/internal/errors"
	"github.com/mcncl/casegen/internal/models"
	"github.com/mcncl/casegen/internal/parser"
)

// SQLiteStore is a Store backed by a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database at dsn.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.NewStoreError(fmt.Sprintf("failed to open %s", dsn), err)
	}
	s := &SQLiteStore{db: db}
	if err := s.Init(context.Background()); err != nil {
		_ = db.Close()
		return nil, errors.NewStoreError(fmt.Sprintf("failed to initialise %s", dsn), err)
	}
	return s, nil
}

// Init creates the schema if it does not exist.
func (s *SQLiteStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `PRAGMA foreign_keys=ON;`); err != nil {
		return err
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			target TEXT NOT NULL,
			method TEXT NOT NULL,
			total INTEGER NOT NULL,
			passed INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_results (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			name TEXT NOT NULL,
			expected_status INTEGER NOT NULL,
			status INTEGER NOT NULL,
			ok INTEGER NOT NULL,
			passed INTEGER NOT NULL,
			error TEXT NOT NULL,
			response TEXT NOT NULL,
			duration_ns INTEGER NOT NULL,
			PRIMARY KEY(run_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run models.Run) (string, error) {
	id := uuid.NewString()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	if run.Total == 0 {
		run.Total = len(run.Results)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", errors.NewStoreError("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs(id,target,method,total,passed,created_at) VALUES(?,?,?,?,?,?)`,
		id, run.Target, run.Method, run.Total, run.Passed, run.CreatedAt.UTC(),
	); err != nil {
		return "", errors.NewStoreError("failed to save run", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_results(run_id,seq,name,expected_status,status,ok,passed,error,response,duration_ns) VALUES(?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return "", errors.NewStoreError("failed to prepare result insert", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, res := range run.Results {
		var response models.Value = models.Null{}
		if res.Response != nil {
			response = res.Response
		}
		respJSON, err := json.Marshal(response)
		if err != nil {
			return "", errors.NewStoreError(fmt.Sprintf("failed to encode response of %q", res.Name), err)
		}
		if _, err := stmt.ExecContext(ctx, id, i, res.Name, res.ExpectedStatus, res.Status, res.OK, res.Passed, res.Error, string(respJSON), int64(res.Duration)); err != nil {
			return "", errors.NewStoreError(fmt.Sprintf("failed to save result %q", res.Name), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", errors.NewStoreError("failed to commit run", err)
	}
	return id, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context) ([]models.Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,target,method,total,passed,created_at FROM runs ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, errors.NewStoreError("failed to list runs", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]models.Run, 0)
	for rows.Next() {
		var r models.Run
		if err := rows.Scan(&r.ID, &r.Target, &r.Method, &r.Total, &r.Passed, &r.CreatedAt); err != nil {
			return nil, errors.NewStoreError("failed to read run", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreError("failed to list runs", err)
	}
	return out, nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*models.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,target,method,total,passed,created_at FROM runs WHERE id=?`, id)
	var run models.Run
	if err := row.Scan(&run.ID, &run.Target, &run.Method, &run.Total, &run.Passed, &run.CreatedAt); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewStoreError(fmt.Sprintf("run %s", id), errors.ErrNotFound)
		}
		return nil, errors.NewStoreError(fmt.Sprintf("failed to load run %s", id), err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name,expected_status,status,ok,passed,error,response,duration_ns FROM run_results WHERE run_id=? ORDER BY seq ASC`, id)
	if err != nil {
		return nil, errors.NewStoreError(fmt.Sprintf("failed to load results of run %s", id), err)
	}
	defer func() { _ = rows.Close() }()

	run.Results = make([]models.RunResult, 0, run.Total)
	for rows.Next() {
		var (
			res      models.RunResult
			respJSON string
			duration int64
		)
		if err := rows.Scan(&res.Name, &res.ExpectedStatus, &res.Status, &res.OK, &res.Passed, &res.Error, &respJSON, &duration); err != nil {
			return nil, errors.NewStoreError("failed to read result", err)
		}
		res.Duration = time.Duration(duration)
		res.Response = models.Null{}
		if ir, err := parser.ParseString(respJSON); err == nil {
			res.Response = ir.Root
		}
		run.Results = append(run.Results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreError(fmt.Sprintf("failed to load results of run %s", id), err)
	}
	return &run, nil
}

func (s *SQLiteStore) DeleteRun(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStoreError("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_results WHERE run_id=?`, id); err != nil {
		return errors.NewStoreError(fmt.Sprintf("failed to delete results of run %s", id), err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id=?`, id)
	if err != nil {
		return errors.NewStoreError(fmt.Sprintf("failed to delete run %s", id), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NewStoreError(fmt.Sprintf("run %s", id), errors.ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return errors.NewStoreError(fmt.Sprintf("failed to delete run %s", id), err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
