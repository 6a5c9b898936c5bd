// Package store persists filters in SQLite. Filters are checked before they
// are written, so the store only ever holds valid formulas.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/dhamidi/formulint/conditions"
)

var ErrNotFound = errors.New("filter not found")

var log = commonlog.GetLogger("formulint.store")

const schema = `
CREATE TABLE IF NOT EXISTS filters (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	name     TEXT NOT NULL UNIQUE,
	evaltype TEXT NOT NULL,
	formula  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS conditions (
	filter_id  INTEGER NOT NULL REFERENCES filters(id) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	formula_id TEXT NOT NULL,
	field      TEXT NOT NULL,
	operator   TEXT NOT NULL,
	value      TEXT NOT NULL,
	PRIMARY KEY (filter_id, position)
);
`

type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	// One connection keeps the foreign_keys pragma in effect for every query.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA foreign_keys = ON", schema} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init store: %w", err)
		}
	}
	log.Debugf("opened store %s", path)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save checks f and stores its normalised form, replacing any filter with
// the same name. It returns the normalised filter.
func (s *Store) Save(ctx context.Context, f conditions.Filter) (*conditions.Filter, error) {
	if f.Name == "" {
		return nil, errors.New("save filter: name is empty")
	}
	checked, err := f.Check()
	if err != nil {
		return nil, fmt.Errorf("save filter %q: %w", f.Name, err)
	}
	nf := checked.Filter

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("save filter %q: %w", f.Name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM filters WHERE name = ?`, nf.Name); err != nil {
		return nil, fmt.Errorf("save filter %q: %w", nf.Name, err)
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO filters (name, evaltype, formula) VALUES (?, ?, ?)`,
		nf.Name, nf.EvalType.String(), nf.Formula)
	if err != nil {
		return nil, fmt.Errorf("save filter %q: %w", nf.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("save filter %q: %w", nf.Name, err)
	}

	for i, c := range nf.Conditions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO conditions (filter_id, position, formula_id, field, operator, value) VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, c.FormulaID, c.Field, c.Operator, c.Value)
		if err != nil {
			return nil, fmt.Errorf("save filter %q: condition %s: %w", nf.Name, c.FormulaID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("save filter %q: %w", nf.Name, err)
	}
	log.Infof("saved filter %q with formula %q", nf.Name, nf.Formula)
	return &nf, nil
}

func (s *Store) Get(ctx context.Context, name string) (*conditions.Filter, error) {
	var (
		id       int64
		evalType string
		f        = conditions.Filter{Name: name}
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, evaltype, formula FROM filters WHERE name = ?`, name).
		Scan(&id, &evalType, &f.Formula)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get filter %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get filter %q: %w", name, err)
	}
	if f.EvalType, err = conditions.ParseEvalType(evalType); err != nil {
		return nil, fmt.Errorf("get filter %q: %w", name, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT formula_id, field, operator, value FROM conditions WHERE filter_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get filter %q: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var c conditions.Condition
		if err := rows.Scan(&c.FormulaID, &c.Field, &c.Operator, &c.Value); err != nil {
			return nil, fmt.Errorf("get filter %q: %w", name, err)
		}
		f.Conditions = append(f.Conditions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get filter %q: %w", name, err)
	}
	return &f, nil
}

// Summary is one row of List.
type Summary struct {
	Name       string
	EvalType   conditions.EvalType
	Formula    string
	Conditions int
}

// List returns all filters ordered by name.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.name, f.evaltype, f.formula, COUNT(c.position)
		FROM filters f LEFT JOIN conditions c ON c.filter_id = f.id
		GROUP BY f.id
		ORDER BY f.name`)
	if err != nil {
		return nil, fmt.Errorf("list filters: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum      Summary
			evalType string
		)
		if err := rows.Scan(&sum.Name, &evalType, &sum.Formula, &sum.Conditions); err != nil {
			return nil, fmt.Errorf("list filters: %w", err)
		}
		if sum.EvalType, err = conditions.ParseEvalType(evalType); err != nil {
			return nil, fmt.Errorf("list filters: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM filters WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete filter %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete filter %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete filter %q: %w", name, ErrNotFound)
	}
	log.Infof("deleted filter %q", name)
	return nil
}
