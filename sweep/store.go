// Package sweep simulates a circuit across many parameter assignments and
// persists the results in a sqlite file.
package sweep

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const (
	tableRun       = "run"
	tableAmplitude = "amplitude"
	tablePauli     = "pauli"
)

// A Store keeps simulation results in a sqlite file: one run row per
// parameter assignment, plus its final state amplitudes and per qubit Pauli
// expectations. A store may be reopened; existing runs are kept.
type Store struct {
	Path string

	db *sql.DB
}

// Open opens the sqlite file at path, creating it and the schema as needed.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s", path))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	if err := prepareDB(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "")
	}
	return &Store{Path: path, db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func prepareDB(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	for _, sqlStr := range []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (id INTEGER PRIMARY KEY, params TEXT NOT NULL) STRICT`, tableRun),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (run INTEGER, basis INTEGER, re REAL, im REAL, PRIMARY KEY (run, basis)) STRICT`, tableAmplitude),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (run INTEGER, qubit INTEGER, i REAL, x REAL, y REAL, z REAL, PRIMARY KEY (run, qubit)) STRICT`, tablePauli),
	} {
		if _, err := db.ExecContext(ctx, sqlStr); err != nil {
			return errors.Wrap(err, sqlStr)
		}
	}
	return nil
}

// Save stores one run, the parameter assignment with its final state
// amplitudes, and returns the new run ID.
func (s *Store) Save(ctx context.Context, params []float64, state []complex128) (int64, error) {
	buf, err := json.Marshal(params)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	defer tx.Rollback()

	sqlStr := fmt.Sprintf(`INSERT INTO %s (params) VALUES (?)`, tableRun)
	res, err := tx.ExecContext(ctx, sqlStr, string(buf))
	if err != nil {
		return -1, errors.Wrap(err, sqlStr)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return -1, errors.Wrap(err, "")
	}

	sqlStr = fmt.Sprintf(`INSERT OR REPLACE INTO %s (run, basis, re, im) VALUES (?, ?, ?, ?)`, tableAmplitude)
	for basis, v := range state {
		if _, err := tx.ExecContext(ctx, sqlStr, id, basis, real(v), imag(v)); err != nil {
			return -1, errors.Wrap(err, fmt.Sprintf("run %d basis %d", id, basis))
		}
	}

	if err := tx.Commit(); err != nil {
		return -1, errors.Wrap(err, "")
	}
	return id, nil
}

// SavePaulis stores the per qubit Pauli expectations of a run, one
// [I, X, Y, Z] quadruple per qubit.
func (s *Store) SavePaulis(ctx context.Context, id int64, paulis [][4]float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "")
	}
	defer tx.Rollback()

	sqlStr := fmt.Sprintf(`INSERT OR REPLACE INTO %s (run, qubit, i, x, y, z) VALUES (?, ?, ?, ?, ?, ?)`, tablePauli)
	for qubit, p := range paulis {
		if _, err := tx.ExecContext(ctx, sqlStr, id, qubit, p[0], p[1], p[2], p[3]); err != nil {
			return errors.Wrap(err, fmt.Sprintf("run %d qubit %d", id, qubit))
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// Load returns the parameter assignment and state amplitudes of a run.
func (s *Store) Load(ctx context.Context, id int64) ([]float64, []complex128, error) {
	sqlStr := fmt.Sprintf(`SELECT params FROM %s WHERE id=?`, tableRun)
	var buf string
	if err := s.db.QueryRowContext(ctx, sqlStr, id).Scan(&buf); err != nil {
		return nil, nil, errors.Wrap(err, fmt.Sprintf("run %d", id))
	}
	var params []float64
	if err := json.Unmarshal([]byte(buf), &params); err != nil {
		return nil, nil, errors.Wrap(err, buf)
	}

	sqlStr = fmt.Sprintf(`SELECT re, im FROM %s WHERE run=? ORDER BY basis`, tableAmplitude)
	rows, err := s.db.QueryContext(ctx, sqlStr, id)
	if err != nil {
		return nil, nil, errors.Wrap(err, "")
	}
	defer rows.Close()
	state := make([]complex128, 0)
	for rows.Next() {
		var re, im float64
		if err := rows.Scan(&re, &im); err != nil {
			return nil, nil, errors.Wrap(err, "")
		}
		state = append(state, complex(re, im))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "")
	}
	return params, state, nil
}

// Paulis returns the per qubit Pauli expectations of a run in qubit order.
func (s *Store) Paulis(ctx context.Context, id int64) ([][4]float64, error) {
	sqlStr := fmt.Sprintf(`SELECT i, x, y, z FROM %s WHERE run=? ORDER BY qubit`, tablePauli)
	rows, err := s.db.QueryContext(ctx, sqlStr, id)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	defer rows.Close()
	paulis := make([][4]float64, 0)
	for rows.Next() {
		var p [4]float64
		if err := rows.Scan(&p[0], &p[1], &p[2], &p[3]); err != nil {
			return nil, errors.Wrap(err, "")
		}
		paulis = append(paulis, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return paulis, nil
}

// IDs returns every stored run ID in ascending order.
func (s *Store) IDs(ctx context.Context) ([]int64, error) {
	sqlStr := fmt.Sprintf(`SELECT id FROM %s ORDER BY id`, tableRun)
	rows, err := s.db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	defer rows.Close()
	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return ids, nil
}
