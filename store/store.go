// Package store persists a gate stream in an sqlite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/fumin/trotter/circuit"
)

const (
	tableOps = "ops"
)

// DB is a circuit.Sink that appends every gate to an sqlite table.
type DB struct {
	Path string
	// Timeout bounds each insert.
	Timeout time.Duration

	db  *sql.DB
	seq int
}

// Open creates an empty gate table at path, dropping any previous one.
func Open(path string) (*DB, error) {
	db, err := newDB(path)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return &DB{Path: path, Timeout: 3 * time.Second, db: db}, nil
}

// Close closes the database, keeping the file.
func (d *DB) Close() error {
	if err := d.db.Close(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// Remove closes the database and deletes its file.
func (d *DB) Remove() error {
	var err error
	if err1 := d.db.Close(); err1 != nil && err == nil {
		err = errors.Wrap(err1, "")
	}
	if err1 := os.Remove(d.Path); err1 != nil && err == nil {
		err = errors.Wrap(err1, "")
	}
	return err
}

func (d *DB) Rotation(axis circuit.Axis, theta float64, qubit int) error {
	return d.insert(circuit.Op{Gate: axis.Gate(), Qubits: []int{qubit}, Theta: theta})
}

func (d *DB) Hadamard(qubit int) error {
	return d.insert(circuit.Op{Gate: circuit.Hadamard, Qubits: []int{qubit}})
}

func (d *DB) CNOT(control, target int) error {
	return d.insert(circuit.Op{Gate: circuit.CNOT, Qubits: []int{control, target}})
}

func (d *DB) Barrier(qubits []int) error {
	return d.insert(circuit.Op{Gate: circuit.Barrier, Qubits: qubits})
}

func (d *DB) insert(op circuit.Op) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.Timeout)
	defer cancel()
	sqlStr := fmt.Sprintf(`INSERT INTO %s (seq, gate, qubits, theta) VALUES (?, ?, ?, ?)`, tableOps)
	args := []any{d.seq, op.Gate.String(), formatQubits(op.Qubits), op.Theta}
	if _, err := d.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return errors.Wrap(err, fmt.Sprintf("%s %#v", sqlStr, args))
	}
	d.seq++
	return nil
}

// Len returns the number of stored gates.
func (d *DB) Len(ctx context.Context) (int, error) {
	sqlStr := fmt.Sprintf("SELECT count(1) FROM %s", tableOps)
	var n int
	if err := d.db.QueryRowContext(ctx, sqlStr).Scan(&n); err != nil {
		return -1, errors.Wrap(err, "")
	}
	return n, nil
}

// Ops returns the stored gates in emission order.
func (d *DB) Ops(ctx context.Context) ([]circuit.Op, error) {
	sqlStr := fmt.Sprintf(`SELECT gate, qubits, theta FROM %s ORDER BY seq`, tableOps)
	rows, err := d.db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	defer rows.Close()

	ops := make([]circuit.Op, 0)
	for rows.Next() {
		var gate, qubits string
		var theta float64
		if err := rows.Scan(&gate, &qubits, &theta); err != nil {
			return nil, errors.Wrap(err, "")
		}
		op := circuit.Op{Theta: theta}
		if op.Gate, err = circuit.ParseGate(gate); err != nil {
			return nil, errors.Wrap(err, "")
		}
		if op.Qubits, err = parseQubits(qubits); err != nil {
			return nil, errors.Wrap(err, "")
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return ops, nil
}

// Replay emits the stored gates onto sink in emission order.
func (d *DB) Replay(ctx context.Context, sink circuit.Sink) error {
	ops, err := d.Ops(ctx)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if err := circuit.Replay(sink, ops); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func formatQubits(qubits []int) string {
	ss := make([]string, 0, len(qubits))
	for _, q := range qubits {
		ss = append(ss, strconv.Itoa(q))
	}
	return strings.Join(ss, ",")
}

func parseQubits(s string) ([]int, error) {
	qubits := make([]int, 0)
	if s == "" {
		return qubits, nil
	}
	for _, f := range strings.Split(s, ",") {
		q, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%q", s))
		}
		qubits = append(qubits, q)
	}
	return qubits, nil
}

func newDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s", dbPath))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}

	if err := prepareDB(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "")
	}

	return db, nil
}

func prepareDB(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sqlStr := fmt.Sprintf(`DROP TABLE IF EXISTS %s`, tableOps)
	if _, err := db.ExecContext(ctx, sqlStr); err != nil {
		return errors.Wrap(err, "")
	}
	sqlStr = fmt.Sprintf(`CREATE TABLE %s (seq INTEGER PRIMARY KEY, gate TEXT, qubits TEXT, theta REAL) STRICT`, tableOps)
	if _, err := db.ExecContext(ctx, sqlStr); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
