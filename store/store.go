package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/notargets/gomhd/FD1D"
	"github.com/notargets/gomhd/model_problems/MHD1D"
	"github.com/notargets/gomhd/utils"
)

var ErrNotFound = errors.New("store: not found")

// RunMeta describes one solver run
type RunMeta struct {
	ID         int64
	Title      string
	Case       string
	Integrator string
	N          int
	Gamma      float64
	DT         float64
	FinalTime  float64
	Created    time.Time
}

// Store keeps runs and their snapshots in a single SQLite file. Each snapshot
// is stored as one row per field with the values as a JSON array.
type Store struct {
	db   *sql.DB
	path string
}

var schema = []string{`
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	"case" TEXT NOT NULL,
	integrator TEXT NOT NULL,
	n INTEGER NOT NULL,
	gamma REAL NOT NULL,
	dt REAL NOT NULL,
	final_time REAL NOT NULL,
	created TEXT NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS snapshots (
	run_id INTEGER NOT NULL REFERENCES runs(id),
	step INTEGER NOT NULL,
	time REAL NOT NULL,
	field TEXT NOT NULL,
	payload BLOB NOT NULL,
	PRIMARY KEY (run_id, step, field)
)`}

// Open creates the database file and its directory when missing. The path
// ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "gomhd.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps an in-memory database alive and serializes writers
	db.SetMaxOpenConns(1)
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create tables: %w", err)
		}
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Path() string { return s.path }

func (s *Store) CreateRun(ctx context.Context, meta RunMeta) (id int64, err error) {
	if meta.Created.IsZero() {
		meta.Created = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (title, "case", integrator, n, gamma, dt, final_time, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.Title, meta.Case, meta.Integrator, meta.N, meta.Gamma, meta.DT, meta.FinalTime,
		meta.Created.Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) LoadRun(ctx context.Context, id int64) (meta RunMeta, err error) {
	var created string
	err = s.db.QueryRowContext(ctx,
		`SELECT id, title, "case", integrator, n, gamma, dt, final_time, created FROM runs WHERE id = ?`, id).
		Scan(&meta.ID, &meta.Title, &meta.Case, &meta.Integrator, &meta.N,
			&meta.Gamma, &meta.DT, &meta.FinalTime, &created)
	if errors.Is(err, sql.ErrNoRows) {
		err = fmt.Errorf("run %d: %w", id, ErrNotFound)
		return
	}
	if err != nil {
		err = fmt.Errorf("select run: %w", err)
		return
	}
	if meta.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
		err = fmt.Errorf("decode created time: %w", err)
	}
	return
}

// ListRuns returns all runs, oldest first
func (s *Store) ListRuns(ctx context.Context) (runs []RunMeta, err error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM runs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	if err = rows.Close(); err != nil {
		return
	}
	for _, id := range ids {
		var meta RunMeta
		if meta, err = s.LoadRun(ctx, id); err != nil {
			return nil, err
		}
		runs = append(runs, meta)
	}
	return
}

// SaveSnapshot writes the grid and all primitive fields of state in one
// transaction. Saving the same step twice replaces it.
func (s *Store) SaveSnapshot(ctx context.Context, runID int64, step int, t float64, state *MHD1D.FieldState) (retErr error) {
	if err := state.Validate(); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	put := func(name string, v utils.Vector) error {
		data, err := json.Marshal(v.DataP())
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO snapshots (run_id, step, time, field, payload) VALUES (?, ?, ?, ?, ?)`,
			runID, step, t, name, data); err != nil {
			return fmt.Errorf("insert snapshot %s: %w", name, err)
		}
		return nil
	}
	if err = put(gridField, state.X); err != nil {
		return err
	}
	for f := MHD1D.Rho; f < MHD1D.NumFields; f++ {
		if err = put(f.String(), state.Field(f)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

const gridField = "x"

// LoadSnapshot rebuilds the grid and the state stored at step
func (s *Store) LoadSnapshot(ctx context.Context, runID int64, step int) (t float64, state *MHD1D.FieldState, err error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT time, field, payload FROM snapshots WHERE run_id = ? AND step = ?`, runID, step)
	if err != nil {
		return 0, nil, fmt.Errorf("select snapshot: %w", err)
	}
	defer func() { _ = rows.Close() }()
	fields := make(map[string][]float64)
	for rows.Next() {
		var (
			name    string
			payload []byte
			data    []float64
		)
		if err = rows.Scan(&t, &name, &payload); err != nil {
			return 0, nil, fmt.Errorf("scan: %w", err)
		}
		if err = json.Unmarshal(payload, &data); err != nil {
			return 0, nil, fmt.Errorf("decode %s: %w", name, err)
		}
		fields[name] = data
	}
	if err = rows.Err(); err != nil {
		return 0, nil, err
	}
	if len(fields) == 0 {
		return 0, nil, fmt.Errorf("run %d step %d: %w", runID, step, ErrNotFound)
	}
	g, err := FD1D.NewGrid(fields[gridField])
	if err != nil {
		return 0, nil, fmt.Errorf("stored grid: %w", err)
	}
	state = MHD1D.NewFieldState(g)
	for f := MHD1D.Rho; f < MHD1D.NumFields; f++ {
		data, ok := fields[f.String()]
		if !ok {
			return 0, nil, fmt.Errorf("run %d step %d field %s: %w", runID, step, f, ErrNotFound)
		}
		if err = utils.CheckLen("LoadSnapshot("+f.String()+")", g.Len(), len(data)); err != nil {
			return 0, nil, err
		}
		copy(state.Field(f).DataP(), data)
	}
	return
}

// ListSteps returns the stored steps of a run in increasing order
func (s *Store) ListSteps(ctx context.Context, runID int64) (steps []int, err error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT step FROM snapshots WHERE run_id = ? ORDER BY step`, runID)
	if err != nil {
		return nil, fmt.Errorf("select steps: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var step int
		if err = rows.Scan(&step); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

// Recorder writes every snapshot the solver hands it to one run
type Recorder struct {
	Store *Store
	RunID int64
}

func (r *Recorder) OnSnapshot(ctx context.Context, step int, t float64, s *MHD1D.FieldState) error {
	return r.Store.SaveSnapshot(ctx, r.RunID, step, t, s)
}

var _ MHD1D.Observer = (*Recorder)(nil)
