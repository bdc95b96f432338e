// Package journal records the raw event stream of a window session in
// SQLite and replays it as an event loop.
//
// Every entry carries a BLAKE2b-256 digest chained over the previous
// entry of the same run, so edits to a stored run are detected by Verify.
package journal

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/blake2b"
)

var (
	// ErrRunNotFound is returned for an unknown run id.
	ErrRunNotFound = errors.New("journal: run not found")
	// ErrChainBroken is returned by Verify when a stored entry does not
	// match its digest.
	ErrChainBroken = errors.New("journal: digest chain broken")
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL,
    started_ns  INTEGER NOT NULL,
    ended_ns    INTEGER
);

CREATE TABLE IF NOT EXISTS events (
    run_id      INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    seq         INTEGER NOT NULL,
    offset_ns   INTEGER NOT NULL,
    kind        TEXT NOT NULL,
    target      INTEGER NOT NULL,
    name        TEXT NOT NULL,
    payload     BLOB,
    digest      BLOB NOT NULL,
    PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_events_kind ON events(run_id, kind);
`

// Run describes one recorded run.
type Run struct {
	ID        int64
	Name      string
	StartedAt time.Time
	EndedAt   time.Time // zero while recording or after a crash
	Events    int
}

// Entry is one recorded call into the application.
type Entry struct {
	RunID   int64
	Seq     int64
	Offset  time.Duration // since the start of the run
	Kind    Kind
	Target  uint64 // window or device id
	Name    string // event name for window and device entries
	Payload []byte
	Digest  [32]byte
}

// Store is the SQLite journal.
type Store struct {
	db *sql.DB

	mu    sync.Mutex
	heads map[int64]head
}

type head struct {
	seq    int64
	digest [32]byte
}

// Open opens or creates the journal database at path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// One connection keeps :memory: databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, heads: make(map[int64]head)}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// BeginRun creates a run and returns its id.
func (s *Store) BeginRun(name string, started time.Time) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO runs (name, started_ns) VALUES (?, ?)`, name, started.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get run id: %w", err)
	}

	s.mu.Lock()
	s.heads[id] = head{}
	s.mu.Unlock()
	return id, nil
}

// EndRun marks a run finished.
func (s *Store) EndRun(id int64, ended time.Time) error {
	res, err := s.db.Exec(`UPDATE runs SET ended_ns = ? WHERE id = ?`, ended.UnixNano(), id)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRunNotFound
	}

	s.mu.Lock()
	delete(s.heads, id)
	s.mu.Unlock()
	return nil
}

// Append assigns e the next sequence number of its run, computes its
// digest and stores it.
func (s *Store) Append(e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.heads[e.RunID]
	if !ok {
		return fmt.Errorf("append to run %d: %w", e.RunID, ErrRunNotFound)
	}

	e.Seq = h.seq + 1
	e.Digest = digest(h.digest, e)

	_, err := s.db.Exec(`
		INSERT INTO events (run_id, seq, offset_ns, kind, target, name, payload, digest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Seq, int64(e.Offset), string(e.Kind), int64(e.Target), e.Name, e.Payload, e.Digest[:],
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	s.heads[e.RunID] = head{seq: e.Seq, digest: e.Digest}
	return nil
}

// Runs lists recorded runs, oldest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT r.id, r.name, r.started_ns, r.ended_ns, COUNT(e.seq)
		FROM runs r LEFT JOIN events e ON e.run_id = r.id
		GROUP BY r.id ORDER BY r.id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started int64
		var ended sql.NullInt64
		if err := rows.Scan(&r.ID, &r.Name, &started, &ended, &r.Events); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = time.Unix(0, started)
		if ended.Valid {
			r.EndedAt = time.Unix(0, ended.Int64)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LatestRun returns the most recent run id.
func (s *Store) LatestRun() (int64, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM runs ORDER BY id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrRunNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("query latest run: %w", err)
	}
	return id, nil
}

// Entries returns the entries of a run in sequence order.
func (s *Store) Entries(runID int64) ([]Entry, error) {
	var exists int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	if exists == 0 {
		return nil, ErrRunNotFound
	}

	rows, err := s.db.Query(`
		SELECT seq, offset_ns, kind, target, name, payload, digest
		FROM events WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e := Entry{RunID: runID}
		var offset, target int64
		var kind string
		var sum []byte
		if err := rows.Scan(&e.Seq, &offset, &kind, &target, &e.Name, &e.Payload, &sum); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Offset = time.Duration(offset)
		e.Kind = Kind(kind)
		e.Target = uint64(target)
		copy(e.Digest[:], sum)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Verify recomputes the digest chain of a run.
func (s *Store) Verify(runID int64) error {
	entries, err := s.Entries(runID)
	if err != nil {
		return err
	}

	var prev [32]byte
	for i := range entries {
		e := &entries[i]
		if e.Seq != int64(i+1) {
			return fmt.Errorf("%w: missing entry before seq %d", ErrChainBroken, e.Seq)
		}
		if want := digest(prev, e); want != e.Digest {
			return fmt.Errorf("%w: at seq %d", ErrChainBroken, e.Seq)
		}
		prev = e.Digest
	}
	return nil
}

// digest is BLAKE2b-256 over the previous digest and the entry fields.
func digest(prev [32]byte, e *Entry) [32]byte {
	h, _ := blake2b.New256(nil)
	h.Write(prev[:])

	var buf [8]byte
	for _, v := range []uint64{uint64(e.RunID), uint64(e.Seq), uint64(e.Offset), e.Target} {
		binary.BigEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	for _, b := range [][]byte{[]byte(e.Kind), []byte(e.Name), e.Payload} {
		binary.BigEndian.PutUint64(buf[:], uint64(len(b)))
		h.Write(buf[:])
		h.Write(b)
	}

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
