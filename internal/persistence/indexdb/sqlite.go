package indexdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"tradewright/internal/engine"
)

// SQLiteIndex is a secondary read model of engine decisions: session starts,
// dispatched commands, confirmations, completions, expiries. Writes go
// through a single writer goroutine so the engine never blocks on the db.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan engine.AuditEntry
	wg   sync.WaitGroup
	once sync.Once

	closed  atomic.Bool
	dropped atomic.Int64
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan engine.AuditEntry, 4096),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the append-only workload; NORMAL durability is fine for a
	// secondary index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS audit (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			at TEXT NOT NULL,
			participant INTEGER NOT NULL,
			channel INTEGER NOT NULL,
			kind TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_audit_participant ON audit(participant, id);`,
		`CREATE INDEX IF NOT EXISTS idx_audit_kind ON audit(kind, id);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// WriteAudit enqueues an entry without blocking. When the buffer is full the
// entry is dropped and counted; the index is best-effort by design.
func (s *SQLiteIndex) WriteAudit(e engine.AuditEntry) error {
	if s.closed.Load() {
		return fmt.Errorf("index closed")
	}
	select {
	case s.ch <- e:
		return nil
	default:
		s.dropped.Add(1)
		return nil
	}
}

func (s *SQLiteIndex) loop() {
	for e := range s.ch {
		_, err := s.db.Exec(
			`INSERT INTO audit (at, participant, channel, kind, detail) VALUES (?, ?, ?, ?, ?)`,
			e.At.UTC().Format(time.RFC3339Nano), e.Participant, e.Channel, e.Kind, e.Detail,
		)
		if err != nil {
			s.dropped.Add(1)
		}
	}
}

// Dropped reports entries lost to backpressure or insert failures.
func (s *SQLiteIndex) Dropped() int64 { return s.dropped.Load() }

// CountByKind tallies recorded entries of one kind.
func (s *SQLiteIndex) CountByKind(kind string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM audit WHERE kind = ?`, kind).Scan(&n)
	return n, err
}

// RecentForParticipant returns the newest entries for one participant,
// newest first.
func (s *SQLiteIndex) RecentForParticipant(participant int64, limit int) ([]engine.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT at, participant, channel, kind, detail FROM audit
		 WHERE participant = ? ORDER BY id DESC LIMIT ?`, participant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.AuditEntry
	for rows.Next() {
		var e engine.AuditEntry
		var at string
		if err := rows.Scan(&at, &e.Participant, &e.Channel, &e.Kind, &e.Detail); err != nil {
			return nil, err
		}
		e.At, _ = time.Parse(time.RFC3339Nano, at)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close drains pending writes and closes the db.
func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}
