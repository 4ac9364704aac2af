// Package history archives quality reports across runs. It lives
// outside the engine: the engine never reads past results, so scores
// stay a pure function of the current input.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite" // CGO-free SQLite driver

	"cqa/internal/report"
)

// Store is the report archive backed by SQLite. Report bodies are
// stored as zstd-compressed JSON blobs.
type Store struct {
	conn    *sql.DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// RunRecord is one archived analysis run.
type RunRecord struct {
	ID            string    `json:"id"`
	Unit          string    `json:"unit"`
	CreatedAt     time.Time `json:"createdAt"`
	Overall       float64   `json:"overall"`
	Verdict       string    `json:"verdict"`
	CriticalCount int       `json:"criticalCount"`
	IssueCount    int       `json:"issueCount"`
}

// Open opens (and creates if missing) the archive at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	// Pragmas via DSN keep it portable with the modernc driver.
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		conn.Close()
		return nil, err
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		conn.Close()
		return nil, err
	}

	s := &Store{conn: conn, encoder: encoder, decoder: decoder}
	if err := s.createSchema(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database and codec resources.
func (s *Store) Close() error {
	s.encoder.Close()
	s.decoder.Close()
	return s.conn.Close()
}

func (s *Store) createSchema() error {
	_, err := s.conn.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  id             TEXT PRIMARY KEY,
  unit           TEXT NOT NULL,
  created_at     TEXT NOT NULL,  -- RFC3339
  overall        REAL NOT NULL,
  verdict        TEXT NOT NULL,
  critical_count INTEGER NOT NULL,
  issue_count    INTEGER NOT NULL,
  report_zstd    BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_unit ON runs(unit, created_at);
`)
	return err
}

// SaveReport archives one report and returns the new run identifier.
func (s *Store) SaveReport(r *report.QualityReport) (string, error) {
	body, err := report.EncodeJSON(r)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	blob := s.encoder.EncodeAll(body, nil)

	id := uuid.NewString()
	_, err = s.conn.Exec(
		`INSERT INTO runs (id, unit, created_at, overall, verdict, critical_count, issue_count, report_zstd)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, r.Unit, time.Now().UTC().Format(time.RFC3339), r.Overall, string(r.Verdict),
		r.CriticalCount(), len(r.Issues), blob,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// ListRuns returns the most recent runs, newest first. A limit of 0
// means 50.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.conn.Query(
		`SELECT id, unit, created_at, overall, verdict, critical_count, issue_count
		 FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var created string
		if err := rows.Scan(&rec.ID, &rec.Unit, &created, &rec.Overall, &rec.Verdict,
			&rec.CriticalCount, &rec.IssueCount); err != nil {
			return nil, err
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetReport loads an archived report by run identifier.
func (s *Store) GetReport(id string) (*report.QualityReport, error) {
	var blob []byte
	err := s.conn.QueryRow(`SELECT report_zstd FROM runs WHERE id = ?`, id).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %q not found", id)
	}
	if err != nil {
		return nil, err
	}

	body, err := s.decoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress report: %w", err)
	}
	var r report.QualityReport
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}
