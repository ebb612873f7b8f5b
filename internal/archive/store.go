// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps biosamples returned by searches in a local
// SQLite database so they can be filtered and exported offline. The
// archive is never consulted to answer service calls.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/beacon-query/pkg/types"
)

const dbFile = "biosamples.db"

// ErrNoDataset is returned when samples are ingested without a dataset.
var ErrNoDataset = errors.New("dataset id is required")

// Store manages the archive SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates the archive database at cfg.Dir/biosamples.db
// and creates the schema if it does not exist.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS biosamples (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL,
			dataset_id TEXT NOT NULL,
			description TEXT,
			material TEXT,
			geo_label TEXT,
			codes TEXT,
			record TEXT NOT NULL,
			ingested_at TEXT NOT NULL,
			UNIQUE(id, dataset_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_biosamples_dataset ON biosamples(dataset_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from one ingestion.
type IngestSummary struct {
	Inserted int
	Updated  int
}

// Total returns the number of samples written.
func (s IngestSummary) Total() int {
	return s.Inserted + s.Updated
}

// Ingest stores samples under datasetID. A sample already archived for
// the dataset is replaced. Samples without an id are skipped.
func (s *Store) Ingest(ctx context.Context, datasetID string, samples []types.Biosample) (IngestSummary, error) {
	if datasetID == "" {
		return IngestSummary{}, ErrNoDataset
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO biosamples (id, dataset_id, description, material, geo_label, codes, record, ingested_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id, dataset_id) DO UPDATE SET
			description=excluded.description, material=excluded.material,
			geo_label=excluded.geo_label, codes=excluded.codes,
			record=excluded.record, ingested_at=excluded.ingested_at`)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	var summary IngestSummary
	for _, bs := range samples {
		if bs.ID == "" {
			continue
		}

		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT count(*) FROM biosamples WHERE id = ? AND dataset_id = ?`, bs.ID, datasetID,
		).Scan(&exists); err != nil {
			return IngestSummary{}, fmt.Errorf("checking biosample %s: %w", bs.ID, err)
		}

		record, err := json.Marshal(bs)
		if err != nil {
			return IngestSummary{}, fmt.Errorf("encoding biosample %s: %w", bs.ID, err)
		}
		codes, err := json.Marshal(sampleCodes(bs))
		if err != nil {
			return IngestSummary{}, fmt.Errorf("encoding codes of biosample %s: %w", bs.ID, err)
		}

		if _, err := stmt.ExecContext(ctx,
			bs.ID, datasetID, bs.Description, materialLabel(bs), geoLabel(bs),
			string(codes), string(record), now,
		); err != nil {
			return IngestSummary{}, fmt.Errorf("inserting biosample %s: %w", bs.ID, err)
		}

		if exists > 0 {
			summary.Updated++
		} else {
			summary.Inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return IngestSummary{}, fmt.Errorf("committing: %w", err)
	}
	return summary, nil
}

// IngestResponse stores the biosamples of every result set of resp,
// each under its result set id.
func (s *Store) IngestResponse(ctx context.Context, resp *types.BeaconResponse) (IngestSummary, error) {
	var total IngestSummary
	if resp == nil {
		return total, nil
	}
	for _, rs := range resp.ResultSets {
		samples, err := rs.Biosamples()
		if err != nil {
			return total, fmt.Errorf("decoding result set %s: %w", rs.ID, err)
		}
		sum, err := s.Ingest(ctx, rs.ID, samples)
		if err != nil {
			return total, err
		}
		total.Inserted += sum.Inserted
		total.Updated += sum.Updated
	}
	return total, nil
}

// sampleCodes returns the biocharacteristic and material codes of bs.
func sampleCodes(bs types.Biosample) []string {
	codes := make([]string, 0, len(bs.Biocharacteristics)+1)
	for _, t := range bs.Biocharacteristics {
		if t.ID != "" {
			codes = append(codes, t.ID)
		}
	}
	if bs.Provenance != nil && bs.Provenance.Material != nil && bs.Provenance.Material.ID != "" {
		codes = append(codes, bs.Provenance.Material.ID)
	}
	return codes
}

func materialLabel(bs types.Biosample) string {
	if bs.Provenance == nil || bs.Provenance.Material == nil {
		return ""
	}
	return bs.Provenance.Material.Label
}

func geoLabel(bs types.Biosample) string {
	if bs.Provenance == nil || bs.Provenance.GeoLocation == nil {
		return ""
	}
	return bs.Provenance.GeoLocation.Properties.Label
}
