// Package dao provides the frequency and pathogenicity data access used to
// annotate variants: an embedded SQLite store for local database extracts, an
// LRU-cached decorator and a breaker-guarded remote client.
package dao

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/exome-prioritizer/internal/domain"
)

// VariantStore serves frequency and pathogenicity lookups from an embedded
// SQLite database holding population and predictor extracts. The store is
// read-only at analysis time and safe to share across concurrent analyses.
type VariantStore struct {
	db *sql.DB
}

// NewVariantStore opens the database at the given path and ensures the
// schema exists.
func NewVariantStore(dbPath string) (*VariantStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open variant store: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &VariantStore{db: db}, nil
}

// NewVariantStoreWithDB wraps an existing database handle. Used by tests and
// callers managing the connection themselves.
func NewVariantStoreWithDB(db *sql.DB) *VariantStore {
	return &VariantStore{db: db}
}

// Close releases the underlying database handle.
func (s *VariantStore) Close() error {
	return s.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS frequency (
		chromosome INTEGER NOT NULL,
		position INTEGER NOT NULL,
		ref TEXT NOT NULL,
		alt TEXT NOT NULL,
		source TEXT NOT NULL,
		frequency REAL NOT NULL,
		PRIMARY KEY (chromosome, position, ref, alt, source)
	);

	CREATE TABLE IF NOT EXISTS pathogenicity (
		chromosome INTEGER NOT NULL,
		position INTEGER NOT NULL,
		ref TEXT NOT NULL,
		alt TEXT NOT NULL,
		source TEXT NOT NULL,
		score REAL NOT NULL,
		PRIMARY KEY (chromosome, position, ref, alt, source)
	);
	`
	_, err := db.Exec(schema)
	return err
}

// FrequencyData returns the population frequencies recorded for the allele.
// An allele absent from the store yields empty data, never an error.
func (s *VariantStore) FrequencyData(ctx context.Context, chromosome, position int, ref, alt string) (*domain.FrequencyData, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT source, frequency FROM frequency WHERE chromosome = ? AND position = ? AND ref = ? AND alt = ?",
		chromosome, position, ref, alt)
	if err != nil {
		return nil, fmt.Errorf("frequency lookup %d:%d %s>%s: %w", chromosome, position, ref, alt, err)
	}
	defer rows.Close()

	var frequencies []domain.Frequency
	for rows.Next() {
		var source string
		var value float64
		if err := rows.Scan(&source, &value); err != nil {
			return nil, fmt.Errorf("frequency scan: %w", err)
		}
		frequencies = append(frequencies, domain.NewFrequency(value, domain.FrequencySource(source)))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("frequency rows: %w", err)
	}
	return domain.NewFrequencyData(frequencies...), nil
}

// PathogenicityData returns the predictor scores recorded for the allele.
// Only missense-equivalent effects are looked up; other effect classes carry
// their verdict in the effect itself and yield empty data.
func (s *VariantStore) PathogenicityData(ctx context.Context, chromosome, position int, ref, alt string, effect domain.VariantEffect) (*domain.PathogenicityData, error) {
	if !effect.IsMissenseEquivalent() {
		return domain.EmptyPathogenicityData(), nil
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT source, score FROM pathogenicity WHERE chromosome = ? AND position = ? AND ref = ? AND alt = ?",
		chromosome, position, ref, alt)
	if err != nil {
		return nil, fmt.Errorf("pathogenicity lookup %d:%d %s>%s: %w", chromosome, position, ref, alt, err)
	}
	defer rows.Close()

	var scores []domain.PathogenicityScore
	for rows.Next() {
		var source string
		var value float64
		if err := rows.Scan(&source, &value); err != nil {
			return nil, fmt.Errorf("pathogenicity scan: %w", err)
		}
		scores = append(scores, domain.PathogenicityScore{Value: value, Source: domain.PathogenicitySource(source)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pathogenicity rows: %w", err)
	}
	return domain.NewPathogenicityData(scores...), nil
}
