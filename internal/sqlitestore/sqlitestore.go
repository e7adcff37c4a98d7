// Package sqlitestore persists the critique pipeline's items, dispositions,
// and round artifacts to SQLite, giving the store ports memstore offers
// durability across restarts (memstore's ClosedItems has no counterpart
// here).
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/kodevadam/crucible/internal/critique"
)

// ErrNotFound is returned by lookups that find nothing, with sql.ErrNoRows
// folded into it so callers never need to import database/sql themselves.
var ErrNotFound = errors.New("sqlitestore: not found")

// Store is a SQLite-backed implementation of critique.ItemStore,
// critique.DispositionStore, and the round-artifact history.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and migrates the SQLite database at path, then
// returns a ready-to-use Store.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite: single writer, matches the teacher's own WAL discipline

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
PRAGMA journal_mode=WAL;

CREATE TABLE IF NOT EXISTS items (
	id TEXT PRIMARY KEY,
	proposal_id TEXT NOT NULL,
	role TEXT NOT NULL,
	round INTEGER NOT NULL,
	severity TEXT NOT NULL,
	title TEXT NOT NULL,
	detail TEXT NOT NULL,
	normalized_text TEXT NOT NULL,
	normalization_spec_version TEXT NOT NULL,
	derived_from TEXT NOT NULL,
	root_ids TEXT NOT NULL,
	root_severity TEXT,
	similarity_warn TEXT NOT NULL,
	minted_at TIMESTAMP NOT NULL,
	minted_by TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS dispositions (
	disposition_id TEXT PRIMARY KEY,
	item_id TEXT NOT NULL REFERENCES items(id),
	round INTEGER NOT NULL,
	decided_by TEXT NOT NULL,
	decision TEXT NOT NULL,
	rationale TEXT NOT NULL,
	transformation TEXT,
	proposed_at TIMESTAMP NOT NULL,
	terminal_at TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_dispositions_item ON dispositions(item_id);

CREATE TABLE IF NOT EXISTS round_artifacts (
	proposal_id TEXT NOT NULL,
	round INTEGER NOT NULL,
	artifact_id TEXT NOT NULL,
	produced_at TIMESTAMP NOT NULL,
	payload TEXT NOT NULL,
	PRIMARY KEY (proposal_id, round)
);
`)
	if err != nil {
		return fmt.Errorf("sqlitestore: migrate: %w", err)
	}
	return nil
}

// GetItem implements critique.ItemStore.
func (s *Store) GetItem(id string) (critique.CritiqueItem, bool) {
	row := s.db.QueryRow(`SELECT id, proposal_id, role, round, severity, title, detail,
		normalized_text, normalization_spec_version, derived_from, root_ids,
		root_severity, similarity_warn, minted_at, minted_by
		FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err != nil {
		return critique.CritiqueItem{}, false
	}
	return item, true
}

// AllItems implements critique.ItemStore.
func (s *Store) AllItems() []critique.CritiqueItem {
	rows, err := s.db.Query(`SELECT id, proposal_id, role, round, severity, title, detail,
		normalized_text, normalization_spec_version, derived_from, root_ids,
		root_severity, similarity_warn, minted_at, minted_by
		FROM items ORDER BY id`)
	if err != nil {
		return nil
	}
	defer func() { _ = rows.Close() }()

	var out []critique.CritiqueItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			continue
		}
		out = append(out, item)
	}
	return out
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row scanner) (critique.CritiqueItem, error) {
	var item critique.CritiqueItem
	var derivedFrom, rootIDs, similarityWarn string
	var rootSeverity sql.NullString

	err := row.Scan(&item.ID, &item.ProposalID, &item.Role, &item.Round, &item.Severity,
		&item.Title, &item.Detail, &item.NormalizedText, &item.NormalizationSpecVersion,
		&derivedFrom, &rootIDs, &rootSeverity, &similarityWarn, &item.MintedAt, &item.MintedBy)
	if err != nil {
		return critique.CritiqueItem{}, err
	}

	_ = json.Unmarshal([]byte(derivedFrom), &item.DerivedFrom)
	_ = json.Unmarshal([]byte(rootIDs), &item.RootIDs)
	_ = json.Unmarshal([]byte(similarityWarn), &item.SimilarityWarn)
	if rootSeverity.Valid {
		sev := critique.Severity(rootSeverity.String)
		item.RootSeverity = &sev
	}
	return item, nil
}

// DispositionsFor implements critique.DispositionStore.
func (s *Store) DispositionsFor(itemID string) []critique.DispositionRecord {
	rows, err := s.db.Query(`SELECT disposition_id, item_id, round, decided_by, decision,
		rationale, transformation, proposed_at, terminal_at
		FROM dispositions WHERE item_id = ? ORDER BY proposed_at ASC`, itemID)
	if err != nil {
		return nil
	}
	defer func() { _ = rows.Close() }()

	var out []critique.DispositionRecord
	for rows.Next() {
		var rec critique.DispositionRecord
		var transformation sql.NullString
		var terminalAt sql.NullTime
		if err := rows.Scan(&rec.DispositionID, &rec.ItemID, &rec.Round, &rec.DecidedBy,
			&rec.Decision, &rec.Rationale, &transformation, &rec.ProposedAt, &terminalAt); err != nil {
			continue
		}
		if transformation.Valid {
			var t critique.Transformation
			if json.Unmarshal([]byte(transformation.String), &t) == nil {
				rec.Transformation = &t
			}
		}
		if terminalAt.Valid {
			t := terminalAt.Time
			rec.TerminalAt = &t
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProposedAt.Before(out[j].ProposedAt) })
	return out
}

// InsertItems implements critique.ItemAppender.
func (s *Store) InsertItems(items []critique.CritiqueItem) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlitestore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT INTO items (id, proposal_id, role, round, severity, title,
		detail, normalized_text, normalization_spec_version, derived_from, root_ids,
		root_severity, similarity_warn, minted_at, minted_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("sqlitestore: prepare insert item: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, item := range items {
		derivedFrom, _ := json.Marshal(item.DerivedFrom)
		rootIDs, _ := json.Marshal(item.RootIDs)
		similarityWarn, _ := json.Marshal(item.SimilarityWarn)
		var rootSeverity interface{}
		if item.RootSeverity != nil {
			rootSeverity = string(*item.RootSeverity)
		}

		if _, err := stmt.Exec(item.ID, item.ProposalID, item.Role, item.Round, item.Severity,
			item.Title, item.Detail, item.NormalizedText, item.NormalizationSpecVersion,
			string(derivedFrom), string(rootIDs), rootSeverity, string(similarityWarn),
			item.MintedAt, item.MintedBy); err != nil {
			return fmt.Errorf("sqlitestore: insert item %s: %w", item.ID, err)
		}
	}
	return tx.Commit()
}

// InsertDispositions implements critique.DispositionAppender.
func (s *Store) InsertDispositions(records []critique.DispositionRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlitestore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT INTO dispositions (disposition_id, item_id, round,
		decided_by, decision, rationale, transformation, proposed_at, terminal_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlitestore: prepare insert disposition: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		var transformation interface{}
		if rec.Transformation != nil {
			b, _ := json.Marshal(rec.Transformation)
			transformation = string(b)
		}
		var terminalAt interface{}
		if rec.TerminalAt != nil {
			terminalAt = *rec.TerminalAt
		}

		if _, err := stmt.Exec(rec.DispositionID, rec.ItemID, rec.Round, rec.DecidedBy,
			rec.Decision, rec.Rationale, transformation, rec.ProposedAt, terminalAt); err != nil {
			return fmt.Errorf("sqlitestore: insert disposition %s: %w", rec.DispositionID, err)
		}
	}
	return tx.Commit()
}

// SaveArtifact persists a round's derived snapshot as JSON. Write-once: an
// existing (proposal_id, round) row causes a conflict error.
func (s *Store) SaveArtifact(ctx context.Context, artifact critique.RoundArtifact) error {
	payload, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("sqlitestore: marshal artifact: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO round_artifacts
		(proposal_id, round, artifact_id, produced_at, payload) VALUES (?, ?, ?, ?, ?)`,
		artifact.ProposalID, artifact.Round, artifact.ArtifactID, artifact.ProducedAt, string(payload))
	if err != nil {
		return fmt.Errorf("sqlitestore: save artifact for proposal %s round %d: %w", artifact.ProposalID, artifact.Round, err)
	}
	return nil
}

// GetArtifact loads a previously saved round artifact.
func (s *Store) GetArtifact(ctx context.Context, proposalID string, round int) (critique.RoundArtifact, bool) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM round_artifacts WHERE proposal_id = ? AND round = ?`,
		proposalID, round).Scan(&payload)
	if err != nil {
		return critique.RoundArtifact{}, false
	}
	var artifact critique.RoundArtifact
	if json.Unmarshal([]byte(payload), &artifact) != nil {
		return critique.RoundArtifact{}, false
	}
	return artifact, true
}
