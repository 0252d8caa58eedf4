// Package sqlite provides a SQLite implementation of the AssertionStore
// interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/arxiv/relations-core/internal/domain/entities"
	"github.com/arxiv/relations-core/internal/domain/ports"
	"github.com/arxiv/relations-core/internal/infrastructure/config"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.AssertionStore using SQLite. Assertions are
// insert-only; the UNIQUE constraint on prior_id gives the ledger its
// compare-and-append guarantee under concurrency.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Assertion ledger (insert-only; rows are never updated or deleted).
	-- UNIQUE(prior_id) enforces the single-active-parent rule: under a race,
	-- only the first assertion referencing a given prior commits.
	CREATE TABLE IF NOT EXISTS assertions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		relation TEXT NOT NULL,
		eprint_id TEXT NOT NULL,
		eprint_version INTEGER NOT NULL,
		resource_type TEXT NOT NULL,
		resource_id TEXT NOT NULL,
		description TEXT,
		client_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		prior_id INTEGER UNIQUE REFERENCES assertions(id),
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_assertions_eprint ON assertions(eprint_id, eprint_version);
	CREATE INDEX IF NOT EXISTS idx_assertions_resource ON assertions(resource_type, resource_id);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

const assertionColumns = `id, action, relation, eprint_id, eprint_version,
	resource_type, resource_id, description, client_id, user_id, prior_id, created_at`

// Append commits a new assertion, assigning its ID and CreatedAt. The commit
// timestamp is set here, never by callers.
func (r *Repository) Append(ctx context.Context, a *entities.Assertion) error {
	query := `
		INSERT INTO assertions (action, relation, eprint_id, eprint_version,
			resource_type, resource_id, description, client_id, user_id, prior_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := timeNow().UTC()

	var prior sql.NullInt64
	if a.Prior != nil {
		prior = sql.NullInt64{Int64: *a.Prior, Valid: true}
	}

	result, err := r.db.ExecContext(ctx, query,
		string(a.Action),
		string(a.Relation),
		a.EPrintID,
		a.EPrintVersion,
		string(a.Resource.Type),
		a.Resource.Identifier,
		a.Description,
		a.Creator.ClientID,
		a.Creator.UserID,
		prior,
		createdAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ports.ErrPriorTaken
		}
		return fmt.Errorf("appending assertion: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading assertion id: %w", err)
	}

	a.ID = id
	a.CreatedAt = createdAt
	return nil
}

// FindByID returns the assertion with the given ID, or nil if absent.
func (r *Repository) FindByID(ctx context.Context, id int64) (*entities.Assertion, error) {
	query := fmt.Sprintf(`SELECT %s FROM assertions WHERE id = ?`, assertionColumns)
	return r.queryOne(ctx, query, id)
}

// FindSuccessor returns the assertion referencing priorID, or nil if the
// given assertion is still a chain head.
func (r *Repository) FindSuccessor(ctx context.Context, priorID int64) (*entities.Assertion, error) {
	query := fmt.Sprintf(`SELECT %s FROM assertions WHERE prior_id = ?`, assertionColumns)
	return r.queryOne(ctx, query, priorID)
}

// FindByEPrint returns all assertions for the e-print, oldest first. A
// specific version also matches paper-level rows; VersionAny returns all.
func (r *Repository) FindByEPrint(ctx context.Context, eprintID string, version int) ([]entities.Assertion, error) {
	var (
		query string
		args  []any
	)
	if version == entities.VersionAny {
		query = fmt.Sprintf(`
			SELECT %s FROM assertions
			WHERE eprint_id = ?
			ORDER BY id ASC
		`, assertionColumns)
		args = []any{eprintID}
	} else {
		query = fmt.Sprintf(`
			SELECT %s FROM assertions
			WHERE eprint_id = ? AND eprint_version IN (?, ?)
			ORDER BY id ASC
		`, assertionColumns)
		args = []any{eprintID, version, entities.VersionAny}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying assertions: %w", err)
	}
	defer rows.Close()

	result := make([]entities.Assertion, 0, 16)
	for rows.Next() {
		a, err := scanAssertion(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

// CountAssertions returns the total number of committed assertions.
func (r *Repository) CountAssertions(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assertions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting assertions: %w", err)
	}
	return count, nil
}

func (r *Repository) queryOne(ctx context.Context, query string, args ...any) (*entities.Assertion, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying assertion: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanAssertion(rows)
}

// scanAssertion is a helper to scan an assertion row.
func scanAssertion(rows *sql.Rows) (*entities.Assertion, error) {
	var (
		a           entities.Assertion
		action      string
		relation    string
		resType     string
		description sql.NullString
		prior       sql.NullInt64
	)

	err := rows.Scan(
		&a.ID,
		&action,
		&relation,
		&a.EPrintID,
		&a.EPrintVersion,
		&resType,
		&a.Resource.Identifier,
		&description,
		&a.Creator.ClientID,
		&a.Creator.UserID,
		&prior,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning assertion: %w", err)
	}

	a.Action = entities.Action(action)
	a.Relation = entities.RelationType(relation)
	a.Resource.Type = entities.ResourceType(resType)
	a.Description = description.String
	if prior.Valid {
		p := prior.Int64
		a.Prior = &p
	}
	return &a, nil
}
