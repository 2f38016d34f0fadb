package db

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matt-steen/event-planner/pkg/planner"
	// use the sqlite db driver.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

//go:embed base.sql
var baseSQL string

// Database is the key/value store behind the planner. It keeps each section of the state as a
// JSON blob under its own key.
type Database struct {
	conn *sql.DB
	now  func() time.Time
}

// NewDatabase connects to the sqlite database at the given filename and initializes the
// structure if not present.
func NewDatabase(ctx context.Context, filename string) (*Database, error) {
	conn, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("error connecting to sqlite db at %s: %w", filename, err)
	}

	database := Database{
		conn: conn,
		now:  time.Now,
	}

	err = database.initialize(ctx)
	if err != nil {
		conn.Close()

		return nil, err
	}

	return &database, nil
}

func (d *Database) initialize(ctx context.Context) error {
	// run idempotent setup sql to create empty tables if they don't exist
	if _, err := d.conn.ExecContext(ctx, baseSQL); err != nil {
		return fmt.Errorf("error running base sql: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.conn.Close()
}

// Entries returns the stored sections keyed by storage key.
func (d *Database) Entries(ctx context.Context) (map[string]Entry, error) {
	rows, err := d.conn.QueryContext(ctx, `SELECT key, value, updated_datetime FROM storage`)
	if err != nil {
		return nil, fmt.Errorf("error loading storage: %w", err)
	}
	defer rows.Close()

	entries := map[string]Entry{}

	for rows.Next() {
		var entry Entry

		if err := rows.Scan(&entry.Key, &entry.Value, &entry.UpdatedDatetime); err != nil {
			return nil, fmt.Errorf("error scanning storage: %w", err)
		}

		entries[entry.Key] = entry
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error scanning storage: %w", err)
	}

	return entries, nil
}

// LoadAll reads every section back into a document. It reports false when nothing was saved yet.
func (d *Database) LoadAll(ctx context.Context) (*planner.Document, bool, error) {
	entries, err := d.Entries(ctx)
	if err != nil {
		return nil, false, err
	}

	if len(entries) == 0 {
		return nil, false, nil
	}

	doc := &planner.Document{
		Guests:     []*planner.Guest{},
		Tables:     []*planner.Table{},
		Tasks:      []*planner.Task{},
		AppVersion: planner.AppVersion,
	}

	sections := map[string]interface{}{
		KeyGuests: &doc.Guests,
		KeyTables: &doc.Tables,
		KeyUTable: &doc.UTable,
		KeyTasks:  &doc.Tasks,
	}

	for key, target := range sections {
		entry, ok := entries[key]
		if !ok {
			continue
		}

		if err := json.Unmarshal([]byte(entry.Value), target); err != nil {
			return nil, false, fmt.Errorf("error decoding %s: %w", key, err)
		}
	}

	log.Debug().Int("sections", len(entries)).Msg("loaded storage")

	return doc, true, nil
}

// SaveAll writes every section of the document in one transaction.
func (d *Database) SaveAll(ctx context.Context, doc *planner.Document) error {
	values := map[string]interface{}{
		KeyGuests: doc.Guests,
		KeyTables: doc.Tables,
		KeyUTable: doc.UTable,
		KeyTasks:  doc.Tasks,
	}

	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	now := d.now()

	for _, key := range Keys() {
		value, err := json.Marshal(values[key])
		if err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("error encoding %s: %w", key, err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO storage (key, value, updated_datetime) VALUES ($1, $2, $3)
			     ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_datetime = excluded.updated_datetime`,
			key, string(value), now,
		)
		if err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("error saving %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing storage: %w", err)
	}

	return nil
}
