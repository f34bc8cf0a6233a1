package infra

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	sqlcipher "github.com/mutecomm/go-sqlcipher/v4"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/anti_cheat/internal/domain"
)

// Ensure sqlcipher driver is registered.
var _ = sqlcipher.ErrBusy

const journalDBName = "journal.db"

// EventJournal implements domain.EventJournal using a SQLCipher encrypted
// SQLite database. It only records events; nothing is read back into the
// engine.
type EventJournal struct {
	db        *sql.DB
	dbPath    string
	protected domain.AppIdentity
	logger    *zap.Logger
}

// NewEventJournal opens (or creates) the encrypted journal in dataDir.
// The key is used as the SQLCipher passphrase via PRAGMA key.
func NewEventJournal(dataDir string, key []byte, protected domain.AppIdentity, logger *zap.Logger) (*EventJournal, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, journalDBName)
	dsn := fmt.Sprintf("%s?_pragma_key=x'%s'&_pragma_cipher_page_size=4096", dbPath, hex.EncodeToString(key))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// A wrong key only surfaces on first access
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to journal: %w", err)
	}

	j := &EventJournal{
		db:        db,
		dbPath:    dbPath,
		protected: protected,
		logger:    logger,
	}

	if err := j.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return j, nil
}

func (j *EventJournal) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS switch_events (
		id TEXT PRIMARY KEY,
		app_name TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		protected_app TEXT NOT NULL,
		detected_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_switch_events_detected_at ON switch_events (detected_at);
	`
	_, err := j.db.Exec(schema)
	return err
}

// OnAppSwitch records the event. Write failures are logged, never returned.
func (j *EventJournal) OnAppSwitch(event domain.SwitchEvent) {
	if err := j.Record(event); err != nil {
		j.logger.Warn("failed to journal switch event",
			zap.String("app_name", event.AppName),
			zap.Error(err))
	}
}

// Record inserts a single event.
func (j *EventJournal) Record(event domain.SwitchEvent) error {
	detectedAt := event.DetectedAt
	if detectedAt.IsZero() {
		detectedAt = time.Now()
	}

	_, err := j.db.Exec(`
		INSERT INTO switch_events (id, app_name, duration_ms, protected_app, detected_at)
		VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), event.AppName, event.DurationMs, string(j.protected), detectedAt.UnixMilli(),
	)
	return err
}

// Recent returns up to limit entries, newest first.
func (j *EventJournal) Recent(limit int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		return []domain.JournalEntry{}, nil
	}

	rows, err := j.db.Query(`
		SELECT id, app_name, duration_ms, protected_app, detected_at
		FROM switch_events
		ORDER BY detected_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0, limit)
	for rows.Next() {
		var e domain.JournalEntry
		var detectedAt int64
		if err := rows.Scan(&e.ID, &e.AppName, &e.DurationMs, &e.ProtectedApp, &detectedAt); err != nil {
			return nil, err
		}
		e.DetectedAt = time.UnixMilli(detectedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear removes all entries.
func (j *EventJournal) Clear() error {
	_, err := j.db.Exec(`DELETE FROM switch_events`)
	return err
}

// Path returns the database file path.
func (j *EventJournal) Path() string {
	return j.dbPath
}

// Close releases the database connection.
func (j *EventJournal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Ensure EventJournal implements domain.EventJournal.
var _ domain.EventJournal = (*EventJournal)(nil)
