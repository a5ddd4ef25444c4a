// audit_backend.go: Storage backends for the settings audit trail
//
// Two backends behind one interface: a unified SQLite database for queryable
// audit history, and JSONL files for deployments that ship logs to an
// aggregator. Selection is automatic with graceful degradation, so audit
// setup can never prevent the host application from starting.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package hestia

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver registration
)

// auditBackend abstracts the audit storage mechanism.
type auditBackend interface {
	// Write persists a batch of audit events.
	Write(events []AuditEvent) error

	// Flush commits pending writes to storage.
	Flush() error

	// Close releases resources; the backend must not be used afterwards.
	Close() error
}

// createAuditBackend selects the storage backend:
//
//  1. An OutputFile with a .jsonl extension forces the JSONL backend.
//  2. Otherwise SQLite is attempted first (unified audit database).
//  3. JSONL is the fallback when SQLite initialization fails.
func createAuditBackend(config AuditConfig) (auditBackend, error) {
	if config.OutputFile != "" && filepath.Ext(config.OutputFile) == ".jsonl" {
		return newJSONLBackend(config)
	}

	backend, err := newSQLiteBackend(config)
	if err == nil {
		return backend, nil
	}

	jsonlBackend, jsonlErr := newJSONLBackend(config)
	if jsonlErr != nil {
		return nil, fmt.Errorf("all audit backends failed - SQLite: %w, JSONL: %v", err, jsonlErr)
	}
	return jsonlBackend, nil
}

// unifiedAuditPath is where the system-wide SQLite audit database lives when
// the configuration does not name an explicit .db file.
func unifiedAuditPath() string {
	return filepath.Join(os.TempDir(), "hestia", "settings-audit.db")
}

// sqliteAuditBackend consolidates audit events into one SQLite database.
type sqliteAuditBackend struct {
	db         *sql.DB
	dbPath     string
	insertStmt *sql.Stmt
	mu         sync.Mutex
	closed     bool
}

func newSQLiteBackend(config AuditConfig) (*sqliteAuditBackend, error) {
	dbPath := unifiedAuditPath()
	if config.OutputFile != "" && filepath.Ext(config.OutputFile) == ".db" {
		dbPath = config.OutputFile
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create audit database directory: %w", err)
	}

	// WAL keeps writers from blocking readers; NORMAL sync is enough for
	// an audit log that can afford to lose the last second on a crash.
	db, err := sql.Open("sqlite3",
		fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping audit database: %w", err)
	}

	backend := &sqliteAuditBackend{db: db, dbPath: dbPath}
	if err := backend.initializeSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize audit schema: %w", err)
	}
	if err := backend.prepareStatements(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare audit statements: %w", err)
	}
	return backend, nil
}

func (s *sqliteAuditBackend) initializeSchema() error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS settings_audit (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		level TEXT NOT NULL,
		event TEXT NOT NULL,
		file_path TEXT,
		section TEXT,
		key TEXT,
		old_value TEXT,
		new_value TEXT,
		process_id INTEGER NOT NULL,
		process_name TEXT NOT NULL,
		checksum TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := s.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create settings_audit table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_settings_audit_timestamp ON settings_audit(timestamp)",
		"CREATE INDEX IF NOT EXISTS idx_settings_audit_event ON settings_audit(event)",
		"CREATE INDEX IF NOT EXISTS idx_settings_audit_section_key ON settings_audit(section, key)",
	}
	for _, indexSQL := range indexes {
		if _, err := s.db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create audit index: %w", err)
		}
	}
	return nil
}

func (s *sqliteAuditBackend) prepareStatements() error {
	stmt, err := s.db.Prepare(`
		INSERT INTO settings_audit
		(timestamp, level, event, file_path, section, key, old_value, new_value, process_id, process_name, checksum)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	s.insertStmt = stmt
	return nil
}

// Write persists a batch of events inside one transaction.
func (s *sqliteAuditBackend) Write(events []AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("audit backend is closed")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin audit transaction: %w", err)
	}

	stmt := tx.Stmt(s.insertStmt)
	for _, event := range events {
		_, err := stmt.Exec(
			event.Timestamp.Format(time.RFC3339Nano),
			event.Level.String(),
			event.Event,
			event.FilePath,
			event.Section,
			event.Key,
			event.OldValue,
			event.NewValue,
			event.ProcessID,
			event.ProcessName,
			event.Checksum,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert audit event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit audit transaction: %w", err)
	}
	return nil
}

// Flush is a no-op: SQLite commits on transaction boundaries.
func (s *sqliteAuditBackend) Flush() error { return nil }

func (s *sqliteAuditBackend) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.insertStmt != nil {
		_ = s.insertStmt.Close()
	}
	return s.db.Close()
}

// jsonlAuditBackend appends events as line-delimited JSON, one object per
// event. Human-readable, grep-able, trivially shipped to log aggregators.
type jsonlAuditBackend struct {
	file *os.File
	mu   sync.Mutex
}

func newJSONLBackend(config AuditConfig) (*jsonlAuditBackend, error) {
	outputFile := config.OutputFile
	if outputFile == "" {
		outputFile = filepath.Join(os.TempDir(), "hestia", "settings-audit.jsonl")
	}
	if err := os.MkdirAll(filepath.Dir(outputFile), 0750); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory: %w", err)
	}

	file, err := os.OpenFile(outputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log file: %w", err)
	}
	return &jsonlAuditBackend{file: file}, nil
}

func (j *jsonlAuditBackend) Write(events []AuditEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	encoder := json.NewEncoder(j.file)
	for _, event := range events {
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode audit event: %w", err)
		}
	}
	return nil
}

func (j *jsonlAuditBackend) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Sync()
}

func (j *jsonlAuditBackend) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.file.Sync(); err != nil {
		_ = j.file.Close()
		return err
	}
	return j.file.Close()
}
