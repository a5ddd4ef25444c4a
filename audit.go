// audit.go: Audit trail for settings mutations
//
// Every change the host application makes to the settings file can be
// recorded here: loads, first-run creation, per-key value changes and backup
// rotations. Events carry a tamper-detection checksum and are buffered and
// flushed in the background, so auditing stays off the Set hot path.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package hestia

import (
	"crypto/sha256"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/agilira/go-timecache"
)

// AuditLevel represents the severity of audit events
type AuditLevel int

const (
	AuditInfo AuditLevel = iota
	AuditWarn
	AuditCritical
)

func (al AuditLevel) String() string {
	switch al {
	case AuditInfo:
		return "INFO"
	case AuditWarn:
		return "WARN"
	case AuditCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// AuditEvent represents a single auditable settings event.
type AuditEvent struct {
	Timestamp   time.Time  `json:"timestamp"`
	Level       AuditLevel `json:"level"`
	Event       string     `json:"event"`
	FilePath    string     `json:"file_path,omitempty"`
	Section     string     `json:"section,omitempty"`
	Key         string     `json:"key,omitempty"`
	OldValue    string     `json:"old_value,omitempty"`
	NewValue    string     `json:"new_value,omitempty"`
	ProcessID   int        `json:"process_id"`
	ProcessName string     `json:"process_name"`
	Checksum    string     `json:"checksum"` // For tamper detection
}

// AuditConfig configures the audit system.
type AuditConfig struct {
	Enabled       bool          `json:"enabled"`
	OutputFile    string        `json:"output_file"`
	MinLevel      AuditLevel    `json:"min_level"`
	BufferSize    int           `json:"buffer_size"`
	FlushInterval time.Duration `json:"flush_interval"`
}

// DefaultAuditConfig returns an enabled audit configuration backed by the
// unified SQLite store. An empty OutputFile selects the SQLite backend;
// specify a path with a .jsonl extension for line-delimited JSON instead.
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		Enabled:       true,
		OutputFile:    "",
		MinLevel:      AuditInfo,
		BufferSize:    256,
		FlushInterval: 5 * time.Second,
	}
}

// AuditLogger provides buffered audit logging with pluggable backends
// (SQLite preferred, JSONL fallback). A nil *AuditLogger is valid and
// discards everything, so call sites never need nil checks.
type AuditLogger struct {
	config      AuditConfig
	backend     auditBackend
	buffer      []AuditEvent
	bufferMu    sync.Mutex
	flushTicker *time.Ticker
	stopCh      chan struct{}
	processID   int
	processName string
}

// NewAuditLogger creates an audit logger with automatic backend selection:
// SQLite for the unified audit database, JSONL when requested by extension
// or when SQLite initialization fails.
func NewAuditLogger(config AuditConfig) (*AuditLogger, error) {
	backend, err := createAuditBackend(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audit backend: %w", err)
	}

	logger := &AuditLogger{
		config:      config,
		backend:     backend,
		buffer:      make([]AuditEvent, 0, config.BufferSize),
		stopCh:      make(chan struct{}),
		processID:   os.Getpid(),
		processName: processName(),
	}

	if config.FlushInterval > 0 {
		logger.flushTicker = time.NewTicker(config.FlushInterval)
		go logger.flushLoop()
	}

	return logger, nil
}

// Log records an audit event.
func (al *AuditLogger) Log(level AuditLevel, event, filePath, section, key, oldVal, newVal string) {
	if al == nil || al.backend == nil || !al.config.Enabled || level < al.config.MinLevel {
		return
	}

	// Cached timestamp, audit must not slow the mutation path down.
	auditEvent := AuditEvent{
		Timestamp:   timecache.CachedTime(),
		Level:       level,
		Event:       event,
		FilePath:    filePath,
		Section:     section,
		Key:         key,
		OldValue:    oldVal,
		NewValue:    newVal,
		ProcessID:   al.processID,
		ProcessName: al.processName,
	}
	auditEvent.Checksum = checksumEvent(auditEvent)

	al.bufferMu.Lock()
	al.buffer = append(al.buffer, auditEvent)
	if len(al.buffer) >= al.config.BufferSize {
		_ = al.flushBufferUnsafe() // keep buffering fast, errors surface on Flush/Close
	}
	al.bufferMu.Unlock()
}

// LogValueChange records a single key mutation (the common case).
func (al *AuditLogger) LogValueChange(filePath, section, key, oldVal, newVal string) {
	al.Log(AuditCritical, "config_change", filePath, section, key, oldVal, newVal)
}

// LogLoad records a successful load of the settings file.
func (al *AuditLogger) LogLoad(filePath string, sections, keys int) {
	al.Log(AuditInfo, "config_loaded", filePath, "", "",
		"", fmt.Sprintf("%d sections, %d keys", sections, keys))
}

// LogCreate records the first-run creation of the settings file.
func (al *AuditLogger) LogCreate(filePath string) {
	al.Log(AuditCritical, "config_created", filePath, "", "", "", "")
}

// LogBackupRotation records a live-to-backup rotation.
func (al *AuditLogger) LogBackupRotation(filePath, backupPath string) {
	al.Log(AuditInfo, "backup_rotated", filePath, "", "", "", backupPath)
}

// Flush immediately writes all buffered events.
func (al *AuditLogger) Flush() error {
	if al == nil {
		return nil
	}
	al.bufferMu.Lock()
	defer al.bufferMu.Unlock()
	return al.flushBufferUnsafe()
}

// Close gracefully shuts down the audit logger, flushing pending events.
func (al *AuditLogger) Close() error {
	if al == nil {
		return nil
	}
	close(al.stopCh)
	if al.flushTicker != nil {
		al.flushTicker.Stop()
	}

	if err := al.Flush(); err != nil {
		return fmt.Errorf("failed to flush audit logger during close: %w", err)
	}

	if al.backend != nil {
		if err := al.backend.Close(); err != nil {
			return fmt.Errorf("failed to close audit backend: %w", err)
		}
	}
	return nil
}

func (al *AuditLogger) flushLoop() {
	for {
		select {
		case <-al.flushTicker.C:
			_ = al.Flush()
		case <-al.stopCh:
			return
		}
	}
}

// flushBufferUnsafe writes the buffer to the backend; caller holds bufferMu.
func (al *AuditLogger) flushBufferUnsafe() error {
	if len(al.buffer) == 0 {
		return nil
	}
	if err := al.backend.Write(al.buffer); err != nil {
		return fmt.Errorf("failed to write audit events to backend: %w", err)
	}
	al.buffer = al.buffer[:0]
	return nil
}

// checksumEvent creates a tamper-detection checksum using SHA-256.
func checksumEvent(event AuditEvent) string {
	data := fmt.Sprintf("%s:%s:%s:%s:%s:%s",
		event.Timestamp.Format(time.RFC3339Nano),
		event.Event, event.Section, event.Key, event.OldValue, event.NewValue)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

func processName() string {
	return "hestia" // could read from /proc/self/comm
}
