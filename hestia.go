// hestia.go: Section/key configuration store backed by an INI file
//
// Philosophy:
// - One immutable Snapshot, replaced wholesale on every mutation
// - Strict structure: no duplicate sections/keys, no implicit creation
// - One-generation backup rotation on every normal write
// - Every failure surfaces to the caller; no retries, no swallowing
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package hestia

import (
	"fmt"
	"os"

	"github.com/agilira/go-errors"
)

// Error codes for Hestia operations
const (
	ErrCodeNotLoaded         = "HESTIA_NOT_LOADED"
	ErrCodeDuplicateSection  = "HESTIA_DUPLICATE_SECTION"
	ErrCodeDuplicateKey      = "HESTIA_DUPLICATE_KEY"
	ErrCodeOrphanKey         = "HESTIA_ORPHAN_KEY"
	ErrCodeMissingSection    = "HESTIA_MISSING_SECTION"
	ErrCodeMissingKey        = "HESTIA_MISSING_KEY"
	ErrCodeInconsistentState = "HESTIA_INCONSISTENT_STATE"
	ErrCodeIOError           = "HESTIA_IO_ERROR"
	ErrCodeInvalidConfig     = "HESTIA_INVALID_CONFIG"
)

// Names seeded into a freshly created configuration file.
const (
	SectionGeneral = "general"
	KeyInitialDir  = "InitialDir"
	KeyPlayerDir   = "PlayerDir"
)

// BackupSuffix is appended to the live path to form the backup path.
const BackupSuffix = ".bak"

// Options configures a Store.
type Options struct {
	// Path is the INI file the store owns. Required.
	Path string

	// BackupPath overrides the backup location.
	// Default: Path + ".bak"
	BackupPath string

	// DefaultInitialDir seeds general/InitialDir on first run.
	// Default: the platform browse directory (see DefaultInitialDir).
	DefaultInitialDir string

	// DefaultPlayerDir seeds general/PlayerDir on first run.
	// Default: the platform player installation directory (see DefaultPlayerDir).
	DefaultPlayerDir string

	// Audit configures the optional mutation audit trail.
	// Zero value disables auditing entirely.
	Audit AuditConfig
}

// WithDefaults applies sensible defaults to the options.
func (o *Options) WithDefaults() *Options {
	opts := *o

	if opts.BackupPath == "" && opts.Path != "" {
		opts.BackupPath = opts.Path + BackupSuffix
	}
	if opts.DefaultInitialDir == "" {
		opts.DefaultInitialDir = DefaultInitialDir()
	}
	if opts.DefaultPlayerDir == "" {
		opts.DefaultPlayerDir = DefaultPlayerDir()
	}

	return &opts
}

// SetOptions controls a single Set operation.
type SetOptions struct {
	// DeferWrite updates only the in-memory Snapshot; the caller is
	// responsible for eventually calling Flush.
	DeferWrite bool

	// FileCreation permits creating sections and keys that do not exist
	// yet. This mode exists solely for populating defaults before the
	// file exists; normal operation must leave it false.
	FileCreation bool
}

// Store owns the configuration file and the current in-memory Snapshot.
//
// The store performs no internal locking: it is designed to be driven from a
// single goroutine (the host application's event thread). Concurrent Get/Set
// from multiple goroutines is not supported.
type Store struct {
	path       string
	backupPath string
	opts       Options

	// snapshot is nil until Load succeeds, then replaced wholesale by
	// every Load and every effective Set. Never mutated in place.
	snapshot *Snapshot

	auditLogger *AuditLogger // nil when auditing is disabled
}

// New creates a Store for the given options. The file is not touched until
// Load is called.
func New(opts Options) (*Store, error) {
	cfg := opts.WithDefaults()
	if cfg.Path == "" {
		return nil, errors.New(ErrCodeInvalidConfig, "options: Path cannot be empty")
	}

	store := &Store{
		path:       cfg.Path,
		backupPath: cfg.BackupPath,
		opts:       *cfg,
	}

	if cfg.Audit.Enabled {
		logger, err := NewAuditLogger(cfg.Audit)
		if err != nil {
			// Auditing must never prevent the host application from
			// starting; fall back to disabled.
			logger = nil
		}
		store.auditLogger = logger
	}

	return store, nil
}

// Path returns the live configuration file path.
func (s *Store) Path() string { return s.path }

// BackupPath returns the backup file path.
func (s *Store) BackupPath() string { return s.backupPath }

// Loaded reports whether a Load has completed successfully.
func (s *Store) Loaded() bool { return s.snapshot != nil }

// Snapshot returns the current immutable snapshot, or nil before Load.
// The returned value is safe to hold across subsequent Set calls; it will
// simply describe the state it was taken at.
func (s *Store) Snapshot() *Snapshot { return s.snapshot }

// Load populates the in-memory Snapshot from the file.
//
// If the file does not exist it is created first: a default Snapshot with a
// [general] section (InitialDir, PlayerDir) is serialized to disk, then the
// just-written file is parsed back so that memory and disk derive from the
// same bytes. If the file exists it is read and parsed.
//
// Load may be called again to reload. A parse or I/O failure propagates and
// leaves the previous Snapshot, if any, unchanged.
func (s *Store) Load() error {
	_, err := os.Stat(s.path)
	switch {
	case err == nil:
		return s.loadExisting()
	case os.IsNotExist(err):
		return s.createWithDefaults()
	default:
		return errors.Wrap(err, ErrCodeIOError, fmt.Sprintf("cannot stat configuration file %s", s.path))
	}
}

// loadExisting reads and parses the file, installing the result. The prior
// snapshot survives any failure.
func (s *Store) loadExisting() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return errors.Wrap(err, ErrCodeIOError, fmt.Sprintf("cannot read configuration file %s", s.path))
	}

	snap, err := parseSnapshot(data)
	if err != nil {
		return err
	}

	s.snapshot = snap
	s.auditLogger.LogLoad(s.path, snap.SectionCount(), snap.KeyCount())
	return nil
}

// createWithDefaults synthesizes the first-run snapshot, writes it in
// creation mode and parses the written file back into memory.
func (s *Store) createWithDefaults() error {
	seed := newSnapshot().
		withValue(SectionGeneral, KeyInitialDir, s.opts.DefaultInitialDir).
		withValue(SectionGeneral, KeyPlayerDir, s.opts.DefaultPlayerDir)

	if err := s.writeFull(seed, true); err != nil {
		return err
	}

	if err := s.loadExisting(); err != nil {
		return err
	}

	s.auditLogger.LogCreate(s.path)
	return nil
}

// Get returns the raw string value of section/key from the current Snapshot.
// A missing section or key is reported as ok=false, not as an error.
// Calling Get before a successful Load fails with ErrCodeNotLoaded.
func (s *Store) Get(section, key string) (value string, ok bool, err error) {
	if s.snapshot == nil {
		return "", false, errors.New(ErrCodeNotLoaded, "configuration has not been loaded")
	}
	value, ok = s.snapshot.Value(section, key)
	return value, ok, nil
}

// Set updates section/key to value and persists immediately.
// Equivalent to SetWithOptions with the zero SetOptions.
func (s *Store) Set(section, key, value string) error {
	return s.SetWithOptions(section, key, value, SetOptions{})
}

// SetWithOptions updates section/key to value.
//
// Outside file-creation mode the section and the key must already exist;
// absence is ErrCodeMissingSection / ErrCodeMissingKey, never an implicit
// create. Writing a value identical to the current one is a no-op: no new
// Snapshot, no file write, no backup churn.
//
// An effective update installs a new Snapshot and, unless DeferWrite is set,
// immediately persists it with backup rotation.
func (s *Store) SetWithOptions(section, key, value string, opts SetOptions) error {
	current := s.snapshot
	if current == nil {
		if !opts.FileCreation {
			return errors.New(ErrCodeNotLoaded, "configuration has not been loaded")
		}
		current = newSnapshot()
	}

	if opts.FileCreation {
		if err := validateSectionName(section); err != nil {
			return err
		}
		if err := validateKey(key); err != nil {
			return err
		}
	} else {
		sec, found := current.Section(section)
		if !found {
			return errors.New(ErrCodeMissingSection, fmt.Sprintf("section %q does not exist", section))
		}
		if _, found := sec.Value(key); !found {
			return errors.New(ErrCodeMissingKey, fmt.Sprintf("key %q does not exist in section %q", key, section))
		}
	}

	if prev, found := current.Value(section, key); found && prev == value {
		return nil
	}

	next := current.withValue(section, key, value)
	oldValue, _ := current.Value(section, key)
	s.snapshot = next

	s.auditLogger.LogValueChange(s.path, section, key, oldValue, value)

	if opts.DeferWrite {
		return nil
	}
	return s.writeFull(next, false)
}

// Flush persists the current Snapshot. It is the companion of
// SetOptions.DeferWrite: after a sequence of deferred updates, one Flush
// writes the accumulated state with a single backup rotation.
func (s *Store) Flush() error {
	if s.snapshot == nil {
		return errors.New(ErrCodeNotLoaded, "configuration has not been loaded")
	}
	return s.writeFull(s.snapshot, false)
}

// SectionCount returns the number of sections in the current Snapshot.
func (s *Store) SectionCount() (int, error) {
	if s.snapshot == nil {
		return 0, errors.New(ErrCodeNotLoaded, "configuration has not been loaded")
	}
	return s.snapshot.SectionCount(), nil
}

// KeyCount returns the total number of keys across all sections.
func (s *Store) KeyCount() (int, error) {
	if s.snapshot == nil {
		return 0, errors.New(ErrCodeNotLoaded, "configuration has not been loaded")
	}
	return s.snapshot.KeyCount(), nil
}

// Close releases the audit logger, flushing any buffered events. The store
// itself holds no other resources.
func (s *Store) Close() error {
	if s.auditLogger == nil {
		return nil
	}
	err := s.auditLogger.Close()
	s.auditLogger = nil
	return err
}
