// writer.go: Snapshot serialization and backup-rotating file writes
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package hestia

import (
	"fmt"
	"os"
	"strings"

	"github.com/agilira/go-errors"
)

// serializeSnapshot renders a Snapshot to file text: each section as a
// "[name]" header followed by one "key=value" line per entry, sections
// separated by a blank line. Order is the Snapshot's document order, so
// parse -> serialize -> parse is stable.
func serializeSnapshot(snap *Snapshot) []byte {
	var b strings.Builder
	for i, name := range snap.names {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteByte('[')
		b.WriteString(name)
		b.WriteString("]\n")

		sec := snap.sections[name]
		for _, key := range sec.keys {
			b.WriteString(key)
			b.WriteByte('=')
			b.WriteString(sec.values[key])
			b.WriteByte('\n')
		}
	}
	return []byte(b.String())
}

// writeFull serializes snap to the live path.
//
// isCreation must be true exactly when the file does not currently exist;
// a mismatch is a programming-contract violation and is never silently
// corrected. The normal (non-creation) path rotates the backup first:
//
//  1. delete an existing "<path>.bak"
//  2. rename the live file to "<path>.bak"
//  3. recreate the live file from the snapshot
//
// Between steps 2 and 3 the live path briefly does not exist. That window is
// the accepted cost of keeping exactly one recoverable prior generation; see
// the package documentation.
func (s *Store) writeFull(snap *Snapshot, isCreation bool) error {
	exists, err := fileExists(s.path)
	if err != nil {
		return err
	}
	if isCreation == exists {
		if isCreation {
			return errors.New(ErrCodeInconsistentState,
				fmt.Sprintf("creation write requested but %s already exists", s.path))
		}
		return errors.New(ErrCodeInconsistentState,
			fmt.Sprintf("update write requested but %s does not exist", s.path))
	}

	if !isCreation {
		if err := s.rotateBackup(); err != nil {
			return err
		}
	}

	if err := os.WriteFile(s.path, serializeSnapshot(snap), 0644); err != nil {
		return errors.Wrap(err, ErrCodeIOError, fmt.Sprintf("cannot write configuration file %s", s.path))
	}
	return nil
}

// rotateBackup performs the delete-old-backup, rename-live-to-backup steps of
// a non-creation write.
func (s *Store) rotateBackup() error {
	backupExists, err := fileExists(s.backupPath)
	if err != nil {
		return err
	}
	if backupExists {
		if err := os.Remove(s.backupPath); err != nil {
			return errors.Wrap(err, ErrCodeIOError, fmt.Sprintf("cannot remove previous backup %s", s.backupPath))
		}
	}

	if err := os.Rename(s.path, s.backupPath); err != nil {
		return errors.Wrap(err, ErrCodeIOError,
			fmt.Sprintf("cannot rotate %s to backup %s", s.path, s.backupPath))
	}

	s.auditLogger.LogBackupRotation(s.path, s.backupPath)
	return nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, errors.Wrap(err, ErrCodeIOError, fmt.Sprintf("cannot stat %s", path))
	}
}
