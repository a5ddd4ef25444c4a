// parser.go: INI text to Snapshot parser
//
// The on-disk format is deliberately narrow: [section] headers and key=value
// lines, nothing else. Anything that matches neither shape is skipped on
// read and never emitted on write.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package hestia

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/agilira/go-errors"
)

// parseSnapshot assembles a Snapshot from INI file text in a single forward
// pass over the lines.
//
// Structural rules:
//   - "[name]" closes the currently open section (committing it, which fails
//     on a duplicate name) and opens a new one named by the trimmed interior.
//   - The first '=' on a line splits key (trimmed) from value (raw right-hand
//     side). A repeated key inside the open section fails.
//   - A key/value line before any section header fails: there is no section
//     to attach it to, and dropping user data silently would be worse.
//   - Every other line is skipped.
//
// Either the fully assembled Snapshot is returned or an error; no partial
// snapshot ever escapes.
func parseSnapshot(data []byte) (*Snapshot, error) {
	snap := newSnapshot()
	var open *Section

	for lineNum, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			if open != nil {
				if err := snap.commit(open); err != nil {
					return nil, err
				}
			}
			open = newSection(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}

		if idx := strings.Index(line, "="); idx >= 0 {
			if open == nil {
				return nil, errors.New(ErrCodeOrphanKey,
					fmt.Sprintf("key/value at line %d precedes any [section] header", lineNum+1))
			}
			key := strings.TrimSpace(line[:idx])
			value := line[idx+1:]
			if _, dup := open.Value(key); dup {
				return nil, errors.New(ErrCodeDuplicateKey,
					fmt.Sprintf("duplicate key %q in section %q at line %d", key, open.name, lineNum+1))
			}
			open.set(key, value)
			continue
		}

		// Unrecognized line: diagnostic-only, skipped.
	}

	if open != nil {
		if err := snap.commit(open); err != nil {
			return nil, err
		}
	}

	return snap, nil
}

func duplicateSectionError(name string) error {
	return errors.New(ErrCodeDuplicateSection, fmt.Sprintf("duplicate section %q", name))
}

// validateSectionName rejects section names that could not survive a
// serialize/parse round trip. Applied to names created through file-creation
// mode; names read from an existing file are taken as-is.
func validateSectionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New(ErrCodeInvalidConfig, "section name cannot be empty")
	}
	if strings.ContainsAny(name, "[]") {
		return errors.New(ErrCodeInvalidConfig,
			fmt.Sprintf("section name %q: brackets are not allowed", name))
	}
	return validatePrintable("section name", name)
}

// validateKey rejects keys that could not survive a serialize/parse round
// trip ('=' would split at the wrong place, control characters would break
// the line discipline).
func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New(ErrCodeInvalidConfig, "key cannot be empty")
	}
	if strings.TrimSpace(key) != key {
		return errors.New(ErrCodeInvalidConfig,
			fmt.Sprintf("key %q: leading or trailing whitespace is not allowed", key))
	}
	if strings.Contains(key, "=") {
		return errors.New(ErrCodeInvalidConfig,
			fmt.Sprintf("key %q: '=' is not allowed", key))
	}
	return validatePrintable("key", key)
}

func validatePrintable(what, s string) error {
	for _, r := range s {
		if r == '\x00' || r == '\n' || r == '\r' {
			return errors.New(ErrCodeInvalidConfig,
				fmt.Sprintf("%s %q: line-breaking or null character is not allowed", what, s))
		}
		if !unicode.IsPrint(r) && r != '\t' {
			return errors.New(ErrCodeInvalidConfig,
				fmt.Sprintf("%s %q: non-printable character is not allowed", what, s))
		}
	}
	return nil
}
