// Utility functions for the Hestia CLI
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/agilira/go-errors"
	"github.com/agilira/hestia"
	"github.com/agilira/orpheus/pkg/orpheus"
)

// openStore builds and loads a store from the --config flag.
//
// With create=false the file must already exist: the CLI refuses to
// silently seed a new settings file when the user mistyped a path. The init
// command passes create=true and relies on the store's first-run creation.
func (m *Manager) openStore(ctx *orpheus.Context, create bool) (*hestia.Store, error) {
	path := ctx.GetFlagString("config")

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			if !create {
				return nil, errors.New(hestia.ErrCodeIOError,
					fmt.Sprintf("settings file %s does not exist (run 'hestia init' first)", path))
			}
		} else {
			return nil, errors.Wrap(err, hestia.ErrCodeIOError,
				fmt.Sprintf("cannot stat settings file %s", path))
		}
	} else if create {
		return nil, errors.New(hestia.ErrCodeInconsistentState,
			fmt.Sprintf("settings file %s already exists", path))
	}

	opts := hestia.Options{Path: path}
	if create {
		opts.DefaultInitialDir = ctx.GetFlagString("initial-dir")
		opts.DefaultPlayerDir = ctx.GetFlagString("player-dir")
	}

	store, err := hestia.New(opts)
	if err != nil {
		return nil, err
	}
	if err := store.Load(); err != nil {
		return nil, err
	}

	if m.auditLogger != nil {
		sections, _ := store.SectionCount()
		keys, _ := store.KeyCount()
		m.auditLogger.LogLoad(path, sections, keys)
	}
	return store, nil
}

func closeStore(store *hestia.Store) {
	_ = store.Close()
}

// snapshotTree converts a snapshot into plain nested maps for export
// marshalling, keyed section -> key -> value.
func snapshotTree(snap *hestia.Snapshot) map[string]map[string]string {
	tree := make(map[string]map[string]string, snap.SectionCount())
	for _, name := range snap.SectionNames() {
		sec, _ := snap.Section(name)
		entries := make(map[string]string, sec.Len())
		for _, key := range sec.Keys() {
			value, _ := sec.Value(key)
			entries[key] = value
		}
		tree[name] = entries
	}
	return tree
}
