// Command handlers for the Hestia CLI
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/agilira/go-errors"
	"github.com/agilira/hestia"
	"github.com/agilira/orpheus/pkg/orpheus"
	"go.yaml.in/yaml/v3"
)

// handleGet prints the value of section/key, or fails when it is absent.
func (m *Manager) handleGet(ctx *orpheus.Context) error {
	section := ctx.GetArg(0)
	key := ctx.GetArg(1)

	store, err := m.openStore(ctx, false)
	if err != nil {
		return err
	}
	defer closeStore(store)

	value, ok, err := store.Get(section, key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New(hestia.ErrCodeInvalidConfig,
			fmt.Sprintf("%s/%s not found", section, key))
	}

	fmt.Println(value)
	return nil
}

// handleSet updates an existing section/key and persists with backup
// rotation. The store refuses to invent sections or keys, so a typo fails
// loudly instead of polluting the file.
func (m *Manager) handleSet(ctx *orpheus.Context) error {
	section := ctx.GetArg(0)
	key := ctx.GetArg(1)
	value := ctx.GetArg(2)

	store, err := m.openStore(ctx, false)
	if err != nil {
		return err
	}
	defer closeStore(store)

	if err := store.Set(section, key, value); err != nil {
		return err
	}

	fmt.Printf("Set %s/%s = %s in %s\n", section, key, value, store.Path())
	return nil
}

// handleList prints every section with its keys in document order.
func (m *Manager) handleList(ctx *orpheus.Context) error {
	store, err := m.openStore(ctx, false)
	if err != nil {
		return err
	}
	defer closeStore(store)

	snap := store.Snapshot()
	for _, name := range snap.SectionNames() {
		fmt.Printf("[%s]\n", name)
		sec, _ := snap.Section(name)
		for _, key := range sec.Keys() {
			value, _ := sec.Value(key)
			fmt.Printf("  %s = %s\n", key, value)
		}
	}
	fmt.Printf("%d section(s), %d key(s)\n", snap.SectionCount(), snap.KeyCount())
	return nil
}

// handleInit creates the settings file on a fresh path, seeding the
// [general] section from flags or platform defaults.
func (m *Manager) handleInit(ctx *orpheus.Context) error {
	store, err := m.openStore(ctx, true)
	if err != nil {
		return err
	}
	defer closeStore(store)

	sections, _ := store.SectionCount()
	keys, _ := store.KeyCount()
	fmt.Printf("Created %s (%d section(s), %d key(s))\n", store.Path(), sections, keys)
	return nil
}

// handleExport dumps the snapshot as YAML or JSON for consumption by other
// tooling. The export is a one-way convenience; the INI file stays the
// single durable source.
func (m *Manager) handleExport(ctx *orpheus.Context) error {
	store, err := m.openStore(ctx, false)
	if err != nil {
		return err
	}
	defer closeStore(store)

	tree := snapshotTree(store.Snapshot())

	var out []byte
	switch format := ctx.GetFlagString("format"); format {
	case "yaml", "yml":
		out, err = yaml.Marshal(tree)
	case "json":
		out, err = json.MarshalIndent(tree, "", "  ")
	default:
		return errors.New(hestia.ErrCodeInvalidConfig,
			fmt.Sprintf("unsupported export format %q (yaml|json)", format))
	}
	if err != nil {
		return errors.Wrap(err, hestia.ErrCodeInvalidConfig, "failed to marshal snapshot")
	}

	fmt.Printf("%s\n", out)
	return nil
}
