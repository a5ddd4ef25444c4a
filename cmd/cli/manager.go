// Package cli provides the command-line interface for the Hestia settings
// store.
//
// Built on the Orpheus framework like the rest of the AGILira tooling, it
// exposes the store's read/write protocol for scripting and debugging:
// inspecting values, changing them with full backup rotation, creating a
// first-run file and exporting the snapshot for other tools.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package cli

import (
	"github.com/agilira/hestia"
	"github.com/agilira/orpheus/pkg/orpheus"
)

// Manager wires the Orpheus application to the settings store operations.
type Manager struct {
	app         *orpheus.App
	auditLogger *hestia.AuditLogger // optional, nil disables CLI auditing
}

// NewManager creates the CLI manager with the full command set.
func NewManager() *Manager {
	app := orpheus.New("hestia").
		SetDescription("Section/key settings store with backup-rotating INI persistence").
		SetVersion("1.0.0")

	manager := &Manager{app: app}
	manager.setupCommands()
	return manager
}

// WithAudit enables audit logging for mutating CLI operations.
func (m *Manager) WithAudit(auditLogger *hestia.AuditLogger) *Manager {
	m.auditLogger = auditLogger
	return m
}

// Run executes the CLI application with the provided arguments.
func (m *Manager) Run(args []string) error {
	return m.app.Run(args)
}

func (m *Manager) setupCommands() {
	// get <section> <key>
	getCmd := orpheus.NewCommand("get", "Print the value of section/key").
		AddFlag("config", "c", "hestia.ini", "Settings file path").
		SetHandler(m.handleGet)
	m.app.AddCommand(getCmd)

	// set <section> <key> <value>
	setCmd := orpheus.NewCommand("set", "Set the value of an existing section/key").
		AddFlag("config", "c", "hestia.ini", "Settings file path").
		SetHandler(m.handleSet)
	m.app.AddCommand(setCmd)

	// list
	listCmd := orpheus.NewCommand("list", "List all sections and keys").
		AddFlag("config", "c", "hestia.ini", "Settings file path").
		SetHandler(m.handleList)
	m.app.AddCommand(listCmd)

	// init [--initial-dir=] [--player-dir=]
	initCmd := orpheus.NewCommand("init", "Create the settings file with defaults").
		AddFlag("config", "c", "hestia.ini", "Settings file path").
		AddFlag("initial-dir", "", "", "Seed value for general/InitialDir (default: platform browse directory)").
		AddFlag("player-dir", "", "", "Seed value for general/PlayerDir (default: platform player directory)").
		SetHandler(m.handleInit)
	m.app.AddCommand(initCmd)

	// export [--format=yaml|json]
	exportCmd := orpheus.NewCommand("export", "Dump the settings snapshot to stdout").
		AddFlag("config", "c", "hestia.ini", "Settings file path").
		AddFlag("format", "f", "yaml", "Output format (yaml|json)").
		SetHandler(m.handleExport)
	m.app.AddCommand(exportCmd)
}
