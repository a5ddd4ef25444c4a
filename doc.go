// Package hestia provides a durable section/key settings store backed by a
// human-editable INI file, designed as the single source of settings for a
// host application (typically a desktop shell driving a media player).
//
// # Philosophy
//
// Hestia keeps one immutable in-memory Snapshot of the configuration and a
// strict read/write protocol that keeps it consistent with the file on disk:
//
//  1. Load() populates the Snapshot once at startup, creating the file with
//     platform defaults on first run.
//  2. Get() is a pure lookup against the current Snapshot.
//  3. Set() validates, computes a new Snapshot (copy-on-write), installs it
//     and persists it with one-generation backup rotation (.bak).
//
// The store enforces structure, not types: section names are unique, keys are
// unique per section, and outside file-creation mode a Set can never invent a
// section or key that the user's file does not already contain.
//
// # Quick Start
//
//	store, err := hestia.New(hestia.Options{Path: "player.ini"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := store.Load(); err != nil {
//		log.Fatal(err)
//	}
//
//	dir, ok, err := store.Get("general", "InitialDir")
//	if err == nil && ok {
//		browser.Open(dir)
//	}
//
//	if err := store.Set("general", "InitialDir", "/srv/music"); err != nil {
//		log.Fatal(err)
//	}
//
// Typed access goes through a caller-supplied parse function:
//
//	step, ok, err := hestia.GetAs(store, "playback", "SeekStep", hestia.ParseDuration)
//
// # Concurrency Model
//
// The store is single-threaded by contract: it performs no internal locking
// and is meant to be driven from the owning application's event thread. All
// file I/O is synchronous. Callers on a latency-sensitive thread should
// offload Load/Set to a worker of their own.
//
// # Durability Model
//
// Every non-creation write rotates the previous file generation to
// "<path>.bak" (delete old backup, rename live file, recreate live file).
// There is a brief window between rename and recreate where the live path
// does not exist; this is a documented limitation of the backup-preserving
// write sequence, not a bug.
//
// # Audit Trail
//
// Mutations can optionally be recorded through the audit subsystem (SQLite or
// JSONL backend, see AuditConfig), giving a tamper-evident history of every
// settings change the host application makes.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package hestia
