// integration_test.go: Tests for the FlashFlags override layer
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package hestia

import (
	"testing"
)

func newOverrideStore(t *testing.T) *Store {
	t.Helper()
	store := newTestStore(t)
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return store
}

func TestOverridesApplyFlag(t *testing.T) {
	store := newOverrideStore(t)

	ov := NewOverrides("player").
		Register(SectionGeneral, KeyInitialDir, "Directory the browser opens in")
	if err := ov.Parse([]string{"--general.InitialDir=/flagged/music"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if err := ov.Apply(store); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	v, ok, err := store.Get(SectionGeneral, KeyInitialDir)
	if err != nil || !ok || v != "/flagged/music" {
		t.Errorf("Override not applied: %q (ok=%v, err=%v)", v, ok, err)
	}
}

func TestOverridesApplyEnvironment(t *testing.T) {
	store := newOverrideStore(t)

	t.Setenv("PLAYER_GENERAL_INITIALDIR", "/env/music")

	ov := NewOverrides("player").
		Register(SectionGeneral, KeyInitialDir, "Directory the browser opens in")
	if err := ov.Parse(nil); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if err := ov.Apply(store); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	v, _, _ := store.Get(SectionGeneral, KeyInitialDir)
	if v != "/env/music" {
		t.Errorf("Environment override not applied: %q", v)
	}
}

func TestOverridesFlagBeatsEnvironment(t *testing.T) {
	store := newOverrideStore(t)

	t.Setenv("PLAYER_GENERAL_INITIALDIR", "/env/music")

	ov := NewOverrides("player").
		Register(SectionGeneral, KeyInitialDir, "Directory the browser opens in")
	if err := ov.Parse([]string{"--general.InitialDir=/flag/music"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if err := ov.Apply(store); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	v, _, _ := store.Get(SectionGeneral, KeyInitialDir)
	if v != "/flag/music" {
		t.Errorf("Flag must take precedence over environment: %q", v)
	}
}

func TestOverridesUnknownKeyFails(t *testing.T) {
	store := newOverrideStore(t)

	ov := NewOverrides("player").
		Register("phantom", "Key", "Not in the file")
	if err := ov.Parse([]string{"--phantom.Key=v"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	err := ov.Apply(store)
	assertErrorCode(t, err, ErrCodeMissingSection)
}

func TestOverridesWithoutValuesIsNoOp(t *testing.T) {
	store := newOverrideStore(t)
	before, _, _ := store.Get(SectionGeneral, KeyInitialDir)

	ov := NewOverrides("player").
		Register(SectionGeneral, KeyInitialDir, "Directory the browser opens in")
	if err := ov.Parse(nil); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if err := ov.Apply(store); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	after, _, _ := store.Get(SectionGeneral, KeyInitialDir)
	if before != after {
		t.Errorf("Apply without overrides must not change values: %q -> %q", before, after)
	}
}
