// defaults_test.go: Tests for platform default resolution
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package hestia

import (
	"runtime"
	"testing"
)

func TestDefaultInitialDirIsNonEmpty(t *testing.T) {
	if dir := DefaultInitialDir(); dir == "" {
		t.Error("DefaultInitialDir must always resolve to something")
	}
}

func TestDefaultPlayerDirPerPlatform(t *testing.T) {
	dir := DefaultPlayerDir()
	if dir == "" {
		t.Fatal("DefaultPlayerDir must always resolve to something")
	}
	if runtime.GOOS != "windows" && dir != "/usr/bin" {
		t.Errorf("Unexpected player dir on %s: %q", runtime.GOOS, dir)
	}
}
