// defaults.go: Platform defaults seeded into a freshly created file
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package hestia

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultInitialDir returns the platform browse directory seeded into
// general/InitialDir on first run: the user's Music folder when present,
// otherwise the home directory, otherwise the current directory.
func DefaultInitialDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	music := filepath.Join(home, "Music")
	if info, err := os.Stat(music); err == nil && info.IsDir() {
		return music
	}
	return home
}

// DefaultPlayerDir returns the platform player installation directory seeded
// into general/PlayerDir on first run.
func DefaultPlayerDir() string {
	if runtime.GOOS == "windows" {
		if pf := os.Getenv("ProgramFiles"); pf != "" {
			return pf
		}
		return `C:\Program Files`
	}
	return "/usr/bin"
}
