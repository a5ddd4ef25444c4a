// integration.go: FlashFlags override layer for the settings store
//
// Lets the host application expose selected settings as command-line flags
// and environment variables. Overrides flow through the normal Set path, so
// a flag can never invent a section or key the user's file does not have.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package hestia

import (
	"fmt"
	"os"
	"strings"

	flashflags "github.com/agilira/flash-flags"
)

// Overrides binds store values to command-line flags and environment
// variables. Precedence: flag > environment variable > file value.
//
// Flag names are "<section>.<key>"; environment variables are
// "<APPNAME>_<SECTION>_<KEY>".
//
// Example:
//
//	ov := hestia.NewOverrides("player").
//	    Register("general", "InitialDir", "Directory the file browser opens in").
//	    Register("general", "PlayerDir", "Player installation directory")
//	if err := ov.Parse(os.Args[1:]); err != nil {
//	    log.Fatal(err)
//	}
//	if err := ov.Apply(store); err != nil {
//	    log.Fatal(err)
//	}
type Overrides struct {
	flags   *flashflags.FlagSet
	appName string
	bound   []overrideBinding
}

type overrideBinding struct {
	section  string
	key      string
	flagName string
}

// NewOverrides creates an override manager for the given application name.
func NewOverrides(appName string) *Overrides {
	return &Overrides{
		flags:   flashflags.New(appName),
		appName: appName,
	}
}

// SetDescription sets the application description for help text.
func (o *Overrides) SetDescription(description string) *Overrides {
	o.flags.SetDescription(description)
	return o
}

// SetVersion sets the application version for help text.
func (o *Overrides) SetVersion(version string) *Overrides {
	o.flags.SetVersion(version)
	return o
}

// Register exposes section/key as the flag "<section>.<key>" (and the matching
// environment variable). Fluent, returns the receiver.
func (o *Overrides) Register(section, key, usage string) *Overrides {
	flagName := section + "." + key
	o.flags.String(flagName, "", usage)
	o.bound = append(o.bound, overrideBinding{section: section, key: key, flagName: flagName})
	return o
}

// Parse parses command-line arguments.
func (o *Overrides) Parse(args []string) error {
	if err := o.flags.Parse(args); err != nil {
		return fmt.Errorf("failed to parse command-line flags: %w", err)
	}
	return nil
}

// PrintUsage prints help information for all registered override flags.
func (o *Overrides) PrintUsage() {
	o.flags.PrintHelp()
}

// Apply pushes every provided override into the store through the normal Set
// path. The store must be loaded; an override naming an unknown section or
// key fails with the store's usual missing-section/missing-key error and
// stops the application of further overrides.
func (o *Overrides) Apply(store *Store) error {
	for _, binding := range o.bound {
		value := o.flags.GetString(binding.flagName)
		if value == "" {
			value = os.Getenv(o.envKey(binding.flagName))
		}
		if value == "" {
			continue
		}
		if err := store.Set(binding.section, binding.key, value); err != nil {
			return err
		}
	}
	return nil
}

// envKey converts "general.InitialDir" to "PLAYER_GENERAL_INITIALDIR".
func (o *Overrides) envKey(flagName string) string {
	normalized := strings.NewReplacer(".", "_", "-", "_").Replace(flagName)
	return strings.ToUpper(o.appName + "_" + normalized)
}
