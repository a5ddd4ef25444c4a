// hestia command: CLI entry point for the settings store
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/agilira/hestia/cmd/cli"
)

func main() {
	manager := cli.NewManager()
	if err := manager.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "hestia: %v\n", err)
		os.Exit(1)
	}
}
