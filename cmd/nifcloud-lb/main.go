// Package main is the entry point for the nifcloud-lb CLI.
//
// nifcloud-lb converges a NIFCLOUD load balancer listener, its IP filter
// and its registered instances to the state declared in a YAML file.
//
// Commands: init, apply, version.
//
// For detailed usage information, run:
//
//	nifcloud-lb --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/nifcloud-lb/cmd/nifcloud-lb/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
