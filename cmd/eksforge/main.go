// Package main is the entry point for the eksforge CLI.
//
// eksforge is a command-line tool for provisioning production-ready
// Kubernetes clusters on Amazon EKS from a declarative descriptor. It
// provides a stateless approach to cluster management without requiring
// Terraform or CloudFormation.
//
// Commands: init, validate, render, apply, destroy.
//
// For detailed usage information, run:
//
//	eksforge --help
package main

import (
	"fmt"
	"os"

	"github.com/eksforge/eksforge/cmd/eksforge/commands"
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
