// Package main hosts the episplit CLI entrypoint and command graph.
//
// The Cobra-based command tree surfaces the split pipeline (process),
// single-file diagnostics (detect, probe), episode catalog maintenance
// (catalog convert/show/match), queue inspection, log tailing, staging
// cleanup, dependency checks, and configuration scaffolding. It
// centralizes configuration resolution and logger setup so subcommands
// can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the
// internal packages first, then surface it through dedicated commands
// or flags here.
package main
