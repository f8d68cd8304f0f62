package deps

import (
	"os"
	"path/filepath"
	"testing"

	"episplit/internal/testsupport"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if AllAvailable(results) {
		t.Fatal("expected AllAvailable to fail with a missing binary")
	}
}

func TestCheckUsesConfiguredBinaries(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())

	results := Check(cfg)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !AllAvailable(results) {
		t.Fatalf("expected stubbed binaries to resolve: %#v", results)
	}
}

func TestAllAvailableIgnoresOptional(t *testing.T) {
	statuses := []Status{
		{Name: "Required", Available: true},
		{Name: "Extra", Optional: true, Available: false},
	}
	if !AllAvailable(statuses) {
		t.Fatal("optional deps should not fail the check")
	}
}
