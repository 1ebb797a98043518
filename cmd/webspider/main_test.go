package main

import (
	"os"
	"testing"

	"webspider/internal/cmd"
)

func TestVersionVariables(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty string")
	}
	if BuildTime == "" {
		t.Error("BuildTime should not be empty string")
	}

	cmd.SetVersionInfo(Version, BuildTime)
}

func TestExecuteHelp(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"webspider", "--help"}

	cmd.SetVersionInfo("test-version", "test-build-time")

	// Help is handled by cobra and returns nil.
	if err := cmd.Execute(); err != nil {
		t.Errorf("Execute with --help should not return error, got: %v", err)
	}
}

func TestExecuteVersion(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"webspider", "--version"}

	cmd.SetVersionInfo("1.0.0-test", "2026-01-01T10:00:00Z")

	if err := cmd.Execute(); err != nil {
		t.Errorf("Execute with --version should not return error, got: %v", err)
	}
}
