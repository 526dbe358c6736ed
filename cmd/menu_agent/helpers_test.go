package main

import (
	"os"
	"path/filepath"
	"testing"
)

// getBinaryPath returns the path to the menu_agent binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "menu_agent"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/menu_agent ./cmd/menu_agent'", binaryPath)
	}

	return binaryPath
}

// cleanEnv returns the process environment without variables that would
// change the agent's configuration.
func cleanEnv(extra ...string) []string {
	var env []string
	for _, kv := range os.Environ() {
		if len(kv) >= 5 && kv[:5] == "MENU_" {
			continue
		}
		if len(kv) >= 13 && kv[:13] == "GITHUB_TOKEN=" {
			continue
		}
		env = append(env, kv)
	}
	return append(env, extra...)
}
