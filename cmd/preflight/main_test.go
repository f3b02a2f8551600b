package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPreflight_Defaults(t *testing.T) {
	var out, errOut bytes.Buffer
	if !preflight(&out, &errOut) {
		t.Fatalf("defaults should pass: %s", errOut.String())
	}
	if !strings.Contains(errOut.String(), "alerts go to the log only") {
		t.Fatalf("want log-only warning, got %q", errOut.String())
	}
}

func TestPreflight_BadDelay(t *testing.T) {
	t.Setenv("CHECK_DELAY_MS", "0")
	var out, errOut bytes.Buffer
	if preflight(&out, &errOut) {
		t.Fatal("zero delay should fail")
	}
}

func TestPreflight_LocationsFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "locations.yaml")
	if err := os.WriteFile(good, []byte("- country: Norway\n  cities: [Oslo, Bergen]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LOCATIONS_FILE", good)

	var out, errOut bytes.Buffer
	if !preflight(&out, &errOut) {
		t.Fatalf("good file should pass: %s", errOut.String())
	}
	if !strings.Contains(out.String(), "loaded 1 countries") {
		t.Fatalf("unexpected output %q", out.String())
	}

	t.Setenv("LOCATIONS_FILE", filepath.Join(dir, "missing.yaml"))
	if preflight(&out, &errOut) {
		t.Fatal("missing file should fail")
	}
}
