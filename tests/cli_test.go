// Package tests holds CLI-level regression tests for the crucible binary,
// adapted from the teacher's "build binary, exec against a scratch
// workspace, inspect output" harness shape (cmd/bd's own CLI tests) to the
// crucible round/lineage/synth command tree.
package tests

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find repo root from %s", wd)
		}
		dir = parent
	}
}

func buildCrucibleBinary(t *testing.T, root string) string {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "crucible-test")
	cmd := exec.Command("go", "build", "-o", bin, "./cmd/crucible")
	cmd.Dir = root
	cmd.Env = os.Environ()
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build crucible binary failed: %v\n%s", err, string(out))
	}
	return bin
}

func run(t *testing.T, bin, dir string, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("command failed before exit code capture: %v\n%s", err, string(out))
		}
	}
	return string(out), exitCode
}

func writeCritiques(t *testing.T, dir, name string, critiques []map[string]interface{}) string {
	t.Helper()
	path := filepath.Join(dir, name)
	data, err := json.Marshal(critiques)
	if err != nil {
		t.Fatalf("marshal critiques: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// TestRoundIngestAndStatus exercises ingest followed by status: role A
// raises a blocking concern, ingest reports it minted, and round status
// reports exactly one active item.
func TestRoundIngestAndStatus(t *testing.T) {
	root := repoRoot(t)
	bin := buildCrucibleBinary(t, root)
	work := t.TempDir()
	dbPath := filepath.Join(work, "round.db")

	raisePath := writeCritiques(t, work, "round1-a.json", []map[string]interface{}{
		{
			"severity": "blocking",
			"title":    "sql injection vulnerability",
			"detail":   "the query handler concatenates user input directly",
		},
	})

	out, code := run(t, bin, work, "--db", dbPath, "round", "ingest",
		"--proposal", "p1", "--role", "A", "--round", "1", raisePath)
	if code != 0 {
		t.Fatalf("ingest failed (exit %d): %s", code, out)
	}
	if !strings.Contains(out, "minted") {
		t.Fatalf("expected a minted item in output, got: %s", out)
	}

	status, code := run(t, bin, work, "--db", dbPath, "round", "status", "--proposal", "p1")
	if code != 0 {
		t.Fatalf("status failed (exit %d): %s", code, status)
	}
	if !strings.Contains(status, "active items: 1") {
		t.Fatalf("expected one active item, got: %s", status)
	}
}

// TestSynthCheckReportsGap mirrors spec.md S7: a blocking active item whose
// display ID and title appear in neither synthesis array is reported as a
// gap, and `synth check` exits non-zero.
func TestSynthCheckReportsGap(t *testing.T) {
	root := repoRoot(t)
	bin := buildCrucibleBinary(t, root)
	work := t.TempDir()
	dbPath := filepath.Join(work, "round.db")

	raisePath := writeCritiques(t, work, "round1-a.json", []map[string]interface{}{
		{
			"severity": "blocking",
			"title":    "sql injection vulnerability",
			"detail":   "the query handler concatenates user input directly",
		},
	})
	if out, code := run(t, bin, work, "--db", dbPath, "round", "ingest",
		"--proposal", "p1", "--role", "A", "--round", "1", raisePath); code != 0 {
		t.Fatalf("ingest failed (exit %d): %s", code, out)
	}

	synthPath := filepath.Join(work, "synthesis.md")
	if err := os.WriteFile(synthPath, []byte("## Accepted\n- unrelated cleanup\n"), 0o644); err != nil {
		t.Fatalf("write synthesis: %v", err)
	}

	out, code := run(t, bin, work, "--db", dbPath, "synth", "check", "--proposal", "p1", synthPath)
	if code == 0 {
		t.Fatalf("expected non-zero exit for an unaddressed blocking item, got 0: %s", out)
	}
	if !strings.Contains(out, "unaddressed") {
		t.Fatalf("expected gap report in output, got: %s", out)
	}
}

// TestRoundIngestMissingDerivedFromFails checks that a derived_from target
// that exists neither in the store nor in the same response is rejected
// wholesale, with no items written.
func TestRoundIngestMissingDerivedFromFails(t *testing.T) {
	root := repoRoot(t)
	bin := buildCrucibleBinary(t, root)
	work := t.TempDir()
	dbPath := filepath.Join(work, "round.db")

	raisePath := writeCritiques(t, work, "round1-a.json", []map[string]interface{}{
		{
			"severity":     "minor",
			"title":        "x",
			"detail":       "refines a concern not yet seen",
			"derived_from": []string{"will-not-exist"},
		},
	})

	out, code := run(t, bin, work, "--db", dbPath, "round", "ingest",
		"--proposal", "p1", "--role", "A", "--round", "1", raisePath)
	if code == 0 {
		t.Fatalf("expected non-zero exit for a missing derived_from target, got 0: %s", out)
	}
	if !strings.Contains(out, "derived_from") {
		t.Fatalf("expected a derived_from error in output, got: %s", out)
	}

	status, _ := run(t, bin, work, "--db", dbPath, "round", "status", "--proposal", "p1")
	if !strings.Contains(status, "active items: 0") {
		t.Fatalf("expected nothing written after a rejected ingest, got: %s", status)
	}
}
