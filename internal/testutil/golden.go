// Package testutil holds golden-file helpers shared by package tests.
package testutil

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// updateGolden rewrites golden files instead of comparing against them.
// Use: go test ./internal/wire -run Golden -update
var updateGolden = flag.Bool("update", false, "update golden files")

// GoldenDir is where golden files live, relative to the package under test.
const GoldenDir = "testdata/golden"

// ShouldUpdate returns true if golden files should be updated.
func ShouldUpdate() bool {
	return *updateGolden
}

// GoldenPath returns the path of the golden file for name.
func GoldenPath(name string) string {
	return filepath.Join(GoldenDir, name+".golden")
}

// CompareGolden compares got byte for byte against the golden file for
// name, failing with a diff on mismatch. With -update it writes got
// instead.
func CompareGolden(t *testing.T, name string, got []byte) {
	t.Helper()

	goldenPath := GoldenPath(name)

	if *updateGolden {
		UpdateGolden(t, name, got)
		t.Logf("Updated golden: %s", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("Golden file missing: %s\n\nGot:\n%q\n\nRun with -update to create:\n  go test -run %s -update",
				goldenPath, got, t.Name())
		}
		t.Fatalf("Failed to read golden file: %v", err)
	}

	if !bytes.Equal(got, expected) {
		diff := unifiedDiff(visible(expected), visible(got), goldenPath)
		t.Fatalf("Golden mismatch for %s:\n%s\n\nRun with -update to refresh:\n  go test -run %s -update",
			name, diff, t.Name())
	}
}

// UpdateGolden writes data to the golden file for name.
func UpdateGolden(t *testing.T, name string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(GoldenDir, 0o755); err != nil {
		t.Fatalf("Failed to create golden directory: %v", err)
	}
	if err := os.WriteFile(GoldenPath(name), data, 0o644); err != nil {
		t.Fatalf("Failed to write golden file: %v", err)
	}
}

// visible makes carriage returns show up in diffs.
func visible(data []byte) string {
	return strings.ReplaceAll(string(data), "\r", `\r`)
}

// unifiedDiff produces a simple line-by-line diff between two strings.
func unifiedDiff(expected, got, path string) string {
	var buf bytes.Buffer

	expectedLines := strings.Split(expected, "\n")
	gotLines := strings.Split(got, "\n")

	fmt.Fprintf(&buf, "--- %s (expected)\n", path)
	fmt.Fprintf(&buf, "+++ %s (got)\n", path)

	n := max(len(expectedLines), len(gotLines))
	for i := 0; i < n; i++ {
		var expLine, gotLine string
		if i < len(expectedLines) {
			expLine = expectedLines[i]
		}
		if i < len(gotLines) {
			gotLine = gotLines[i]
		}
		if expLine == gotLine {
			fmt.Fprintf(&buf, " %s\n", expLine)
			continue
		}
		if i < len(expectedLines) {
			fmt.Fprintf(&buf, "-%s\n", expLine)
		}
		if i < len(gotLines) {
			fmt.Fprintf(&buf, "+%s\n", gotLine)
		}
	}
	return buf.String()
}
