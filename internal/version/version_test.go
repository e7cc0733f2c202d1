package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	origVersion := Version
	origCommit := Commit
	defer func() {
		Version = origVersion
		Commit = origCommit
	}()

	tests := []struct {
		name        string
		version     string
		commit      string
		wantContain string
		wantExact   string
	}{
		{name: "unknown commit", version: "1.0.0", commit: "unknown", wantExact: "1.0.0"},
		{name: "short commit", version: "1.0.0", commit: "abc", wantExact: "1.0.0"},
		{name: "exactly 7 char commit", version: "2.0.0", commit: "1234567", wantExact: "2.0.0"},
		{name: "full commit hash", version: "1.0.0", commit: "abc1234567890", wantContain: "(abc1234)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version = tt.version
			Commit = tt.commit

			got := Info()
			if tt.wantExact != "" && got != tt.wantExact {
				t.Errorf("Info() = %q, want %q", got, tt.wantExact)
			}
			if tt.wantContain != "" && !strings.Contains(got, tt.wantContain) {
				t.Errorf("Info() = %q, want it to contain %q", got, tt.wantContain)
			}
		})
	}
}

func TestFull(t *testing.T) {
	origBuildDate := BuildDate
	defer func() { BuildDate = origBuildDate }()
	BuildDate = "2026-01-02"

	got := Full()
	for _, part := range []string{"usersvc version", "Commit:", "Built: 2026-01-02"} {
		if !strings.Contains(got, part) {
			t.Errorf("Full() = %q, missing %q", got, part)
		}
	}
}
