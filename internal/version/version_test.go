package version

import "testing"

func TestVersionDefault(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestVersionOverride(t *testing.T) {
	origVersion := Version
	origCommit := GitCommit
	defer func() {
		Version = origVersion
		GitCommit = origCommit
	}()

	Version = "1.2.3"
	GitCommit = "abc123"
	if Version != "1.2.3" || GitCommit != "abc123" {
		t.Errorf("override failed: %q %q", Version, GitCommit)
	}
}
