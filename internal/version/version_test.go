package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	origCommit, origDate := Commit, Date
	defer func() { Commit, Date = origCommit, origDate }()

	Commit, Date = "unknown", "unknown"
	if got := String(); !strings.HasPrefix(got, "domcol version "+Version+" (") {
		t.Errorf("String() = %q", got)
	}

	Commit, Date = "abc", "2026-01-01T00:00:00Z"
	if got := String(); !strings.Contains(got, "commit: abc,") {
		t.Errorf("String() = %q, want short commit kept whole", got)
	}

	Commit = "0123456789abcdef"
	if got := String(); !strings.Contains(got, "commit: 01234567,") {
		t.Errorf("String() = %q, want commit truncated to 8 characters", got)
	}
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	if info.Version != Version || info.GoVersion == "" || !strings.Contains(info.Platform, "/") {
		t.Errorf("GetInfo() = %+v", info)
	}
}
