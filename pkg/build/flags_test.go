// SPDX-License-Identifier: MIT
package build

import (
	"os"
	"strings"
	"testing"
)

var (
	origName    string
	origTime    string
	origCommit  string
	origVersion string
	origInfo    Info
)

func TestMain(m *testing.M) {
	origName = buildName
	origTime = buildTime
	origCommit = buildCommit
	origVersion = buildVersion
	origInfo = buildInfo

	exitCode := m.Run()

	buildName = origName
	buildTime = origTime
	buildCommit = origCommit
	buildVersion = origVersion
	buildInfo = origInfo

	os.Exit(exitCode)
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name        string
		buildName   string
		buildTime   string
		buildCommit string
		buildVer    string
		wantMissing []string
		want        Info
	}{
		{
			"Development build",
			"", "", "", "",
			[]string{"buildVersion", "buildCommit", "buildTime"},
			Info{Name: "qkdhal", Version: "dev", Commit: "unknown", Time: "unknown"},
		},
		{
			"Missing commit",
			"", "2025-04-13", "", "v0.3.0",
			[]string{"buildCommit"},
			Info{Name: "qkdhal", Version: "v0.3.0", Commit: "unknown", Time: "2025-04-13"},
		},
		{
			"Release build",
			"qkdhal-lab", "2025-04-13", "abcdef123", "v0.3.0",
			nil,
			Info{Name: "qkdhal-lab", Version: "v0.3.0", Commit: "abcdef123", Time: "2025-04-13"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buildInfo = origInfo
			buildName = tt.buildName
			buildTime = tt.buildTime
			buildCommit = tt.buildCommit
			buildVersion = tt.buildVer

			err := Initialize()
			if len(tt.wantMissing) == 0 && err != nil {
				t.Errorf("Initialize() unexpected error: %v", err)
			}
			for _, flag := range tt.wantMissing {
				if err == nil || !strings.Contains(err.Error(), flag+" is not set") {
					t.Errorf("Initialize() error = %v, want %s reported", err, flag)
				}
			}
			if got := Get(); got != tt.want {
				t.Errorf("Get() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestInfoString(t *testing.T) {
	info := Info{Name: "qkdhal", Version: "v0.3.0", Commit: "abcdef1", Time: "2025-04-13"}
	want := "qkdhal v0.3.0 (commit abcdef1, built 2025-04-13)"
	if got := info.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
