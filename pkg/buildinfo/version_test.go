package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFillFrom(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)

	tests := []struct {
		name                string
		version, commit     string
		info                debug.BuildInfo
		wantVer, wantCommit string
	}{
		{
			name:    "module version and vcs stamp",
			version: "dev", commit: "none",
			info: debug.BuildInfo{
				Main:     debug.Module{Version: "v1.4.0"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
			},
			wantVer: "v1.4.0", wantCommit: "abc123",
		},
		{
			name:    "devel build keeps defaults",
			version: "dev", commit: "none",
			info:    debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			wantVer: "dev", wantCommit: "none",
		},
		{
			name:    "ldflags win",
			version: "v2.0.0", commit: "feed",
			info: debug.BuildInfo{
				Main:     debug.Module{Version: "v1.4.0"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
			},
			wantVer: "v2.0.0", wantCommit: "feed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, Commit, Date = tt.version, tt.commit, "unknown"
			fillFrom(&tt.info)
			if Version != tt.wantVer || Commit != tt.wantCommit {
				t.Errorf("fillFrom() = %q/%q, want %q/%q", Version, Commit, tt.wantVer, tt.wantCommit)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	got := Template()
	for _, want := range []string{"{{.Name}}", Version, Commit, Date} {
		if !strings.Contains(got, want) {
			t.Errorf("Template() = %q, missing %q", got, want)
		}
	}
	if !strings.Contains(String(), "version: "+Version) {
		t.Errorf("String() = %q", String())
	}
}
