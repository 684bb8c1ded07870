// Package version reports build information embedded by the Go toolchain.
package version

import (
	"runtime/debug"
	"time"
)

const AppName = "dare"

type Info struct {
	Version   string
	Commit    string
	BuildTime time.Time
	GoVersion string
	Modified  bool
}

// Get reads the running binary's build info. Fields the toolchain did not
// record are left empty.
func Get() Info {
	info := Info{Version: "dev"}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
		case "vcs.time":
			info.BuildTime, _ = time.Parse(time.RFC3339, s.Value)
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// Short is the version with an abbreviated commit, e.g. "v1.2.0 (1a2b3c4)".
func (i Info) Short() string {
	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if commit == "" {
		return i.Version
	}
	if i.Modified {
		commit += "-dirty"
	}
	return i.Version + " (" + commit + ")"
}
