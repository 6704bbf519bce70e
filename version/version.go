package version

import (
	"fmt"
	"runtime/debug"
	"strings"

	"golang.org/x/mod/module"
)

const develVersion = "dev"

var (
	// Version and Commit are set at build time using -ldflags.
	Version = ""
	Commit  = ""
)

var readBuildInfo = debug.ReadBuildInfo

// Info represents version information.
type Info struct {
	Module    string `json:"module,omitempty"`
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
	Dirty     bool   `json:"dirty"`
}

// Get returns the version information of the running binary.
func Get() Info {
	bi, ok := readBuildInfo()
	return fromBuildInfo(bi, ok)
}

func fromBuildInfo(bi *debug.BuildInfo, ok bool) Info {
	info := Info{Version: Version, Commit: Commit}

	if ok && bi != nil {
		info.Module = bi.Main.Path
		info.GoVersion = bi.GoVersion
		if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, setting := range bi.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = setting.Value
				}
			case "vcs.modified":
				info.Dirty = setting.Value == "true"
			}
		}
	}

	if info.Version == "" {
		info.Version = develVersion
	}
	if len(info.Commit) > 7 {
		info.Commit = info.Commit[:7]
	}
	return info
}

// IsRelease reports whether the version is a tagged, clean build.
func (i Info) IsRelease() bool {
	return i.Version != develVersion && !i.Dirty && !module.IsPseudoVersion(i.Version)
}

// Short returns version[-commit][-dirty].
func (i Info) Short() string {
	parts := []string{i.Version}
	if i.Commit != "" && !i.IsRelease() {
		parts = append(parts, i.Commit)
	}
	if i.Dirty {
		parts = append(parts, "dirty")
	}
	return strings.Join(parts, "-")
}

// String returns a one-line description such as
// "injectgen v1.2.0 (go1.26.0)".
func (i Info) String() string {
	s := i.Short()
	if i.GoVersion != "" {
		s = fmt.Sprintf("%s (%s)", s, i.GoVersion)
	}
	return s
}
