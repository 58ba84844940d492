// SPDX-License-Identifier: MIT
//
// Package build holds the version information linked into the qkdhal
// binary. The values are set at compile time with linker flags:
//
//	go build -ldflags "-X qkdhal/pkg/build.buildVersion=0.3.0 \
//	    -X qkdhal/pkg/build.buildCommit=$(git rev-parse --short HEAD) \
//	    -X qkdhal/pkg/build.buildTime=$(date -u +%FT%TZ)"
//
// Development builds carry the defaults below.
package build

import (
	"errors"
	"fmt"
)

// Info describes one build of the tool.
type Info struct {
	Name    string
	Version string
	Commit  string
	Time    string
}

var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildInfo    = Info{
		Name:    "qkdhal",
		Version: "dev",
		Commit:  "unknown",
		Time:    "unknown",
	}
)

// Initialize copies the linker-provided values into the build info. A
// missing value keeps its default and is reported; the returned error lists
// every missing flag.
func Initialize() error {
	var errs []error
	set := func(dst *string, v, flag string) {
		if v == "" {
			errs = append(errs, fmt.Errorf("%s is not set", flag))
			return
		}
		*dst = v
	}
	if buildName != "" {
		buildInfo.Name = buildName
	}
	set(&buildInfo.Version, buildVersion, "buildVersion")
	set(&buildInfo.Commit, buildCommit, "buildCommit")
	set(&buildInfo.Time, buildTime, "buildTime")
	return errors.Join(errs...)
}

// Get returns the current build information.
func Get() Info {
	return buildInfo
}

func (i Info) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", i.Name, i.Version, i.Commit, i.Time)
}
