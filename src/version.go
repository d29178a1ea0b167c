package nrpucch

import (
	"fmt"
	"runtime/debug"
	"strconv"
)

// Set at build time via `-ldflags "-X 'github.com/doismellburning/nrpucch/src.NRPUCCH_VERSION=X'"`
var NRPUCCH_VERSION string

func getBuildSettingOrDefault(bi *debug.BuildInfo, key string, defaultValue string) string {
	if bi == nil {
		return defaultValue
	}

	for _, bs := range bi.Settings {
		if bs.Key == key {
			return bs.Value
		}
	}

	return defaultValue
}

// One line, for --version and the simulation report.
func versionString() string {
	var buildInfo, _ = debug.ReadBuildInfo()

	var (
		buildTime                 = getBuildSettingOrDefault(buildInfo, "vcs.time", "UNKNOWN")
		buildCommit               = getBuildSettingOrDefault(buildInfo, "vcs.revision", "UNKNOWN")
		buildDirtyStr             = getBuildSettingOrDefault(buildInfo, "vcs.modified", "INVALID")
		buildDirty, buildDirtyErr = strconv.ParseBool(buildDirtyStr)
	)

	if buildDirty {
		buildCommit += "-DIRTY"
	} else if buildDirtyErr != nil {
		buildCommit += "-UNKNOWNDIRTY"
	}

	var version = NRPUCCH_VERSION
	if version == "" {
		version = "!UNKNOWN!"
	}

	return fmt.Sprintf("nrpucch %s (revision %s, built at %s)", version, buildCommit, buildTime)
}

func printVersion() {
	fmt.Println(versionString())
}
