// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

// package build contains build information for the netrace module.
package build

import (
	"runtime/debug"
)

// Version of netrace, can be set at link time with -ldflags "-X github.com/netrace/netrace/pkg/build.Version=x.y.z".
// If not set it is taken from the module build information.
var Version = ""

func init() {
	if Version != "" {
		return
	}
	Version = "devel"
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			Version = v
			return
		}
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 12 {
				Version = "devel-" + s.Value[:12]
			}
		}
	}
}
