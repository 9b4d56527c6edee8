// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package main

import (
	"maps"
	"os"
	"slices"

	"github.com/netrace/netrace/internal/pkg/enumflag"
	"github.com/pkg/profile"
)

const (
	profileEnv     = "NETRACE_PROFILE"
	profilePathEnv = "NETRACE_PROFILE_PATH"
)

var (
	profileTypes = map[string]func(*profile.Profile){
		"block":     profile.BlockProfile,
		"cpu":       profile.CPUProfile,
		"goroutine": profile.GoroutineProfile,
		"mem":       profile.MemProfile,
		"alloc":     profile.MemProfileAllocs,
		"heap":      profile.MemProfileHeap,
		"mutex":     profile.MutexProfile,
		"clock":     profile.ClockProfile,
		"trace":     profile.TraceProfile,
	}
	profileTypeFlag = enumflag.New(os.Getenv(profileEnv), slices.Collect(maps.Keys(profileTypes))...)
	profilePathFlag = rootCmd.PersistentFlags().String("profile-path", os.Getenv(profilePathEnv), "Output directory for profile files")
)

func init() {
	rootCmd.PersistentFlags().Var(profileTypeFlag, "profile", profileTypeFlag.DocString("Enable profiling"))
}

type stopper interface{ Stop() }

type noopStop struct{}

func (noopStop) Stop() {}

// startProfile starts the profile selected by --profile, if any.
func startProfile() stopper {
	opt, ok := profileTypes[profileTypeFlag.String()]
	if !ok {
		return noopStop{}
	}
	path := *profilePathFlag
	if path == "" {
		path = "."
	}
	return profile.Start(profile.ProfilePath(path), opt, profile.Quiet)
}
