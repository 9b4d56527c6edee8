// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

// Command netrace traces sewer and waterway networks from the command line, or serves traces over HTTP.
package main

import (
	"os"

	"github.com/netrace/netrace/internal/pkg/enumflag"
	"github.com/netrace/netrace/internal/pkg/logging"
	"github.com/netrace/netrace/internal/pkg/must"
	"github.com/netrace/netrace/pkg/build"
	"github.com/netrace/netrace/pkg/service"
	"github.com/spf13/cobra"
)

const configEnv = "NETRACE_CONFIG"

var (
	rootCmd = &cobra.Command{
		Use:           "netrace",
		Short:         "Trace flow through connected pipe and waterway networks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	log = logging.Log()

	// Global Flags
	outputFlag  = enumflag.New("yaml", "yaml", "json", "json-pretty", "text")
	configFlag  *string
	verboseFlag *int
	panicFlag   *bool

	profileStop stopper = noopStop{}
)

func init() {
	rootCmd.Version = build.Version
	pf := rootCmd.PersistentFlags()
	pf.VarP(outputFlag, "output", "o", outputFlag.DocString("Output format"))
	configFlag = pf.StringP("config", "c", os.Getenv(configEnv), "Configuration file or URL, default from $"+configEnv)
	verboseFlag = pf.IntP("verbose", "v", 0, "Verbosity for logging")
	panicFlag = pf.Bool("panic", false, "panic on error instead of exit code 1")

	rootCmd.PersistentPreRun = func(*cobra.Command, []string) { // After flags are parsed
		logging.Init(*verboseFlag)
		profileStop = startProfile()
	}
	rootCmd.PersistentPostRun = func(*cobra.Command, []string) { profileStop.Stop() }
}

// newService loads the configured graph, the command fails if the load fails.
func newService(cmd *cobra.Command) *service.Service {
	if *configFlag == "" {
		must.Must(errNoConfig)
	}
	s := service.New(*configFlag, nil)
	must.Must(s.Load(cmd.Context()))
	return s
}

func main() {
	// Code in this package panics with an error to exit.
	defer must.Recover(os.Stderr, panicFlag)
	must.Must(rootCmd.Execute())
}
