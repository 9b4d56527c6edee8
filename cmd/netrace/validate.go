// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package main

import (
	"github.com/netrace/netrace/internal/pkg/must"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate the configuration and network data, print a summary of each network.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		s := newService(cmd)
		st := s.Status()
		log.V(1).Info("Configuration is valid", "config", *configFlag, "vertices", st.Vertices, "edges", st.Edges)
		newPrinter(cmd.OutOrStdout()).Print(must.Must1(s.Networks()))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
