package main

import (
	"fmt"

	"github.com/spf13/cobra"

	inferenco "github.com/inferenco/inferenco-mcp"
	"github.com/inferenco/inferenco-mcp/protocol"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (commit %s, built %s, protocol %s)\n",
				inferenco.Name, inferenco.Version, Commit, BuildDate, protocol.LatestVersion)
		},
	}
}
