package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/comigor/prepbuddy/internal/mcptools"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the interview and quiz tools over MCP stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol
			_, closeLog, err := bootstrap(os.Stderr)
			if err != nil {
				return err
			}
			defer closeLog()
			return mcptools.Serve(version)
		},
	}
}
