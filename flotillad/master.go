// Package flotillad hosts the cobra commands for running flotilla
// components as daemons.
package flotillad

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/flotilla-ml/flotilla/masterd"
	"github.com/flotilla-ml/flotilla/pkg/server"
)

var (
	DefTLSVerification = false
	DefMasterURL       = "http://localhost:7070"
)

var masterCmd = []cobra.Command{
	{
		Use:   "start",
		Short: "Start master",
		Long:  `Start master.`,
		Run: func(cmd *cobra.Command, _ []string) {
			cfg := masterd.Config{
				LogLevel: "info",
				Server: server.Config{
					Port: "7070",
				},
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			if err := masterd.StartMaster(ctx, cancel, cfg); err != nil {
				cmd.PrintErrf("failed to start master: %s", err.Error())
			}
			cancel()
		},
	},
}

func NewMasterCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "master [start]",
		Short: "Master management",
		Long:  `Run the flotilla training master.`,
	}

	for i := range masterCmd {
		cmd.AddCommand(&masterCmd[i])
	}

	return &cmd
}
