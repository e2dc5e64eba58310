package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/flotilla-ml/flotilla/cli"
	"github.com/flotilla-ml/flotilla/flotillad"
	"github.com/flotilla-ml/flotilla/pkg/sdk"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "flotilla-cli",
		Short: "Flotilla CLI",
		Long:  `Flotilla CLI is a command line interface for interacting with flotilla components.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			sdkConf := sdk.Config{
				MasterURL:       flotillad.DefMasterURL,
				TLSVerification: flotillad.DefTLSVerification,
			}
			s := sdk.NewSDK(sdkConf)
			cli.SetFlotillaSDK(s)
		},
	}

	rootCmd.PersistentFlags().StringVarP(
		&flotillad.DefMasterURL,
		"master-url",
		"m",
		flotillad.DefMasterURL,
		"Master URL",
	)

	rootCmd.AddCommand(cli.NewPassesCmd())
	rootCmd.AddCommand(cli.NewTrainCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
