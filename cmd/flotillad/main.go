package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/flotilla-ml/flotilla/flotillad"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "flotillad",
		Short: "Flotilla Daemon",
		Long:  `Flotilla Daemon manages the lifecycle of flotilla components.`,
	}

	masterCmd := flotillad.NewMasterCmd()

	rootCmd.AddCommand(masterCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
