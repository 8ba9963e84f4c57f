package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toolgate/toolgate"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of toolgate",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("toolgate version %s\n", toolgate.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
