package main

import (
	"fmt"

	"github.com/spf13/cobra"

	slp "github.com/dep2p/go-slp"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(slp.VersionInfo())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
