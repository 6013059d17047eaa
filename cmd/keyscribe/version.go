package main

import (
	"bytes"
	_ "embed"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

//go:embed version.txt
var versionBytes []byte

func init() {
	rootCmd.AddCommand(versionCmd)
}

// versionString is the release from version.txt plus the Go runtime it was
// built with.
func versionString() string {
	return fmt.Sprintf("keyscribe %s (%s %s/%s)",
		bytes.TrimSpace(versionBytes), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versionString())
	},
}
