package main

import (
	"github.com/spf13/cobra"

	"github.com/keyscribe/keyscribe/internal/file"
	"github.com/keyscribe/keyscribe/internal/processor"
)

var trimFlags struct {
	output   string
	start    float64
	duration float64
}

func init() {
	rootCmd.AddCommand(trimCmd)
	trimCmd.Flags().StringVarP(&trimFlags.output, "output", "o", "", "output file name (default: <input>.preview.mid)")
	trimCmd.Flags().Float64Var(&trimFlags.start, "start", 0, "window start in seconds")
	trimCmd.Flags().Float64Var(&trimFlags.duration, "duration", 30, "window length in seconds (0: to the end)")
}

var trimCmd = &cobra.Command{
	Use:   "trim <input.mid>",
	Short: "Cut a preview window out of a score",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := file.ReadScoreFile(args[0])
		if err != nil {
			return err
		}
		out := processor.Trim(s, trimFlags.start, trimFlags.duration)
		return writeOutput(cmd, outputName(trimFlags.output, args[0], "preview"), out)
	},
}
