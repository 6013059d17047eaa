package main

import (
	"github.com/spf13/cobra"

	"github.com/keyscribe/keyscribe/internal/file"
	"github.com/keyscribe/keyscribe/internal/processor"
	"github.com/keyscribe/keyscribe/internal/score"
)

var mergeFlags struct {
	output string
}

func init() {
	rootCmd.AddCommand(mergeCmd)
	mergeCmd.Flags().StringVarP(&mergeFlags.output, "output", "o", "", "output file name (default: <first input>.merged.mid)")
}

var mergeCmd = &cobra.Command{
	Use:   "merge <a.mid> <b.mid> [more.mid...]",
	Short: "Union several transcriptions of the same performance",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(processor.Config{})
		if err != nil {
			return err
		}
		var scores []*score.Score
		for _, name := range args {
			s, err := file.ReadScoreFile(name)
			if err != nil {
				return err
			}
			scores = append(scores, s)
		}
		out := processor.MergeAll(config.Merge, scores...)
		return writeOutput(cmd, outputName(mergeFlags.output, args[0], "merged"), out)
	},
}
