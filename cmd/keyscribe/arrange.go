package main

import (
	"github.com/spf13/cobra"

	"github.com/keyscribe/keyscribe/internal/file"
	"github.com/keyscribe/keyscribe/internal/processor"
)

var arrangeFlags struct {
	output string
	style  string
}

func init() {
	rootCmd.AddCommand(arrangeCmd)
	arrangeCmd.Flags().StringVarP(&arrangeFlags.output, "output", "o", "", "output file name (default: <input>.<style>.mid)")
	arrangeCmd.Flags().StringVarP(&arrangeFlags.style, "style", "s", "block", "arrangement style (block, arpeggio, alberti)")
}

var arrangeCmd = &cobra.Command{
	Use:   "arrange <input.mid>",
	Short: "Re-render a score as a keyboard accompaniment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		style, err := processor.ParseStyle(arrangeFlags.style)
		if err != nil {
			return err
		}
		config, err := loadConfig(processor.Config{})
		if err != nil {
			return err
		}
		config.Arrange.Style = style
		s, err := file.ReadScoreFile(args[0])
		if err != nil {
			return err
		}
		out := processor.Arrange(s, s.BPM, config.Arrange, config.Pedal)
		log.Debug().Str("style", style.String()).Int("notes", out.NoteCount()).Msg("arranged")
		return writeOutput(cmd, outputName(arrangeFlags.output, args[0], style.String()), out)
	},
}
