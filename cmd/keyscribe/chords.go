package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keyscribe/keyscribe/internal/file"
	"github.com/keyscribe/keyscribe/internal/processor"
)

func init() {
	rootCmd.AddCommand(chordsCmd)
}

var chordsCmd = &cobra.Command{
	Use:   "chords <input.mid>",
	Short: "Print the chord of every eighth-note block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := file.ReadScoreFile(args[0])
		if err != nil {
			return err
		}
		var prev string
		for _, span := range processor.ChordTimeline(s, s.BPM) {
			name := span.Chord.Name()
			if name == prev {
				continue
			}
			prev = name
			fmt.Fprintf(cmd.OutOrStdout(), "%8.3f  %s\n", span.Start, name)
		}
		return nil
	},
}
