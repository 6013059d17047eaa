package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/keyscribe/keyscribe/internal/file"
	"github.com/keyscribe/keyscribe/internal/processor"
)

var refineFlags struct {
	output    string
	secondary string
	audio     string
	sha256    string
	maxPoly   int
}

func init() {
	rootCmd.AddCommand(refineCmd)
	refineCmd.Flags().StringVarP(&refineFlags.output, "output", "o", "", "output file name (default: <input>.refined.mid)")
	refineCmd.Flags().StringVar(&refineFlags.secondary, "secondary", "", "second transcription to merge in (accurate profile)")
	refineCmd.Flags().StringVar(&refineFlags.audio, "audio", "", "source WAV file to refine against (accurate profile)")
	refineCmd.Flags().StringVar(&refineFlags.sha256, "sha256", "", "expected checksum of the input file")
	refineCmd.Flags().IntVar(&refineFlags.maxPoly, "max-poly", 0, "override the polyphony cap")
}

var refineCmd = &cobra.Command{
	Use:   "refine <input.mid>",
	Short: "Run the refinement pipeline on a transcription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var override processor.Config
		override.Polyphony.MaxNotesPerOnset = refineFlags.maxPoly
		override.Refine.MaxPoly = refineFlags.maxPoly
		config, err := loadConfig(override)
		if err != nil {
			return err
		}
		in := file.Inputs{
			MIDI:      args[0],
			Secondary: refineFlags.secondary,
			Audio:     refineFlags.audio,
			SHA256:    refineFlags.sha256,
		}
		out, report, err := file.Process(in, config, options())
		if err != nil {
			return err
		}
		if report.RefineSkipped {
			log.Warn().Msg("no --audio given, skipped refinement")
		}
		log.Info().
			Str("run", report.RunID.String()).
			Str("sha256", report.InputSHA256).
			Bool("merged", report.Merged).
			Bool("refined", report.Refined).
			Int("pruned", report.Pruned).
			Int("filled", report.Filled).
			Msg("refined")
		return writeOutput(cmd, outputName(refineFlags.output, args[0], "refined"), out)
	},
}

// outputName returns name, or the input name with the suffix inserted before
// the extension.
func outputName(name, input, suffix string) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%s.%s.mid", strings.TrimSuffix(strings.TrimSuffix(input, ".mid"), ".midi"), suffix)
}
