package main

import (
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/keyscribe/keyscribe/internal/file"
	"github.com/keyscribe/keyscribe/internal/processor"
)

var performFlags struct {
	output    string
	noSustain bool
}

func init() {
	rootCmd.AddCommand(performCmd)
	performCmd.Flags().StringVarP(&performFlags.output, "output", "o", "", "output file name (default: <input>.performed.mid)")
	performCmd.Flags().BoolVar(&performFlags.noSustain, "no-sustain", false, "do not add sustain pedal")
}

var performCmd = &cobra.Command{
	Use:   "perform <input.mid>",
	Short: "Add accents, timing and pedalling to a plain score",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(processor.Config{})
		if err != nil {
			return err
		}
		if performFlags.noSustain {
			config.Perform.Sustain = false
		}
		s, err := file.ReadScoreFile(args[0])
		if err != nil {
			return err
		}
		processor.Perform(s, config.Perform, rand.New(rand.NewPCG(seed, seed)))
		return writeOutput(cmd, outputName(performFlags.output, args[0], "performed"), s)
	},
}
