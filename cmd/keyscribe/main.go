package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/keyscribe/keyscribe/internal/file"
	"github.com/keyscribe/keyscribe/internal/processor"
	"github.com/keyscribe/keyscribe/internal/score"
)

var (
	profileName string
	configFile  string
	verbose     bool
	seed        uint64

	log = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "keyscribe",
	Short: "Clean up and arrange piano transcriptions",
	Long: `keyscribe turns raw note transcriptions of piano audio into playable scores:
it quantizes, limits polyphony and range, humanizes, adds pedalling,
and can refine the result against the source audio or re-arrange it
as a keyboard accompaniment.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(level).With().Timestamp().Logger()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "balanced", "processing profile (fast, balanced, accurate)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file name (YAML), applied on top of the profile")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every pipeline stage")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "seed of the humanization random source")
}

// loadConfig builds the config of the selected profile, overlaid with the
// config file if any, then with the non-zero fields of override.
func loadConfig(override processor.Config) (*processor.Config, error) {
	profile, err := processor.ParseProfile(profileName)
	if err != nil {
		return nil, err
	}
	config := processor.DefaultConfig(profile)
	if configFile != "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		c, err := file.ReadConfig(os.DirFS(cwd), configFile, profile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		config = *c
	}
	config = processor.Merge(config, override)
	return &config, nil
}

func options() processor.Options {
	return processor.Options{Logger: log, Seed: seed}
}

// writeOutput writes s to name and prints a one-line summary.
func writeOutput(cmd *cobra.Command, name string, s *score.Score) error {
	if err := file.WriteScoreFile(name, s); err != nil {
		return err
	}
	info, err := os.Stat(name)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s notes, %s, %s\n",
		name,
		humanize.Comma(int64(s.NoteCount())),
		formatSeconds(s.EndTime()),
		humanize.Bytes(uint64(info.Size())))
	return nil
}

func formatSeconds(sec float64) string {
	return formatDuration(time.Duration(sec * float64(time.Second)))
}

func formatDuration(d time.Duration) string {
	return durafmt.Parse(d).LimitFirstN(2).String()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
