package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/remeh/sizedwaitgroup"
	"github.com/spf13/cobra"

	"github.com/keyscribe/keyscribe/internal/file"
	"github.com/keyscribe/keyscribe/internal/processor"
)

var batchFlags struct {
	outDir string
	jobs   int
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVarP(&batchFlags.outDir, "out-dir", "d", ".", "directory to write refined files to")
	batchCmd.Flags().IntVarP(&batchFlags.jobs, "jobs", "j", runtime.NumCPU(), "number of files to process concurrently")
}

var batchCmd = &cobra.Command{
	Use:   "batch <input.mid>...",
	Short: "Refine many transcriptions concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(processor.Config{})
		if err != nil {
			return err
		}
		begin := time.Now()
		var mu sync.Mutex
		var errs []error
		wg := sizedwaitgroup.New(max(1, batchFlags.jobs))
		for _, name := range args {
			wg.Add()
			go func() {
				defer wg.Done()
				out, report, err := file.Process(file.Inputs{MIDI: name}, config, options())
				if err == nil {
					base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
					err = file.WriteScoreFile(filepath.Join(batchFlags.outDir, base+".refined.mid"), out)
				}
				if err != nil {
					mu.Lock()
					errs = append(errs, fmt.Errorf("%v: %w", name, err))
					mu.Unlock()
					return
				}
				log.Debug().Str("file", name).Int("notes", report.Notes).Msg("refined")
			}()
		}
		wg.Wait()
		fmt.Fprintf(cmd.OutOrStdout(), "refined %d of %d files in %s\n",
			len(args)-len(errs), len(args), formatDuration(time.Since(begin)))
		return errors.Join(errs...)
	},
}
