package file

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"

	"github.com/keyscribe/keyscribe/internal/processor"
	"github.com/keyscribe/keyscribe/internal/score"
)

// Inputs names the files of one pipeline run. Only MIDI is required.
type Inputs struct {
	MIDI string
	// Secondary is a second transcription of the same audio to merge in.
	Secondary string
	// Audio is the WAV file the transcription came from.
	Audio string
	// SHA256, if set, must match the checksum of MIDI.
	SHA256 string
}

// Process reads the input files, runs the pipeline and returns the refined
// score. The secondary score and audio are only read when the config uses
// them.
func Process(in Inputs, config *processor.Config, opts processor.Options) (*score.Score, *processor.Report, error) {
	inBytes, err := os.ReadFile(in.MIDI)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read %v: %w", in.MIDI, err)
	}

	sum := fmt.Sprintf("%x", sha256.Sum256(inBytes))
	if in.SHA256 != "" && in.SHA256 != sum {
		return nil, nil, fmt.Errorf("mismatching checksum of %v: got %v, want %v", in.MIDI, sum, in.SHA256)
	}

	s, err := ReadScore(bytes.NewReader(inBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("could not parse %v: %w", in.MIDI, err)
	}

	if config.Merge.Enabled && in.Secondary != "" {
		opts.Secondary, err = ReadScoreFile(in.Secondary)
		if err != nil {
			return nil, nil, err
		}
	}
	if config.Refine.Enabled && in.Audio != "" && opts.Chroma == nil {
		audio, err := ReadAudioFile(in.Audio)
		if err != nil {
			return nil, nil, err
		}
		opts.Chroma = processor.ComputeChroma(*audio)
	}

	out, report, err := processor.Process(s, *config, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to process %v: %w", in.MIDI, err)
	}
	report.InputSHA256 = sum
	return out, report, nil
}
