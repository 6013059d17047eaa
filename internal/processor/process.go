package processor

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/keyscribe/keyscribe/internal/score"
)

// Options are the per-run inputs of Process that are not configuration.
type Options struct {
	Logger zerolog.Logger
	// Seed seeds the humanization random source. Runs with equal seeds and
	// inputs produce equal output.
	Seed uint64
	// Secondary is merged into the primary score if merging is enabled.
	Secondary *score.Score
	// Chroma guides refinement. If nil, it is computed from Audio when
	// refinement is enabled.
	Chroma *ChromaProfile
	Audio  *AudioBuffer
}

// Report summarizes one run of Process.
type Report struct {
	RunID    uuid.UUID
	Profile  Profile
	Notes    int
	Duration float64
	BPM      float64
	Merged   bool
	Refined  bool
	// RefineSkipped is set if refinement was enabled but no audio was given.
	RefineSkipped bool
	Pruned        int
	Filled        int
	// InputSHA256 is the checksum of the primary input file, if read from one.
	InputSHA256 string
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Process runs the refinement pipeline configured by cfg on a copy of s:
// flatten, quantize, humanize, limit range and resolve polyphony, then
// optionally merge a secondary transcription and refine against the audio,
// then limit range again and add pedalling.
//
// The input score is not modified. The only error is a malformed input.
func Process(s *score.Score, cfg Config, opts Options) (*score.Score, *Report, error) {
	if err := score.Validate(s); err != nil {
		return nil, nil, err
	}
	log := opts.Logger
	report := &Report{
		RunID:   uuid.New(),
		Profile: cfg.Profile,
		BPM:     s.Tempo(),
	}
	log = log.With().Str("run", report.RunID.String()).Str("profile", cfg.Profile.String()).Logger()

	out := s.Clone()
	bpm := out.Tempo()
	stage := func(name string) {
		log.Debug().Str("stage", name).Int("notes", out.NoteCount()).Msg("stage done")
	}

	score.Flatten(out)
	Quantize(out, bpm, cfg.Quantize)
	stage("quantize")
	Humanize(out, cfg.Humanize, newRand(opts.Seed))
	stage("humanize")
	LimitRange(out, cfg.Range)
	stage("limit")
	ResolvePolyphony(out, cfg.Polyphony)
	stage("polyphony")

	if cfg.Merge.Enabled && opts.Secondary != nil {
		if err := score.Validate(opts.Secondary); err != nil {
			return nil, nil, fmt.Errorf("secondary score: %w", err)
		}
		merged := MergeScores(out, opts.Secondary, cfg.Merge)
		merged.Instruments[0].Name = out.Instruments[0].Name
		out = merged
		LimitRange(out, cfg.Range)
		ResolvePolyphony(out, cfg.Polyphony)
		report.Merged = true
		stage("merge")
	}

	if cfg.Refine.Enabled {
		chroma := opts.Chroma
		if chroma == nil && opts.Audio != nil {
			chroma = ComputeChroma(*opts.Audio)
		}
		if chroma == nil || chroma.Len() == 0 {
			report.RefineSkipped = true
			log.Warn().Msg("refinement enabled but no audio given; skipping")
		} else {
			stats := Refine(out, chroma, bpm, cfg.Refine, cfg.Polyphony)
			report.Refined = true
			report.Pruned, report.Filled = stats.Pruned, stats.Filled
			stage("refine")
		}
	}

	LimitRange(out, cfg.Range)
	if cfg.Pedal.Enabled {
		SynthesizePedal(out, cfg.Pedal)
		stage("pedal")
	}

	report.Notes = out.NoteCount()
	report.Duration = out.EndTime()
	dumpScore(log, "output", out)
	return out, report, nil
}
