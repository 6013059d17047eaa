package file

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/keyscribe/keyscribe/internal/processor"
)

// ReadAudio decodes a PCM WAV stream into a mono buffer normalized to [-1,1].
func ReadAudio(r io.ReadSeeker) (*processor.AudioBuffer, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("not a valid WAV file")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("could not decode WAV: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels <= 0 || buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("WAV file lacks a usable format")
	}
	return &processor.AudioBuffer{
		Samples:    toMono(buf),
		SampleRate: buf.Format.SampleRate,
	}, nil
}

// ReadAudioFile decodes a WAV file from disk.
func ReadAudioFile(name string) (*processor.AudioBuffer, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("could not open %v: %w", name, err)
	}
	defer f.Close()
	a, err := ReadAudio(f)
	if err != nil {
		return nil, fmt.Errorf("could not read %v: %w", name, err)
	}
	return a, nil
}

// toMono averages the channels of each frame and scales by the full-scale
// value of the source bit depth. 8-bit WAV samples are unsigned and get
// recentered first.
func toMono(buf *audio.IntBuffer) []float32 {
	channels := buf.Format.NumChannels
	frames := len(buf.Data) / channels
	var fullScale, offset float64
	switch buf.SourceBitDepth {
	case 8:
		fullScale = 1 << 7
		offset = -(1 << 7)
	case 24:
		fullScale = 1 << 23
	case 32:
		fullScale = 1 << 31
	default:
		fullScale = 1 << 15
	}
	mono := make([]float32, frames)
	for i := range mono {
		var sum float64
		for _, v := range buf.Data[i*channels : (i+1)*channels] {
			sum += float64(v) + offset
		}
		mono[i] = float32(sum / float64(channels) / fullScale)
	}
	return mono
}
