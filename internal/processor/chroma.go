package processor

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const (
	chromaFrameSize = 4096
	chromaHopSize   = 512
	chromaMinFreq   = 65.0
	chromaMaxFreq   = 2100.0
	silenceFloor    = 1e-8
)

// AudioBuffer is mono PCM audio normalized to [-1,1].
type AudioBuffer struct {
	Samples    []float32
	SampleRate int
}

// Duration returns the length of the buffer in seconds.
func (b AudioBuffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

// ChromaProfile is the energy per pitch class over time. Frame i is centered
// at i*HopSeconds.
type ChromaProfile struct {
	HopSeconds float64
	Frames     [][12]float64
}

// NewChromaProfile copies frames, coercing NaN, infinite and negative
// energies to 0.
func NewChromaProfile(hopSeconds float64, frames [][12]float64) *ChromaProfile {
	c := &ChromaProfile{
		HopSeconds: hopSeconds,
		Frames:     make([][12]float64, len(frames)),
	}
	for i, f := range frames {
		for pc, v := range f {
			c.Frames[i][pc] = max(0, finiteOrZero(v))
		}
	}
	return c
}

// Len returns the number of frames.
func (c *ChromaProfile) Len() int {
	return len(c.Frames)
}

// Max returns the largest energy of the profile, or 1 if there is none.
func (c *ChromaProfile) Max() float64 {
	var m float64
	for _, f := range c.Frames {
		for _, v := range f {
			m = max(m, finiteOrZero(v))
		}
	}
	if m <= 0 {
		return 1
	}
	return m
}

// FrameAt returns the index of the first frame centered at or after t,
// clipped to the profile.
func (c *ChromaProfile) FrameAt(t float64) int {
	if t <= 0 || c.HopSeconds <= 0 || len(c.Frames) == 0 {
		return 0
	}
	i := int(math.Ceil(t/c.HopSeconds - 1e-9))
	return clamp(i, 0, len(c.Frames)-1)
}

// Energy returns the sanitized energy of pitch class pc in frame i.
func (c *ChromaProfile) Energy(i, pc int) float64 {
	return max(0, finiteOrZero(c.Frames[i][pitchClass(pc)]))
}

// MeanEnergy averages the energy of pitch class pc over frames [i0, i1),
// with i1 clipped to the profile.
func (c *ChromaProfile) MeanEnergy(pc, i0, i1 int) float64 {
	i1 = min(i1, len(c.Frames))
	if i0 >= i1 {
		return 0
	}
	var sum float64
	for i := i0; i < i1; i++ {
		sum += c.Energy(i, pc)
	}
	return sum / float64(i1-i0)
}

func freqToMIDI(freq float64) float64 {
	return 12*math.Log2(freq/440.0) + 69
}

// normalizeFrame scales a frame so its loudest pitch class is 1. Silent
// frames are left alone.
func normalizeFrame(f *[12]float64) {
	var peak float64
	for _, v := range f {
		peak = max(peak, v)
	}
	if peak < silenceFloor {
		return
	}
	for pc := range f {
		f[pc] /= peak
	}
}

// ComputeChroma folds the short-time magnitude spectrum of the audio into
// twelve pitch classes. Frames are Hann-windowed and centered on multiples of
// the hop size, with zero padding at the edges; each frame is scaled to a
// peak of 1.
func ComputeChroma(audio AudioBuffer) *ChromaProfile {
	if audio.SampleRate <= 0 || len(audio.Samples) == 0 {
		return &ChromaProfile{}
	}
	frameSize := chromaFrameSize
	hopSize := chromaHopSize
	binPitchClass := make([]int, frameSize/2+1)
	for bin := range binPitchClass {
		freq := float64(bin) * float64(audio.SampleRate) / float64(frameSize)
		if freq < chromaMinFreq || freq > chromaMaxFreq {
			binPitchClass[bin] = -1
			continue
		}
		binPitchClass[bin] = pitchClass(int(math.Round(freqToMIDI(freq))))
	}

	numFrames := len(audio.Samples)/hopSize + 1
	frames := make([][12]float64, numFrames)
	frame := make([]float64, frameSize)
	for f := range frames {
		center := f * hopSize
		for i := range frame {
			pos := center - frameSize/2 + i
			if pos < 0 || pos >= len(audio.Samples) {
				frame[i] = 0
				continue
			}
			frame[i] = float64(audio.Samples[pos])
		}
		window.Apply(frame, window.Hann)
		spectrum := fft.FFTReal(frame)
		for bin, pc := range binPitchClass {
			if pc < 0 {
				continue
			}
			re, im := real(spectrum[bin]), imag(spectrum[bin])
			frames[f][pc] += math.Sqrt(re*re + im*im)
		}
		normalizeFrame(&frames[f])
	}
	return NewChromaProfile(float64(hopSize)/float64(audio.SampleRate), frames)
}
