package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-audio/wav"
	"github.com/tphakala/go-hdspe/internal/stream"
)

const wavFormatPCM = 1

// wavInput is a fully decoded input file widened to 32-bit samples.
type wavInput struct {
	rate     int
	channels int
	bitDepth int
	samples  []int32 // Interleaved
}

// frames returns the number of sample frames in the file.
func (w *wavInput) frames() int {
	if w.channels == 0 {
		return 0
	}
	return len(w.samples) / w.channels
}

// readWAV opens and decodes a PCM WAV file.
func readWAV(path string) (*wavInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	buf.SourceBitDepth = int(decoder.BitDepth)

	samples, err := stream.FromIntBuffer(buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	in := &wavInput{
		rate:     int(decoder.SampleRate),
		channels: int(decoder.NumChans),
		bitDepth: int(decoder.BitDepth),
		samples:  samples,
	}
	slog.Debug("input decoded", "path", path, "rate", in.rate, "channels", in.channels,
		"bits", in.bitDepth, "frames", in.frames())
	return in, nil
}

// writeWAV encodes interleaved 32-bit samples at the given bit depth.
func writeWAV(path string, samples []int32, rate, channels, bitDepth int) error {
	buf, err := stream.ToIntBuffer(samples, channels, rate, bitDepth)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	encoder := wav.NewEncoder(f, rate, bitDepth, channels, wavFormatPCM)
	if err := encoder.Write(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := encoder.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to finish %s: %w", path, err)
	}
	return f.Close()
}
