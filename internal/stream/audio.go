package stream

import (
	"fmt"

	"github.com/go-audio/audio"
)

// FromIntBuffer widens decoded PCM to 32-bit samples. Samples are left
// justified so full scale stays full scale.
func FromIntBuffer(buf *audio.IntBuffer) ([]int32, error) {
	shift, err := justify(buf.SourceBitDepth)
	if err != nil {
		return nil, err
	}

	out := make([]int32, len(buf.Data))
	for i, s := range buf.Data {
		out[i] = int32(s) << shift
	}
	return out, nil
}

// ToIntBuffer narrows 32-bit samples back to a bit depth for encoding.
func ToIntBuffer(samples []int32, channels, rate, bitDepth int) (*audio.IntBuffer, error) {
	shift, err := justify(bitDepth)
	if err != nil {
		return nil, err
	}

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s >> shift)
	}
	return &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}, nil
}

func justify(bitDepth int) (uint, error) {
	switch bitDepth {
	case 16, 24, 32:
		return uint(32 - bitDepth), nil
	default:
		return 0, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}
}
