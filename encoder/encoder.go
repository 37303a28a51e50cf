// Package encoder compresses raw capture samples for upload.
package encoder

import "math"

const (
	SampleRate    = 16000
	Channels      = 1
	BitsPerSample = 16
	blockSize     = 4096
)

// Quantize converts a float sample to signed 16-bit PCM with clipping.
func Quantize(s float32) int16 {
	v := float64(s) * 32767
	switch {
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	}
	return int16(math.Round(v))
}
