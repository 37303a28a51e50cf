package capture

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// Buffer holds one session's decoded samples.
type Buffer struct {
	Samples []float32
}

// ParseBuffer validates and decodes a raw staging file. A zero-length input
// means the capture process produced nothing; a length that is not a whole
// number of samples means the file was truncated mid-write.
func ParseBuffer(data []byte) (Buffer, error) {
	if len(data) == 0 {
		return Buffer{}, ErrEmptyBuffer
	}
	if len(data)%BytesPerSample != 0 {
		return Buffer{}, fmt.Errorf("%w: %d bytes is not a whole number of samples", ErrCorruptBuffer, len(data))
	}

	samples := make([]float32, len(data)/BytesPerSample)
	for i := range samples {
		bits := binary.LittleEndian.Uint32(data[i*BytesPerSample:])
		samples[i] = math.Float32frombits(bits)
	}
	return Buffer{Samples: samples}, nil
}

// EncodeSamples is the inverse of ParseBuffer.
func EncodeSamples(samples []float32) []byte {
	data := make([]byte, len(samples)*BytesPerSample)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(data[i*BytesPerSample:], math.Float32bits(s))
	}
	return data
}

// RMS is the root mean square level across all samples.
func (b Buffer) RMS() float64 {
	if len(b.Samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range b.Samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(b.Samples)))
}

// Silent reports whether the buffer is below the silence level. Silent
// buffers are still transcribable; callers decide what to do with the flag.
func (b Buffer) Silent() bool {
	return b.RMS() < SilenceRMS
}

func (b Buffer) Duration() time.Duration {
	return time.Duration(float64(len(b.Samples)) / SampleRate * float64(time.Second))
}
