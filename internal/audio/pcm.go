// Package audio decodes synthesized PCM speech and plays it back once.
package audio

import (
	"encoding/base64"
	"encoding/binary"
	"math"
)

// DecodePCM converts raw 16-bit signed little-endian PCM into normalized
// float32 samples in the [-1, 1] range (each sample divided by 32768).
// A trailing odd byte is ignored.
func DecodePCM(data []byte) []float32 {
	n := len(data) / 2
	samples := make([]float32, n)
	for i := range n {
		s := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float32(s) / 32768.0
	}
	return samples
}

// DecodeBase64PCM decodes a base64 payload and converts it to samples.
func DecodeBase64PCM(encoded string) ([]float32, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	return DecodePCM(raw), nil
}

// EncodeFloat32LE packs normalized samples as little-endian float32 bytes,
// the wire format the playback device consumes.
func EncodeFloat32LE(samples []float32) []byte {
	out := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(s))
	}
	return out
}
