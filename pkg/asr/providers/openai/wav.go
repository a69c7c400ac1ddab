package openai

import (
	"bytes"
	"encoding/binary"

	"github.com/voxlink/asr-session-server/pkg/config"
)

// wrapPCMInWav prepends a RIFF/WAVE header to raw little-endian 16-bit mono
// PCM data. Sizes are known up front, so no seek-back pass is needed.
func wrapPCMInWav(pcm []byte, sampleRate uint32) []byte {
	const (
		numChannels   = uint16(config.AudioChannels)
		bitsPerSample = uint16(config.AudioBitsPerSample)
	)

	dataSize := uint32(len(pcm))
	byteRate := sampleRate * uint32(numChannels) * uint32(bitsPerSample) / 8
	blockAlign := numChannels * bitsPerSample / 8

	buf := bytes.NewBuffer(make([]byte, 0, 44+len(pcm)))
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, dataSize+36)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16)) // sub-chunk size for PCM
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))  // audio format, 1 for PCM
	_ = binary.Write(buf, binary.LittleEndian, numChannels)
	_ = binary.Write(buf, binary.LittleEndian, sampleRate)
	_ = binary.Write(buf, binary.LittleEndian, byteRate)
	_ = binary.Write(buf, binary.LittleEndian, blockAlign)
	_ = binary.Write(buf, binary.LittleEndian, bitsPerSample)

	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, dataSize)
	buf.Write(pcm)

	return buf.Bytes()
}
