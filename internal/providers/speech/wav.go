package speech

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Format PCM produit par Azure (riff-24khz-16bit-mono-pcm) et par la narration silencieuse
const (
	SampleRate    = 24000
	BitsPerSample = 16
	Channels      = 1
)

var ErrInvalidWAV = errors.New("invalid wav data")

// WriteWAV écrit un fichier RIFF/WAVE PCM 16 bits mono contenant pcm
func WriteWAV(w io.Writer, pcm []byte) error {
	blockAlign := Channels * BitsPerSample / 8
	header := struct {
		ChunkID       [4]byte
		ChunkSize     uint32
		Format        [4]byte
		Subchunk1ID   [4]byte
		Subchunk1Size uint32
		AudioFormat   uint16
		NumChannels   uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
		Subchunk2ID   [4]byte
		Subchunk2Size uint32
	}{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     uint32(36 + len(pcm)),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   Channels,
		SampleRate:    SampleRate,
		ByteRate:      uint32(SampleRate * blockAlign),
		BlockAlign:    uint16(blockAlign),
		BitsPerSample: BitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: uint32(len(pcm)),
	}

	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("failed to write wav header: %w", err)
	}
	if _, err := w.Write(pcm); err != nil {
		return fmt.Errorf("failed to write wav data: %w", err)
	}
	return nil
}

// ExtractPCM retourne le contenu du chunk "data" d'un fichier WAV
func ExtractPCM(wav []byte) ([]byte, error) {
	if len(wav) < 12 || !bytes.Equal(wav[0:4], []byte("RIFF")) || !bytes.Equal(wav[8:12], []byte("WAVE")) {
		return nil, ErrInvalidWAV
	}

	offset := 12
	for offset+8 <= len(wav) {
		id := wav[offset : offset+4]
		size := int(binary.LittleEndian.Uint32(wav[offset+4 : offset+8]))
		start := offset + 8
		if id[0] == 'd' && id[1] == 'a' && id[2] == 't' && id[3] == 'a' {
			end := start + size
			if end > len(wav) {
				end = len(wav)
			}
			return wav[start:end], nil
		}
		// Les chunks sont alignés sur 2 octets
		offset = start + size + size%2
	}
	return nil, fmt.Errorf("%w: no data chunk", ErrInvalidWAV)
}

// Duration retourne la durée d'un flux PCM au format de sortie
func Duration(pcmLen int) float64 {
	return float64(pcmLen) / float64(SampleRate*Channels*BitsPerSample/8)
}
