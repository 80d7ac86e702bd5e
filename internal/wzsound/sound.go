// Package wzsound extracts audio payloads from "Sound_DX8" image
// properties: a WAV-wrapped PCM stream, a bare MP3 stream, or an opaque
// binary blob, depending on what the embedded header describes.
package wzsound

import (
	"io"

	"github.com/orcaman/writerseeker"
	"golang.org/x/xerrors"

	"github.com/ossyrian/wzkit/internal/wzio"
)

// Type classifies the payload a Sound carries.
type Type int

const (
	TypeBinary Type = iota
	TypeWav
	TypeMp3
)

func (t Type) String() string {
	switch t {
	case TypeWav:
		return "wav"
	case TypeMp3:
		return "mp3"
	default:
		return "bin"
	}
}

// wavHeaderTemplate is the 44-byte canonical RIFF/WAVE header every WAV
// sound is reconstructed from; ChunkSize, the 16-byte format block copied
// out of the embedded header, and Chunk2Size are patched in per instance.
var wavHeaderTemplate = [44]byte{
	0x52, 0x49, 0x46, 0x46, // "RIFF"
	0, 0, 0, 0, // ChunkSize
	0x57, 0x41, 0x56, 0x45, // "WAVE"

	0x66, 0x6d, 0x74, 0x20, // "fmt "
	0x10, 0, 0, 0, // chunk1Size
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // format block

	0x64, 0x61, 0x74, 0x61, // "data"
	0, 0, 0, 0, // chunk2Size
}

// Sound is a lazily-read audio leaf: it remembers where its raw bytes and
// embedded header live and only touches the container on Buffer/Extract.
type Sound struct {
	Reader       *wzio.Reader
	Offset       int64
	Length       uint32
	HeaderOffset int64
	HeaderSize   int64
	Duration     uint32
	SoundType    Type
}

// frequencyFromHeader reads the sample-rate field MapleLib stores at
// offset 0x38 of the embedded WAVEFORMATEX-derived header, when present.
func frequencyFromHeader(header []byte) uint32 {
	if len(header) <= 0x3c {
		return 0
	}
	return uint32(int32(header[0x38]) | int32(header[0x39])<<8 | int32(header[0x3a])<<16 | int32(header[0x3b])<<24)
}

// ClassifyType infers a sound's Type from its embedded header, matching
// the container's own heuristic: a full-length (0x46-byte) header whose
// declared frequency equals the payload size and whose duration is
// exactly 1000ms is an opaque binary blob masquerading as audio; any
// other full-length header is real WAV/PCM; anything shorter is MP3.
func ClassifyType(header []byte, fileSize, duration uint32) Type {
	frequency := frequencyFromHeader(header)
	if len(header) == 0x46 {
		if frequency == fileSize && duration == 1000 {
			return TypeBinary
		}
		return TypeWav
	}
	return TypeMp3
}

// New constructs a Sound descriptor; no I/O happens until Buffer/Extract.
func New(r *wzio.Reader, offset int64, length uint32, headerOffset, headerSize int64, duration uint32, soundType Type) *Sound {
	return &Sound{
		Reader:       r,
		Offset:       offset,
		Length:       length,
		HeaderOffset: headerOffset,
		HeaderSize:   headerSize,
		Duration:     duration,
		SoundType:    soundType,
	}
}

func (s *Sound) readHeader() ([]byte, error) {
	return s.Reader.NewCursor(s.HeaderOffset).Bytes(int(s.HeaderSize))
}

func (s *Sound) readBody() ([]byte, error) {
	return s.Reader.NewCursor(s.Offset).Bytes(int(s.Length))
}

// WavHeader reconstructs the 44-byte RIFF/WAVE header for WAV sounds by
// patching the container's own embedded format block into the template.
func (s *Sound) WavHeader() ([]byte, error) {
	header, err := s.readHeader()
	if err != nil {
		return nil, xerrors.Errorf("wzsound: read header: %w", err)
	}
	if len(header) < 0x34+16 {
		return nil, xerrors.New("wzsound: embedded header too short for format block")
	}

	out := wavHeaderTemplate
	chunkSize := s.Length + 36
	out[4] = byte(chunkSize)
	out[5] = byte(chunkSize >> 8)
	out[6] = byte(chunkSize >> 16)
	out[7] = byte(chunkSize >> 24)

	copy(out[20:36], header[0x34:0x34+16])

	out[40] = byte(s.Length)
	out[41] = byte(s.Length >> 8)
	out[42] = byte(s.Length >> 16)
	out[43] = byte(s.Length >> 24)

	return out[:], nil
}

// Buffer returns the sound's fully-assembled payload: for WAV sounds this
// is the reconstructed header followed by the raw PCM body; for MP3 and
// binary sounds it is the raw body verbatim.
func (s *Sound) Buffer() ([]byte, error) {
	body, err := s.readBody()
	if err != nil {
		return nil, xerrors.Errorf("wzsound: read body: %w", err)
	}
	if s.SoundType != TypeWav {
		return body, nil
	}

	header, err := s.WavHeader()
	if err != nil {
		return nil, err
	}

	ws := &writerseeker.WriterSeeker{}
	if _, err := ws.Write(header); err != nil {
		return nil, xerrors.Errorf("wzsound: write header: %w", err)
	}
	if _, err := ws.Write(body); err != nil {
		return nil, xerrors.Errorf("wzsound: write body: %w", err)
	}

	r := ws.Reader()
	return io.ReadAll(r)
}

// Extension is the filename suffix Extract should use for this sound.
func (s *Sound) Extension() string {
	switch s.SoundType {
	case TypeWav:
		return ".wav"
	case TypeMp3:
		return ".mp3"
	default:
		return ""
	}
}

// Extract writes the sound's assembled buffer to w.
func (s *Sound) Extract(w io.Writer) error {
	buf, err := s.Buffer()
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}
