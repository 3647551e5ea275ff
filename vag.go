// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package saamt

import (
	"bytes"
	"encoding/binary"
	"io"
)

// vagMagic is the big-endian magic every VAG file/sub-header starts with.
var vagMagic = [4]byte{'V', 'A', 'G', 'p'}

const vagChunkSize = 16

// PackInfo packs a VAG chunk's predictor index (high nibble) and shift
// factor (low nibble) into a single byte.
type PackInfo byte

// ShiftFactor returns the low nibble.
func (p PackInfo) ShiftFactor() int8 { return int8(p & 0x0F) }

// Predictor returns the high nibble, clamped to the 5 valid LUT rows.
func (p PackInfo) Predictor() int8 {
	v := int8(p >> 4)
	if v > 4 {
		v = 4
	}
	return v
}

// WithShiftFactor returns a copy with the shift factor replaced, predictor preserved.
func (p PackInfo) WithShiftFactor(v int8) PackInfo {
	return PackInfo((byte(p) & 0xF0) | (byte(v) & 0x0F))
}

// WithPredictor returns a copy with the predictor replaced, shift factor preserved.
func (p PackInfo) WithPredictor(v int8) PackInfo {
	return PackInfo((byte(v) << 4) | (byte(p) & 0x0F))
}

// VAGFlag marks a chunk's role in the sample stream / loop region.
type VAGFlag byte

const (
	VAGNothing VAGFlag = iota
	VAGLoopLastBlock
	VAGLoopRegion
	VAGLoopEnd
	VAGLoopFirstBlock
	VAGUnknown
	VAGLoopStart
	VAGPlaybackEnd
)

func (f VAGFlag) String() string {
	switch f {
	case VAGNothing:
		return "nothing"
	case VAGLoopLastBlock:
		return "loop-last-block"
	case VAGLoopRegion:
		return "loop-region"
	case VAGLoopEnd:
		return "loop-end"
	case VAGLoopFirstBlock:
		return "loop-first-block"
	case VAGLoopStart:
		return "loop-start"
	case VAGPlaybackEnd:
		return "playback-end"
	default:
		return "unknown"
	}
}

// VagChunk is one 16-byte ADPCM block: a packed predictor/shift byte,
// a flag byte, and 14 bytes of packed 4-bit samples.
type VagChunk struct {
	PackInfo PackInfo
	Flags    VAGFlag
	Sample   [14]byte
}

// Vag is a parsed VAG container: the big-endian file header plus its
// little-endian sequence of ADPCM chunks.
type Vag struct {
	Version    uint32
	SSA        uint32
	SampleRate uint32
	VolLeft    int16
	VolRight   int16
	Pitch      int16
	Adsr1      int16
	Adsr2      int16
	Channels   uint16
	NameBytes  [16]byte
	Header     [16]byte // opaque sub-header, preserved verbatim on re-embedding
	Chunks     []VagChunk
}

// ReadVag parses a full standalone .vag file (32-byte big-endian header,
// 16-byte name field and 16-byte opaque sub-header, followed by
// little-endian chunks).
func ReadVag(r io.Reader) (*Vag, error) {
	var head [48]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, newError(KindBinaryFormat, "ReadVag", err)
	}
	if [4]byte{head[0], head[1], head[2], head[3]} != vagMagic {
		return nil, newError(KindBinaryFormat, "ReadVag", nil)
	}

	v := &Vag{
		Version:    binary.BigEndian.Uint32(head[4:8]),
		SSA:        binary.BigEndian.Uint32(head[8:12]),
		SampleRate: binary.BigEndian.Uint32(head[16:20]),
		VolLeft:    int16(binary.BigEndian.Uint16(head[20:22])),
		VolRight:   int16(binary.BigEndian.Uint16(head[22:24])),
		Pitch:      int16(binary.BigEndian.Uint16(head[24:26])),
		Adsr1:      int16(binary.BigEndian.Uint16(head[26:28])),
		Adsr2:      int16(binary.BigEndian.Uint16(head[28:30])),
		Channels:   binary.BigEndian.Uint16(head[30:32]),
	}
	copy(v.NameBytes[:], head[32:48])

	size := binary.BigEndian.Uint32(head[12:16])
	if size < 16 || (size-16)%vagChunkSize != 0 {
		return nil, newError(KindBinaryFormat, "ReadVag", nil)
	}

	var sub [16]byte
	if _, err := io.ReadFull(r, sub[:]); err != nil {
		return nil, newError(KindBinaryFormat, "ReadVag", err)
	}
	v.Header = sub

	count := int((size - 16) / vagChunkSize)
	chunks, err := readVagChunks(r, count)
	if err != nil {
		return nil, err
	}
	v.Chunks = chunks
	return v, nil
}

func readVagChunks(r io.Reader, count int) ([]VagChunk, error) {
	chunks := make([]VagChunk, count)
	var buf [vagChunkSize]byte
	for i := range chunks {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, newError(KindBinaryFormat, "readVagChunks", err)
		}
		chunks[i] = VagChunk{
			PackInfo: PackInfo(buf[0]),
			Flags:    VAGFlag(buf[1]),
		}
		copy(chunks[i].Sample[:], buf[2:16])
	}
	return chunks, nil
}

// NewVag builds a Vag from a 16-byte opaque sub-header followed by
// chunk bytes, the layout produced when re-embedding a bank's raw VAG
// payload (RawBytes) rather than a standalone .vag file.
func NewVag(sampleRate uint32, name [16]byte, data []byte) (*Vag, error) {
	if len(data) <= 16 || (len(data)-16)%vagChunkSize != 0 {
		return nil, newError(KindCorruptSoundData, "NewVag", nil)
	}
	var header [16]byte
	copy(header[:], data[:16])

	chunks, err := readVagChunks(bytes.NewReader(data[16:]), (len(data)-16)/vagChunkSize)
	if err != nil {
		return nil, err
	}

	return &Vag{
		Version:    0,
		SampleRate: sampleRate,
		Channels:   1,
		NameBytes:  name,
		Header:     header,
		Chunks:     chunks,
	}, nil
}

// NewVagFromChunks builds a Vag from freshly encoded chunks (the
// encoder path), using a zeroed opaque sub-header.
func NewVagFromChunks(sampleRate uint32, name [16]byte, chunks []VagChunk) *Vag {
	return &Vag{
		SampleRate: sampleRate,
		Channels:   1,
		NameBytes:  name,
		Chunks:     chunks,
	}
}

// Name returns the null-terminated name field as a string.
func (v *Vag) Name() string {
	return nameFromRecord(v.NameBytes[:])
}

// RawBytes serializes the opaque 16-byte sub-header followed by the
// little-endian chunk sequence, the form stored inside a bank payload
// (as opposed to a standalone .vag file, which also has the 32-byte
// big-endian file header and the 16-byte name field).
func (v *Vag) RawBytes() []byte {
	out := make([]byte, 16+len(v.Chunks)*vagChunkSize)
	copy(out[:16], v.Header[:])
	off := 16
	for _, c := range v.Chunks {
		out[off] = byte(c.PackInfo)
		out[off+1] = byte(c.Flags)
		copy(out[off+2:off+16], c.Sample[:])
		off += vagChunkSize
	}
	return out
}

// WriteTo serializes a full standalone .vag file: 32-byte big-endian
// header, 16-byte name field, 16-byte opaque sub-header, little-endian
// chunks.
func (v *Vag) WriteTo(w io.Writer) (int64, error) {
	var head [48]byte
	copy(head[0:4], vagMagic[:])
	binary.BigEndian.PutUint32(head[4:8], v.Version)
	binary.BigEndian.PutUint32(head[8:12], v.SSA)
	binary.BigEndian.PutUint32(head[12:16], uint32(len(v.Chunks)*vagChunkSize+16))
	binary.BigEndian.PutUint32(head[16:20], v.SampleRate)
	binary.BigEndian.PutUint16(head[20:22], uint16(v.VolLeft))
	binary.BigEndian.PutUint16(head[22:24], uint16(v.VolRight))
	binary.BigEndian.PutUint16(head[24:26], uint16(v.Pitch))
	binary.BigEndian.PutUint16(head[26:28], uint16(v.Adsr1))
	binary.BigEndian.PutUint16(head[28:30], uint16(v.Adsr2))
	binary.BigEndian.PutUint16(head[30:32], v.Channels)
	copy(head[32:48], v.NameBytes[:])

	n, err := w.Write(head[:])
	written := int64(n)
	if err != nil {
		return written, newError(KindIO, "Vag.WriteTo", err)
	}

	m, err := w.Write(v.RawBytes())
	written += int64(m)
	if err != nil {
		return written, newError(KindIO, "Vag.WriteTo", err)
	}
	return written, nil
}
