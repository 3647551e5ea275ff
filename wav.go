// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package saamt

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
	"github.com/go-audio/wav"
)

// Wav is a decoded 16-bit PCM waveform, the common currency between the
// PC/PS2 platform adapters and the VAG codec. Samples are interleaved
// when Channels is greater than 1.
type Wav struct {
	SampleRate uint32
	Channels   uint16
	Samples    []int16
}

// ReadWav decodes a RIFF/WAVE stream via go-audio/wav. Channel count is
// not restricted here: the PC import path accepts (and flags) non-mono
// sources, while the VAG encoder enforces its own mono requirement.
func ReadWav(r io.ReadSeeker) (*Wav, error) {
	dec := wav.NewDecoder(r)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, newError(KindInvalidWav, "ReadWav", err)
	}

	samples := make([]int16, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = int16(s)
	}
	return &Wav{
		SampleRate: dec.SampleRate,
		Channels:   uint16(dec.NumChans),
		Samples:    samples,
	}, nil
}

// WriteWav encodes wv as a 16-bit PCM WAVE stream with wv.Channels
// channels via go-audio/wav.
func WriteWav(w io.WriteSeeker, wv *Wav) error {
	enc := wav.NewEncoder(w, int(wv.SampleRate), 16, int(wv.Channels), 1)

	ints := make([]int, len(wv.Samples))
	for i, s := range wv.Samples {
		ints[i] = int(s)
	}
	buf := &audio.IntBuffer{
		Format: &audio.Format{SampleRate: int(wv.SampleRate), NumChannels: int(wv.Channels)},
		Data:   ints,
	}
	if err := enc.Write(buf); err != nil {
		return newError(KindInvalidWav, "WriteWav", err)
	}
	if err := enc.Close(); err != nil {
		return newError(KindInvalidWav, "WriteWav", err)
	}
	return nil
}

// ReadLoopPoints scans a WAVE stream's RIFF sub-chunks for an "smpl"
// chunk and extracts the last loop record's start/end sample offsets.
// ok is false when the stream has no smpl chunk.
//
// The skip sequence below reproduces the original tool's smpl-chunk
// field walk byte-for-byte, including its offset into what the
// canonical smpl layout defines as the samplerData field rather than
// numSampleLoops. This is preserved verbatim rather than "corrected",
// per the format's own Open Questions: treat it as canonical.
func ReadLoopPoints(r io.ReadSeeker) (start, end uint32, ok bool, err error) {
	parser := riff.New(r)
	if err := parser.ParseHeader(); err != nil {
		return 0, 0, false, newError(KindInvalidWav, "ReadLoopPoints", err)
	}

	for {
		chunk, chunkErr := parser.NextChunk()
		if chunkErr == io.EOF {
			return 0, 0, false, nil
		}
		if chunkErr != nil {
			return 0, 0, false, newError(KindInvalidWav, "ReadLoopPoints", chunkErr)
		}
		if chunk.ID != [4]byte{'s', 'm', 'p', 'l'} {
			chunk.Drain()
			continue
		}

		if err := discard(chunk, 12); err != nil {
			return 0, 0, false, newError(KindInvalidWav, "ReadLoopPoints", err)
		}
		if _, err := readU32(chunk); err != nil { // midi_note (discarded)
			return 0, 0, false, newError(KindInvalidWav, "ReadLoopPoints", err)
		}
		if err := discard(chunk, 16); err != nil {
			return 0, 0, false, newError(KindInvalidWav, "ReadLoopPoints", err)
		}
		loopCount, err := readU32(chunk)
		if err != nil {
			return 0, 0, false, newError(KindInvalidWav, "ReadLoopPoints", err)
		}
		if err := discard(chunk, 8); err != nil {
			return 0, 0, false, newError(KindInvalidWav, "ReadLoopPoints", err)
		}

		found := false
		for i := uint32(0); i < loopCount; i++ {
			if err := discard(chunk, 8); err != nil {
				return 0, 0, false, newError(KindInvalidWav, "ReadLoopPoints", err)
			}
			s, err := readU32(chunk)
			if err != nil {
				return 0, 0, false, newError(KindInvalidWav, "ReadLoopPoints", err)
			}
			e, err := readU32(chunk)
			if err != nil {
				return 0, 0, false, newError(KindInvalidWav, "ReadLoopPoints", err)
			}
			if err := discard(chunk, 8); err != nil {
				return 0, 0, false, newError(KindInvalidWav, "ReadLoopPoints", err)
			}
			start, end = s, e
			found = true
		}
		return start, end, found, nil
	}
}

func discard(r io.Reader, n int) error {
	_, err := io.CopyN(io.Discard, r, int64(n))
	return err
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24, nil
}
