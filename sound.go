// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package saamt

// SoundType identifies the encoding a sound is stored or exported in.
type SoundType int

const (
	// SoundRaw passes bytes through unchanged, with no decoding.
	SoundRaw SoundType = iota
	// SoundPcWav is 16-bit mono PCM, as stored in the PC release's banks.
	SoundPcWav
	// SoundPs2Vag is PS2 ADPCM (VAG), as stored in the PS2 release's banks.
	SoundPs2Vag
	// SoundPs2Wav is SoundPs2Vag decoded to 16-bit mono PCM.
	SoundPs2Wav
)

// Extension returns the file extension used when exporting sounds of
// this type to individual files.
func (t SoundType) Extension() string {
	switch t {
	case SoundPcWav, SoundPs2Wav:
		return "wav"
	case SoundPs2Vag:
		return "vag"
	default:
		return "raw"
	}
}

// String renders the sound type's name, used in log messages.
func (t SoundType) String() string {
	switch t {
	case SoundRaw:
		return "raw"
	case SoundPcWav:
		return "pc-wav"
	case SoundPs2Vag:
		return "ps2-vag"
	case SoundPs2Wav:
		return "ps2-wav"
	default:
		return "unknown"
	}
}

// RawSound is one sound's raw payload slice together with its playback
// parameters, before any platform-specific decoding.
type RawSound struct {
	Index      int
	SampleRate uint16
	Bytes      []byte
}

// RawSoundsIter iterates a bank's sounds in entry order, slicing the
// payload according to each entry's Offset/Size.
type RawSoundsIter struct {
	payload []byte
	entries []SoundEntry
	idx     int
}

// Len returns the number of remaining sounds.
func (it *RawSoundsIter) Len() int {
	return len(it.entries) - it.idx
}

// Next returns the next raw sound, or false when the iterator is exhausted.
func (it *RawSoundsIter) Next() (*RawSound, bool) {
	if it.idx >= len(it.entries) {
		return nil, false
	}
	e := it.entries[it.idx]
	start := int(e.Offset)
	end := start + e.Size
	sound := &RawSound{
		Index:      it.idx,
		SampleRate: e.SampleRate,
		Bytes:      it.payload[start:end],
	}
	it.idx++
	return sound, true
}
