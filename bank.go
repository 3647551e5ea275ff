// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package saamt

import (
	"encoding/binary"
	"io"
)

// soundEntrySize is the on-disk size of a SoundEntry record.
const soundEntrySize = 12

// maxSoundEntries is the fixed number of entry slots reserved on disk
// per bank header, regardless of how many are actually populated.
const maxSoundEntries = 400

// BankHeaderSize is the fixed on-disk size of a bank header: a 4-byte
// prefix (num_sounds + padding) plus 400 reserved entry slots.
const BankHeaderSize = 4 + maxSoundEntries*soundEntrySize

// noLoop marks a SoundEntry that has no loop point.
const noLoop = 0xFFFFFFFF

// SoundEntry describes one sound's placement and playback parameters
// within a bank's payload.
type SoundEntry struct {
	Offset     uint32
	LoopOffset uint32
	SampleRate uint16
	Headroom   uint16

	// Size is the byte length of this sound's slice of the bank payload.
	// It is derived at read time from the gap to the next entry (or to
	// the end of the payload for the last entry) and is never itself
	// stored on disk.
	Size int
}

// NewSoundEntry builds an entry with no loop point, matching the
// original format's default for freshly imported sounds.
func NewSoundEntry(offset uint32, sampleRate, headroom uint16) SoundEntry {
	return SoundEntry{Offset: offset, LoopOffset: noLoop, SampleRate: sampleRate, Headroom: headroom}
}

// BankHeader lists the sounds contained in one bank. SoundEntries has
// length equal to the bank's actual sound count (at most 400); the
// remaining on-disk slots are zero-padding.
type BankHeader struct {
	SoundEntries []SoundEntry
}

// NumSounds returns len(SoundEntries), the header's on-disk count field.
func (h *BankHeader) NumSounds() int {
	return len(h.SoundEntries)
}

// ReadBankHeader reads a fixed BankHeaderSize-byte header, then derives
// each entry's Size from the gap to the next entry's Offset (or to
// payloadLen for the last entry).
func ReadBankHeader(r io.Reader, payloadLen int) (*BankHeader, error) {
	buf := make([]byte, BankHeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, newError(KindIO, "ReadBankHeader", err)
	}

	numSounds := int(binary.LittleEndian.Uint16(buf[0:2]))
	if numSounds > maxSoundEntries {
		return nil, newError(KindBinaryFormat, "ReadBankHeader", nil)
	}

	entries := make([]SoundEntry, numSounds)
	off := 4
	for i := 0; i < numSounds; i++ {
		entries[i] = SoundEntry{
			Offset:     binary.LittleEndian.Uint32(buf[off : off+4]),
			LoopOffset: binary.LittleEndian.Uint32(buf[off+4 : off+8]),
			SampleRate: binary.LittleEndian.Uint16(buf[off+8 : off+10]),
			Headroom:   binary.LittleEndian.Uint16(buf[off+10 : off+12]),
		}
		off += soundEntrySize
	}
	generateSizes(entries, payloadLen)

	return &BankHeader{SoundEntries: entries}, nil
}

// generateSizes fills each entry's Size as the gap between its Offset
// and the next entry's Offset, or to payloadLen for the last entry.
func generateSizes(entries []SoundEntry, payloadLen int) {
	for i := range entries {
		end := payloadLen
		if i+1 < len(entries) {
			end = int(entries[i+1].Offset)
		}
		entries[i].Size = end - int(entries[i].Offset)
	}
}

// WriteTo serializes the header to its fixed BankHeaderSize-byte form,
// zero-padding unused entry slots.
func (h *BankHeader) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, BankHeaderSize)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(len(h.SoundEntries)))

	off := 4
	for _, e := range h.SoundEntries {
		binary.LittleEndian.PutUint32(buf[off:off+4], e.Offset)
		binary.LittleEndian.PutUint32(buf[off+4:off+8], e.LoopOffset)
		binary.LittleEndian.PutUint16(buf[off+8:off+10], e.SampleRate)
		binary.LittleEndian.PutUint16(buf[off+10:off+12], e.Headroom)
		off += soundEntrySize
	}
	n, err := w.Write(buf)
	if err != nil {
		return int64(n), newError(KindIO, "BankHeader.WriteTo", err)
	}
	return int64(n), nil
}

// Bank is one parsed bank: its header plus the raw payload bytes each
// SoundEntry slices into.
//
// Index is the bank's position within the dense 0..n enumeration of the
// archive's matching lookup entries (the iteration order BanksIter
// yields banks in), not its position in the full lookup table.
// OriginalIndex is that absolute lookup-table position, carried
// alongside so callers can write results back to the right entry.
type Bank struct {
	Index         int
	OriginalIndex int
	Header        *BankHeader
	Payload       []byte
}

// Len returns the bank's total on-disk size: header plus payload.
func (b *Bank) Len() int {
	return BankHeaderSize + len(b.Payload)
}

// WriteTo serializes the bank as header followed by payload, the form
// used both for standalone bank_NNN.bnk files and for bank import.
func (b *Bank) WriteTo(w io.Writer) (int64, error) {
	n, err := b.Header.WriteTo(w)
	if err != nil {
		return n, err
	}
	m, err := w.Write(b.Payload)
	total := n + int64(m)
	if err != nil {
		return total, newError(KindIO, "Bank.WriteTo", err)
	}
	return total, nil
}

// RawSounds returns an iterator over this bank's sounds as raw payload
// slices, before any platform-specific decoding.
func (b *Bank) RawSounds() *RawSoundsIter {
	return &RawSoundsIter{payload: b.Payload, entries: b.Header.SoundEntries}
}
