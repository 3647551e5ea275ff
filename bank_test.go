// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package saamt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBankHeaderRoundTrip(t *testing.T) {
	header := &BankHeader{SoundEntries: []SoundEntry{
		NewSoundEntry(0, 22050, 0),
		NewSoundEntry(10, 44100, 0),
		NewSoundEntry(30, 11025, 0),
	}}

	var buf bytes.Buffer
	n, err := header.WriteTo(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, BankHeaderSize, n)

	parsed, err := ReadBankHeader(&buf, 50)
	require.NoError(t, err)
	require.Len(t, parsed.SoundEntries, 3)

	assert.Equal(t, 10, parsed.SoundEntries[0].Size)
	assert.Equal(t, 20, parsed.SoundEntries[1].Size)
	assert.Equal(t, 20, parsed.SoundEntries[2].Size)
}

func TestBankHeaderNumSounds(t *testing.T) {
	header := &BankHeader{SoundEntries: make([]SoundEntry, 5)}
	assert.Equal(t, 5, header.NumSounds())
}

func TestBankWriteToAndLen(t *testing.T) {
	bank := buildTestBank(0)

	var buf bytes.Buffer
	n, err := bank.WriteTo(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, bank.Len(), n)
	assert.Equal(t, BankHeaderSize+len(bank.Payload), bank.Len())
}

func TestBankRawSounds(t *testing.T) {
	bank := buildTestBank(1)
	sounds := bank.RawSounds()
	assert.Equal(t, 3, sounds.Len())

	count := 0
	for {
		sound, ok := sounds.Next()
		if !ok {
			break
		}
		assert.Equal(t, count, sound.Index)
		count++
	}
	assert.Equal(t, 3, count)
}

func TestNewSoundEntryDefaultsNoLoop(t *testing.T) {
	e := NewSoundEntry(0, 22050, 0)
	assert.Equal(t, uint32(noLoop), e.LoopOffset)
}
