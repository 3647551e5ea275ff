// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package saamt

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// testFixture is a self-contained, synthetic SFX archive built entirely
// in a temp directory, replacing the teacher's hardcoded external
// testdata checkout with fixtures generated at test time.
type testFixture struct {
	Dir          string
	ArchivePath  string
	LookupPath   string
	PakNamesPath string
	PakIndex     uint8
	BankCount    int
}

// newTestFixture writes a tiny but well-formed "FEET" archive (bankCount
// banks, each with a handful of raw sounds) plus matching lookup and
// pak-name files, and returns their paths.
func newTestFixture(t *testing.T, bankCount int) *testFixture {
	t.Helper()
	dir := t.TempDir()

	const pakIdx = uint8(0) // "FEET" is index 0 in the SFX defaults

	var archive bytes.Buffer
	lookup := &LookupTable{}
	for i := 0; i < bankCount; i++ {
		bank := buildTestBank(i)
		offset := archive.Len()
		n, err := bank.WriteTo(&archive)
		require.NoError(t, err)
		lookup.Entries = append(lookup.Entries, LookupEntry{
			PakIndex: pakIdx,
			Offset:   uint32(offset),
			Length:   uint32(n) - BankHeaderSize,
		})
	}

	archivePath := filepath.Join(dir, "FEET.dat")
	require.NoError(t, os.WriteFile(archivePath, archive.Bytes(), 0o644))

	lookupPath := filepath.Join(dir, "BankLkup.dat")
	lf, err := os.Create(lookupPath)
	require.NoError(t, err)
	_, err = lookup.WriteTo(lf)
	require.NoError(t, lf.Close())
	require.NoError(t, err)

	pakNamesPath := filepath.Join(dir, "PakFiles.dat")
	pf, err := os.Create(pakNamesPath)
	require.NoError(t, err)
	require.NoError(t, SFXDefaultPakNames().WriteSFX(pf))
	require.NoError(t, pf.Close())

	return &testFixture{
		Dir:          dir,
		ArchivePath:  archivePath,
		LookupPath:   lookupPath,
		PakNamesPath: pakNamesPath,
		PakIndex:     pakIdx,
		BankCount:    bankCount,
	}
}

// buildTestBank synthesizes a 3-sound bank with small, distinct raw
// payloads so tests can assert exact offsets/sizes.
func buildTestBank(index int) *Bank {
	sizes := []int{4, 8, 6}
	var payload []byte
	entries := make([]SoundEntry, len(sizes))
	for i, size := range sizes {
		offset := len(payload)
		data := make([]byte, size)
		for j := range data {
			data[j] = byte(index*10 + i)
		}
		payload = append(payload, data...)
		entries[i] = NewSoundEntry(uint32(offset), 22050, 0)
		entries[i].Size = size
	}
	return &Bank{
		Index:   index,
		Header:  &BankHeader{SoundEntries: entries},
		Payload: payload,
	}
}
