// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package saamt

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/go-mmap/mmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportBanksReplacesAndPassesThrough(t *testing.T) {
	fixture := newTestFixture(t, 3)
	mgr, err := NewSfxManager(fixture.LookupPath, fixture.PakNamesPath)
	require.NoError(t, err)

	archive, err := mgr.Load(fixture.ArchivePath, nil)
	require.NoError(t, err)
	defer archive.Close()

	inputDir := t.TempDir()
	replacement := buildTestBank(1)
	replF, err := os.Create(filepath.Join(inputDir, "bank_001.bnk"))
	require.NoError(t, err)
	_, err = replacement.WriteTo(replF)
	require.NoError(t, replF.Close())
	require.NoError(t, err)

	outPath := filepath.Join(fixture.Dir, "rebuilt.dat")
	lookup, err := ReadLookupTable(openFixture(t, fixture.LookupPath))
	require.NoError(t, err)

	require.NoError(t, archive.ImportBanks(inputDir, outPath, lookup, fixture.PakIndex, nil))

	info, err := os.Stat(outPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

// TestImportBanksRewritesCorrectLookupEntryForNonFirstPak builds a
// lookup table where the pak under import does not occupy table
// positions 0..n (other paks' entries come first), matching the
// SPC_PA-at-index-8 scenario: the dense Bank.Index among the pak's own
// entries must not be mistaken for its absolute lookup-table position.
func TestImportBanksRewritesCorrectLookupEntryForNonFirstPak(t *testing.T) {
	const pakIdx = uint8(8)
	dir := t.TempDir()

	var archive bytes.Buffer
	var banks []*Bank
	var offsets []int
	for i := 0; i < 2; i++ {
		bank := buildTestBank(i)
		offset := archive.Len()
		_, err := bank.WriteTo(&archive)
		require.NoError(t, err)
		banks = append(banks, bank)
		offsets = append(offsets, offset)
	}

	archivePath := filepath.Join(dir, "archive.dat")
	require.NoError(t, os.WriteFile(archivePath, archive.Bytes(), 0o644))

	// Three unrelated entries for other paks precede the ones under
	// test, so the pak under test's absolute lookup position (3, 4)
	// differs from its dense position among its own entries (0, 1).
	lookup := &LookupTable{Entries: []LookupEntry{
		{PakIndex: 0, Offset: 0, Length: 10},
		{PakIndex: 1, Offset: 0, Length: 10},
		{PakIndex: 2, Offset: 0, Length: 10},
		{PakIndex: pakIdx, Offset: uint32(offsets[0]), Length: uint32(banks[0].Len()) - BankHeaderSize},
		{PakIndex: pakIdx, Offset: uint32(offsets[1]), Length: uint32(banks[1].Len()) - BankHeaderSize},
	}}

	matches := lookup.MatchingEntries(pakIdx)
	require.Len(t, matches, 2)
	assert.Equal(t, 3, matches[0].OriginalIndex)
	assert.Equal(t, 4, matches[1].OriginalIndex)

	file, err := mmap.Open(archivePath)
	require.NoError(t, err)
	defer file.Close()
	archiveHandle := &SfxArchive{file: file, entries: matches}

	inputDir := t.TempDir()
	outPath := filepath.Join(dir, "rebuilt.dat")
	require.NoError(t, archiveHandle.ImportBanks(inputDir, outPath, lookup, pakIdx, nil))

	// Only the entries actually belonging to pakIdx (absolute positions
	// 3 and 4) should have been rewritten; the unrelated leading
	// entries for paks 0-2 must be left untouched.
	assert.Equal(t, uint32(0), lookup.Entries[0].Offset)
	assert.EqualValues(t, 10, lookup.Entries[0].Length)
	assert.Equal(t, uint32(0), lookup.Entries[3].Offset)
	assert.Equal(t, uint32(offsets[1]-offsets[0]), lookup.Entries[4].Offset)
}

func TestScanIndexedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bank_002.bnk"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bank_010.bnk"), []byte("y"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notabank.txt"), []byte("z"), 0o644))

	idx, paths, err := scanIndexedFiles(dir, bankFileRe)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	pos, ok := idx.Load(2)
	require.True(t, ok)
	assert.Contains(t, paths[pos], "bank_002.bnk")

	pos, ok = idx.Load(10)
	require.True(t, ok)
	assert.Contains(t, paths[pos], "bank_010.bnk")

	_, ok = idx.Load(99)
	assert.False(t, ok)
}

func openFixture(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}
