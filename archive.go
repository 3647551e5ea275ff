// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package saamt

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"codeberg.org/go-mmap/mmap"
)

// SfxManager resolves a sound archive's pak index from its filename and
// loads the matching slice of the combined lookup table, mirroring
// SfxManager in the original tool.
type SfxManager struct {
	lookupPath string
	Lookup     *LookupTable
	PakNames   *PakNameSet
}

// NewSfxManager loads the lookup table and pak-name table used to
// resolve archive filenames to byte ranges within the combined blob.
func NewSfxManager(lookupPath, pakNamesPath string) (*SfxManager, error) {
	lf, err := os.Open(lookupPath)
	if err != nil {
		return nil, newErrorPath(KindMissingFile, "NewSfxManager", lookupPath)
	}
	defer lf.Close()

	lookup, err := ReadLookupTable(lf)
	if err != nil {
		return nil, err
	}

	pf, err := os.Open(pakNamesPath)
	if err != nil {
		return nil, newErrorPath(KindMissingFile, "NewSfxManager", pakNamesPath)
	}
	defer pf.Close()

	pakNames, err := PakNamesFromReader(filepath.Base(pakNamesPath), pf)
	if err != nil {
		return nil, err
	}

	return &SfxManager{lookupPath: lookupPath, Lookup: lookup, PakNames: pakNames}, nil
}

// UpdateLookup writes the in-memory lookup table over the existing file
// at path (or at the manager's original path if path is empty).
func (m *SfxManager) UpdateLookup(path string) error {
	if path == "" {
		path = m.lookupPath
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return newErrorPath(KindMissingFile, "SfxManager.UpdateLookup", path)
	}
	defer f.Close()

	if _, err := f.Seek(0, 0); err != nil {
		return newError(KindIO, "SfxManager.UpdateLookup", err)
	}
	if _, err := m.Lookup.WriteTo(f); err != nil {
		return err
	}
	return nil
}

// Load resolves archivePath's basename to a pak index, collects the
// lookup entries carrying it, verifies they describe back-to-back,
// ascending byte ranges (sorting and re-checking once if necessary),
// and memory-maps the archive file for bank iteration.
func (m *SfxManager) Load(archivePath string, logger Logger) (*SfxArchive, error) {
	logger = logOf(logger)
	base := strings.TrimSuffix(filepath.Base(archivePath), filepath.Ext(archivePath))

	pakIdx, ok := m.PakNames.IndexOf(base)
	if !ok {
		return nil, newErrorPath(KindNoMatchInLookup, "SfxManager.Load", archivePath)
	}

	matches := m.Lookup.MatchingEntries(pakIdx)
	if len(matches) == 0 {
		return nil, newErrorPath(KindNoEntryForPakIndex, "SfxManager.Load", archivePath)
	}

	if !banksSorted(matches) {
		logger.Warn(fmt.Sprintf("banks for %q are not stored in ascending order, sorting", base))
		sort.Slice(matches, func(i, j int) bool { return matches[i].Entry.Offset < matches[j].Entry.Offset })
		if !banksSorted(matches) {
			return nil, newErrorPath(KindUnsortedBanks, "SfxManager.Load", archivePath)
		}
	}

	file, err := mmap.Open(archivePath)
	if err != nil {
		return nil, newErrorPath(KindMissingFile, "SfxManager.Load", archivePath)
	}

	return &SfxArchive{file: file, entries: matches}, nil
}

// banksSorted reports whether each entry's range ends exactly where the
// next entry's offset begins, i.e. entry.Offset + entry.Length + header
// size == next.Offset, the original tool's is_banks_sorted check.
func banksSorted(matches []IndexedEntry) bool {
	for i := 0; i+1 < len(matches); i++ {
		cur, next := matches[i].Entry, matches[i+1].Entry
		if cur.Offset+cur.Length+BankHeaderSize != next.Offset {
			return false
		}
	}
	return true
}

// SfxArchive is a loaded, memory-mapped sound archive together with the
// lookup entries describing where each of its banks lives.
type SfxArchive struct {
	file    *mmap.File
	entries []IndexedEntry
}

// Close releases the archive's memory mapping.
func (a *SfxArchive) Close() error {
	return a.file.Close()
}

// Len returns the number of banks in the archive.
func (a *SfxArchive) Len() int {
	return len(a.entries)
}

// Banks returns a fresh iterator over the archive's banks in lookup order.
func (a *SfxArchive) Banks() *BanksIter {
	return &BanksIter{file: a.file, entries: a.entries}
}

// BanksIter pulls banks one at a time from a memory-mapped archive. A
// pull-based Next (rather than iter.Seq) is used because a single step
// can fail with an I/O or format error that the caller must see.
type BanksIter struct {
	file    *mmap.File
	entries []IndexedEntry
	idx     int
}

// Len returns the number of remaining banks.
func (it *BanksIter) Len() int {
	return len(it.entries) - it.idx
}

// Next reads and parses the next bank, or returns (nil, nil) once the
// iterator is exhausted.
func (it *BanksIter) Next() (*Bank, error) {
	if it.idx >= len(it.entries) {
		return nil, nil
	}
	denseIndex := it.idx
	indexed := it.entries[it.idx]
	entry := indexed.Entry
	it.idx++

	sr := io.NewSectionReader(it.file, int64(entry.Offset), int64(entry.Length)+BankHeaderSize)
	header, err := ReadBankHeader(sr, int(entry.Length))
	if err != nil {
		return nil, err
	}

	payload := make([]byte, entry.Length)
	if _, err := sr.ReadAt(payload, BankHeaderSize); err != nil {
		return nil, newError(KindIO, "BanksIter.Next", err)
	}

	return &Bank{Index: denseIndex, OriginalIndex: indexed.OriginalIndex, Header: header, Payload: payload}, nil
}

// ExportAllBanks writes every remaining bank to dir as bank_NNN.bnk files.
func (it *BanksIter) ExportAllBanks(dir string, progress ProgressReporter) error {
	progress = progressOf(progress)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newErrorPath(KindMissingFolder, "BanksIter.ExportAllBanks", dir)
	}

	progress.Begin("exporting banks", it.Len())
	defer progress.End()

	for {
		bank, err := it.Next()
		if err != nil {
			return err
		}
		if bank == nil {
			return nil
		}
		path := filepath.Join(dir, fmt.Sprintf("bank_%03d.bnk", bank.Index))
		f, err := os.Create(path)
		if err != nil {
			return newErrorPath(KindIO, "BanksIter.ExportAllBanks", path)
		}
		_, werr := bank.WriteTo(f)
		cerr := f.Close()
		if werr != nil {
			return werr
		}
		if cerr != nil {
			return newError(KindIO, "BanksIter.ExportAllBanks", cerr)
		}
		progress.Step()
	}
}

// ExportAllSounds writes every remaining bank's sounds into dir, one
// bank_NNN/ subdirectory per bank, decoding according to kind.
func (it *BanksIter) ExportAllSounds(kind SoundType, dir string, progress ProgressReporter) error {
	progress = progressOf(progress)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newErrorPath(KindMissingFolder, "BanksIter.ExportAllSounds", dir)
	}

	progress.Begin("exporting sounds", it.Len())
	defer progress.End()

	for {
		bank, err := it.Next()
		if err != nil {
			return err
		}
		if bank == nil {
			return nil
		}
		bankDir := filepath.Join(dir, fmt.Sprintf("bank_%03d", bank.Index))
		if err := os.MkdirAll(bankDir, 0o755); err != nil {
			return newErrorPath(KindMissingFolder, "BanksIter.ExportAllSounds", bankDir)
		}

		sounds := bank.RawSounds()
		for {
			sound, ok := sounds.Next()
			if !ok {
				break
			}
			path := filepath.Join(bankDir, fmt.Sprintf("sound_%03d.%s", sound.Index, kind.Extension()))
			if err := exportSound(kind, sound, path); err != nil {
				return err
			}
		}
		progress.Step()
	}
}

func exportSound(kind SoundType, sound *RawSound, path string) error {
	switch kind {
	case SoundRaw:
		return exportRaw(sound, path)
	case SoundPcWav:
		return exportPcWav(sound, path)
	case SoundPs2Vag:
		return exportPs2Vag(sound, path)
	case SoundPs2Wav:
		return exportPs2Wav(sound, path)
	default:
		return newError(KindBinaryFormat, "exportSound", nil)
	}
}
