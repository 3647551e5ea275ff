// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package saamt

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/kelindar/intmap"
)

var (
	bankFileRe = regexp.MustCompile(`^bank_(\d+)\.bnk$`)
	bankDirRe  = regexp.MustCompile(`^bank_(\d+)$`)
	soundFileRe = regexp.MustCompile(`^sound_(\d+)\.(\w+)$`)
)

// sizeWriter is a bytes.Buffer that also reports how many bytes it has
// accumulated, used by the platform import adapters to report a
// SoundEntry's on-disk Size without a second pass over the buffer.
type sizeWriter struct {
	buf bytes.Buffer
}

func (w *sizeWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }
func (w *sizeWriter) Len() int                     { return w.buf.Len() }
func (w *sizeWriter) Bytes() []byte                { return w.buf.Bytes() }

// ImportBanks scans inputDir (one level deep) for bank_NNN.bnk files,
// replaces the corresponding archive bank's bytes, and rewrites the
// lookup entry for the given pak index with the new offset/length.
//
// It mirrors SfxArchive::import_banks: files not present in inputDir
// are copied through from the existing archive unchanged.
func (a *SfxArchive) ImportBanks(inputDir, outputPath string, lookup *LookupTable, pakIdx uint8, logger Logger) error {
	logger = logOf(logger)

	replacements, paths, err := scanIndexedFiles(inputDir, bankFileRe)
	if err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return newErrorPath(KindIO, "SfxArchive.ImportBanks", outputPath)
	}
	defer out.Close()

	var offset int64
	banks := a.Banks()
	for {
		bank, err := banks.Next()
		if err != nil {
			return err
		}
		if bank == nil {
			break
		}

		entryIdx, replaced := lookupReplacement(replacements, bank.Index)
		var n int64
		if replaced {
			logger.Info(fmt.Sprintf("importing bank %d from %s", bank.Index, paths[entryIdx]))
			data, err := os.ReadFile(paths[entryIdx])
			if err != nil {
				return newErrorPath(KindMissingFile, "SfxArchive.ImportBanks", paths[entryIdx])
			}
			m, err := out.Write(data)
			if err != nil {
				return newError(KindIO, "SfxArchive.ImportBanks", err)
			}
			n = int64(m)
		} else {
			m, err := bank.WriteTo(out)
			if err != nil {
				return err
			}
			n = m
		}

		if e, ok := lookup.Get(bank.OriginalIndex); ok {
			e.Offset = uint32(offset)
			e.Length = uint32(n) - BankHeaderSize
		}
		offset += n
	}
	return nil
}

// ImportSounds scans inputDir (one level deep) for bank_NNN/ directories
// containing sound_MMM.ext replacement files, re-encodes each per kind,
// and writes a rebuilt archive to outputPath.
func (a *SfxArchive) ImportSounds(kind SoundType, inputDir string, outputPath string, lookup *LookupTable, pakIdx uint8, logger Logger) error {
	logger = logOf(logger)

	bankDirs, dirPaths, err := scanIndexedDirs(inputDir, bankDirRe)
	if err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return newErrorPath(KindIO, "SfxArchive.ImportSounds", outputPath)
	}
	defer out.Close()

	notMono := false
	var offset int64
	banks := a.Banks()
	for {
		bank, err := banks.Next()
		if err != nil {
			return err
		}
		if bank == nil {
			break
		}

		replDirIdx, hasReplacements := lookupReplacement(bankDirs, bank.Index)
		payload, entries, nm, err := rebuildBankPayload(bank, kind, hasReplacements, dirPaths, replDirIdx, logger)
		if err != nil {
			return err
		}
		notMono = notMono || nm

		bank.Header = &BankHeader{SoundEntries: entries}
		bank.Payload = payload
		n, err := bank.WriteTo(out)
		if err != nil {
			return err
		}

		if e, ok := lookup.Get(bank.OriginalIndex); ok {
			e.Offset = uint32(offset)
			e.Length = uint32(n) - BankHeaderSize
		}
		offset += n
	}

	if notMono {
		logger.Warn("one or more imported WAV files were not mono; imported as-is")
	}
	return nil
}

// rebuildBankPayload re-derives a bank's payload and SoundEntry table,
// substituting any sound with a matching replacement file in bankDir.
func rebuildBankPayload(bank *Bank, kind SoundType, hasReplacements bool, dirPaths []string, replDirIdx int, logger Logger) ([]byte, []SoundEntry, bool, error) {
	var soundPaths map[int]string
	if hasReplacements {
		var err error
		soundPaths, err = scanSoundFiles(dirPaths[replDirIdx])
		if err != nil {
			return nil, nil, false, err
		}
	}

	var payload bytes.Buffer
	entries := make([]SoundEntry, len(bank.Header.SoundEntries))
	notMono := false

	sounds := bank.RawSounds()
	for i := range entries {
		sound, ok := sounds.Next()
		if !ok {
			break
		}
		offset := payload.Len()
		orig := bank.Header.SoundEntries[i]

		if path, replaced := soundPaths[i]; replaced {
			logger.Info(fmt.Sprintf("importing sound %d/%d from %s", bank.Index, i, path))
			w := &sizeWriter{}
			sr, nm, err := importSoundFile(kind, path, i, w)
			if err != nil {
				return nil, nil, false, err
			}
			notMono = notMono || nm
			payload.Write(w.Bytes())
			entries[i] = SoundEntry{Offset: uint32(offset), LoopOffset: orig.LoopOffset, SampleRate: sr, Headroom: orig.Headroom, Size: w.Len()}
		} else {
			payload.Write(sound.Bytes)
			entries[i] = orig
			entries[i].Offset = uint32(offset)
		}
	}
	return payload.Bytes(), entries, notMono, nil
}

func importSoundFile(kind SoundType, path string, index int, w *sizeWriter) (sampleRate uint16, notMono bool, err error) {
	switch kind {
	case SoundRaw:
		return 0, false, importRaw(path, w)
	case SoundPcWav:
		return importPcWav(path, w)
	case SoundPs2Vag:
		sr, err := importVag(path, w)
		return sr, false, err
	case SoundPs2Wav:
		sr, err := importPs2Wav(path, index, w)
		return sr, false, err
	default:
		return 0, false, newError(KindBinaryFormat, "importSoundFile", nil)
	}
}

// scanIndexedFiles lists inputDir (one level deep) for files matching
// re, whose first capture group is the numeric key, returning an
// intmap from key to a position in the returned paths slice.
func scanIndexedFiles(inputDir string, re *regexp.Regexp) (*intmap.Map, []string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, nil, newErrorPath(KindMissingFolder, "scanIndexedFiles", inputDir)
	}

	idx := intmap.New(64, 0.95)
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := re.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		key, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		idx.Store(uint32(key), uint32(len(paths)))
		paths = append(paths, filepath.Join(inputDir, e.Name()))
	}
	return idx, paths, nil
}

// scanIndexedDirs is scanIndexedFiles' directory-matching counterpart.
func scanIndexedDirs(inputDir string, re *regexp.Regexp) (*intmap.Map, []string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, nil, newErrorPath(KindMissingFolder, "scanIndexedDirs", inputDir)
	}

	idx := intmap.New(64, 0.95)
	var paths []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		m := re.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		key, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		idx.Store(uint32(key), uint32(len(paths)))
		paths = append(paths, filepath.Join(inputDir, e.Name()))
	}
	return idx, paths, nil
}

// scanSoundFiles lists a bank_NNN/ directory for sound_MMM.ext files,
// returning a map from sound index to file path.
func scanSoundFiles(bankDir string) (map[int]string, error) {
	entries, err := os.ReadDir(bankDir)
	if err != nil {
		return nil, newErrorPath(KindMissingFolder, "scanSoundFiles", bankDir)
	}

	out := make(map[int]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := soundFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		key, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		out[key] = filepath.Join(bankDir, e.Name())
	}
	return out, nil
}

func lookupReplacement(idx *intmap.Map, key int) (int, bool) {
	v, ok := idx.Load(uint32(key))
	return int(v), ok
}
