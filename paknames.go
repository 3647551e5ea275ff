// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package saamt

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// sfxDefaultPakNames lists the fixed SFX archive base names.
var sfxDefaultPakNames = []string{
	"FEET", "GENRL", "PAIN_A", "SCRIPT", "SPC_EA", "SPC_FA", "SPC_GA", "SPC_NA", "SPC_PA",
}

// streamDefaultPakNames lists the fixed stream archive base names. The
// empty entry at index 2 is a reserved placeholder kept for positional
// compatibility with the engine's own table.
var streamDefaultPakNames = []string{
	"AA", "ADVERTS", "", "AMBIENCE", "BEATS", "CH", "CO", "CR", "CUTSCENE", "DS", "HC", "MH", "MR",
	"NJ", "RE", "RG", "TK",
}

const (
	pakFilesRecordSize = 52
	strmPaksRecordSize = 16
	maxPakNames        = 255
)

// PakNameSet is an ordered list of archive base-names used to map a
// filename to a numeric pak index.
type PakNameSet struct {
	names []string
}

// SFXDefaultPakNames returns the built-in SFX pak name set.
func SFXDefaultPakNames() *PakNameSet {
	return &PakNameSet{names: append([]string(nil), sfxDefaultPakNames...)}
}

// StreamDefaultPakNames returns the built-in stream pak name set.
func StreamDefaultPakNames() *PakNameSet {
	return &PakNameSet{names: append([]string(nil), streamDefaultPakNames...)}
}

// TryPakNameDefaultsFor returns the built-in pak name set whose defaults
// contain the canonicalized name, or false if neither set matches.
func TryPakNameDefaultsFor(name string) (*PakNameSet, bool) {
	canon := canonicalPakName(name)
	for _, n := range sfxDefaultPakNames {
		if n == canon {
			return SFXDefaultPakNames(), true
		}
	}
	for _, n := range streamDefaultPakNames {
		if n == canon {
			return StreamDefaultPakNames(), true
		}
	}
	return nil, false
}

// PakNamesFromReader dispatches on the canonicalized basename of name:
// "PAKFILES" parses a PakFiles.dat-shaped stream, "STRMPAKS" parses a
// StrmPaks.dat-shaped stream. Any other name is KindUnknownLookupFile.
func PakNamesFromReader(name string, r io.Reader) (*PakNameSet, error) {
	base := filepath.Base(name)
	switch canonicalPakName(strings.TrimSuffix(base, filepath.Ext(base))) {
	case "PAKFILES":
		return SFXPakNamesFromReader(r)
	case "STRMPAKS":
		return StreamPakNamesFromReader(r)
	default:
		return nil, newError(KindUnknownLookupFile, "PakNamesFromReader", nil)
	}
}

// SFXPakNamesFromReader reads a PakFiles.dat-shaped stream: null-terminated
// strings padded to 52-byte records, read until EOF.
func SFXPakNamesFromReader(r io.Reader) (*PakNameSet, error) {
	names, err := readAlignedNames(r, pakFilesRecordSize)
	if err != nil {
		return nil, newError(KindIO, "SFXPakNamesFromReader", err)
	}
	return &PakNameSet{names: names}, nil
}

// StreamPakNamesFromReader reads a StrmPaks.dat-shaped stream: null-terminated
// strings padded to 16-byte records, read until EOF.
func StreamPakNamesFromReader(r io.Reader) (*PakNameSet, error) {
	names, err := readAlignedNames(r, strmPaksRecordSize)
	if err != nil {
		return nil, newError(KindIO, "StreamPakNamesFromReader", err)
	}
	return &PakNameSet{names: names}, nil
}

func readAlignedNames(r io.Reader, align int) ([]string, error) {
	var names []string
	buf := make([]byte, align)
	for {
		n, err := io.ReadFull(r, buf)
		switch {
		case err == io.EOF:
			return names, nil
		case err == io.ErrUnexpectedEOF:
			if n > 0 {
				names = append(names, nameFromRecord(buf[:n]))
			}
			return names, nil
		case err != nil:
			return nil, err
		}
		names = append(names, nameFromRecord(buf))
		if len(names) > maxPakNames {
			return nil, newError(KindBinaryFormat, "readAlignedNames", nil)
		}
	}
}

func nameFromRecord(record []byte) string {
	if i := bytes.IndexByte(record, 0); i >= 0 {
		return string(record[:i])
	}
	return string(record)
}

// canonicalPakName uppercases ASCII and strips a trailing run of the
// digits 0, 1 or 2 (PS2 releases append these to filenames).
func canonicalPakName(name string) string {
	upper := strings.ToUpper(name)
	return strings.TrimRight(upper, "012")
}

// IndexOf returns the pak index matching name (after canonicalization),
// or false if there is no match. An empty name never matches.
func (p *PakNameSet) IndexOf(name string) (uint8, bool) {
	if name == "" {
		return 0, false
	}
	canon := canonicalPakName(name)
	for i, n := range p.names {
		if n == canon {
			return uint8(i), true
		}
	}
	return 0, false
}

// Names returns the underlying ordered name list.
func (p *PakNameSet) Names() []string {
	return p.names
}

// Len returns the number of names in the set.
func (p *PakNameSet) Len() int {
	return len(p.names)
}

// writeAlignedNames writes names as null-terminated, zero-padded records
// of the given width, used by the optional dump/export paths and by the
// PakNames round-trip tests.
func writeAlignedNames(w io.Writer, names []string, align int) error {
	record := make([]byte, align)
	for _, name := range names {
		for i := range record {
			record[i] = 0
		}
		copy(record, name)
		if _, err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// WriteSFX writes the set as a PakFiles.dat-shaped stream.
func (p *PakNameSet) WriteSFX(w io.Writer) error {
	return writeAlignedNames(w, p.names, pakFilesRecordSize)
}

// WriteStream writes the set as a StrmPaks.dat-shaped stream.
func (p *PakNameSet) WriteStream(w io.Writer) error {
	return writeAlignedNames(w, p.names, strmPaksRecordSize)
}
