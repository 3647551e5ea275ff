// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package saamt

import (
	"encoding/json"
	"io"
)

// BankSlotDump is the JSON-friendly projection of a Slot, omitting the
// large opaque Tail array so dumps stay human-reviewable; Tail is
// preserved only in the binary round-trip, not the JSON one.
type BankSlotDump struct {
	Offset  uint32   `json:"offset"`
	Size    uint32   `json:"size"`
	Unknown [3]int32 `json:"unknown"`
}

// LookupEntryDump is the JSON-friendly projection of a LookupEntry.
type LookupEntryDump struct {
	PakIndex uint8  `json:"pakIndex"`
	Offset   uint32 `json:"offset"`
	Length   uint32 `json:"length"`
}

// LookupTableDump is the JSON-friendly projection of a LookupTable.
type LookupTableDump struct {
	Entries []LookupEntryDump `json:"entries"`
}

// PakNamesDump is the JSON-friendly projection of a PakNameSet.
type PakNamesDump struct {
	Names []string `json:"names"`
}

// Dump converts t into its JSON-friendly form.
func (t *LookupTable) Dump() LookupTableDump {
	dump := LookupTableDump{Entries: make([]LookupEntryDump, len(t.Entries))}
	for i, e := range t.Entries {
		dump.Entries[i] = LookupEntryDump{PakIndex: e.PakIndex, Offset: e.Offset, Length: e.Length}
	}
	return dump
}

// WriteDump encodes t's JSON-friendly form to w.
func (t *LookupTable) WriteDump(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t.Dump()); err != nil {
		return newError(KindIO, "LookupTable.WriteDump", err)
	}
	return nil
}

// LoadLookupTableDump reads a LookupTableDump from r and reconstructs a
// LookupTable, the inverse of Dump/WriteDump. This is the only supported
// JSON->binary direction: bank slots and pak names are dump-only, since
// their binary encodings carry bytes (Tail, fixed-width names) a JSON
// round-trip cannot reproduce losslessly.
func LoadLookupTableDump(r io.Reader) (*LookupTable, error) {
	var dump LookupTableDump
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return nil, newError(KindBinaryFormat, "LoadLookupTableDump", err)
	}

	entries := make([]LookupEntry, len(dump.Entries))
	for i, e := range dump.Entries {
		entries[i] = LookupEntry{PakIndex: e.PakIndex, Offset: e.Offset, Length: e.Length}
	}
	return &LookupTable{Entries: entries}, nil
}

// Dump converts s into its JSON-friendly form.
func (s *BankSlotTable) Dump() []BankSlotDump {
	dump := make([]BankSlotDump, len(s.Slots))
	for i, slot := range s.Slots {
		dump[i] = BankSlotDump{Offset: slot.Offset, Size: slot.Size, Unknown: slot.Unknown}
	}
	return dump
}

// WriteDump encodes s's JSON-friendly form to w.
func (s *BankSlotTable) WriteDump(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Dump()); err != nil {
		return newError(KindIO, "BankSlotTable.WriteDump", err)
	}
	return nil
}

// Dump converts p into its JSON-friendly form.
func (p *PakNameSet) Dump() PakNamesDump {
	return PakNamesDump{Names: append([]string(nil), p.names...)}
}

// WriteDump encodes p's JSON-friendly form to w.
func (p *PakNameSet) WriteDump(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p.Dump()); err != nil {
		return newError(KindIO, "PakNameSet.WriteDump", err)
	}
	return nil
}
