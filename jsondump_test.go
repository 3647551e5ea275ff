// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package saamt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupTableDumpRoundTrip(t *testing.T) {
	table := &LookupTable{Entries: []LookupEntry{
		{PakIndex: 0, Offset: 10, Length: 20},
		{PakIndex: 1, Offset: 30, Length: 40},
	}}

	var buf bytes.Buffer
	require.NoError(t, table.WriteDump(&buf))

	parsed, err := LoadLookupTableDump(&buf)
	require.NoError(t, err)
	assert.Equal(t, table.Entries, parsed.Entries)
}

func TestBankSlotTableDumpOmitsTail(t *testing.T) {
	table := &BankSlotTable{Slots: []Slot{{Offset: 1, Size: 2, Unknown: [3]int32{3, 4, 5}}}}
	dump := table.Dump()
	require.Len(t, dump, 1)
	assert.Equal(t, uint32(1), dump[0].Offset)
	assert.Equal(t, uint32(2), dump[0].Size)
}

func TestPakNameSetDump(t *testing.T) {
	dump := SFXDefaultPakNames().Dump()
	assert.Equal(t, sfxDefaultPakNames, dump.Names)
}
