// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package saamt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBankSlotTableRoundTrip(t *testing.T) {
	table := &BankSlotTable{Slots: []Slot{
		{Offset: 0, Size: 1000, Unknown: [3]int32{1, 2, 3}},
		{Offset: 1000, Size: 2000, Unknown: [3]int32{4, 5, 6}},
	}}
	table.Slots[0].Tail[0] = [3]int32{7, 8, 9}

	var buf bytes.Buffer
	_, err := table.WriteTo(&buf)
	require.NoError(t, err)

	parsed, err := ReadBankSlotTable(&buf)
	require.NoError(t, err)
	assert.Equal(t, table.Slots, parsed.Slots)
}

func TestBankSlotSizeConstant(t *testing.T) {
	// 4 (offset) + 4 (size) + 12 (unknown) + 400*12 (tail) = 4820
	assert.Equal(t, 4820, slotSize)
}

func TestBankSlotTableUpdateSizes(t *testing.T) {
	table := &BankSlotTable{Slots: []Slot{
		{Offset: 100, Size: 10},
		{Offset: 110, Size: 20},
		{Offset: 130, Size: 5},
	}}

	require.NoError(t, table.UpdateSizes([]uint32{50, 60, 70}))
	assert.Equal(t, uint32(100), table.Slots[0].Offset)
	assert.Equal(t, uint32(50), table.Slots[0].Size)
	assert.Equal(t, uint32(150), table.Slots[1].Offset)
	assert.Equal(t, uint32(60), table.Slots[1].Size)
	assert.Equal(t, uint32(210), table.Slots[2].Offset)
	assert.Equal(t, uint32(70), table.Slots[2].Size)
}

func TestBankSlotTableUpdateSizesLengthMismatch(t *testing.T) {
	table := &BankSlotTable{Slots: []Slot{{Offset: 0, Size: 1}}}
	err := table.UpdateSizes([]uint32{1, 2})
	require.Error(t, err)
}
