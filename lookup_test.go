// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package saamt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupTableRoundTrip(t *testing.T) {
	table := &LookupTable{Entries: []LookupEntry{
		{PakIndex: 0, Offset: 0, Length: 100},
		{PakIndex: 1, Offset: 100, Length: 50},
		{PakIndex: 0, Offset: 150, Length: 75},
	}}

	var buf bytes.Buffer
	_, err := table.WriteTo(&buf)
	require.NoError(t, err)

	parsed, err := ReadLookupTable(&buf)
	require.NoError(t, err)
	assert.Equal(t, table.Entries, parsed.Entries)
}

func TestLookupTableCountAndMatch(t *testing.T) {
	table := &LookupTable{Entries: []LookupEntry{
		{PakIndex: 0, Offset: 0, Length: 10},
		{PakIndex: 1, Offset: 10, Length: 10},
		{PakIndex: 0, Offset: 20, Length: 10},
	}}

	assert.Equal(t, 2, table.CountMatching(0))
	assert.Equal(t, 1, table.CountMatching(1))
	assert.Equal(t, 0, table.CountMatching(5))

	matches := table.MatchingEntries(0)
	require.Len(t, matches, 2)
	assert.Equal(t, 0, matches[0].OriginalIndex)
	assert.Equal(t, 2, matches[1].OriginalIndex)
}

func TestLookupTableGetOutOfRange(t *testing.T) {
	table := &LookupTable{}
	_, ok := table.Get(0)
	assert.False(t, ok)
}
