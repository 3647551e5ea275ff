// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package saamt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVagLoopOffset(t *testing.T) {
	assert.EqualValues(t, 1, vagLoopOffset(0))
	assert.EqualValues(t, 2, vagLoopOffset(1))
	assert.EqualValues(t, 2, vagLoopOffset(28))
	assert.EqualValues(t, 3, vagLoopOffset(29))
}

func TestPadToMultiple(t *testing.T) {
	samples := make([]int16, 30)
	padded := padToMultiple(samples, 28)
	assert.Len(t, padded, 56)

	exact := make([]int16, 56)
	assert.Len(t, padToMultiple(exact, 28), 56)
}

func TestEncodeVagFromWavFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")

	samples := make([]int16, 280)
	for i := range samples {
		if i%4 < 2 {
			samples[i] = 8000
		} else {
			samples[i] = -8000
		}
	}
	wv := &Wav{SampleRate: 22050, Channels: 1, Samples: samples}

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteWav(f, wv))
	require.NoError(t, f.Close())

	var name [16]byte
	copy(name[:], "sound_000")
	vag, err := EncodeVagFromWavFile(path, LoopForceNone, name)
	require.NoError(t, err)
	assert.EqualValues(t, 22050, vag.SampleRate)

	decoded := NewVagDecoder(vag).Decode()
	assert.NotEmpty(t, decoded)
	assert.LessOrEqual(t, len(samples), len(decoded))
}

func TestVagFlagsForTerminal(t *testing.T) {
	assert.Equal(t, VAGLoopLastBlock, vagFlagsFor(4, 5, false, -1, -1))
	assert.Equal(t, VAGLoopEnd, vagFlagsFor(4, 5, true, -1, -1))
	assert.Equal(t, VAGLoopStart, vagFlagsFor(0, 5, true, 0, 3))
	assert.Equal(t, VAGLoopRegion, vagFlagsFor(1, 5, true, 0, 3))
}
