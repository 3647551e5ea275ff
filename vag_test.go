// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package saamt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackInfoAccessors(t *testing.T) {
	p := PackInfo(0).WithPredictor(3).WithShiftFactor(5)
	assert.EqualValues(t, 3, p.Predictor())
	assert.EqualValues(t, 5, p.ShiftFactor())

	p = p.WithShiftFactor(9)
	assert.EqualValues(t, 3, p.Predictor())
	assert.EqualValues(t, 9, p.ShiftFactor())
}

func TestPackInfoPredictorClamp(t *testing.T) {
	p := PackInfo(0xF0) // predictor nibble = 15, out of the 0..4 LUT range
	assert.EqualValues(t, 4, p.Predictor())
}

func TestVAGFlagString(t *testing.T) {
	assert.Equal(t, "loop-start", VAGLoopStart.String())
	assert.Equal(t, "playback-end", VAGPlaybackEnd.String())
}

func TestVagRawBytesRoundTrip(t *testing.T) {
	chunks := []VagChunk{
		{PackInfo: PackInfo(0).WithPredictor(1).WithShiftFactor(2), Flags: VAGNothing, Sample: [14]byte{1, 2, 3}},
		{PackInfo: PackInfo(0), Flags: VAGPlaybackEnd},
	}
	var name [16]byte
	copy(name[:], "sound_000")
	v := NewVagFromChunks(22050, name, chunks)

	raw := v.RawBytes()
	reconstructed, err := NewVag(22050, name, raw)
	assert.NoError(t, err)
	assert.Equal(t, v.Chunks, reconstructed.Chunks)
}
