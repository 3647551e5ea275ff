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

func TestWavRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.wav")

	wv := &Wav{SampleRate: 44100, Channels: 1, Samples: []int16{1, 2, 3, -1, -2, -3}}

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteWav(f, wv))
	require.NoError(t, f.Close())

	rf, err := os.Open(path)
	require.NoError(t, err)
	defer rf.Close()

	parsed, err := ReadWav(rf)
	require.NoError(t, err)
	assert.EqualValues(t, 44100, parsed.SampleRate)
	assert.Equal(t, wv.Samples, parsed.Samples)
}

func TestReadWavAcceptsStereo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stereo.wav")

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteWav(f, &Wav{SampleRate: 22050, Channels: 2, Samples: []int16{1, 2, 3, 4}}))
	require.NoError(t, f.Close())

	rf, err := os.Open(path)
	require.NoError(t, err)
	defer rf.Close()

	wv, err := ReadWav(rf)
	require.NoError(t, err)
	assert.EqualValues(t, 2, wv.Channels)
}

func TestEncodeVagFromWavFileRejectsStereo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stereo.wav")

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteWav(f, &Wav{SampleRate: 22050, Channels: 2, Samples: []int16{1, 2, 3, 4}}))
	require.NoError(t, f.Close())

	var name [16]byte
	_, err = EncodeVagFromWavFile(path, LoopForceNone, name)
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindInvalidWav, kind)
}

func TestReadLoopPointsNoSmplChunk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.wav")

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteWav(f, &Wav{SampleRate: 22050, Channels: 1, Samples: []int16{1, 2, 3, 4}}))
	require.NoError(t, f.Close())

	rf, err := os.Open(path)
	require.NoError(t, err)
	defer rf.Close()

	_, _, ok, err := ReadLoopPoints(rf)
	require.NoError(t, err)
	assert.False(t, ok)
}
