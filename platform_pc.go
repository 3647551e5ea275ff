// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package saamt

import (
	"encoding/binary"
	"os"
)

// importPcWav reads a mono WAV file and writes its raw little-endian
// 16-bit samples to w. Returns the sample rate for the caller's
// SoundEntry and true if the source had more than one channel (such a
// source is still imported, with all of its interleaved samples written
// as-is; callers log a warning).
func importPcWav(path string, w *sizeWriter) (sampleRate uint16, notMono bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false, newError(KindMissingFile, "importPcWav", err)
	}
	defer f.Close()

	wv, err := ReadWav(f)
	if err != nil {
		return 0, false, err
	}

	buf := make([]byte, len(wv.Samples)*2)
	for i, s := range wv.Samples {
		binary.LittleEndian.PutUint16(buf[i*2:i*2+2], uint16(s))
	}
	if _, err := w.Write(buf); err != nil {
		return 0, false, newError(KindIO, "importPcWav", err)
	}
	return uint16(wv.SampleRate), wv.Channels != 1, nil
}

// pcWavFromRaw reinterprets a raw sound's bytes as little-endian 16-bit
// mono PCM, the layout PC banks store sounds in.
func pcWavFromRaw(sound *RawSound) *Wav {
	samples := make([]int16, len(sound.Bytes)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(sound.Bytes[i*2 : i*2+2]))
	}
	return &Wav{SampleRate: uint32(sound.SampleRate), Channels: 1, Samples: samples}
}

// exportPcWav decodes a raw PC sound and writes it as a WAV file.
func exportPcWav(sound *RawSound, outPath string) error {
	f, err := os.Create(outPath)
	if err != nil {
		return newError(KindIO, "exportPcWav", err)
	}
	defer f.Close()

	if err := WriteWav(f, pcWavFromRaw(sound)); err != nil {
		return err
	}
	return nil
}
