// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package saamt

import (
	"fmt"
	"os"
)

// importVag reads a .vag file and writes its re-embeddable raw bytes
// (opaque sub-header + chunks, without the 32-byte file header and
// 16-byte name field) to w.
func importVag(path string, w *sizeWriter) (sampleRate uint16, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, newError(KindMissingFile, "importVag", err)
	}
	defer f.Close()

	v, err := ReadVag(f)
	if err != nil {
		return 0, err
	}
	if _, err := w.Write(v.RawBytes()); err != nil {
		return 0, newError(KindIO, "importVag", err)
	}
	return uint16(v.SampleRate), nil
}

// importPs2Wav encodes a mono WAV file to VAG ADPCM and writes its
// re-embeddable raw bytes to w.
func importPs2Wav(path string, index int, w *sizeWriter) (sampleRate uint16, err error) {
	v, err := EncodeVagFromWavFile(path, LoopFromInput, ps2SoundName(index))
	if err != nil {
		return 0, err
	}
	if _, err := w.Write(v.RawBytes()); err != nil {
		return 0, newError(KindIO, "importPs2Wav", err)
	}
	return uint16(v.SampleRate), nil
}

// ps2SoundName builds the 16-byte name field used for sounds synthesized
// during import; only the first 9 bytes are populated, the rest remain
// zero, matching the original tool's create_vag_audio helper.
func ps2SoundName(index int) [16]byte {
	var name [16]byte
	s := fmt.Sprintf("sound_%03d", index)
	copy(name[:9], s)
	return name
}

// vagFromRaw parses a raw PS2 sound's bytes (opaque sub-header + chunks)
// into a Vag at the entry's sample rate.
func vagFromRaw(sound *RawSound, name [16]byte) (*Vag, error) {
	return NewVag(uint32(sound.SampleRate), name, sound.Bytes)
}

// exportPs2Vag writes a raw PS2 sound out as a standalone .vag file.
func exportPs2Vag(sound *RawSound, outPath string) error {
	v, err := vagFromRaw(sound, ps2SoundName(sound.Index))
	if err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return newError(KindIO, "exportPs2Vag", err)
	}
	defer f.Close()
	if _, err := v.WriteTo(f); err != nil {
		return err
	}
	return nil
}

// exportPs2Wav decodes a raw PS2 sound to PCM and writes it as a WAV file.
func exportPs2Wav(sound *RawSound, outPath string) error {
	v, err := vagFromRaw(sound, ps2SoundName(sound.Index))
	if err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return newError(KindIO, "exportPs2Wav", err)
	}
	defer f.Close()
	if err := WriteWav(f, v.ToWav()); err != nil {
		return err
	}
	return nil
}
