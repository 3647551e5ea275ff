// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package saamt

import "os"

// importRaw reads path verbatim and writes it to the payload writer;
// the caller takes SoundEntry.Size from the writer's Len.
func importRaw(path string, w *sizeWriter) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newError(KindMissingFile, "importRaw", err)
	}
	_, err = w.Write(data)
	return err
}

// exportRaw writes a raw sound's bytes verbatim to outPath.
func exportRaw(sound *RawSound, outPath string) error {
	if err := os.WriteFile(outPath, sound.Bytes, 0o644); err != nil {
		return newError(KindIO, "exportRaw", err)
	}
	return nil
}
