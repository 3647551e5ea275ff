// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package saamt

// vagLutDecoder holds the ADPCM prediction coefficients indexed by
// PackInfo.Predictor(), [k1, k2] applied as hist1*k1 + hist2*k2.
var vagLutDecoder = [5][2]float64{
	{0, 0},
	{60.0 / 64, 0},
	{115.0 / 64, -52.0 / 64},
	{98.0 / 64, -55.0 / 64},
	{122.0 / 64, -60.0 / 64},
}

// VagDecoder decodes a Vag's chunks into PCM samples one 28-sample
// block at a time, stopping at the first VAGPlaybackEnd chunk.
type VagDecoder struct {
	vag   *Vag
	idx   int
	hist1 float64
	hist2 float64
	done  bool
}

// NewVagDecoder returns a decoder positioned at the first chunk.
func NewVagDecoder(v *Vag) *VagDecoder {
	return &VagDecoder{vag: v}
}

// Next decodes the next chunk's 28 samples, or returns false once a
// VAGPlaybackEnd chunk has been consumed or the chunk list is exhausted.
func (d *VagDecoder) Next() ([28]int16, bool) {
	var out [28]int16
	if d.done || d.idx >= len(d.vag.Chunks) {
		return out, false
	}

	chunk := d.vag.Chunks[d.idx]
	d.idx++
	if chunk.Flags == VAGPlaybackEnd {
		d.done = true
		return out, false
	}

	predict := chunk.PackInfo.Predictor()
	shift := chunk.PackInfo.ShiftFactor()
	coeffs := vagLutDecoder[predict]

	for i := 0; i < 14; i++ {
		low := int32(chunk.Sample[i] & 0x0F)
		high := int32(chunk.Sample[i] >> 4)

		out[i*2] = decodeNibble(low, shift, coeffs, &d.hist1, &d.hist2)
		out[i*2+1] = decodeNibble(high, shift, coeffs, &d.hist1, &d.hist2)
	}

	if chunk.Flags == VAGLoopEnd {
		// terminal block of a looped region; it is decoded like any
		// other block and decoding continues past it.
	}
	return out, true
}

func decodeNibble(nibble int32, shift int8, coeffs [2]float64, hist1, hist2 *float64) int16 {
	sample := nibble << 12
	if sample&0x8000 != 0 {
		sample = int32(uint32(sample) | 0xFFFF0000)
	}

	predicted := float64(sample>>shift) + *hist1*coeffs[0] + *hist2*coeffs[1]
	*hist2 = *hist1
	*hist1 = predicted

	if predicted > 32767 {
		predicted = 32767
	} else if predicted < -32768 {
		predicted = -32768
	}
	return int16(predicted)
}

// Decode runs the decoder to completion and returns all samples.
func (d *VagDecoder) Decode() []int16 {
	var samples []int16
	for {
		block, ok := d.Next()
		if !ok {
			break
		}
		samples = append(samples, block[:]...)
	}
	return samples
}

// ToWav decodes v fully into a mono Wav at v's sample rate.
func (v *Vag) ToWav() *Wav {
	channels := v.Channels
	if channels == 0 {
		channels = 1
	}
	return &Wav{
		SampleRate: v.SampleRate,
		Channels:   channels,
		Samples:    NewVagDecoder(v).Decode(),
	}
}
