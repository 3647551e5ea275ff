// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package saamt

import (
	"os"
)

// vagSampleNibble is the number of PCM samples packed into one VagChunk.
const vagSampleNibble = 28

// vagLutEncoder is vagLutDecoder negated, the coefficients used while
// searching for the predictor that minimizes quantization error.
var vagLutEncoder = [5][2]float64{
	{0, 0},
	{-60.0 / 64, 0},
	{-115.0 / 64, 52.0 / 64},
	{-98.0 / 64, 55.0 / 64},
	{-122.0 / 64, 60.0 / 64},
}

// LoopMode selects how EncodeVagFromWavFile decides whether the encoded
// VAG loops.
type LoopMode int

const (
	// LoopFromInput uses the source WAV's smpl chunk, if present.
	LoopFromInput LoopMode = iota
	// LoopForce always encodes a loop, defaulting to the full sample
	// range when the source has no smpl chunk.
	LoopForce
	// LoopForceNone never encodes a loop, even if the source has one.
	LoopForceNone
)

// EncodeVagFromWavFile reads a mono 16-bit WAV file and encodes it to
// VAG ADPCM, matching the original tool's encoder.
func EncodeVagFromWavFile(path string, mode LoopMode, name [16]byte) (*Vag, error) {
	loopStart, loopEnd, hasLoop, err := scanLoopPoints(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, newError(KindMissingFile, "EncodeVagFromWavFile", err)
	}
	defer f.Close()

	wv, err := ReadWav(f)
	if err != nil {
		return nil, err
	}
	if wv.Channels != 1 {
		return nil, newError(KindInvalidWav, "EncodeVagFromWavFile", nil)
	}

	samples := padToMultiple(wv.Samples, vagSampleNibble)

	useLoop := hasLoop
	switch mode {
	case LoopForce:
		useLoop = true
	case LoopForceNone:
		useLoop = false
	}
	if useLoop && !hasLoop {
		loopStart, loopEnd = 0, uint32(^uint32(0))
	}

	chunks := encodeSamples(samples, useLoop, int(loopStart), int(loopEnd))
	return NewVagFromChunks(wv.SampleRate, name, chunks), nil
}

// scanLoopPoints opens path a second time to walk its RIFF sub-chunks
// looking for an smpl chunk, independent of the PCM-data decode pass.
func scanLoopPoints(path string) (start, end uint32, ok bool, err error) {
	f, openErr := os.Open(path)
	if openErr != nil {
		return 0, 0, false, newError(KindMissingFile, "scanLoopPoints", openErr)
	}
	defer f.Close()

	s, e, found, err := ReadLoopPoints(f)
	if err != nil {
		return 0, 0, false, err
	}
	if !found {
		return 0, 0, false, nil
	}
	return vagLoopOffset(s) - 1, vagLoopOffset(e) - 2, true, nil
}

// vagLoopOffset converts a sample index into the chunk-relative offset
// used by the loop-start/loop-end fields, matching the original's
// get_loop_offset: x/28 + (2 if x%28 != 0 else 1), then the caller
// subtracts 1 from start and 2 from end.
func vagLoopOffset(x uint32) uint32 {
	extra := uint32(1)
	if x%vagSampleNibble != 0 {
		extra = 2
	}
	return x/vagSampleNibble + extra
}

func padToMultiple(samples []int16, n int) []int16 {
	rem := len(samples) % n
	if rem == 0 {
		return samples
	}
	return append(append([]int16(nil), samples...), make([]int16, n-rem)...)
}

// encodeSamples splits samples into vagSampleNibble-sized windows and
// encodes each to a VagChunk, finishing with a terminal PlaybackEnd
// chunk. loopStart/loopEnd are chunk indices (post vagLoopOffset, with
// the -1/-2 adjustment already applied by scanLoopPoints).
//
// Two independent (s1,s2) histories run across the whole sample stream:
// selectHist1/selectHist2 drive the per-window predictor search and are
// fed from the clamped input samples, while packHist1/packHist2 drive
// nibble-packing of the chosen predictor's filtered output. They are
// never mixed, matching the encoder's deliberate double-filter design.
func encodeSamples(samples []int16, useLoop bool, loopStartIdx, loopEndIdx int) []VagChunk {
	var chunks []VagChunk
	var selectHist1, selectHist2 float64
	var packHist1, packHist2 float64

	total := len(samples) / vagSampleNibble
	for i := 0; i < total; i++ {
		window := samples[i*vagSampleNibble : (i+1)*vagSampleNibble]
		predict, shift, filtered, s1, s2 := chooseEncoderParams(window, selectHist1, selectHist2)
		selectHist1, selectHist2 = s1, s2

		var out [28]int32
		packed := [14]byte{}
		h1, h2 := packHist1, packHist2
		coeffs := vagLutEncoder[predict]

		for n, d := range filtered {
			sTrans := d + h1*coeffs[0] + h2*coeffs[1]
			scaled := int32(sTrans * float64(int32(1)<<uint(shift)))

			clamped := int32((uint32(scaled) + 0x800) & 0xFFFFF000)
			if clamped > 32767 {
				clamped = 32767
			} else if clamped < -32768 {
				clamped = -32768
			}
			out[n] = clamped

			quantized := clamped >> uint(shift)
			h2 = h1
			h1 = float64(quantized) - sTrans
		}
		packHist1, packHist2 = h1, h2

		for n := 0; n < 14; n++ {
			packed[n] = byte(((out[2*n+1]>>8)&0xF0) | ((out[2*n]>>12)&0x0F))
		}

		flags := vagFlagsFor(i, total, useLoop, loopStartIdx, loopEndIdx)
		chunks = append(chunks, VagChunk{
			PackInfo: PackInfo(0).WithPredictor(predict).WithShiftFactor(shift),
			Flags:    flags,
			Sample:   packed,
		})
		if flags == VAGLoopEnd && useLoop && i == loopEndIdx {
			break
		}
	}

	lastPack := PackInfo(0)
	if len(chunks) > 0 {
		lastPack = chunks[len(chunks)-1].PackInfo
	}
	chunks = append(chunks, VagChunk{PackInfo: lastPack, Flags: VAGPlaybackEnd})
	return chunks
}

func vagFlagsFor(idx, total int, useLoop bool, loopStart, loopEnd int) VAGFlag {
	remaining := total - idx - 1
	var flag VAGFlag
	if remaining > 0 {
		flag = VAGNothing
		if useLoop {
			flag = VAGLoopRegion
			if idx == loopStart {
				flag = VAGLoopStart
			}
			if idx == loopEnd {
				flag = VAGLoopEnd
			}
		}
	} else {
		flag = VAGLoopLastBlock
		if useLoop {
			flag = VAGLoopEnd
		}
	}
	return flag
}

// clampSample narrows a raw PCM sample to [-30720, 30719], leaving
// headroom for the filter's ±(60-122)/64 weighted history terms before
// they're quantized and clamped a second time to the int16 range.
func clampSample(sample int16) float64 {
	v := int32(sample)
	switch {
	case v > 30719:
		return 30719
	case v < -30720:
		return -30720
	default:
		return float64(v)
	}
}

// chooseEncoderParams tries each of the 5 predictors against window
// (using the running selection history from the previous window) to
// find the one minimizing the peak filtered magnitude, re-filters
// window with that winning predictor to get its d[n] values and the
// updated (s1,s2) selection history, then derives the smallest shift
// factor that keeps the quantized range in bounds. The caller persists
// (s1,s2) across chunks independent of the nibble-packing history.
func chooseEncoderParams(window []int16, hist1, hist2 float64) (predict, shift int8, filtered [28]float64, s1, s2 float64) {
	bestPredict := int8(0)
	bestMax := int32(0)
	first := true

	for p := 0; p < 5; p++ {
		coeffs := vagLutEncoder[p]
		ps1, ps2 := hist1, hist2
		var max int32
		for _, sample := range window {
			clamped := clampSample(sample)
			d := clamped + ps1*coeffs[0] + ps2*coeffs[1]
			ps2 = ps1
			ps1 = clamped

			v := int32(d)
			if v < 0 {
				v = -v
			}
			if v > max {
				max = v
			}
		}
		if first || max < bestMax {
			bestMax = max
			bestPredict = int8(p)
			first = false
		}
		if bestMax <= 7 {
			bestPredict = 0
			break
		}
	}

	coeffs := vagLutEncoder[bestPredict]
	s1, s2 = hist1, hist2
	for n, sample := range window {
		clamped := clampSample(sample)
		d := clamped + s1*coeffs[0] + s2*coeffs[1]
		s2 = s1
		s1 = clamped
		filtered[n] = d
	}

	shiftMask := int32(0x4000)
	shiftFactor := int8(0)
	for i := 0; i < 12; i++ {
		if shiftMask&(bestMax+(shiftMask>>3)) != 0 {
			break
		}
		shiftFactor++
		shiftMask >>= 1
	}
	return bestPredict, shiftFactor, filtered, s1, s2
}
