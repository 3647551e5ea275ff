// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package saamt

import (
	"encoding/binary"
	"io"
)

// slotTailCount is the fixed number of reserved int32 triples that
// follow every slot's header fields on disk.
const slotTailCount = 400

// slotSize is the on-disk size of a single Slot record: offset(4) +
// size(4) + unknown(12) + 400*12 tail = 4,820 bytes. spec.md's prose
// figure of 4,824 does not match its own byte breakdown or the
// original Slot layout; 4,820 is used throughout (see DESIGN.md).
const slotSize = 4 + 4 + 12 + slotTailCount*12

// Slot describes one archive's placement within BankSlot.dat/TrakSlot.dat.
// Unknown and Tail preserve bytes the format defines but this toolkit
// does not interpret; they round-trip unchanged.
type Slot struct {
	Offset  uint32
	Size    uint32
	Unknown [3]int32
	Tail    [slotTailCount][3]int32
}

// BankSlotTable is the length-prefixed list of Slot records found in
// BankSlot.dat / TrakSlot.dat.
type BankSlotTable struct {
	Slots []Slot
}

// ReadBankSlotTable reads a uint16 slot count followed by that many
// Slot records.
func ReadBankSlotTable(r io.Reader) (*BankSlotTable, error) {
	var countBuf [2]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, newError(KindIO, "ReadBankSlotTable", err)
	}
	count := binary.LittleEndian.Uint16(countBuf[:])

	slots := make([]Slot, count)
	buf := make([]byte, slotSize)
	for i := range slots {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, newError(KindBinaryFormat, "ReadBankSlotTable", err)
		}
		slots[i] = decodeSlot(buf)
	}
	return &BankSlotTable{Slots: slots}, nil
}

func decodeSlot(buf []byte) Slot {
	var s Slot
	s.Offset = binary.LittleEndian.Uint32(buf[0:4])
	s.Size = binary.LittleEndian.Uint32(buf[4:8])
	for i := 0; i < 3; i++ {
		s.Unknown[i] = int32(binary.LittleEndian.Uint32(buf[8+i*4 : 12+i*4]))
	}
	off := 20
	for i := 0; i < slotTailCount; i++ {
		for j := 0; j < 3; j++ {
			s.Tail[i][j] = int32(binary.LittleEndian.Uint32(buf[off : off+4]))
			off += 4
		}
	}
	return s
}

func encodeSlot(s Slot) []byte {
	buf := make([]byte, slotSize)
	binary.LittleEndian.PutUint32(buf[0:4], s.Offset)
	binary.LittleEndian.PutUint32(buf[4:8], s.Size)
	for i := 0; i < 3; i++ {
		binary.LittleEndian.PutUint32(buf[8+i*4:12+i*4], uint32(s.Unknown[i]))
	}
	off := 20
	for i := 0; i < slotTailCount; i++ {
		for j := 0; j < 3; j++ {
			binary.LittleEndian.PutUint32(buf[off:off+4], uint32(s.Tail[i][j]))
			off += 4
		}
	}
	return buf
}

// WriteTo serializes the table back to its on-disk layout.
func (t *BankSlotTable) WriteTo(w io.Writer) (int64, error) {
	var countBuf [2]byte
	binary.LittleEndian.PutUint16(countBuf[:], uint16(len(t.Slots)))
	n, err := w.Write(countBuf[:])
	written := int64(n)
	if err != nil {
		return written, newError(KindIO, "BankSlotTable.WriteTo", err)
	}
	for _, s := range t.Slots {
		n, err := w.Write(encodeSlot(s))
		written += int64(n)
		if err != nil {
			return written, newError(KindIO, "BankSlotTable.WriteTo", err)
		}
	}
	return written, nil
}

// ExportSizes returns each slot's Size field in table order.
func (t *BankSlotTable) ExportSizes() []uint32 {
	sizes := make([]uint32, len(t.Slots))
	for i, s := range t.Slots {
		sizes[i] = s.Size
	}
	return sizes
}

// UpdateSizes rewrites every slot's Offset/Size from sizes, packing
// slots contiguously starting at the first slot's original offset.
// len(sizes) must equal len(t.Slots).
func (t *BankSlotTable) UpdateSizes(sizes []uint32) error {
	if len(sizes) != len(t.Slots) {
		return newError(KindBinaryFormat, "BankSlotTable.UpdateSizes", nil)
	}
	if len(t.Slots) == 0 {
		return nil
	}
	offset := t.Slots[0].Offset
	for i, size := range sizes {
		t.Slots[i].Size = size
		t.Slots[i].Offset = offset
		offset += size
	}
	return nil
}
