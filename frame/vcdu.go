/*
NAME
  vcdu.go

DESCRIPTION
  vcdu.go parses CCSDS virtual channel data units and reassembles the
  M_PDU packet stream they carry into variable-length space packets.

LICENSE
  See LICENSE.
*/

// Package frame implements the CCSDS-style frame decoder that sits
// downstream of the DSP core: VCDU parsing and M_PDU reassembly,
// Reed-Solomon error correction, Viterbi decoding of the soft symbol
// stream, CCSDS descrambling, and APID-based packet routing into the
// per-channel MCU accumulators.
package frame

import (
	"encoding/binary"

	"github.com/dvdesolve/liblrpt/lrpterr"
)

// VCDU layout constants for Meteor-M2 LRPT.
const (
	VCDUSize       = 1024
	VCDUHeaderSize = 6
	MPDUHeaderSize = 2
	// noHeaderPointer marks an M_PDU continuation frame carrying no new
	// packet header (the CCSDS "idle/continuation" sentinel).
	noHeaderPointer = 0x7FF // 2047, 11 bits
)

// VCDU is one parsed, descrambled virtual channel data unit.
type VCDU struct {
	VersionID        uint8
	SpacecraftID     uint16
	VirtualChannelID uint8
	Counter          uint32 // 24-bit VCDU counter
	Data             []byte // M_PDU payload, VCDUSize-VCDUHeaderSize bytes
}

// ParseVCDU decodes the fixed 6-byte VCDU header from a descrambled,
// RS-corrected VCDUSize-byte frame.
func ParseVCDU(raw []byte) (*VCDU, error) {
	if len(raw) != VCDUSize {
		return nil, lrpterr.New(lrpterr.InvalidParam, "vcdu: frame must be VCDUSize bytes")
	}

	word := binary.BigEndian.Uint16(raw[0:2])
	v := &VCDU{
		VersionID:        uint8(word >> 14),
		SpacecraftID:     (word >> 6) & 0xFF,
		VirtualChannelID: uint8(word & 0x3F),
		Counter:          uint32(raw[2])<<16 | uint32(raw[3])<<8 | uint32(raw[4]),
		Data:             raw[VCDUHeaderSize:],
	}
	return v, nil
}

// MPDUReassembler accumulates M_PDU payloads across a run of VCDUs
// belonging to the same virtual channel into complete space packets.
//
// Per-VCDU, the first two bytes of Data are the M_PDU header: 5 spare
// bits then an 11-bit first-header pointer giving the byte offset within
// this VCDU's payload where a new packet begins (or noHeaderPointer if
// this VCDU carries no new packet header, i.e. its payload is entirely a
// continuation of the in-progress packet).
type MPDUReassembler struct {
	lastVCDU  uint32
	haveLast  bool
	pending   []byte // bytes of the in-progress packet, header included once known
	pktLen    int    // total length of the in-progress packet once its own header is parsed, 0 if unknown
	Packets   [][]byte
}

// NewMPDUReassembler returns an empty reassembler.
func NewMPDUReassembler() *MPDUReassembler {
	return &MPDUReassembler{}
}

// Feed processes one VCDU's payload, appending any packets it completes
// to r.Packets. A gap in the VCDU counter (a dropped frame) discards the
// in-progress packet, since its continuation bytes are now missing.
//
// The "≥ last_vcdu + 1" continuity check is applied identically whether
// or not this VCDU carries a new-packet header, rather than only on one
// branch.
func (r *MPDUReassembler) Feed(v *VCDU) {
	if r.haveLast && v.Counter < r.lastVCDU+1 {
		return // stale or duplicate frame, ignore
	}
	if r.haveLast && v.Counter > r.lastVCDU+1 {
		r.pending = nil
		r.pktLen = 0
	}
	r.lastVCDU = v.Counter
	r.haveLast = true

	header := binary.BigEndian.Uint16(v.Data[0:MPDUHeaderSize])
	firstHeader := int(header & 0x7FF)
	payload := v.Data[MPDUHeaderSize:]

	if firstHeader == noHeaderPointer {
		r.appendContinuation(payload)
		return
	}

	if firstHeader > 0 {
		r.appendContinuation(payload[:firstHeader])
	}
	r.startNewPacket(payload[firstHeader:])
}

func (r *MPDUReassembler) appendContinuation(b []byte) {
	if r.pktLen == 0 && len(r.pending) == 0 {
		return // no packet in progress, nothing to continue
	}
	r.pending = append(r.pending, b...)
	r.drainComplete()
}

func (r *MPDUReassembler) startNewPacket(b []byte) {
	r.pending = append([]byte{}, b...)
	r.pktLen = 0
	r.drainComplete()
}

// packetLengthHeaderSize is the CCSDS space-packet primary header size:
// enough to read the 16-bit packet-data-length field at offset 4.
const packetLengthHeaderSize = 6

// drainComplete extracts as many complete packets as r.pending now holds.
func (r *MPDUReassembler) drainComplete() {
	for {
		if r.pktLen == 0 {
			if len(r.pending) < packetLengthHeaderSize {
				return
			}
			// CCSDS packet-data-length field is (payload length - 1).
			r.pktLen = packetLengthHeaderSize + int(binary.BigEndian.Uint16(r.pending[4:6])) + 1
		}
		if len(r.pending) < r.pktLen {
			return
		}
		r.Packets = append(r.Packets, r.pending[:r.pktLen])
		r.pending = r.pending[r.pktLen:]
		r.pktLen = 0
	}
}
