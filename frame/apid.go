/*
NAME
  apid.go

DESCRIPTION
  apid.go routes reassembled CCSDS space packets to per-channel handlers
  keyed by application process identifier: 64-69 carry imaging data, 70
  carries metadata.

LICENSE
  See LICENSE.
*/

package frame

import "encoding/binary"

// APID values used on the LRPT downlink.
const (
	APIDImagingFirst = 64
	APIDImagingLast  = 69
	APIDMetadata     = 70
)

// Packet is one reassembled CCSDS space packet, header included.
type Packet struct {
	APID     int
	Sequence int
	Payload  []byte // packet data field, primary header stripped
}

// ParsePacket splits raw's primary header from its payload, per CCSDS
// 133.0-B-2: a 6-byte primary header, APID in the low 11 bits of the
// first two bytes, sequence count in the low 14 bits of bytes 2:4.
func ParsePacket(raw []byte) Packet {
	word0 := binary.BigEndian.Uint16(raw[0:2])
	word1 := binary.BigEndian.Uint16(raw[2:4])
	return Packet{
		APID:     int(word0 & 0x7FF),
		Sequence: int(word1 & 0x3FFF),
		Payload:  raw[packetLengthHeaderSize:],
	}
}

// IsImaging reports whether p carries imaging data destined for an MCU
// accumulator rather than housekeeping metadata.
func (p Packet) IsImaging() bool {
	return p.APID >= APIDImagingFirst && p.APID <= APIDImagingLast
}

// Router dispatches reassembled packets to per-APID MCU accumulators.
type Router struct {
	channels map[int]*MCUAccumulator
	meta     [][]byte
}

// NewRouter returns a Router with no channels registered; channels are
// created lazily on first packet.
func NewRouter() *Router {
	return &Router{channels: make(map[int]*MCUAccumulator)}
}

// Route dispatches one parsed packet: imaging APIDs accumulate into that
// channel's MCUAccumulator, APIDMetadata payloads are kept verbatim.
func (r *Router) Route(p Packet) {
	if p.IsImaging() {
		ch, ok := r.channels[p.APID]
		if !ok {
			ch = NewMCUAccumulator()
			r.channels[p.APID] = ch
		}
		ch.Feed(p.Payload)
		return
	}
	if p.APID == APIDMetadata {
		r.meta = append(r.meta, p.Payload)
	}
}

// Channel returns the imaging accumulator for apid, or nil if no packet
// for that APID has been routed yet.
func (r *Router) Channel(apid int) *MCUAccumulator {
	return r.channels[apid]
}

// Metadata returns the raw metadata payloads routed so far, in arrival
// order.
func (r *Router) Metadata() [][]byte {
	return r.meta
}
