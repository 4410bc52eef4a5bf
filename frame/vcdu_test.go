/*
NAME
  vcdu_test.go

DESCRIPTION
  vcdu_test.go tests ParseVCDU's header decoding and MPDUReassembler's
  packet reassembly, including the counter-gap discard and the
  first-header-pointer continuation/new-packet split.

LICENSE
  See LICENSE.
*/

package frame

import (
	"encoding/binary"
	"testing"
)

func makeVCDURaw(vcid uint8, counter uint32, mpduHeader uint16, payload []byte) []byte {
	raw := make([]byte, VCDUSize)
	word := uint16(1)<<14 | uint16(200)<<6 | uint16(vcid&0x3F)
	binary.BigEndian.PutUint16(raw[0:2], word)
	raw[2] = byte(counter >> 16)
	raw[3] = byte(counter >> 8)
	raw[4] = byte(counter)
	binary.BigEndian.PutUint16(raw[6:8], mpduHeader)
	copy(raw[8:], payload)
	return raw
}

func TestParseVCDUHeader(t *testing.T) {
	raw := makeVCDURaw(5, 0x010203, 0, nil)
	v, err := ParseVCDU(raw)
	if err != nil {
		t.Fatal(err)
	}
	if v.VersionID != 1 || v.SpacecraftID != 200 || v.VirtualChannelID != 5 {
		t.Errorf("header fields = %+v", v)
	}
	if v.Counter != 0x010203 {
		t.Errorf("Counter = %x, want 0x010203", v.Counter)
	}
	if len(v.Data) != VCDUSize-VCDUHeaderSize {
		t.Errorf("len(Data) = %d, want %d", len(v.Data), VCDUSize-VCDUHeaderSize)
	}
}

func TestParseVCDURejectsWrongSize(t *testing.T) {
	if _, err := ParseVCDU(make([]byte, 10)); err == nil {
		t.Error("ParseVCDU should reject a frame that isn't VCDUSize bytes")
	}
}

// packetBytes builds a minimal CCSDS space packet: a 6-byte primary
// header (first 4 bytes arbitrary, bytes 4:6 the big-endian
// packet-data-length-minus-1 field) followed by body.
func packetBytes(body []byte) []byte {
	pkt := make([]byte, packetLengthHeaderSize+len(body))
	binary.BigEndian.PutUint16(pkt[4:6], uint16(len(body)-1))
	copy(pkt[packetLengthHeaderSize:], body)
	return pkt
}

func TestMPDUReassemblerSinglePacket(t *testing.T) {
	body := []byte("hello, lrpt")
	pkt := packetBytes(body)

	mpduPayload := make([]byte, VCDUSize-VCDUHeaderSize-MPDUHeaderSize)
	// The packet ends exactly at the end of the data zone: every byte after
	// a packet is read as the start of the next one, so zero fill there
	// would itself be reassembled into packets.
	ptr := len(mpduPayload) - len(pkt)
	copy(mpduPayload[ptr:], pkt)

	r := NewMPDUReassembler()
	raw := makeVCDURaw(1, 1, uint16(ptr), mpduPayload)
	v, err := ParseVCDU(raw)
	if err != nil {
		t.Fatal(err)
	}
	r.Feed(v)

	if len(r.Packets) != 1 {
		t.Fatalf("len(Packets) = %d, want 1", len(r.Packets))
	}
	if string(r.Packets[0]) != string(pkt) {
		t.Errorf("reassembled packet = %q, want %q", r.Packets[0], pkt)
	}
}

func TestMPDUReassemblerSplitAcrossFrames(t *testing.T) {
	// The packet's first split bytes close out frame 1's data zone and the
	// rest fills frame 2's data zone exactly, so frame 2 carries no new
	// packet header.
	split := 10
	zone := VCDUSize - VCDUHeaderSize - MPDUHeaderSize
	body := make([]byte, split+zone-packetLengthHeaderSize)
	for i := range body {
		body[i] = byte(i)
	}
	pkt := packetBytes(body)

	payload1 := make([]byte, zone)
	ptr := zone - split
	copy(payload1[ptr:], pkt[:split])
	payload2 := make([]byte, zone)
	copy(payload2, pkt[split:])

	r := NewMPDUReassembler()

	v1, err := ParseVCDU(makeVCDURaw(1, 1, uint16(ptr), payload1))
	if err != nil {
		t.Fatal(err)
	}
	r.Feed(v1)
	if len(r.Packets) != 0 {
		t.Fatal("packet should not be complete after the first frame")
	}

	v2, err := ParseVCDU(makeVCDURaw(1, 2, uint16(noHeaderPointer), payload2))
	if err != nil {
		t.Fatal(err)
	}
	r.Feed(v2)

	if len(r.Packets) != 1 {
		t.Fatalf("len(Packets) = %d, want 1", len(r.Packets))
	}
	if string(r.Packets[0]) != string(pkt) {
		t.Errorf("reassembled packet mismatch")
	}
}

func TestMPDUReassemblerDiscardsOnCounterGap(t *testing.T) {
	split := 10
	zone := VCDUSize - VCDUHeaderSize - MPDUHeaderSize
	body := make([]byte, split+zone-packetLengthHeaderSize)
	pkt := packetBytes(body)

	payload1 := make([]byte, zone)
	ptr := zone - split
	copy(payload1[ptr:], pkt[:split])
	payload2 := make([]byte, zone)
	copy(payload2, pkt[split:])

	r := NewMPDUReassembler()

	v1, _ := ParseVCDU(makeVCDURaw(1, 1, uint16(ptr), payload1))
	r.Feed(v1)

	// Skip counter 2: a dropped frame. Counter jumps to 3.
	v2, _ := ParseVCDU(makeVCDURaw(1, 3, uint16(noHeaderPointer), payload2))
	r.Feed(v2)

	if len(r.Packets) != 0 {
		t.Fatalf("len(Packets) = %d, want 0 after a counter gap discards the in-progress packet", len(r.Packets))
	}
}
