/*
NAME
  apid_test.go

DESCRIPTION
  apid_test.go tests ParsePacket's header decode and Router's dispatch of
  imaging versus metadata APIDs.

LICENSE
  See LICENSE.
*/

package frame

import (
	"encoding/binary"
	"testing"
)

func makePacketRaw(apid, sequence int, payload []byte) []byte {
	raw := make([]byte, packetLengthHeaderSize+len(payload))
	binary.BigEndian.PutUint16(raw[0:2], uint16(apid&0x7FF))
	binary.BigEndian.PutUint16(raw[2:4], uint16(sequence&0x3FFF))
	binary.BigEndian.PutUint16(raw[4:6], uint16(len(payload)-1))
	copy(raw[packetLengthHeaderSize:], payload)
	return raw
}

func TestParsePacket(t *testing.T) {
	raw := makePacketRaw(66, 1234, []byte("imaging data"))
	p := ParsePacket(raw)

	if p.APID != 66 {
		t.Errorf("APID = %d, want 66", p.APID)
	}
	if p.Sequence != 1234 {
		t.Errorf("Sequence = %d, want 1234", p.Sequence)
	}
	if string(p.Payload) != "imaging data" {
		t.Errorf("Payload = %q, want %q", p.Payload, "imaging data")
	}
	if !p.IsImaging() {
		t.Error("APID 66 should be imaging")
	}
}

func TestPacketIsImagingBounds(t *testing.T) {
	cases := []struct {
		apid   int
		expect bool
	}{
		{APIDImagingFirst - 1, false},
		{APIDImagingFirst, true},
		{APIDImagingLast, true},
		{APIDImagingLast + 1, false},
		{APIDMetadata, false},
	}
	for _, c := range cases {
		p := Packet{APID: c.apid}
		if p.IsImaging() != c.expect {
			t.Errorf("APID %d: IsImaging() = %v, want %v", c.apid, p.IsImaging(), c.expect)
		}
	}
}

func TestRouterDispatch(t *testing.T) {
	r := NewRouter()

	imgPayload := append([]byte("jpegdata"), jpegEOI...)
	r.Route(ParsePacket(makePacketRaw(APIDImagingFirst, 1, imgPayload)))
	r.Route(ParsePacket(makePacketRaw(APIDMetadata, 2, []byte("meta1"))))
	r.Route(ParsePacket(makePacketRaw(APIDMetadata, 3, []byte("meta2"))))

	ch := r.Channel(APIDImagingFirst)
	if ch == nil {
		t.Fatal("Channel should be created for a routed imaging APID")
	}
	if len(ch.Images) != 1 {
		t.Fatalf("len(Images) = %d, want 1", len(ch.Images))
	}

	meta := r.Metadata()
	if len(meta) != 2 || string(meta[0]) != "meta1" || string(meta[1]) != "meta2" {
		t.Errorf("Metadata() = %q", meta)
	}

	if r.Channel(APIDImagingFirst+1) != nil {
		t.Error("Channel should be nil for an APID with no routed packets")
	}
}
