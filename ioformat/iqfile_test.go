/*
NAME
  iqfile_test.go

DESCRIPTION
  iqfile_test.go tests that WriteIQFile/ReadIQFile round-trip a header
  and sample sequence.

LICENSE
  See LICENSE.
*/

package ioformat

import (
	"bytes"
	"testing"

	"github.com/dvdesolve/liblrpt/dsp"
)

func TestIQFileRoundTrip(t *testing.T) {
	header := IQHeader{SampleRate: 38400, DeviceName: "rtlsdr0"}
	seq := dsp.FromComplex([]dsp.Sample{1 + 2i, -3.5 + 4.25i, 0, -1 - 1i})

	var buf bytes.Buffer
	if err := WriteIQFile(&buf, header, seq); err != nil {
		t.Fatal(err)
	}

	gotHeader, gotSeq, err := ReadIQFile(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if gotHeader.SampleRate != header.SampleRate || gotHeader.DeviceName != header.DeviceName {
		t.Errorf("header = %+v, want %+v", gotHeader, header)
	}
	if gotSeq.Len() != seq.Len() {
		t.Fatalf("Len() = %d, want %d", gotSeq.Len(), seq.Len())
	}
	for i := 0; i < seq.Len(); i++ {
		if gotSeq.At(i) != seq.At(i) {
			t.Errorf("sample %d = %v, want %v", i, gotSeq.At(i), seq.At(i))
		}
	}
}

func TestReadIQFileRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("notlrpt!garbage")
	if _, _, err := ReadIQFile(buf); err == nil {
		t.Error("ReadIQFile should reject a bad magic")
	}
}
