/*
NAME
  iqfile.go

DESCRIPTION
  iqfile.go reads and writes the lrptiq container format: a magic, a
  version byte, big-endian metadata, and a run of portably-serialised
  complex samples.

LICENSE
  See LICENSE.
*/

package ioformat

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/dvdesolve/liblrpt/dsp"
	"github.com/dvdesolve/liblrpt/lrpterr"
)

// iqMagic is the ASCII magic at the head of every lrptiq file.
const iqMagic = "lrptiq"

// iqVersion is the only format version this package writes and the only
// one it accepts on read.
const iqVersion = 1

// IQHeader carries the lrptiq file's fixed-size metadata fields.
type IQHeader struct {
	SampleRate uint32
	DeviceName string
	Samples    uint64
}

// WriteIQFile writes header followed by seq's samples to w, each sample
// encoded as two portable doubles (I then Q).
func WriteIQFile(w io.Writer, header IQHeader, seq *dsp.Sequence) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(iqMagic); err != nil {
		return err
	}
	if err := bw.WriteByte(iqVersion); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.BigEndian, header.SampleRate); err != nil {
		return err
	}
	if len(header.DeviceName) > 255 {
		return lrpterr.New(lrpterr.InvalidParam, "iqfile: device name too long")
	}
	if err := bw.WriteByte(byte(len(header.DeviceName))); err != nil {
		return err
	}
	if _, err := bw.WriteString(header.DeviceName); err != nil {
		return err
	}
	n := uint64(seq.Len())
	if err := binary.Write(bw, binary.BigEndian, n); err != nil {
		return err
	}

	var buf [encodedDoubleSize]byte
	for i := 0; i < seq.Len(); i++ {
		s := seq.At(i)
		if err := EncodeDouble(real(s), buf[:]); err != nil {
			return err
		}
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
		if err := EncodeDouble(imag(s), buf[:]); err != nil {
			return err
		}
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// ReadIQFile reads an lrptiq file from r, returning its header and a
// Sequence of its samples.
func ReadIQFile(r io.Reader) (IQHeader, *dsp.Sequence, error) {
	br := bufio.NewReader(r)

	magic := make([]byte, len(iqMagic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return IQHeader{}, nil, err
	}
	if string(magic) != iqMagic {
		return IQHeader{}, nil, lrpterr.New(lrpterr.Unsupported, "iqfile: bad magic")
	}

	version, err := br.ReadByte()
	if err != nil {
		return IQHeader{}, nil, err
	}
	if version != iqVersion {
		return IQHeader{}, nil, lrpterr.New(lrpterr.Unsupported, "iqfile: unsupported version")
	}

	var header IQHeader
	if err := binary.Read(br, binary.BigEndian, &header.SampleRate); err != nil {
		return IQHeader{}, nil, err
	}
	nameLen, err := br.ReadByte()
	if err != nil {
		return IQHeader{}, nil, err
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(br, name); err != nil {
		return IQHeader{}, nil, err
	}
	header.DeviceName = string(name)
	if err := binary.Read(br, binary.BigEndian, &header.Samples); err != nil {
		return IQHeader{}, nil, err
	}

	seq := dsp.NewSequence(int(header.Samples))
	buf := make([]byte, encodedDoubleSize)
	for i := uint64(0); i < header.Samples; i++ {
		if _, err := io.ReadFull(br, buf); err != nil {
			return IQHeader{}, nil, err
		}
		re, err := DecodeDouble(buf)
		if err != nil {
			return IQHeader{}, nil, err
		}
		if _, err := io.ReadFull(br, buf); err != nil {
			return IQHeader{}, nil, err
		}
		im, err := DecodeDouble(buf)
		if err != nil {
			return IQHeader{}, nil, err
		}
		seq.Set(int(i), complex(re, im))
	}

	return header, seq, nil
}
