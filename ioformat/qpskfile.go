/*
NAME
  qpskfile.go

DESCRIPTION
  qpskfile.go reads and writes the lrptqpsk container format: a magic, a
  version byte, a mode-flags byte, big-endian symbol rate and data
  length, then raw symbol bytes (soft or hard packed, per the flags).

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

// qpskMagic is the ASCII magic at the head of every lrptqpsk file.
const qpskMagic = "lrptqpsk"

// qpskVersion is the only format version this package writes and the
// only one it accepts on read.
const qpskVersion = 1

// Flag bits within the lrptqpsk mode-flags byte.
const (
	FlagOffset      = 1 << 0
	FlagDifferential = 1 << 1
	FlagInterleaved  = 1 << 2
	FlagHard         = 1 << 3
)

// QPSKHeader carries the lrptqpsk file's fixed-size metadata fields.
type QPSKHeader struct {
	Flags      byte
	SymbolRate uint32
}

// WriteQPSKFile writes header followed by seq's symbols to w. If
// header.Flags has FlagHard set, symbols are sign-packed two bits each,
// four symbols per byte, via dsp.PackHard; otherwise each symbol is written as two raw signed
// bytes (I then Q), matching the soft Viterbi-metric convention used
// in-process.
func WriteQPSKFile(w io.Writer, header QPSKHeader, seq *dsp.QPSKSequence) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(qpskMagic); err != nil {
		return err
	}
	if err := bw.WriteByte(qpskVersion); err != nil {
		return err
	}
	if err := bw.WriteByte(header.Flags); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.BigEndian, header.SymbolRate); err != nil {
		return err
	}

	var data []byte
	if header.Flags&FlagHard != 0 {
		data = dsp.PackHard(seq)
	} else {
		data = make([]byte, seq.Len()*2)
		for i, sym := range seq.Slice() {
			data[2*i] = byte(sym.I)
			data[2*i+1] = byte(sym.Q)
		}
	}

	if err := binary.Write(bw, binary.BigEndian, uint64(len(data))); err != nil {
		return err
	}
	if _, err := bw.Write(data); err != nil {
		return err
	}

	return bw.Flush()
}

// ReadQPSKFile reads an lrptqpsk file from r. symbolCount must be supplied
// by the caller when header.Flags has FlagHard set, since a hard-packed
// file's byte length alone cannot tell how many of the final byte's four
// symbol slots are used; pass 0 for soft files, where the symbol count is exact.
func ReadQPSKFile(r io.Reader, symbolCount int) (QPSKHeader, *dsp.QPSKSequence, error) {
	br := bufio.NewReader(r)

	magic := make([]byte, len(qpskMagic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return QPSKHeader{}, nil, err
	}
	if string(magic) != qpskMagic {
		return QPSKHeader{}, nil, lrpterr.New(lrpterr.Unsupported, "qpskfile: bad magic")
	}

	version, err := br.ReadByte()
	if err != nil {
		return QPSKHeader{}, nil, err
	}
	if version != qpskVersion {
		return QPSKHeader{}, nil, lrpterr.New(lrpterr.Unsupported, "qpskfile: unsupported version")
	}

	var header QPSKHeader
	flags, err := br.ReadByte()
	if err != nil {
		return QPSKHeader{}, nil, err
	}
	header.Flags = flags
	if err := binary.Read(br, binary.BigEndian, &header.SymbolRate); err != nil {
		return QPSKHeader{}, nil, err
	}

	var dataLen uint64
	if err := binary.Read(br, binary.BigEndian, &dataLen); err != nil {
		return QPSKHeader{}, nil, err
	}
	data := make([]byte, dataLen)
	if _, err := io.ReadFull(br, data); err != nil {
		return QPSKHeader{}, nil, err
	}

	if header.Flags&FlagHard != 0 {
		return header, dsp.UnpackHard(data, symbolCount), nil
	}

	n := len(data) / 2
	seq := dsp.NewQPSKSequence(n)
	for i := 0; i < n; i++ {
		seq.Slice()[i] = dsp.SoftSymbol{I: int8(data[2*i]), Q: int8(data[2*i+1])}
	}
	return header, seq, nil
}
