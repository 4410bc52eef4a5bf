/*
NAME
  mcu.go

DESCRIPTION
  mcu.go accumulates one imaging channel's JPEG minimum-coded-unit byte
  stream across packets, delimiting scans on the JPEG end-of-image
  marker. Full entropy decode is out of scope here; this is the boundary
  buffer a JPEG decoder would be handed.

LICENSE
  See LICENSE.
*/

package frame

// jpegEOI is the two-byte JPEG end-of-image marker (0xFFD9).
var jpegEOI = []byte{0xFF, 0xD9}

// MCUAccumulator buffers one imaging APID's byte stream and splits it
// into complete images on end-of-image markers.
type MCUAccumulator struct {
	buf    []byte
	Images [][]byte
}

// NewMCUAccumulator returns an empty accumulator.
func NewMCUAccumulator() *MCUAccumulator {
	return &MCUAccumulator{}
}

// Feed appends payload to the running byte stream, extracting and
// appending to Images any complete image found (i.e. terminated by an
// end-of-image marker) so far.
func (m *MCUAccumulator) Feed(payload []byte) {
	m.buf = append(m.buf, payload...)

	for {
		idx := indexOf(m.buf, jpegEOI)
		if idx < 0 {
			return
		}
		end := idx + len(jpegEOI)
		m.Images = append(m.Images, append([]byte{}, m.buf[:end]...))
		m.buf = m.buf[end:]
	}
}

// Pending returns the bytes accumulated so far for an image still in
// progress (no end-of-image marker seen yet).
func (m *MCUAccumulator) Pending() []byte {
	return m.buf
}

func indexOf(haystack, needle []byte) int {
	if len(needle) == 0 || len(haystack) < len(needle) {
		return -1
	}
	for i := 0; i <= len(haystack)-len(needle); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
