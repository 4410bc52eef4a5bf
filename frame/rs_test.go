/*
NAME
  rs_test.go

DESCRIPTION
  rs_test.go tests RSDecode against the all-zero codeword, which is
  always valid for a linear block code regardless of generator,
  letting error patterns be injected without needing an encoder.

LICENSE
  See LICENSE.
*/

package frame

import "testing"

func TestRSDecodeCleanBlock(t *testing.T) {
	block := make([]byte, RSN)
	n, err := RSDecode(block)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("corrected count = %d, want 0 for a clean block", n)
	}
}

func TestRSDecodeCorrectsErrorsInZeroCodeword(t *testing.T) {
	block := make([]byte, RSN)

	positions := []int{0, 5, 17, 40, 63, 80, 99, 120, 140, 160, 180, 200, 215, 230, 245, 254}
	if len(positions) != RSNumRoots/2 {
		t.Fatalf("test setup: want %d error positions, have %d", RSNumRoots/2, len(positions))
	}
	for i, pos := range positions {
		block[pos] = byte(i + 1)
	}

	n, err := RSDecode(block)
	if err != nil {
		t.Fatalf("RSDecode failed to correct %d errors: %v", len(positions), err)
	}
	if n != len(positions) {
		t.Errorf("corrected count = %d, want %d", n, len(positions))
	}
	for _, b := range block {
		if b != 0 {
			t.Fatalf("block not fully corrected: %v", block)
		}
	}
}

func TestRSDecodeRejectsWrongSize(t *testing.T) {
	if _, err := RSDecode(make([]byte, 10)); err == nil {
		t.Error("RSDecode should reject a block that isn't RSN bytes")
	}
}

func TestGFArithmeticIdentities(t *testing.T) {
	for a := 1; a < 256; a++ {
		if got := gfMul(byte(a), 1); got != byte(a) {
			t.Fatalf("gfMul(%d, 1) = %d, want %d", a, got, a)
		}
		if got := gfDiv(byte(a), byte(a)); got != 1 {
			t.Fatalf("gfDiv(%d, %d) = %d, want 1", a, a, got)
		}
	}
}
