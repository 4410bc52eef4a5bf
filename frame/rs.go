/*
NAME
  rs.go

DESCRIPTION
  rs.go implements the CCSDS (255, 223) Reed-Solomon decoder over GF(256)
  used to correct VCDU transmission errors before VCDU parsing.

LICENSE
  See LICENSE.
*/

package frame

import (
	"github.com/dvdesolve/liblrpt/lrpterr"
)

// CCSDS (255, 223) Reed-Solomon parameters: GF(256) generated by
// x^8 + x^7 + x^2 + x + 1, and RSNumRoots = 32 parity symbols able to
// correct up to 16 byte errors per codeword. Symbols are taken in the
// conventional basis (no dual-basis conversion is applied), and the
// syndromes are evaluated at alpha^1 .. alpha^32.
const (
	RSN        = 255
	RSK        = 223
	RSNumRoots = RSN - RSK
	gfPoly     = 0x187 // x^8 + x^7 + x^2 + x + 1 reduction for the exp/log tables below
)

var gfExp [512]byte
var gfLog [256]byte

func init() {
	x := 1
	for i := 0; i < 255; i++ {
		gfExp[i] = byte(x)
		gfLog[x] = byte(i)
		x <<= 1
		if x&0x100 != 0 {
			x ^= gfPoly
		}
	}
	for i := 255; i < 512; i++ {
		gfExp[i] = gfExp[i-255]
	}
}

func gfMul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return gfExp[int(gfLog[a])+int(gfLog[b])]
}

func gfDiv(a, b byte) byte {
	if a == 0 {
		return 0
	}
	return gfExp[(int(gfLog[a])-int(gfLog[b])+255)%255]
}

func gfPow(a byte, n int) byte {
	if n == 0 {
		return 1
	}
	if a == 0 {
		return 0
	}
	return gfExp[(int(gfLog[a])*n)%255]
}

// RSDecode corrects up to RSNumRoots/2 byte errors in place in block
// (which must be RSN bytes) and returns the number of errors corrected.
// A block with more errors than the code can correct returns a
// DataCorrupt error; block is left unmodified in that case.
func RSDecode(block []byte) (int, error) {
	if len(block) != RSN {
		return 0, lrpterr.New(lrpterr.InvalidParam, "rs: block must be RSN bytes")
	}

	syn := syndromes(block)
	allZero := true
	for _, s := range syn {
		if s != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return 0, nil
	}

	lambda := berlekampMassey(syn)
	roots, locs := chienSearch(lambda, len(block))
	if len(roots) == 0 || len(roots) != len(lambda)-1 {
		return 0, lrpterr.New(lrpterr.DataCorrupt, "rs: uncorrectable block")
	}

	omega := errorEvaluator(syn, lambda)
	for i, root := range roots {
		pos := locs[i]
		errVal := forneyMagnitude(lambda, omega, root)
		block[len(block)-1-pos] ^= errVal
	}

	return len(roots), nil
}

func syndromes(block []byte) []byte {
	syn := make([]byte, RSNumRoots)
	for i := range syn {
		var s byte
		for _, c := range block {
			s = gfMul(s, gfExp[i+1]) ^ c
		}
		syn[i] = s
	}
	return syn
}

// berlekampMassey finds the error-locator polynomial lambda from the
// syndrome sequence.
func berlekampMassey(syn []byte) []byte {
	lambda := make([]byte, 1, RSNumRoots+1)
	lambda[0] = 1
	prevLambda := append([]byte{}, lambda...)
	l, m := 0, 1
	b := byte(1)

	for n := 0; n < len(syn); n++ {
		delta := syn[n]
		for i := 1; i <= l; i++ {
			if i < len(lambda) {
				delta ^= gfMul(lambda[i], syn[n-i])
			}
		}
		if delta == 0 {
			m++
			continue
		}

		t := append([]byte{}, lambda...)
		coeff := gfDiv(delta, b)
		for len(lambda) < len(prevLambda)+m {
			lambda = append(lambda, 0)
		}
		for i, pc := range prevLambda {
			lambda[i+m] ^= gfMul(coeff, pc)
		}

		if 2*l <= n {
			l = n + 1 - l
			prevLambda = t
			b = delta
			m = 1
		} else {
			m++
		}
	}

	return lambda[:l+1]
}

// chienSearch evaluates lambda at every inverse codeword position,
// returning the roots found (as field elements) and their corresponding
// byte offsets from the end of the codeword.
func chienSearch(lambda []byte, n int) ([]byte, []int) {
	var roots []byte
	var locs []int
	for i := 0; i < n; i++ {
		x := gfExp[i]
		var acc byte
		for j, c := range lambda {
			acc ^= gfMul(c, gfPow(x, j))
		}
		if acc == 0 {
			inv := gfExp[(255-i)%255]
			roots = append(roots, inv)
			locs = append(locs, (255-i)%255)
		}
	}
	return roots, locs
}

// errorEvaluator computes omega = (syndrome * lambda) mod x^RSNumRoots.
func errorEvaluator(syn, lambda []byte) []byte {
	omega := make([]byte, RSNumRoots)
	for i := 0; i < RSNumRoots; i++ {
		var acc byte
		for j := 0; j <= i && j < len(lambda); j++ {
			acc ^= gfMul(lambda[j], syn[i-j])
		}
		omega[i] = acc
	}
	return omega
}

// forneyMagnitude applies Forney's formula to recover the error value at
// the position whose locator root is Xinv.
func forneyMagnitude(lambda, omega []byte, xInv byte) byte {
	x := gfDiv(1, xInv)

	var num byte
	for i, c := range omega {
		num ^= gfMul(c, gfPow(x, i))
	}

	var lambdaPrime byte
	for i := 1; i < len(lambda); i += 2 {
		lambdaPrime ^= gfMul(lambda[i], gfPow(x, i-1))
	}

	if lambdaPrime == 0 {
		return 0
	}
	return gfDiv(num, lambdaPrime)
}
