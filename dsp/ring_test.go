/*
NAME
  ring_test.go

DESCRIPTION
  ring_test.go tests the lock-free I/Q ring buffer's capacity accounting
  and push/pop round-trip behaviour.

LICENSE
  See LICENSE.
*/

package dsp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

func TestRingCapacityInvariant(t *testing.T) {
	rapid.Check(t, func(tt *rapid.T) {
		cap := rapid.IntRange(1, 64).Draw(tt, "cap")
		r, err := NewRing(cap)
		if err != nil {
			tt.Fatal(err)
		}

		n := rapid.IntRange(0, cap).Draw(tt, "n")
		src := make([]Sample, n)
		for i := range src {
			src[i] = complex(float64(i), 0)
		}
		if n > 0 {
			if err := r.Push(src, 0, n); err != nil {
				tt.Fatal(err)
			}
		}

		if r.Used()+r.Avail() != cap {
			tt.Fatalf("Used()+Avail() = %d, want Capacity() = %d", r.Used()+r.Avail(), cap)
		}
	})
}

func TestRingPushPopRoundTrip(t *testing.T) {
	r, err := NewRing(8)
	if err != nil {
		t.Fatal(err)
	}

	src := []Sample{1, 2, 3, 4, 5}
	if err := r.Push(src, 0, len(src)); err != nil {
		t.Fatal(err)
	}

	var out Sequence
	if err := r.Pop(&out, len(src)); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(src, out.Slice()); diff != "" {
		t.Errorf("popped samples mismatch (-want +got):\n%s", diff)
	}
	if !r.IsEmpty() {
		t.Error("ring should be empty after draining exactly what was pushed")
	}
}

func TestRingPushOverflow(t *testing.T) {
	r, err := NewRing(2)
	if err != nil {
		t.Fatal(err)
	}
	src := []Sample{1, 2, 3}
	if err := r.Push(src, 0, 3); err == nil {
		t.Error("Push beyond capacity should return an error")
	}
	if !r.IsEmpty() {
		t.Error("a failed push must not partially write")
	}
}

func TestRingPopEmpty(t *testing.T) {
	r, err := NewRing(4)
	if err != nil {
		t.Fatal(err)
	}
	var out Sequence
	if err := r.Pop(&out, 1); err == nil {
		t.Error("Pop on an empty ring with n>0 should return an error")
	}
}

func TestRingWraparound(t *testing.T) {
	r, err := NewRing(4)
	if err != nil {
		t.Fatal(err)
	}
	var out Sequence

	for round := 0; round < 3; round++ {
		src := []Sample{complex(float64(round), 0), complex(float64(round)+0.5, 0), complex(float64(round)+0.25, 0)}
		if err := r.Push(src, 0, 3); err != nil {
			t.Fatalf("round %d: push: %v", round, err)
		}
		if err := r.Pop(&out, 3); err != nil {
			t.Fatalf("round %d: pop: %v", round, err)
		}
		if diff := cmp.Diff(src, out.Slice()); diff != "" {
			t.Errorf("round %d: popped samples mismatch (-want +got):\n%s", round, diff)
		}
	}
}
