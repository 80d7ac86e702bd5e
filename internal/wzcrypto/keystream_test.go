package wzcrypto

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestKeystreamZeroIVIsAllZero(t *testing.T) {
	k := NewKeystream(IVClassic)
	got := k.Slice(0, 64)
	want := make([]byte, 64)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("zero-IV keystream mismatch (-want +got):\n%s", diff)
	}
}

func TestKeystreamDeterministic(t *testing.T) {
	a := NewKeystream(IVGMS).Slice(0, 128)
	b := NewKeystream(IVGMS).Slice(0, 128)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("two keystreams built from the same IV diverged (-a +b):\n%s", diff)
	}
}

func TestKeystreamByteAtMatchesSlice(t *testing.T) {
	k := NewKeystream(IVGMS)
	slice := k.Slice(0, batchSize+300) // forces more than one batchSize expansion
	for i, want := range slice {
		if got := k.ByteAt(i); got != want {
			t.Fatalf("ByteAt(%d) = %#x, want %#x (from Slice)", i, got, want)
		}
	}
}

func TestKeystreamDiffersAcrossIVs(t *testing.T) {
	a := NewKeystream(IVGMS).Slice(0, 32)
	b := NewKeystream(IVEMS).Slice(0, 32)
	if cmp.Equal(a, b) {
		t.Error("GMS and EMS keystreams are identical, want different IVs to diverge")
	}
}
