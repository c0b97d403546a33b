package uscs

import (
	"errors"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

func term(vid int, c int64) Term {
	var t Term
	t.VID = vid
	t.Coeff.SetInt64(c)
	return t
}

func elems(vs ...int64) []fr.Element {
	out := make([]fr.Element, len(vs))
	for i, v := range vs {
		out[i].SetInt64(v)
	}
	return out
}

func TestValidate(t *testing.T) {
	t.Run("empty system", func(t *testing.T) {
		cs := NewConstraintSystem(1, 1)
		if err := cs.Validate(); !errors.Is(err, ErrInvalidShape) {
			t.Fatalf("expected ErrInvalidShape, got %v", err)
		}
	})

	t.Run("more inputs than variables", func(t *testing.T) {
		cs := NewConstraintSystem(3, 2)
		cs.AddConstraint(term(1, 1))
		if err := cs.Validate(); !errors.Is(err, ErrInvalidShape) {
			t.Fatalf("expected ErrInvalidShape, got %v", err)
		}
	})

	t.Run("variable out of range", func(t *testing.T) {
		cs := NewConstraintSystem(1, 1)
		cs.AddConstraint(term(2, 1))
		if err := cs.Validate(); !errors.Is(err, ErrInvalidShape) {
			t.Fatalf("expected ErrInvalidShape, got %v", err)
		}
	})

	t.Run("well formed", func(t *testing.T) {
		cs := NewConstraintSystem(1, 2)
		cs.AddConstraint(term(0, 1), term(1, 1), term(2, -1))
		if err := cs.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestIsSatisfied(t *testing.T) {
	// x1 must be ±1, x2 must be 0 or −2 (i.e. (1+x2)² = 1), y1 must be ±1.
	cs := NewConstraintSystem(2, 3)
	cs.AddConstraint(term(1, 1))
	cs.AddConstraint(term(0, 1), term(2, 1))
	cs.AddConstraint(term(3, 1))

	if !cs.IsSatisfied(elems(1, 0), elems(-1)) {
		t.Error("satisfying assignment rejected")
	}
	if !cs.IsSatisfied(elems(-1, -2), elems(1)) {
		t.Error("satisfying assignment rejected")
	}
	if cs.IsSatisfied(elems(2, 0), elems(1)) {
		t.Error("unsatisfying assignment accepted")
	}
	if cs.IsSatisfied(elems(1), elems(1)) {
		t.Error("short public input accepted")
	}
}

func TestCloneAndEqual(t *testing.T) {
	cs := NewConstraintSystem(1, 2)
	cs.AddConstraint(term(1, 1), term(2, -2))

	cp := cs.Clone()
	if !cs.Equal(cp) {
		t.Fatal("clone differs from original")
	}

	cp.Constraints[0][0].Coeff.SetInt64(7)
	if cs.Equal(cp) {
		t.Fatal("mutating the clone affected the original comparison")
	}
	one := fr.One()
	if !cs.Constraints[0][0].Coeff.Equal(&one) {
		t.Fatal("clone shares backing storage with the original")
	}
}
