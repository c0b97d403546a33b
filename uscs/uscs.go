// Package uscs implements Unitary-Square Constraint Systems: ordered sets of
// sparse linear forms over (1, x₁..x_np, y₁..y_na) where a satisfying
// assignment makes every form evaluate to ±1.
package uscs

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// ErrInvalidShape reports a constraint system whose shape parameters are
// inconsistent (no constraints, more public inputs than variables, or a term
// referencing a variable outside the system).
var ErrInvalidShape = errors.New("uscs: invalid constraint system shape")

// Term is one coefficient of a sparse linear form. VID 0 addresses the
// implicit constant 1; VIDs 1..NbPublic the public inputs; the remaining VIDs
// up to NbVariables the auxiliary witness.
type Term struct {
	VID   int
	Coeff fr.Element
}

// Constraint is a sparse linear form ⟨c, (1 ‖ x ‖ y)⟩ whose square must be 1.
type Constraint []Term

// ConstraintSystem is a USCS instance.
type ConstraintSystem struct {
	NbPublic    int // public-input variables, excluding the constant 1
	NbVariables int // total variables = NbPublic + auxiliary
	Constraints []Constraint
}

// NewConstraintSystem returns an empty system with the given variable shape.
func NewConstraintSystem(nbPublic, nbVariables int) *ConstraintSystem {
	return &ConstraintSystem{
		NbPublic:    nbPublic,
		NbVariables: nbVariables,
	}
}

// AddConstraint appends one linear form.
func (cs *ConstraintSystem) AddConstraint(terms ...Term) {
	c := make(Constraint, len(terms))
	copy(c, terms)
	cs.Constraints = append(cs.Constraints, c)
}

// NbConstraints returns the number of constraints.
func (cs *ConstraintSystem) NbConstraints() int {
	return len(cs.Constraints)
}

// Validate checks the shape parameters.
func (cs *ConstraintSystem) Validate() error {
	if len(cs.Constraints) == 0 {
		return fmt.Errorf("%w: no constraints", ErrInvalidShape)
	}
	if cs.NbPublic < 0 || cs.NbVariables < cs.NbPublic {
		return fmt.Errorf("%w: %d public inputs, %d variables", ErrInvalidShape, cs.NbPublic, cs.NbVariables)
	}
	for i, c := range cs.Constraints {
		for _, t := range c {
			if t.VID < 0 || t.VID > cs.NbVariables {
				return fmt.Errorf("%w: constraint %d references variable %d", ErrInvalidShape, i, t.VID)
			}
		}
	}
	return nil
}

// FullAssignment builds (1 ‖ public ‖ aux), the extended variable vector.
// Missing trailing entries are zero so that weak-input-consistency callers can
// pass short vectors.
func (cs *ConstraintSystem) FullAssignment(public, aux []fr.Element) []fr.Element {
	a := make([]fr.Element, cs.NbVariables+1)
	a[0].SetOne()
	copy(a[1:1+len(public)], public)
	copy(a[1+cs.NbPublic:], aux)
	return a
}

// Evaluate computes ⟨c, assignment⟩ where assignment is the extended vector.
func (c Constraint) Evaluate(assignment []fr.Element) fr.Element {
	var acc, tmp fr.Element
	for _, t := range c {
		tmp.Mul(&t.Coeff, &assignment[t.VID])
		acc.Add(&acc, &tmp)
	}
	return acc
}

// IsSatisfied reports whether every constraint's evaluation squares to 1.
func (cs *ConstraintSystem) IsSatisfied(public, aux []fr.Element) bool {
	if len(public) != cs.NbPublic || len(aux) != cs.NbVariables-cs.NbPublic {
		return false
	}
	assignment := cs.FullAssignment(public, aux)
	one := fr.One()
	for _, c := range cs.Constraints {
		v := c.Evaluate(assignment)
		v.Square(&v)
		if !v.Equal(&one) {
			return false
		}
	}
	return true
}

// Clone deep-copies the system. The proving key owns its own copy so that
// callers mutating the original cannot skew later proofs.
func (cs *ConstraintSystem) Clone() *ConstraintSystem {
	out := &ConstraintSystem{
		NbPublic:    cs.NbPublic,
		NbVariables: cs.NbVariables,
		Constraints: make([]Constraint, len(cs.Constraints)),
	}
	for i, c := range cs.Constraints {
		out.Constraints[i] = make(Constraint, len(c))
		copy(out.Constraints[i], c)
	}
	return out
}

// Equal reports structural equality.
func (cs *ConstraintSystem) Equal(other *ConstraintSystem) bool {
	if cs.NbPublic != other.NbPublic || cs.NbVariables != other.NbVariables ||
		len(cs.Constraints) != len(other.Constraints) {
		return false
	}
	for i := range cs.Constraints {
		if len(cs.Constraints[i]) != len(other.Constraints[i]) {
			return false
		}
		for j := range cs.Constraints[i] {
			a, b := &cs.Constraints[i][j], &other.Constraints[i][j]
			if a.VID != b.VID || !a.Coeff.Equal(&b.Coeff) {
				return false
			}
		}
	}
	return true
}
