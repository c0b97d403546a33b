// Package ssp reduces a Unitary-Square Constraint System to a Square Span
// Program, following DFGK14: the system is satisfiable iff P(X)²−1 is
// divisible by the vanishing polynomial Z(X) of the evaluation domain, where
// P interpolates the constraint evaluations.
package ssp

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"

	"github.com/eon-protocol/ssnark/uscs"
)

// ErrUnsatisfiedWitness reports a (public, aux) pair that does not satisfy
// the constraint system handed to WitnessMap.
var ErrUnsatisfiedWitness = errors.New("ssp: assignment does not satisfy the constraint system")

// ErrDegenerateEvaluationPoint reports that the evaluation point landed
// inside the FFT domain, which zeroes the vanishing polynomial. The caller
// resamples; the probability is |H|/r.
var ErrDegenerateEvaluationPoint = errors.New("ssp: evaluation point lies in the domain")

// InstanceEvaluation carries the instance side of the reduction evaluated at
// a fixed field point t: the values V_i(t) for i ∈ [0, NbVariables], the
// monomials t^k for k ∈ [0, Degree], and Z(t). The DFGK randomization dummy
// V_{NbVariables+1}(t) = Z(t) is appended by the key generator, not here.
type InstanceEvaluation struct {
	Degree      int
	NbVariables int
	NbPublic    int

	Vt []fr.Element // length NbVariables + 1
	Ht []fr.Element // length Degree + 1
	Zt fr.Element
}

// Witness carries the witness side of the reduction: the variable assignment
// (index 0 is the constant 1) and the coefficients of
// H(X) = ((P+dZ)(X)² − 1) / Z(X).
type Witness struct {
	Degree      int
	NbVariables int
	NbPublic    int

	VCoefficients []fr.Element // length NbVariables + 1, index 0 = constant slot
	HCoefficients []fr.Element // length Degree + 1
	D             fr.Element
}

// domainFor picks the smallest radix-2 subgroup able to hold every constraint
// row plus at least one padding row. The padding rows hold the dummy
// constraint 1² = 1, which keeps P²−1 vanishing on the whole domain and
// anchors V₀(t) away from zero.
func domainFor(cs *uscs.ConstraintSystem) *fft.Domain {
	return fft.NewDomain(uint64(cs.NbConstraints() + 1))
}

// InstanceMapWithEvaluation evaluates the reduced SSP instance at t.
func InstanceMapWithEvaluation(cs *uscs.ConstraintSystem, t *fr.Element) (*InstanceEvaluation, error) {
	if err := cs.Validate(); err != nil {
		return nil, err
	}

	domain := domainFor(cs)
	n := int(domain.Cardinality)
	m := cs.NbConstraints()

	var zt, tn fr.Element
	one := fr.One()
	tn.Exp(*t, big.NewInt(int64(n)))
	zt.Sub(&tn, &one)
	if zt.IsZero() {
		return nil, ErrDegenerateEvaluationPoint
	}

	u := lagrangeAtTau(domain, t, &zt)

	vt := make([]fr.Element, cs.NbVariables+1)
	var tmp fr.Element
	for k, c := range cs.Constraints {
		for _, term := range c {
			tmp.Mul(&u[k], &term.Coeff)
			vt[term.VID].Add(&vt[term.VID], &tmp)
		}
	}
	for k := m; k < n; k++ {
		vt[0].Add(&vt[0], &u[k])
	}

	ht := make([]fr.Element, n+1)
	ht[0].SetOne()
	for k := 1; k <= n; k++ {
		ht[k].Mul(&ht[k-1], t)
	}

	return &InstanceEvaluation{
		Degree:      n,
		NbVariables: cs.NbVariables,
		NbPublic:    cs.NbPublic,
		Vt:          vt,
		Ht:          ht,
		Zt:          zt,
	}, nil
}

// lagrangeAtTau evaluates all Lagrange basis polynomials of the domain at t:
// u_k(t) = Z(t)·ω^k / (n·(t−ω^k)). Requires Z(t) ≠ 0.
func lagrangeAtTau(domain *fft.Domain, t, zt *fr.Element) []fr.Element {
	n := int(domain.Cardinality)

	denom := make([]fr.Element, n)
	wk := fr.One()
	for k := 0; k < n; k++ {
		denom[k].Sub(t, &wk)
		wk.Mul(&wk, &domain.Generator)
	}
	denom = fr.BatchInvert(denom)

	var scale fr.Element
	scale.Mul(zt, &domain.CardinalityInv)

	u := make([]fr.Element, n)
	wk.SetOne()
	for k := 0; k < n; k++ {
		u[k].Mul(&scale, &wk)
		u[k].Mul(&u[k], &denom[k])
		wk.Mul(&wk, &domain.Generator)
	}
	return u
}

// WitnessMap computes the SSP witness for (public, aux) under the blinding
// scalar d. The assignment must satisfy cs.
func WitnessMap(cs *uscs.ConstraintSystem, public, aux []fr.Element, d fr.Element) (*Witness, error) {
	if err := cs.Validate(); err != nil {
		return nil, err
	}
	if len(public) != cs.NbPublic || len(aux) != cs.NbVariables-cs.NbPublic {
		return nil, fmt.Errorf("%w: got %d public and %d auxiliary values for a %d/%d system",
			uscs.ErrInvalidShape, len(public), len(aux), cs.NbPublic, cs.NbVariables-cs.NbPublic)
	}

	domain := domainFor(cs)
	n := int(domain.Cardinality)
	m := cs.NbConstraints()
	one := fr.One()

	assignment := cs.FullAssignment(public, aux)

	// P on the domain: constraint evaluations on the first m rows, the dummy
	// constraint value 1 on the padding rows.
	evals := make([]fr.Element, n)
	for k, c := range cs.Constraints {
		evals[k] = c.Evaluate(assignment)
		var sq fr.Element
		sq.Square(&evals[k])
		if !sq.Equal(&one) {
			return nil, fmt.Errorf("%w: constraint %d", ErrUnsatisfiedWitness, k)
		}
	}
	for k := m; k < n; k++ {
		evals[k].SetOne()
	}

	// Interpolate P.
	p := evals
	domain.FFTInverse(p, fft.DIF)
	fft.BitReverse(p)

	// q = (P²−1)/Z on the multiplicative coset, where Z is the constant
	// g^n − 1.
	q := make([]fr.Element, n)
	copy(q, p)
	domain.FFT(q, fft.DIF, fft.OnCoset())

	var zCoset, zCosetInv fr.Element
	zCoset.Exp(domain.FrMultiplicativeGen, big.NewInt(int64(n)))
	zCoset.Sub(&zCoset, &one)
	zCosetInv.Inverse(&zCoset)

	for i := range q {
		q[i].Square(&q[i]).
			Sub(&q[i], &one).
			Mul(&q[i], &zCosetInv)
	}
	domain.FFTInverse(q, fft.DIT, fft.OnCoset())

	// (P+dZ)² − 1 = (P²−1) + 2dPZ + d²Z², so H = q + 2dP + d²Z.
	var d2, twoD fr.Element
	d2.Square(&d)
	twoD.Double(&d)

	h := make([]fr.Element, n+1)
	var tmp fr.Element
	for i := 0; i < n; i++ {
		tmp.Mul(&twoD, &p[i])
		h[i].Add(&q[i], &tmp)
	}
	h[0].Sub(&h[0], &d2)
	h[n].Add(&h[n], &d2)

	return &Witness{
		Degree:        n,
		NbVariables:   cs.NbVariables,
		NbPublic:      cs.NbPublic,
		VCoefficients: assignment,
		HCoefficients: h,
		D:             d,
	}, nil
}
