package ssnark

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// OnlineVerifyWeakIC checks a proof against a processed verification key
// under weak input consistency: public may be shorter than the declared
// input length and is implicitly zero-padded.
//
// All three pairing equations are evaluated even after one has failed, so
// the running time does not depend on which check rejects.
func OnlineVerifyWeakIC(pvk *ProcessedVerifyingKey, public []fr.Element, proof *Proof) bool {
	domain := pvk.EncodedIC.DomainSize()
	if len(public) > domain {
		return false
	}

	scalars := make([]fr.Element, domain)
	copy(scalars, public)
	accumulated, err := pvk.EncodedIC.AccumulateChunk(scalars, 0)
	if err != nil || !accumulated.IsFullyAccumulated() {
		return false
	}
	acc := accumulated.First

	result := proof.IsWellFormed()

	var vAcc bls12381.G1Affine
	vAcc.Add(&proof.VG1, &acc)

	// e(V₁+acc, G2)·e(G1, V₂)⁻¹ = 1 ties both proof halves to one polynomial.
	mlLeft, errLeft := bls12381.MillerLoopFixedQ(
		[]bls12381.G1Affine{vAcc},
		[]g2Lines{pvk.G2OneLines},
	)
	mlRight, errRight := bls12381.MillerLoop(
		[]bls12381.G1Affine{g1Gen},
		[]bls12381.G2Affine{proof.VG2},
	)
	if errLeft != nil || errRight != nil {
		result = false
	} else {
		var prod bls12381.GT
		prod.Conjugate(&mlRight)
		prod.Mul(&prod, &mlLeft)
		v := bls12381.FinalExponentiation(&prod)
		if !v.Equal(&gtOne) {
			result = false
		}
	}

	// e(V₁+acc, V₂)⁻¹·e(H, Z)·e(G1, G2) = 1 is the squaring identity
	// P² − 1 = H·Z. PairingOfG1AndG2 is the cached generator Miller loop,
	// folded in before the single final exponentiation.
	mlVV, errVV := bls12381.MillerLoop(
		[]bls12381.G1Affine{vAcc},
		[]bls12381.G2Affine{proof.VG2},
	)
	mlHZ, errHZ := bls12381.MillerLoopFixedQ(
		[]bls12381.G1Affine{proof.HG1},
		[]g2Lines{pvk.ZLines},
	)
	if errVV != nil || errHZ != nil {
		result = false
	} else {
		var prod bls12381.GT
		prod.Conjugate(&mlVV)
		prod.Mul(&prod, &mlHZ)
		prod.Mul(&prod, &pvk.PairingOfG1AndG2)
		sspEq := bls12381.FinalExponentiation(&prod)
		if !sspEq.Equal(&gtOne) {
			result = false
		}
	}

	// e(V₁, ατ·G2)·e(αV₁, τ·G2)⁻¹ = 1 is the knowledge-of-exponent check.
	mlV, errV := bls12381.MillerLoopFixedQ(
		[]bls12381.G1Affine{proof.VG1},
		[]g2Lines{pvk.AlphaTildeLines},
	)
	mlAlphaV, errAlphaV := bls12381.MillerLoopFixedQ(
		[]bls12381.G1Affine{proof.AlphaVG1},
		[]g2Lines{pvk.TildeLines},
	)
	if errV != nil || errAlphaV != nil {
		result = false
	} else {
		var prod bls12381.GT
		prod.Conjugate(&mlAlphaV)
		prod.Mul(&prod, &mlV)
		alphaV := bls12381.FinalExponentiation(&prod)
		if !alphaV.Equal(&gtOne) {
			result = false
		}
	}

	return result
}

// OnlineVerifyStrongIC is OnlineVerifyWeakIC with the input length pinned to
// the declared number of public inputs.
func OnlineVerifyStrongIC(pvk *ProcessedVerifyingKey, public []fr.Element, proof *Proof) bool {
	if pvk.EncodedIC.DomainSize() != len(public) {
		return false
	}
	return OnlineVerifyWeakIC(pvk, public, proof)
}

// VerifyWeakIC processes vk and runs the weak-input-consistency check.
func VerifyWeakIC(vk *VerifyingKey, public []fr.Element, proof *Proof) bool {
	pvk, err := ProcessVerifyingKey(vk)
	if err != nil {
		return false
	}
	return OnlineVerifyWeakIC(pvk, public, proof)
}

// VerifyStrongIC processes vk and runs the strong-input-consistency check.
func VerifyStrongIC(vk *VerifyingKey, public []fr.Element, proof *Proof) bool {
	pvk, err := ProcessVerifyingKey(vk)
	if err != nil {
		return false
	}
	return OnlineVerifyStrongIC(pvk, public, proof)
}
