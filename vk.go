package ssnark

import (
	"io"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// VerifyingKey is the verification key: three trapdoor encodings in G2 and
// the public-input accumulation vector in G1, whose length grows with the
// number of public inputs.
type VerifyingKey struct {
	TildeG2      bls12381.G2Affine // τ·G2
	AlphaTildeG2 bls12381.G2Affine // (α·τ)·G2
	ZG2          bls12381.G2Affine // Z(t)·G2

	EncodedIC AccumulationVector
}

// G1Size returns the number of G1 elements in the key.
func (vk *VerifyingKey) G1Size() int { return 1 + len(vk.EncodedIC.Rest) }

// G2Size returns the number of G2 elements in the key.
func (vk *VerifyingKey) G2Size() int { return 3 }

// SizeInBits returns the serialized size of the key.
func (vk *VerifyingKey) SizeInBits() int {
	return vk.EncodedIC.SizeInBits() + vk.G2Size()*bls12381.SizeOfG2AffineCompressed*8
}

// Equal reports structural equality.
func (vk *VerifyingKey) Equal(other *VerifyingKey) bool {
	return vk.TildeG2.Equal(&other.TildeG2) &&
		vk.AlphaTildeG2.Equal(&other.AlphaTildeG2) &&
		vk.ZG2.Equal(&other.ZG2) &&
		vk.EncodedIC.Equal(&other.EncodedIC)
}

// WriteTo serializes the key in canonical compressed form.
func (vk *VerifyingKey) WriteTo(w io.Writer) (int64, error) {
	enc := bls12381.NewEncoder(w)
	for _, v := range []interface{}{&vk.TildeG2, &vk.AlphaTildeG2, &vk.ZG2, &vk.EncodedIC.First, vk.EncodedIC.Rest} {
		if err := enc.Encode(v); err != nil {
			return enc.BytesWritten(), err
		}
	}
	return enc.BytesWritten(), nil
}

// ReadFrom deserializes a key produced by WriteTo.
func (vk *VerifyingKey) ReadFrom(r io.Reader) (int64, error) {
	dec := bls12381.NewDecoder(r)
	for _, v := range []interface{}{&vk.TildeG2, &vk.AlphaTildeG2, &vk.ZG2, &vk.EncodedIC.First, &vk.EncodedIC.Rest} {
		if err := dec.Decode(v); err != nil {
			return dec.BytesRead(), err
		}
	}
	vk.EncodedIC.folded = 0
	return dec.BytesRead(), nil
}

// ProcessedVerifyingKey caches the pairing precomputations of a
// VerifyingKey: line evaluations for the four fixed G2 arguments and the
// Miller loop of the two generators. The final exponentiation of the latter
// is deferred to the pairing product that consumes it.
type ProcessedVerifyingKey struct {
	G2OneLines      g2Lines
	TildeLines      g2Lines
	AlphaTildeLines g2Lines
	ZLines          g2Lines

	PairingOfG1AndG2 bls12381.GT

	EncodedIC AccumulationVector
}

// Equal reports structural equality.
func (pvk *ProcessedVerifyingKey) Equal(other *ProcessedVerifyingKey) bool {
	return pvk.G2OneLines == other.G2OneLines &&
		pvk.TildeLines == other.TildeLines &&
		pvk.AlphaTildeLines == other.AlphaTildeLines &&
		pvk.ZLines == other.ZLines &&
		pvk.PairingOfG1AndG2.Equal(&other.PairingOfG1AndG2) &&
		pvk.EncodedIC.Equal(&other.EncodedIC)
}

// ProcessVerifyingKey precomputes the pairing state of vk. The accumulation
// vector is shared, not copied; it is immutable after Setup.
func ProcessVerifyingKey(vk *VerifyingKey) (*ProcessedVerifyingKey, error) {
	pvk := &ProcessedVerifyingKey{
		G2OneLines:      bls12381.PrecomputeLines(g2Gen),
		TildeLines:      bls12381.PrecomputeLines(vk.TildeG2),
		AlphaTildeLines: bls12381.PrecomputeLines(vk.AlphaTildeG2),
		ZLines:          bls12381.PrecomputeLines(vk.ZG2),
		EncodedIC:       vk.EncodedIC,
	}
	ml, err := bls12381.MillerLoopFixedQ(
		[]bls12381.G1Affine{g1Gen},
		[]g2Lines{pvk.G2OneLines},
	)
	if err != nil {
		return nil, err
	}
	pvk.PairingOfG1AndG2 = ml
	return pvk, nil
}
