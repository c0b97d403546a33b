package ssnark

import (
	"io"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// Proof is a USCS SNARK proof: V and its knowledge-of-exponent companion αV
// in G1, the quotient commitment H in G1, and V mirrored into G2. The zero
// value is not well formed; proofs only come out of Prove or ReadFrom.
type Proof struct {
	VG1      bls12381.G1Affine
	AlphaVG1 bls12381.G1Affine
	HG1      bls12381.G1Affine
	VG2      bls12381.G2Affine
}

// G1Size returns the number of G1 elements in the proof.
func (p *Proof) G1Size() int { return 3 }

// G2Size returns the number of G2 elements in the proof.
func (p *Proof) G2Size() int { return 1 }

// SizeInBits returns the serialized proof size.
func (p *Proof) SizeInBits() int {
	return p.G1Size()*bls12381.SizeOfG1AffineCompressed*8 + p.G2Size()*bls12381.SizeOfG2AffineCompressed*8
}

// IsWellFormed reports whether all four elements are non-identity points on
// the curve and inside the prime-order subgroup.
func (p *Proof) IsWellFormed() bool {
	if p.VG1.IsInfinity() || p.AlphaVG1.IsInfinity() || p.HG1.IsInfinity() || p.VG2.IsInfinity() {
		return false
	}
	if !p.VG1.IsOnCurve() || !p.AlphaVG1.IsOnCurve() || !p.HG1.IsOnCurve() || !p.VG2.IsOnCurve() {
		return false
	}
	return p.VG1.IsInSubGroup() && p.AlphaVG1.IsInSubGroup() && p.HG1.IsInSubGroup() && p.VG2.IsInSubGroup()
}

// Equal reports structural equality.
func (p *Proof) Equal(other *Proof) bool {
	return p.VG1.Equal(&other.VG1) &&
		p.AlphaVG1.Equal(&other.AlphaVG1) &&
		p.HG1.Equal(&other.HG1) &&
		p.VG2.Equal(&other.VG2)
}

// WriteTo serializes the proof in canonical compressed form.
func (p *Proof) WriteTo(w io.Writer) (int64, error) {
	enc := bls12381.NewEncoder(w)
	for _, v := range []interface{}{&p.VG1, &p.AlphaVG1, &p.HG1, &p.VG2} {
		if err := enc.Encode(v); err != nil {
			return enc.BytesWritten(), err
		}
	}
	return enc.BytesWritten(), nil
}

// ReadFrom deserializes a proof. Points are subgroup-checked by the decoder.
func (p *Proof) ReadFrom(r io.Reader) (int64, error) {
	dec := bls12381.NewDecoder(r)
	for _, v := range []interface{}{&p.VG1, &p.AlphaVG1, &p.HG1, &p.VG2} {
		if err := dec.Decode(v); err != nil {
			return dec.BytesRead(), err
		}
	}
	return dec.BytesRead(), nil
}
