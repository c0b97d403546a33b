package ssnark

import (
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// AccumulationVector represents V₀(t)·G1 + Σᵢ xᵢ·Vᵢ(t)·G1 partially reduced:
// First carries the constant term plus every chunk folded so far, Rest the
// per-input bases still awaiting their scalars. The representation is dense;
// USCS public-input indices are contiguous.
type AccumulationVector struct {
	First bls12381.G1Affine
	Rest  []bls12381.G1Affine

	// folded counts the positions already absorbed into First. Chunks must
	// arrive in order, so folded is also the offset of Rest[0] in the
	// original domain.
	folded int
}

// DomainSize reports how many input positions the vector represents,
// accumulated or not.
func (av *AccumulationVector) DomainSize() int {
	return av.folded + len(av.Rest)
}

// SizeInBits reports the serialized size of the vector.
func (av *AccumulationVector) SizeInBits() int {
	return (1 + len(av.Rest)) * bls12381.SizeOfG1AffineCompressed * 8
}

// IsFullyAccumulated reports whether every position has been folded into
// First.
func (av *AccumulationVector) IsFullyAccumulated() bool {
	return len(av.Rest) == 0
}

// AccumulateChunk folds Σⱼ scalars[j]·Rest[offset−folded+j] into First and
// returns the advanced vector. offset is the absolute position of the chunk's
// first scalar; it must equal the current frontier.
func (av *AccumulationVector) AccumulateChunk(scalars []fr.Element, offset int) (AccumulationVector, error) {
	if offset != av.folded {
		return AccumulationVector{}, fmt.Errorf("ssnark: chunk offset %d does not match accumulation frontier %d", offset, av.folded)
	}
	if len(scalars) > len(av.Rest) {
		return AccumulationVector{}, fmt.Errorf("ssnark: chunk of %d scalars exceeds remaining domain %d", len(scalars), len(av.Rest))
	}

	sum, err := msmG1(av.Rest[:len(scalars)], scalars, 1)
	if err != nil {
		return AccumulationVector{}, err
	}
	sum.AddMixed(&av.First)

	var out AccumulationVector
	out.First.FromJacobian(&sum)
	out.Rest = av.Rest[len(scalars):]
	out.folded = av.folded + len(scalars)
	return out, nil
}

// Equal reports structural equality.
func (av *AccumulationVector) Equal(other *AccumulationVector) bool {
	if av.folded != other.folded || len(av.Rest) != len(other.Rest) || !av.First.Equal(&other.First) {
		return false
	}
	for i := range av.Rest {
		if !av.Rest[i].Equal(&other.Rest[i]) {
			return false
		}
	}
	return true
}
