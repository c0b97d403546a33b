package ssnark

import (
	"encoding/binary"
	"io"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/eon-protocol/ssnark/uscs"
)

// ProvingKey encodes the SSP instance evaluated at the trapdoor point.
//
// VG1Query and AlphaVG1Query hold only the auxiliary slots plus the trailing
// randomization dummy; VG2Query holds every slot including the public-input
// ones. The asymmetry carries the input-consistency check and must not be
// regularised.
type ProvingKey struct {
	VG1Query      []bls12381.G1Affine // length NbVariables − NbPublic + 1
	AlphaVG1Query []bls12381.G1Affine // same shape, trapdoor α applied
	HG1Query      []bls12381.G1Affine // length degree + 1
	VG2Query      []bls12381.G2Affine // length NbVariables + 2

	Cs *uscs.ConstraintSystem
}

// G1Size returns the number of G1 elements in the key.
func (pk *ProvingKey) G1Size() int {
	return len(pk.VG1Query) + len(pk.AlphaVG1Query) + len(pk.HG1Query)
}

// G2Size returns the number of G2 elements in the key.
func (pk *ProvingKey) G2Size() int {
	return len(pk.VG2Query)
}

// SizeInBits returns the serialized size of the group-element queries.
func (pk *ProvingKey) SizeInBits() int {
	return pk.G1Size()*bls12381.SizeOfG1AffineCompressed*8 +
		pk.G2Size()*bls12381.SizeOfG2AffineCompressed*8
}

// Equal reports structural equality, constraint system included.
func (pk *ProvingKey) Equal(other *ProvingKey) bool {
	if !affineG1SlicesEqual(pk.VG1Query, other.VG1Query) ||
		!affineG1SlicesEqual(pk.AlphaVG1Query, other.AlphaVG1Query) ||
		!affineG1SlicesEqual(pk.HG1Query, other.HG1Query) {
		return false
	}
	if len(pk.VG2Query) != len(other.VG2Query) {
		return false
	}
	for i := range pk.VG2Query {
		if !pk.VG2Query[i].Equal(&other.VG2Query[i]) {
			return false
		}
	}
	return pk.Cs.Equal(other.Cs)
}

func affineG1SlicesEqual(a, b []bls12381.G1Affine) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(&b[i]) {
			return false
		}
	}
	return true
}

// WriteTo serializes the key: group queries in canonical compressed form,
// then the constraint system.
func (pk *ProvingKey) WriteTo(w io.Writer) (int64, error) {
	enc := bls12381.NewEncoder(w)
	for _, v := range []interface{}{pk.VG1Query, pk.AlphaVG1Query, pk.HG1Query, pk.VG2Query} {
		if err := enc.Encode(v); err != nil {
			return enc.BytesWritten(), err
		}
	}
	n := enc.BytesWritten()
	m, err := writeConstraintSystem(w, pk.Cs)
	return n + m, err
}

// ReadFrom deserializes a key produced by WriteTo.
func (pk *ProvingKey) ReadFrom(r io.Reader) (int64, error) {
	dec := bls12381.NewDecoder(r)
	for _, v := range []interface{}{&pk.VG1Query, &pk.AlphaVG1Query, &pk.HG1Query, &pk.VG2Query} {
		if err := dec.Decode(v); err != nil {
			return dec.BytesRead(), err
		}
	}
	n := dec.BytesRead()
	cs, m, err := readConstraintSystem(r)
	if err != nil {
		return n + m, err
	}
	pk.Cs = cs
	return n + m, nil
}

func writeConstraintSystem(w io.Writer, cs *uscs.ConstraintSystem) (int64, error) {
	var n int64
	header := []uint64{uint64(cs.NbPublic), uint64(cs.NbVariables), uint64(len(cs.Constraints))}
	for _, h := range header {
		if err := binary.Write(w, binary.BigEndian, h); err != nil {
			return n, err
		}
		n += 8
	}
	for _, c := range cs.Constraints {
		if err := binary.Write(w, binary.BigEndian, uint64(len(c))); err != nil {
			return n, err
		}
		n += 8
		for _, t := range c {
			if err := binary.Write(w, binary.BigEndian, uint64(t.VID)); err != nil {
				return n, err
			}
			n += 8
			b := t.Coeff.Bytes()
			nn, err := w.Write(b[:])
			n += int64(nn)
			if err != nil {
				return n, err
			}
		}
	}
	return n, nil
}

func readConstraintSystem(r io.Reader) (*uscs.ConstraintSystem, int64, error) {
	var n int64
	var header [3]uint64
	for i := range header {
		if err := binary.Read(r, binary.BigEndian, &header[i]); err != nil {
			return nil, n, err
		}
		n += 8
	}
	cs := uscs.NewConstraintSystem(int(header[0]), int(header[1]))
	cs.Constraints = make([]uscs.Constraint, header[2])
	var buf [fr.Bytes]byte
	for i := range cs.Constraints {
		var nbTerms uint64
		if err := binary.Read(r, binary.BigEndian, &nbTerms); err != nil {
			return nil, n, err
		}
		n += 8
		terms := make(uscs.Constraint, nbTerms)
		for j := range terms {
			var vid uint64
			if err := binary.Read(r, binary.BigEndian, &vid); err != nil {
				return nil, n, err
			}
			n += 8
			nn, err := io.ReadFull(r, buf[:])
			n += int64(nn)
			if err != nil {
				return nil, n, err
			}
			terms[j].VID = int(vid)
			if err := terms[j].Coeff.SetBytesCanonical(buf[:]); err != nil {
				return nil, n, err
			}
		}
		cs.Constraints[i] = terms
	}
	return cs, n, nil
}
