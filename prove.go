package ssnark

import (
	"fmt"
	"math/big"
	"time"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark/logger"

	"github.com/eon-protocol/ssnark/ssp"
	"github.com/eon-protocol/ssnark/uscs"
)

// Prove builds a proof that the prover knows aux such that (public, aux)
// satisfies the constraint system inside pk. The blinding scalar is sampled
// per proof and zeroized before returning.
func Prove(pk *ProvingKey, public, aux []fr.Element, opts ...Option) (*Proof, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	log := logger.Logger().With().
		Str("curve", "bls12-381").
		Str("backend", "ssnark").
		Int("nbConstraints", pk.Cs.NbConstraints()).
		Logger()
	start := time.Now()

	var d fr.Element
	if _, err := d.SetRandom(); err != nil {
		return nil, err
	}
	proof, err := proveWithRandomizer(pk, public, aux, d, cfg)
	d.SetZero()
	if err != nil {
		return nil, err
	}

	log.WithLevel(cfg.logLevel).
		Dur("took", time.Since(start)).
		Msg("prover done")
	return proof, nil
}

// proveWithRandomizer is Prove with the blinding scalar supplied by the
// caller; the proof is a deterministic function of (pk, public, aux, d).
func proveWithRandomizer(pk *ProvingKey, public, aux []fr.Element, d fr.Element, cfg config) (*Proof, error) {
	wit, err := ssp.WitnessMap(pk.Cs, public, aux, d)
	if err != nil {
		return nil, err
	}

	ni, nv, degree := wit.NbPublic, wit.NbVariables, wit.Degree
	if len(pk.VG1Query) != nv-ni+1 ||
		len(pk.AlphaVG1Query) != nv-ni+1 ||
		len(pk.HG1Query) != degree+1 ||
		len(pk.VG2Query) != nv+2 {
		return nil, fmt.Errorf("%w: proving key does not match the constraint system", uscs.ErrInvalidShape)
	}

	var dBig big.Int
	wit.D.BigInt(&dBig)

	// The V and αV accumulators start from the randomization dummy in the
	// last query slot; VG2 additionally picks up the constant slot, whose
	// coefficient is the fixed 1. HG1 starts at the identity.
	var vG1, alphaVG1, hG1 bls12381.G1Jac
	var vG2 bls12381.G2Jac
	var tmpG1 bls12381.G1Jac
	var tmpG2 bls12381.G2Jac

	tmpG1.FromAffine(&pk.VG1Query[len(pk.VG1Query)-1])
	vG1.ScalarMultiplication(&tmpG1, &dBig)

	tmpG1.FromAffine(&pk.AlphaVG1Query[len(pk.AlphaVG1Query)-1])
	alphaVG1.ScalarMultiplication(&tmpG1, &dBig)

	vG2.FromAffine(&pk.VG2Query[0])
	tmpG2.FromAffine(&pk.VG2Query[len(pk.VG2Query)-1])
	tmpG2.ScalarMultiplication(&tmpG2, &dBig)
	vG2.AddAssign(&tmpG2)

	sum, err := msmG1(pk.VG1Query[:nv-ni], wit.VCoefficients[ni+1:nv+1], cfg.parallelism)
	if err != nil {
		return nil, err
	}
	vG1.AddAssign(&sum)

	sum, err = msmG1(pk.AlphaVG1Query[:nv-ni], wit.VCoefficients[ni+1:nv+1], cfg.parallelism)
	if err != nil {
		return nil, err
	}
	alphaVG1.AddAssign(&sum)

	sum, err = msmG1(pk.HG1Query, wit.HCoefficients, cfg.parallelism)
	if err != nil {
		return nil, err
	}
	hG1.AddAssign(&sum)

	sumG2, err := msmG2(pk.VG2Query[1:nv+1], wit.VCoefficients[1:nv+1], cfg.parallelism)
	if err != nil {
		return nil, err
	}
	vG2.AddAssign(&sumG2)

	// The witness scratch holds the auxiliary assignment and the blinding
	// scalar; wipe it.
	wit.D.SetZero()
	dBig.SetInt64(0)
	zeroize(wit.VCoefficients)
	zeroize(wit.HCoefficients)

	var proof Proof
	proof.VG1.FromJacobian(&vG1)
	proof.AlphaVG1.FromJacobian(&alphaVG1)
	proof.HG1.FromJacobian(&hG1)
	proof.VG2.FromJacobian(&vG2)
	return &proof, nil
}
