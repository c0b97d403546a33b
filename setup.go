package ssnark

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark/logger"
	"github.com/schollz/progressbar/v3"

	"github.com/eon-protocol/ssnark/ssp"
	"github.com/eon-protocol/ssnark/uscs"
)

// ErrDegenerateInputQuery reports that a public-input polynomial vanished at
// the trapdoor point, which would make the encoded input-consistency query
// degenerate. It happens when a public input occurs in no constraint (or
// with negligible probability over the trapdoor sampling).
var ErrDegenerateInputQuery = errors.New("ssnark: public-input polynomial vanishes at the evaluation point")

// Keypair owns the proving and verification keys for one constraint system.
type Keypair struct {
	Pk *ProvingKey
	Vk *VerifyingKey
}

// Setup samples the trapdoor (t, α, τ), evaluates the USCS→SSP reduction at
// t and encodes the result into a proving and a verification key. The
// trapdoor scalars are zeroized before returning; only their group encodings
// survive.
func Setup(cs *uscs.ConstraintSystem, opts ...Option) (*Keypair, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	log := logger.Logger().With().
		Str("curve", "bls12-381").
		Str("backend", "ssnark").
		Int("nbConstraints", cs.NbConstraints()).
		Logger()
	start := time.Now()

	if err := cs.Validate(); err != nil {
		return nil, err
	}

	var t fr.Element
	var inst *ssp.InstanceEvaluation
	for {
		if _, err := t.SetRandom(); err != nil {
			return nil, err
		}
		inst, err = ssp.InstanceMapWithEvaluation(cs, &t)
		if errors.Is(err, ssp.ErrDegenerateEvaluationPoint) {
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}

	// Vt table with the DFGK randomization dummy V_{nv+1}(t) = Z(t) appended,
	// then split at the public-input boundary.
	vtTable := make([]fr.Element, 0, inst.NbVariables+2)
	vtTable = append(vtTable, inst.Vt...)
	vtTable = append(vtTable, inst.Zt)
	xtTable := vtTable[:inst.NbPublic+1]
	vtMinusXt := vtTable[inst.NbPublic+1:]

	for i := range xtTable {
		if xtTable[i].IsZero() {
			return nil, fmt.Errorf("%w: input %d", ErrDegenerateInputQuery, i)
		}
	}

	var alpha, tau, alphaTau fr.Element
	if _, err := alpha.SetRandom(); err != nil {
		return nil, err
	}
	if _, err := tau.SetRandom(); err != nil {
		return nil, err
	}
	alphaTau.Mul(&alpha, &tau)

	g1ExpCount := len(vtTable) + len(vtMinusXt) + len(inst.Ht)
	g2ExpCount := len(vtTable)

	var bar *progressbar.ProgressBar
	if cfg.progress {
		bar = progressbar.Default(int64(g1ExpCount+g2ExpCount), "ssnark setup")
	}
	step := func(n int) {
		if bar != nil {
			_ = bar.Add(n)
		}
	}

	alphaVtMinusXt := make([]fr.Element, len(vtMinusXt))
	for i := range vtMinusXt {
		alphaVtMinusXt[i].Mul(&alpha, &vtMinusXt[i])
	}

	vG1Query := bls12381.BatchScalarMultiplicationG1(&g1Gen, vtMinusXt)
	step(len(vtMinusXt))
	alphaVG1Query := bls12381.BatchScalarMultiplicationG1(&g1Gen, alphaVtMinusXt)
	step(len(alphaVtMinusXt))
	hG1Query := bls12381.BatchScalarMultiplicationG1(&g1Gen, inst.Ht)
	step(len(inst.Ht))
	vG2Query := bls12381.BatchScalarMultiplicationG2(&g2Gen, vtTable)
	step(len(vtTable))

	var icBase bls12381.G1Affine
	var icBaseJac bls12381.G1Jac
	var b big.Int
	icBaseJac.ScalarMultiplicationBase(xtTable[0].BigInt(&b))
	icBase.FromJacobian(&icBaseJac)

	var icValues []bls12381.G1Affine
	if len(xtTable) > 1 {
		icValues = bls12381.BatchScalarMultiplicationG1(&g1Gen, xtTable[1:])
	}
	step(len(xtTable) - 1)

	var tildeG2, alphaTildeG2, zG2 bls12381.G2Affine
	var jac bls12381.G2Jac
	tildeG2.FromJacobian(jac.ScalarMultiplicationBase(tau.BigInt(&b)))
	alphaTildeG2.FromJacobian(jac.ScalarMultiplicationBase(alphaTau.BigInt(&b)))
	zG2.FromJacobian(jac.ScalarMultiplicationBase(inst.Zt.BigInt(&b)))
	if bar != nil {
		_ = bar.Finish()
	}

	vk := &VerifyingKey{
		TildeG2:      tildeG2,
		AlphaTildeG2: alphaTildeG2,
		ZG2:          zG2,
		EncodedIC: AccumulationVector{
			First: icBase,
			Rest:  icValues,
		},
	}
	pk := &ProvingKey{
		VG1Query:      vG1Query,
		AlphaVG1Query: alphaVG1Query,
		HG1Query:      hG1Query,
		VG2Query:      vG2Query,
		Cs:            cs.Clone(),
	}

	// The trapdoor and every scalar derived from it are the soundness
	// secret; wipe them before handing the keys out.
	t.SetZero()
	alpha.SetZero()
	tau.SetZero()
	alphaTau.SetZero()
	b.SetInt64(0)
	zeroize(vtTable)
	zeroize(alphaVtMinusXt)
	zeroize(inst.Vt)
	zeroize(inst.Ht)
	inst.Zt.SetZero()

	if cfg.observer != nil {
		cfg.observer("proving key", pk.SizeInBits())
		cfg.observer("verification key", vk.SizeInBits())
	}
	log.WithLevel(cfg.logLevel).
		Dur("took", time.Since(start)).
		Int("degree", inst.Degree).
		Int("nbG1", pk.G1Size()+vk.G1Size()).
		Int("nbG2", pk.G2Size()+vk.G2Size()).
		Msg("setup done")

	return &Keypair{Pk: pk, Vk: vk}, nil
}

func zeroize(v []fr.Element) {
	for i := range v {
		v[i].SetZero()
	}
}
