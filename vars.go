package ssnark

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// g2Lines is the pairing library's precomputation of a fixed G2 argument,
// consumed by MillerLoopFixedQ.
type g2Lines = [2][len(bls12381.LoopCounter) - 1]bls12381.LineEvaluationAff

var g1Gen, g2Gen = func() (bls12381.G1Affine, bls12381.G2Affine) {
	_, _, g1, g2 := bls12381.Generators()
	return g1, g2
}()

var gtOne = func() (one bls12381.GT) {
	one.SetOne()
	return
}()
