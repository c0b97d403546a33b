// Package ssnark implements a preprocessing zkSNARK for Unitary-Square
// Constraint Systems over BLS12-381, instantiating the Square Span Program
// protocol of Danezis-Fournet-Groth-Kohlweiss (ASIACRYPT 2014,
// https://eprint.iacr.org/2014/718) with the batching and preprocessing
// optimizations of Ben-Sasson-Chiesa-Tromer-Virza (USENIX Security 2014,
// https://eprint.iacr.org/2013/879).
//
// The circuit-specific SRS is produced by Setup, proofs by Prove, and
// verification comes in four variants: weak or strong input consistency,
// against a plain or a preprocessed verification key. A proof is three G1
// elements and one G2 element regardless of circuit size; online
// verification costs three pairing products plus one multi-scalar
// multiplication of public-input length.
package ssnark
