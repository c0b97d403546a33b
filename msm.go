package ssnark

import (
	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"golang.org/x/sync/errgroup"
)

// msmG1 computes Σ scalars[i]·points[i] split into chunks disjoint ranges.
// Partial sums run concurrently; the reduction is sequential and ordered, so
// the chunk count never changes the result.
func msmG1(points []bls12381.G1Affine, scalars []fr.Element, chunks int) (bls12381.G1Jac, error) {
	var acc bls12381.G1Jac
	if len(points) == 0 {
		return acc, nil
	}
	if chunks <= 1 || len(points) < 2*chunks {
		_, err := acc.MultiExp(points, scalars, ecc.MultiExpConfig{NbTasks: 1})
		return acc, err
	}

	partial := make([]bls12381.G1Jac, chunks)
	var g errgroup.Group
	step := (len(points) + chunks - 1) / chunks
	for i := 0; i < chunks; i++ {
		lo := i * step
		hi := min(lo+step, len(points))
		if lo >= hi {
			break
		}
		out := &partial[i]
		g.Go(func() error {
			_, err := out.MultiExp(points[lo:hi], scalars[lo:hi], ecc.MultiExpConfig{NbTasks: 1})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return acc, err
	}
	for i := range partial {
		acc.AddAssign(&partial[i])
	}
	return acc, nil
}

// msmG2 is the G2 counterpart of msmG1.
func msmG2(points []bls12381.G2Affine, scalars []fr.Element, chunks int) (bls12381.G2Jac, error) {
	var acc bls12381.G2Jac
	if len(points) == 0 {
		return acc, nil
	}
	if chunks <= 1 || len(points) < 2*chunks {
		_, err := acc.MultiExp(points, scalars, ecc.MultiExpConfig{NbTasks: 1})
		return acc, err
	}

	partial := make([]bls12381.G2Jac, chunks)
	var g errgroup.Group
	step := (len(points) + chunks - 1) / chunks
	for i := 0; i < chunks; i++ {
		lo := i * step
		hi := min(lo+step, len(points))
		if lo >= hi {
			break
		}
		out := &partial[i]
		g.Go(func() error {
			_, err := out.MultiExp(points[lo:hi], scalars[lo:hi], ecc.MultiExpConfig{NbTasks: 1})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return acc, err
	}
	for i := range partial {
		acc.AddAssign(&partial[i])
	}
	return acc, nil
}
