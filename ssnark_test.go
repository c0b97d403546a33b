package ssnark

import (
	"bytes"
	"errors"
	"testing"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/eon-protocol/ssnark/ssp"
	"github.com/eon-protocol/ssnark/uscs"
)

func term(vid int, c int64) uscs.Term {
	var t uscs.Term
	t.VID = vid
	t.Coeff.SetInt64(c)
	return t
}

func elems(vs ...int64) []fr.Element {
	out := make([]fr.Element, len(vs))
	for i, v := range vs {
		out[i].SetInt64(v)
	}
	return out
}

// trivialSystem is the single-constraint circuit x₁² = 1.
func trivialSystem() *uscs.ConstraintSystem {
	cs := uscs.NewConstraintSystem(1, 1)
	cs.AddConstraint(term(1, 1))
	return cs
}

// paddedSystem has three public inputs and one auxiliary variable; satisfied
// by x = (1, 1, 0), y = (±1). The third input enters through 1 + x₃.
func paddedSystem() *uscs.ConstraintSystem {
	cs := uscs.NewConstraintSystem(3, 4)
	cs.AddConstraint(term(1, 1))
	cs.AddConstraint(term(2, 1))
	cs.AddConstraint(term(0, 1), term(3, 1))
	cs.AddConstraint(term(4, 1))
	return cs
}

// widerSystem exercises several auxiliary variables and constraint shapes;
// satisfied by x = (1, −1), y = (1, −1, 1, −1).
func widerSystem() (*uscs.ConstraintSystem, []fr.Element, []fr.Element) {
	cs := uscs.NewConstraintSystem(2, 6)
	cs.AddConstraint(term(1, 1))
	cs.AddConstraint(term(2, 1))
	cs.AddConstraint(term(3, 1))
	cs.AddConstraint(term(1, 1), term(4, 2))
	cs.AddConstraint(term(0, 1), term(3, -1), term(5, 1))
	cs.AddConstraint(term(6, 1))
	return cs, elems(1, -1), elems(1, -1, 1, -1)
}

func mustSetup(t *testing.T, cs *uscs.ConstraintSystem, opts ...Option) *Keypair {
	t.Helper()
	kp, err := Setup(cs, opts...)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	return kp
}

func mustProve(t *testing.T, pk *ProvingKey, public, aux []fr.Element, opts ...Option) *Proof {
	t.Helper()
	proof, err := Prove(pk, public, aux, opts...)
	if err != nil {
		t.Fatalf("prove: %v", err)
	}
	return proof
}

func TestSetupProveVerify(t *testing.T) {
	t.Run("trivial circuit", func(t *testing.T) {
		kp := mustSetup(t, trivialSystem())
		proof := mustProve(t, kp.Pk, elems(1), nil)
		if !VerifyStrongIC(kp.Vk, elems(1), proof) {
			t.Error("strong-IC verifier rejected a valid proof")
		}
		if !VerifyWeakIC(kp.Vk, elems(1), proof) {
			t.Error("weak-IC verifier rejected a valid proof")
		}
	})

	t.Run("negated input", func(t *testing.T) {
		kp := mustSetup(t, trivialSystem())
		proof := mustProve(t, kp.Pk, elems(-1), nil)
		if !VerifyStrongIC(kp.Vk, elems(-1), proof) {
			t.Error("strong-IC verifier rejected x = −1")
		}
	})

	t.Run("wider circuit", func(t *testing.T) {
		cs, public, aux := widerSystem()
		kp := mustSetup(t, cs)
		proof := mustProve(t, kp.Pk, public, aux, WithParallelism(4))
		if !VerifyStrongIC(kp.Vk, public, proof) {
			t.Error("strong-IC verifier rejected a valid proof")
		}
	})
}

func TestKeyShapes(t *testing.T) {
	cs, _, _ := widerSystem()
	kp := mustSetup(t, cs)

	nv, ni := cs.NbVariables, cs.NbPublic
	degree := 8
	if got := len(kp.Pk.VG1Query); got != nv-ni+1 {
		t.Errorf("len(VG1Query) = %d, want %d", got, nv-ni+1)
	}
	if got := len(kp.Pk.AlphaVG1Query); got != nv-ni+1 {
		t.Errorf("len(AlphaVG1Query) = %d, want %d", got, nv-ni+1)
	}
	if got := len(kp.Pk.HG1Query); got != degree+1 {
		t.Errorf("len(HG1Query) = %d, want %d", got, degree+1)
	}
	if got := len(kp.Pk.VG2Query); got != nv+2 {
		t.Errorf("len(VG2Query) = %d, want %d", got, nv+2)
	}
	if got := kp.Vk.EncodedIC.DomainSize(); got != ni {
		t.Errorf("EncodedIC.DomainSize() = %d, want %d", got, ni)
	}
	if !kp.Pk.Cs.Equal(cs) {
		t.Error("proving key does not carry a faithful copy of the constraint system")
	}
}

func TestProofShape(t *testing.T) {
	kp := mustSetup(t, trivialSystem())
	proof := mustProve(t, kp.Pk, elems(1), nil)

	if proof.G1Size() != 3 || proof.G2Size() != 1 {
		t.Errorf("proof shape %d/%d, want 3 G1 and 1 G2", proof.G1Size(), proof.G2Size())
	}
	if !proof.IsWellFormed() {
		t.Error("honest proof is not well formed")
	}

	var zero Proof
	if zero.IsWellFormed() {
		t.Error("zero-value proof must not be well formed")
	}
	if VerifyStrongIC(kp.Vk, elems(1), &zero) {
		t.Error("zero-value proof accepted")
	}
}

func TestUnsatisfiedWitness(t *testing.T) {
	kp := mustSetup(t, trivialSystem())
	_, err := Prove(kp.Pk, elems(2), nil)
	if !errors.Is(err, ssp.ErrUnsatisfiedWitness) {
		t.Fatalf("expected ErrUnsatisfiedWitness, got %v", err)
	}
}

func TestWeakICPadding(t *testing.T) {
	cs := paddedSystem()
	kp := mustSetup(t, cs)
	proof := mustProve(t, kp.Pk, elems(1, 1, 0), elems(-1))

	if !VerifyWeakIC(kp.Vk, elems(1, 1, 0), proof) {
		t.Error("weak-IC verifier rejected the full input")
	}
	if !VerifyWeakIC(kp.Vk, elems(1, 1), proof) {
		t.Error("weak-IC verifier rejected an implicitly zero-padded input")
	}
	if VerifyStrongIC(kp.Vk, elems(1, 1), proof) {
		t.Error("strong-IC verifier accepted a short input")
	}
	if !VerifyStrongIC(kp.Vk, elems(1, 1, 0), proof) {
		t.Error("strong-IC verifier rejected the full input")
	}
	if VerifyWeakIC(kp.Vk, elems(1, 1, 0, 0), proof) {
		t.Error("weak-IC verifier accepted an input longer than the domain")
	}
}

func TestOnlineEquivalence(t *testing.T) {
	cs := paddedSystem()
	kp := mustSetup(t, cs)
	proof := mustProve(t, kp.Pk, elems(1, 1, 0), elems(1))
	pvk, err := ProcessVerifyingKey(kp.Vk)
	if err != nil {
		t.Fatal(err)
	}

	inputs := [][]fr.Element{
		elems(1, 1, 0),
		elems(1, 1),
		elems(-1, 1, 0),
	}
	for _, x := range inputs {
		if VerifyWeakIC(kp.Vk, x, proof) != OnlineVerifyWeakIC(pvk, x, proof) {
			t.Errorf("weak-IC online/offline mismatch for %d inputs", len(x))
		}
		if VerifyStrongIC(kp.Vk, x, proof) != OnlineVerifyStrongIC(pvk, x, proof) {
			t.Errorf("strong-IC online/offline mismatch for %d inputs", len(x))
		}
	}
}

func TestTamperedProofRejected(t *testing.T) {
	cs, public, aux := widerSystem()
	kp := mustSetup(t, cs)
	pvk, err := ProcessVerifyingKey(kp.Vk)
	if err != nil {
		t.Fatal(err)
	}
	proof := mustProve(t, kp.Pk, public, aux)

	tamperG1 := func(p *bls12381.G1Affine) {
		p.Add(p, &g1Gen)
	}

	cases := map[string]func(*Proof){
		"VG1":      func(p *Proof) { tamperG1(&p.VG1) },
		"AlphaVG1": func(p *Proof) { tamperG1(&p.AlphaVG1) },
		"HG1":      func(p *Proof) { tamperG1(&p.HG1) },
		"VG2":      func(p *Proof) { p.VG2.Add(&p.VG2, &g2Gen) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			bad := *proof
			mutate(&bad)
			if !bad.IsWellFormed() {
				t.Fatal("tampered proof should still be on-curve")
			}
			if OnlineVerifyStrongIC(pvk, public, &bad) {
				t.Error("tampered proof accepted")
			}
		})
	}
}

func TestWrongStatementRejected(t *testing.T) {
	kp := mustSetup(t, trivialSystem())
	proof := mustProve(t, kp.Pk, elems(1), nil)

	// −1 also satisfies the circuit, but the proof binds x = 1.
	if VerifyStrongIC(kp.Vk, elems(-1), proof) {
		t.Error("proof accepted under a different statement")
	}
}

func TestStrongICLengthCheck(t *testing.T) {
	cs := paddedSystem()
	kp := mustSetup(t, cs)
	proof := mustProve(t, kp.Pk, elems(1, 1, 0), elems(1))

	for _, x := range [][]fr.Element{nil, elems(1), elems(1, 1), elems(1, 1, 0, 0)} {
		if VerifyStrongIC(kp.Vk, x, proof) {
			t.Errorf("strong-IC verifier accepted %d inputs for a 3-input circuit", len(x))
		}
	}
}

func TestKeyMismatchRejected(t *testing.T) {
	cs := trivialSystem()
	kp1 := mustSetup(t, cs)
	kp2 := mustSetup(t, cs)

	if kp1.Vk.Equal(kp2.Vk) {
		t.Fatal("independent setups produced identical verification keys")
	}

	proof := mustProve(t, kp1.Pk, elems(1), nil)
	if VerifyStrongIC(kp2.Vk, elems(1), proof) {
		t.Error("proof under pk₁ accepted by vk₂")
	}
}

func TestProverDeterminism(t *testing.T) {
	cs, public, aux := widerSystem()
	kp := mustSetup(t, cs)

	var d fr.Element
	if _, err := d.SetRandom(); err != nil {
		t.Fatal(err)
	}

	cfg1 := defaultConfig()
	cfg4 := defaultConfig()
	cfg4.parallelism = 4

	p1, err := proveWithRandomizer(kp.Pk, public, aux, d, cfg1)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := proveWithRandomizer(kp.Pk, public, aux, d, cfg1)
	if err != nil {
		t.Fatal(err)
	}
	p4, err := proveWithRandomizer(kp.Pk, public, aux, d, cfg4)
	if err != nil {
		t.Fatal(err)
	}

	if !p1.Equal(p2) {
		t.Error("same randomizer produced different proofs")
	}
	if !p1.Equal(p4) {
		t.Error("chunk count changed the proof")
	}
	if !VerifyStrongIC(kp.Vk, public, p1) {
		t.Error("deterministic proof rejected")
	}
}

func TestAccumulationVectorChunks(t *testing.T) {
	cs := paddedSystem()
	kp := mustSetup(t, cs)
	x := elems(1, 1, 0)

	full, err := kp.Vk.EncodedIC.AccumulateChunk(x, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !full.IsFullyAccumulated() {
		t.Fatal("full chunk did not exhaust the domain")
	}

	part, err := kp.Vk.EncodedIC.AccumulateChunk(x[:1], 0)
	if err != nil {
		t.Fatal(err)
	}
	if part.IsFullyAccumulated() {
		t.Fatal("partial chunk reported full accumulation")
	}
	rest, err := part.AccumulateChunk(x[1:], 1)
	if err != nil {
		t.Fatal(err)
	}
	if !rest.IsFullyAccumulated() {
		t.Fatal("chunked accumulation did not exhaust the domain")
	}
	if !rest.First.Equal(&full.First) {
		t.Error("chunked accumulation differs from single-chunk accumulation")
	}

	if _, err := part.AccumulateChunk(x[1:], 0); err == nil {
		t.Error("out-of-order chunk accepted")
	}
	if _, err := kp.Vk.EncodedIC.AccumulateChunk(elems(1, 1, 1, 1), 0); err == nil {
		t.Error("oversized chunk accepted")
	}
}

func TestSerializationRoundTrip(t *testing.T) {
	cs, public, aux := widerSystem()
	kp := mustSetup(t, cs)
	proof := mustProve(t, kp.Pk, public, aux)

	t.Run("proof", func(t *testing.T) {
		var buf bytes.Buffer
		if _, err := proof.WriteTo(&buf); err != nil {
			t.Fatal(err)
		}
		var back Proof
		if _, err := back.ReadFrom(&buf); err != nil {
			t.Fatal(err)
		}
		if !back.Equal(proof) {
			t.Error("proof round trip changed the proof")
		}
		if !VerifyStrongIC(kp.Vk, public, &back) {
			t.Error("deserialized proof rejected")
		}
	})

	t.Run("verification key", func(t *testing.T) {
		var buf bytes.Buffer
		if _, err := kp.Vk.WriteTo(&buf); err != nil {
			t.Fatal(err)
		}
		var back VerifyingKey
		if _, err := back.ReadFrom(&buf); err != nil {
			t.Fatal(err)
		}
		if !back.Equal(kp.Vk) {
			t.Error("verification key round trip changed the key")
		}
		if !VerifyStrongIC(&back, public, proof) {
			t.Error("deserialized verification key rejected a valid proof")
		}
	})

	t.Run("proving key", func(t *testing.T) {
		var buf bytes.Buffer
		if _, err := kp.Pk.WriteTo(&buf); err != nil {
			t.Fatal(err)
		}
		var back ProvingKey
		if _, err := back.ReadFrom(&buf); err != nil {
			t.Fatal(err)
		}
		if !back.Equal(kp.Pk) {
			t.Error("proving key round trip changed the key")
		}
		reproof := mustProve(t, &back, public, aux)
		if !VerifyStrongIC(kp.Vk, public, reproof) {
			t.Error("proof under deserialized proving key rejected")
		}
	})
}

func TestProcessedKeyEquality(t *testing.T) {
	kp := mustSetup(t, trivialSystem())
	pvk1, err := ProcessVerifyingKey(kp.Vk)
	if err != nil {
		t.Fatal(err)
	}
	pvk2, err := ProcessVerifyingKey(kp.Vk)
	if err != nil {
		t.Fatal(err)
	}
	if !pvk1.Equal(pvk2) {
		t.Error("processing the same key twice produced different results")
	}
}

func TestSetupRejectsMalformedSystem(t *testing.T) {
	cs := uscs.NewConstraintSystem(2, 1)
	cs.AddConstraint(term(1, 1))
	if _, err := Setup(cs); !errors.Is(err, uscs.ErrInvalidShape) {
		t.Fatalf("expected ErrInvalidShape, got %v", err)
	}
}

func TestSetupRejectsUnusedInput(t *testing.T) {
	// x₂ appears in no constraint, so V₂(t) = 0 and the encoded IC query
	// would be degenerate.
	cs := uscs.NewConstraintSystem(2, 2)
	cs.AddConstraint(term(1, 1))
	if _, err := Setup(cs); !errors.Is(err, ErrDegenerateInputQuery) {
		t.Fatalf("expected ErrDegenerateInputQuery, got %v", err)
	}
}

func TestObserverAndOptions(t *testing.T) {
	var seen []string
	obs := func(label string, sizeInBits int) {
		if sizeInBits <= 0 {
			t.Errorf("observer got non-positive size for %s", label)
		}
		seen = append(seen, label)
	}
	kp := mustSetup(t, trivialSystem(), WithObserver(obs))
	if len(seen) != 2 {
		t.Errorf("observer called %d times, want 2", len(seen))
	}
	if kp.Pk.SizeInBits() <= 0 || kp.Vk.SizeInBits() <= 0 {
		t.Error("non-positive key sizes")
	}

	if _, err := Setup(trivialSystem(), WithParallelism(0)); err == nil {
		t.Error("WithParallelism(0) accepted")
	}
}
