package exactdiag

import (
	"fmt"
	"math"
	"math/cmplx"
	"testing"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/fumin/trotter"
)

var (
	pauliX  = mat.NewDense(2, 2, []float64{0, 1, 1, 0})
	pauliZ  = mat.NewDense(2, 2, []float64{1, 0, 0, -1})
	pauliYY = mat.NewDense(4, 4, []float64{
		0, 0, 0, -1,
		0, 0, 1, 0,
		0, 1, 0, 0,
		-1, 0, 0, 0,
	})
)

func TestHamiltonian(t *testing.T) {
	t.Parallel()
	h := Hamiltonian(2, Terms{Jx: 1, Jy: 0.5, Hz: 0.25})
	expected := mat.NewSymDense(4, []float64{
		-0.5, 0, 0, -0.5,
		0, 0, -1.5, 0,
		0, -1.5, 0, 0,
		-0.5, 0, 0, 0.5,
	})
	if !mat.Equal(h, expected) {
		t.Fatalf("%v, expected %v", mat.Formatted(h), mat.Formatted(expected))
	}
}

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := range n {
		m.Set(i, i, 1)
	}
	return m
}

// embed returns I_{2^q} ⊗ op ⊗ I acting on n sites.
func embed(op *mat.Dense, n, q int) *mat.Dense {
	r, _ := op.Dims()
	sites := 1
	for d := r; d > 2; d /= 2 {
		sites++
	}
	var left mat.Dense
	left.Kronecker(eye(1<<q), op)
	var full mat.Dense
	full.Kronecker(&left, eye(1<<(n-q-sites)))
	return &full
}

// The explicit construction agrees with the sum of Kronecker products of Pauli matrices.
func TestHamiltonianKronecker(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n     int
		terms Terms
	}{
		{n: 2, terms: Terms{Jx: 1}},
		{n: 3, terms: Terms{Jx: 0.7, Jy: -0.2, Hz: 1.3}},
		{n: 4, terms: Terms{Jx: -1, Jy: 2, Hz: 0.5}},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%#v", test), func(t *testing.T) {
			t.Parallel()
			var xx mat.Dense
			xx.Kronecker(pauliX, pauliX)

			dim := 1 << test.n
			expected := mat.NewDense(dim, dim, nil)
			for q := range test.n - 1 {
				expected.Add(expected, scale(-test.terms.Jx, embed(&xx, test.n, q)))
				expected.Add(expected, scale(-test.terms.Jy, embed(pauliYY, test.n, q)))
			}
			for q := range test.n {
				expected.Add(expected, scale(-test.terms.Hz, embed(pauliZ, test.n, q)))
			}

			h := Hamiltonian(test.n, test.terms)
			if !mat.EqualApprox(h, expected, 1e-12) {
				t.Fatalf("%v, expected %v", mat.Formatted(h), mat.Formatted(expected))
			}
		})
	}
}

func scale(c float64, m *mat.Dense) *mat.Dense {
	var s mat.Dense
	s.Scale(c, m)
	return &s
}

func TestEvolveEigenstate(t *testing.T) {
	t.Parallel()
	const hz, tm = 0.3, 1.7
	h := Hamiltonian(2, Terms{Hz: hz})
	psi, err := Evolve(Basis(2, 0), h, tm)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	// |00> has energy -2 hz.
	expected := cmplx.Exp(complex(0, 2*hz*tm/trotter.Hbar))
	if cmplx.Abs(psi[0]-expected) > 1e-9 {
		t.Fatalf("%v, expected %v", psi[0], expected)
	}
	for _, v := range psi[1:] {
		if cmplx.Abs(v) > 1e-9 {
			t.Fatalf("%v", psi)
		}
	}
}

func TestEvolveConservation(t *testing.T) {
	t.Parallel()
	const n = 4
	h := Hamiltonian(n, Terms{Jx: 1, Jy: 0.4, Hz: 0.8})
	psi := Basis(n, 5)
	e0, err := Expectation(psi, h)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if e0 != h.At(5, 5) {
		t.Fatalf("%f, expected %f", e0, h.At(5, 5))
	}

	prop, err := NewPropagator(h, 0.25)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	for i := range 20 {
		psi, err = prop.Apply(psi)
		if err != nil {
			t.Fatalf("%+v", err)
		}

		var norm float64
		for _, v := range psi {
			norm += real(v)*real(v) + imag(v)*imag(v)
		}
		if math.Abs(norm-1) > 1e-9 {
			t.Fatalf("%d %f", i, norm)
		}
		e, err := Expectation(psi, h)
		if err != nil {
			t.Fatalf("%+v", err)
		}
		if math.Abs(e-e0) > 1e-9 {
			t.Fatalf("%d %f, expected %f", i, e, e0)
		}
	}
}

// A static field gives the same result for midpoint stepping as for a single long evolution.
func TestTFIMStepStaticField(t *testing.T) {
	t.Parallel()
	const n, steps = 3, 4
	p := trotter.TFIMParams{Jx: 0.6, Hz: 0.9, Freq: 0, Dt: 0.3}

	psi := Basis(n, 0)
	var err error
	for step := range steps {
		psi, err = TFIMStep(psi, n, step, p)
		if err != nil {
			t.Fatalf("%+v", err)
		}
	}

	expected, err := Evolve(Basis(n, 0), Hamiltonian(n, Terms{Jx: p.Jx, Hz: p.Hz}), steps*p.Dt)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	for i := range psi {
		if cmplx.Abs(psi[i]-expected[i]) > 1e-9 {
			t.Fatalf("%v, expected %v", psi, expected)
		}
	}
}

func TestErrDim(t *testing.T) {
	t.Parallel()
	h := Hamiltonian(2, Terms{Jx: 1})
	if _, err := Evolve(Basis(3, 0), h, 1); !errors.Is(err, ErrDim) {
		t.Fatalf("%+v", err)
	}
	if _, err := Expectation(Basis(1, 0), h); !errors.Is(err, ErrDim) {
		t.Fatalf("%+v", err)
	}
}
