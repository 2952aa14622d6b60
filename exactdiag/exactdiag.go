// Package exactdiag evolves small spin chains exactly, as a reference for Trotterized circuits.
//
// States are flattened state vectors in which qubit 0 is the most significant bit of the index,
// matching the convention of package sim.
package exactdiag

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/fumin/trotter"
)

var (
	ErrDim = errors.New("dimension mismatch")
)

// Terms are the coefficients of H = -Jx Σ X_q X_{q+1} - Jy Σ Y_q Y_{q+1} - Hz Σ Z_q on an open chain.
type Terms struct {
	Jx float64
	Jy float64
	Hz float64
}

// Hamiltonian returns the Hamiltonian of a chain of n sites.
// All terms are real in the computational basis, so the Hamiltonian is a real symmetric matrix.
func Hamiltonian(n int, terms Terms) *mat.SymDense {
	dim := 1 << n
	h := mat.NewSymDense(dim, nil)
	for i := range dim {
		var diag float64
		for q := range n {
			switch spin(i, n, q) {
			case 0:
				diag -= terms.Hz
			default:
				diag += terms.Hz
			}
		}
		h.SetSym(i, i, diag)

		for q := range n - 1 {
			// Both XX and YY flip the spins q and q+1.
			j := i ^ mask(n, q) ^ mask(n, q+1)
			if j < i {
				continue
			}
			v := -terms.Jx
			switch {
			case spin(i, n, q) == spin(i, n, q+1):
				v += terms.Jy
			default:
				v -= terms.Jy
			}
			h.SetSym(i, j, v)
		}
	}
	return h
}

// Propagator is exp(-i H t / Hbar) in the eigenbasis of H.
type Propagator struct {
	dim    int
	vecs   mat.Dense
	phases []complex128
}

// NewPropagator diagonalizes h and returns the propagator for time t.
func NewPropagator(h *mat.SymDense, t float64) (*Propagator, error) {
	var eig mat.EigenSym
	if ok := eig.Factorize(h, true); !ok {
		return nil, errors.Errorf("eigen decomposition failed %d", h.SymmetricDim())
	}

	p := &Propagator{dim: h.SymmetricDim()}
	eig.VectorsTo(&p.vecs)
	for _, lambda := range eig.Values(nil) {
		p.phases = append(p.phases, cmplx.Exp(complex(0, -lambda*t/trotter.Hbar)))
	}
	return p, nil
}

// Apply returns the evolved state of psi.
func (p *Propagator) Apply(psi []complex128) ([]complex128, error) {
	if len(psi) != p.dim {
		return nil, errors.Wrapf(ErrDim, "%d %d", len(psi), p.dim)
	}
	re, im := split(psi)

	// Project onto the eigenbasis.
	var cRe, cIm mat.VecDense
	cRe.MulVec(p.vecs.T(), re)
	cIm.MulVec(p.vecs.T(), im)
	for k, ph := range p.phases {
		c := complex(cRe.AtVec(k), cIm.AtVec(k)) * ph
		cRe.SetVec(k, real(c))
		cIm.SetVec(k, imag(c))
	}

	var oRe, oIm mat.VecDense
	oRe.MulVec(&p.vecs, &cRe)
	oIm.MulVec(&p.vecs, &cIm)
	return join(&oRe, &oIm), nil
}

// Evolve returns exp(-i h t / Hbar) psi.
func Evolve(psi []complex128, h *mat.SymDense, t float64) ([]complex128, error) {
	p, err := NewPropagator(h, t)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	evolved, err := p.Apply(psi)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return evolved, nil
}

// TFIMStep evolves psi exactly over the step with index step, holding the field at its value at the midpoint of the step.
func TFIMStep(psi []complex128, n, step int, p trotter.TFIMParams) ([]complex128, error) {
	t := (float64(step) + 0.5) * p.Dt
	terms := Terms{Jx: p.Jx, Hz: p.Hz * math.Cos(2*math.Pi*p.Freq*t)}
	evolved, err := Evolve(psi, Hamiltonian(n, terms), p.Dt)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("step %d", step))
	}
	return evolved, nil
}

// XYPropagator returns the exact single step propagator of the XY chain.
func XYPropagator(n int, p trotter.XYParams) (*Propagator, error) {
	prop, err := NewPropagator(Hamiltonian(n, Terms{Jx: p.Jx, Jy: p.Jy}), p.Dt)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return prop, nil
}

// Expectation returns <psi|h|psi>.
func Expectation(psi []complex128, h *mat.SymDense) (float64, error) {
	if len(psi) != h.SymmetricDim() {
		return math.NaN(), errors.Wrapf(ErrDim, "%d %d", len(psi), h.SymmetricDim())
	}
	// Since h is real, the cross terms between the real and imaginary parts cancel.
	re, im := split(psi)
	return mat.Inner(re, h, re) + mat.Inner(im, h, im), nil
}

// Basis returns the computational basis state with the given index.
func Basis(n, index int) []complex128 {
	psi := make([]complex128, 1<<n)
	psi[index] = 1
	return psi
}

func spin(i, n, q int) int {
	return (i >> (n - 1 - q)) & 1
}

func mask(n, q int) int {
	return 1 << (n - 1 - q)
}

func split(psi []complex128) (*mat.VecDense, *mat.VecDense) {
	re := mat.NewVecDense(len(psi), nil)
	im := mat.NewVecDense(len(psi), nil)
	for i, v := range psi {
		re.SetVec(i, real(v))
		im.SetVec(i, imag(v))
	}
	return re, im
}

func join(re, im *mat.VecDense) []complex128 {
	psi := make([]complex128, re.Len())
	for i := range psi {
		psi[i] = complex(re.AtVec(i), im.AtVec(i))
	}
	return psi
}
