// Package trotter emits Trotterized time evolution circuits for the Transverse-Field Ising and XY spin chains.
//
// A single step of duration Dt approximates exp(-i H Dt / Hbar) for
//
//	TFIM: H(t) = -Jx Σ X_q X_{q+1} - Hz cos(2π Freq t) Σ Z_q
//	XY:   H    = -Jx Σ X_q X_{q+1} - Jy Σ Y_q Y_{q+1}
//
// on an open chain, with each two-site term realized as a ZZ rotation conjugated into the X or Y basis.
package trotter

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/fumin/trotter/circuit"
)

// Hbar is the reduced Planck constant in eV·fs.
const Hbar = 0.658212

var (
	ErrSites = errors.New("at least two sites are required")
	ErrSteps = errors.New("negative number of time steps")
)

// TFIMParams are the parameters of the driven Transverse-Field Ising chain.
type TFIMParams struct {
	// Jx is the XX coupling in eV.
	Jx float64
	// Hz is the amplitude of the transverse field in eV.
	Hz float64
	// Freq is the drive frequency of the field in 1/fs.
	Freq float64
	// Dt is the time step in fs.
	Dt float64
}

// XYParams are the parameters of the XY chain.
type XYParams struct {
	Jx float64
	Jy float64
	Dt float64
}

// TFIMAngles returns the XX and field rotation angles of a step.
// The field is evaluated at the midpoint of the step.
func TFIMAngles(p TFIMParams, step int) (psiX, psiZ float64) {
	psiX = -2 * p.Jx * p.Dt / Hbar
	t := (float64(step) + 0.5) * p.Dt
	psiZ = -2 * p.Hz * math.Cos(2*math.Pi*p.Freq*t) * p.Dt / Hbar
	return psiX, psiZ
}

// XYAngles returns the XX and YY rotation angles.
func XYAngles(p XYParams) (psiX, psiY float64) {
	psiX = -2 * p.Jx * p.Dt / Hbar
	psiY = -2 * p.Jy * p.Dt / Hbar
	return psiX, psiY
}

// TFIMGateCount is the number of gates TFIM emits.
func TFIMGateCount(numTimeSteps, n int) int {
	return numTimeSteps * (7*(n-1) + n)
}

// XYGateCount is the number of gates XY emits.
func XYGateCount(numTimeSteps, n int) int {
	return numTimeSteps * 14 * (n - 1)
}

// TFIM emits numTimeSteps Trotter steps of the Transverse-Field Ising chain of n sites.
func TFIM(sink circuit.Sink, numTimeSteps, n int, p TFIMParams) error {
	if err := validate(numTimeSteps, n); err != nil {
		return errors.Wrap(err, "")
	}

	b := circuit.NewBuilder(sink)
	for step := range numTimeSteps {
		tfimStep(b, step, n, p)
	}
	if err := b.Err(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// TFIMStep emits the Trotter step with index step.
func TFIMStep(sink circuit.Sink, step, n int, p TFIMParams) error {
	if err := validate(step, n); err != nil {
		return errors.Wrap(err, "")
	}

	b := circuit.NewBuilder(sink)
	tfimStep(b, step, n, p)
	if err := b.Err(); err != nil {
		return errors.Wrap(err, fmt.Sprintf("step %d", step))
	}
	return nil
}

// XY emits numTimeSteps Trotter steps of the XY chain of n sites.
func XY(sink circuit.Sink, numTimeSteps, n int, p XYParams) error {
	if err := validate(numTimeSteps, n); err != nil {
		return errors.Wrap(err, "")
	}

	b := circuit.NewBuilder(sink)
	for range numTimeSteps {
		xyStep(b, n, p)
	}
	if err := b.Err(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// XYStep emits a single Trotter step of the XY chain.
// All steps are identical since the Hamiltonian is time independent.
func XYStep(sink circuit.Sink, n int, p XYParams) error {
	if err := validate(0, n); err != nil {
		return errors.Wrap(err, "")
	}

	b := circuit.NewBuilder(sink)
	xyStep(b, n, p)
	if err := b.Err(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func validate(steps, n int) error {
	if n < 2 {
		return errors.Wrapf(ErrSites, "%d", n)
	}
	if steps < 0 {
		return errors.Wrapf(ErrSteps, "%d", steps)
	}
	return nil
}

func tfimStep(b *circuit.Builder, step, n int, p TFIMParams) {
	psiX, psiZ := TFIMAngles(p, step)
	for q := range n - 1 {
		xx(b, q, psiX)
	}
	for q := range n {
		b.RZ(psiZ, q)
	}
}

func xyStep(b *circuit.Builder, n int, p XYParams) {
	psiX, psiY := XYAngles(p)
	for q := range n - 1 {
		xx(b, q, psiX)
	}
	for q := range n - 1 {
		yy(b, q, psiY)
	}
}

// xx emits exp(-i psi X_q X_{q+1} / 2).
func xx(b *circuit.Builder, q int, psi float64) {
	b.H(q)
	b.H(q + 1)
	zz(b, q, psi)
	b.H(q)
	b.H(q + 1)
}

// yy emits exp(-i psi Y_q Y_{q+1} / 2).
func yy(b *circuit.Builder, q int, psi float64) {
	b.RX(-math.Pi/2, q)
	b.RX(-math.Pi/2, q+1)
	zz(b, q, psi)
	b.RX(math.Pi/2, q)
	b.RX(math.Pi/2, q+1)
}

// zz emits exp(-i psi Z_q Z_{q+1} / 2).
func zz(b *circuit.Builder, q int, psi float64) {
	b.CX(q, q+1)
	b.RZ(psi, q+1)
	b.CX(q, q+1)
}
