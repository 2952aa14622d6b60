// Package sim is a dense state vector simulator that consumes a circuit gate stream.
//
// The state of n qubits is stored as a rank n tensor with one axis of dimension 2 per qubit.
// Qubit 0 is axis 0, and hence the most significant bit of the flattened amplitude index.
package sim

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/fumin/tensor"
	"github.com/pkg/errors"

	"github.com/fumin/trotter/circuit"
)

var (
	ErrQubit = errors.New("invalid qubit")
)

var (
	hadamard = [][]complex64{
		{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)},
		{complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0)},
	}
	// cnot is indexed by {control out, target out, control in, target in}.
	cnot = [][][][]complex64{
		{
			{{1, 0}, {0, 0}},
			{{0, 1}, {0, 0}},
		},
		{
			{{0, 0}, {0, 1}},
			{{0, 0}, {1, 0}},
		},
	}
)

// Options are options of the simulator.
type Options struct {
	tol float64
}

// NewOptions returns the default simulator options.
func NewOptions() Options {
	opt := Options{}
	opt.tol = 1e-4
	return opt
}

// Tol sets the tolerance of the norm check in State.Check.
func (opt Options) Tol(tol float64) Options {
	opt.tol = tol
	return opt
}

// State is the state of a register of qubits.
type State struct {
	n   int
	opt Options

	psi *tensor.Dense
	// bufs are reusable buffers for gate application.
	bufs [2]*tensor.Dense
}

// New returns the state |0...0> of n qubits.
func New(n int, options ...Options) *State {
	opt := NewOptions()
	if len(options) > 0 {
		opt = options[0]
	}

	s := &State{n: n, opt: opt}
	shape := make([]int, n)
	for i := range shape {
		shape[i] = 2
	}
	s.psi = tensor.Zeros(shape...)
	s.psi.SetAt(make([]int, n), 1)
	for i := range s.bufs {
		s.bufs[i] = tensor.Zeros(1)
	}
	return s
}

// NumQubits returns the number of qubits.
func (s *State) NumQubits() int { return s.n }

func (s *State) Rotation(axis circuit.Axis, theta float64, qubit int) error {
	if err := s.checkQubit(qubit); err != nil {
		return errors.Wrap(err, "")
	}
	var u [][]complex64
	switch axis {
	case circuit.X:
		u = rx(theta)
	case circuit.Y:
		u = ry(theta)
	case circuit.Z:
		u = rz(theta)
	default:
		return errors.Errorf("%s", axis)
	}
	s.apply1(tensor.T2(u), qubit)
	return nil
}

func (s *State) Hadamard(qubit int) error {
	if err := s.checkQubit(qubit); err != nil {
		return errors.Wrap(err, "")
	}
	s.apply1(tensor.T2(hadamard), qubit)
	return nil
}

func (s *State) CNOT(control, target int) error {
	if err := s.checkQubit(control); err != nil {
		return errors.Wrap(err, "control")
	}
	if err := s.checkQubit(target); err != nil {
		return errors.Wrap(err, "target")
	}
	if control == target {
		return errors.Wrapf(ErrQubit, "control and target %d", control)
	}
	s.apply2(tensor.T4(cnot), control, target)
	return nil
}

// Barrier has no effect on the state.
func (s *State) Barrier(qubits []int) error {
	for _, q := range qubits {
		if err := s.checkQubit(q); err != nil {
			return errors.Wrap(err, "")
		}
	}
	return nil
}

func (s *State) checkQubit(q int) error {
	if q < 0 || q >= s.n {
		return errors.Wrapf(ErrQubit, "%d not in [0, %d)", q, s.n)
	}
	return nil
}

// apply1 applies the single qubit gate u of shape {out, in} to qubit q.
func (s *State) apply1(u *tensor.Dense, q int) {
	// up is of shape {out, psi axes except q}.
	up := tensor.Contract(s.bufs[0], u, s.psi, [][2]int{{1, q}})

	// Move the out axis back to position q.
	axes := make([]int, 0, s.n)
	for i := 1; i <= q; i++ {
		axes = append(axes, i)
	}
	axes = append(axes, 0)
	for i := q + 1; i < s.n; i++ {
		axes = append(axes, i)
	}
	resetCopy(s.psi, up.Transpose(axes...))
}

// apply2 applies the two qubit gate u of shape {a out, b out, a in, b in} to qubits a and b.
func (s *State) apply2(u *tensor.Dense, a, b int) {
	// up is of shape {a out, b out, psi axes except a and b}.
	up := tensor.Contract(s.bufs[0], u, s.psi, [][2]int{{2, a}, {3, b}})

	axes := make([]int, 0, s.n)
	rest := 2
	for i := range s.n {
		switch i {
		case a:
			axes = append(axes, 0)
		case b:
			axes = append(axes, 1)
		default:
			axes = append(axes, rest)
			rest++
		}
	}
	resetCopy(s.psi, up.Transpose(axes...))
}

// Amplitudes returns the flattened state vector.
func (s *State) Amplitudes() []complex128 {
	amps := make([]complex128, 1<<s.n)
	for digits, v := range s.psi.All() {
		amps[flatIndex(digits)] = complex128(v)
	}
	return amps
}

// Norm returns <psi|psi>.
func (s *State) Norm() float64 {
	var norm float64
	for _, v := range s.psi.All() {
		norm += abs2(complex128(v))
	}
	return norm
}

// Check verifies that the state is normalized within the configured tolerance.
func (s *State) Check() error {
	if norm := s.Norm(); math.Abs(norm-1) > s.opt.tol {
		return errors.Errorf("norm %f", norm)
	}
	return nil
}

// Normalize rescales the state to unit norm and returns the norm before rescaling.
// Amplitudes are single precision, so long circuits drift away from unit norm.
func (s *State) Normalize() (float64, error) {
	norm := s.Norm()
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return norm, errors.Errorf("norm %f", norm)
	}
	s.psi.Mul(complex(float32(1/math.Sqrt(norm)), 0))
	return norm, nil
}

// MagnetizationZ returns <Z_q> for every qubit q.
func (s *State) MagnetizationZ() []float64 {
	return MagnetizationZ(s.Amplitudes(), s.n)
}

// MagnetizationZ returns <Z_q> for every qubit q of the flattened state amps.
func MagnetizationZ(amps []complex128, n int) []float64 {
	if len(amps) != 1<<n {
		panic(fmt.Sprintf("%d %d", len(amps), n))
	}
	mz := make([]float64, n)
	for i, v := range amps {
		p := abs2(v)
		for q := range n {
			if i&(1<<(n-1-q)) == 0 {
				mz[q] += p
			} else {
				mz[q] -= p
			}
		}
	}
	return mz
}

// Fidelity returns |<a|b>|^2.
func Fidelity(a, b []complex128) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("%d %d", len(a), len(b)))
	}
	var ip complex128
	for i, v := range a {
		ip += cmplx.Conj(v) * b[i]
	}
	return abs2(ip)
}

func rx(theta float64) [][]complex64 {
	c, s := cos(theta/2), sin(theta/2)
	return [][]complex64{
		{complex(c, 0), complex(0, -s)},
		{complex(0, -s), complex(c, 0)},
	}
}

func ry(theta float64) [][]complex64 {
	c, s := cos(theta/2), sin(theta/2)
	return [][]complex64{
		{complex(c, 0), complex(-s, 0)},
		{complex(s, 0), complex(c, 0)},
	}
}

func rz(theta float64) [][]complex64 {
	c, s := cos(theta/2), sin(theta/2)
	return [][]complex64{
		{complex(c, -s), 0},
		{0, complex(c, s)},
	}
}

func cos(x float64) float32 { return float32(math.Cos(x)) }
func sin(x float64) float32 { return float32(math.Sin(x)) }

func abs2(v complex128) float64 {
	return real(v)*real(v) + imag(v)*imag(v)
}

// flatIndex returns the row major index of the binary digits.
func flatIndex(digits []int) int {
	idx := 0
	for _, d := range digits {
		idx = idx<<1 | d
	}
	return idx
}

func resetCopy(dst, src *tensor.Dense) *tensor.Dense {
	shape := src.Shape()
	zeroDigit := make([]int, len(shape))
	dst.Reset(shape...).Set(zeroDigit, src)
	return dst
}
