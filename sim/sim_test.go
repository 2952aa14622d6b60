package sim

import (
	"fmt"
	"math"
	"math/cmplx"
	"testing"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/fumin/trotter/circuit"
)

const tol = 1e-6

func equalAmps(a, b []complex128) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if cmplx.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func TestGates(t *testing.T) {
	t.Parallel()
	s2 := complex(1/math.Sqrt2, 0)
	tests := []struct {
		name string
		n    int
		ops  []circuit.Op
		amps []complex128
	}{
		{
			name: "identity",
			n:    2,
			amps: []complex128{1, 0, 0, 0},
		},
		{
			name: "hadamard",
			n:    1,
			ops:  []circuit.Op{{Gate: circuit.Hadamard, Qubits: []int{0}}},
			amps: []complex128{s2, s2},
		},
		{
			name: "qubit 0 is the most significant bit",
			n:    2,
			ops:  []circuit.Op{{Gate: circuit.RX, Qubits: []int{0}, Theta: math.Pi}},
			amps: []complex128{0, 0, -1i, 0},
		},
		{
			name: "bell",
			n:    2,
			ops: []circuit.Op{
				{Gate: circuit.Hadamard, Qubits: []int{0}},
				{Gate: circuit.CNOT, Qubits: []int{0, 1}},
			},
			amps: []complex128{s2, 0, 0, s2},
		},
		{
			name: "reversed cnot",
			n:    3,
			ops: []circuit.Op{
				{Gate: circuit.RY, Qubits: []int{2}, Theta: math.Pi},
				{Gate: circuit.CNOT, Qubits: []int{2, 0}},
			},
			// |001> -> |101>
			amps: []complex128{0, 0, 0, 0, 0, 1, 0, 0},
		},
		{
			name: "rz phase",
			n:    1,
			ops: []circuit.Op{
				{Gate: circuit.Hadamard, Qubits: []int{0}},
				{Gate: circuit.RZ, Qubits: []int{0}, Theta: math.Pi / 2},
			},
			amps: []complex128{s2 * cmplx.Exp(-1i*math.Pi/4), s2 * cmplx.Exp(1i*math.Pi/4)},
		},
		{
			name: "barrier",
			n:    2,
			ops: []circuit.Op{
				{Gate: circuit.RY, Qubits: []int{1}, Theta: math.Pi},
				{Gate: circuit.Barrier, Qubits: []int{0, 1}},
			},
			amps: []complex128{0, 1, 0, 0},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			s := New(test.n)
			if err := circuit.Replay(s, test.ops); err != nil {
				t.Fatalf("%+v", err)
			}
			if amps := s.Amplitudes(); !equalAmps(amps, test.amps) {
				t.Fatalf("%v, expected %v", amps, test.amps)
			}
			if err := s.Check(); err != nil {
				t.Fatalf("%+v", err)
			}
		})
	}
}

// A ZZ rotation conjugated by CNOTs equals exp(-i theta Z Z / 2).
func TestZZRotation(t *testing.T) {
	t.Parallel()
	const theta = 0.37
	s := New(2)
	b := circuit.NewBuilder(s)
	b.H(0)
	b.H(1)
	b.CX(0, 1)
	b.RZ(theta, 1)
	b.CX(0, 1)
	if err := b.Err(); err != nil {
		t.Fatalf("%+v", err)
	}

	// ZZ eigenvalues on |00>, |01>, |10>, |11> are +1, -1, -1, +1.
	expected := make([]complex128, 4)
	for i, zz := range []float64{1, -1, -1, 1} {
		expected[i] = 0.5 * cmplx.Exp(complex(0, -theta*zz/2))
	}
	if amps := s.Amplitudes(); !equalAmps(amps, expected) {
		t.Fatalf("%v, expected %v", amps, expected)
	}
}

func TestMagnetizationZ(t *testing.T) {
	t.Parallel()
	tests := []struct {
		ops []circuit.Op
		mz  []float64
	}{
		{mz: []float64{1, 1, 1}},
		{
			ops: []circuit.Op{{Gate: circuit.RX, Qubits: []int{1}, Theta: math.Pi}},
			mz:  []float64{1, -1, 1},
		},
		{
			ops: []circuit.Op{{Gate: circuit.RY, Qubits: []int{2}, Theta: math.Pi / 2}},
			mz:  []float64{1, 1, 0},
		},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%v", test.ops), func(t *testing.T) {
			t.Parallel()
			s := New(3)
			if err := circuit.Replay(s, test.ops); err != nil {
				t.Fatalf("%+v", err)
			}
			if mz := s.MagnetizationZ(); !floats.EqualApprox(mz, test.mz, tol) {
				t.Fatalf("%v, expected %v", mz, test.mz)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	t.Parallel()
	s := New(2)
	tests := []struct {
		name string
		err  error
	}{
		{name: "hadamard", err: s.Hadamard(2)},
		{name: "rotation", err: s.Rotation(circuit.Z, 1, -1)},
		{name: "cnot target", err: s.CNOT(0, 5)},
		{name: "cnot same", err: s.CNOT(1, 1)},
		{name: "barrier", err: s.Barrier([]int{0, 1, 2})},
	}
	for _, test := range tests {
		if !errors.Is(test.err, ErrQubit) {
			t.Fatalf("%s: %+v", test.name, test.err)
		}
	}
	if amps := s.Amplitudes(); !equalAmps(amps, []complex128{1, 0, 0, 0}) {
		t.Fatalf("%v", amps)
	}
}

func TestFidelity(t *testing.T) {
	t.Parallel()
	s2 := complex(1/math.Sqrt2, 0)
	tests := []struct {
		a, b []complex128
		f    float64
	}{
		{a: []complex128{1, 0}, b: []complex128{1, 0}, f: 1},
		{a: []complex128{1, 0}, b: []complex128{0, 1i}, f: 0},
		{a: []complex128{1, 0}, b: []complex128{s2, s2}, f: 0.5},
		{a: []complex128{1i, 0}, b: []complex128{-1, 0}, f: 1},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%v %v", test.a, test.b), func(t *testing.T) {
			t.Parallel()
			if f := Fidelity(test.a, test.b); math.Abs(f-test.f) > tol {
				t.Fatalf("%f, expected %f", f, test.f)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()
	s := New(2, NewOptions().Tol(1e-3))
	b := circuit.NewBuilder(s)
	for i := range 50 {
		b.RX(0.1*float64(i), i%2)
		b.CX(i%2, 1-i%2)
		b.H(0)
	}
	if err := b.Err(); err != nil {
		t.Fatalf("%+v", err)
	}
	if err := s.Check(); err != nil {
		t.Fatalf("%+v", err)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	s := New(4)
	b := circuit.NewBuilder(s)
	for i := range 3000 {
		q := i % 4
		b.H(q)
		b.RX(0.3*float64(i%7), q)
		b.CX(q, (q+1)%4)
		b.RZ(-0.2*float64(i%5), (q+2)%4)
	}
	if err := b.Err(); err != nil {
		t.Fatalf("%+v", err)
	}

	before := s.Amplitudes()
	norm, err := s.Normalize()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if math.Abs(norm-1) > 0.1 {
		t.Fatalf("%f", norm)
	}
	if n := s.Norm(); math.Abs(n-1) > 1e-5 {
		t.Fatalf("%f", n)
	}
	if f := Fidelity(before, s.Amplitudes()); math.Abs(f/norm-1) > 1e-5 {
		t.Fatalf("%f %f", f, norm)
	}
}
