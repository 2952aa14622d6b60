package circuit

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Recorder is a Sink that keeps the emitted ops in memory.
type Recorder struct {
	Ops []Op
}

func (r *Recorder) Rotation(axis Axis, theta float64, qubit int) error {
	r.Ops = append(r.Ops, Op{Gate: axis.Gate(), Qubits: []int{qubit}, Theta: theta})
	return nil
}

func (r *Recorder) Hadamard(qubit int) error {
	r.Ops = append(r.Ops, Op{Gate: Hadamard, Qubits: []int{qubit}})
	return nil
}

func (r *Recorder) CNOT(control, target int) error {
	r.Ops = append(r.Ops, Op{Gate: CNOT, Qubits: []int{control, target}})
	return nil
}

func (r *Recorder) Barrier(qubits []int) error {
	r.Ops = append(r.Ops, Op{Gate: Barrier, Qubits: slices.Clone(qubits)})
	return nil
}

// Reset discards the recorded ops.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}

// Count returns the number of recorded ops of gate g.
func (r *Recorder) Count(g Gate) int {
	var n int
	for _, op := range r.Ops {
		if op.Gate == g {
			n++
		}
	}
	return n
}

// Equal reports whether r and b recorded bit-identical streams.
func (r *Recorder) Equal(b *Recorder) bool {
	return slices.EqualFunc(r.Ops, b.Ops, Op.Equal)
}

func (r *Recorder) String() string {
	ss := make([]string, 0, len(r.Ops))
	for _, op := range r.Ops {
		ss = append(ss, op.String())
	}
	return strings.Join(ss, "; ")
}

// Multi fans a gate stream out to several sinks.
// Emission stops at the first sink that fails.
type Multi []Sink

func (m Multi) Rotation(axis Axis, theta float64, qubit int) error {
	for i, s := range m {
		if err := s.Rotation(axis, theta, qubit); err != nil {
			return errors.Wrapf(err, "sink %d", i)
		}
	}
	return nil
}

func (m Multi) Hadamard(qubit int) error {
	for i, s := range m {
		if err := s.Hadamard(qubit); err != nil {
			return errors.Wrapf(err, "sink %d", i)
		}
	}
	return nil
}

func (m Multi) CNOT(control, target int) error {
	for i, s := range m {
		if err := s.CNOT(control, target); err != nil {
			return errors.Wrapf(err, "sink %d", i)
		}
	}
	return nil
}

func (m Multi) Barrier(qubits []int) error {
	for i, s := range m {
		if err := s.Barrier(qubits); err != nil {
			return errors.Wrapf(err, "sink %d", i)
		}
	}
	return nil
}
