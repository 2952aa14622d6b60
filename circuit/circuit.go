// Package circuit defines the gate stream emitted by the circuit generators and the sinks that consume it.
package circuit

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Gate is the type of an emitted instruction.
type Gate int

const (
	Hadamard Gate = iota
	CNOT
	RX
	RY
	RZ
	Barrier
)

var gateNames = [...]string{
	Hadamard: "h",
	CNOT:     "cx",
	RX:       "rx",
	RY:       "ry",
	RZ:       "rz",
	Barrier:  "barrier",
}

func (g Gate) String() string {
	if g < 0 || int(g) >= len(gateNames) {
		return fmt.Sprintf("Gate(%d)", int(g))
	}
	return gateNames[g]
}

// ParseGate is the inverse of Gate.String.
func ParseGate(s string) (Gate, error) {
	for g, name := range gateNames {
		if name == s {
			return Gate(g), nil
		}
	}
	return -1, errors.Errorf("unknown gate %q", s)
}

// Axis is the axis of a single qubit rotation.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

func (a Axis) String() string {
	switch a {
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Gate returns the rotation gate about a.
func (a Axis) Gate() Gate {
	switch a {
	case X:
		return RX
	case Y:
		return RY
	default:
		return RZ
	}
}

// Op is a single emitted instruction.
// For CNOT, Qubits is {control, target}.
type Op struct {
	Gate   Gate
	Qubits []int
	Theta  float64
}

func (op Op) String() string {
	qs := make([]string, 0, len(op.Qubits))
	for _, q := range op.Qubits {
		qs = append(qs, fmt.Sprintf("q[%d]", q))
	}
	name := op.Gate.String()
	if op.Gate.Rotation() {
		name = fmt.Sprintf("%s(%s)", name, strconv.FormatFloat(op.Theta, 'g', -1, 64))
	}
	return fmt.Sprintf("%s %s", name, strings.Join(qs, ","))
}

// Equal reports whether op and b are bit-identical.
func (op Op) Equal(b Op) bool {
	return op.Gate == b.Gate && slices.Equal(op.Qubits, b.Qubits) && op.Theta == b.Theta
}

// Rotation reports whether g carries an angle.
func (g Gate) Rotation() bool {
	return g == RX || g == RY || g == RZ
}

// Sink consumes an ordered gate stream.
type Sink interface {
	Rotation(axis Axis, theta float64, qubit int) error
	Hadamard(qubit int) error
	CNOT(control, target int) error
	Barrier(qubits []int) error
}

// Replay emits ops onto sink in order.
func Replay(sink Sink, ops []Op) error {
	for i, op := range ops {
		if err := emit(sink, op); err != nil {
			return errors.Wrap(err, fmt.Sprintf("%d %s", i, op))
		}
	}
	return nil
}

func emit(sink Sink, op Op) error {
	want := 1
	switch op.Gate {
	case CNOT:
		want = 2
	case Barrier:
		return sink.Barrier(op.Qubits)
	}
	if len(op.Qubits) != want {
		return errors.Errorf("%d qubits, expected %d", len(op.Qubits), want)
	}

	switch op.Gate {
	case Hadamard:
		return sink.Hadamard(op.Qubits[0])
	case CNOT:
		return sink.CNOT(op.Qubits[0], op.Qubits[1])
	case RX:
		return sink.Rotation(X, op.Theta, op.Qubits[0])
	case RY:
		return sink.Rotation(Y, op.Theta, op.Qubits[0])
	case RZ:
		return sink.Rotation(Z, op.Theta, op.Qubits[0])
	default:
		return errors.Errorf("%d", op.Gate)
	}
}

// Wires returns the wires 0..n-1.
func Wires(n int) []int {
	ws := make([]int, 0, max(n, 0))
	for i := range n {
		ws = append(ws, i)
	}
	return ws
}
