package circuit

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// QASM is a Sink that writes an OpenQASM 2.0 program on n qubits.
// The header is written before the first gate, and Flush must be called once the circuit is complete.
type QASM struct {
	w      *bufio.Writer
	n      int
	header bool
}

// NewQASM returns a QASM sink writing to w.
func NewQASM(w io.Writer, n int) *QASM {
	return &QASM{w: bufio.NewWriter(w), n: n}
}

func (c *QASM) Rotation(axis Axis, theta float64, qubit int) error {
	return c.line(fmt.Sprintf("%s(%s)", axis.Gate(), strconv.FormatFloat(theta, 'g', -1, 64)), qubit)
}

func (c *QASM) Hadamard(qubit int) error {
	return c.line(Hadamard.String(), qubit)
}

func (c *QASM) CNOT(control, target int) error {
	if control == target {
		return errors.Errorf("cx %d %d", control, target)
	}
	return c.line(CNOT.String(), control, target)
}

func (c *QASM) Barrier(qubits []int) error {
	return c.line(Barrier.String(), qubits...)
}

// Flush writes any buffered data, including the header of an empty program.
func (c *QASM) Flush() error {
	if err := c.writeHeader(); err != nil {
		return errors.Wrap(err, "")
	}
	if err := c.w.Flush(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func (c *QASM) line(name string, qubits ...int) error {
	qs := make([]string, 0, len(qubits))
	for _, q := range qubits {
		if q < 0 || q >= c.n {
			return errors.Errorf("qubit %d out of range %d", q, c.n)
		}
		qs = append(qs, fmt.Sprintf("q[%d]", q))
	}

	if err := c.writeHeader(); err != nil {
		return errors.Wrap(err, "")
	}
	if _, err := fmt.Fprintf(c.w, "%s %s;\n", name, strings.Join(qs, ",")); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func (c *QASM) writeHeader() error {
	if c.header {
		return nil
	}
	c.header = true

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n\n", c.n)
	if _, err := c.w.WriteString(sb.String()); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
