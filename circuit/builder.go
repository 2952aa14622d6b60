package circuit

import (
	"github.com/pkg/errors"
)

// Builder emits gates onto a Sink and keeps the first error.
// Once an error has occurred, subsequent calls are no-ops.
type Builder struct {
	sink Sink
	err  error
}

// NewBuilder returns a Builder writing to sink.
func NewBuilder(sink Sink) *Builder {
	return &Builder{sink: sink}
}

func (b *Builder) H(q int) {
	if b.err != nil {
		return
	}
	if err := b.sink.Hadamard(q); err != nil {
		b.err = errors.Wrapf(err, "h %d", q)
	}
}

func (b *Builder) CX(control, target int) {
	if b.err != nil {
		return
	}
	if err := b.sink.CNOT(control, target); err != nil {
		b.err = errors.Wrapf(err, "cx %d %d", control, target)
	}
}

func (b *Builder) RX(theta float64, q int) { b.rotate(X, theta, q) }
func (b *Builder) RY(theta float64, q int) { b.rotate(Y, theta, q) }
func (b *Builder) RZ(theta float64, q int) { b.rotate(Z, theta, q) }

func (b *Builder) rotate(axis Axis, theta float64, q int) {
	if b.err != nil {
		return
	}
	if err := b.sink.Rotation(axis, theta, q); err != nil {
		b.err = errors.Wrapf(err, "%s(%f) %d", axis.Gate(), theta, q)
	}
}

// Barrier emits a barrier spanning wires 0..n-1.
func (b *Builder) Barrier(n int) {
	if b.err != nil {
		return
	}
	if err := b.sink.Barrier(Wires(n)); err != nil {
		b.err = errors.Wrapf(err, "barrier %d", n)
	}
}

// Err returns the first error returned by the sink.
func (b *Builder) Err() error {
	return b.err
}
