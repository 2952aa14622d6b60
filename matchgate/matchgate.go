// Package matchgate emits brick-wall layers of parameterized two-qubit matchgates.
//
// A layer acts on disjoint nearest-neighbour pairs of an open chain.
// The even layer couples the pairs starting at wires 0, 2, 4, ... and the odd layer those starting at 1, 3, 5, ...,
// so that an even and an odd layer together cover every pair (q, q+1) exactly once.
package matchgate

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/fumin/trotter/circuit"
)

var (
	ErrParams = errors.New("wrong number of matchgate parameters")
	ErrWire   = errors.New("wire out of range")
	ErrSites  = errors.New("at least two sites are required")
)

// Kind is a matchgate parameterization.
type Kind int

const (
	// Generic is the general matchgate with 10 angles.
	Generic Kind = iota
	// XY is the matchgate restricted to the XY symmetric subgroup, with angles (theta1, theta2).
	XY
)

func (k Kind) String() string {
	switch k {
	case Generic:
		return "generic"
	case XY:
		return "xy"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{Generic, XY} {
		if k.String() == s {
			return k, nil
		}
	}
	return -1, errors.Errorf("unknown matchgate kind %q", s)
}

// NumParams returns the number of angles of a matchgate of kind k.
func (k Kind) NumParams() int {
	switch k {
	case Generic:
		return 10
	case XY:
		return 2
	default:
		return -1
	}
}

// NumGates returns the number of gates in a matchgate of kind k.
func (k Kind) NumGates() int {
	switch k {
	case Generic:
		return 12
	case XY:
		return 8
	default:
		return -1
	}
}

// barrier reports whether layers of kind k are closed by a barrier.
func (k Kind) barrier() bool {
	return k == Generic
}

func (k Kind) check(params []float64) error {
	n := k.NumParams()
	if n < 0 {
		return errors.Errorf("%s", k)
	}
	if len(params) != n {
		return errors.Wrapf(ErrParams, "%s: %d, expected %d", k, len(params), n)
	}
	return nil
}

// Apply emits a matchgate on wires (wire, wire+1).
func Apply(sink circuit.Sink, kind Kind, params []float64, wire int) error {
	if err := kind.check(params); err != nil {
		return errors.Wrap(err, "")
	}
	if wire < 0 {
		return errors.Wrapf(ErrWire, "%d", wire)
	}

	b := circuit.NewBuilder(sink)
	apply(b, kind, params, wire)
	if err := b.Err(); err != nil {
		return errors.Wrap(err, fmt.Sprintf("wire %d", wire))
	}
	return nil
}

func apply(b *circuit.Builder, kind Kind, params []float64, i int) {
	switch kind {
	case Generic:
		b.RZ(params[0], i)
		b.RZ(params[1], i+1)
		b.RX(params[2], i)
		b.RX(params[3], i+1)
		b.CX(i, i+1)
		b.RX(params[4], i)
		b.RZ(params[5], i+1)
		b.CX(i, i+1)
		b.RX(params[6], i)
		b.RX(params[7], i+1)
		b.RZ(params[8], i)
		b.RZ(params[9], i+1)
	case XY:
		theta1, theta2 := params[0], params[1]
		b.RX(math.Pi/2, i)
		b.RX(math.Pi/2, i+1)
		b.CX(i, i+1)
		b.RX(theta1, i)
		b.RZ(theta2, i+1)
		b.CX(i, i+1)
		b.RX(-math.Pi/2, i)
		b.RX(-math.Pi/2, i+1)
	}
}

// EvenWires returns the first wire of each pair coupled by the even layer on n sites.
func EvenWires(n int) []int {
	wires := make([]int, 0, max(n/2, 0))
	for i := 0; i < n-1; i += 2 {
		wires = append(wires, i)
	}
	return wires
}

// OddWires returns the first wire of each pair coupled by the odd layer on n sites.
// For odd n the layer reaches the last pair (n-2, n-1), for even n that pair belongs to the even layer.
func OddWires(n int) []int {
	last := n - 1
	if n%2 != 0 {
		last = n
	}
	wires := make([]int, 0, max(n/2, 0))
	for i := 1; i < last; i += 2 {
		wires = append(wires, i)
	}
	return wires
}

// LayerEven emits a matchgate on every even pair, followed by a barrier on all n wires for the Generic kind.
func LayerEven(sink circuit.Sink, kind Kind, n int, params []float64) error {
	return layer(sink, kind, n, params, EvenWires(n))
}

// LayerOdd emits a matchgate on every odd pair, followed by a barrier on all n wires for the Generic kind.
func LayerOdd(sink circuit.Sink, kind Kind, n int, params []float64) error {
	return layer(sink, kind, n, params, OddWires(n))
}

func layer(sink circuit.Sink, kind Kind, n int, params []float64, wires []int) error {
	if n < 2 {
		return errors.Wrapf(ErrSites, "%d", n)
	}
	if err := kind.check(params); err != nil {
		return errors.Wrap(err, "")
	}

	b := circuit.NewBuilder(sink)
	layerWith(b, kind, n, params, wires)
	if err := b.Err(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func layerWith(b *circuit.Builder, kind Kind, n int, params []float64, wires []int) {
	for _, i := range wires {
		apply(b, kind, params, i)
	}
	if kind.barrier() {
		b.Barrier(n)
	}
}

// Ansatz emits len(layers) alternating brick-wall layers, starting with an even layer.
// Layer k uses the angles layers[k].
func Ansatz(sink circuit.Sink, kind Kind, n int, layers [][]float64) error {
	if n < 2 {
		return errors.Wrapf(ErrSites, "%d", n)
	}
	for k, params := range layers {
		if err := kind.check(params); err != nil {
			return errors.Wrap(err, fmt.Sprintf("layer %d", k))
		}
	}

	even, odd := EvenWires(n), OddWires(n)
	b := circuit.NewBuilder(sink)
	for k, params := range layers {
		wires := even
		if k%2 == 1 {
			wires = odd
		}
		layerWith(b, kind, n, params, wires)
	}
	if err := b.Err(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// AnsatzGateCount is the number of gates Ansatz emits for numLayers layers.
func AnsatzGateCount(kind Kind, n, numLayers int) int {
	var count int
	for k := range numLayers {
		wires := EvenWires(n)
		if k%2 == 1 {
			wires = OddWires(n)
		}
		count += len(wires) * kind.NumGates()
		if kind.barrier() {
			count++
		}
	}
	return count
}
