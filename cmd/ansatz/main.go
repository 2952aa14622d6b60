package main

import (
	"flag"
	"io"
	"log"
	"math"
	"math/rand/v2"
	"os"

	"github.com/pkg/errors"

	"github.com/fumin/trotter/circuit"
	"github.com/fumin/trotter/matchgate"
)

var (
	kindName  = flag.String("kind", "generic", "matchgate kind, generic or xy")
	numSites  = flag.Int("n", 6, "number of sites")
	numLayers = flag.Int("layers", 4, "number of brick-wall layers")
	seed      = flag.Uint64("seed", 0, "random seed of the angles")
)

// randomLayers draws the angles of every layer uniformly in [-π, π).
func randomLayers(rng *rand.Rand, kind matchgate.Kind, numLayers int) [][]float64 {
	layers := make([][]float64, 0, numLayers)
	for range numLayers {
		params := make([]float64, kind.NumParams())
		for i := range params {
			params[i] = (rng.Float64()*2 - 1) * math.Pi
		}
		layers = append(layers, params)
	}
	return layers
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	if err := mainWithErr(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func mainWithErr() error {
	kind, err := matchgate.ParseKind(*kindName)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if err := writeAnsatz(os.Stdout, kind, *numSites, *numLayers, *seed); err != nil {
		return errors.Wrap(err, "")
	}
	log.Printf("%s ansatz n=%d layers=%d gates=%d", kind, *numSites, *numLayers, matchgate.AnsatzGateCount(kind, *numSites, *numLayers))
	return nil
}

// writeAnsatz writes a random angle ansatz as QASM to w.
func writeAnsatz(w io.Writer, kind matchgate.Kind, n, numLayers int, seed uint64) error {
	if n < 2 {
		return errors.Wrapf(matchgate.ErrSites, "%d", n)
	}
	if numLayers < 0 {
		return errors.Errorf("negative number of layers %d", numLayers)
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	layers := randomLayers(rng, kind, numLayers)

	qasm := circuit.NewQASM(w, n)
	if err := matchgate.Ansatz(qasm, kind, n, layers); err != nil {
		return errors.Wrap(err, "")
	}
	if err := qasm.Flush(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
