package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/fumin/trotter"
	"github.com/fumin/trotter/circuit"
	"github.com/fumin/trotter/exactdiag"
	"github.com/fumin/trotter/sim"
	"github.com/fumin/trotter/store"
)

var (
	model    = flag.String("model", "tfim", "spin model, tfim or xy")
	numSites = flag.Int("n", 4, "number of sites")
	numSteps = flag.Int("steps", 100, "number of Trotter steps")
	jx       = flag.Float64("jx", 1, "XX coupling in eV")
	jy       = flag.Float64("jy", 0.5, "YY coupling in eV, xy model only")
	hz       = flag.Float64("hz", 0.5, "transverse field amplitude in eV, tfim model only")
	freq     = flag.Float64("freq", 0.1, "drive frequency in 1/fs, tfim model only")
	dt       = flag.Float64("dt", 0.05, "time step in fs")
	qasmPath = flag.String("qasm", "", "write the circuit as OpenQASM to this file")
	dbPath   = flag.String("db", "", "store the circuit in this sqlite database")
)

const (
	// maxSites bounds the dimension of the exact reference, which is diagonalized every step.
	maxSites = 10
	// normDrift is the per step deviation from unit norm above which run warns.
	normDrift = 1e-4
)

type Config struct {
	model string
	n     int
	steps int
	dt    float64
	tfim  trotter.TFIMParams
	xy    trotter.XYParams
}

func newConfig() (Config, error) {
	cfg := Config{model: *model, n: *numSites, steps: *numSteps, dt: *dt}
	switch cfg.model {
	case "tfim":
		cfg.tfim = trotter.TFIMParams{Jx: *jx, Hz: *hz, Freq: *freq, Dt: *dt}
	case "xy":
		cfg.xy = trotter.XYParams{Jx: *jx, Jy: *jy, Dt: *dt}
	default:
		return Config{}, errors.Errorf("unknown model %q", cfg.model)
	}
	if cfg.steps < 1 {
		return Config{}, errors.Errorf("%d steps", cfg.steps)
	}
	if cfg.n < 2 {
		return Config{}, errors.Wrapf(trotter.ErrSites, "%d", cfg.n)
	}
	// Exact diagonalization is dense in the full Hilbert space.
	if cfg.n > maxSites {
		return Config{}, errors.Errorf("%d sites is more than %d", cfg.n, maxSites)
	}
	return cfg, nil
}

type Statistics struct {
	step     int
	t        float64
	mz       float64
	mzExact  float64
	fidelity float64
}

// stepper advances the exact reference by one step.
type stepper func(psi []complex128, step int) ([]complex128, error)

func newStepper(cfg Config) (stepper, error) {
	switch {
	case cfg.model == "tfim" && cfg.tfim.Freq != 0:
		return func(psi []complex128, step int) ([]complex128, error) {
			return exactdiag.TFIMStep(psi, cfg.n, step, cfg.tfim)
		}, nil
	case cfg.model == "tfim":
		// A static field needs only one diagonalization.
		h := exactdiag.Hamiltonian(cfg.n, exactdiag.Terms{Jx: cfg.tfim.Jx, Hz: cfg.tfim.Hz})
		prop, err := exactdiag.NewPropagator(h, cfg.tfim.Dt)
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		return func(psi []complex128, step int) ([]complex128, error) {
			return prop.Apply(psi)
		}, nil
	default:
		prop, err := exactdiag.XYPropagator(cfg.n, cfg.xy)
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		return func(psi []complex128, step int) ([]complex128, error) {
			return prop.Apply(psi)
		}, nil
	}
}

func emitStep(sink circuit.Sink, cfg Config, step int) error {
	switch cfg.model {
	case "tfim":
		return trotter.TFIMStep(sink, step, cfg.n, cfg.tfim)
	default:
		return trotter.XYStep(sink, cfg.n, cfg.xy)
	}
}

func mean(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}

// run evolves the chain, emitting every step also onto the extra sinks.
func run(cfg Config, extra circuit.Multi) ([]Statistics, error) {
	state := sim.New(cfg.n)
	sinks := append(circuit.Multi{state}, extra...)
	exact := exactdiag.Basis(cfg.n, 0)
	advance, err := newStepper(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}

	var drift float64
	stats := make([]Statistics, 0, cfg.steps)
	for step := range cfg.steps {
		if err := emitStep(sinks, cfg, step); err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%d", step))
		}
		exact, err = advance(exact, step)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%d", step))
		}
		norm, err := state.Normalize()
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%d", step))
		}
		drift = max(drift, math.Abs(norm-1))

		amps := state.Amplitudes()
		stats = append(stats, Statistics{
			step:     step,
			t:        float64(step+1) * cfg.dt,
			mz:       mean(sim.MagnetizationZ(amps, cfg.n)),
			mzExact:  mean(sim.MagnetizationZ(exact, cfg.n)),
			fidelity: sim.Fidelity(amps, exact),
		})
	}
	if drift > normDrift {
		log.Printf("state norm drifted by %g within a step", drift)
	}
	return stats, nil
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	if err := mainWithErr(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func mainWithErr() error {
	cfg, err := newConfig()
	if err != nil {
		return errors.Wrap(err, "")
	}

	var sinks circuit.Multi
	var qasm *circuit.QASM
	if *qasmPath != "" {
		if err := os.MkdirAll(filepath.Dir(*qasmPath), os.ModePerm); err != nil {
			return errors.Wrap(err, "")
		}
		f, err := os.Create(*qasmPath)
		if err != nil {
			return errors.Wrap(err, "")
		}
		defer f.Close()
		qasm = circuit.NewQASM(f, cfg.n)
		sinks = append(sinks, qasm)
	}
	if *dbPath != "" {
		db, err := store.Open(*dbPath)
		if err != nil {
			return errors.Wrap(err, "")
		}
		defer db.Close()
		sinks = append(sinks, db)
	}

	stats, err := run(cfg, sinks)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("%#v", cfg))
	}
	if qasm != nil {
		if err := qasm.Flush(); err != nil {
			return errors.Wrap(err, "")
		}
	}
	log.Printf("%s n=%d steps=%d final fidelity %f", cfg.model, cfg.n, cfg.steps, stats[len(stats)-1].fidelity)

	fmt.Printf("step,t,mz_trotter,mz_exact,fidelity\n")
	for _, s := range stats {
		fmt.Printf("%d,%f,%f,%f,%f\n", s.step, s.t, s.mz, s.mzExact, s.fidelity)
	}
	return nil
}
