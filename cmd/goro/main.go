// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/golang/geo/r3"
	m "github.com/mkhts/goro"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

func main() {

	// Parse command line arguments
	args, err := parseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "err=%s\n", err.Error())
		flag.Usage()
		os.Exit(1)
	}

	// Logger follows the debug level
	logger, err := newLogger(m.DBG_)
	if err != nil {
		fmt.Fprintf(os.Stderr, "err=%s\n", err.Error())
		os.Exit(1)
	}
	defer logger.Sync()
	m.SetLogger(logger.Sugar())

	// Run the main application
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := runApplication(ctx, args); err != nil {
		m.PrintE(err)
		os.Exit(1)
	}
}

// Options collected from the command line and the option file
type cmdOpt struct {
	mode    m.Mode
	uvFn    string
	outFn   string
	confFn  string
	baseVec m.VecVar
	rotBiv  m.VecVar
	numSim  int
	noHead  bool
	sacOpt  *m.SacOpt
}

// Layout of the option file given by -conf
type confFile struct {
	Mode     int       `yaml:"mode"`
	Baseline *m.VecVar `yaml:"baseline"`
	Rotation *m.VecVar `yaml:"rotation"`
	Sac      *m.SacOpt `yaml:"sac"`
}

// Main application processing
func runApplication(ctx context.Context, args cmdOpt) error {

	// Nominal pair: station 1 at the origin, station 2 at the baseline end
	ori := m.OriPair{
		Ori1wRef: m.IdentityRigid(),
		Ori2wRef: m.NewRigidPhys(r3.Vector(args.baseVec), r3.Vector(args.rotBiv)),
	}
	if !ori.IsValid() {
		return fmt.Errorf("the nominal pair is degenerate (-b option)")
	}
	roNom, err := m.PairBaseZFrom(ori)
	if err != nil {
		return fmt.Errorf("failed to set nominal pair: %w", err)
	}
	m.PrintD(1, "nominal pair:\n%s\n", roNom.String())

	// Prepare output file
	out, err := prepareOutput(args)
	if err != nil {
		return fmt.Errorf("failed to prepare output: %w", err)
	}
	defer closeOutput(out)

	// Simulation only
	if args.numSim > 0 {
		src := m.NewSource(args.sacOpt.Seed)
		pts := m.RandomPoints(args.numSim, r3.Vector{X: -2, Y: -2, Z: 2}, r3.Vector{X: 2, Y: 2, Z: 6}, src)
		return m.WriteUV(out, m.Simulate(roNom, pts))
	}

	uvs, err := readUV(args.uvFn)
	if err != nil {
		return fmt.Errorf("failed to read ray pair file: %w", err)
	}
	m.PrintD(1, "%d ray pairs read from %s\n", len(uvs), filepath.Base(args.uvFn))

	var sol *m.SacSol
	switch args.mode {
	case m.COMBO:
		sol, err = m.SampConByCombo(ctx, uvs, roNom, args.sacOpt)
	case m.SAMPLE:
		sol, err = m.SampConBySample(ctx, uvs, roNom, args.sacOpt)
	default:
		return fmt.Errorf("unknown mode (-p %d)", args.mode)
	}
	if err != nil && !errors.Is(err, m.ErrNoSolution) {
		return err
	}

	if !args.noHead {
		printHeader(out, os.Args[0], args)
	}
	if err := m.WriteSol(out, sol); err != nil {
		return fmt.Errorf("failed to write solution: %w", err)
	}
	return nil
}

// Prepare output file
func prepareOutput(args cmdOpt) (io.WriteCloser, error) {

	// Use stdout if no output file is specified
	if len(args.outFn) == 0 {
		return &nopCloser{os.Stdout}, nil
	}

	// Create output file
	f, err := os.Create(args.outFn)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// Close output file
func closeOutput(out io.WriteCloser) {
	if out != nil {
		out.Close()
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func newLogger(dbg int) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if dbg >= 1 {
		cfg.Level.SetLevel(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func parseArgs() (a cmdOpt, err error) {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `
[Usage]
	%s [Options] [-p 0] -b "bx by bz" [-r "rx ry rz"] uv_file (all combinations)
	%s [Options]  -p 1  -b "bx by bz" [-r "rx ry rz"] uv_file (random samples)
	%s [Options] -sim N -b "bx by bz" [-r "rx ry rz"]         (write N simulated ray pairs)

[Options]
`, filepath.Base(os.Args[0]), filepath.Base(os.Args[0]), filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	sOpt := m.NewSacOpt()
	var sigma, maxCond float64
	var numDraws, maxTrys, workers, itMax int
	var seed uint64
	flag.Var(&a.mode, "p", "Consensus mode. 0(all combinations), 1(random samples)")
	flag.Var(&a.baseVec, "b", "Nominal location of station 2 in station 1. Enclose in quotes like -b \"0.1 -0.2 0.75\"")
	flag.Var(&a.rotBiv, "r", "Nominal rotation bivector of station 2 [rad]. Enclose in quotes like -r \"-0.03 0.02 0.05\"")
	flag.StringVar(&a.outFn, "o", "", "Output file path. If not specified, output to stdout.")
	flag.StringVar(&a.confFn, "conf", "", "YAML option file. Options given on the command line take precedence.")
	flag.IntVar(&a.numSim, "sim", 0, "Write this many simulated ray pairs of the nominal pair instead of solving")
	flag.BoolVar(&a.noHead, "nh", false, "Do not output header section.")
	flag.Float64Var(&sigma, "s", sOpt.Sigma, "Noise scale of the pseudo-probability")
	flag.IntVar(&numDraws, "n", sOpt.NumDraws, "Number of random draws (-p 1)")
	flag.IntVar(&maxTrys, "t", sOpt.MaxTrys, "Redraws of an already drawn quintuple (-p 1)")
	flag.Uint64Var(&seed, "seed", sOpt.Seed, "Random seed (-p 1 and -sim)")
	flag.IntVar(&workers, "w", sOpt.Workers, "Number of fitting workers. 0 uses all CPUs.")
	flag.Float64Var(&maxCond, "c", sOpt.Fit.MaxCondNum, "Maximum condition number of the five ray linear system")
	flag.IntVar(&itMax, "it", sOpt.Fit.ItMax, "Maximum number of fitting iterations")
	var dbg int
	flag.IntVar(&dbg, "x", 0, "Debug information display. Specify level value. 0(OFF), 1(display), 2(detailed display), 3(more detailed), 4(most detailed)")
	flag.Parse()

	// Option file first, then explicit flags
	if len(a.confFn) > 0 {
		if err := loadConf(a.confFn, &a, sOpt); err != nil {
			return a, err
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "s":
			sOpt.Sigma = sigma
		case "n":
			sOpt.NumDraws = numDraws
		case "t":
			sOpt.MaxTrys = maxTrys
		case "seed":
			sOpt.Seed = seed
		case "w":
			sOpt.Workers = workers
		case "c":
			sOpt.Fit.MaxCondNum = maxCond
		case "it":
			sOpt.Fit.ItMax = itMax
		}
	})
	a.sacOpt = sOpt

	switch {
	case a.numSim > 0 && flag.NArg() == 0:
	case a.numSim == 0 && flag.NArg() == 1:
		a.uvFn = flag.Arg(0)
	default:
		return a, fmt.Errorf("too less or many arguments")
	}
	if r3.Vector(a.baseVec).Norm() == 0 {
		return a, fmt.Errorf("the nominal baseline must be specified! (-b option)")
	}
	m.DBG_ = dbg
	return
}

// Read the option file. Flags set on the command line are applied afterwards.
func loadConf(fn string, a *cmdOpt, sOpt *m.SacOpt) error {
	f, err := os.Open(fn)
	if err != nil {
		return fmt.Errorf("failed to open option file: %w", err)
	}
	defer f.Close()

	conf := confFile{Mode: int(a.mode), Sac: sOpt}
	if err := yaml.NewDecoder(f).Decode(&conf); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse option file: %w", err)
	}
	explicit := map[string]bool{}
	flag.Visit(func(fl *flag.Flag) { explicit[fl.Name] = true })
	if !explicit["p"] {
		a.mode = m.Mode(conf.Mode)
	}
	if conf.Baseline != nil && !explicit["b"] {
		a.baseVec = *conf.Baseline
	}
	if conf.Rotation != nil && !explicit["r"] {
		a.rotBiv = *conf.Rotation
	}
	return nil
}

// Read ray pair file
func readUV(fn string) ([]m.PairUV, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return m.ReadUV(f)
}

func printHeader(out io.Writer, cmd string, args cmdOpt) {
	fmt.Fprintf(out, "%% program   : %s\n", filepath.Base(cmd))
	fmt.Fprintf(out, "%% inp file  : %s\n", args.uvFn)
	fmt.Fprintf(out, "%% mode      : %s\n", args.mode.String())
	fmt.Fprintf(out, "%% baseline  : %s\n", args.baseVec.String())
	fmt.Fprintf(out, "%% rotation  : %s\n", args.rotBiv.String())
	fmt.Fprintf(out, "%% sigma     : %g\n", args.sacOpt.Sigma)
}
