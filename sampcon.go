// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

// Sample consensus over minimal five-ray fits. Each candidate quintuple is
// fitted from the nominal pair, resolved to its forward intersecting mirror
// variant and scored by the mean pseudo-probability exp(-gap^2/sigma^2) of the
// measurements left out of the fit. The best score wins; equal scores keep
// the candidate produced first.

package goro

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mathext/prng"
	"gonum.org/v1/gonum/stat/combin"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// Options for sample consensus
type SacOpt struct {
	Sigma    float64 `yaml:"sigma"`     // Noise scale of the pseudo-probability
	NumDraws int     `yaml:"num_draws"` // Number of random draws (sample mode)
	MaxTrys  int     `yaml:"max_trys"`  // Redraws on an already seen quintuple (sample mode)
	Seed     uint64  `yaml:"seed"`      // Seed of the Mersenne Twister (sample mode)
	Workers  int     `yaml:"workers"`   // Number of fitting goroutines (0: GOMAXPROCS)
	Fit      FitOpt  `yaml:"fit"`
}

func NewSacOpt() *SacOpt {
	return &SacOpt{
		Sigma:    1.0e-3,
		NumDraws: 640,
		MaxTrys:  10,
		Seed:     357,
		Workers:  0,
		Fit:      *NewFitOpt(),
	}
}

// Outcome of sample consensus
type SacSol struct {
	OriPair    OriPair      // Best station poses
	Pair       PairBaseZ    // Best station poses in base-z form
	Quint      Quint        // Measurements of the winning fit
	Score      float64      // Mean pseudo-probability over the other measurements
	GapSqs     []float64    // Squared gap of every measurement
	Depths     [][2]float64 // Depths of the fitting rays from station 1 and station 2
	Rms        float64      // RMS gap over the fitting rays
	NumIter    int          // Iterations of the winning fit
	CondNum    float64      // Condition number of the winning fit
	NumTried   int          // Quintuples evaluated
	NumFitted  int          // Quintuples with a usable fit
	NumForward int          // Fits with a forward intersecting variant
	valid      bool
}

func (sol *SacSol) IsValid() bool {
	return sol != nil && sol.valid
}

// Sample consensus over all combinations of five measurements
func SampConByCombo(ctx context.Context, uvs []PairUV, roNom PairBaseZ, opt *SacOpt) (*SacSol, error) {
	if opt == nil {
		opt = NewSacOpt()
	}
	produce := func(ctx context.Context, jobs chan<- sacJob) error {
		PrintD(1, "SampConByCombo(): %d combinations\n", combin.Binomial(len(uvs), NFIT))
		gen := combin.NewCombinationGenerator(len(uvs), NFIT)
		buf := make([]int, NFIT)
		for seq := 0; gen.Next(); seq++ {
			job := sacJob{seq: seq, quint: NewQuint(gen.Combination(buf))}
			if err := sendJob(ctx, jobs, job); err != nil {
				return err
			}
		}
		return nil
	}
	sol, err := runSampCon(ctx, uvs, roNom, opt, produce)
	if err != nil {
		return sol, fmt.Errorf("SampConByCombo() failed, err=%w", err)
	}
	return sol, nil
}

// Sample consensus over random draws of five measurements
func SampConBySample(ctx context.Context, uvs []PairUV, roNom PairBaseZ, opt *SacOpt) (*SacSol, error) {
	if opt == nil {
		opt = NewSacOpt()
	}
	produce := func(ctx context.Context, jobs chan<- sacJob) error {
		src := prng.NewMT19937()
		src.Seed(opt.Seed)
		seen := make(map[Quint]bool)
		buf := make([]int, NFIT)
		seq := 0
		for draw := 0; draw < opt.NumDraws; draw++ {
			for try := 0; try <= opt.MaxTrys; try++ {
				sampleuv.WithoutReplacement(buf, len(uvs), src)
				q := NewQuint(buf)
				if seen[q] {
					continue
				}
				seen[q] = true
				if err := sendJob(ctx, jobs, sacJob{seq: seq, quint: q}); err != nil {
					return err
				}
				seq++
				break
			}
		}
		PrintD(1, "SampConBySample(): %d distinct draws of %d\n", seq, opt.NumDraws)
		return nil
	}
	sol, err := runSampCon(ctx, uvs, roNom, opt, produce)
	if err != nil {
		return sol, fmt.Errorf("SampConBySample() failed, err=%w", err)
	}
	return sol, nil
}

// ------------------------------------
// Scoring core
// ------------------------------------

type sacJob struct {
	seq   int // Production order, used to break ties
	quint Quint
}

type sacCand struct {
	sacJob
	ori    OriPair
	fit    *FitSol
	score  float64
	gapSqs []float64
}

// a wins over b on a higher score, then on earlier production
func (a *sacCand) betterThan(b *sacCand) bool {
	if b == nil {
		return true
	}
	if a.score != b.score {
		return a.score > b.score
	}
	return a.seq < b.seq
}

// Keep the better of best and cand
func updateSolution(best, cand *sacCand) *sacCand {
	if cand != nil && cand.betterThan(best) {
		return cand
	}
	return best
}

// Squared gap of every measurement and the mean pseudo-probability
// over the measurements outside the quintuple
func scoreCandidate(uvs []PairUV, ori OriPair, q Quint, sigma float64) (score float64, gapSqs []float64) {
	qf := NewQuadForm(ori)
	gapSqs = make([]float64, len(uvs))
	sum, n := 0.0, 0
	for i, uv := range uvs {
		gapSqs[i] = SQ(qf.TripleProductGap(uv))
		if q.Contains(i) {
			continue
		}
		sum += math.Exp(-gapSqs[i] / SQ(sigma))
		n++
	}
	if n == 0 {
		return 0, gapSqs
	}
	return sum / float64(n), gapSqs
}

// Per goroutine state of the consensus search
type sacWorker struct {
	uvs        []PairUV
	roNom      PairBaseZ
	opt        *SacOpt
	best       *sacCand
	numTried   int
	numFitted  int
	numForward int
}

func (w *sacWorker) evalQuint(job sacJob) {

	w.numTried++
	fit := NewFitBaseZ(w.uvs, job.quint, &w.opt.Fit)
	sol, err := fit.SolutionNear(w.roNom)
	if err != nil || !sol.Pair.IsValid() {
		PrintD(2, "evalQuint(): skip %v, err=%v\n", job.quint, err)
		return
	}
	w.numFitted++

	sel := job.quint.Select(w.uvs)
	ori, err := AForwardRO(IntoPairRel(sol.Pair), sel[:])
	if err != nil {
		PrintD(2, "evalQuint(): skip %v, err=%v\n", job.quint, err)
		return
	}
	w.numForward++

	score, gapSqs := scoreCandidate(w.uvs, ori, job.quint, w.opt.Sigma)
	w.best = updateSolution(w.best, &sacCand{
		sacJob: job,
		ori:    ori,
		fit:    sol,
		score:  score,
		gapSqs: gapSqs,
	})
}

func sendJob(ctx context.Context, jobs chan<- sacJob, job sacJob) error {
	select {
	case jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Fit and score the produced quintuples in parallel and reduce to the best
func runSampCon(ctx context.Context, uvs []PairUV, roNom PairBaseZ, opt *SacOpt,
	produce func(context.Context, chan<- sacJob) error) (*SacSol, error) {

	if len(uvs) <= NFIT {
		return nil, fmt.Errorf("runSampCon() failed, n=%d, err=%w", len(uvs), ErrTooFewMeasurements)
	}
	if !roNom.IsValid() {
		return nil, fmt.Errorf("runSampCon() failed, nominal pair, err=%w", ErrInvalidPose)
	}

	nw := opt.Workers
	if nw <= 0 {
		nw = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan sacJob, nw)
	g.Go(func() error {
		defer close(jobs)
		return produce(gctx, jobs)
	})
	workers := make([]*sacWorker, nw)
	for i := range workers {
		w := &sacWorker{uvs: uvs, roNom: roNom, opt: opt}
		workers[i] = w
		g.Go(func() error {
			for job := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				w.evalQuint(job)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Reduce
	sol := &SacSol{}
	var best *sacCand
	for _, w := range workers {
		sol.NumTried += w.numTried
		sol.NumFitted += w.numFitted
		sol.NumForward += w.numForward
		best = updateSolution(best, w.best)
	}
	PrintD(1, "runSampCon(): tried=%d fitted=%d forward=%d\n", sol.NumTried, sol.NumFitted, sol.NumForward)
	if best == nil {
		return sol, ErrNoSolution
	}

	sel := best.quint.Select(uvs)
	sol.OriPair = best.ori
	sol.Quint = best.quint
	sol.Score = best.score
	sol.GapSqs = best.gapSqs
	sol.Depths = depthsOf(sel[:], best.ori.Rigid2w1())
	sol.Rms = best.fit.Rms
	sol.NumIter = best.fit.NumIter
	sol.CondNum = best.fit.CondNum
	sol.valid = true
	if pair, err := PairBaseZFrom(best.ori); err == nil {
		sol.Pair = pair
	} else {
		PrintD(1, "runSampCon(): no base-z form of the best pair, err=%v\n", err)
	}
	PrintD(1, "runSampCon(): best %v score=%.6f\n", sol.Quint, sol.Score)
	return sol, nil
}
