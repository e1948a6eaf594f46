// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

package goro

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Options for the iterative five-ray fit
type FitOpt struct {
	Tol        float64 `yaml:"tol"`          // RMS gap regarded as converged
	ItMax      int     `yaml:"it_max"`       // Maximum number of iterations
	MaxCondNum float64 `yaml:"max_cond_num"` // Linear systems at or above this condition number are rejected
}

func NewFitOpt() *FitOpt {
	return &FitOpt{
		Tol:        EPS,
		ItMax:      25,
		MaxCondNum: 1.0e6,
	}
}

// Outcome of a fit
type FitSol struct {
	Pair    PairBaseZ // Last estimate
	Rms     float64   // RMS gap over the fitting rays
	NumIter int       // Number of iterations done
	CondNum float64   // Condition number of the last linear system
}

func (sol *FitSol) IsConverged(tol float64) bool {
	return sol.Pair.IsValid() && sol.Rms < tol
}

// Gauss-Newton refinement of a PairBaseZ from five ray pairs
type FitBaseZ struct {
	uvs  []PairUV // Caller owned measurements
	ndxs Quint    // Measurements used for fitting
	opt  *FitOpt
}

func NewFitBaseZ(uvs []PairUV, ndxs Quint, opt *FitOpt) *FitBaseZ {
	if opt == nil {
		opt = NewFitOpt()
	}
	return &FitBaseZ{
		uvs:  uvs,
		ndxs: ndxs,
		opt:  opt,
	}
}

// RMS coplanarity gap over the fitting rays
func (f *FitBaseZ) RmsGapFor(roNom PairBaseZ) float64 {
	qf := NewQuadForm(OriPairOf(roNom))
	sum := 0.0
	for _, ndx := range f.ndxs {
		sum += SQ(qf.TripleProductGap(f.uvs[ndx]))
	}
	return math.Sqrt(sum / NFIT)
}

// One Newton step from roAt. The condition number of the linear system is returned as cond.
func (f *FitBaseZ) ImprovedNear(roAt PairBaseZ) (ro PairBaseZ, cond float64, err error) {

	if !roAt.IsValid() {
		return PairBaseZ{}, math.Inf(1), fmt.Errorf("ImprovedNear() failed, err=%w", ErrInvalidPose)
	}

	// Linearized gap equations
	A := mat.NewDense(NFIT, NFIT, nil)
	b := mat.NewVecDense(NFIT, nil)
	for i, ndx := range f.ndxs {
		uv := f.uvs[ndx]
		row := roAt.JacobianRow(uv)
		A.SetRow(i, row[:])
		b.SetVec(i, -roAt.TripleProductGap(uv))
	}
	if DBG_ >= 4 {
		PrintMat(A)
	}

	dx, cond, err := SolveSVD(A, b, f.opt.MaxCondNum)
	if err != nil {
		PrintD(3, "ImprovedNear(): rank=%d\n", MatrixRank(A, SqEPS))
		return PairBaseZ{}, cond, fmt.Errorf("ImprovedNear() failed, err=%w", err)
	}

	var delta [NFIT]float64
	for i := range delta {
		delta[i] = dx.AtVec(i)
	}
	ro = roAt.WithArgs(roAt.Args().Updated(delta))
	if !ro.IsValid() {
		return PairBaseZ{}, cond, fmt.Errorf("ImprovedNear() failed, err=%w", ErrSolveFailed)
	}
	return ro, cond, nil
}

// Iterate ImprovedNear from roNom until the RMS gap drops below Tol or
// ItMax iterations elapse. A non-converged estimate is returned without error;
// errors report an unusable linear system.
func (f *FitBaseZ) SolutionNear(roNom PairBaseZ) (*FitSol, error) {

	sol := &FitSol{
		Pair: roNom,
		Rms:  f.RmsGapFor(roNom),
	}
	for it := 0; it < f.opt.ItMax; it++ {

		// Always take one step so that the condition number is checked
		if it > 0 && sol.Rms < f.opt.Tol {
			break
		}
		ro, cond, err := f.ImprovedNear(sol.Pair)
		sol.CondNum = cond
		if err != nil {
			return sol, fmt.Errorf("SolutionNear() failed, iter=%d, err=%w", it, err)
		}
		sol.Pair = ro
		sol.Rms = f.RmsGapFor(ro)
		sol.NumIter = it + 1
		PrintD(3, "SolutionNear(): %v iter=%d rms=%.3e cond=%.3e\n", f.ndxs, sol.NumIter, sol.Rms, cond)
	}
	return sol, nil
}
