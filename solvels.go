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

// Solve A x = b through the singular value decomposition of A
// - The condition number (largest / smallest singular value) is returned as cond
// - The system is rejected when cond is not below maxCond
func SolveSVD(A mat.Matrix, b mat.Vector, maxCond float64) (x *mat.VecDense, cond float64, err error) {

	n1, m1 := A.Dims()
	l1 := b.Len()
	if n1 != l1 {
		return nil, math.Inf(1), fmt.Errorf("invalid matrix size. A(%d x %d), b(%d x 1)", n1, m1, l1)
	}

	var svd mat.SVD
	if ok := svd.Factorize(A, mat.SVDFull); !ok {
		return nil, math.Inf(1), fmt.Errorf("SolveSVD() failed, err=%w", ErrSolveFailed)
	}
	cond = svd.Cond()
	if !(cond < maxCond) {
		return nil, cond, fmt.Errorf("SolveSVD() failed, cond=%g, err=%w", cond, ErrIllConditioned)
	}

	var sol mat.VecDense
	svd.SolveVecTo(&sol, b, min(n1, m1))
	for i := 0; i < sol.Len(); i++ {
		if !isFinite(sol.AtVec(i)) {
			return nil, cond, fmt.Errorf("SolveSVD() failed, non-finite solution, err=%w", ErrSolveFailed)
		}
	}
	return &sol, cond, nil
}

// Number of singular values of A above tol
func MatrixRank(A mat.Matrix, tol float64) int {
	var svd mat.SVD
	if ok := svd.Factorize(A, mat.SVDNone); !ok {
		return 0
	}
	rank := 0
	for _, v := range svd.Values(nil) {
		if v > tol {
			rank++
		}
	}
	return rank
}
