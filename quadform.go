// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

package goro

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Bilinear form of the coplanarity gap: gap(u, v) = u . (F v)
type QuadForm struct {
	F [3][3]float64
}

// Quadratic form of an orientation pair, sampled from the
// direct gap computation on the basis directions
func NewQuadForm(ori OriPair) QuadForm {
	rel := IntoPairRel(PairAbs{ori})
	basis := [3]r3.Vector{E1, E2, E3}
	var q QuadForm
	for i := range basis {
		for j := range basis {
			q.F[i][j] = rel.TripleProductGap(PairUV{U: basis[i], V: basis[j]})
		}
	}
	return q
}

func (q QuadForm) TripleProductGap(uv PairUV) float64 {
	fv := r3.Vector{
		X: q.F[0][0]*uv.V.X + q.F[0][1]*uv.V.Y + q.F[0][2]*uv.V.Z,
		Y: q.F[1][0]*uv.V.X + q.F[1][1]*uv.V.Y + q.F[1][2]*uv.V.Z,
		Z: q.F[2][0]*uv.V.X + q.F[2][1]*uv.V.Y + q.F[2][2]*uv.V.Z,
	}
	return uv.U.Dot(fv)
}

// Form as a gonum matrix
func (q QuadForm) Matrix() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		q.F[0][0], q.F[0][1], q.F[0][2],
		q.F[1][0], q.F[1][1], q.F[1][2],
		q.F[2][0], q.F[2][1], q.F[2][2],
	})
}
