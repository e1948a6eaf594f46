// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

package goro

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
)

func TestQuadFormConsistency(t *testing.T) {
	oris := []OriPair{
		truthOriPair(),
		OriPairOf(samplePairBaseZ()),
		{
			Ori1wRef: NewRigidPhys(r3.Vector{X: -3, Y: 1, Z: 0}, r3.Vector{X: 1.1, Y: -0.7, Z: 2.0}),
			Ori2wRef: NewRigidPhys(r3.Vector{X: 4, Y: 2, Z: -1}, r3.Vector{X: -0.2, Y: 2.2, Z: 0.5}),
		},
	}
	us := RandomDirs(1024, NewSource(21))
	vs := RandomDirs(1024, NewSource(22))
	for _, ori := range oris {
		qf := NewQuadForm(ori)
		rel := IntoPairRel(PairAbs{ori})
		for i := range us {
			uv := PairUV{U: us[i], V: vs[i]}
			assert.InDelta(t, rel.TripleProductGap(uv), qf.TripleProductGap(uv), 1e-14)
		}
	}
}

func TestQuadFormMatrix(t *testing.T) {
	qf := NewQuadForm(truthOriPair())
	m := qf.Matrix()
	r, c := m.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.Equal(t, qf.F[i][j], m.At(i, j))
		}
	}

	// The baseline direction of station 1 is in the left null space
	b := truthOriPair().Rigid2w1().Loc.Normalize()
	for _, v := range []r3.Vector{E1, E2, E3} {
		assert.InDelta(t, 0, qf.TripleProductGap(PairUV{U: b, V: v}), 1e-14)
	}
}
