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
	"github.com/stretchr/testify/require"
)

func samplePairBaseZ() PairBaseZ {
	return NewPairBaseZ(
		NewArgsBaseZ(0.12, -0.07, -0.05, 0.11, 0.23),
		1.3,
		NewRigidPhys(r3.Vector{X: 0.5, Y: -1, Z: 2}, r3.Vector{X: 0.3, Y: 0.1, Z: -0.4}),
	)
}

func TestPairBaseZFrames(t *testing.T) {
	pair := samplePairBaseZ()
	require.True(t, pair.IsValid())

	ori := OriPairOf(pair)
	assert.InDelta(t, 1.3, ori.BaseMag(), 1e-14)

	// Midpoint of the stations is the origin of the base frame
	mid := ori.Ori1wRef.Loc.Add(ori.Ori2wRef.Loc).Mul(0.5)
	assert.InDelta(t, 0, mid.Sub(pair.Rigid0wRef().Loc).Norm(), 1e-14)

	assert.False(t, NewPairBaseZ(pair.Args(), 0, pair.Rigid0wRef()).IsValid())
	assert.False(t, NewPairBaseZ(ArgsBaseZ{}, 1, pair.Rigid0wRef()).IsValid())
}

func TestPairBaseZCoplanarity(t *testing.T) {
	pair := samplePairBaseZ()
	ori := OriPairOf(pair)
	rel := IntoPairRel(pair)

	// Points around the base frame origin, away from the baseline
	r0 := pair.Rigid0wRef()
	var pts []r3.Vector
	for _, p := range RandomPoints(64, r3.Vector{X: 1, Y: -3, Z: -3}, r3.Vector{X: 4, Y: 3, Z: 3}, NewSource(5)) {
		pts = append(pts, r0.InvApply(p))
	}
	for _, uv := range Simulate(PairAbs{ori}, pts) {
		assert.InDelta(t, 0, pair.TripleProductGap(uv), 1e-14)
		assert.InDelta(t, 0, rel.TripleProductGap(uv), 1e-14)
	}

	// Same gap as the relative pair for arbitrary rays
	vs := RandomDirs(32, NewSource(16))
	for i, u := range RandomDirs(32, NewSource(6)) {
		uv := PairUV{U: u, V: vs[i]}
		assert.InDelta(t, rel.TripleProductGap(uv), pair.TripleProductGap(uv), 1e-14)
	}
}

func TestPairBaseZJacobian(t *testing.T) {
	const h = 1e-6
	pairs := []PairBaseZ{
		samplePairBaseZ(),
		NewPairBaseZ(NewArgsBaseZ(0.9, -0.4, 0.6, 1.2, -0.8), 1, IdentityRigid()),
		NewPairBaseZ(NewArgsBaseZ(0, 0, 0, 0, 0), 1, IdentityRigid()),
	}
	dirs := RandomDirs(16, NewSource(7))
	for _, pair := range pairs {
		for i := 0; i+1 < len(dirs); i += 2 {
			uv := NewPairUV(dirs[i], dirs[i+1])
			row := pair.JacobianRow(uv)
			for k := 0; k < NFIT; k++ {
				var d [NFIT]float64
				d[k] = h
				gp := pair.WithArgs(pair.Args().Updated(d)).TripleProductGap(uv)
				d[k] = -h
				gm := pair.WithArgs(pair.Args().Updated(d)).TripleProductGap(uv)
				assert.InDelta(t, (gp-gm)/(2*h), row[k], 1e-8, "param %d", k)
			}
		}
	}
}
