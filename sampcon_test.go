// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

package goro

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Nominal pair slightly off the truth
func nominalPair(t *testing.T) PairBaseZ {
	t.Helper()
	truth := truthOriPair()
	nom := OriPair{
		Ori1wRef: truth.Ori1wRef,
		Ori2wRef: NewRigidPhys(
			truth.Ori2wRef.Loc.Add(r3.Vector{X: 0.01, Y: 0.008, Z: -0.005}),
			truth.Ori2wRef.PhysAngle().Add(r3.Vector{X: 0.01, Y: -0.015, Z: 0.02}),
		),
	}
	roNom, err := PairBaseZFrom(nom)
	require.NoError(t, err)
	return roNom
}

// Tilt V out of its epipolar plane
func offPlane(ori OriPair, uv PairUV) PairUV {
	rel := ori.Rigid2w1()
	n1 := rel.Loc.Normalize().Cross(uv.U).Normalize()
	v1 := rel.InvApplyDir(uv.V)
	return NewPairUV(uv.U, rel.ApplyDir(v1.Add(n1.Mul(0.2))))
}

func TestSampConRecovery(t *testing.T) {
	truth := truthOriPair()
	uvs := Simulate(PairAbs{truth}, truthPoints(9, 41))
	roNom := nominalPair(t)

	entries := map[string]func(context.Context, []PairUV, PairBaseZ, *SacOpt) (*SacSol, error){
		"combo":  SampConByCombo,
		"sample": SampConBySample,
	}
	for name, run := range entries {
		t.Run(name, func(t *testing.T) {
			sol, err := run(context.Background(), uvs, roNom, NewSacOpt())
			require.NoError(t, err)
			require.True(t, sol.IsValid())
			assertSameRelative(t, truth, sol.OriPair, 1e-9)
			assert.InDelta(t, 1.0, sol.Score, 1e-12)
			assert.Len(t, sol.GapSqs, len(uvs))
			for _, g := range sol.GapSqs {
				assert.Less(t, g, 1e-24)
			}
			assert.Len(t, sol.Depths, NFIT)
			for _, d := range sol.Depths {
				assert.Greater(t, d[0], 0.0)
				assert.Greater(t, d[1], 0.0)
			}
			assert.True(t, sol.Pair.IsValid())
			assert.Greater(t, sol.NumForward, 0)
			assert.LessOrEqual(t, sol.NumForward, sol.NumFitted)
			assert.LessOrEqual(t, sol.NumFitted, sol.NumTried)
		})
	}
}

func TestSampConByComboCounts(t *testing.T) {
	uvs := Simulate(PairAbs{truthOriPair()}, truthPoints(9, 41))
	sol, err := SampConByCombo(context.Background(), uvs, nominalPair(t), nil)
	require.NoError(t, err)
	assert.Equal(t, 126, sol.NumTried)

	// Every candidate scores 1, so the first combination wins
	assert.Equal(t, Quint{0, 1, 2, 3, 4}, sol.Quint)
}

func TestSampConBySampleDraws(t *testing.T) {
	uvs := Simulate(PairAbs{truthOriPair()}, truthPoints(9, 41))
	opt := NewSacOpt()
	opt.NumDraws = 20
	sol, err := SampConBySample(context.Background(), uvs, nominalPair(t), opt)
	require.NoError(t, err)
	assert.LessOrEqual(t, sol.NumTried, 20)

	// All 126 quintuples are exhausted long before 640 draws
	sol, err = SampConBySample(context.Background(), uvs, nominalPair(t), nil)
	require.NoError(t, err)
	assert.Equal(t, 126, sol.NumTried)

	// Same seed, same winner
	opt = NewSacOpt()
	opt.Workers = 1
	sol1, err := SampConBySample(context.Background(), uvs, nominalPair(t), opt)
	require.NoError(t, err)
	opt.Workers = 4
	sol4, err := SampConBySample(context.Background(), uvs, nominalPair(t), opt)
	require.NoError(t, err)
	assert.Equal(t, sol1.Quint, sol4.Quint)
	assert.Equal(t, sol1.Score, sol4.Score)
}

func TestSampConOutliers(t *testing.T) {
	truth := truthOriPair()
	uvs := Simulate(PairAbs{truth}, truthPoints(12, 43))
	outliers := []int{3, 7}
	for _, i := range outliers {
		uvs[i] = offPlane(truth, uvs[i])
	}

	sol, err := SampConByCombo(context.Background(), uvs, nominalPair(t), nil)
	require.NoError(t, err)
	assertSameRelative(t, truth, sol.OriPair, 1e-9)
	for _, i := range outliers {
		assert.False(t, sol.Quint.Contains(i))
		assert.Greater(t, sol.GapSqs[i], 1e-6)
	}
	assert.InDelta(t, 5.0/7.0, sol.Score, 1e-6)
}

func TestSampConErrors(t *testing.T) {
	uvs := Simulate(PairAbs{truthOriPair()}, truthPoints(9, 41))
	roNom := nominalPair(t)

	_, err := SampConByCombo(context.Background(), uvs[:NFIT], roNom, nil)
	assert.ErrorIs(t, err, ErrTooFewMeasurements)
	_, err = SampConBySample(context.Background(), uvs[:NFIT], roNom, nil)
	assert.ErrorIs(t, err, ErrTooFewMeasurements)

	_, err = SampConByCombo(context.Background(), uvs, PairBaseZ{}, nil)
	assert.ErrorIs(t, err, ErrInvalidPose)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = SampConByCombo(ctx, uvs, roNom, nil)
	assert.True(t, errors.Is(err, context.Canceled))

	// Identical rays never give a usable fit
	same := make([]PairUV, 8)
	for i := range same {
		same[i] = uvs[0]
	}
	sol, err := SampConByCombo(context.Background(), same, roNom, nil)
	assert.ErrorIs(t, err, ErrNoSolution)
	require.NotNil(t, sol)
	assert.False(t, sol.IsValid())
	assert.Equal(t, 56, sol.NumTried)
	assert.Equal(t, 0, sol.NumFitted)
}

func TestUpdateSolution(t *testing.T) {
	a := &sacCand{sacJob: sacJob{seq: 3}, score: 0.5}
	b := &sacCand{sacJob: sacJob{seq: 7}, score: 0.5}
	c := &sacCand{sacJob: sacJob{seq: 9}, score: 0.6}

	assert.Same(t, a, updateSolution(nil, a))
	assert.Same(t, a, updateSolution(a, nil))
	assert.Same(t, a, updateSolution(a, b))
	assert.Same(t, a, updateSolution(b, a))
	assert.Same(t, c, updateSolution(a, c))
	assert.Same(t, c, updateSolution(c, a))
}

func TestScoreCandidate(t *testing.T) {
	truth := truthOriPair()
	uvs := Simulate(PairAbs{truth}, truthPoints(8, 45))
	q := Quint{0, 2, 4, 6, 7}
	score, gapSqs := scoreCandidate(uvs, truth, q, 1e-3)
	assert.InDelta(t, 1.0, score, 1e-15)
	assert.Len(t, gapSqs, 8)

	// Only measurements outside the quintuple count
	uvs[2] = offPlane(truth, uvs[2])
	score, _ = scoreCandidate(uvs, truth, q, 1e-3)
	assert.InDelta(t, 1.0, score, 1e-15)
	uvs[1] = offPlane(truth, uvs[1])
	score, _ = scoreCandidate(uvs, truth, q, 1e-3)
	assert.InDelta(t, 2.0/3.0, score, 1e-6)
}
