// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

// Spinor pair form of a relative orientation. With R the attitude of
// station 2 with respect to station 1 and b the unit baseline in station 1,
//   P = -R b,  Q = R*
// and the coplanarity gap of unit rays (u, v) is the scalar part of P u Q v.

package goro

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
)

type SpinPQ struct {
	P       quat.Number
	Q       quat.Number
	BaseMag float64
}

// Spinor pair of a relative pose of station 2 with respect to station 1
func NewSpinPQ(rigid2w1 Rigid) SpinPQ {
	baseMag := rigid2w1.Loc.Norm()
	b := pureOf(rigid2w1.Loc.Normalize())
	r := rigid2w1.Att
	return SpinPQ{
		P:       quat.Scale(-1, quat.Mul(r, b)),
		Q:       quat.Conj(r),
		BaseMag: baseMag,
	}
}

// Scalar part of P u Q v
func (s SpinPQ) TripleProductGap(uv PairUV) float64 {
	return quat.Mul(quat.Mul(s.P, pureOf(uv.U)), quat.Mul(s.Q, pureOf(uv.V))).Real
}

// Relative pose of station 2 with respect to station 1
func (s SpinPQ) Rigid2w1() Rigid {
	b := vecOf(quat.Mul(s.Q, s.P)).Mul(-1)
	return NewRigid(b.Mul(s.BaseMag), quat.Conj(s.Q))
}

// The four sign and reversal variants sharing the same coplanarity constraints:
// the given configuration, the reversed baseline, and both of these with
// station 2 turned half around the baseline.
func (s SpinPQ) Permutations() [4]SpinPQ {
	neg := func(q quat.Number) quat.Number { return quat.Scale(-1, q) }
	pc, qc := quat.Conj(s.P), quat.Conj(s.Q)
	return [4]SpinPQ{
		{P: s.P, Q: s.Q, BaseMag: s.BaseMag},
		{P: neg(s.P), Q: s.Q, BaseMag: s.BaseMag},
		{P: qc, Q: neg(pc), BaseMag: s.BaseMag},
		{P: neg(qc), Q: neg(pc), BaseMag: s.BaseMag},
	}
}

func (s SpinPQ) String() string {
	return fmt.Sprintf("P: %v Q: %v", s.P, s.Q)
}

//-------------------------------------------------------------------
// Forward intersection
//-------------------------------------------------------------------

// Distances along both rays to their closest approach.
// ok is false if the rays are too close to parallel to intersect.
func ForwardDepths(uv PairUV, rigid2w1 Rigid) (s, t float64, ok bool) {
	v1 := rigid2w1.InvApplyDir(uv.V)
	a := uv.U.Dot(v1)
	den := 1.0 - a*a
	if !(den >= MIN_RAY_SINE_SQ) {
		return 0, 0, false
	}
	d := uv.U.Dot(rigid2w1.Loc)
	e := v1.Dot(rigid2w1.Loc)
	s = (d - a*e) / den
	t = (a*d - e) / den
	return s, t, true
}

// True if the rays intersect in front of both stations.
// Parallel rays pointing the same way meet ahead at infinity.
func IsForward(uv PairUV, rigid2w1 Rigid) bool {
	s, t, ok := ForwardDepths(uv, rigid2w1)
	if !ok {
		return isAtInfinity(uv, rigid2w1)
	}
	return s > 0 && t > 0
}

func isAtInfinity(uv PairUV, rigid2w1 Rigid) bool {
	return uv.U.Dot(rigid2w1.InvApplyDir(uv.V)) > 0
}

func allForward(uvs []PairUV, rigid2w1 Rigid) bool {
	for _, uv := range uvs {
		if !IsForward(uv, rigid2w1) {
			return false
		}
	}
	return true
}

// Pick the first mirror variant of a relative pair under which every
// ray intersects in front of both stations. Station 1 keeps its pose.
func AForwardRO(rel PairRel, uvs []PairUV) (OriPair, error) {
	pq := NewSpinPQ(rel.Rel2w1)
	for i, perm := range pq.Permutations() {
		rigid2w1 := perm.Rigid2w1()
		if allForward(uvs, rigid2w1) {
			PrintD(3, "AForwardRO(): permutation %d is forward\n", i)
			return OriPair{
				Ori1wRef: rel.Ori1wRef,
				Ori2wRef: rigid2w1.Mul(rel.Ori1wRef),
			}, nil
		}
	}
	return OriPair{}, fmt.Errorf("AForwardRO() failed, err=%w", ErrNoForwardSolution)
}

// Depths of each ray pair, station 1 then station 2
func depthsOf(uvs []PairUV, rigid2w1 Rigid) [][2]float64 {
	ds := make([][2]float64, len(uvs))
	for i, uv := range uvs {
		s, t, ok := ForwardDepths(uv, rigid2w1)
		if !ok && isAtInfinity(uv, rigid2w1) {
			s, t = math.Inf(1), math.Inf(1)
		}
		ds[i] = [2]float64{s, t}
	}
	return ds
}
