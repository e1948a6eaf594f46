// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

// Relative orientation pairs. The same two-station geometry is expressed
// with respect to different intermediate frames "0":
//   - PairAbs:   frame 0 is the reference frame
//   - PairRel:   frame 0 is station 1
//   - PairBaseZ: frame 0 is the symmetric base frame (see pairbasez.go)

package goro

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Pair is any representation able to place both stations
// relative to an intermediate frame 0, and frame 0 relative to Ref.
type Pair interface {
	Rigid1w0() Rigid
	Rigid2w0() Rigid
	Rigid0wRef() Rigid
}

//-------------------------------------------------------------------
// OriPair
//-------------------------------------------------------------------

// Two station poses with respect to a common reference frame
type OriPair struct {
	Ori1wRef Rigid // Station 1
	Ori2wRef Rigid // Station 2
}

// Absolute station poses of any pair
func OriPairOf(p Pair) OriPair {
	r0 := p.Rigid0wRef()
	return OriPair{
		Ori1wRef: p.Rigid1w0().Mul(r0),
		Ori2wRef: p.Rigid2w0().Mul(r0),
	}
}

// Baseline vector from station 1 to station 2 in the reference frame
func (p OriPair) Baseline() r3.Vector {
	return p.Ori2wRef.Loc.Sub(p.Ori1wRef.Loc)
}

func (p OriPair) BaseMag() float64 {
	return p.Baseline().Norm()
}

// Valid if both poses are valid and the stations are separated
func (p OriPair) IsValid() bool {
	if !p.Ori1wRef.IsValid() || !p.Ori2wRef.IsValid() {
		return false
	}
	b := p.BaseMag()
	return isFinite(b) && b > MIN_BASELINE
}

// Pose of station 2 with respect to station 1
func (p OriPair) Rigid2w1() Rigid {
	return p.Ori2wRef.Mul(p.Ori1wRef.Inverse())
}

func (p OriPair) String() string {
	return fmt.Sprintf("ori1wRef: %s\nori2wRef: %s", p.Ori1wRef.String(), p.Ori2wRef.String())
}

//-------------------------------------------------------------------
// PairAbs
//-------------------------------------------------------------------

// Pair whose frame 0 is the reference frame
type PairAbs struct {
	OriPair
}

func NewPairAbs(ori1wRef, ori2wRef Rigid) PairAbs {
	return PairAbs{OriPair{Ori1wRef: ori1wRef, Ori2wRef: ori2wRef}}
}

func (p PairAbs) Rigid1w0() Rigid   { return p.Ori1wRef }
func (p PairAbs) Rigid2w0() Rigid   { return p.Ori2wRef }
func (p PairAbs) Rigid0wRef() Rigid { return IdentityRigid() }

//-------------------------------------------------------------------
// PairRel
//-------------------------------------------------------------------

// Pair whose frame 0 is station 1
type PairRel struct {
	Rel2w1   Rigid // Station 2 with respect to station 1
	Ori1wRef Rigid // Station 1 with respect to the reference frame
}

func NewPairRel(rel2w1, ori1wRef Rigid) PairRel {
	return PairRel{Rel2w1: rel2w1, Ori1wRef: ori1wRef}
}

func (p PairRel) Rigid1w0() Rigid   { return IdentityRigid() }
func (p PairRel) Rigid2w0() Rigid   { return p.Rel2w1 }
func (p PairRel) Rigid0wRef() Rigid { return p.Ori1wRef }

func (p PairRel) IsValid() bool {
	return OriPairOf(p).IsValid()
}

// Unit baseline direction in station 1 coordinates
func (p PairRel) BaseDir() r3.Vector {
	return p.Rel2w1.Loc.Normalize()
}

// Coplanarity gap of a ray pair: [b, u, v] with the unit baseline b,
// u and v all expressed in station 1 coordinates
func (p PairRel) TripleProductGap(uv PairUV) float64 {
	v1 := p.Rel2w1.InvApplyDir(uv.V)
	return p.BaseDir().Dot(uv.U.Cross(v1))
}

//-------------------------------------------------------------------
// Casts
//-------------------------------------------------------------------

func IntoPairAbs(p Pair) PairAbs {
	return PairAbs{OriPairOf(p)}
}

func IntoPairRel(p Pair) PairRel {
	ori := OriPairOf(p)
	return PairRel{
		Rel2w1:   ori.Rigid2w1(),
		Ori1wRef: ori.Ori1wRef,
	}
}

func IntoPairBaseZ(p Pair) (PairBaseZ, error) {
	return PairBaseZFrom(OriPairOf(p))
}
