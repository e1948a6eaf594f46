// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

package goro

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Relative orientation pair in the symmetric base-z parameterization.
// Frame 0 is the base frame.
type PairBaseZ struct {
	args       ArgsBaseZ
	baseMag    float64
	rigid0wRef Rigid
}

func NewPairBaseZ(args ArgsBaseZ, baseMag float64, rigid0wRef Rigid) PairBaseZ {
	return PairBaseZ{
		args:       args,
		baseMag:    baseMag,
		rigid0wRef: rigid0wRef,
	}
}

// Pair in base-z form of two absolute station poses
func PairBaseZFrom(ori OriPair) (PairBaseZ, error) {
	args, rigid0wRef, baseMag, err := deriveBaseZ(ori.Ori1wRef, ori.Ori2wRef)
	if err != nil {
		return PairBaseZ{}, fmt.Errorf("PairBaseZFrom() failed, err=%w", err)
	}
	return NewPairBaseZ(args, baseMag, rigid0wRef), nil
}

func (p PairBaseZ) Args() ArgsBaseZ   { return p.args }
func (p PairBaseZ) BaseMag() float64  { return p.baseMag }
func (p PairBaseZ) Rigid0wRef() Rigid { return p.rigid0wRef }
func (p PairBaseZ) Rigid1w0() Rigid   { return p.args.Rigid1w0(p.baseMag) }
func (p PairBaseZ) Rigid2w0() Rigid   { return p.args.Rigid2w0(p.baseMag) }
func (p PairBaseZ) WithArgs(a ArgsBaseZ) PairBaseZ {
	p.args = a
	return p
}

func (p PairBaseZ) IsValid() bool {
	return p.args.IsValid() && isFinite(p.baseMag) && p.baseMag > 0 && p.rigid0wRef.IsValid()
}

// Measurement directions expressed in the base frame
func (p PairBaseZ) dirsIn0(uv PairUV) (u0, v0 r3.Vector) {
	u0 = RotateByPhys(p.args.PhiBiv().Mul(-1), uv.U)
	v0 = RotateByPhys(p.args.ThetaBiv().Mul(-1), uv.V)
	return
}

// Coplanarity gap of a ray pair. The baseline is the z axis of frame 0.
func (p PairBaseZ) TripleProductGap(uv PairUV) float64 {
	u0, v0 := p.dirsIn0(uv)
	return u0.Cross(v0).Z
}

// Partial derivatives of TripleProductGap with respect to
// phi1, phi2, theta1, theta2, alpha
func (p PairBaseZ) JacobianRow(uv PairUV) [NFIT]float64 {

	nphi := p.args.PhiBiv().Mul(-1)
	ntheta := p.args.ThetaBiv().Mul(-1)
	u0, v0 := p.dirsIn0(uv)

	var gphi, gtheta [3]float64
	for k, e := range [3]r3.Vector{E1, E2, E3} {
		du := ExpDerivApplied(nphi, e.Mul(-1), uv.U)
		dv := ExpDerivApplied(ntheta, e.Mul(-1), uv.V)
		gphi[k] = du.Cross(v0).Z
		gtheta[k] = u0.Cross(dv).Z
	}

	// alpha drives phi.z = -alpha and theta.z = +alpha
	return [NFIT]float64{gphi[0], gphi[1], gtheta[0], gtheta[1], gtheta[2] - gphi[2]}
}

func (p PairBaseZ) String() string {
	return fmt.Sprintf("args: %s\nbaseMag: %.9f\nrigid0wRef: %s", p.args.String(), p.baseMag, p.rigid0wRef.String())
}
