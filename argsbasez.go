// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

// Symmetric five parameter relative orientation.
//
// In the base frame the baseline lies on the z axis with station 1 at
// (0, 0, -b/2) and station 2 at (0, 0, +b/2). The station attitudes are
// the physical rotation bivectors
//   phi   = (phi1,   phi2,   -alpha)
//   theta = (theta1, theta2, +alpha)
// so that a rotation of the base frame about z is absorbed into alpha.

package goro

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/num/quat"
)

// Parameters of the symmetric base-z model
type ArgsBaseZ struct {
	phi1   float64
	phi2   float64
	theta1 float64
	theta2 float64
	alpha  float64
	valid  bool
}

func NewArgsBaseZ(phi1, phi2, theta1, theta2, alpha float64) ArgsBaseZ {
	a := ArgsBaseZ{
		phi1:   phi1,
		phi2:   phi2,
		theta1: theta1,
		theta2: theta2,
		alpha:  alpha,
	}
	a.valid = floatsFinite(a.Params())
	return a
}

// Parameters from the two station bivectors. The azimuth components must
// be anti-symmetric; the two estimates of alpha are averaged.
func NewArgsBaseZBiv(phi, theta r3.Vector) (ArgsBaseZ, error) {
	alpha := 0.5 * (theta.Z - phi.Z)
	mismatch := math.Abs(phi.Z + theta.Z)
	if !(mismatch <= ANTISYM_TOL*math.Max(1.0, math.Abs(alpha))) {
		return ArgsBaseZ{}, fmt.Errorf("NewArgsBaseZBiv() failed, phi.z=%g theta.z=%g, err=%w", phi.Z, theta.Z, ErrDerivationFailed)
	}
	return NewArgsBaseZ(phi.X, phi.Y, theta.X, theta.Y, alpha), nil
}

// Parameters as a vector: phi1, phi2, theta1, theta2, alpha
func (a ArgsBaseZ) Params() [NFIT]float64 {
	return [NFIT]float64{a.phi1, a.phi2, a.theta1, a.theta2, a.alpha}
}

// Parameters shifted by delta, each wrapped into (-pi, pi]
func (a ArgsBaseZ) Updated(delta [NFIT]float64) ArgsBaseZ {
	p := a.Params()
	for i := range p {
		p[i] = PrincipalAngle(p[i] + delta[i])
	}
	return NewArgsBaseZ(p[0], p[1], p[2], p[3], p[4])
}

func (a ArgsBaseZ) IsValid() bool {
	return a.valid
}

// Physical rotation bivector of station 1 in the base frame
func (a ArgsBaseZ) PhiBiv() r3.Vector {
	return r3.Vector{X: a.phi1, Y: a.phi2, Z: -a.alpha}
}

// Physical rotation bivector of station 2 in the base frame
func (a ArgsBaseZ) ThetaBiv() r3.Vector {
	return r3.Vector{X: a.theta1, Y: a.theta2, Z: a.alpha}
}

// Station 1 with respect to the base frame
func (a ArgsBaseZ) Rigid1w0(baseMag float64) Rigid {
	return NewRigidPhys(r3.Vector{Z: -0.5 * baseMag}, a.PhiBiv())
}

// Station 2 with respect to the base frame
func (a ArgsBaseZ) Rigid2w0(baseMag float64) Rigid {
	return NewRigidPhys(r3.Vector{Z: 0.5 * baseMag}, a.ThetaBiv())
}

func (a ArgsBaseZ) String() string {
	if !a.valid {
		return "<invalid>"
	}
	return fmt.Sprintf("%15.12f %15.12f %15.12f %15.12f %15.12f", a.phi1, a.phi2, a.theta1, a.theta2, a.alpha)
}

// Parameters of an orientation pair (base frame and baseline are dropped)
func ArgsBaseZFrom(ori1wRef, ori2wRef Rigid) (ArgsBaseZ, error) {
	args, _, _, err := deriveBaseZ(ori1wRef, ori2wRef)
	return args, err
}

// Spinor rotating the frame about z by 2 kappa
func ePhase(kappa float64) quat.Number {
	return quat.Exp(quat.Number{Kmag: kappa})
}

// Attitudes of both stations with respect to the base frame candidate
// of phase kappa, as half-angle bivectors
type baseZMerit struct {
	att1 quat.Number
	att2 quat.Number
	p0   quat.Number // carries the baseline direction onto z
}

func (m *baseZMerit) baseAtt(kappa float64) quat.Number {
	return quat.Mul(ePhase(kappa), m.p0)
}

func (m *baseZMerit) halfAngles(kappa float64) (ik, jk r3.Vector) {
	bc := quat.Conj(m.baseAtt(kappa))
	ik = SpinLog(quat.Mul(m.att1, bc))
	jk = SpinLog(quat.Mul(m.att2, bc))
	return
}

// Sum of azimuth components, zero where the attitudes are anti-symmetric
func (m *baseZMerit) value(kappa float64) float64 {
	ik, jk := m.halfAngles(kappa)
	return ik.Z + jk.Z
}

func (m *baseZMerit) rmsAzim(kappa float64) float64 {
	ik, jk := m.halfAngles(kappa)
	return math.Hypot(ik.Z, jk.Z)
}

// Derive parameters, base frame and baseline magnitude of two station poses
func deriveBaseZ(ori1wRef, ori2wRef Rigid) (args ArgsBaseZ, rigid0wRef Rigid, baseMag float64, err error) {

	if !ori1wRef.IsValid() || !ori2wRef.IsValid() {
		return ArgsBaseZ{}, Rigid{}, 0, fmt.Errorf("deriveBaseZ() failed, err=%w", ErrInvalidPose)
	}
	base := ori2wRef.Loc.Sub(ori1wRef.Loc)
	baseMag = base.Norm()
	if !(baseMag > MIN_BASELINE) || !isFinite(baseMag) {
		return ArgsBaseZ{}, Rigid{}, 0, fmt.Errorf("deriveBaseZ() failed, baseMag=%g, err=%w", baseMag, ErrDegenerateBaseline)
	}
	t12 := base.Mul(1.0 / baseMag)

	m := &baseZMerit{
		att1: ori1wRef.Att,
		att2: ori2wRef.Att,
		p0:   SpinBetween(t12, E3),
	}

	// Bracket sign changes of the merit function
	var starts []float64
	k0 := -HalfPi - KAPPA_STEP
	nStep := int(math.Round((PI + 2.0*KAPPA_STEP) / KAPPA_STEP))
	kPrev, fPrev := k0, m.value(k0)
	for i := 1; i <= nStep; i++ {
		k := k0 + float64(i)*KAPPA_STEP
		f := m.value(k)
		if fPrev*f <= 0 && math.Abs(f-fPrev) < KAPPA_JUMP_MAX && !isDupKappa(starts, kPrev) {
			starts = append(starts, kPrev)
		}
		kPrev, fPrev = k, f
	}
	if len(starts) == 0 {
		return ArgsBaseZ{}, Rigid{}, 0, fmt.Errorf("deriveBaseZ() failed, err=%w", ErrNoRootBracket)
	}

	// Refine each bracket
	var kappas, rms []float64
	for _, ka := range starts {
		k, err := RootRidder(m.value, ka, ka+KAPPA_STEP, EPS, ROOT_MAX_LOOP)
		if err != nil {
			PrintD(2, "deriveBaseZ(): skip bracket at %g, err=%v\n", ka, err)
			continue
		}
		if math.Abs(m.value(k)) > KAPPA_ROOT_TOL {
			PrintD(2, "deriveBaseZ(): skip discontinuity at %g\n", k)
			continue
		}
		kappas = append(kappas, k)
		rms = append(rms, m.rmsAzim(k))
	}
	if len(kappas) == 0 {
		return ArgsBaseZ{}, Rigid{}, 0, fmt.Errorf("deriveBaseZ() failed, no root refined, err=%w", ErrNoRootBracket)
	}
	kappa := kappas[floats.MinIdx(rms)]

	ik, jk := m.halfAngles(kappa)
	args, err = NewArgsBaseZBiv(ik.Mul(2.0), jk.Mul(2.0))
	if err != nil {
		return ArgsBaseZ{}, Rigid{}, 0, fmt.Errorf("deriveBaseZ() failed, kappa=%g, err=%w", kappa, err)
	}
	mid := ori1wRef.Loc.Add(ori2wRef.Loc).Mul(0.5)
	rigid0wRef = NewRigid(mid, m.baseAtt(kappa))
	return args, rigid0wRef, baseMag, nil
}

// Bracket starts equal modulo pi are the same root of the pi-periodic merit
func isDupKappa(starts []float64, k float64) bool {
	for _, s := range starts {
		if math.Abs(PrincipalAngle(2.0*(k-s)))*0.5 < KAPPA_DUP_TOL {
			return true
		}
	}
	return false
}

func floatsFinite(v [NFIT]float64) bool {
	for _, x := range v {
		if !isFinite(x) {
			return false
		}
	}
	return true
}
