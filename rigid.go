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
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

//-------------------------------------------------------------------
// Rigid
//-------------------------------------------------------------------

// Rigid body transform of a frame X with respect to a frame Y.
// A point y in Y maps into X as x = Att (y - Loc) Att*.
type Rigid struct {
	Loc r3.Vector   // Origin of X expressed in Y
	Att quat.Number // Spinor carrying Y directions into X
}

func NewRigid(loc r3.Vector, att quat.Number) Rigid {
	n := quat.Abs(att)
	if n > 0 {
		att = quat.Scale(1/n, att)
	}
	return Rigid{
		Loc: loc,
		Att: att,
	}
}

// Rigid transform from a location and a physical rotation bivector
func NewRigidPhys(loc, biv r3.Vector) Rigid {
	return NewRigid(loc, SpinFromPhys(biv))
}

func IdentityRigid() Rigid {
	return Rigid{Att: quat.Number{Real: 1}}
}

// Valid if the location is finite and the attitude is a unit spinor
func (p Rigid) IsValid() bool {
	if !isFiniteVec(p.Loc) || quat.IsNaN(p.Att) || quat.IsInf(p.Att) {
		return false
	}
	return math.Abs(quat.Abs(p.Att)-1) < 1e-9
}

// Composition p * q: apply q first, then p
// (rigid1wRef = rigid1w0 * rigid0wRef)
func (p Rigid) Mul(q Rigid) Rigid {
	return Rigid{
		Loc: q.Loc.Add(Rotate(quat.Conj(q.Att), p.Loc)),
		Att: quat.Mul(p.Att, q.Att),
	}
}

func (p Rigid) Inverse() Rigid {
	return Rigid{
		Loc: Rotate(p.Att, p.Loc).Mul(-1),
		Att: quat.Conj(p.Att),
	}
}

// Map a point of Y into X
func (p Rigid) Apply(y r3.Vector) r3.Vector {
	return Rotate(p.Att, y.Sub(p.Loc))
}

// Map a direction of Y into X
func (p Rigid) ApplyDir(d r3.Vector) r3.Vector {
	return Rotate(p.Att, d)
}

// Map a point of X back into Y
func (p Rigid) InvApply(x r3.Vector) r3.Vector {
	return Rotate(quat.Conj(p.Att), x).Add(p.Loc)
}

// Map a direction of X back into Y
func (p Rigid) InvApplyDir(d r3.Vector) r3.Vector {
	return Rotate(quat.Conj(p.Att), d)
}

// Physical rotation bivector of the attitude
func (p Rigid) PhysAngle() r3.Vector {
	return PhysFromSpin(p.Att)
}

// Nearly equal in location and in rotation (spinor sign is ignored)
func (p Rigid) NearlyEquals(q Rigid, tol float64) bool {
	return p.Loc.Sub(q.Loc).Norm() <= tol && SpinAngle(p.Att, q.Att) <= tol
}

// Read from string: "lx ly lz bx by bz" (location, physical rotation bivector)
func (p *Rigid) Set(s string) error {
	f := strings.Fields(s)
	if len(f) != 6 {
		return fmt.Errorf("rigid needs 6 values, got %d", len(f))
	}
	var v [6]float64
	for i := range f {
		var err error
		v[i], err = strconv.ParseFloat(f[i], 64)
		if err != nil {
			return err
		}
	}
	*p = NewRigidPhys(r3.Vector{X: v[0], Y: v[1], Z: v[2]}, r3.Vector{X: v[3], Y: v[4], Z: v[5]})
	return nil
}

// Convert to string (same layout as Set)
func (p *Rigid) String() string {
	b := p.PhysAngle()
	return fmt.Sprintf("%.9f %.9f %.9f %.12f %.12f %.12f", p.Loc.X, p.Loc.Y, p.Loc.Z, b.X, b.Y, b.Z)
}
