// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

// Spinor and bivector helpers. Bivectors are carried as their dual vectors,
// spinors as unit quaternions acting by the sandwich product q x q*.

package goro

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Standard basis directions
var (
	E1 = r3.Vector{X: 1, Y: 0, Z: 0}
	E2 = r3.Vector{X: 0, Y: 1, Z: 0}
	E3 = r3.Vector{X: 0, Y: 0, Z: 1}
)

// Pure quaternion holding a vector
func pureOf(v r3.Vector) quat.Number {
	return quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
}

// Vector part of a quaternion
func vecOf(q quat.Number) r3.Vector {
	return r3.Vector{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
}

// Spinor for a physical rotation bivector (the norm is the rotation angle)
func SpinFromPhys(biv r3.Vector) quat.Number {
	return quat.Exp(pureOf(biv.Mul(0.5)))
}

// Physical rotation bivector of a spinor (angle within [0, pi])
func PhysFromSpin(q quat.Number) r3.Vector {
	return SpinLog(q).Mul(2)
}

// Half-angle logarithm of a spinor. The sign of the spinor is chosen
// so that its scalar part is non-negative.
func SpinLog(q quat.Number) r3.Vector {
	n := quat.Abs(q)
	if n == 0 {
		return r3.Vector{}
	}
	q = quat.Scale(1/n, q)
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	return vecOf(quat.Log(q))
}

// Rotate a vector by a spinor: q x q*
func Rotate(q quat.Number, x r3.Vector) r3.Vector {
	return vecOf(quat.Mul(quat.Mul(q, pureOf(x)), quat.Conj(q)))
}

// Rotate a vector by a physical rotation bivector
func RotateByPhys(biv, x r3.Vector) r3.Vector {
	return Rotate(SpinFromPhys(biv), x)
}

// Spinor rotating unit direction a onto unit direction b along the shortest arc
func SpinBetween(a, b r3.Vector) quat.Number {
	c := a.Dot(b)
	if c < -1+SqEPS {
		// antiparallel: half turn about any perpendicular axis
		return pureOf(a.Ortho())
	}
	q := quat.Number{Real: 1 + c}
	ax := a.Cross(b)
	q.Imag, q.Jmag, q.Kmag = ax.X, ax.Y, ax.Z
	return quat.Scale(1/quat.Abs(q), q)
}

// Angle of the rotation carrying spinor q1 into spinor q2 (sign agnostic)
func SpinAngle(q1, q2 quat.Number) float64 {
	d := quat.Mul(q2, quat.Conj(q1))
	return 2 * math.Atan2(vecOf(d).Norm(), math.Abs(d.Real))
}

// Wrap an angle into (-pi, pi]
func PrincipalAngle(a float64) float64 {
	r := math.Remainder(a, TwoPi)
	if r <= -PI {
		r += TwoPi
	}
	return r
}

// Left Jacobian of the rotation exponential applied to direction d:
// J(w) d = d + a (w x d) + b (w x (w x d))
func leftJacobian(w, d r3.Vector) r3.Vector {
	th2 := w.Norm2()
	var a, b float64
	if th2 < 1e-6 {
		a = 0.5 - th2/24 + th2*th2/720
		b = 1.0/6 - th2/120 + th2*th2/5040
	} else {
		th := math.Sqrt(th2)
		sh := math.Sin(0.5 * th)
		a = 2 * sh * sh / th2
		b = (th - math.Sin(th)) / (th2 * th)
	}
	wd := w.Cross(d)
	return d.Add(wd.Mul(a)).Add(w.Cross(wd).Mul(b))
}

// Derivative of RotateByPhys(biv, x) along bivector direction dir:
// d/de R(biv + e dir) x = (J(biv) dir) x R(biv) x
func ExpDerivApplied(biv, dir, x r3.Vector) r3.Vector {
	return leftJacobian(biv, dir).Cross(RotateByPhys(biv, x))
}

// Check that all components of a vector are finite
func isFiniteVec(v r3.Vector) bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
