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
)

// Find a root of f in the bracket [xa, xb] by Ridder's method.
// f(xa) and f(xb) must differ in sign. Iteration stops once successive
// estimates differ by no more than tol or after itMax loops, in which case
// the latest estimate is returned.
func RootRidder(f func(float64) float64, xa, xb, tol float64, itMax int) (float64, error) {

	fa := f(xa)
	fb := f(xb)
	if fa == 0 {
		return xa, nil
	}
	if fb == 0 {
		return xb, nil
	}
	if math.Signbit(fa) == math.Signbit(fb) {
		return math.NaN(), fmt.Errorf("RootRidder() failed, f(%g)=%g, f(%g)=%g, err=%w", xa, fa, xb, fb, ErrRootNotBracketed)
	}

	ans := math.Inf(-1)
	for i := 0; i < itMax; i++ {
		xm := 0.5 * (xa + xb)
		fm := f(xm)
		s := math.Sqrt(fm*fm - fa*fb)
		if s == 0 {
			return xm, nil
		}
		sgn := 1.0
		if fa < fb {
			sgn = -1.0
		}
		xn := xm + (xm-xa)*sgn*fm/s
		if math.Abs(xn-ans) <= tol {
			return xn, nil
		}
		ans = xn
		fn := f(ans)
		if fn == 0 {
			return ans, nil
		}

		// Keep the bracket around the root
		switch {
		case math.Signbit(fm) != math.Signbit(fn):
			xa, fa = xm, fm
			xb, fb = ans, fn
		case math.Signbit(fa) != math.Signbit(fn):
			xb, fb = ans, fn
		default:
			xa, fa = ans, fn
		}
		if math.Abs(xb-xa) <= tol {
			return ans, nil
		}
	}
	PrintD(2, "RootRidder(): no convergence after %d loops, x=%g\n", itMax, ans)
	return ans, nil
}
