// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

package goro

import "math"

const (
	PI     = math.Pi                // Pi
	HalfPi = 0.5 * math.Pi          // Pi/2
	TwoPi  = 2.0 * math.Pi          // 2 Pi
	EPS    = 2.220446049250313e-16  // Machine epsilon of float64
	SqEPS  = 1.4901161193847656e-08 // sqrt(EPS)
)

// Number of measurements in a minimal relative orientation solution
const NFIT = 5

// Constants used when deriving ArgsBaseZ from two absolute orientations
const (
	KAPPA_STEP      = PI / 16.0          // Scan step for root bracketing [rad]
	KAPPA_JUMP_MAX  = 7.0 / 8.0 * HalfPi // Larger merit jump within one step is a phase wrap, not a root
	KAPPA_DUP_TOL   = 0.25 * KAPPA_STEP  // Bracket starts closer than this are the same bracket
	KAPPA_ROOT_TOL  = 1.0e-9             // Merit at a genuine root is below this
	ANTISYM_TOL     = 128.0 * EPS        // Allowed mismatch of the two alpha estimates
	ROOT_MAX_LOOP   = 100                // Maximum iterations of the root finder
	MIN_BASELINE    = 1.0e-12            // Baseline magnitude below this is degenerate
	MIN_RAY_SINE_SQ = SqEPS              // Rays closer to parallel than this meet at infinity
)
