// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

package goro

import "errors"

// Failure classes. Callers test them with errors.Is.
var (
	ErrInvalidPose        = errors.New("invalid rigid transform")
	ErrDegenerateBaseline = errors.New("degenerate baseline")
	ErrNoRootBracket      = errors.New("no acceptable root bracket")
	ErrRootNotBracketed   = errors.New("root is not bracketed")
	ErrDerivationFailed   = errors.New("anti-symmetry check failed")
	ErrIllConditioned     = errors.New("ill-conditioned system")
	ErrSolveFailed        = errors.New("linear solve failed")
	ErrTooFewMeasurements = errors.New("too few measurements")
	ErrNoForwardSolution  = errors.New("no forward intersecting solution")
	ErrNoSolution         = errors.New("no acceptable solution")
)
