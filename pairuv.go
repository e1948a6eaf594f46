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
	"golang.org/x/exp/slices"
)

// Pair of unit directions observed from station 1 (U) and station 2 (V)
// toward the same point
type PairUV struct {
	U r3.Vector
	V r3.Vector
}

// Measurement pair with both directions normalized
func NewPairUV(u, v r3.Vector) PairUV {
	return PairUV{U: u.Normalize(), V: v.Normalize()}
}

func (p PairUV) IsValid() bool {
	return isFiniteVec(p.U) && isFiniteVec(p.V) && p.U.Norm2() > 0 && p.V.Norm2() > 0
}

func (p PairUV) String() string {
	return fmt.Sprintf("%13.9f %13.9f %13.9f %13.9f %13.9f %13.9f", p.U.X, p.U.Y, p.U.Z, p.V.X, p.V.Y, p.V.Z)
}

// Indices of the measurements used for one minimal fit (ascending)
type Quint [NFIT]int

// Quintuple from any 5 distinct indices
func NewQuint(ndxs []int) Quint {
	var q Quint
	copy(q[:], ndxs)
	slices.Sort(q[:])
	return q
}

func (q Quint) Contains(ndx int) bool {
	_, found := slices.BinarySearch(q[:], ndx)
	return found
}

// Measurement pairs selected by the quintuple
func (q Quint) Select(uvs []PairUV) [NFIT]PairUV {
	var sel [NFIT]PairUV
	for i, ndx := range q {
		sel[i] = uvs[ndx]
	}
	return sel
}

func (q Quint) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d,%d)", q[0], q[1], q[2], q[3], q[4])
}
