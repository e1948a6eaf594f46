// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

package goro

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
)

func TestPairUV(t *testing.T) {
	uv := NewPairUV(r3.Vector{X: 3, Y: 4}, r3.Vector{Z: -2})
	assert.InDelta(t, 1.0, uv.U.Norm(), 1e-15)
	assert.Equal(t, r3.Vector{Z: -1}, uv.V)
	assert.True(t, uv.IsValid())
	assert.False(t, PairUV{U: E1}.IsValid())
}

func TestQuint(t *testing.T) {
	q := NewQuint([]int{7, 2, 9, 0, 4})
	assert.Equal(t, Quint{0, 2, 4, 7, 9}, q)
	assert.True(t, q.Contains(7))
	assert.False(t, q.Contains(3))
	assert.Equal(t, "(0,2,4,7,9)", q.String())

	uvs := make([]PairUV, 10)
	for i := range uvs {
		uvs[i] = PairUV{U: r3.Vector{X: float64(i)}}
	}
	sel := q.Select(uvs)
	assert.Equal(t, 7.0, sel[3].U.X)
}
