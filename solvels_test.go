// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

package goro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSolveSVD(t *testing.T) {
	A := mat.NewDense(3, 3, []float64{
		4, 1, 0,
		1, 3, 1,
		0, 1, 2,
	})
	want := mat.NewVecDense(3, []float64{1, -2, 0.5})
	var b mat.VecDense
	b.MulVec(A, want)

	x, cond, err := SolveSVD(A, &b, 1e6)
	require.NoError(t, err)
	assert.Greater(t, cond, 1.0)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want.AtVec(i), x.AtVec(i), 1e-14)
	}
	assert.Equal(t, 3, MatrixRank(A, 1e-12))
}

func TestSolveSVDRejects(t *testing.T) {
	A := mat.NewDense(3, 3, []float64{
		1, 2, 3,
		2, 4, 6,
		1, 0, 1,
	})
	b := mat.NewVecDense(3, []float64{1, 2, 3})
	_, _, err := SolveSVD(A, b, 1e6)
	assert.ErrorIs(t, err, ErrIllConditioned)
	assert.Equal(t, 2, MatrixRank(A, 1e-12))

	_, _, err = SolveSVD(A, mat.NewVecDense(2, nil), 1e6)
	assert.Error(t, err)
}
