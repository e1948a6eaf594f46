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
	"github.com/stretchr/testify/require"
)

func TestRigidCompose(t *testing.T) {
	p := NewRigidPhys(r3.Vector{X: 1, Y: -2, Z: 0.5}, r3.Vector{X: 0.2, Y: 0.4, Z: -0.6})
	q := NewRigidPhys(r3.Vector{X: -0.3, Y: 0.8, Z: 2}, r3.Vector{X: -1.2, Y: 0.1, Z: 0.3})
	y := r3.Vector{X: 0.7, Y: 0.1, Z: -1.9}

	// q applies first
	assert.InDelta(t, 0, p.Mul(q).Apply(y).Sub(p.Apply(q.Apply(y))).Norm(), 1e-14)
	assert.InDelta(t, 0, p.InvApply(p.Apply(y)).Sub(y).Norm(), 1e-14)
	assert.InDelta(t, 0, p.Inverse().Apply(p.Apply(y)).Sub(y).Norm(), 1e-14)
	assert.True(t, p.Mul(p.Inverse()).NearlyEquals(IdentityRigid(), 1e-14))
	assert.True(t, p.Inverse().Mul(p).NearlyEquals(IdentityRigid(), 1e-14))

	// The origin of X maps to zero
	assert.InDelta(t, 0, p.Apply(p.Loc).Norm(), 1e-15)
}

func TestRigidValid(t *testing.T) {
	assert.True(t, IdentityRigid().IsValid())
	assert.False(t, Rigid{}.IsValid())
	r := IdentityRigid()
	r.Loc.X = 1.0 / zero()
	assert.False(t, r.IsValid())
}

func TestRigidSetString(t *testing.T) {
	var r Rigid
	require.NoError(t, r.Set("1 2 3 0.1 -0.2 0.3"))
	assert.Equal(t, r3.Vector{X: 1, Y: 2, Z: 3}, r.Loc)
	assert.InDelta(t, 0, r.PhysAngle().Sub(r3.Vector{X: 0.1, Y: -0.2, Z: 0.3}).Norm(), 1e-15)

	var r2 Rigid
	require.NoError(t, r2.Set(r.String()))
	assert.True(t, r2.NearlyEquals(r, 1e-9))

	assert.Error(t, r.Set("1 2 3"))
	assert.Error(t, r.Set("1 2 3 a b c"))
}

func zero() float64 { return 0 }
