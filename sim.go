// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

package goro

import (
	"github.com/golang/geo/r3"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mathext/prng"
	"gonum.org/v1/gonum/stat/distuv"
)

// Seeded Mersenne Twister
func NewSource(seed uint64) rand.Source {
	src := prng.NewMT19937()
	src.Seed(seed)
	return src
}

// Unit directions uniformly distributed on the sphere
func RandomDirs(n int, src rand.Source) []r3.Vector {
	nd := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	dirs := make([]r3.Vector, 0, n)
	for len(dirs) < n {
		v := r3.Vector{X: nd.Rand(), Y: nd.Rand(), Z: nd.Rand()}
		if v.Norm2() < SqEPS {
			continue
		}
		dirs = append(dirs, v.Normalize())
	}
	return dirs
}

// Points uniformly distributed in the box [lo, hi]
func RandomPoints(n int, lo, hi r3.Vector, src rand.Source) []r3.Vector {
	ux := distuv.Uniform{Min: lo.X, Max: hi.X, Src: src}
	uy := distuv.Uniform{Min: lo.Y, Max: hi.Y, Src: src}
	uz := distuv.Uniform{Min: lo.Z, Max: hi.Z, Src: src}
	pts := make([]r3.Vector, n)
	for i := range pts {
		pts[i] = r3.Vector{X: ux.Rand(), Y: uy.Rand(), Z: uz.Rand()}
	}
	return pts
}

// Ray pairs observing reference frame points from both stations of a pair
func Simulate(p Pair, points []r3.Vector) []PairUV {
	ori := OriPairOf(p)
	uvs := make([]PairUV, len(points))
	for i, x := range points {
		uvs[i] = NewPairUV(ori.Ori1wRef.Apply(x), ori.Ori2wRef.Apply(x))
	}
	return uvs
}
