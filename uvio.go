// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

package goro

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
)

// Read ray pairs, one per line: "ux uy uz vx vy vz".
// Blank lines and lines starting with '#' or '%' are skipped.
// Directions are normalized.
func ReadUV(r io.Reader) ([]PairUV, error) {

	uvs := []PairUV{}

	// Reader to read line by line with newline as delimiter
	s := bufio.NewScanner(r)
	lineNo := 0
	for s.Scan() {
		lineNo++
		line := strings.TrimSpace(s.Text())
		if len(line) == 0 || line[0] == '#' || line[0] == '%' {
			continue
		}
		f := strings.Fields(line)
		if len(f) < 6 {
			return nil, fmt.Errorf("ReadUV() failed, line %d has %d fields (6 needed)", lineNo, len(f))
		}
		var v [6]float64
		for i := range v {
			var err error
			v[i], err = strconv.ParseFloat(f[i], 64)
			if err != nil {
				return nil, fmt.Errorf("ReadUV() failed, line %d, err=%w", lineNo, err)
			}
		}
		uv := NewPairUV(r3.Vector{X: v[0], Y: v[1], Z: v[2]}, r3.Vector{X: v[3], Y: v[4], Z: v[5]})
		if !uv.IsValid() {
			return nil, fmt.Errorf("ReadUV() failed, line %d has a null direction", lineNo)
		}
		uvs = append(uvs, uv)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("ReadUV() failed, err=%w", err)
	}
	return uvs, nil
}

// Write ray pairs in the layout read by ReadUV
func WriteUV(w io.Writer, uvs []PairUV) error {
	for _, uv := range uvs {
		if _, err := fmt.Fprintln(w, uv.String()); err != nil {
			return err
		}
	}
	return nil
}

// Write a consensus outcome as a report
func WriteSol(w io.Writer, sol *SacSol) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%% tried     : %d\n", sol.NumTried)
	fmt.Fprintf(bw, "%% fitted    : %d\n", sol.NumFitted)
	fmt.Fprintf(bw, "%% forward   : %d\n", sol.NumForward)
	if !sol.IsValid() {
		fmt.Fprintf(bw, "%% no solution\n")
		return bw.Flush()
	}
	rel := sol.OriPair.Rigid2w1()
	fmt.Fprintf(bw, "%% quintuple : %s\n", sol.Quint.String())
	fmt.Fprintf(bw, "%% score     : %.9f\n", sol.Score)
	fmt.Fprintf(bw, "%% rms gap   : %.3e\n", sol.Rms)
	fmt.Fprintf(bw, "%% iteration : %d\n", sol.NumIter)
	fmt.Fprintf(bw, "%% cond num  : %.3e\n", sol.CondNum)
	fmt.Fprintf(bw, "%% ori1wRef  : %s\n", sol.OriPair.Ori1wRef.String())
	fmt.Fprintf(bw, "%% ori2wRef  : %s\n", sol.OriPair.Ori2wRef.String())
	fmt.Fprintf(bw, "%% rel2w1    : %s\n", rel.String())
	if sol.Pair.IsValid() {
		fmt.Fprintf(bw, "%% args      : %s\n", sol.Pair.Args().String())
	}
	for i, d := range sol.Depths {
		fmt.Fprintf(bw, "%% depth     : %4d %12.6f %12.6f\n", sol.Quint[i], d[0], d[1])
	}
	fmt.Fprintf(bw, "%%  no  in        gap^2\n")
	for i, g := range sol.GapSqs {
		in := 0
		if sol.Quint.Contains(i) {
			in = 1
		}
		fmt.Fprintf(bw, "%5d %3d %12.5e\n", i, in, g)
	}
	return bw.Flush()
}
