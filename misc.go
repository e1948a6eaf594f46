// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

package goro

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// ------------------------------------
// Mini functions
// ------------------------------------

func SQ(x float64) float64 {
	return x * x
}

func ToDeg(rad float64) float64 {
	return rad / PI * 180.0
}

func ToRad(deg float64) float64 {
	return deg / 180.0 * PI
}

// ------------------------------------
// Logging
// ------------------------------------

var logger = zap.NewNop().Sugar()

// Replace the package logger (no-op by default)
func SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	logger = l
}

func Logger() *zap.SugaredLogger {
	return logger
}

// Debug display level
var DBG_ int

// Debug display
func PrintD(v int, format string, a ...any) {
	if DBG_ >= v {
		logger.Debugf(strings.TrimSuffix(format, "\n"), a...)
	}
}

func PrintA(format string, a ...any) {
	logger.Infof(strings.TrimSuffix(format, "\n"), a...)
}

func PrintE(err error) {
	logger.Errorf("err=%s", err.Error())
}

func PrintMat(X mat.Matrix) {
	r, c := X.Dims()
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	logger.Debugf("(%d x %d)\n%v", r, c, fa)
}

// ------------------------------------
// For command argument parsing
// ------------------------------------

// Vector given as "x y z" or "x,y,z"
type VecVar r3.Vector

func (p *VecVar) Set(s string) error {
	f := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })
	if len(f) != 3 {
		return fmt.Errorf("vector needs 3 values, got %d", len(f))
	}
	var v [3]float64
	for i := range f {
		var err error
		v[i], err = strconv.ParseFloat(f[i], 64)
		if err != nil {
			return err
		}
	}
	*p = VecVar{X: v[0], Y: v[1], Z: v[2]}
	return nil
}

func (p *VecVar) String() string {
	return fmt.Sprintf("%g %g %g", p.X, p.Y, p.Z)
}

func (p *VecVar) UnmarshalText(text []byte) error {
	return p.Set(string(text))
}

// Consensus mode (0: all combinations, 1: random samples)
type Mode int

const (
	COMBO = iota
	SAMPLE
)

func (p *Mode) Set(s string) error {
	i, err := strconv.ParseInt(s, 10, 0)
	if err != nil {
		return err
	}
	*p = Mode(i)
	return nil
}

func (p *Mode) String() string {
	switch *p {
	case COMBO:
		return "COMBO"
	case SAMPLE:
		return "SAMPLE"
	default:
		return "UNKNOWN!"
	}
}
