/*
 * derive.go, part of gocomb.
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package param

import (
	"fmt"
	"math"
	"strings"
)

//Cutoff is the cosine-windowed cutoff: 1 for r<=inner, 0 for r>=outer and
//0.5(1+cos(pi(r-inner)/(outer-inner))) in between. It returns the value and
//the derivative, which vanishes at both ends. If inner==outer the function is a step.
func Cutoff(r, inner, outer float64) (float64, float64) {
	if r <= inner {
		return 1, 0
	}
	if r >= outer {
		return 0, 0
	}
	w := outer - inner
	arg := math.Pi * (r - inner) / w
	return 0.5 * (1 + math.Cos(arg)), -0.5 * math.Pi / w * math.Sin(arg)
}

func isInteger(f float64) bool {
	return f == math.Trunc(f) && !math.IsInf(f, 0)
}

//ChargePad is how far beyond [QL,QU] the short range charge derivative follows the charge.
const ChargePad = 0.2

//Derive checks the physical sanity of the record and computes the derived
//quantities. It returns an error of class "config" describing every problem found.
func (R *Record) Derive() error {
	var problems []string
	bad := func(format string, a ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, a...))
	}
	nonneg := []struct {
		name string
		v    float64
	}{
		{"lambda", R.Lambda}, {"powern", R.PowerN}, {"beta", R.Beta},
		{"alpha1", R.Alpha[0]}, {"alpha2", R.Alpha[1]}, {"alpha3", R.Alpha[2]},
		{"bigB1", R.BigB[0]}, {"bigB2", R.BigB[1]}, {"bigB3", R.BigB[2]},
		{"bigA", R.BigA}, {"bigr", R.BigR}, {"bigd", R.BigD}, {"addrep", R.AddRep},
		{"pcross", R.PCross}, {"esm", R.Esm}, {"veps", R.VEps}, {"vsig", R.VSig},
		{"vdwflag", R.VdwFlag},
	}
	for _, c := range nonneg {
		if c.v < 0 {
			bad("%s=%g is negative", c.name, c.v)
		}
	}
	if R.PowerN == 0 {
		bad("bond order exponent powern is zero")
	}
	if R.BigD > R.BigR {
		bad("inner cutoff radius bigr-bigd=%g is negative", R.BigR-R.BigD)
	}
	if !isInteger(R.PowerM) || R.PowerM < 1 {
		bad("decay exponent powerm=%g must be a positive integer", R.PowerM)
	}
	if R.QL > 0 || R.QU < 0 {
		bad("charge window QL=%g QU=%g does not satisfy QL<=0<=QU", R.QL, R.QU)
	}
	if R.DL < 0 || R.DU > 0 {
		bad("radius shifts DL=%g DU=%g do not satisfy DU<=0<=DL", R.DL, R.DU)
	}
	if R.AngFlag < 0 || R.AngFlag > 2 {
		bad("angular flag %d out of range", R.AngFlag)
	}
	if R.PcnFlag < 0 {
		bad("coordination flag %d out of range", R.PcnFlag)
	}
	if R.RadFlag < 0 {
		bad("radical flag %d out of range", R.RadFlag)
	}
	for i, g := range R.Groups {
		if g < GroupNone || g > GroupOxygen {
			bad("group id %d of element %d out of range", g, i+1)
		}
	}
	if len(problems) > 0 {
		return newConfigError("Derive", "record %s: %s", R.Name(), strings.Join(problems, "; "))
	}
	R.Inner = R.BigR - R.BigD
	R.Cut = R.BigR + R.BigD
	R.CutSq = R.Cut * R.Cut
	R.LCut = R.CoulCut
	R.Mpow = int(R.PowerM)
	n := R.PowerN
	//bounds on zeta^n+P past which a truncated expansion of the transform
	//is exact to 1e-16 (C1, C4) or 1e-8 (C2, C3)
	R.C1 = 1 / (2 * n * 1.0e-16)
	R.C2 = 1 / (2 * n * 1.0e-8)
	R.C3 = 1 / R.C2
	R.C4 = 1 / R.C1

	R.QMid = 0.5 * (R.QU + R.QL)
	R.QHalf = 0.5 * (R.QU - R.QL)
	ratio := 1.0
	if R.QHalf != 0 {
		ratio = math.Pow(math.Abs(R.QMid/R.QHalf), 10)
	}
	if ratio < 1 {
		R.AB = 1 / (1 - ratio)
		R.BB = math.Pow(math.Abs(R.AB), 0.1) / R.QHalf
	} else {
		//One end of the window sits at zero charge: the bond strength does not depend on charge.
		R.AB = 1
		R.BB = 0
	}

	R.ND = 1
	R.BD = 0
	if R.DL != 0 || R.DU != 0 {
		R.ND = math.Log(R.DU/(R.DU-R.DL)) / math.Log(R.QU/(R.QU-R.QL))
		if R.ND <= 0 || math.IsNaN(R.ND) || math.IsInf(R.ND, 0) {
			return newConfigError("Derive", "record %s: charge-radius exponent nD=%g from DL=%g DU=%g QL=%g QU=%g is not positive", R.Name(), R.ND, R.DL, R.DU, R.QL, R.QU)
		}
		R.BD = math.Pow(R.DL-R.DU, 1/R.ND) / (R.QU - R.QL)
	}
	R.derived = true
	return nil
}

//Name returns the element triplet of the record as a string.
func (R *Record) Name() string {
	return strings.Join(R.Elements[:], "-")
}

//ClampCharge clamps q into the window [QL-pad,QU+pad]. It returns the clamped
//value and whether q was inside the window.
func (R *Record) ClampCharge(q, pad float64) (float64, bool) {
	lo := R.QL - pad
	hi := R.QU + pad
	if q < lo {
		return lo, false
	}
	if q > hi {
		return hi, false
	}
	return q, true
}

//Radius returns the charge-dependent radius shift D(q)=DU+|bD(QU-q)|^nD and its
//derivative with respect to q.
func (R *Record) Radius(q float64) (float64, float64) {
	if R.BD == 0 {
		return R.DU, 0
	}
	x := R.BD * (R.QU - q)
	ax := math.Abs(x)
	d := R.DU + math.Pow(ax, R.ND)
	if ax == 0 {
		return d, 0
	}
	sign := 1.0
	if x < 0 {
		sign = -1
	}
	return d, R.ND * math.Pow(ax, R.ND-1) * sign * (-R.BD)
}

//BondStrength returns the charge-dependent bond strength B*(q)=aB-(bB(q-QMid))^10
//and its derivative with respect to q.
func (R *Record) BondStrength(q float64) (float64, float64) {
	if R.BB == 0 {
		return R.AB, 0
	}
	x := R.BB * (q - R.QMid)
	x9 := math.Pow(x, 9)
	return R.AB - x9*x, -10 * x9 * R.BB
}

//WindowRadius is Radius for the short range charge derivative. Beyond
//[QL-ChargePad,QU+ChargePad] the shift is DL (below) or DU (above) and its
//derivative is zero.
func (R *Record) WindowRadius(q float64) (float64, float64) {
	if q < R.QL-ChargePad {
		return R.DL, 0
	}
	if q > R.QU+ChargePad {
		return R.DU, 0
	}
	return R.Radius(q)
}

//WindowBondStrength is BondStrength for the short range charge derivative.
//Beyond [QL-ChargePad,QU+ChargePad] the bond strength is zero.
func (R *Record) WindowBondStrength(q float64) (float64, float64) {
	if _, inside := R.ClampCharge(q, ChargePad); !inside {
		return 0, 0
	}
	return R.BondStrength(q)
}
