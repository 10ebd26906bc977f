/*
 * prim.go, part of gocomb.
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

package comb

import (
	"math"

	"github.com/rmera/gocomb/param"
	"github.com/rmera/gocomb/spline"
)

const (
	//bounds of the argument of the exponential decay: exp(69.0776)=1e30
	maxDecayArg = 69.0776
	//value of the decay above maxDecayArg
	decayOverflow = 1e30
	//floor of 1+zeta^n+P in the bond order transform
	transformFloor = 0.1
	//coefficients smaller than this are treated as zero
	coefTol = 1e-6
)

//window is the cosine switch used to gate coordination dependent terms:
//1 for x<=lo, 0 for x>=hi. It returns the value and the derivative.
func window(x, lo, hi float64) (float64, float64) {
	return param.Cutoff(x, lo, hi)
}

//ipow returns x^n for a non-negative integer n.
func ipow(x float64, n int) float64 {
	r := 1.0
	for n > 0 {
		if n&1 == 1 {
			r *= x
		}
		x *= x
		n >>= 1
	}
	return r
}

//transform turns z=zeta^n+P into a bond order, (1+z)^(-1/2n), and returns it
//with db/dz. Far from the origin and close to it truncated expansions are used,
//selected by the thresholds C1>C2>C3>C4 of rec. Below the floor 1+z<0.1 the
//bond order is constant.
func transform(z float64, rec *param.Record) (float64, float64) {
	e := -0.5 / rec.PowerN
	az := math.Abs(z)
	switch {
	case 1+z < transformFloor:
		return math.Pow(transformFloor, e), 0
	case z > rec.C1:
		p := math.Pow(z, e)
		return p, e * p / z
	case z > rec.C2:
		p := math.Pow(z, e)
		return p * (1 + e/z), e*p/z + e*(e-1)*p/(z*z)
	case az < rec.C4:
		return 1, e
	case az < rec.C3:
		a := 0.5 * e * (e - 1)
		return 1 + z*(e+a*z), e + 2*a*z
	}
	p := math.Pow(1+z, e)
	return p, e * p / (1 + z)
}

//zetaPow returns zeta^n and its derivative. A fractional power of a
//non-positive zeta is taken as zero.
func zetaPow(zeta, n float64) (float64, float64) {
	if n == 1 {
		return zeta, 1
	}
	if zeta <= 0 && n != math.Trunc(n) {
		return 0, 0
	}
	if zeta == 0 {
		return 0, 0
	}
	p := math.Pow(zeta, n-1)
	return p * zeta, n * p
}

//decay returns exp((beta*dr)^m) and the derivative with respect to dr. Above
//maxDecayArg the value is 1e30, below -maxDecayArg it is 0, and in both cases
//the derivative is zero.
func decay(beta, dr float64, m int) (float64, float64) {
	x := beta * dr
	xm1 := ipow(x, m-1)
	arg := xm1 * x
	if arg > maxDecayArg {
		return decayOverflow, 0
	}
	if arg < -maxDecayArg {
		return 0, 0
	}
	e := math.Exp(arg)
	return e, e * float64(m) * beta * xm1
}

//poly6 evaluates sum p[k]c^k and its derivative.
func poly6(p *[7]float64, c float64) (float64, float64) {
	v := p[6]
	d := 0.0
	for k := 5; k >= 0; k-- {
		d = d*c + v
		v = v*c + p[k]
	}
	return v, d
}

//legendre returns sum p[n-1]P_n(c), n=1..6, and its derivative.
func legendre(p *[6]float64, c float64) (float64, float64) {
	c2 := c * c
	c3 := c2 * c
	c4 := c3 * c
	c5 := c4 * c
	c6 := c5 * c
	v := p[0]*c +
		p[1]*0.5*(3*c2-1) +
		p[2]*0.5*(5*c3-3*c) +
		p[3]*(35*c4-30*c2+3)/8 +
		p[4]*(63*c5-70*c3+15*c)/8 +
		p[5]*(231*c6-315*c4+105*c2-5)/16
	d := p[0] +
		p[1]*3*c +
		p[2]*(7.5*c2-1.5) +
		p[3]*(140*c3-60*c)/8 +
		p[4]*(315*c4-210*c2+15)/8 +
		p[5]*(1386*c5-1260*c3+210*c)/16
	return v, d
}

//lonePair returns the angular part of the lone pair energy of the triplet
//record rec: the Legendre series, if the record has a lone pair, plus the
//bond bending term pbb2(c-pbb1)^2, if pbb2 is not negligible. It also returns
//the derivative with respect to c, and false if neither term applies.
func lonePair(rec *param.Record, c float64) (float64, float64, bool) {
	var v, d float64
	on := false
	if rec.HasLonePair() {
		v, d = legendre(&rec.Plp, c)
		on = true
	}
	if math.Abs(rec.Pbb2) > coefTol {
		x := c - rec.Pbb1
		v += rec.Pbb2 * x * x
		d += 2 * rec.Pbb2 * x
		on = true
	}
	return v, d, on
}

//angular returns g(c;N) for the triplet record rec, and its derivatives with
//respect to the cosine c and the coordination N of the central atom. Angular
//model 0 is the record polynomial, model 1 blends it with the tabulated curve of
//the library and model 2 with the library polynomial, the blend being switched
//by N. The result is scaled by the pcross of the record.
func angular(rec *param.Record, lib *spline.Library, c, N float64) (float64, float64, float64) {
	p, dp := poly6(&rec.PCos, c)
	var h, dh, w, dw float64
	switch rec.AngFlag {
	case 0:
		return rec.PCross * p, rec.PCross * dp, 0
	case 1:
		h, dh, _ = lib.AngularCurve(c)
		w, dw = window(N, lib.CCutoff[0], lib.CCutoff[1])
	default:
		h, dh = poly6(&lib.ChA, c)
		w, dw = window(N, lib.CCutoff[4], lib.CCutoff[5])
	}
	g := h + w*(p-h)
	dgc := dh + w*(dp-dh)
	return rec.PCross * g, rec.PCross * dgc, rec.PCross * dw * (p - h)
}
