/*
 * analytic.go, part of gocomb.
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

package table

import "math"

//CoulombConstant converts e^2/Angstrom to eV.
const CoulombConstant = 14.399645

//Grid and damping of the distance tables.
const (
	DampingAlpha = 0.2
	RMin         = 0.1
	Step         = 0.001
)

//exponent differences below slaterTol blend the cross and same-element forms
const slaterTol = 1e-2

//WolfKernel returns erfc(alpha*r)/r and its first and second derivatives.
func WolfKernel(alpha, r float64) (float64, float64, float64) {
	erfc := math.Erfc(alpha * r)
	k := 2 * alpha / math.SqrtPi
	g := math.Exp(-alpha * alpha * r * r)
	r2 := r * r
	v := erfc / r
	d1 := -erfc/r2 - k*g/r
	d2 := 2*erfc/(r2*r) + 2*k*g/r2 + 2*k*alpha*alpha*g
	return v, d1, d2
}

//shift returns f(r) shifted in value and slope at rc. It is zero at and beyond rc.
func shift(f func(float64) (float64, float64, float64), rc, r float64) (float64, float64, float64) {
	if r >= rc {
		return 0, 0, 0
	}
	fc, dfc, _ := f(rc)
	v, d1, d2 := f(r)
	return v - fc - dfc*(r-rc), d1 - dfc, d2
}

//Wolf returns the damped kernel erfc(alpha r)/r shifted in value and slope at rc,
//with its first two derivatives.
func Wolf(alpha, rc, r float64) (float64, float64, float64) {
	return shift(func(x float64) (float64, float64, float64) { return WolfKernel(alpha, x) }, rc, r)
}

//slaterTerm returns e^{-2 xi r}(E+F/r) and its first two derivatives.
func slaterTerm(xi, E, F, r float64) (float64, float64, float64) {
	e := math.Exp(-2 * xi * r)
	q := E + F/r
	r2 := r * r
	v := e * q
	d1 := e * (-F/r2 - 2*xi*q)
	d2 := e * (2*F/(r2*r) + 4*xi*F/r2 + 4*xi*xi*q)
	return v, d1, d2
}

func slaterSame(xi, r float64) (float64, float64, float64) {
	e := math.Exp(-2 * xi * r)
	a, b, c := 11*xi/8, 0.75*xi*xi, xi*xi*xi/6
	p := 1/r + a + b*r + c*r*r
	dp := -1/(r*r) + b + 2*c*r
	ddp := 2/(r*r*r) + 2*c
	return e * p, e * (dp - 2*xi*p), e * (ddp - 4*xi*dp + 4*xi*xi*p)
}

func slaterCross(xa, xb, r float64) (float64, float64, float64) {
	xa2, xb2 := xa*xa, xb*xb
	xa4, xb4 := xa2*xa2, xb2*xb2
	dab := xa2 - xb2
	dba := xb2 - xa2
	e1 := xa * xb4 / (dab * dab)
	e2 := xb * xa4 / (dba * dba)
	e3 := (3*xa2*xb4 - xb4*xb2) / (dab * dab * dab)
	e4 := (3*xb2*xa4 - xa4*xa2) / (dba * dba * dba)
	va, da, dda := slaterTerm(xa, e1, e3, r)
	vb, db, ddb := slaterTerm(xb, e2, e4, r)
	return va + vb, da + db, dda + ddb
}

//SlaterCorrection returns the overlap correction between two 1s Slater charge
//densities with exponents xa and xb, and its first two derivatives. The Coulomb
//interaction of the two densities is 1/r minus this correction.
//The correction is even in xa-xb. Below slaterTol the cross-element form, which
//cancels badly as the exponents meet, is replaced by the quadratic in xa-xb that
//joins the same-element form to the cross form at slaterTol.
func SlaterCorrection(xa, xb, r float64) (float64, float64, float64) {
	d := xa - xb
	if math.Abs(d) >= slaterTol {
		return slaterCross(xa, xb, r)
	}
	m := 0.5 * (xa + xb)
	s0, ds0, dds0 := slaterSame(m, r)
	s1, ds1, dds1 := slaterCross(m+0.5*slaterTol, m-0.5*slaterTol, r)
	w := d * d / (slaterTol * slaterTol)
	return s0 + w*(s1-s0), ds0 + w*(ds1-ds0), dds0 + w*(dds1-dds0)
}

//Overlap returns minus the Slater correction between exponents xa and xb, shifted
//in value and slope at rc, with its first two derivatives.
func Overlap(xa, xb, rc, r float64) (float64, float64, float64) {
	return shift(func(x float64) (float64, float64, float64) {
		v, d1, d2 := SlaterCorrection(xa, xb, x)
		return -v, -d1, -d2
	}, rc, r)
}

//Coulomb returns the Wolf kernel plus the overlap term, the interaction of two
//Slater densities per unit charges, with its first two derivatives.
func Coulomb(alpha, xa, xb, rc, r float64) (float64, float64, float64) {
	w, dw, ddw := Wolf(alpha, rc, r)
	s, ds, dds := Overlap(xa, xb, rc, r)
	return w + s, dw + ds, ddw + dds
}

//Curl returns the interaction of a point charge with a 1s Slater density of exponent
//xi beyond the point charge part, -(xi+1/r)e^{-2 xi r}, shifted in value and slope
//at rc, with its first two derivatives.
func Curl(xi, rc, r float64) (float64, float64, float64) {
	return shift(func(x float64) (float64, float64, float64) {
		v, d1, d2 := slaterTerm(xi, xi, 1, x)
		return -v, -d1, -d2
	}, rc, r)
}

//Phi returns the fraction of a 1s Slater density of exponent xi inside a sphere
//of radius r, 1-e^{-2 xi r}(1+2 xi r(1+xi r)), with its first two derivatives.
func Phi(xi, r float64) (float64, float64, float64) {
	e := math.Exp(-2 * xi * r)
	x3 := xi * xi * xi
	v := 1 - e*(1+2*xi*r*(1+xi*r))
	d1 := 4 * x3 * r * r * e
	d2 := 4 * x3 * e * (2*r - 2*xi*r*r)
	return v, d1, d2
}

//ratio returns r^n/(r^{2n}+a) and its derivative.
func ratio(n int, a, r float64) (float64, float64) {
	rn := math.Pow(r, float64(n))
	g := rn / (rn*rn + a)
	fn := float64(n)
	return g, fn/r*g - 2*fn*rn/r*g*g
}

//Field returns the damped r^-3 and r^-5 field kernels with the damping lengths p1
//and p2, each shifted in value and slope at rc, and their derivatives.
func Field(p1, p2, rc, r float64) (f3, df3, f5, df5 float64) {
	if r >= rc {
		return 0, 0, 0, 0
	}
	a3, a5 := p1*p1*p1, math.Pow(p2, 5)
	g3, dg3 := ratio(3, a3, r)
	c3, dc3 := ratio(3, a3, rc)
	g5, dg5 := ratio(5, a5, r)
	c5, dc5 := ratio(5, a5, rc)
	return g3 - c3 - (r-rc)*dc3, dg3 - dc3, g5 - c5 - (r-rc)*dc5, dg5 - dc5
}

//Vdw is the inverse power van der Waals interaction eps(sig^12/r^12-sig^6/r^6),
//each power shifted in value and slope at Cut, bridged to zero at Inner by a cubic
//below Bridge.
type Vdw struct {
	Eps, Sig float64
	Inner    float64
	Bridge   float64
	Cut      float64
	cc2, cc3 float64
}

//NewVdw sets up the interaction with the bridge at 0.95 sig. inner and cut are absolute radii.
func NewVdw(eps, sig, inner, cut float64) (*Vdw, error) {
	V := &Vdw{Eps: eps, Sig: sig, Inner: inner, Bridge: 0.95 * sig, Cut: cut}
	if V.Inner > V.Bridge {
		return nil, configError("NewVdw", "inner vdW radius %g larger than bridge radius %g", V.Inner, V.Bridge)
	}
	if V.Bridge >= cut {
		return nil, configError("NewVdw", "vdW bridge radius %g beyond the cutoff %g", V.Bridge, cut)
	}
	D := V.Bridge - V.Inner
	if D > 0 {
		u, du, _ := V.power(V.Bridge)
		V.cc2 = (3/D*u - du) / D
		V.cc3 = (u/(D*D) - V.cc2) / D
	}
	return V, nil
}

//power returns the shifted inverse power form at r.
func (V *Vdw) power(r float64) (float64, float64, float64) {
	rc := V.Cut
	s6 := math.Pow(V.Sig, 6)
	rf6 := 1/math.Pow(r, 6) - 1/math.Pow(rc, 6) + 6*(r-rc)/math.Pow(rc, 7)
	drf6 := 6 * (1/math.Pow(rc, 7) - 1/math.Pow(r, 7))
	ddrf6 := 42 / math.Pow(r, 8)
	rf12 := 1/math.Pow(r, 12) - 1/math.Pow(rc, 12) + 12*(r-rc)/math.Pow(rc, 13)
	drf12 := 12 * (1/math.Pow(rc, 13) - 1/math.Pow(r, 13))
	ddrf12 := 156 / math.Pow(r, 14)
	return V.Eps * (s6*s6*rf12 - s6*rf6), V.Eps * (s6*s6*drf12 - s6*drf6), V.Eps * (s6*s6*ddrf12 - s6*ddrf6)
}

//Eval returns the interaction energy and its first two derivatives at r.
func (V *Vdw) Eval(r float64) (float64, float64, float64) {
	switch {
	case r >= V.Cut || r <= V.Inner:
		return 0, 0, 0
	case r <= V.Bridge:
		x := r - V.Inner
		return x * x * (x*V.cc3 + V.cc2), x * (3*x*V.cc3 + 2*V.cc2), 6*x*V.cc3 + 2*V.cc2
	default:
		return V.power(r)
	}
}
