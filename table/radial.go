/*
 * radial.go, part of gocomb.
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

//Radial is a function of the distance sampled at a fixed step, together with its
//first and second derivatives.
type Radial struct {
	RMin float64
	Step float64
	V    []float64
	D1   []float64
	D2   []float64
}

//NewRadial samples f at n nodes starting at rmin, with the given step.
func NewRadial(rmin, step float64, n int, f func(r float64) (float64, float64, float64)) *Radial {
	R := &Radial{RMin: rmin, Step: step, V: make([]float64, n), D1: make([]float64, n), D2: make([]float64, n)}
	for k := 0; k < n; k++ {
		R.V[k], R.D1[k], R.D2[k] = f(R.Node(k))
	}
	return R
}

//Node returns the distance of the kth node.
func (R *Radial) Node(k int) float64 {
	return R.RMin + float64(k)*R.Step
}

//RMax returns the distance of the last node.
func (R *Radial) RMax() float64 {
	return R.Node(len(R.V) - 1)
}

//Eval interpolates the table at r with 3-point Lagrange interpolation around the
//nearest node. r is clamped into [RMin+2*Step, RMax-2*Step]. At a node the
//stored samples are returned.
func (R *Radial) Eval(r float64) (v, d1, d2 float64) {
	lo := R.RMin + 2*R.Step
	hi := R.RMax() - 2*R.Step
	if r < lo {
		r = lo
	} else if r > hi {
		r = hi
	}
	x := (r - R.RMin) / R.Step
	k := int(math.Round(x))
	t := x - float64(k)
	wm := 0.5 * t * (t - 1)
	w0 := 1 - t*t
	wp := 0.5 * t * (t + 1)
	v = wm*R.V[k-1] + w0*R.V[k] + wp*R.V[k+1]
	d1 = wm*R.D1[k-1] + w0*R.D1[k] + wp*R.D1[k+1]
	d2 = wm*R.D2[k-1] + w0*R.D2[k] + wp*R.D2[k+1]
	return v, d1, d2
}
