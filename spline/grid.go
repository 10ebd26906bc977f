/*
 * grid.go, part of gocomb.
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

//Package spline implements the tricubic spline grids used by the coordination,
//radical and torsion corrections, and the lib.comb3 library file that carries
//them together with the coordination windows and the angular tables.
package spline

import "math"

const (
	//NCoef is the number of polynomial coefficients per cell.
	NCoef = 64
	//values stored per lattice point: value and the three partial derivatives.
	pointWidth = 4
	//a coordinate closer than this to an integer is on the lattice.
	latticeTol = 1e-8
)

//Grid is a tricubic spline over an integer lattice with unit spacing. The lattice
//point values and gradients are stored, together with a block of NCoef polynomial
//coefficients per cell. The polynomials are written in absolute coordinates, the
//coefficient of x^a y^b z^c is stored at 16a+4b+c.
type Grid struct {
	n      [3]int    //lattice points per axis
	lo     [3]int    //coordinate of the first lattice point of each axis
	points []float64 //pointWidth values per lattice point, z fastest
	coefs  []float64 //NCoef values per cell, z fastest
}

//NewGrid returns a zero-filled grid with n[a] lattice points along axis a, the
//first one at coordinate lo[a]. Each axis needs at least 2 points.
func NewGrid(n, lo [3]int) (*Grid, error) {
	if n[0] < 2 || n[1] < 2 || n[2] < 2 {
		return nil, configError("NewGrid", "grid dimensions %d %d %d, at least 2 points per axis needed", n[0], n[1], n[2])
	}
	G := &Grid{n: n, lo: lo}
	G.points = make([]float64, pointWidth*n[0]*n[1]*n[2])
	G.coefs = make([]float64, NCoef*G.cells())
	return G, nil
}

//Dims returns the number of lattice points along each axis.
func (G *Grid) Dims() [3]int {
	return G.n
}

//Origin returns the coordinates of the first lattice point.
func (G *Grid) Origin() [3]int {
	return G.lo
}

//Max returns the coordinates of the last lattice point.
func (G *Grid) Max() [3]int {
	return [3]int{G.lo[0] + G.n[0] - 1, G.lo[1] + G.n[1] - 1, G.lo[2] + G.n[2] - 1}
}

func (G *Grid) cells() int {
	return (G.n[0] - 1) * (G.n[1] - 1) * (G.n[2] - 1)
}

//Contains returns true if (i,j,k) is a lattice point.
func (G *Grid) Contains(i, j, k int) bool {
	m := G.Max()
	return i >= G.lo[0] && i <= m[0] && j >= G.lo[1] && j <= m[1] && k >= G.lo[2] && k <= m[2]
}

//ContainsCell returns true if (i,j,k) is the lower corner of a cell.
func (G *Grid) ContainsCell(i, j, k int) bool {
	m := G.Max()
	return i >= G.lo[0] && i < m[0] && j >= G.lo[1] && j < m[1] && k >= G.lo[2] && k < m[2]
}

func (G *Grid) point(i, j, k int) int {
	i, j, k = i-G.lo[0], j-G.lo[1], k-G.lo[2]
	return pointWidth * (k + G.n[2]*(j+G.n[1]*i))
}

func (G *Grid) cell(i, j, k int) int {
	i, j, k = i-G.lo[0], j-G.lo[1], k-G.lo[2]
	return NCoef * (k + (G.n[2]-1)*(j+(G.n[1]-1)*i))
}

//Point returns the stored value and gradient at lattice point (i,j,k).
func (G *Grid) Point(i, j, k int) (float64, [3]float64) {
	p := G.points[G.point(i, j, k):]
	return p[0], [3]float64{p[1], p[2], p[3]}
}

//SetPoint sets the value and gradient at lattice point (i,j,k). The cell
//coefficients are not updated, see Fit.
func (G *Grid) SetPoint(i, j, k int, v float64, grad [3]float64) {
	p := G.points[G.point(i, j, k):]
	p[0] = v
	copy(p[1:pointWidth], grad[:])
}

//Cell returns the coefficient block of the cell whose lower corner is (i,j,k).
//The returned slice shares storage with the grid.
func (G *Grid) Cell(i, j, k int) []float64 {
	c := G.cell(i, j, k)
	return G.coefs[c : c+NCoef]
}

//Clamp moves each coordinate into the lattice range. free[a] is false if
//coordinate a was moved.
func (G *Grid) Clamp(x [3]float64) (c [3]float64, free [3]bool) {
	m := G.Max()
	for a := 0; a < 3; a++ {
		c[a], free[a] = x[a], true
		if x[a] < float64(G.lo[a]) {
			c[a], free[a] = float64(G.lo[a]), false
		} else if x[a] > float64(m[a]) {
			c[a], free[a] = float64(m[a]), false
		}
	}
	return c, free
}

//Eval returns the value of the spline and its gradient at (x,y,z). The coordinates
//are first clamped into the lattice range. If the clamped point is within 1e-8 of
//a lattice point on every axis, the stored value and gradient are returned.
//Otherwise the polynomial of the cell containing the point is used, the last cell
//of an axis also covering its upper face. The derivative along a clamped axis is zero.
func (G *Grid) Eval(x, y, z float64) (float64, [3]float64) {
	in, free := G.Clamp([3]float64{x, y, z})
	m := G.Max()
	var idx [3]int
	onLattice := true
	for a := 0; a < 3; a++ {
		idx[a] = int(in[a] + 1e-12)
		if math.Abs(float64(idx[a])-in[a]) > latticeTol {
			onLattice = false
		}
	}
	var v float64
	var grad [3]float64
	if onLattice {
		v, grad = G.Point(idx[0], idx[1], idx[2])
	} else {
		for a := 0; a < 3; a++ {
			if idx[a] > m[a]-1 {
				idx[a] = m[a] - 1
			}
		}
		v, grad = Polynomial(G.Cell(idx[0], idx[1], idx[2]), in[0], in[1], in[2])
	}
	for a := 0; a < 3; a++ {
		if !free[a] {
			grad[a] = 0
		}
	}
	return v, grad
}

//Polynomial evaluates the tricubic polynomial with coefficients c at (x,y,z),
//returning its value and gradient.
func Polynomial(c []float64, x, y, z float64) (float64, [3]float64) {
	var px, py, pz, dx, dy, dz [4]float64
	powers(x, &px, &dx)
	powers(y, &py, &dy)
	powers(z, &pz, &dz)
	var val float64
	var grad [3]float64
	for a := 0; a < 4; a++ {
		for b := 0; b < 4; b++ {
			for l := 0; l < 4; l++ {
				co := c[16*a+4*b+l]
				if co == 0 {
					continue
				}
				val += co * px[a] * py[b] * pz[l]
				grad[0] += co * dx[a] * py[b] * pz[l]
				grad[1] += co * px[a] * dy[b] * pz[l]
				grad[2] += co * px[a] * py[b] * dz[l]
			}
		}
	}
	return val, grad
}

//powers fills p with 1,t,t^2,t^3 and d with their derivatives.
func powers(t float64, p, d *[4]float64) {
	p[0], p[1], p[2], p[3] = 1, t, t*t, t*t*t
	d[0], d[1], d[2], d[3] = 0, 1, 2*t, 3*t*t
}
