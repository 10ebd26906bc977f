/*
 * fit.go, part of gocomb.
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

package spline

//Cubic Hermite basis in monomial form (coefficients of 1,t,t^2,t^3).
//hv[c] reproduces the value at corner c, hd[c] the derivative.
var (
	hv = [2][4]float64{{1, 0, -3, 2}, {0, 0, 3, -2}}
	hd = [2][4]float64{{0, 1, -2, 1}, {0, 0, -1, 1}}
)

//binomial coefficients up to degree 3
var binom = [4][4]float64{{1}, {1, 1}, {1, 2, 1}, {1, 3, 3, 1}}

//Fit computes the coefficient block of every cell from the lattice values and
//gradients, as a tensor product of cubic Hermite polynomials with zero cross
//derivatives. The resulting spline reproduces the stored values and gradients at
//the lattice points and is C1 across cell faces.
func (G *Grid) Fit() {
	m := G.Max()
	for i := G.lo[0]; i < m[0]; i++ {
		for j := G.lo[1]; j < m[1]; j++ {
			for k := G.lo[2]; k < m[2]; k++ {
				G.fitCell(i, j, k)
			}
		}
	}
}

func (G *Grid) fitCell(i, j, k int) {
	var local [NCoef]float64
	for cx := 0; cx < 2; cx++ {
		for cy := 0; cy < 2; cy++ {
			for cz := 0; cz < 2; cz++ {
				v, g := G.Point(i+cx, j+cy, k+cz)
				addProduct(&local, v, &hv[cx], &hv[cy], &hv[cz])
				addProduct(&local, g[0], &hd[cx], &hv[cy], &hv[cz])
				addProduct(&local, g[1], &hv[cx], &hd[cy], &hv[cz])
				addProduct(&local, g[2], &hv[cx], &hv[cy], &hd[cz])
			}
		}
	}
	shift(&local, [3]float64{float64(i), float64(j), float64(k)})
	copy(G.Cell(i, j, k), local[:])
}

//addProduct adds f*px(u)*py(v)*pz(w) to the coefficient block c.
func addProduct(c *[NCoef]float64, f float64, px, py, pz *[4]float64) {
	if f == 0 {
		return
	}
	for a := 0; a < 4; a++ {
		if px[a] == 0 {
			continue
		}
		for b := 0; b < 4; b++ {
			if py[b] == 0 {
				continue
			}
			for l := 0; l < 4; l++ {
				c[16*a+4*b+l] += f * px[a] * py[b] * pz[l]
			}
		}
	}
}

//shift rewrites a block written in the local coordinates u=x-x0[0], v=y-x0[1],
//w=z-x0[2] in terms of x, y and z.
func shift(c *[NCoef]float64, x0 [3]float64) {
	stride := [3]int{16, 4, 1}
	for ax := 0; ax < 3; ax++ {
		s := stride[ax]
		var pw [4]float64 //powers of -x0
		pw[0] = 1
		for p := 1; p < 4; p++ {
			pw[p] = pw[p-1] * -x0[ax]
		}
		for base := 0; base < NCoef; base++ {
			if (base/s)%4 != 0 {
				continue
			}
			var in, out [4]float64
			for p := 0; p < 4; p++ {
				in[p] = c[base+p*s]
			}
			for m := 0; m < 4; m++ {
				for p := m; p < 4; p++ {
					out[m] += in[p] * binom[p][m] * pw[p-m]
				}
			}
			for p := 0; p < 4; p++ {
				c[base+p*s] = out[p]
			}
		}
	}
}

//Constant returns a grid with every lattice value set to v, zero gradients
//and fitted cells.
func Constant(n, lo [3]int, v float64) (*Grid, error) {
	G, err := NewGrid(n, lo)
	if err != nil {
		return nil, errDecorate(err, "Constant")
	}
	for p := 0; p < len(G.points); p += pointWidth {
		G.points[p] = v
	}
	G.Fit()
	return G, nil
}

//Sample returns a grid with the lattice values and gradients of f, and fitted cells.
func Sample(n, lo [3]int, f func(x, y, z float64) (float64, [3]float64)) (*Grid, error) {
	G, err := NewGrid(n, lo)
	if err != nil {
		return nil, errDecorate(err, "Sample")
	}
	m := G.Max()
	for i := lo[0]; i <= m[0]; i++ {
		for j := lo[1]; j <= m[1]; j++ {
			for k := lo[2]; k <= m[2]; k++ {
				v, g := f(float64(i), float64(j), float64(k))
				G.SetPoint(i, j, k, v, g)
			}
		}
	}
	G.Fit()
	return G, nil
}
