/*
 * full.go, part of gocomb.
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

package neigh

import (
	v3 "github.com/rmera/gocomb/v3"
)

//FullList returns, for every atom in coords, the indexes of all other atoms closer than
//cutoff. It checks every pair, so it is only meant for small systems, tools and tests.
func FullList(coords *v3.Matrix, cutoff float64) [][]int {
	n := coords.NVecs()
	ret := make([][]int, n)
	c2 := cutoff * cutoff
	for i := 0; i < n; i++ {
		xi := coords.Vec(i)
		for j := i + 1; j < n; j++ {
			d := v3.Sub(coords.Vec(j), xi)
			if v3.Dot(d, d) < c2 {
				ret[i] = append(ret[i], j)
				ret[j] = append(ret[j], i)
			}
		}
	}
	return ret
}

//Periodic adds ghost images of the atoms in coords, which must be inside the
//orthorhombic box with its origin at 0, for every image closer than ghostCut to
//the box. It returns the owned and ghost coordinates, owned ones first, and for
//each ghost, the index of the atom it replicates. ghostCut must not be larger
//than the smallest box length.
func Periodic(box [3]float64, coords *v3.Matrix, ghostCut float64) (*v3.Matrix, []int, error) {
	for _, l := range box {
		if l <= 0 || ghostCut > l {
			return nil, nil, Error{message: "box too small for the ghost cutoff", class: ClassConfig, deco: []string{"Periodic"}, critical: true}
		}
	}
	n := coords.NVecs()
	data := make([]float64, 0, 3*n*2)
	data = append(data, coords.Raw()...)
	var owner []int
	for i := 0; i < n; i++ {
		x := coords.Vec(i)
		for sx := -1; sx <= 1; sx++ {
			for sy := -1; sy <= 1; sy++ {
				for sz := -1; sz <= 1; sz++ {
					if sx == 0 && sy == 0 && sz == 0 {
						continue
					}
					img := [3]float64{x[0] + float64(sx)*box[0], x[1] + float64(sy)*box[1], x[2] + float64(sz)*box[2]}
					if outside(img, box) > ghostCut*ghostCut {
						continue
					}
					data = append(data, img[:]...)
					owner = append(owner, i)
				}
			}
		}
	}
	all, err := v3.NewMatrix(data)
	if err != nil {
		return nil, nil, err
	}
	return all, owner, nil
}

//outside returns the squared distance from x to the box, 0 if x is inside.
func outside(x, box [3]float64) float64 {
	var d2 float64
	for k := 0; k < 3; k++ {
		var d float64
		if x[k] < 0 {
			d = -x[k]
		} else if x[k] > box[k] {
			d = x[k] - box[k]
		}
		d2 += d * d
	}
	return d2
}

//Wrap puts every atom of coords inside the box, in place.
func Wrap(box [3]float64, coords *v3.Matrix) {
	for i := 0; i < coords.NVecs(); i++ {
		x := coords.Vec(i)
		for k := 0; k < 3; k++ {
			for x[k] < 0 {
				x[k] += box[k]
			}
			for x[k] >= box[k] {
				x[k] -= box[k]
			}
		}
		coords.SetVec(i, x)
	}
}
