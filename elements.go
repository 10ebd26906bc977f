/*
 * elements.go, part of gocomb.
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

//A map for assigning mass to elements.
//Note that just the elements commonly described with this kind of potential are present
var symbolMass = map[string]float64{
	"H":  1.008,
	"C":  12.01,
	"N":  14.01,
	"O":  16.00,
	"F":  18.998,
	"Al": 26.98,
	"Si": 28.08,
	"S":  32.06,
	"Ti": 47.87,
	"Ni": 58.69,
	"Cu": 63.55,
	"Zn": 65.38,
	"Zr": 91.22,
	"Hf": 178.49,
	"Pt": 195.08,
	"Au": 196.97,
}

//A map for assigning covalent radii to elements
//Values from Cordero et al., 2008 (DOI:10.1039/B801115J)
var symbolCovrad = map[string]float64{
	"H":  0.31,
	"C":  0.76, //the sp3 radius
	"N":  0.71,
	"O":  0.66,
	"F":  0.57,
	"Al": 1.21,
	"Si": 1.11,
	"S":  1.05,
	"Ti": 1.60,
	"Ni": 1.24,
	"Cu": 1.32,
	"Zn": 1.22,
	"Zr": 1.75,
	"Hf": 1.75,
	"Pt": 1.36,
	"Au": 1.36,
}

//Mass returns the atomic mass of the element, in amu.
func Mass(symbol string) (float64, bool) {
	m, ok := symbolMass[symbol]
	return m, ok
}

//CovalentRadius returns the covalent radius of the element, in A.
func CovalentRadius(symbol string) (float64, bool) {
	r, ok := symbolCovrad[symbol]
	return r, ok
}

//Mass returns the total mass of g. Unknown elements are reported in the second
//value and contribute nothing.
func (g *Geometry) Mass() (float64, []string) {
	var m float64
	var unknown []string
	for _, s := range g.Symbols {
		v, ok := symbolMass[s]
		if !ok {
			unknown = append(unknown, s)
			continue
		}
		m += v
	}
	return m, unknown
}

//Elements returns the distinct symbols of g, in order of first appearance.
func (g *Geometry) Elements() []string {
	seen := make(map[string]bool)
	var ret []string
	for _, s := range g.Symbols {
		if !seen[s] {
			seen[s] = true
			ret = append(ret, s)
		}
	}
	return ret
}
