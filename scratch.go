/*
 * scratch.go, part of gocomb.
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

//scratch holds every per-call array of the engine. It is rebuilt from scratch
//on each call and only grows.
type scratch struct {
	//per (atom, short neighbor) slot, indexed through offsets
	offsets []int
	zeta    []float64
	zn      []float64    //derivative of zeta with respect to the coordination of the atom
	zpow    []float64    //zeta^n
	dzpow   []float64    //its derivative with respect to zeta
	pcor    []float64    //coordination correction P
	dpdn    []float64    //its derivative with respect to the coordination of the atom
	dpdx    [][3]float64 //and with respect to the three group coordinations
	bo      []float64    //bond order
	dbdz    []float64    //derivative of the bond order with respect to z=zeta^n+P

	//per atom
	grad   []float64 //3 per atom, gradient of the energy
	energy []float64
	qforce []float64 //derivative of the energy with respect to the charge
	field  []float64 //3 per atom, electric field for the dipoles
	dipole []float64 //3 per atom, new dipoles
	prevMu []float64 //3 per atom, dipoles of the previous call
}

func grow(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	s = s[:n]
	for i := range s {
		s[i] = 0
	}
	return s
}

//ensureCapacity makes room for n atoms and zeroes the per-atom arrays.
func (S *scratch) ensureCapacity(n int) {
	if cap(S.offsets) < n+1 {
		S.offsets = make([]int, n+1)
	}
	S.offsets = S.offsets[:n+1]
	S.grad = grow(S.grad, 3*n)
	S.energy = grow(S.energy, n)
	S.qforce = grow(S.qforce, n)
	S.field = grow(S.field, 3*n)
	S.dipole = grow(S.dipole, 3*n)
	S.prevMu = grow(S.prevMu, 3*n)
}

//ensureSlots makes room for the given number of short neighbor slots.
func (S *scratch) ensureSlots(slots int) {
	S.zeta = grow(S.zeta, slots)
	S.zn = grow(S.zn, slots)
	S.zpow = grow(S.zpow, slots)
	S.dzpow = grow(S.dzpow, slots)
	S.pcor = grow(S.pcor, slots)
	S.dpdn = grow(S.dpdn, slots)
	S.bo = grow(S.bo, slots)
	S.dbdz = grow(S.dbdz, slots)
	if cap(S.dpdx) < slots {
		S.dpdx = make([][3]float64, slots)
	}
	S.dpdx = S.dpdx[:slots]
}

//side accumulates the derivatives of the energy with respect to the coordination
//of one atom of a bond and to the cutoff functions of its short neighbors, which
//are turned into forces once the bond is done.
type side struct {
	pN  float64    //with respect to the total coordination
	pG  [3]float64 //with respect to the group coordinations
	pfc []float64  //with respect to the cutoff function of each short neighbor
}

func (s *side) reset(n int) {
	s.pN = 0
	s.pG = [3]float64{}
	if cap(s.pfc) < n {
		s.pfc = make([]float64, n)
	}
	s.pfc = s.pfc[:n]
	for i := range s.pfc {
		s.pfc[i] = 0
	}
}
