/*
 * pack.go, part of gocomb.
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
	"github.com/rmera/gocomb/comm"
	"github.com/rmera/gocomb/param"
)

//Width returns the number of values per atom exchanged in the given mode.
func (E *Engine) Width(mode comm.Mode) int {
	switch mode {
	case comm.Coordination:
		return 1 + param.NGroups
	case comm.Dipole, comm.Force:
		return 3
	}
	return 1
}

//field returns the per-atom array moved in the given mode. Coordination is
//kept by the builder and has no array here.
func (E *Engine) field(mode comm.Mode) []float64 {
	switch mode {
	case comm.Dipole:
		return E.scr.dipole
	case comm.Force:
		return E.scr.grad
	case comm.Energy:
		return E.scr.energy
	case comm.ChargeForce:
		return E.scr.qforce
	}
	return nil
}

//PackForward writes the values of atoms to buf.
func (E *Engine) PackForward(mode comm.Mode, atoms []int, buf []float64) {
	w := E.Width(mode)
	if mode == comm.Coordination {
		for k, a := range atoms {
			t, g := E.nb.Coordination(a)
			buf[k*w] = t
			copy(buf[k*w+1:(k+1)*w], g[:])
		}
		return
	}
	f := E.field(mode)
	for k, a := range atoms {
		copy(buf[k*w:(k+1)*w], f[a*w:(a+1)*w])
	}
}

//UnpackForward overwrites the values of the atoms starting at first with buf.
func (E *Engine) UnpackForward(mode comm.Mode, first int, buf []float64) {
	w := E.Width(mode)
	n := len(buf) / w
	if mode == comm.Coordination {
		for k := 0; k < n; k++ {
			var g [param.NGroups]float64
			copy(g[:], buf[k*w+1:(k+1)*w])
			E.nb.SetCoordination(first+k, buf[k*w], g)
		}
		return
	}
	f := E.field(mode)
	copy(f[first*w:(first+n)*w], buf)
}

//PackReverse writes the values of n atoms starting at first to buf. Only the
//accumulated fields (forces, energies and charge derivatives) are ever reversed.
func (E *Engine) PackReverse(mode comm.Mode, first, n int, buf []float64) {
	w := E.Width(mode)
	f := E.field(mode)
	if f == nil {
		panic(ErrMode)
	}
	copy(buf[:n*w], f[first*w:(first+n)*w])
}

//UnpackReverse adds buf to the values of atoms.
func (E *Engine) UnpackReverse(mode comm.Mode, atoms []int, buf []float64) {
	w := E.Width(mode)
	f := E.field(mode)
	if f == nil {
		panic(ErrMode)
	}
	for k, a := range atoms {
		for c := 0; c < w; c++ {
			f[a*w+c] += buf[k*w+c]
		}
	}
}
