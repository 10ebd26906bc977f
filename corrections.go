/*
 * corrections.go, part of gocomb.
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
	"github.com/rmera/gocomb/param"
	v3 "github.com/rmera/gocomb/v3"
)

//carbonPair reports whether the (i,k) pair record marks both atoms as carbon-like.
func (E *Engine) carbonPair(i, k int) bool {
	p := E.set.Pair(E.sys.Types[i], E.sys.Types[k])
	return p.Groups[0] == param.GroupCarbon && p.Groups[1] == param.GroupCarbon
}

//remoteCoordination returns the coordination of atom k without its partner i,
//and the weight of the (k,i) bond, fc*pcross of the (k,i) pair record, at r.
func (E *Engine) remoteCoordination(k, i int, r float64) (float64, float64, float64) {
	tk := E.sys.Types[k]
	p := E.set.Pair(tk, E.sys.Types[i])
	fc, dfc := p.Cutoff(r)
	var R float64
	for _, nm := range E.nb.Short(k) {
		if nm.J == i {
			continue
		}
		R += nm.Fc * E.set.Pair(tk, E.sys.Types[nm.J]).PCross
	}
	return R, fc * p.PCross, dfc * p.PCross
}

//conjugation returns the conjugation count of the bond from i to its mi-th
//short neighbor: the sum over the other carbon-like neighbors k of i of the
//weight of the (k,i) bond, switched off as the rest of the coordination of k
//grows through the second window of the library.
func (E *Engine) conjugation(i, mi int) float64 {
	var K float64
	lo, hi := E.lib.CCutoff[2], E.lib.CCutoff[3]
	for k, nk := range E.nb.Short(i) {
		if k == mi || !E.carbonPair(i, nk.J) {
			continue
		}
		R, a, _ := E.remoteCoordination(nk.J, i, nk.R)
		h, _ := window(R, lo, hi)
		K += a * h
	}
	return K
}

//conjugationForces adds the gradient of dEdK times the conjugation count of the
//bond from i to its mi-th short neighbor.
func (E *Engine) conjugationForces(i, mi int, dEdK float64) {
	if dEdK == 0 {
		return
	}
	lo, hi := E.lib.CCutoff[2], E.lib.CCutoff[3]
	for k, nk := range E.nb.Short(i) {
		if k == mi || !E.carbonPair(i, nk.J) {
			continue
		}
		kk := nk.J
		R, a, da := E.remoteCoordination(kk, i, nk.R)
		h, dh := window(R, lo, hi)
		if da != 0 {
			E.pairGrad(i, kk, dEdK*da*h, v3.Scale(1/nk.R, nk.D))
		}
		if dh == 0 || a == 0 {
			continue
		}
		coef := dEdK * a * dh
		tk := E.sys.Types[kk]
		for _, nm := range E.nb.Short(kk) {
			if nm.J == i || nm.DFc == 0 {
				continue
			}
			pc := E.set.Pair(tk, E.sys.Types[nm.J]).PCross
			E.pairGrad(kk, nm.J, coef*pc*nm.DFc, v3.Scale(1/nm.R, nm.D))
		}
	}
}

//curl returns the curl coefficient of atom i with pair record p, and its
//derivative with respect to the oxygen coordination of i. Hydrogen-like atoms
//with curl above curl0 move toward curl0 as their oxygen coordination goes
//through [curlcut1,curlcut2].
func (E *Engine) curl(i int, p *param.Record) (float64, float64) {
	if p.Groups[0] != param.GroupHydrogen || p.Curl <= p.Curl0 {
		return p.Curl, 0
	}
	_, bins := E.nb.Coordination(i)
	w, dw := window(bins[param.GroupOxygen-1], p.CurlCut1, p.CurlCut2)
	return p.Curl + (p.Curl0-p.Curl)*w, (p.Curl0 - p.Curl) * dw
}

//curlForces adds the gradient of dEdx times the oxygen coordination of atom i.
func (E *Engine) curlForces(i int, dEdx float64) {
	if dEdx == 0 {
		return
	}
	ti := E.sys.Types[i]
	for _, nm := range E.nb.Short(i) {
		if nm.DFc == 0 {
			continue
		}
		p := E.set.Pair(ti, E.sys.Types[nm.J])
		if p.Groups[1] != param.GroupOxygen {
			continue
		}
		E.pairGrad(i, nm.J, dEdx*p.PCross*nm.DFc, v3.Scale(1/nm.R, nm.D))
	}
}
