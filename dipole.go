/*
 * dipole.go, part of gocomb.
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
	"github.com/rmera/gocomb/table"
	v3 "github.com/rmera/gocomb/v3"
)

func (E *Engine) mu(i int) [3]float64 {
	d := E.scr.dipole
	return [3]float64{d[3*i], d[3*i+1], d[3*i+2]}
}

//dipoleTensor returns 3(mu.d)d/r^5-mu/r^3, the field of a dipole mu at -d,
//without the Coulomb constant.
func dipoleTensor(mu, d [3]float64, r float64) [3]float64 {
	r2 := r * r
	r3 := r2 * r
	return v3.Sub(v3.Scale(3*v3.Dot(mu, d)/(r3*r2), d), v3.Scale(1/r3, mu))
}

//within returns the distance vector from i to j and its norm, and whether the
//pair is inside the Coulomb cutoff of its record.
func (E *Engine) within(i, j int) ([3]float64, float64, bool) {
	d := v3.Sub(E.pos(j), E.pos(i))
	r := v3.Norm(d)
	ti, tj := E.sys.Types[i], E.sys.Types[j]
	return d, r, r < E.tab.Cutoff() && r <= E.set.Record(ti, tj, tj).LCut
}

//dipoles estimates the induced dipole of every owned polarizable atom from the
//field of the charges and of the dipoles of the previous call, in a single pass,
//and sends the result to the ghosts.
func (E *Engine) dipoles() error {
	if E.sys.Dipoles != nil {
		copy(E.scr.prevMu, E.sys.Dipoles.Raw())
	}
	K := table.CoulombConstant
	for i := 0; i < E.sys.NLocal; i++ {
		ti := E.sys.Types[i]
		alpha := E.set.Self(ti).Polz
		if alpha == 0 {
			continue
		}
		var f [3]float64
		for _, j := range E.sys.Neighbors[i] {
			d, r, ok := E.within(i, j)
			if !ok {
				continue
			}
			tj := E.sys.Types[j]
			_, dJ, _ := E.tab.Coulomb(ti, tj, r)
			s := -dJ / (K * r)
			f = v3.Sub(f, v3.Scale(E.sys.Charges[j]*s, d))
			prev := [3]float64{E.scr.prevMu[3*j], E.scr.prevMu[3*j+1], E.scr.prevMu[3*j+2]}
			if prev != [3]float64{} {
				phi, _, _ := E.tab.Phi(tj, r)
				f = v3.Add(f, v3.Scale(phi, dipoleTensor(prev, d, r)))
			}
		}
		copy(E.scr.field[3*i:3*i+3], f[:])
		m := v3.Scale(0.5*alpha, f)
		copy(E.scr.dipole[3*i:3*i+3], m[:])
	}
	return E.ex.Forward(E, comm.Dipole)
}

//dipoleSelf returns the self energy K|mu|^2/2alpha of owned atom i.
func (E *Engine) dipoleSelf(i int) float64 {
	alpha := E.set.Self(E.sys.Types[i]).Polz
	if alpha == 0 {
		return 0
	}
	m := E.mu(i)
	e := table.CoulombConstant * v3.Dot(m, m) / (2 * alpha)
	E.scr.energy[i] += e
	return e
}

//dipolePair returns the dipole-charge and dipole-dipole energy of the pair i,j,
//with d=x_j-x_i, at fixed dipoles.
func (E *Engine) dipolePair(i, j int, d [3]float64, r float64, forces bool) float64 {
	mi, mj := E.mu(i), E.mu(j)
	zero := [3]float64{}
	if mi == zero && mj == zero {
		return 0
	}
	ti, tj := E.sys.Types[i], E.sys.Types[j]
	qi, qj := E.sys.Charges[i], E.sys.Charges[j]
	K := table.CoulombConstant
	r2 := r * r
	r3 := r2 * r
	r5 := r3 * r2

	_, dJ, d2J := E.tab.Coulomb(ti, tj, r)
	S := -dJ / r
	dS := -d2J/r + dJ/r2
	mid, mjd := v3.Dot(mi, d), v3.Dot(mj, d)
	A := qj*mid - qi*mjd
	edq := 0.5 * S * A

	phii, dphii, _ := E.tab.Phi(ti, r)
	phij, dphij, _ := E.tab.Phi(tj, r)
	Phi, dPhi := phii+phij, dphii+dphij
	pm := v3.Dot(mi, mj)
	tau := 3*mid*mjd/r5 - pm/r3
	edd := -0.5 * K * Phi * tau

	e := edq + edd
	E.scr.energy[i] += 0.5 * e
	E.scr.energy[j] += 0.5 * e
	E.scr.qforce[i] -= 0.5 * S * mjd
	E.scr.qforce[j] += 0.5 * S * mid
	if !forces {
		return e
	}
	u := v3.Scale(1/r, d)
	//gradient with respect to d
	gdq := v3.Add(v3.Scale(0.5*dS*A, u), v3.Scale(0.5*S, v3.Sub(v3.Scale(qj, mi), v3.Scale(qi, mj))))
	dtau := v3.Add(v3.Scale(3/r5, v3.Add(v3.Scale(mjd, mi), v3.Scale(mid, mj))), v3.Scale(-15*mid*mjd/(r5*r)+3*pm/(r3*r), u))
	gdd := v3.Scale(-0.5*K, v3.Add(v3.Scale(dPhi*tau, u), v3.Scale(Phi, dtau)))
	g := v3.Add(gdq, gdd)
	E.addGrad(j, g)
	E.addGrad(i, v3.Scale(-1, g))
	return e
}
