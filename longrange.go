/*
 * longrange.go, part of gocomb.
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
	"github.com/rmera/gocomb/table"
	v3 "github.com/rmera/gocomb/v3"
)

//weight of the quartic charge penalty outside [qmin,qmax]
const chargePenalty = 100.0

//selfEnergy returns the charge self energy of atom i: the ionization polynomial
//and the quartic penalty outside [qmin,qmax]. It also accumulates the per-atom
//energy and the charge derivative.
func (E *Engine) selfEnergy(i int) float64 {
	s := E.set.Self(E.sys.Types[i])
	q := E.sys.Charges[i]
	e := q * (s.Chi + q*(s.DJ+q*(s.DK+q*s.DLq)))
	de := s.Chi + q*(2*s.DJ+q*(3*s.DK+q*4*s.DLq))
	var d float64
	switch {
	case q > s.QMax:
		d = q - s.QMax
	case q < s.QMin:
		d = q - s.QMin
	}
	if d != 0 {
		d3 := d * d * d
		e += chargePenalty * d3 * d
		de += 4 * chargePenalty * d3
	}
	E.scr.energy[i] += e
	E.scr.qforce[i] += de
	return e
}

//longRange evaluates the Coulomb, curl, field, van der Waals and dipole terms
//of every owned pair of local atom i within the Coulomb cutoff of the pair.
func (E *Engine) longRange(i int, forces bool, c *Components) {
	ti := E.sys.Types[i]
	qi := E.sys.Charges[i]
	xi := E.pos(i)
	rc := E.tab.Cutoff()
	for _, j := range E.sys.Neighbors[i] {
		if !E.owns(i, j) {
			continue
		}
		d := v3.Sub(E.pos(j), xi)
		r := v3.Norm(d)
		tj := E.sys.Types[j]
		p := E.set.Record(ti, tj, tj)
		if r >= rc || r > p.LCut {
			continue
		}
		pj := E.set.Record(tj, ti, ti)
		qj := E.sys.Charges[j]

		V, dV, _ := E.tab.Vdw(ti, tj, r)
		c.Vdw += V

		J, dJ, _ := E.tab.Coulomb(ti, tj, r)
		ov, dov, _ := E.tab.Overlap(ti, tj, r)
		ci, dci := E.curl(i, p)
		cj, dcj := E.curl(j, pj)
		//the curl of j acts on the charge of i, and the other way around
		ai, dai, _ := E.tab.Curl(ti, r)
		aj, daj, _ := E.tab.Curl(tj, r)
		ai, dai = ai-ov, dai-dov
		aj, daj = aj-ov, daj-dov
		ec := qi*qj*J + qi*cj*ai + qj*ci*aj
		c.Coulomb += ec

		f3, df3, f5, df5 := table.Field(p.Pcmn1, p.Pcmn2, p.LCut, r)
		ef := qj*(p.Cmn1*f3+qj*p.Cmn2*f5) + qi*(pj.Cmn1*f3+qi*pj.Cmn2*f5)
		c.Field += ef

		e := ec + ef + V
		E.scr.energy[i] += 0.5 * e
		E.scr.energy[j] += 0.5 * e
		E.scr.qforce[i] += qj*J + cj*ai + pj.Cmn1*f3 + 2*qi*pj.Cmn2*f5
		E.scr.qforce[j] += qi*J + ci*aj + p.Cmn1*f3 + 2*qj*p.Cmn2*f5
		if E.dipole {
			c.Polarization += E.dipolePair(i, j, d, r, forces)
		}
		if !forces {
			continue
		}
		dEdr := dV + qi*qj*dJ + qi*cj*dai + qj*ci*daj +
			qj*(p.Cmn1*df3+qj*p.Cmn2*df5) + qi*(pj.Cmn1*df3+qi*pj.Cmn2*df5)
		E.pairGrad(i, j, dEdr, v3.Scale(1/r, d))
		E.curlForces(i, qj*aj*dci)
		E.curlForces(j, qi*ai*dcj)
	}
}
