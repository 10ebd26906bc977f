/*
 * torsion.go, part of gocomb.
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

//minimum squared sine of the bond angles for a dihedral to count
const minSinSq = 0.01

//torsionWeight returns the weight of a dihedral with cos(omega)=c, and its
//derivative. Positive torsion models use sin^2(omega), negative ones the
//barrier ptork2(ptork1-c)^2 of the (i,k,l) record rec.
func torsionWeight(flag int, rec *param.Record, c float64) (float64, float64) {
	if flag > 0 {
		return 1 - c*c, -2 * c
	}
	d := rec.PTorK1 - c
	return rec.PTorK2 * d * d, -2 * rec.PTorK2 * d
}

//torsion returns S, the cutoff-weighted sum of the dihedral weights over all the
//k-i-j-l dihedrals of the bond between i and its mi-th short neighbor j, mj being
//the slot of i in the list of j. If weight is not zero, the gradient of weight*S
//is added to the atoms. Dihedrals with a nearly linear bond angle are left out.
func (E *Engine) torsion(i, mi, j, mj int, p *param.Record, weight float64) float64 {
	nij := E.neighbor(i, mi)
	dj := nij.D
	rij := nij.R
	ti := E.sys.Types[i]
	var S float64
	for k, nk := range E.nb.Short(i) {
		if k == mi || nk.J == j {
			continue
		}
		ck := v3.Dot(dj, nk.D) / (rij * nk.R)
		if 1-ck*ck <= minSinSq {
			continue
		}
		tk := E.sys.Types[nk.J]
		dk := nk.D
		n1 := v3.Cross(dk, dj)
		a1 := v3.Norm(n1)
		if a1 == 0 {
			continue
		}
		for l, nl := range E.nb.Short(j) {
			if l == mj || nl.J == i || nl.J == nk.J || nl.Fc == 0 {
				continue
			}
			dl := nl.D
			cl := -v3.Dot(dj, dl) / (rij * nl.R)
			if 1-cl*cl <= minSinSq {
				continue
			}
			rec := E.set.Record(ti, tk, E.sys.Types[nl.J])
			fck, dfck := rec.Cutoff(nk.R)
			if fck == 0 {
				continue
			}
			n2 := v3.Cross(dj, dl)
			a2 := v3.Norm(n2)
			if a2 == 0 {
				continue
			}
			c := v3.Dot(n1, n2) / (a1 * a2)
			w, dw := torsionWeight(p.TorFlag, rec, c)
			S += w * fck * nl.Fc
			if weight == 0 {
				continue
			}
			E.pairGrad(i, nk.J, weight*w*dfck*nl.Fc, v3.Scale(1/nk.R, dk))
			E.pairGrad(j, nl.J, weight*w*fck*nl.DFc, v3.Scale(1/nl.R, dl))
			t := weight * fck * nl.Fc * dw
			if t == 0 {
				continue
			}
			g1 := v3.Sub(v3.Scale(1/(a1*a2), n2), v3.Scale(c/(a1*a1), n1))
			g2 := v3.Sub(v3.Scale(1/(a1*a2), n1), v3.Scale(c/(a2*a2), n2))
			Gk := v3.Scale(t, v3.Cross(dj, g1))
			Gj := v3.Scale(t, v3.Add(v3.Cross(g1, dk), v3.Cross(dl, g2)))
			Gl := v3.Scale(t, v3.Cross(g2, dj))
			E.addGrad(nk.J, Gk)
			E.addGrad(i, v3.Scale(-1, v3.Add(Gk, Gj)))
			E.addGrad(j, v3.Sub(Gj, Gl))
			E.addGrad(nl.J, Gl)
		}
	}
	return S
}
