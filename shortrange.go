/*
 * shortrange.go, part of gocomb.
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
	"math"

	v3 "github.com/rmera/gocomb/v3"
)

//bondPairs evaluates the bond-order energy of every owned pair of local atom i.
//If forces is false only the energies and charge derivatives are accumulated,
//with the charge windowed radius and bond strength.
func (E *Engine) bondPairs(i int, forces bool, c *Components) error {
	for mi, n := range E.nb.Short(i) {
		if !E.owns(i, n.J) {
			continue
		}
		if err := E.bondPair(i, mi, forces, c); err != nil {
			return errDecorate(err, "bondPairs")
		}
	}
	return nil
}

//bondPair evaluates the repulsion, the bond-order scaled attraction and the
//lone pair terms of the bond between i and its mi-th short neighbor.
func (E *Engine) bondPair(i, mi int, forces bool, c *Components) error {
	nij := E.neighbor(i, mi)
	j := nij.J
	mj := E.slotOf(j, i)
	if mj < 0 {
		return configError("bondPair", "atom %d is a short neighbor of atom %d, but not the other way around; are the neighbor lists complete?", j, i)
	}
	nji := E.neighbor(j, mj)
	ti, tj := E.sys.Types[i], E.sys.Types[j]
	p := E.set.Record(ti, tj, tj)
	pj := E.set.Record(tj, ti, ti)
	qi, qj := E.sys.Charges[i], E.sys.Charges[j]
	radius, strength := p.Radius, p.BondStrength
	radiusj, strengthj := pj.Radius, pj.BondStrength
	if !forces {
		radius, strength = p.WindowRadius, p.WindowBondStrength
		radiusj, strengthj = pj.WindowRadius, pj.WindowBondStrength
	}
	Di, dDi := radius(qi)
	Dj, dDj := radiusj(qj)
	Bi, dBi := strength(qi)
	Bj, dBj := strengthj(qj)
	r, fc, dfc := nij.R, nij.Fc, nij.DFc

	ex := p.BigA * math.Exp(0.5*(p.Lami*Di+pj.Lami*Dj)-p.Lambda*r)
	vr, dvr := 1.0, 0.0
	if p.AddRep > 0 {
		t := 1 - r/p.Cut
		vr += p.AddRep * t * t
		dvr = -2 * p.AddRep * t / p.Cut
	}
	erep := ex * fc * vr
	dErep := ex * (dfc*vr + fc*dvr - p.Lambda*fc*vr)

	var att, datt, dattqi, dattqj float64
	if Bi*Bj > 0 {
		sq := math.Sqrt(Bi * Bj)
		ea := math.Exp(0.5 * (p.Alfi*Di + pj.Alfi*Dj))
		var sumB, dsumB float64
		for m, B := range p.BigB {
			if B == 0 {
				continue
			}
			e := B * math.Exp(-p.Alpha[m]*r)
			sumB += e
			dsumB -= p.Alpha[m] * e
		}
		att = -fc * sumB * sq * ea
		datt = -(dfc*sumB + fc*dsumB) * sq * ea
		dattqi = att * 0.5 * (dBi/Bi + p.Alfi*dDi)
		dattqj = att * 0.5 * (dBj/Bj + pj.Alfi*dDj)
	}

	bij := 0.5 * (E.bondOrder(i, mi) + E.bondOrder(j, mj))
	//radical and torsion corrections, functions of x and y, the coordinations of
	//i and j without each other, and z=1+K^2+L^2, K and L being the conjugation
	//counts of both ends
	var x, y, K, L float64
	var dxyz, dT [3]float64
	var T, S float64
	if p.RadFlag > 0 || p.TorFlag != 0 {
		Ni, _ := E.nb.Coordination(i)
		Nj, _ := E.nb.Coordination(j)
		x = Ni - fc*p.PCross
		y = Nj - nji.Fc*pj.PCross
		if p.RadFlag > 0 {
			K = E.conjugation(i, mi)
		}
		if pj.RadFlag > 0 {
			L = E.conjugation(j, mj)
		}
		z := 1 + K*K + L*L
		if p.RadFlag > 0 {
			R, dR := E.lib.Radical[p.RadFlag-1].Eval(x, y, z)
			bij += R
			dxyz = dR
		}
		if p.TorFlag != 0 {
			T = 1
			if p.TorFlag > 0 {
				T, dT = E.lib.Torsion[p.TorFlag-1].Eval(x, y, z)
			}
			S = E.torsion(i, mi, j, mj, p, 0)
			bij += T * S
			dxyz = v3.Add(dxyz, v3.Scale(S, dT))
		}
	}
	eatt := bij * att
	elp := E.lonePairs(i, mi, forces) + E.lonePairs(j, mj, forces)
	//lone pairs of both ends on the bond itself
	var lp float64
	if p.HasLonePair() {
		lp += sum6(&p.Plp)
	}
	if pj.HasLonePair() {
		lp += sum6(&pj.Plp)
	}
	elp += 0.5 * fc * lp

	c.Repulsive += erep
	c.Attractive += eatt
	c.LonePair += elp
	e := erep + eatt + elp
	E.scr.energy[i] += 0.5 * e
	E.scr.energy[j] += 0.5 * e
	E.scr.qforce[i] += 0.5*erep*p.Lami*dDi + bij*dattqi
	E.scr.qforce[j] += 0.5*erep*pj.Lami*dDj + bij*dattqj
	if !forces {
		return nil
	}

	E.pairGrad(i, j, dErep+bij*datt+0.5*dfc*lp, v3.Scale(1/r, nij.D))
	if att == 0 {
		return nil
	}
	si, sj := &E.si, &E.sj
	si.reset(len(E.nb.Short(i)))
	sj.reset(len(E.nb.Short(j)))
	E.zetaForces(i, mi, 0.5*att*E.scr.dbdz[E.scr.offsets[i]+mi], si)
	E.zetaForces(j, mj, 0.5*att*E.scr.dbdz[E.scr.offsets[j]+mj], sj)
	if cx := att * dxyz[0]; cx != 0 {
		si.pN += cx
		si.pfc[mi] -= cx * p.PCross
	}
	if cy := att * dxyz[1]; cy != 0 {
		sj.pN += cy
		sj.pfc[mj] -= cy * pj.PCross
	}
	if cz := att * dxyz[2]; cz != 0 {
		E.conjugationForces(i, mi, 2*K*cz)
		E.conjugationForces(j, mj, 2*L*cz)
	}
	if T != 0 {
		E.torsion(i, mi, j, mj, p, att*T)
	}
	E.applySide(i, si)
	E.applySide(j, sj)
	return nil
}

func sum6(p *[6]float64) float64 {
	return p[0] + p[1] + p[2] + p[3] + p[4] + p[5]
}

//lonePairs returns the lone pair and bond bending energy of the angles b-a-k
//between the bond from a to its mb-th short neighbor b and every other short
//neighbor k of a, weighted by half the cutoff functions of the (a,b,k) and
//(a,k,b) records. With forces, the gradient is added.
func (E *Engine) lonePairs(a, mb int, forces bool) float64 {
	short := E.nb.Short(a)
	nb := &short[mb]
	ta, tb := E.sys.Types[a], E.sys.Types[nb.J]
	var e float64
	for k := range short {
		if k == mb || short[k].J == nb.J {
			continue
		}
		nk := &short[k]
		tk := E.sys.Types[nk.J]
		rec := E.set.Record(ta, tb, tk)
		c := v3.Dot(nb.D, nk.D) / (nb.R * nk.R)
		v, dv, on := lonePair(rec, c)
		if !on {
			continue
		}
		fb, dfb := rec.Cutoff(nb.R)
		fk, dfk := E.set.Record(ta, tk, tb).Cutoff(nk.R)
		if fb == 0 || fk == 0 {
			continue
		}
		e += 0.5 * fb * fk * v
		if forces {
			E.tripletGrad(a, nb, nk, c, 0.5*fb*fk*dv, 0.5*dfb*fk*v, 0.5*fb*dfk*v)
		}
	}
	return e
}
