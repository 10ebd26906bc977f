/*
 * bondorder.go, part of gocomb.
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
	"context"
	"math"

	"github.com/rmera/gocomb/neigh"
	"github.com/rmera/gocomb/param"
	v3 "github.com/rmera/gocomb/v3"
	"golang.org/x/sync/errgroup"
)

//bondCache computes zeta, the coordination correction and the bond order for
//every (atom, short neighbor) slot, owned atoms and ghosts alike. Atoms are
//independent, so they are split among the workers.
func (E *Engine) bondCache(ctx context.Context) error {
	n := E.sys.Len()
	off := E.scr.offsets
	off[0] = 0
	for i := 0; i < n; i++ {
		off[i+1] = off[i] + len(E.nb.Short(i))
	}
	E.scr.ensureSlots(off[n])
	workers := E.opts.Cpus()
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	if workers == 0 {
		return nil
	}
	chunk := (n + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if (i-lo)%256 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				for m := range E.nb.Short(i) {
					E.bondSlot(i, m)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

//bondSlot fills the cache for the bond from atom i to its m-th short neighbor.
func (E *Engine) bondSlot(i, m int) {
	slot := E.scr.offsets[i] + m
	j := E.nb.Short(i)[m].J
	rec := E.set.Record(E.sys.Types[i], E.sys.Types[j], E.sys.Types[j])
	N, bins := E.nb.Coordination(i)
	zeta, zn := E.zeta(i, m, N)
	zp, dzp := zetaPow(zeta, rec.PowerN)
	P, dPdN, dPdG := E.coordCorrection(i, m, rec, N, bins)
	b, db := transform(zp+P, rec)
	S := &E.scr
	S.zeta[slot] = zeta
	S.zn[slot] = zn
	S.zpow[slot] = zp
	S.dzpow[slot] = dzp
	S.pcor[slot] = P
	S.dpdn[slot] = dPdN
	S.dpdx[slot] = dPdG
	S.bo[slot] = b
	S.dbdz[slot] = db
}

//zeta returns the angular environment of the bond from i to its m-th short
//neighbor and its derivative with respect to the coordination N of i. A
//neighbor k only counts if the bond is within the cutoff of the (i,j,k) record.
func (E *Engine) zeta(i, m int, N float64) (float64, float64) {
	short := E.nb.Short(i)
	nj := &short[m]
	ti, tj := E.sys.Types[i], E.sys.Types[nj.J]
	var zeta, zn float64
	for k := range short {
		if k == m {
			continue
		}
		nk := &short[k]
		rec := E.set.Record(ti, tj, E.sys.Types[nk.J])
		if nj.R > rec.Cut {
			continue
		}
		c := v3.Dot(nj.D, nk.D) / (nj.R * nk.R)
		g, _, dgN := angular(rec, E.lib, c, N)
		e, _ := decay(rec.Beta, nj.R-nk.R, rec.Mpow)
		zeta += nk.Fc * g * e
		zn += nk.Fc * dgN * e
	}
	return zeta, zn
}

//coordCorrection returns the coordination correction P of the bond from i to
//its m-th short neighbor, with its derivatives with respect to the coordination
//N of i and to its three group coordinations. The bond itself is left out of
//the coordinations. Model 0 is the analytic form of rec, any other model picks
//a library grid, extrapolated linearly beyond the largest tabulated total.
func (E *Engine) coordCorrection(i, m int, rec *param.Record, N float64, bins [param.NGroups]float64) (float64, float64, [3]float64) {
	var dPdG [3]float64
	nj := E.neighbor(i, m)
	w := nj.Fc * rec.PCross
	x := N - w
	free := true
	if x < 0 {
		x, free = 0, false
	}
	if rec.PcnFlag == 0 {
		e := math.Exp(rec.Pcnc * x)
		P := rec.Pcna*x + rec.Pcnb*e + rec.Pcnd
		if !free {
			return P, 0, dPdG
		}
		return P, rec.Pcna + rec.Pcnb*rec.Pcnc*e, dPdG
	}
	f := rec.PcnFlag - 1
	if g := rec.Groups[1]; g > param.GroupNone && g <= param.NGroups {
		bins[g-1] -= w
	}
	var inside [3]bool
	sum := 0.0
	for a := range bins {
		hi := float64(E.lib.CoordMax[a])
		switch {
		case bins[a] < 0:
			bins[a] = 0
		case bins[a] > hi:
			bins[a] = hi
		default:
			inside[a] = true
		}
		sum += bins[a]
	}
	if ex := E.lib.Extrap[f]; sum > ex.MaxXcn {
		P := ex.V + (x-ex.MaxXcn)*ex.DV
		if !free {
			return P, 0, dPdG
		}
		return P, ex.DV, dPdG
	}
	P, grad := E.lib.Coord[f].Eval(bins[0], bins[1], bins[2])
	for a := range grad {
		if inside[a] {
			dPdG[a] = grad[a]
		}
	}
	return P, 0, dPdG
}

//tripletGrad adds the gradient of a function of the distances from a to its
//short neighbors nb and nk and of the cosine c of the angle between them, given
//its partial derivatives.
func (E *Engine) tripletGrad(a int, nb, nk *neigh.Neighbor, c, dEdc, dEdrb, dEdrk float64) {
	ub := v3.Scale(1/nb.R, nb.D)
	uk := v3.Scale(1/nk.R, nk.D)
	gb := v3.Add(v3.Scale(dEdrb, ub), v3.Scale(dEdc/nb.R, v3.Sub(uk, v3.Scale(c, ub))))
	gk := v3.Add(v3.Scale(dEdrk, uk), v3.Scale(dEdc/nk.R, v3.Sub(ub, v3.Scale(c, uk))))
	E.addGrad(nb.J, gb)
	E.addGrad(nk.J, gk)
	E.addGrad(a, v3.Scale(-1, v3.Add(gb, gk)))
}

//zetaForces adds the gradient of Fz*z, z=zeta^n+P, of the bond from i to its
//m-th short neighbor at fixed coordination, and stores the derivatives with
//respect to the coordinations of i in sd.
func (E *Engine) zetaForces(i, m int, Fz float64, sd *side) {
	if Fz == 0 {
		return
	}
	S := &E.scr
	slot := S.offsets[i] + m
	short := E.nb.Short(i)
	nj := &short[m]
	ti, tj := E.sys.Types[i], E.sys.Types[nj.J]
	if Fzeta := Fz * S.dzpow[slot]; Fzeta != 0 {
		N, _ := E.nb.Coordination(i)
		for k := range short {
			if k == m {
				continue
			}
			nk := &short[k]
			rec := E.set.Record(ti, tj, E.sys.Types[nk.J])
			if nj.R > rec.Cut {
				continue
			}
			c := v3.Dot(nj.D, nk.D) / (nj.R * nk.R)
			g, dgc, _ := angular(rec, E.lib, c, N)
			e, de := decay(rec.Beta, nj.R-nk.R, rec.Mpow)
			E.tripletGrad(i, nj, nk, c, Fzeta*nk.Fc*dgc*e, Fzeta*nk.Fc*g*de, Fzeta*(nk.DFc*g*e-nk.Fc*g*de))
		}
		sd.pN += Fzeta * S.zn[slot]
	}
	rec := E.set.Record(ti, tj, tj)
	dP := S.dpdx[slot]
	sd.pN += Fz * S.dpdn[slot]
	for g := range dP {
		sd.pG[g] += Fz * dP[g]
	}
	//P leaves the bond itself out of the coordinations
	t := S.dpdn[slot]
	if g := rec.Groups[1]; g > param.GroupNone && g <= param.NGroups {
		t += dP[g-1]
	}
	sd.pfc[m] -= Fz * rec.PCross * t
}

//applySide turns the coordination derivatives accumulated in sd into forces
//on i and its short neighbors.
func (E *Engine) applySide(i int, sd *side) {
	short := E.nb.Short(i)
	ti := E.sys.Types[i]
	for m := range short {
		nm := &short[m]
		if nm.DFc == 0 {
			continue
		}
		p := E.set.Pair(ti, E.sys.Types[nm.J])
		t := sd.pN*p.PCross + sd.pfc[m]
		if g := p.Groups[1]; g > param.GroupNone && g <= param.NGroups {
			t += sd.pG[g-1] * p.PCross
		}
		if t == 0 {
			continue
		}
		E.pairGrad(i, nm.J, t*nm.DFc, v3.Scale(1/nm.R, nm.D))
	}
}

//slotOf returns the position of atom j in the short list of i, or -1.
func (E *Engine) slotOf(i, j int) int {
	for m, n := range E.nb.Short(i) {
		if n.J == j {
			return m
		}
	}
	return -1
}

//bondOrder returns the cached bond order of slot m of atom i.
func (E *Engine) bondOrder(i, m int) float64 {
	return E.scr.bo[E.scr.offsets[i]+m]
}

//neighbor returns the m-th short neighbor of i.
func (E *Engine) neighbor(i, m int) *neigh.Neighbor {
	return &E.nb.Short(i)[m]
}
