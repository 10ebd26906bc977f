/*
 * tables.go, part of gocomb.
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

//Package table generates the distance tables of the long-range terms: the damped
//Coulomb kernel, the Slater overlap and curl corrections, the orbital overlap
//fraction used by the dipole fields and the van der Waals interaction.
package table

import (
	"fmt"
	"math"
	"time"

	"github.com/rmera/gocomb/param"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

//Tables holds every distance table for one parameter set.
//It is immutable after Generate.
type Tables struct {
	ne      int
	rc      float64
	wolf    *Radial
	overlap []*Radial //ne*ne, symmetric entries share the table
	curl    []*Radial //ne
	phi     []*Radial //ne
	vdw     []*Radial //ne*ne, nil if there is no interaction
}

//Generate builds every table for the elements of set, up to the largest
//long-range cutoff of the set. Values are in eV, with charges in units of e and
//distances in Angstrom, except Phi, which is dimensionless. Calling Generate again
//with the same input produces identical tables. A nil logger means the logrus
//standard logger.
func Generate(set *param.Set, logger *logrus.Logger) (*Tables, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	start := time.Now()
	rc := set.LongCut()
	if rc <= RMin+4*Step {
		return nil, configError("Generate", "long-range cutoff %g too short for tables starting at %g", rc, RMin)
	}
	ne := set.NElements()
	T := &Tables{
		ne:      ne,
		rc:      rc,
		overlap: make([]*Radial, ne*ne),
		curl:    make([]*Radial, ne),
		phi:     make([]*Radial, ne),
		vdw:     make([]*Radial, ne*ne),
	}
	//two extra nodes so the clamp of Radial.Eval does not reach into the cutoff region
	n := int(math.Ceil((rc-RMin)/Step)) + 3
	scaled := func(f func(float64) (float64, float64, float64)) func(float64) (float64, float64, float64) {
		return func(r float64) (float64, float64, float64) {
			v, d1, d2 := f(r)
			return CoulombConstant * v, CoulombConstant * d1, CoulombConstant * d2
		}
	}
	var g errgroup.Group
	g.Go(func() error {
		T.wolf = NewRadial(RMin, Step, n, scaled(func(r float64) (float64, float64, float64) { return Wolf(DampingAlpha, rc, r) }))
		return nil
	})
	for i := 0; i < ne; i++ {
		i := i
		xi := set.Self(i).Esm
		g.Go(func() error {
			T.phi[i] = NewRadial(RMin, Step, n, func(r float64) (float64, float64, float64) { return Phi(xi, r) })
			T.curl[i] = NewRadial(RMin, Step, n, scaled(func(r float64) (float64, float64, float64) { return Curl(xi, rc, r) }))
			return nil
		})
		for j := i; j < ne; j++ {
			j := j
			//unlike elements use the exponents of their pair records
			xa, xb := xi, xi
			if j != i {
				xa, xb = set.Pair(i, j).Esm, set.Pair(j, i).Esm
			}
			g.Go(func() error {
				tab := NewRadial(RMin, Step, n, scaled(func(r float64) (float64, float64, float64) { return Overlap(xa, xb, rc, r) }))
				T.overlap[i*ne+j] = tab
				T.overlap[j*ne+i] = tab
				return nil
			})
			p := set.Pair(i, j)
			if p.VdwFlag <= 0 {
				continue
			}
			inner := p.BigR - p.BigD
			if p.VdwFlag == 1 {
				inner = p.BigR + p.BigD
			}
			V, err := NewVdw(p.VEps, p.VSig, inner, rc)
			if err != nil {
				return nil, errDecorate(err, fmt.Sprintf("Generate: pair %s-%s", set.Element(i), set.Element(j)))
			}
			g.Go(func() error {
				tab := NewRadial(RMin, Step, n, V.Eval)
				T.vdw[i*ne+j] = tab
				T.vdw[j*ne+i] = tab
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, errDecorate(err, "Generate")
	}
	logger.WithFields(logrus.Fields{
		"elements": ne,
		"nodes":    n,
		"step":     Step,
		"cutoff":   rc,
		"elapsed":  time.Since(start),
	}).Info("table: distance tables generated")
	return T, nil
}

//Cutoff returns the long-range cutoff of the tables.
func (T *Tables) Cutoff() float64 {
	return T.rc
}

//Coulomb returns the interaction of two unit Slater charges of elements ti and tj
//at r, the Wolf kernel plus the overlap term, and its first two derivatives.
func (T *Tables) Coulomb(ti, tj int, r float64) (float64, float64, float64) {
	if r >= T.rc {
		return 0, 0, 0
	}
	w, dw, ddw := T.wolf.Eval(r)
	s, ds, dds := T.overlap[ti*T.ne+tj].Eval(r)
	return w + s, dw + ds, ddw + dds
}

//Overlap returns the overlap term alone.
func (T *Tables) Overlap(ti, tj int, r float64) (float64, float64, float64) {
	if r >= T.rc {
		return 0, 0, 0
	}
	return T.overlap[ti*T.ne+tj].Eval(r)
}

//OverlapTable returns the raw overlap table for a pair of elements.
func (T *Tables) OverlapTable(ti, tj int) *Radial {
	return T.overlap[ti*T.ne+tj]
}

//Curl returns the curl kernel of element t at r, with its first two derivatives.
func (T *Tables) Curl(t int, r float64) (float64, float64, float64) {
	if r >= T.rc {
		return 0, 0, 0
	}
	return T.curl[t].Eval(r)
}

//Phi returns the overlap fraction of element t at r, with its first two derivatives.
func (T *Tables) Phi(t int, r float64) (float64, float64, float64) {
	return T.phi[t].Eval(r)
}

//Vdw returns the van der Waals energy of elements ti and tj at r with its first
//two derivatives.
func (T *Tables) Vdw(ti, tj int, r float64) (float64, float64, float64) {
	tab := T.vdw[ti*T.ne+tj]
	if tab == nil || r >= T.rc {
		return 0, 0, 0
	}
	return tab.Eval(r)
}
