/*
 * engine.go, part of gocomb.
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
	"time"

	"github.com/rmera/gocomb/comm"
	"github.com/rmera/gocomb/neigh"
	"github.com/rmera/gocomb/param"
	"github.com/rmera/gocomb/spline"
	"github.com/rmera/gocomb/table"
	v3 "github.com/rmera/gocomb/v3"
	"github.com/sirupsen/logrus"
)

//Engine evaluates the potential for the atoms of one rank. An Engine is not safe
//for concurrent use: it owns per-call scratch space.
type Engine struct {
	set    *param.Set
	lib    *spline.Library
	tab    *table.Tables
	ex     comm.Exchanger
	opts   *Options
	log    *logrus.Logger
	nb     *neigh.Builder
	scr    scratch
	sys    *System
	raw    []float64 //coordinates of the current system
	dipole bool      //whether any element is polarizable
	si, sj side
}

//NewEngine sets up an engine for the parameter set and library. The library is
//distributed with sync (which may be the same Serial as ex) and the distance tables
//are generated. A nil lib means spline.Default(0), enough for parameter sets that
//select no tabulated model, and a nil opts means DefaultOptions(). Every error is a
//setup error.
func NewEngine(set *param.Set, lib *spline.Library, ex comm.Exchanger, sync comm.TableSync, opts *Options) (*Engine, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if lib == nil {
		lib = spline.Default(0)
	}
	E := &Engine{set: set, ex: ex, opts: opts, log: opts.Logger()}
	var err error
	E.lib, err = sync.Broadcast(lib)
	if err != nil {
		return nil, errDecorate(err, "NewEngine")
	}
	if err = E.checkModels(); err != nil {
		return nil, errDecorate(err, "NewEngine")
	}
	E.tab, err = table.Generate(set, E.log)
	if err != nil {
		return nil, errDecorate(err, "NewEngine")
	}
	E.nb, err = neigh.NewBuilder(opts.Cpus(), opts.PageSize(), opts.OneAtom(), opts.MaxPages())
	if err != nil {
		return nil, errDecorate(err, "NewEngine")
	}
	for i := 0; i < set.NElements(); i++ {
		if set.Self(i).Polz > 0 {
			E.dipole = true
		}
	}
	E.log.WithFields(logrus.Fields{
		"elements":       set.Elements(),
		"records":        set.Records(),
		"short cutoff":   set.ShortCut(),
		"long cutoff":    set.LongCut(),
		"polarizable":    E.dipole,
		"coord. grids":   len(E.lib.Coord),
		"radical grids":  len(E.lib.Radical),
		"torsion grids":  len(E.lib.Torsion),
		"angular points": len(E.lib.Angular),
	}).Info("comb: engine ready")
	return E, nil
}

//checkModels verifies that every model selected by a record is present in the library.
func (E *Engine) checkModels() error {
	L := E.lib
	ne := E.set.NElements()
	missing := func(r *param.Record, what string, flag, have int) error {
		return configError("checkModels", "record %s uses %s model %d, but the library has %d", r.Name(), what, flag, have)
	}
	for i := 0; i < ne; i++ {
		for j := 0; j < ne; j++ {
			for k := 0; k < ne; k++ {
				r := E.set.Record(i, j, k)
				if r.AngFlag == 1 && len(L.Angular) == 0 {
					return configError("checkModels", "record %s uses the tabulated angular curve, but the library has none", r.Name())
				}
				if r.PcnFlag > 0 && (r.PcnFlag > len(L.Coord) || r.PcnFlag > len(L.Extrap)) {
					return missing(r, "coordination", r.PcnFlag, len(L.Coord))
				}
				if r.RadFlag > 0 && r.RadFlag > len(L.Radical) {
					return missing(r, "radical", r.RadFlag, len(L.Radical))
				}
				if r.TorFlag > 0 && r.TorFlag > len(L.Torsion) {
					return missing(r, "torsion", r.TorFlag, len(L.Torsion))
				}
			}
		}
	}
	return nil
}

//SetExchanger replaces the exchanger of the engine, as needed when the ghosts
//of the system change.
func (E *Engine) SetExchanger(ex comm.Exchanger) {
	E.ex = ex
}

//Tables returns the distance tables of the engine.
func (E *Engine) Tables() *table.Tables {
	return E.tab
}

//Set returns the parameter set of the engine.
func (E *Engine) Set() *param.Set {
	return E.set
}

//Library returns the library used by the engine.
func (E *Engine) Library() *spline.Library {
	return E.lib
}

//Coordination returns the total coordination of atom i in the last call, and its
//carbon, hydrogen and oxygen-like parts.
func (E *Engine) Coordination(i int) (float64, float64, float64, float64) {
	t, g := E.nb.Coordination(i)
	return t, g[0], g[1], g[2]
}

//prepare validates sys, builds the short lists and the coordination, exchanges
//the coordination of the ghosts and fills the bond cache.
func (E *Engine) prepare(ctx context.Context, sys *System) error {
	if err := sys.check(E.set.NElements()); err != nil {
		return err
	}
	E.sys = sys
	E.raw = sys.Coords.Raw()
	n := sys.Len()
	E.scr.ensureCapacity(n)
	if err := E.nb.Build(ctx, sys.Coords, sys.Types, sys.Neighbors, E.set); err != nil {
		return err
	}
	if err := E.ex.Forward(E, comm.Coordination); err != nil {
		return err
	}
	return E.bondCache(ctx)
}

//Compute evaluates the energy and forces of sys. The forces on the owned atoms are
//added to sys.Forces, if not nil, and the new dipoles are written to sys.Dipoles,
//if not nil.
func (E *Engine) Compute(ctx context.Context, sys *System) (*Result, error) {
	start := time.Now()
	if err := E.prepare(ctx, sys); err != nil {
		return nil, errDecorate(err, "Compute")
	}
	var c Components
	if E.dipole {
		if err := E.dipoles(); err != nil {
			return nil, errDecorate(err, "Compute")
		}
	}
	nl := sys.NLocal
	for i := 0; i < nl; i++ {
		c.Self += E.selfEnergy(i)
		if E.dipole {
			c.Polarization += E.dipoleSelf(i)
		}
		if err := ctx.Err(); err != nil && i%1024 == 0 {
			return nil, errDecorate(err, "Compute")
		}
	}
	for i := 0; i < nl; i++ {
		E.longRange(i, true, &c)
	}
	for i := 0; i < nl; i++ {
		if err := E.bondPairs(i, true, &c); err != nil {
			return nil, errDecorate(err, "Compute")
		}
	}
	if err := E.ex.Reverse(E, comm.Force); err != nil {
		return nil, errDecorate(err, "Compute")
	}
	if err := E.ex.Reverse(E, comm.Energy); err != nil {
		return nil, errDecorate(err, "Compute")
	}
	R := &Result{Components: c, Energy: c.Sum(), PerAtom: make([]float64, nl)}
	copy(R.PerAtom, E.scr.energy[:nl])
	R.Forces = v3.Zeros(nl)
	R.Dipoles = v3.Zeros(nl)
	for i := 0; i < nl; i++ {
		g := E.scr.grad[3*i : 3*i+3]
		f := [3]float64{-g[0], -g[1], -g[2]}
		R.Forces.SetVec(i, f)
		if sys.Forces != nil {
			sys.Forces.SetVec(i, v3.Add(sys.Forces.Vec(i), f))
		}
		R.Dipoles.SetVec(i, E.mu(i))
	}
	if sys.Dipoles != nil {
		for i := 0; i < sys.Len(); i++ {
			sys.Dipoles.SetVec(i, E.mu(i))
		}
	}
	E.log.WithFields(logrus.Fields{"atoms": nl, "energy": R.Energy, "elapsed": time.Since(start)}).Debug("comb: force call")
	return R, nil
}

//owns returns true if this rank computes the pair (i,j), i being a local atom.
//Pairs of different atoms are split by the parity of the sum of their tags, pairs
//of an atom with its own image by the position of the image.
func (E *Engine) owns(i, j int) bool {
	it, jt := E.sys.Tags[i], E.sys.Tags[j]
	switch {
	case it > jt:
		return (it+jt)%2 != 0
	case it < jt:
		return (it+jt)%2 == 0
	}
	xi := E.raw[3*i : 3*i+3]
	xj := E.raw[3*j : 3*j+3]
	if xj[2] != xi[2] {
		return xj[2] > xi[2]
	}
	if xj[1] != xi[1] {
		return xj[1] > xi[1]
	}
	return xj[0] > xi[0]
}

func (E *Engine) addGrad(i int, g [3]float64) {
	d := E.scr.grad[3*i : 3*i+3]
	d[0] += g[0]
	d[1] += g[1]
	d[2] += g[2]
}

//pairGrad adds the gradient of a function of the distance between i and j,
//with derivative dEdr and unit vector u from i to j.
func (E *Engine) pairGrad(i, j int, dEdr float64, u [3]float64) {
	g := v3.Scale(dEdr, u)
	E.addGrad(j, g)
	E.addGrad(i, v3.Scale(-1, g))
}

func (E *Engine) pos(i int) [3]float64 {
	return [3]float64{E.raw[3*i], E.raw[3*i+1], E.raw[3*i+2]}
}
