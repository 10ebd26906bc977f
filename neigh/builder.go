/*
 * builder.go, part of gocomb.
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

//Package neigh builds the short (bond-order) neighbor lists and the coordination
//numbers from a full neighbor list, and provides simple full-list builders for
//tools and tests.
package neigh

import (
	"context"

	"github.com/rmera/gocomb/param"
	v3 "github.com/rmera/gocomb/v3"
	"golang.org/x/sync/errgroup"
)

//Builder filters full neighbor lists into short lists and accumulates the
//coordination numbers. Each worker has its own arena.
type Builder struct {
	arenas []*Arena
	short  [][]Neighbor
	nco    []float64
	ng     [param.NGroups][]float64
}

//NewBuilder returns a builder with one arena per worker.
func NewBuilder(workers, pageSize, oneAtom, maxPages int) (*Builder, error) {
	if workers < 1 {
		workers = 1
	}
	B := &Builder{arenas: make([]*Arena, workers)}
	for i := range B.arenas {
		a, err := NewArena(pageSize, oneAtom, maxPages)
		if err != nil {
			return nil, errDecorate(err, "NewBuilder")
		}
		B.arenas[i] = a
	}
	return B, nil
}

func (B *Builder) ensureCapacity(n int) {
	if cap(B.short) < n {
		B.short = make([][]Neighbor, n)
		B.nco = make([]float64, n)
		for g := range B.ng {
			B.ng[g] = make([]float64, n)
		}
	}
	B.short = B.short[:n]
	B.nco = B.nco[:n]
	for g := range B.ng {
		B.ng[g] = B.ng[g][:n]
	}
}

//Build computes, for every atom in full, the list of neighbors within the bond
//cutoff of the pair, and the coordination numbers: the total NCo[i] = sum fc*pcross,
//and the same sum split by the neighbor group of the (i,j,j) record. full is not modified.
func (B *Builder) Build(ctx context.Context, coords *v3.Matrix, types []int, full [][]int, set *param.Set) error {
	n := len(full)
	B.ensureCapacity(n)
	workers := len(B.arenas)
	if workers > n {
		workers = n
	}
	if workers == 0 {
		return nil
	}
	raw := coords.Raw()
	chunk := (n + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		arena := B.arenas[w]
		g.Go(func() error {
			arena.Reset()
			for i := lo; i < hi; i++ {
				if (i-lo)%256 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if err := B.atom(arena, i, raw, types, full[i], set); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return errDecorate(err, "Build")
	}
	return nil
}

func (B *Builder) atom(arena *Arena, i int, raw []float64, types []int, full []int, set *param.Set) error {
	buf, err := arena.Reserve()
	if err != nil {
		return err
	}
	xi := [3]float64{raw[3*i], raw[3*i+1], raw[3*i+2]}
	ti := types[i]
	var nco float64
	var ng [param.NGroups]float64
	count := 0
	for _, j := range full {
		tj := types[j]
		p := set.Pair(ti, tj)
		d := [3]float64{raw[3*j] - xi[0], raw[3*j+1] - xi[1], raw[3*j+2] - xi[2]}
		r2 := v3.Dot(d, d)
		if r2 >= p.CutSq {
			continue
		}
		if count == len(buf) {
			_, err := arena.Commit(count + 1)
			return err
		}
		r := v3.Norm(d)
		fc, dfc := p.Cutoff(r)
		buf[count] = Neighbor{J: j, R: r, Fc: fc, DFc: dfc, D: d}
		count++
		w := fc * p.PCross
		nco += w
		if grp := p.Groups[1]; grp > param.GroupNone && grp <= param.NGroups {
			ng[grp-1] += w
		}
	}
	l, err := arena.Commit(count)
	if err != nil {
		return err
	}
	B.short[i] = l
	B.nco[i] = nco
	for g := range ng {
		B.ng[g][i] = ng[g]
	}
	return nil
}

//Short returns the short neighbor list of atom i. It is valid until the next Build.
func (B *Builder) Short(i int) []Neighbor {
	return B.short[i]
}

//Len returns the number of atoms in the last Build.
func (B *Builder) Len() int {
	return len(B.short)
}

//Coordination returns the total coordination of atom i and its three group bins.
func (B *Builder) Coordination(i int) (float64, [param.NGroups]float64) {
	var g [param.NGroups]float64
	for k := range g {
		g[k] = B.ng[k][i]
	}
	return B.nco[i], g
}

//SetCoordination overwrites the coordination of atom i, as done when the values
//of ghost atoms are received from their owners.
func (B *Builder) SetCoordination(i int, total float64, groups [param.NGroups]float64) {
	B.nco[i] = total
	for k := range groups {
		B.ng[k][i] = groups[k]
	}
}
