/*
 * system.go, part of gocomb.
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
	"fmt"
	"math"

	"github.com/rmera/gocomb/comm"
	"github.com/rmera/gocomb/neigh"
	"github.com/rmera/gocomb/param"
	v3 "github.com/rmera/gocomb/v3"
)

//System is the state of the atoms handed to the engine on each call. It is owned
//by the caller. Atoms 0 to NLocal-1 are owned by this rank, the rest are ghosts.
type System struct {
	Coords  *v3.Matrix //all atoms, owned first
	Types   []int      //element indexes into the parameter set
	Tags    []int      //global ids, ghosts carry the id of the atom they replicate
	Charges []float64
	NLocal  int
	//Neighbors contains, for every atom, the indexes of all other atoms closer than
	//the long-range cutoff. It is never modified.
	Neighbors [][]int
	//Forces, if not nil, gets the forces on the owned atoms added to it.
	Forces *v3.Matrix
	//Dipoles, if not nil, holds the dipole moments of the previous call for all
	//atoms, and is overwritten with the new ones.
	Dipoles *v3.Matrix
	//GroupMask, if not nil, selects the owned atoms included in the
	//charge derivative sum.
	GroupMask []bool
}

//GhostCut returns how far from the box of a rank its ghost atoms must reach: the
//sum of the long-range and bond cutoffs, or three bond cutoffs if that is larger,
//so the ghosts within the long-range cutoff of an owned atom have complete short
//lists, and so do the second neighbors of the ghosts bonded to owned atoms.
func GhostCut(set *param.Set) float64 {
	return math.Max(set.LongCut()+set.ShortCut(), 3*set.ShortCut())
}

//NewSystem builds the System of a single rank from a geometry. If box is not nil,
//the geometry is wrapped into the orthorhombic box and the ghost images closer
//than GhostCut to it are added. The returned exchanger links the ghosts with their
//owners. Neighbor lists are built by brute force.
func NewSystem(g *Geometry, set *param.Set, box *[3]float64) (*System, *comm.Serial, error) {
	types, err := g.Types(set)
	if err != nil {
		return nil, nil, errDecorate(err, "NewSystem")
	}
	n := g.Coords.NVecs()
	coords := v3.Zeros(n)
	if n > 0 {
		coords.Copy(g.Coords)
	}
	var owner []int
	if box != nil {
		neigh.Wrap(*box, coords)
		coords, owner, err = neigh.Periodic(*box, coords, GhostCut(set))
		if err != nil {
			return nil, nil, errDecorate(err, "NewSystem")
		}
	}
	S := &System{
		Coords:  coords,
		Types:   make([]int, 0, n+len(owner)),
		Tags:    make([]int, 0, n+len(owner)),
		Charges: make([]float64, 0, n+len(owner)),
		NLocal:  n,
	}
	for i := 0; i < n; i++ {
		S.Types = append(S.Types, types[i])
		S.Tags = append(S.Tags, i)
		S.Charges = append(S.Charges, g.Charges[i])
	}
	for _, o := range owner {
		S.Types = append(S.Types, types[o])
		S.Tags = append(S.Tags, o)
		S.Charges = append(S.Charges, g.Charges[o])
	}
	S.Neighbors = neigh.FullList(coords, set.LongCut())
	S.Dipoles = v3.Zeros(coords.NVecs())
	ex, err := comm.NewSerial(n, owner)
	if err != nil {
		return nil, nil, errDecorate(err, "NewSystem")
	}
	return S, ex, nil
}

//Len returns the total number of atoms, owned and ghosts.
func (S *System) Len() int {
	return S.Coords.NVecs()
}

func (S *System) check(ne int) error {
	n := S.Coords.NVecs()
	switch {
	case len(S.Types) != n, len(S.Tags) != n, len(S.Charges) != n, len(S.Neighbors) != n:
		return configError("check", "%d atoms, but %d types, %d tags, %d charges and %d neighbor lists", n, len(S.Types), len(S.Tags), len(S.Charges), len(S.Neighbors))
	case S.NLocal < 0 || S.NLocal > n:
		return configError("check", "%d local atoms out of %d", S.NLocal, n)
	case S.Forces != nil && S.Forces.NVecs() < S.NLocal:
		return configError("check", "forces matrix has %d rows, need at least %d", S.Forces.NVecs(), S.NLocal)
	case S.Dipoles != nil && S.Dipoles.NVecs() != n:
		return configError("check", "dipoles matrix has %d rows, need %d", S.Dipoles.NVecs(), n)
	case S.GroupMask != nil && len(S.GroupMask) < S.NLocal:
		return configError("check", "group mask has %d elements, need at least %d", len(S.GroupMask), S.NLocal)
	}
	for i, t := range S.Types {
		if t < 0 || t >= ne {
			return configError("check", "atom %d has element index %d, only %d elements in the parameter set", i, t, ne)
		}
	}
	return nil
}

//Components splits the energy by term. All values in eV.
type Components struct {
	Self         float64 //charge self energy, including the penalty
	Coulomb      float64 //including the curl corrections
	Field        float64
	Vdw          float64
	Repulsive    float64
	Attractive   float64
	LonePair     float64 //lone pair and bond bending
	Polarization float64 //dipole self, dipole-charge and dipole-dipole
}

//Sum returns the sum of every component.
func (C Components) Sum() float64 {
	return C.Self + C.Coulomb + C.Field + C.Vdw + C.Repulsive + C.Attractive + C.LonePair + C.Polarization
}

func (C Components) String() string {
	return fmt.Sprintf("self %.6f coulomb %.6f field %.6f vdw %.6f repulsive %.6f attractive %.6f lone pair %.6f polarization %.6f",
		C.Self, C.Coulomb, C.Field, C.Vdw, C.Repulsive, C.Attractive, C.LonePair, C.Polarization)
}

//Result contains the outcome of a force call for the atoms of this rank. The
//energies are summed over the pairs owned by this rank, so adding them over all
//ranks gives the energy of the whole system.
type Result struct {
	Energy     float64
	Components Components
	PerAtom    []float64  //energy of each owned atom
	Forces     *v3.Matrix //forces on the owned atoms
	Dipoles    *v3.Matrix //one-shot dipoles of the owned atoms
}
