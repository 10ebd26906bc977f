/*
 * exchange.go, part of gocomb.
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

//Package comm defines the collaborators through which the potential talks to the
//communication layer of its host: the per-step field exchanges between owned atoms
//and their ghost replicas, the global sum, and the one-time broadcast of the shared
//library. It also provides a single-rank implementation for periodic systems.
package comm

import (
	"fmt"

	"github.com/rmera/gocomb/spline"
)

//Mode selects the per-atom field moved by an exchange.
type Mode int

const (
	Coordination Mode = iota //total coordination and the three group bins
	Dipole                   //induced dipole moments
	Force                    //forces
	Energy                   //per-atom energies
	ChargeForce              //derivative of the energy with respect to the charge
)

func (m Mode) String() string {
	switch m {
	case Coordination:
		return "coordination"
	case Dipole:
		return "dipole"
	case Force:
		return "force"
	case Energy:
		return "energy"
	case ChargeForce:
		return "charge force"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

//Packer is implemented by whoever owns the per-atom fields, the engine in gocomb.
//Forward exchanges copy values from owners to ghosts, reverse exchanges add the
//values accumulated on ghosts to their owners.
type Packer interface {
	//Width returns the number of values per atom for the mode.
	Width(mode Mode) int
	//PackForward writes the field of each atom in atoms, in order, to buf.
	PackForward(mode Mode, atoms []int, buf []float64)
	//UnpackForward overwrites the field of the atoms first, first+1... with buf.
	UnpackForward(mode Mode, first int, buf []float64)
	//PackReverse writes the field of the n atoms starting at first to buf.
	PackReverse(mode Mode, first, n int, buf []float64)
	//UnpackReverse adds buf to the field of each atom in atoms.
	UnpackReverse(mode Mode, atoms []int, buf []float64)
}

//Exchanger moves per-atom fields between ranks. Any error is fatal.
type Exchanger interface {
	Forward(p Packer, mode Mode) error
	Reverse(p Packer, mode Mode) error
	AllReduceSum(v float64) (float64, error)
}

//TableSync distributes the shared library from the root rank to all others, once.
type TableSync interface {
	Broadcast(lib *spline.Library) (*spline.Library, error)
}

//Error is the error type of the comm package.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("communication error: %s", err.message)
}

//Decorate adds new information to the error
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Critical returns true if the error is critical. All communication errors are.
func (err Error) Critical() bool {
	return err.critical
}

//Class returns the class of the error, which is always "comm".
func (err Error) Class() string {
	return "comm"
}
