/*
 * serial.go, part of gocomb.
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

package comm

import (
	"fmt"

	"github.com/rmera/gocomb/spline"
)

//Serial is the Exchanger and TableSync of a single rank. The ghost atoms are the
//periodic images of local atoms and come after them, so ghost g (counting from
//0) is atom NLocal+g and replicates the local atom Owner[g].
type Serial struct {
	NLocal int
	Owner  []int
	buf    []float64
}

//NewSerial returns a Serial exchanger for nlocal atoms and the given ghost owners.
func NewSerial(nlocal int, owner []int) (*Serial, error) {
	for g, o := range owner {
		if o < 0 || o >= nlocal {
			return nil, Error{message: fmt.Sprintf("ghost %d replicates atom %d, which is not local", g, o), deco: []string{"NewSerial"}, critical: true}
		}
	}
	return &Serial{NLocal: nlocal, Owner: owner}, nil
}

func (S *Serial) buffer(n int) []float64 {
	if cap(S.buf) < n {
		S.buf = make([]float64, n)
	}
	return S.buf[:n]
}

//Forward copies the field of each owner to its ghosts.
func (S *Serial) Forward(p Packer, mode Mode) error {
	if len(S.Owner) == 0 {
		return nil
	}
	buf := S.buffer(len(S.Owner) * p.Width(mode))
	p.PackForward(mode, S.Owner, buf)
	p.UnpackForward(mode, S.NLocal, buf)
	return nil
}

//Reverse adds the field of each ghost to its owner.
func (S *Serial) Reverse(p Packer, mode Mode) error {
	if len(S.Owner) == 0 {
		return nil
	}
	buf := S.buffer(len(S.Owner) * p.Width(mode))
	p.PackReverse(mode, S.NLocal, len(S.Owner), buf)
	p.UnpackReverse(mode, S.Owner, buf)
	return nil
}

//AllReduceSum returns v, as there is only one rank.
func (S *Serial) AllReduceSum(v float64) (float64, error) {
	return v, nil
}

//Broadcast returns lib, as there is only one rank.
func (S *Serial) Broadcast(lib *spline.Library) (*spline.Library, error) {
	if lib == nil {
		return nil, Error{message: "nothing to broadcast", deco: []string{"Broadcast"}, critical: true}
	}
	return lib, nil
}
