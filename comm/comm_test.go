/*
 * comm_test.go, part of gocomb.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//field is a Packer with two values per atom.
type field [][2]float64

func (f field) Width(mode Mode) int { return 2 }

func (f field) PackForward(mode Mode, atoms []int, buf []float64) {
	for k, a := range atoms {
		buf[2*k], buf[2*k+1] = f[a][0], f[a][1]
	}
}

func (f field) UnpackForward(mode Mode, first int, buf []float64) {
	for k := 0; k < len(buf)/2; k++ {
		f[first+k] = [2]float64{buf[2*k], buf[2*k+1]}
	}
}

func (f field) PackReverse(mode Mode, first, n int, buf []float64) {
	for k := 0; k < n; k++ {
		buf[2*k], buf[2*k+1] = f[first+k][0], f[first+k][1]
	}
}

func (f field) UnpackReverse(mode Mode, atoms []int, buf []float64) {
	for k, a := range atoms {
		f[a][0] += buf[2*k]
		f[a][1] += buf[2*k+1]
	}
}

func TestSerial(Te *testing.T) {
	//3 local atoms, ghosts replicate 0, 2, 0
	S, err := NewSerial(3, []int{0, 2, 0})
	require.NoError(Te, err)
	f := field{{1, 2}, {3, 4}, {5, 6}, {0, 0}, {0, 0}, {0, 0}}
	require.NoError(Te, S.Forward(f, Coordination))
	assert.Equal(Te, field{{1, 2}, {3, 4}, {5, 6}, {1, 2}, {5, 6}, {1, 2}}, f)
	f = field{{1, 1}, {1, 1}, {1, 1}, {0.5, 1}, {2, 2}, {0.25, 0}}
	require.NoError(Te, S.Reverse(f, Force))
	assert.Equal(Te, [2]float64{1.75, 2}, f[0])
	assert.Equal(Te, [2]float64{1, 1}, f[1])
	assert.Equal(Te, [2]float64{3, 3}, f[2])
	v, err := S.AllReduceSum(4.5)
	require.NoError(Te, err)
	assert.Equal(Te, 4.5, v)
	_, err = NewSerial(2, []int{3})
	assert.Error(Te, err)
	_, err = S.Broadcast(nil)
	assert.Error(Te, err)
	assert.Equal(Te, "charge force", ChargeForce.String())
}
