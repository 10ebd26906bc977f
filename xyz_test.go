/*
 * xyz_test.go, part of gocomb.
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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const water = `3
a comment
O   0.000  0.000  0.117  -0.8
H   0.000  0.757 -0.467   0.4
H   0.000 -0.757 -0.467   0.4`

func TestReadXYZ(Te *testing.T) {
	g, err := ReadXYZ(strings.NewReader(water))
	require.NoError(Te, err)
	assert.Equal(Te, []string{"O", "H", "H"}, g.Symbols)
	assert.Equal(Te, "a comment", g.Comment)
	assert.Equal(Te, [3]float64{0, -0.757, -0.467}, g.Coords.Vec(2))
	assert.Equal(Te, []float64{-0.8, 0.4, 0.4}, g.Charges)

	var buf bytes.Buffer
	require.NoError(Te, WriteXYZ(&buf, g))
	g2, err := ReadXYZ(&buf)
	require.NoError(Te, err)
	assert.Equal(Te, g.Symbols, g2.Symbols)
	assert.Equal(Te, g.Charges, g2.Charges)
	for i := 0; i < 3; i++ {
		assert.Equal(Te, g.Coords.Vec(i), g2.Coords.Vec(i))
	}

	name := filepath.Join(Te.TempDir(), "water.xyz")
	require.NoError(Te, os.WriteFile(name, []byte(water), 0644))
	g3, err := XYZRead(name)
	require.NoError(Te, err)
	assert.Equal(Te, 3, g3.Coords.NVecs())
	_, err = g3.Types(testSet(Te, carbonOxygen, nil))
	assert.True(Te, IsConfigError(err), "H is not in the test set: %v", err)
}

func TestReadXYZErrors(Te *testing.T) {
	for name, in := range map[string]string{
		"empty":      "",
		"count":      "three\n\n",
		"short":      "3\ncomment\nO 0 0 0\n",
		"fields":     "1\ncomment\nO 0 0\n",
		"coordinate": "1\ncomment\nO 0 x 0\n",
		"charge":     "1\ncomment\nO 0 0 0 q\n",
	} {
		_, err := ReadXYZ(strings.NewReader(in))
		assert.True(Te, IsParseError(err), "%s: %v", name, err)
	}
	_, err := XYZRead(filepath.Join(Te.TempDir(), "missing.xyz"))
	assert.Error(Te, err)
}

func TestElements(Te *testing.T) {
	g, err := ReadXYZ(strings.NewReader(water))
	require.NoError(Te, err)
	assert.Equal(Te, []string{"O", "H"}, g.Elements())
	m, unknown := g.Mass()
	assert.InDelta(Te, 18.016, m, 1e-9)
	assert.Empty(Te, unknown)
	g.Symbols[0] = "Xx"
	_, unknown = g.Mass()
	assert.Equal(Te, []string{"Xx"}, unknown)
	r, ok := CovalentRadius("C")
	assert.True(Te, ok)
	assert.Equal(Te, 0.76, r)
}
