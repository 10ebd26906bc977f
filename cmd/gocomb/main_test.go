/*
 * main_test.go, part of gocomb.
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

package main

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmera/gocomb/spline"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const ffield = "../../param/testdata/ffield.comb"

func TestParseFloats(Te *testing.T) {
	v, err := parseFloats("1, 2.5,3", 3)
	require.NoError(Te, err)
	assert.Equal(Te, []float64{1, 2.5, 3}, v)
	_, err = parseFloats("1,2", 3)
	assert.Error(Te, err)
	_, err = parseFloats("1,a,2", 3)
	assert.Error(Te, err)
}

func TestScanRange(Te *testing.T) {
	from, to, err := scanRange("C", "O", 0, 0)
	require.NoError(Te, err)
	assert.InDelta(Te, 0.6*1.42, from, 1e-12)
	assert.InDelta(Te, 2.5*1.42, to, 1e-12)
	from, to, err = scanRange("Xx", "O", 1, 2)
	require.NoError(Te, err)
	assert.Equal(Te, [2]float64{1, 2}, [2]float64{from, to})
	_, _, err = scanRange("Xx", "O", 0, 2)
	assert.Error(Te, err)
	_, _, err = scanRange("C", "O", 2, 1)
	assert.Error(Te, err)
}

func TestCommands(Te *testing.T) {
	dir := Te.TempDir()
	viper.Reset()
	viper.Set("ffield", ffield)
	viper.Set("log-level", "error")
	viper.Set("cpus", 2)
	viper.Set("max-neighbors", 100)
	require.NoError(Te, setup(rootCmd))

	lib := filepath.Join(dir, "lib.zst")
	viper.Set("output.library", lib)
	viper.Set("output.grid", 3)
	require.NoError(Te, libraryCmd.RunE(libraryCmd, nil))
	L, err := spline.ReadLibraryFile(lib)
	require.NoError(Te, err)
	assert.Len(Te, L.Coord, 1)
	viper.Set("library", lib)

	xyz := filepath.Join(dir, "co.xyz")
	require.NoError(Te, os.WriteFile(xyz, []byte("3\ncarbon dioxide\nC 0 0 0 0.2\nO 1.2 0 0 -0.1\nO -1.2 0.05 0 -0.1\n"), 0644))
	viper.Set("energy.xyz", xyz)
	viper.Set("energy.format", "yaml")
	viper.Set("energy.qderiv", true)
	var out bytes.Buffer
	require.NoError(Te, energy(context.Background(), &out))
	var rep energyReport
	require.NoError(Te, yaml.Unmarshal(out.Bytes(), &rep))
	assert.Len(Te, rep.Atoms, 3)
	assert.False(Te, math.IsNaN(rep.Energy))
	assert.NotNil(Te, rep.DEDQSum)
	assert.Equal(Te, "O", rep.Atoms[1].Symbol)
	assert.InDelta(Te, 44.01, rep.Mass, 1e-9)

	out.Reset()
	viper.Set("energy.format", "plain")
	viper.Set("energy.box", "12,12,12")
	require.NoError(Te, energy(context.Background(), &out))
	assert.Contains(Te, out.String(), "energy")

	out.Reset()
	viper.Set("scan.pair", "C,O")
	viper.Set("scan.charges", "0,0")
	viper.Set("scan.steps", 20)
	viper.Set("scan.plot", filepath.Join(dir, "scan.png"))
	require.NoError(Te, scan(context.Background(), &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(Te, lines, 22)
	_, err = os.Stat(filepath.Join(dir, "scan.png"))
	assert.NoError(Te, err)
	viper.Reset()
}
