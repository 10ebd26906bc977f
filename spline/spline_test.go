/*
 * spline_test.go, part of gocomb.
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

package spline

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"
)

//separable is reproduced exactly by the Hermite fit, since its cross derivatives vanish.
func separable(x, y, z float64) (float64, [3]float64) {
	return 0.1*x*x*x - 0.5*y*y + 2*z + 1, [3]float64{0.3 * x * x, -y, 2}
}

func TestFit(Te *testing.T) {
	G, err := Sample([3]int{4, 3, 5}, [3]int{0, 0, 1}, separable)
	require.NoError(Te, err)
	assert.Equal(Te, [3]int{3, 2, 5}, G.Max())
	for _, p := range [][3]float64{{0.5, 0.5, 1.5}, {2.3, 1.7, 3.9}, {0.01, 1.99, 2.5}, {3, 1.5, 5}, {1.5, 0.5, 1}} {
		v, g := G.Eval(p[0], p[1], p[2])
		ve, ge := separable(p[0], p[1], p[2])
		assert.InDelta(Te, ve, v, 1e-10, "value at %v", p)
		for a := 0; a < 3; a++ {
			assert.InDelta(Te, ge[a], g[a], 1e-10, "gradient %d at %v", a, p)
		}
	}
}

//TestLatticeExact uses a grid whose cell polynomial deliberately disagrees with the
//lattice values, so the two evaluation paths can be told apart.
func TestLatticeExact(Te *testing.T) {
	G, err := NewGrid([3]int{3, 3, 3}, [3]int{})
	require.NoError(Te, err)
	G.SetPoint(1, 1, 1, 7.5, [3]float64{1, 2, 3})
	c := G.Cell(1, 1, 1)
	c[0] = -1     //constant
	c[16] = 0.5   //x
	c[4] = 0.25   //y
	c[1] = 0.125  //z
	c[21] = 0.01 //x y z
	v, g := G.Eval(1, 1, 1)
	assert.Equal(Te, 7.5, v)
	assert.Equal(Te, [3]float64{1, 2, 3}, g)
	//within the lattice tolerance
	v, _ = G.Eval(1+5e-9, 1, 1-5e-9)
	assert.Equal(Te, 7.5, v)
	v, g = G.Eval(1.2, 1.4, 1.1)
	pv, pg := Polynomial(c, 1.2, 1.4, 1.1)
	assert.True(Te, scalar.EqualWithinAbs(pv, v, 1e-14))
	assert.InDelta(Te, -1+0.6+0.35+0.1375+0.01*1.2*1.4*1.1, v, 1e-12)
	assert.Equal(Te, pg, g)
	assert.InDelta(Te, 0.5+0.01*1.4*1.1, g[0], 1e-12)
	assert.InDelta(Te, 0.25+0.01*1.2*1.1, g[1], 1e-12)
	assert.InDelta(Te, 0.125+0.01*1.2*1.4, g[2], 1e-12)
}

func TestClamp(Te *testing.T) {
	G, err := Sample([3]int{4, 4, 4}, [3]int{0, 0, 1}, separable)
	require.NoError(Te, err)
	//x is clamped to 3, a lattice value, so the stored point is returned with dx=0
	v, g := G.Eval(5, 1, 2)
	ve, ge := separable(3, 1, 2)
	assert.InDelta(Te, ve, v, 1e-12)
	assert.Equal(Te, 0.0, g[0])
	assert.InDelta(Te, ge[1], g[1], 1e-12)
	//z below the first conjugation point
	v, g = G.Eval(-1, 1.5, 0.2)
	ve, _ = separable(0, 1.5, 1)
	assert.InDelta(Te, ve, v, 1e-12)
	assert.Equal(Te, 0.0, g[0])
	assert.Equal(Te, 0.0, g[2])
	c, free := G.Clamp([3]float64{-0.5, 2, 9})
	assert.Equal(Te, [3]float64{0, 2, 4}, c)
	assert.Equal(Te, [3]bool{false, true, false}, free)
	_, err = NewGrid([3]int{1, 2, 2}, [3]int{})
	var se Error
	require.True(Te, errors.As(err, &se))
	assert.Equal(Te, ClassConfig, se.Class())
}

func TestAngularCurve(Te *testing.T) {
	L := Default(0)
	_, _, ok := L.AngularCurve(0.3)
	assert.False(Te, ok)
	//h(c)=c^2 sampled at 5 points, interpolated linearly
	for i := 0; i <= 4; i++ {
		c := -1 + 0.5*float64(i)
		L.Angular = append(L.Angular, AngularPoint{c * c, 2 * c, 2})
	}
	for _, c := range []float64{-1, -0.5, 0.5} {
		h, _, ok := L.AngularCurve(c)
		require.True(Te, ok)
		assert.InDelta(Te, c*c, h, 1e-12)
	}
	h, dh, _ := L.AngularCurve(0.1)
	assert.InDelta(Te, 0.05, h, 1e-12)
	assert.InDelta(Te, 0.5, dh, 1e-12)
	//the last sample is reached through the last segment
	h, dh, _ = L.AngularCurve(1)
	assert.InDelta(Te, 1, h, 1e-12)
	assert.InDelta(Te, 1.5, dh, 1e-12)
}

//smallLibrary writes a library in the lib.comb3 layout by hand: lattice extents
//(1,1,1) and (1,1,2), one grid of each family.
func smallLibrary() string {
	var b strings.Builder
	b.WriteString("2.0 3.0 2.5 3.5 1.5 2.5\n")
	b.WriteString("0.1 0.2 0 0 0 0 0.05\n")
	b.WriteString("1 1 1\n1 1 1\n1 1 2\n")
	b.WriteString("1 3 0.5 -0.2\n")
	b.WriteString("2\n0 1.0 -2 2\n1 0.0 0 2\n2 1.0 2 2\n")
	coefs := func(base float64) {
		for half := 0; half < 2; half++ {
			row := make([]string, 32)
			for m := range row {
				row[m] = fmt.Sprint(base + float64(half*32+m))
			}
			b.WriteString(strings.Join(row, " ") + "\n")
		}
	}
	for i := 0; i <= 1; i++ {
		for j := 0; j <= 1; j++ {
			for k := 0; k <= 1; k++ {
				fmt.Fprintf(&b, "1 %d %d %d %d 0.1 0.2 0.3\n", i, j, k, i+10*j+100*k)
			}
		}
	}
	b.WriteString("1 0 0 0\n")
	coefs(0)
	for f := 0; f < 2; f++ {
		for i := 0; i <= 1; i++ {
			for j := 0; j <= 1; j++ {
				for k := 1; k <= 2; k++ {
					fmt.Fprintf(&b, "1 %d %d %d %d 0 0 0\n", i, j, k, 1000*(f+1)+i+10*j+100*k)
				}
			}
		}
		b.WriteString("1 0 0 1\n")
		coefs(float64(1000 * (f + 1)))
	}
	return b.String()
}

func TestReadLibrary(Te *testing.T) {
	L, err := ReadLibrary(strings.NewReader(smallLibrary()))
	require.NoError(Te, err)
	assert.Equal(Te, [6]float64{2, 3, 2.5, 3.5, 1.5, 2.5}, L.CCutoff)
	assert.Equal(Te, 0.05, L.ChA[6])
	assert.Equal(Te, [3]int{1, 1, 1}, L.CoordMax)
	assert.Equal(Te, [3]int{1, 1, 2}, L.ConjMax)
	assert.Equal(Te, []Extrapolation{{3, 0.5, -0.2}}, L.Extrap)
	require.Len(Te, L.Angular, 3)
	assert.Equal(Te, AngularPoint{1, 2, 2}, L.Angular[2])
	require.Len(Te, L.Coord, 1)
	require.Len(Te, L.Radical, 1)
	require.Len(Te, L.Torsion, 1)
	v, g := L.Coord[0].Point(1, 0, 1)
	assert.Equal(Te, 101.0, v)
	assert.Equal(Te, [3]float64{0.1, 0.2, 0.3}, g)
	assert.Equal(Te, 5.0, L.Coord[0].Cell(0, 0, 0)[5])
	//the conjugation axis is 1-based
	v, _ = L.Radical[0].Point(1, 1, 2)
	assert.Equal(Te, 1211.0, v)
	v, _ = L.Torsion[0].Point(0, 1, 1)
	assert.Equal(Te, 2110.0, v)
	assert.Equal(Te, 2063.0, L.Torsion[0].Cell(0, 0, 1)[63])
	//lattice hits on the 1-based axis
	v, _ = L.Radical[0].Eval(0, 0, 2)
	assert.Equal(Te, 1200.0, v)

	bad := strings.Replace(smallLibrary(), "1 1 1 1 111", "1 1 1 3 111", 1)
	_, err = ReadLibrary(strings.NewReader(bad))
	var se Error
	require.True(Te, errors.As(err, &se))
	assert.Equal(Te, ClassParse, se.Class())
	bad = strings.Replace(smallLibrary(), "2.0 3.0 2.5", "3.0 2.0 2.5", 1)
	_, err = ReadLibrary(strings.NewReader(bad))
	require.True(Te, errors.As(err, &se))
	assert.Equal(Te, ClassConfig, se.Class())
}

func testLibrary(Te *testing.T) *Library {
	L := Default(2)
	G, err := L.CoordGrid()
	require.NoError(Te, err)
	m := G.Max()
	for i := 0; i <= m[0]; i++ {
		for j := 0; j <= m[1]; j++ {
			for k := 0; k <= m[2]; k++ {
				v, g := separable(float64(i), float64(j), float64(k))
				G.SetPoint(i, j, k, v, g)
			}
		}
	}
	G.Fit()
	L.Coord = append(L.Coord, G)
	L.Extrap = append(L.Extrap, Extrapolation{4.5, 0.1, -0.01})
	L.ChA = [7]float64{0.1, -0.2, 0.3}
	L.Angular = []AngularPoint{{1, 0, 0}, {0.5, 0.1, 0.01}, {0.25, -0.2, 0}}
	return L
}

func TestLibraryRoundTrip(Te *testing.T) {
	L := testLibrary(Te)
	var buf bytes.Buffer
	require.NoError(Te, WriteLibrary(&buf, L))
	L2, err := ReadLibrary(&buf)
	require.NoError(Te, err)
	assert.Equal(Te, L.CCutoff, L2.CCutoff)
	assert.Equal(Te, L.ChA, L2.ChA)
	assert.Equal(Te, L.Extrap, L2.Extrap)
	assert.Equal(Te, L.Angular, L2.Angular)
	require.Len(Te, L2.Coord, 2)
	assert.Equal(Te, L.Coord[1], L2.Coord[1])
	assert.Equal(Te, L.Radical, L2.Radical)
	assert.Equal(Te, L.Torsion, L2.Torsion)
	for _, ext := range []string{".comb3", ".comb3.zst", ".comb3.gz"} {
		name := filepath.Join(Te.TempDir(), "lib"+ext)
		require.NoError(Te, WriteLibraryFile(name, L))
		L3, err := ReadLibraryFile(name)
		require.NoError(Te, err, ext)
		assert.Equal(Te, L.Torsion, L3.Torsion, ext)
	}
	//no angular table
	L.Angular = nil
	buf.Reset()
	require.NoError(Te, WriteLibrary(&buf, L))
	L2, err = ReadLibrary(&buf)
	require.NoError(Te, err)
	assert.Empty(Te, L2.Angular)
}

func TestShortRead(Te *testing.T) {
	L := testLibrary(Te)
	var buf bytes.Buffer
	require.NoError(Te, WriteLibrary(&buf, L))
	text := buf.String()
	//cut the file at several places
	for _, frac := range []float64{0.01, 0.3, 0.7, 0.99} {
		cut := text[:int(frac*float64(len(text)))]
		cut = cut[:strings.LastIndex(cut, "\n")+1]
		_, err := ReadLibrary(strings.NewReader(cut))
		var se Error
		require.True(Te, errors.As(err, &se), fmt.Sprintf("cut at %g: %v", frac, err))
		assert.Equal(Te, ClassParse, se.Class())
	}
}
