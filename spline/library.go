/*
 * library.go, part of gocomb.
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
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

//AngularPoint is one row of the tabulated angular function: its value and first
//and second derivatives with respect to the cosine of the angle.
type AngularPoint struct {
	V, D1, D2 float64
}

//Extrapolation continues a coordination model linearly beyond the grid: when the
//clamped group coordinations add up to more than MaxXcn, the correction is
//V+(N-MaxXcn)*DV, with N the total coordination.
type Extrapolation struct {
	MaxXcn, V, DV float64
}

//Library contains the data shared by every rank, as read from a lib.comb3 file.
type Library struct {
	//Coordination windows: [0,1] blend the tabulated angular function (angular
	//model 1), [2,3] gate the conjugation count, [4,5] blend the ChA polynomial
	//(angular model 2).
	CCutoff [6]float64
	ChA     [7]float64 //coefficient of c^n at n

	CoordMax [3]int //maxx maxy maxz, lattice extent of the coordination grids
	ConjMax  [3]int //maxxc maxyc maxconj, lattice extent of the radical and torsion grids

	Extrap  []Extrapolation //one per coordination grid
	Angular []AngularPoint  //ntab+1 samples over [-1,1], or empty

	Coord   []*Grid //picked by pcn_flag-1
	Radical []*Grid //picked by rad_flag-1
	Torsion []*Grid //picked by tor_flag-1
}

//CoordGrid returns an empty grid with the coordination lattice of the library.
func (L *Library) CoordGrid() (*Grid, error) {
	m := L.CoordMax
	return NewGrid([3]int{m[0] + 1, m[1] + 1, m[2] + 1}, [3]int{})
}

//ConjGrid returns an empty grid with the radical/torsion lattice of the library.
//The conjugation axis starts at 1.
func (L *Library) ConjGrid() (*Grid, error) {
	m := L.ConjMax
	return NewGrid([3]int{m[0] + 1, m[1] + 1, m[2]}, [3]int{0, 0, 1})
}

//Validate checks that the windows are ordered and that every grid has the
//lattice declared by the library.
func (L *Library) Validate() error {
	for w := 0; w < 6; w += 2 {
		if L.CCutoff[w] >= L.CCutoff[w+1] {
			return configError("Validate", "coordination window %d: lower bound %g not below upper bound %g", w/2, L.CCutoff[w], L.CCutoff[w+1])
		}
	}
	if len(L.Extrap) != len(L.Coord) {
		return configError("Validate", "%d extrapolation rows for %d coordination grids", len(L.Extrap), len(L.Coord))
	}
	if len(L.Angular) == 1 {
		return configError("Validate", "angular table needs at least 2 samples")
	}
	cn := [3]int{L.CoordMax[0] + 1, L.CoordMax[1] + 1, L.CoordMax[2] + 1}
	for i, G := range L.Coord {
		if G.n != cn || G.lo != [3]int{} {
			return configError("Validate", "coordination grid %d has %v points from %v, the library declares %v from 0", i, G.n, G.lo, cn)
		}
		if !G.finite() {
			return configError("Validate", "coordination grid %d has non-finite values", i)
		}
	}
	jn := [3]int{L.ConjMax[0] + 1, L.ConjMax[1] + 1, L.ConjMax[2]}
	for f, gs := range [][]*Grid{L.Radical, L.Torsion} {
		name := [2]string{"radical", "torsion"}[f]
		for i, G := range gs {
			if G.n != jn || G.lo != [3]int{0, 0, 1} {
				return configError("Validate", "%s grid %d has %v points from %v, the library declares %v from (0,0,1)", name, i, G.n, G.lo, jn)
			}
			if !G.finite() {
				return configError("Validate", "%s grid %d has non-finite values", name, i)
			}
		}
	}
	return nil
}

//AngularCurve returns the tabulated angular function and its derivative at the
//cosine c, by linear interpolation between samples. The second value is false if
//the library has no angular table.
func (L *Library) AngularCurve(c float64) (float64, float64, bool) {
	n := len(L.Angular) - 1
	if n < 1 {
		return 0, 0, false
	}
	step := 2 / float64(n)
	t := (c + 1) / step
	k := int(t)
	if k < 0 {
		k = 0
	}
	if k > n-1 {
		k = n - 1
	}
	a, b := L.Angular[k].V, L.Angular[k+1].V
	return a + (b-a)*(t-float64(k)), (b - a) / step, true
}

//Default returns a library with the coordination windows [3,4] and no angular
//polynomial. If n is positive, it also carries one flat zero coordination grid,
//one flat zero radical grid and one flat torsion grid of ones, with n as the
//largest lattice coordinate of every axis.
func Default(n int) *Library {
	L := &Library{CCutoff: [6]float64{3, 4, 3, 4, 3, 4}}
	if n < 1 {
		return L
	}
	L.CoordMax = [3]int{n, n, n}
	L.ConjMax = [3]int{n, n, n + 1}
	c, _ := L.CoordGrid()
	c.Fit()
	L.Coord = []*Grid{c}
	L.Extrap = []Extrapolation{{MaxXcn: float64(3 * n)}}
	r, _ := L.ConjGrid()
	r.Fit()
	L.Radical = []*Grid{r}
	t, _ := L.ConjGrid()
	for p := 0; p < len(t.points); p += pointWidth {
		t.points[p] = 1
	}
	t.Fit()
	L.Torsion = []*Grid{t}
	return L
}

//lines reads the library one line at a time. Blank lines and lines starting
//with '#' are skipped.
type lines struct {
	s        *bufio.Scanner
	filename string
	line     int
}

func newLines(r io.Reader, filename string) *lines {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	return &lines{s: s, filename: filename}
}

func (l *lines) errorf(format string, a ...interface{}) error {
	return parseError(l.filename, "ReadLibrary", "line %d: %s", l.line, fmt.Sprintf(format, a...))
}

//next returns the first n fields of the next line.
func (l *lines) next(what string, n int) ([]string, error) {
	for l.s.Scan() {
		l.line++
		text := strings.TrimSpace(l.s.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		f := strings.Fields(text)
		if len(f) < n {
			return nil, l.errorf("%s: %d fields, %d needed", what, len(f), n)
		}
		return f[:n], nil
	}
	if err := l.s.Err(); err != nil {
		return nil, l.errorf("reading %s: %s", what, err.Error())
	}
	return nil, parseError(l.filename, "ReadLibrary", "short read: end of input while reading %s", what)
}

func (l *lines) floats(what string, f []string, dst ...*float64) error {
	for i, d := range dst {
		v, err := strconv.ParseFloat(f[i], 64)
		if err != nil {
			return l.errorf("%s: %q is not a number", what, f[i])
		}
		*d = v
	}
	return nil
}

func (l *lines) ints(what string, f []string, dst ...*int) error {
	for i, d := range dst {
		v, err := strconv.Atoi(f[i])
		if err != nil {
			return l.errorf("%s: %q is not an integer", what, f[i])
		}
		*d = v
	}
	return nil
}

//ReadLibrary reads a library in the lib.comb3 format from r. The format is
//positional, one record per line: the six coordination windows, the seven angular
//coefficients, the number of coordination, radical and torsion grids, the
//coordination lattice extent, the radical/torsion lattice extent, one extrapolation
//row per coordination grid, the angular table size ntab and its ntab+1 rows, and
//finally every grid as lattice rows followed by cell headers, each with two lines
//of 32 coefficients.
func ReadLibrary(r io.Reader) (*Library, error) {
	return readLibrary(newLines(r, ""))
}

//ReadLibraryFile reads a library from the file name. Names ending in .zst or .gz
//are decompressed with zstd or gzip.
func ReadLibraryFile(name string) (*Library, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, parseError(name, "ReadLibraryFile", "%s", err.Error())
	}
	defer f.Close()
	var r io.Reader = f
	lname := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lname, ".zst"):
		d, err := zstd.NewReader(f)
		if err != nil {
			return nil, parseError(name, "ReadLibraryFile", "%s", err.Error())
		}
		defer d.Close()
		r = d
	case strings.HasSuffix(lname, ".gz"):
		g, err := gzip.NewReader(f)
		if err != nil {
			return nil, parseError(name, "ReadLibraryFile", "%s", err.Error())
		}
		defer g.Close()
		r = g
	}
	L, err := readLibrary(newLines(r, name))
	if err != nil {
		return nil, errDecorate(err, "ReadLibraryFile")
	}
	return L, nil
}

func readLibrary(l *lines) (*Library, error) {
	L := new(Library)
	f, err := l.next("coordination windows", 6)
	if err != nil {
		return nil, err
	}
	c := L.CCutoff[:]
	if err = l.floats("coordination windows", f, &c[0], &c[1], &c[2], &c[3], &c[4], &c[5]); err != nil {
		return nil, err
	}
	if f, err = l.next("angular coefficients", 7); err != nil {
		return nil, err
	}
	a := L.ChA[:]
	if err = l.floats("angular coefficients", f, &a[0], &a[1], &a[2], &a[3], &a[4], &a[5], &a[6]); err != nil {
		return nil, err
	}
	var ncoord, nrad, ntor int
	if f, err = l.next("number of grids", 3); err != nil {
		return nil, err
	}
	if err = l.ints("number of grids", f, &ncoord, &nrad, &ntor); err != nil {
		return nil, err
	}
	m := &L.CoordMax
	if f, err = l.next("coordination lattice", 3); err != nil {
		return nil, err
	}
	if err = l.ints("coordination lattice", f, &m[0], &m[1], &m[2]); err != nil {
		return nil, err
	}
	m = &L.ConjMax
	if f, err = l.next("conjugation lattice", 3); err != nil {
		return nil, err
	}
	if err = l.ints("conjugation lattice", f, &m[0], &m[1], &m[2]); err != nil {
		return nil, err
	}
	if ncoord < 0 || nrad < 0 || ntor < 0 {
		return nil, l.errorf("negative number of grids %d %d %d", ncoord, nrad, ntor)
	}
	L.Extrap = make([]Extrapolation, ncoord)
	for i := range L.Extrap {
		e := &L.Extrap[i]
		if f, err = l.next("extrapolation row", 4); err != nil {
			return nil, err
		}
		if err = l.floats("extrapolation row", f[1:], &e.MaxXcn, &e.V, &e.DV); err != nil {
			return nil, err
		}
	}
	var ntab int
	if f, err = l.next("angular table size", 1); err != nil {
		return nil, err
	}
	if err = l.ints("angular table size", f, &ntab); err != nil {
		return nil, err
	}
	if ntab < 0 {
		return nil, l.errorf("negative angular table size %d", ntab)
	}
	ang := make([]AngularPoint, ntab+1)
	for i := range ang {
		p := &ang[i]
		if f, err = l.next("angular table", 4); err != nil {
			return nil, err
		}
		if err = l.floats("angular table", f[1:], &p.V, &p.D1, &p.D2); err != nil {
			return nil, err
		}
	}
	if ntab > 0 {
		L.Angular = ang
	}
	if L.Coord, err = readGrids(l, ncoord, "coordination", L.CoordGrid); err != nil {
		return nil, err
	}
	if L.Radical, err = readGrids(l, nrad, "radical", L.ConjGrid); err != nil {
		return nil, err
	}
	if L.Torsion, err = readGrids(l, ntor, "torsion", L.ConjGrid); err != nil {
		return nil, err
	}
	if err := L.Validate(); err != nil {
		return nil, errDecorate(err, "ReadLibrary")
	}
	return L, nil
}

//readGrids reads the lattice rows of n grids, then their cells. Every row starts
//with the 1-based grid number and the lattice coordinates it refers to.
func readGrids(l *lines, n int, family string, blank func() (*Grid, error)) ([]*Grid, error) {
	if n == 0 {
		return nil, nil
	}
	gs := make([]*Grid, n)
	for i := range gs {
		G, err := blank()
		if err != nil {
			return nil, errDecorate(err, "ReadLibrary")
		}
		gs[i] = G
	}
	var idx [4]int
	//row reads a line with at least nf fields, the first four being the grid
	//number and the lattice coordinates.
	row := func(what string, nf int) (*Grid, []string, error) {
		f, err := l.next(what, nf)
		if err != nil {
			return nil, nil, err
		}
		if err = l.ints(what, f, &idx[0], &idx[1], &idx[2], &idx[3]); err != nil {
			return nil, nil, err
		}
		if idx[0] < 1 || idx[0] > n {
			return nil, nil, l.errorf("%s: grid number %d not in [1,%d]", what, idx[0], n)
		}
		return gs[idx[0]-1], f, nil
	}
	what := family + " lattice row"
	points := len(gs[0].points) / pointWidth
	for p := 0; p < n*points; p++ {
		G, f, err := row(what, 8)
		if err != nil {
			return nil, err
		}
		if !G.Contains(idx[1], idx[2], idx[3]) {
			return nil, l.errorf("%s: point %d %d %d outside the lattice", what, idx[1], idx[2], idx[3])
		}
		var v float64
		var g [3]float64
		if err := l.floats(what, f[4:], &v, &g[0], &g[1], &g[2]); err != nil {
			return nil, err
		}
		G.SetPoint(idx[1], idx[2], idx[3], v, g)
	}
	what = family + " cell"
	cells := gs[0].cells()
	for p := 0; p < n*cells; p++ {
		G, _, err := row(what, 4)
		if err != nil {
			return nil, err
		}
		if !G.ContainsCell(idx[1], idx[2], idx[3]) {
			return nil, l.errorf("%s: cell %d %d %d outside the lattice", what, idx[1], idx[2], idx[3])
		}
		c := G.Cell(idx[1], idx[2], idx[3])
		dst := make([]*float64, NCoef/2)
		for half := 0; half < 2; half++ {
			f, err := l.next(what+" coefficients", NCoef/2)
			if err != nil {
				return nil, err
			}
			for m := range dst {
				dst[m] = &c[half*NCoef/2+m]
			}
			if err := l.floats(what+" coefficients", f, dst...); err != nil {
				return nil, err
			}
		}
	}
	return gs, nil
}

func fmtg(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

//WriteLibrary writes L to w in the format read by ReadLibrary.
func WriteLibrary(w io.Writer, L *Library) error {
	if err := L.Validate(); err != nil {
		return errDecorate(err, "WriteLibrary")
	}
	b := bufio.NewWriter(w)
	row := func(v []float64) {
		s := make([]string, len(v))
		for i, f := range v {
			s[i] = fmtg(f)
		}
		fmt.Fprintln(b, strings.Join(s, " "))
	}
	row(L.CCutoff[:])
	row(L.ChA[:])
	fmt.Fprintf(b, "%d %d %d\n", len(L.Coord), len(L.Radical), len(L.Torsion))
	fmt.Fprintf(b, "%d %d %d\n", L.CoordMax[0], L.CoordMax[1], L.CoordMax[2])
	fmt.Fprintf(b, "%d %d %d\n", L.ConjMax[0], L.ConjMax[1], L.ConjMax[2])
	for i, e := range L.Extrap {
		fmt.Fprintf(b, "%d %s %s %s\n", i+1, fmtg(e.MaxXcn), fmtg(e.V), fmtg(e.DV))
	}
	ang := L.Angular
	if len(ang) == 0 {
		ang = []AngularPoint{{}}
	}
	fmt.Fprintf(b, "%d\n", len(ang)-1)
	for i, p := range ang {
		fmt.Fprintf(b, "%d %s %s %s\n", i, fmtg(p.V), fmtg(p.D1), fmtg(p.D2))
	}
	for _, gs := range [][]*Grid{L.Coord, L.Radical, L.Torsion} {
		for n, G := range gs {
			m := G.Max()
			for i := G.lo[0]; i <= m[0]; i++ {
				for j := G.lo[1]; j <= m[1]; j++ {
					for k := G.lo[2]; k <= m[2]; k++ {
						v, g := G.Point(i, j, k)
						fmt.Fprintf(b, "%d %d %d %d %s %s %s %s\n", n+1, i, j, k, fmtg(v), fmtg(g[0]), fmtg(g[1]), fmtg(g[2]))
					}
				}
			}
		}
		for n, G := range gs {
			m := G.Max()
			for i := G.lo[0]; i < m[0]; i++ {
				for j := G.lo[1]; j < m[1]; j++ {
					for k := G.lo[2]; k < m[2]; k++ {
						fmt.Fprintf(b, "%d %d %d %d\n", n+1, i, j, k)
						c := G.Cell(i, j, k)
						row(c[:NCoef/2])
						row(c[NCoef/2:])
					}
				}
			}
		}
	}
	if err := b.Flush(); err != nil {
		return configError("WriteLibrary", "writing: %s", err.Error())
	}
	return nil
}

//WriteLibraryFile writes L to the file name, compressing it with zstd or gzip if
//the name ends in .zst or .gz.
func WriteLibraryFile(name string, L *Library) error {
	f, err := os.Create(name)
	if err != nil {
		return configError("WriteLibraryFile", "%s", err.Error())
	}
	defer f.Close()
	var w io.WriteCloser
	lname := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lname, ".zst"):
		w, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	case strings.HasSuffix(lname, ".gz"):
		w = gzip.NewWriter(f)
	}
	if err != nil {
		return configError("WriteLibraryFile", "%s", err.Error())
	}
	if w == nil {
		if err := WriteLibrary(f, L); err != nil {
			return errDecorate(err, "WriteLibraryFile")
		}
		return f.Close()
	}
	if err := WriteLibrary(w, L); err != nil {
		return errDecorate(err, "WriteLibraryFile")
	}
	if err := w.Close(); err != nil {
		return configError("WriteLibraryFile", "%s", err.Error())
	}
	return f.Close()
}

//finite reports whether every value stored in the grid is a finite number.
func (G *Grid) finite() bool {
	for _, s := range [][]float64{G.points, G.coefs} {
		for _, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
