/*
 * xyz.go, part of gocomb.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rmera/gocomb/param"
	v3 "github.com/rmera/gocomb/v3"
)

//Geometry is one frame read from an XYZ file.
type Geometry struct {
	Symbols []string
	Coords  *v3.Matrix
	//Charges read from an optional fifth column, zero if absent.
	Charges []float64
	Comment string
}

//XYZRead reads the first frame of the XYZ file xyzname.
func XYZRead(xyzname string) (*Geometry, error) {
	xyzfile, err := os.Open(xyzname)
	if err != nil {
		return nil, Error{message: err.Error(), class: ClassParse, deco: []string{"XYZRead"}, critical: true}
	}
	defer xyzfile.Close()
	g, err := ReadXYZ(xyzfile)
	if err != nil {
		return nil, errDecorate(err, "XYZRead "+xyzname)
	}
	return g, nil
}

func xyzError(format string, a ...interface{}) Error {
	return Error{message: fmt.Sprintf(format, a...), class: ClassParse, deco: []string{"ReadXYZ"}, critical: true}
}

//ReadXYZ reads one XYZ frame from r. Each atom line has a symbol and three
//coordinates, and optionally a charge.
func ReadXYZ(r io.Reader) (*Geometry, error) {
	xyz := bufio.NewReader(r)
	line, err := xyz.ReadString('\n')
	if err != nil && line == "" {
		return nil, xyzError("empty XYZ input")
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || natoms < 0 {
		return nil, xyzError("ill formatted atom count %q", strings.TrimSpace(line))
	}
	comment, err := xyz.ReadString('\n')
	if err != nil && natoms > 0 {
		return nil, xyzError("missing comment line")
	}
	g := &Geometry{Symbols: make([]string, natoms), Charges: make([]float64, natoms), Comment: strings.TrimSpace(comment)}
	coords := make([]float64, 3*natoms)
	for i := 0; i < natoms; i++ {
		line, err = xyz.ReadString('\n')
		if err != nil && (err != io.EOF || strings.TrimSpace(line) == "") {
			return nil, xyzError("expected %d atoms, found %d", natoms, i)
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, xyzError("atom line %d ill formed: %q", i+1, strings.TrimSpace(line))
		}
		g.Symbols[i] = fields[0]
		for k := 0; k < 3; k++ {
			coords[3*i+k], err = strconv.ParseFloat(fields[k+1], 64)
			if err != nil {
				return nil, xyzError("atom line %d: %s", i+1, err.Error())
			}
		}
		if len(fields) > 4 {
			g.Charges[i], err = strconv.ParseFloat(fields[4], 64)
			if err != nil {
				return nil, xyzError("atom line %d: charge: %s", i+1, err.Error())
			}
		}
	}
	g.Coords, err = v3.NewMatrix(coords)
	if err != nil {
		return nil, errDecorate(err, "ReadXYZ")
	}
	return g, nil
}

//WriteXYZ writes g to w in XYZ format, with the charges as a fifth column.
func WriteXYZ(w io.Writer, g *Geometry) error {
	n := len(g.Symbols)
	if g.Coords.NVecs() != n || len(g.Charges) != n {
		panic(ErrShape)
	}
	out := bufio.NewWriter(w)
	fmt.Fprintf(out, "%-4d\n%s\n", n, g.Comment)
	for i, s := range g.Symbols {
		c := g.Coords.Vec(i)
		fmt.Fprintf(out, "%-2s  %12.6f %12.6f %12.6f %10.6f\n", s, c[0], c[1], c[2], g.Charges[i])
	}
	return out.Flush()
}

//Types returns the element index in set of each symbol of g.
func (g *Geometry) Types(set *param.Set) ([]int, error) {
	types := make([]int, len(g.Symbols))
	for i, s := range g.Symbols {
		t, ok := set.ElementIndex(s)
		if !ok {
			return nil, configError("Types", "atom %d: element %s is not in the parameter set %v", i+1, s, set.Elements())
		}
		types[i] = t
	}
	return types, nil
}
