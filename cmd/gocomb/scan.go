/*
 * scan.go, part of gocomb.
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
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	comb "github.com/rmera/gocomb"
	"github.com/rmera/gocomb/chemplot"
	v3 "github.com/rmera/gocomb/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Energy and force of a dimer along its bond distance",
	RunE: func(cmd *cobra.Command, args []string) error {
		return scan(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	f := scanCmd.Flags()
	f.String("pair", "C,C", "the two elements, comma separated")
	f.String("charges", "0,0", "the charges of both atoms, comma separated")
	f.Float64("from", 0, "first distance in A; 0.6 times the sum of the covalent radii if 0")
	f.Float64("to", 0, "last distance in A; 2.5 times the sum of the covalent radii if 0")
	f.Int("steps", 200, "number of distances")
	f.String("plot", "", "file for the energy and force plot, none if empty")
	for _, name := range []string{"pair", "charges", "from", "to", "steps", "plot"} {
		viper.BindPFlag("scan."+name, f.Lookup(name))
	}
}

//scanRange returns the distance range for the pair: the given values, or defaults
//derived from the covalent radii of both elements.
func scanRange(a, b string, from, to float64) (float64, float64, error) {
	ra, oka := comb.CovalentRadius(a)
	rb, okb := comb.CovalentRadius(b)
	if (from <= 0 || to <= 0) && !(oka && okb) {
		return 0, 0, fmt.Errorf("scan: no covalent radius for %s-%s, give --from and --to", a, b)
	}
	if from <= 0 {
		from = 0.6 * (ra + rb)
	}
	if to <= 0 {
		to = 2.5 * (ra + rb)
	}
	if to <= from {
		return 0, 0, fmt.Errorf("scan: empty range [%g,%g]", from, to)
	}
	return from, to, nil
}

func scan(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	pair := strings.Split(viper.GetString("scan.pair"), ",")
	if len(pair) != 2 {
		return fmt.Errorf("scan: --pair needs two elements, got %q", viper.GetString("scan.pair"))
	}
	a, b := strings.TrimSpace(pair[0]), strings.TrimSpace(pair[1])
	q, err := parseFloats(viper.GetString("scan.charges"), 2)
	if err != nil {
		return fmt.Errorf("scan: charges: %w", err)
	}
	from, to, err := scanRange(a, b, viper.GetFloat64("scan.from"), viper.GetFloat64("scan.to"))
	if err != nil {
		return err
	}
	steps := viper.GetInt("scan.steps")
	if steps < 2 {
		return fmt.Errorf("scan: at least 2 steps needed")
	}
	elements := []string{a}
	if b != a {
		elements = append(elements, b)
	}
	set, lib, err := load(elements)
	if err != nil {
		return err
	}
	var E *comb.Engine
	r := make([]float64, steps)
	energy := make([]float64, steps)
	force := make([]float64, steps)
	fmt.Fprintf(out, "# %s-%s, charges %g %g\n# %10s %16s %16s %16s %16s\n", a, b, q[0], q[1], "r", "energy", "force", "repulsive", "attractive")
	for i := range r {
		r[i] = from + (to-from)*float64(i)/float64(steps-1)
		coords, _ := v3.NewMatrix([]float64{0, 0, 0, r[i], 0, 0})
		g := &comb.Geometry{Symbols: []string{a, b}, Coords: coords, Charges: []float64{q[0], q[1]}}
		sys, ex, err := comb.NewSystem(g, set, nil)
		if err != nil {
			return err
		}
		if E == nil {
			E, err = comb.NewEngine(set, lib, ex, ex, options())
			if err != nil {
				return err
			}
		}
		E.SetExchanger(ex)
		R, err := E.Compute(ctx, sys)
		if err != nil {
			return err
		}
		energy[i] = R.Energy
		force[i] = R.Forces.Vec(1)[0]
		C := R.Components
		fmt.Fprintf(out, "%12.5f %16.8f %16.8f %16.8f %16.8f\n", r[i], energy[i], force[i], C.Repulsive, C.Attractive)
	}
	name := viper.GetString("scan.plot")
	if name == "" {
		return nil
	}
	//keep the repulsive wall from flattening the rest of the curve
	emin := math.Inf(1)
	for _, e := range energy {
		emin = math.Min(emin, e)
	}
	clip := func(v []float64) []float64 {
		ret := make([]float64, len(v))
		lim := 10 * math.Max(math.Abs(emin), 1)
		for i, x := range v {
			ret[i] = x
			if math.Abs(x) > lim {
				ret[i] = math.Inf(1)
			}
		}
		return ret
	}
	series := []chemplot.Series{{Name: "energy (eV)", X: r, Y: clip(energy)}, {Name: "force (eV/A)", X: r, Y: clip(force)}}
	if err := chemplot.ScanPlot(series, a+"-"+b+" scan", "r (A)", "", name); err != nil {
		return err
	}
	log.WithField("file", name).Info("scan plot written")
	return nil
}
