/*
 * energy.go, part of gocomb.
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
	"os"

	comb "github.com/rmera/gocomb"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var energyCmd = &cobra.Command{
	Use:   "energy",
	Short: "Energy, forces, dipoles and charge derivatives of one geometry",
	Long: `energy evaluates an XYZ geometry. Charges are read from an optional fifth
column of the atom lines. With --box the system is periodic and orthorhombic.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return energy(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	f := energyCmd.Flags()
	f.String("xyz", "", "geometry in XYZ format")
	f.String("box", "", "orthorhombic box lengths a,b,c in A, empty for an isolated system")
	f.String("format", "yaml", "output format: yaml or plain")
	f.Bool("qderiv", true, "also compute the derivatives of the energy with respect to the charges")
	for _, name := range []string{"xyz", "box", "format", "qderiv"} {
		viper.BindPFlag("energy."+name, f.Lookup(name))
	}
}

type componentsReport struct {
	Self         float64 `yaml:"self"`
	Coulomb      float64 `yaml:"coulomb"`
	Field        float64 `yaml:"field"`
	Vdw          float64 `yaml:"vdw"`
	Repulsive    float64 `yaml:"repulsive"`
	Attractive   float64 `yaml:"attractive"`
	LonePair     float64 `yaml:"lone_pair"`
	Polarization float64 `yaml:"polarization"`
}

type atomReport struct {
	Symbol string     `yaml:"symbol"`
	Charge float64    `yaml:"charge"`
	Energy float64    `yaml:"energy"`
	Force  [3]float64 `yaml:"force,flow"`
	Dipole [3]float64 `yaml:"dipole,flow"`
	DEDQ   float64    `yaml:"dedq,omitempty"`
	//total, carbon, hydrogen and oxygen-like coordination
	Coordination [4]float64 `yaml:"coordination,flow"`
}

type energyReport struct {
	File       string           `yaml:"file"`
	Mass       float64          `yaml:"mass"`
	Energy     float64          `yaml:"energy"`
	Components componentsReport `yaml:"components"`
	DEDQSum    *float64         `yaml:"dedq_sum,omitempty"`
	Atoms      []atomReport     `yaml:"atoms"`
}

func energy(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	name := viper.GetString("energy.xyz")
	if name == "" {
		return fmt.Errorf("energy: no geometry given (--xyz)")
	}
	g, err := comb.XYZRead(name)
	if err != nil {
		return err
	}
	set, lib, err := load(g.Elements())
	if err != nil {
		return err
	}
	var box *[3]float64
	if b := viper.GetString("energy.box"); b != "" {
		v, err := parseFloats(b, 3)
		if err != nil {
			return fmt.Errorf("energy: box: %w", err)
		}
		box = &[3]float64{v[0], v[1], v[2]}
	}
	sys, ex, err := comb.NewSystem(g, set, box)
	if err != nil {
		return err
	}
	E, err := comb.NewEngine(set, lib, ex, ex, options())
	if err != nil {
		return err
	}
	R, err := E.Compute(ctx, sys)
	if err != nil {
		return err
	}
	mass, unknown := g.Mass()
	if len(unknown) > 0 {
		log.WithField("elements", unknown).Warn("no mass for some elements")
	}
	C := R.Components
	rep := energyReport{
		File:       name,
		Mass:       mass,
		Energy:     R.Energy,
		Components: componentsReport{C.Self, C.Coulomb, C.Field, C.Vdw, C.Repulsive, C.Attractive, C.LonePair, C.Polarization},
		Atoms:      make([]atomReport, sys.NLocal),
	}
	for i := range rep.Atoms {
		t, c, h, o := E.Coordination(i)
		rep.Atoms[i] = atomReport{
			Symbol:       g.Symbols[i],
			Charge:       g.Charges[i],
			Energy:       R.PerAtom[i],
			Force:        R.Forces.Vec(i),
			Dipole:       R.Dipoles.Vec(i),
			Coordination: [4]float64{t, c, h, o},
		}
	}
	if viper.GetBool("energy.qderiv") {
		sum, dq, err := E.ChargeDerivative(ctx, sys)
		if err != nil {
			return err
		}
		rep.DEDQSum = &sum
		for i := range rep.Atoms {
			rep.Atoms[i].DEDQ = dq[i]
		}
	}
	log.WithFields(logrus.Fields{"atoms": sys.NLocal, "ghosts": sys.Len() - sys.NLocal, "energy": R.Energy}).Info("energy done")
	if viper.GetString("energy.format") == "plain" {
		return writePlain(out, &rep)
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(&rep); err != nil {
		return err
	}
	return enc.Close()
}

func writePlain(out io.Writer, rep *energyReport) error {
	if out == nil {
		out = os.Stdout
	}
	c := rep.Components
	fmt.Fprintf(out, "%s: %d atoms, mass %.3f\n", rep.File, len(rep.Atoms), rep.Mass)
	fmt.Fprintf(out, "energy %.8f eV\n", rep.Energy)
	fmt.Fprintf(out, "  self %.8f coulomb %.8f field %.8f vdw %.8f\n", c.Self, c.Coulomb, c.Field, c.Vdw)
	fmt.Fprintf(out, "  repulsive %.8f attractive %.8f lone pair %.8f polarization %.8f\n", c.Repulsive, c.Attractive, c.LonePair, c.Polarization)
	if rep.DEDQSum != nil {
		fmt.Fprintf(out, "sum of dE/dq %.8f eV/e\n", *rep.DEDQSum)
	}
	fmt.Fprintf(out, "%-3s %9s %12s %12s %12s %12s %12s %7s\n", "at", "q", "E", "Fx", "Fy", "Fz", "dE/dq", "N")
	for _, a := range rep.Atoms {
		fmt.Fprintf(out, "%-3s %9.5f %12.6f %12.6f %12.6f %12.6f %12.6f %7.4f\n", a.Symbol, a.Charge, a.Energy, a.Force[0], a.Force[1], a.Force[2], a.DEDQ, a.Coordination[0])
	}
	return nil
}
