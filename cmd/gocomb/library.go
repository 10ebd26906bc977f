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

package main

import (
	"fmt"

	"github.com/rmera/gocomb/spline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Write the default auxiliary library",
	Long: `library writes the built-in cutoffs and charge-model constants, plus flat
coordination, radical and torsion grids with the given number of points per
axis, to a file that can be edited and read back with --library. The file is
compressed if its name ends in .zst or .gz.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := viper.GetString("output.library")
		if out == "" {
			return fmt.Errorf("library: no output file given (--out)")
		}
		L := spline.Default(viper.GetInt("output.grid"))
		if err := spline.WriteLibraryFile(out, L); err != nil {
			return err
		}
		log.WithField("file", out).Info("library written")
		return nil
	},
}

func init() {
	f := libraryCmd.Flags()
	f.String("out", "", "output file")
	f.Int("grid", 0, "points per axis of the flat grids, no grids if less than 2")
	viper.BindPFlag("output.library", f.Lookup("out"))
	viper.BindPFlag("output.grid", f.Lookup("grid"))
}
