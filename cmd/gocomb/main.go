/*
 * main.go, part of gocomb.
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

//gocomb evaluates the charge-dependent bond-order potential for small systems:
//single point energies and forces, dimer scans, and default auxiliary libraries.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	comb "github.com/rmera/gocomb"
	"github.com/rmera/gocomb/param"
	"github.com/rmera/gocomb/spline"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "gocomb",
	Short: "Charge-optimized many-body potential evaluator",
	Long: `gocomb evaluates a charge-dependent bond-order potential with Wolf-summed
Coulomb interactions, van der Waals terms and one-shot induced dipoles.
Every flag can also be given in a YAML or TOML configuration file, or as an
environment variable with the GOCOMB_ prefix (GOCOMB_FFIELD, GOCOMB_LOG_LEVEL...).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "configuration file (YAML or TOML)")
	pf.String("ffield", "ffield.comb", "parameter file, optionally zstd or gzip compressed")
	pf.String("library", "", "auxiliary spline library; the built-in defaults without grids if empty")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")
	pf.Int("cpus", 0, "worker goroutines, 0 for one per CPU")
	pf.Int("max-neighbors", 2000, "maximum number of bonded neighbors of one atom")
	for _, name := range []string{"ffield", "library", "log-level", "log-format", "cpus", "max-neighbors"} {
		viper.BindPFlag(name, pf.Lookup(name))
	}
	viper.SetEnvPrefix("GOCOMB")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
	rootCmd.AddCommand(energyCmd, scanCmd, libraryCmd)
}

//setup reads the configuration file, if any, and configures the logger.
func setup(cmd *cobra.Command) error {
	if cfg, _ := cmd.Flags().GetString("config"); cfg != "" {
		viper.SetConfigFile(cfg)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading configuration %s: %w", cfg, err)
		}
	}
	level, err := logrus.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	switch viper.GetString("log-format") {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if f := viper.ConfigFileUsed(); f != "" {
		log.WithField("file", f).Debug("configuration read")
	}
	return nil
}

//options returns the engine options from the configuration.
func options() *comb.Options {
	opts := comb.DefaultOptions()
	if c := viper.GetInt("cpus"); c > 0 {
		opts.Cpus(c)
	}
	opts.OneAtom(viper.GetInt("max-neighbors"))
	opts.Logger(log)
	return opts
}

//load reads the parameters for the given elements and the library.
func load(elements []string) (*param.Set, *spline.Library, error) {
	recs, err := param.ReadFile(viper.GetString("ffield"), elements, log)
	if err != nil {
		return nil, nil, err
	}
	set, err := param.NewSet(elements, recs)
	if err != nil {
		return nil, nil, err
	}
	lib := spline.Default(0)
	if name := viper.GetString("library"); name != "" {
		lib, err = spline.ReadLibraryFile(name)
		if err != nil {
			return nil, nil, err
		}
	}
	return set, lib, nil
}

//parseFloats parses a comma separated list of n numbers.
func parseFloats(s string, n int) ([]float64, error) {
	fields := strings.Split(s, ",")
	if len(fields) != n {
		return nil, fmt.Errorf("%q: expected %d comma separated values", s, n)
	}
	ret := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		ret[i] = v
	}
	return ret, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if c := comb.ErrorClass(err); c != "" {
			log.WithField("class", c).Error(err)
		}
		os.Exit(1)
	}
}
