/*
 * options.go, part of gocomb.
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
	"runtime"

	"github.com/sirupsen/logrus"
)

//Options contains the tunable options of an Engine.
type Options struct {
	cpus     int
	pageSize int
	oneAtom  int
	maxPages int
	logger   *logrus.Logger
}

//DefaultOptions returns an Options with the default values.
func DefaultOptions() *Options {
	ret := new(Options)
	ret.cpus = runtime.NumCPU()
	ret.pageSize = 100000
	ret.oneAtom = 2000
	ret.maxPages = 10
	ret.logger = logrus.StandardLogger()
	return ret
}

//Cpus returns the number of goroutines used for the concurrent parts
//of a calculation, and sets it to the given value, if any.
func (O *Options) Cpus(cpus ...int) int {
	ret := O.cpus
	if len(cpus) > 0 {
		O.cpus = cpus[0]
	}
	return ret
}

//PageSize returns the number of entries in each page of the short neighbor
//arenas, and sets it, if a value is given.
func (O *Options) PageSize(size ...int) int {
	ret := O.pageSize
	if len(size) > 0 {
		O.pageSize = size[0]
	}
	return ret
}

//OneAtom returns the maximum number of short neighbors of one atom, and sets
//it, if a value is given.
func (O *Options) OneAtom(n ...int) int {
	ret := O.oneAtom
	if len(n) > 0 {
		O.oneAtom = n[0]
	}
	return ret
}

//MaxPages returns the maximum number of pages of each arena, and sets
//it, if a value is given.
func (O *Options) MaxPages(n ...int) int {
	ret := O.maxPages
	if len(n) > 0 {
		O.maxPages = n[0]
	}
	return ret
}

//Logger returns the logger used, and sets it, if one is given.
func (O *Options) Logger(l ...*logrus.Logger) *logrus.Logger {
	ret := O.logger
	if len(l) > 0 && l[0] != nil {
		O.logger = l[0]
	}
	return ret
}
