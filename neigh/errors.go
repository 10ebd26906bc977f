/*
 * errors.go, part of gocomb.
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

package neigh

import "fmt"

//Error classes
const (
	ClassConfig   = "config"
	ClassOverflow = "overflow"
)

//Error is the error type for the neigh package.
type Error struct {
	message  string
	class    string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("neighbor %s error: %s", err.class, err.message)
}

//Decorate adds new information to the error
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Critical returns true if the error is critical.
func (err Error) Critical() bool {
	return err.critical
}

//Class returns the class of the error, either "config" or "overflow".
func (err Error) Class() string {
	return err.class
}

func overflowError(caller, format string, a ...interface{}) Error {
	return Error{message: fmt.Sprintf(format, a...), class: ClassOverflow, deco: []string{caller}, critical: true}
}

func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		return err
	}
	err2.deco = append(err2.deco, caller)
	return err2
}
