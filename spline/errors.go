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

package spline

import "fmt"

//Error classes
const (
	ClassConfig = "config"
	ClassParse  = "parse"
)

//Error is the error type for the spline package.
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	class    string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	if err.filename != "" {
		return fmt.Sprintf("library file %s error: %s", err.filename, err.message)
	}
	return fmt.Sprintf("library %s error: %s", err.class, err.message)
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

//Class returns the class of the error, either "config" or "parse".
func (err Error) Class() string {
	return err.class
}

//FileName returns the name of the offending file, if any.
func (err Error) FileName() string {
	return err.filename
}

func configError(caller, format string, a ...interface{}) Error {
	return Error{message: fmt.Sprintf(format, a...), class: ClassConfig, deco: []string{caller}, critical: true}
}

func parseError(filename, caller, format string, a ...interface{}) Error {
	return Error{message: fmt.Sprintf(format, a...), filename: filename, class: ClassParse, deco: []string{caller}, critical: true}
}

func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		return err
	}
	err2.deco = append(err2.deco, caller)
	return err2
}
