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

package param

import "fmt"

//Error classes
const (
	ClassConfig = "config"
	ClassParse  = "parse"
)

//Error is the error type for the param package.
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	line     int
	class    string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	if err.filename != "" {
		return fmt.Sprintf("parameter file %s line %d: %s", err.filename, err.line, err.message)
	}
	return fmt.Sprintf("parameter %s error: %s", err.class, err.message)
}

//Decorate adds new information to the error
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Critical returns true if the error is critical. All errors in this package are.
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

func newConfigError(caller, format string, a ...interface{}) Error {
	return Error{message: fmt.Sprintf(format, a...), class: ClassConfig, deco: []string{caller}, critical: true}
}

func newParseError(filename string, line int, format string, a ...interface{}) Error {
	return Error{message: fmt.Sprintf(format, a...), filename: filename, line: line, class: ClassParse, critical: true}
}

//errDecorate adds caller to the decoration of err, if err is an Error of this package.
func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		return err
	}
	err2.deco = append(err2.deco, caller)
	return err2
}
