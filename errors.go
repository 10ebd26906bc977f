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

package comb

import (
	"errors"
	"fmt"
)

//Error classes. Every error returned by gocomb packages has one of these classes.
const (
	ClassConfig   = "config"   //a setup problem: missing or illegal parameters
	ClassParse    = "parse"    //a malformed input file
	ClassOverflow = "overflow" //a resource limit was exceeded
	ClassComm     = "comm"     //a failed collective operation
)

//Error is the error type for the comb package.
type Error struct {
	message  string
	class    string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("gocomb %s error: %s", err.class, err.message)
}

//Decorate adds new information to the error
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Critical returns true if the error is critical. All gocomb errors are.
func (err Error) Critical() bool {
	return err.critical
}

//Class returns the class of the error.
func (err Error) Class() string {
	return err.class
}

func configError(caller, format string, a ...interface{}) Error {
	return Error{message: fmt.Sprintf(format, a...), class: ClassConfig, deco: []string{caller}, critical: true}
}

//decorator is satisfied by the error types of every gocomb package.
type decorator interface {
	error
	Decorate(string) []string
}

//errDecorate adds caller to the decoration of err, if err supports it.
func errDecorate(err error, caller string) error {
	if e, ok := err.(Error); ok {
		e.deco = append(e.deco, caller)
		return e
	}
	if e, ok := err.(decorator); ok {
		e.Decorate(caller)
	}
	return err
}

//ErrorClass returns the class of err, or the empty string if err
//does not come from a gocomb package.
func ErrorClass(err error) string {
	var c interface{ Class() string }
	if errors.As(err, &c) {
		return c.Class()
	}
	return ""
}

//IsConfigError returns true if err signals an illegal or incomplete setup.
func IsConfigError(err error) bool {
	return ErrorClass(err) == ClassConfig
}

//IsParseError returns true if err signals a malformed input file.
func IsParseError(err error) bool {
	return ErrorClass(err) == ClassParse
}

//IsOverflow returns true if err signals that a resource limit, such as the
//size of the neighbor arenas, was exceeded.
func IsOverflow(err error) bool {
	return ErrorClass(err) == ClassOverflow
}

//PanicMsg is a message used for panics, even though it does satisfy the error interface.
//for errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrShape = PanicMsg("gocomb: inconsistent system dimensions")
	ErrMode  = PanicMsg("gocomb: the coordination can not be reverse-exchanged")
)
