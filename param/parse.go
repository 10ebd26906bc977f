/*
 * parse.go, part of gocomb.
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

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
)

//zstdCloser lets a zstd decoder be used as an io.ReadCloser.
type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

//openCompressed opens name, decompressing it on the fly if the name ends in
//.zst or .gz. The returned function closes everything that was opened.
func openCompressed(name string) (io.Reader, func(), error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	lname := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lname, ".zst"):
		d, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		z := zstdCloser{d}
		return z, func() { z.Close(); f.Close() }, nil
	case strings.HasSuffix(lname, ".gz"):
		g, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		return g, func() { g.Close(); f.Close() }, nil
	}
	return f, func() { f.Close() }, nil
}

//ReadFile reads the parameter records for elements from the file name. Files
//ending in .zst or .gz are decompressed with zstd or gzip, respectively.
func ReadFile(name string, elements []string, logger *logrus.Logger) ([]Record, error) {
	r, closer, err := openCompressed(name)
	if err != nil {
		return nil, Error{message: err.Error(), filename: name, class: ClassParse, deco: []string{"ReadFile"}, critical: true}
	}
	defer closer()
	recs, err := parse(r, name, elements, logger)
	if err != nil {
		return nil, errDecorate(err, "ReadFile")
	}
	return recs, nil
}

//Parse reads parameter records from r. Each logical record contains exactly NFields
//whitespace-separated fields and can span several physical lines. Everything after
//a '#' in a line is ignored. Records whose three elements are not all present in
//elements are skipped. A nil logger means the logrus standard logger.
func Parse(r io.Reader, elements []string, logger *logrus.Logger) ([]Record, error) {
	return parse(r, "", elements, logger)
}

func parse(r io.Reader, filename string, elements []string, logger *logrus.Logger) ([]Record, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	active := make(map[string]bool, len(elements))
	for _, e := range elements {
		active[e] = true
	}
	var ret []Record
	fields := make([]string, 0, NFields)
	start := 0 //line where the current record starts
	lineno := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		for _, f := range strings.Fields(line) {
			if len(fields) == 0 {
				start = lineno
			}
			fields = append(fields, f)
			if len(fields) < NFields {
				continue
			}
			rec, err := parseRecord(fields, filename, start)
			if err != nil {
				return nil, err
			}
			fields = fields[:0]
			if !active[rec.Elements[0]] || !active[rec.Elements[1]] || !active[rec.Elements[2]] {
				logger.Debugf("param: skipping record %s (line %d), element not active", rec.Name(), start)
				continue
			}
			ret = append(ret, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, newParseError(filename, lineno, "read error: %s", err.Error())
	}
	if len(fields) != 0 {
		return nil, newParseError(filename, start, "end of input inside a record: %d of %d fields read", len(fields), NFields)
	}
	return ret, nil
}

func parseRecord(fields []string, filename string, line int) (Record, error) {
	var R Record
	copy(R.Elements[:], fields[:3])
	ints := make([]int, 7)
	for i := range ints {
		v, err := strconv.Atoi(fields[3+i])
		if err != nil {
			//flags are sometimes written as floats ("1.0"), which we accept if integral.
			f, ferr := strconv.ParseFloat(fields[3+i], 64)
			if ferr != nil || !isInteger(f) {
				return R, newParseError(filename, line, "field %d (%q) of record %s is not an integer", 4+i, fields[3+i], R.Name())
			}
			v = int(f)
		}
		ints[i] = v
	}
	copy(R.Groups[:], ints[:3])
	R.AngFlag, R.PcnFlag, R.RadFlag, R.TorFlag = ints[3], ints[4], ints[5], ints[6]
	coef := R.coefficients()
	for i, p := range coef {
		tok := fields[nHead+i]
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return R, newParseError(filename, line, "field %d (%q) of record %s is not a number", nHead+i+1, tok, R.Name())
		}
		*p = v
	}
	return R, nil
}

//Format returns the record in the parameter file format, one line with
//NFields fields.
func (R *Record) Format() string {
	b := make([]string, 0, NFields)
	b = append(b, R.Elements[:]...)
	for _, g := range R.Groups {
		b = append(b, strconv.Itoa(g))
	}
	for _, f := range []int{R.AngFlag, R.PcnFlag, R.RadFlag, R.TorFlag} {
		b = append(b, strconv.Itoa(f))
	}
	for _, c := range R.Coefficients() {
		b = append(b, strconv.FormatFloat(c, 'g', -1, 64))
	}
	return strings.Join(b, " ")
}
