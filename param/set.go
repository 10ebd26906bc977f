/*
 * set.go, part of gocomb.
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
	"fmt"
	"math"
	"strings"
)

//Set is the immutable-after-setup collection of parameter records for a list
//of active elements, together with the dense triplet index that maps every ordered
//element triplet to exactly one record.
type Set struct {
	elements []string
	records  []Record
	index    []int //ne*ne*ne, -1 for unset
	groups   []int
	shortcut float64
	longcut  float64
}

//NewSet derives every record and builds the triplet index for elements. Every ordered
//triplet of elements must be covered by exactly one record, otherwise a config error
//is returned. records is copied.
func NewSet(elements []string, records []Record) (*Set, error) {
	ne := len(elements)
	if ne == 0 {
		return nil, newConfigError("NewSet", "no active elements")
	}
	pos := make(map[string]int, ne)
	for i, e := range elements {
		if _, ok := pos[e]; ok {
			return nil, newConfigError("NewSet", "element %s given twice", e)
		}
		pos[e] = i
	}
	S := &Set{
		elements: append([]string(nil), elements...),
		records:  make([]Record, 0, len(records)),
		index:    make([]int, ne*ne*ne),
		groups:   make([]int, ne),
	}
	for i := range S.index {
		S.index[i] = -1
	}
	var dups []string
	for _, r := range records {
		var t [3]int
		active := true
		for l, e := range r.Elements {
			p, ok := pos[e]
			if !ok {
				active = false
				break
			}
			t[l] = p
		}
		if !active {
			continue
		}
		id := S.flat(t[0], t[1], t[2])
		if S.index[id] >= 0 {
			dups = append(dups, r.Name())
			continue
		}
		if err := r.Derive(); err != nil {
			return nil, errDecorate(err, "NewSet")
		}
		S.index[id] = len(S.records)
		S.records = append(S.records, r)
	}
	if len(dups) > 0 {
		return nil, newConfigError("NewSet", "duplicated parameter records: %s", strings.Join(dups, ", "))
	}
	var missing []string
	for i := 0; i < ne; i++ {
		for j := 0; j < ne; j++ {
			for k := 0; k < ne; k++ {
				if S.index[S.flat(i, j, k)] < 0 {
					missing = append(missing, fmt.Sprintf("%s-%s-%s", elements[i], elements[j], elements[k]))
				}
			}
		}
	}
	if len(missing) > 0 {
		return nil, newConfigError("NewSet", "missing parameter records: %s", strings.Join(missing, ", "))
	}
	maxsq := 0.0
	for i := range S.records {
		maxsq = math.Max(maxsq, S.records[i].CutSq)
		S.longcut = math.Max(S.longcut, S.records[i].LCut)
	}
	//the short list keeps a margin of 2 A^2 beyond the largest bond cutoff
	S.shortcut = math.Sqrt(maxsq + 2)
	for i := 0; i < ne; i++ {
		S.groups[i] = S.Self(i).Groups[0]
	}
	return S, nil
}

func (S *Set) flat(i, j, k int) int {
	ne := len(S.elements)
	return (i*ne+j)*ne + k
}

//Resolve returns the index of the record for the ordered triplet (i,j,k) of element indexes.
func (S *Set) Resolve(i, j, k int) (int, error) {
	ne := len(S.elements)
	if i < 0 || j < 0 || k < 0 || i >= ne || j >= ne || k >= ne {
		return -1, newConfigError("Resolve", "triplet (%d,%d,%d) out of range for %d elements", i, j, k, ne)
	}
	r := S.index[S.flat(i, j, k)]
	if r < 0 {
		return -1, newConfigError("Resolve", "no record for triplet (%d,%d,%d)", i, j, k)
	}
	return r, nil
}

//Record returns the record for the ordered triplet (i,j,k). The triplet must be valid,
//which NewSet guarantees for every index below NElements. The returned record must not be modified.
func (S *Set) Record(i, j, k int) *Record {
	return &S.records[S.index[S.flat(i, j, k)]]
}

//Pair returns the record holding the pair quantities for elements i and j, which
//is the (a,b,b) record with a the smaller and b the larger index.
func (S *Set) Pair(i, j int) *Record {
	if i > j {
		i, j = j, i
	}
	return S.Record(i, j, j)
}

//Self returns the record with the single-element quantities of element i.
func (S *Set) Self(i int) *Record {
	return S.Record(i, i, i)
}

//Records returns the number of indexed records.
func (S *Set) Records() int {
	return len(S.records)
}

//NElements returns the number of active elements.
func (S *Set) NElements() int {
	return len(S.elements)
}

//Element returns the symbol of the ith active element.
func (S *Set) Element(i int) string {
	return S.elements[i]
}

//Elements returns a copy of the active element list.
func (S *Set) Elements() []string {
	return append([]string(nil), S.elements...)
}

//ElementIndex returns the index of the element with the given symbol.
func (S *Set) ElementIndex(symbol string) (int, bool) {
	for i, e := range S.elements {
		if e == symbol {
			return i, true
		}
	}
	return -1, false
}

//Group returns the coordination group of element i.
func (S *Set) Group(i int) int {
	return S.groups[i]
}

//ShortCut returns the radius of the short neighbor lists, sqrt(max cut^2+2).
func (S *Set) ShortCut() float64 {
	return S.shortcut
}

//LongCut returns the largest long range cutoff among all records.
func (S *Set) LongCut() float64 {
	return S.longcut
}
