/*
 * arena.go, part of gocomb.
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

//Neighbor is one entry of a short neighbor list.
type Neighbor struct {
	J   int        //index of the neighbor
	R   float64    //distance
	Fc  float64    //bond cutoff function at R
	DFc float64    //its derivative
	D   [3]float64 //x_J - x_i
}

//Arena is a bump allocator for short neighbor lists. It hands out slices from
//pages of PageSize entries. A list can have at most OneAtom entries, and at most
//MaxPages pages are allocated. An Arena must not be used concurrently. Lists
//obtained from an arena are valid until the next Reset.
type Arena struct {
	pageSize int
	oneAtom  int
	maxPages int
	pages    [][]Neighbor
	page     int //current page
	used     int //entries used in the current page
	entries  int //total entries handed out since the last Reset
}

//NewArena returns an arena with the given limits. oneAtom must not be larger than pageSize.
func NewArena(pageSize, oneAtom, maxPages int) (*Arena, error) {
	if pageSize <= 0 || oneAtom <= 0 || maxPages <= 0 || oneAtom > pageSize {
		return nil, Error{message: "invalid arena sizes", class: ClassConfig, deco: []string{"NewArena"}, critical: true}
	}
	return &Arena{pageSize: pageSize, oneAtom: oneAtom, maxPages: maxPages}, nil
}

//Reset makes every entry available again. Pages are kept.
func (A *Arena) Reset() {
	A.page = 0
	A.used = 0
	A.entries = 0
}

//Reserve returns a buffer of OneAtom entries into which a neighbor list can be
//written, to be followed by a call to Commit. It returns an overflow error if no
//page with enough room can be allocated.
func (A *Arena) Reserve() ([]Neighbor, error) {
	if len(A.pages) == 0 {
		A.pages = append(A.pages, make([]Neighbor, A.pageSize))
	}
	if A.pageSize-A.used < A.oneAtom {
		if A.page+1 >= A.maxPages {
			return nil, overflowError("Reserve", "arena exhausted: %d pages of %d entries in use, increase the page size or the number of pages", A.maxPages, A.pageSize)
		}
		A.page++
		A.used = 0
		if A.page == len(A.pages) {
			A.pages = append(A.pages, make([]Neighbor, A.pageSize))
		}
	}
	return A.pages[A.page][A.used : A.used+A.oneAtom], nil
}

//Commit keeps the first n entries of the last reserved buffer and returns them.
func (A *Arena) Commit(n int) ([]Neighbor, error) {
	if n > A.oneAtom {
		return nil, overflowError("Commit", "%d neighbors for one atom, at most %d allowed", n, A.oneAtom)
	}
	l := A.pages[A.page][A.used : A.used+n : A.used+n]
	A.used += n
	A.entries += n
	return l, nil
}

//Entries returns the number of entries committed since the last Reset.
func (A *Arena) Entries() int {
	return A.entries
}

//Pages returns the number of pages allocated.
func (A *Arena) Pages() int {
	return len(A.pages)
}
