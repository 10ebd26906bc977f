/*
 * record.go, part of gocomb.
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

//Element groups. The coordination of an atom is binned by the group of its neighbors.
const (
	GroupNone     = 0
	GroupCarbon   = 1
	GroupHydrogen = 2
	GroupOxygen   = 3
)

//NGroups is the number of coordination bins.
const NGroups = 3

const (
	//NFields is the number of whitespace separated fields in one logical record.
	NFields = 74
	//NCoef is the number of numeric coefficients in one record.
	NCoef = 64
	//leading fields: 3 symbols, 3 groups, 4 flags
	nHead = 10
)

//Record contains the coefficients for one ordered element triplet.
//Which coefficients are used depends on the role of the record: self
//quantities are read from (i,i,i), pair quantities from (i,j,j) and
//angular quantities from (i,j,k).
type Record struct {
	Elements [3]string
	Groups   [3]int

	//model selectors
	AngFlag int //0: polynomial, 1: blend with the tabulated curve, 2: blend with the library polynomial
	PcnFlag int //0: closed form, m>0: coordination grid m-1
	RadFlag int //0: none, m>0: radical grid m-1
	TorFlag int //0: none, m>0: (1-cos^2) with torsion grid m-1, m<0: quadratic in cos

	VdwFlag  float64
	PowerM   float64
	VEps     float64
	VSig     float64
	Paaa     float64
	Pbbb     float64
	Lami     float64 //charge-radius coupling of the repulsion
	Alfi     float64 //charge-radius coupling of the attraction
	PowerN   float64
	QL       float64
	QU       float64
	DL       float64
	DU       float64
	QMin     float64
	QMax     float64
	Chi      float64
	DJ       float64
	DK       float64
	DLq      float64 //the q^4 coefficient, named to not clash with DL
	Esm      float64
	Cmn1     float64
	Cmn2     float64
	Pcmn1    float64
	Pcmn2    float64
	CoulCut  float64
	Polz     float64
	Curl     float64
	CurlCut1 float64
	CurlCut2 float64
	Curl0    float64
	Alpha    [3]float64
	BigB     [3]float64
	Lambda   float64
	BigA     float64
	Beta     float64
	BigR     float64
	BigD     float64
	PCos     [7]float64 //coefficient of c^n at index n
	Pcna     float64
	Pcnb     float64
	Pcnc     float64
	Pcnd     float64
	Plp      [6]float64 //Legendre coefficients of the lone pair term, P1..P6
	AddRep   float64
	Pbb1     float64
	Pbb2     float64
	PTorK1   float64
	PTorK2   float64
	PCross   float64

	//Derived quantities, filled by Derive
	Cut     float64
	CutSq   float64
	Inner   float64
	LCut    float64 //long range cutoff
	C1      float64
	C2      float64
	C3      float64
	C4      float64
	QMid    float64
	QHalf   float64
	AB      float64
	BB      float64
	ND      float64
	BD      float64
	Mpow    int //PowerM as an integer
	derived bool
}

//coefficients returns pointers to the 64 numeric coefficients in the order
//in which they appear in the parameter file.
func (R *Record) coefficients() []*float64 {
	c := []*float64{
		&R.VdwFlag, &R.PowerM, &R.VEps, &R.VSig, &R.Paaa, &R.Pbbb, &R.Lami, &R.Alfi,
		&R.PowerN, &R.QL, &R.QU, &R.DL, &R.DU, &R.QMin, &R.QMax, &R.Chi,
		&R.DJ, &R.DK, &R.DLq, &R.Esm, &R.Cmn1, &R.Cmn2, &R.Pcmn1, &R.Pcmn2,
		&R.CoulCut, &R.Polz, &R.Curl, &R.CurlCut1, &R.CurlCut2, &R.Curl0,
		&R.Alpha[0], &R.BigB[0], &R.Alpha[1], &R.BigB[1], &R.Alpha[2], &R.BigB[2],
		&R.Lambda, &R.BigA, &R.Beta, &R.BigR, &R.BigD,
	}
	//the file lists the angular coefficients from c^6 down to c^0
	for i := len(R.PCos) - 1; i >= 0; i-- {
		c = append(c, &R.PCos[i])
	}
	c = append(c, &R.Pcna, &R.Pcnb, &R.Pcnc, &R.Pcnd)
	for i := range R.Plp {
		c = append(c, &R.Plp[i])
	}
	c = append(c, &R.AddRep, &R.Pbb1, &R.Pbb2, &R.PTorK1, &R.PTorK2, &R.PCross)
	return c
}

//Coefficients returns a copy of the numeric coefficients of the record, in file order.
func (R *Record) Coefficients() []float64 {
	p := R.coefficients()
	ret := make([]float64, len(p))
	for i, v := range p {
		ret[i] = *v
	}
	return ret
}

//SetCoefficients sets the numeric coefficients of the record from c, which must
//contain NCoef values in file order. It resets the derived quantities.
func (R *Record) SetCoefficients(c []float64) error {
	p := R.coefficients()
	if len(c) != len(p) {
		return newParseError("", 0, "SetCoefficients: %d coefficients given, %d needed", len(c), len(p))
	}
	for i, v := range p {
		*v = c[i]
	}
	R.derived = false
	return nil
}

//Derived returns true if Derive has been successfully called on the record.
func (R *Record) Derived() bool {
	return R.derived
}

//Cutoff returns the cosine window of the record's bond cutoff, and its derivative, at r.
func (R *Record) Cutoff(r float64) (float64, float64) {
	return Cutoff(r, R.BigR-R.BigD, R.BigR+R.BigD)
}

//HasLonePair returns true if any of the lone pair Legendre coefficients is significant.
func (R *Record) HasLonePair() bool {
	for _, v := range R.Plp {
		if v > 1e-6 || v < -1e-6 {
			return true
		}
	}
	return false
}
