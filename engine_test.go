/*
 * engine_test.go, part of gocomb.
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
	"context"
	"io"
	"math"
	"testing"

	"github.com/rmera/gocomb/comm"
	"github.com/rmera/gocomb/param"
	"github.com/rmera/gocomb/spline"
	"github.com/rmera/gocomb/table"
	v3 "github.com/rmera/gocomb/v3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

var carbonOxygen = []string{"C", "O"}

//testSet reads the test parameters for elements, applying edit, if not nil, to
//every record.
func testSet(Te *testing.T, elements []string, edit func(*param.Record)) *param.Set {
	recs, err := param.ReadFile(testFfield, elements, nil)
	require.NoError(Te, err)
	if edit != nil {
		for i := range recs {
			edit(&recs[i])
		}
	}
	set, err := param.NewSet(elements, recs)
	require.NoError(Te, err)
	return set
}

func testEngine(Te *testing.T, set *param.Set, lib *spline.Library, opts *Options) *Engine {
	if opts == nil {
		opts = DefaultOptions()
	}
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	opts.Logger(quiet)
	opts.Cpus(3)
	ex, err := comm.NewSerial(0, nil)
	require.NoError(Te, err)
	E, err := NewEngine(set, lib, ex, ex, opts)
	require.NoError(Te, err)
	return E
}

//testLibrary has one smooth grid of each family, coordination windows that
//are crossed by the test clusters and a non-zero angular polynomial.
func testLibrary(Te *testing.T) *spline.Library {
	L := spline.Default(0)
	L.CCutoff = [6]float64{3, 4, 0.3, 1.8, 1, 2.5}
	L.ChA = [7]float64{0.1, 0.2, -0.1, 0.05}
	L.CoordMax = [3]int{3, 3, 3}
	L.ConjMax = [3]int{3, 3, 4}
	c, err := spline.Sample([3]int{4, 4, 4}, [3]int{}, func(x, y, z float64) (float64, [3]float64) {
		return 0.05*x - 0.03*y + 0.02*z + 0.01*x*y, [3]float64{0.05 + 0.01*y, -0.03 + 0.01*x, 0.02}
	})
	require.NoError(Te, err)
	r, err := spline.Sample([3]int{4, 4, 4}, [3]int{0, 0, 1}, func(x, y, z float64) (float64, [3]float64) {
		return 0.04*x - 0.02*y + 0.015*z + 0.01*x*z, [3]float64{0.04 + 0.01*z, -0.02, 0.015 + 0.01*x}
	})
	require.NoError(Te, err)
	t, err := spline.Sample([3]int{4, 4, 4}, [3]int{0, 0, 1}, func(x, y, z float64) (float64, [3]float64) {
		return 0.6 + 0.1*x - 0.05*y + 0.02*z, [3]float64{0.1, -0.05, 0.02}
	})
	require.NoError(Te, err)
	L.Coord = []*spline.Grid{c}
	L.Extrap = []spline.Extrapolation{{MaxXcn: 8, V: 0.1, DV: -0.02}}
	L.Radical = []*spline.Grid{r}
	L.Torsion = []*spline.Grid{t}
	require.NoError(Te, L.Validate())
	return L
}

//full switches on every bond-order correction and the bond bending of carbon.
func full(r *param.Record) {
	r.AngFlag = 2
	r.PcnFlag = 1
	r.RadFlag = 1
	r.TorFlag = 1
	if r.Elements[0] == "C" {
		r.Pbb1 = -0.2
		r.Pbb2 = 0.03
	}
}

func geometry(symbols []string, coords []float64, charges []float64) *Geometry {
	c, err := v3.NewMatrix(coords)
	if err != nil {
		panic(err)
	}
	if charges == nil {
		charges = make([]float64, len(symbols))
	}
	return &Geometry{Symbols: symbols, Coords: c, Charges: charges}
}

//run computes the energy and forces of g with a fresh system.
func run(Te *testing.T, E *Engine, g *Geometry, box *[3]float64) (*Result, *System) {
	sys, ex, err := NewSystem(g, E.Set(), box)
	require.NoError(Te, err)
	E.SetExchanger(ex)
	R, err := E.Compute(context.Background(), sys)
	require.NoError(Te, err)
	return R, sys
}

//prepared builds the lists and the bond cache of g, leaving the gradient at zero.
func prepared(Te *testing.T, E *Engine, g *Geometry) *System {
	sys, ex, err := NewSystem(g, E.Set(), nil)
	require.NoError(Te, err)
	E.SetExchanger(ex)
	require.NoError(Te, E.prepare(context.Background(), sys))
	return sys
}

//cluster has carbon-carbon and carbon-oxygen bonds inside the cutoff windows,
//an oxygen with two neighbors, dihedrals around the central bond and a carbon
//chain long enough for the conjugation windows.
func cluster() *Geometry {
	return geometry([]string{"C", "C", "O", "C", "O", "C", "O"}, []float64{
		0, 0, 0,
		1.45, 0.1, 0.05,
		-0.6, 1.15, 0.2,
		2.2923, 1.7845, -0.4554,
		1.9196, -1.4652, 0.6761,
		4.1923, 2.0845, -0.2554,
		1.5196, -2.7652, 0.0761,
	}, []float64{0.2, -0.1, -0.3, 0.1, 0.1, 0.05, -0.05})
}

//checkForces compares the forces of g with the numerical gradient of the energy.
func checkForces(Te *testing.T, E *Engine, g *Geometry, abs, rel float64) *Result {
	R, _ := run(Te, E, g, nil)
	var total [3]float64
	for i := 0; i < R.Forces.NVecs(); i++ {
		total = v3.Add(total, R.Forces.Vec(i))
	}
	assert.InDelta(Te, 0, v3.Norm(total), 1e-9, "net force %v", total)
	assert.InDelta(Te, R.Energy, floats.Sum(R.PerAtom), 1e-9)
	x0 := append([]float64(nil), g.Coords.Raw()...)
	f := func(x []float64) float64 {
		c, err := v3.NewMatrix(append([]float64(nil), x...))
		require.NoError(Te, err)
		R, _ := run(Te, E, &Geometry{Symbols: g.Symbols, Coords: c, Charges: g.Charges}, nil)
		return R.Energy
	}
	grad := fd.Gradient(nil, f, x0, &fd.Settings{Formula: fd.Central, Step: 1e-5})
	forces := R.Forces.Raw()
	for k := range grad {
		assert.True(Te, scalar.EqualWithinAbsOrRel(-grad[k], forces[k], abs, rel), "atom %d axis %d: force %g, numeric %g", k/3, k%3, forces[k], -grad[k])
	}
	return R
}

func TestDimer(Te *testing.T) {
	set := testSet(Te, carbonOxygen, nil)
	E := testEngine(Te, set, nil, nil)
	p := set.Pair(0, 0)
	r := 0.9 * p.Cut
	R, _ := run(Te, E, geometry([]string{"C", "C"}, []float64{0, 0, 0, r, 0, 0}, nil), nil)
	fc, _ := p.Cutoff(r)
	D, _ := p.Radius(0)
	B, _ := p.BondStrength(0)
	//lone bond: zeta=0 and P is the analytic correction at zero coordination
	P := p.Pcnb + p.Pcnd
	b, _ := transform(P, p)
	assert.InDelta(Te, math.Pow(1+P, -0.5/p.PowerN), b, 1e-14)
	rep := fc * p.BigA * math.Exp(p.Lami*D-p.Lambda*r)
	sum := 0.0
	for m := range p.BigB {
		sum += p.BigB[m] * math.Exp(-p.Alpha[m]*r)
	}
	att := -fc * b * sum * B * math.Exp(p.Alfi*D)
	assert.InDelta(Te, rep, R.Components.Repulsive, 1e-10)
	assert.InDelta(Te, att, R.Components.Attractive, 1e-10)
	assert.Equal(Te, 0.0, R.Components.LonePair)
	assert.InDelta(Te, 0, R.Components.Coulomb, 1e-12)
	assert.InDelta(Te, R.Energy, floats.Sum(R.PerAtom), 1e-10)

	f0, f1 := R.Forces.Vec(0), R.Forces.Vec(1)
	assert.InDelta(Te, 0, v3.Norm(v3.Add(f0, f1)), 1e-10)
	assert.InDelta(Te, 0, f1[1], 1e-12)
}

//A two-body sweep through the bond cutoff: equal and opposite forces that
//match the slope of the energy, and a bond energy that goes to zero at the cutoff.
func TestPairSweep(Te *testing.T) {
	set := testSet(Te, carbonOxygen, nil)
	E := testEngine(Te, set, nil, nil)
	cut := set.Pair(0, 1).Cut
	charges := []float64{0.2, -0.2}
	energy := func(r float64) *Result {
		R, _ := run(Te, E, geometry(carbonOxygen, []float64{0, 0, 0, r, 0, 0}, charges), nil)
		return R
	}
	for k := 0; k <= 20; k++ {
		r := cut * (0.5 + 0.05*float64(k) + 0.001)
		R := energy(r)
		f0, f1 := R.Forces.Vec(0), R.Forces.Vec(1)
		assert.InDelta(Te, 0, v3.Norm(v3.Add(f0, f1)), 1e-10, "r=%g", r)
		num := fd.Derivative(func(x float64) float64 { return energy(x).Energy }, r, &fd.Settings{Formula: fd.Central, Step: 1e-5})
		assert.True(Te, scalar.EqualWithinAbsOrRel(-num, f1[0], 1e-4, 1e-5), "r=%g: force %g, numeric %g", r, f1[0], -num)
		if r > cut {
			C := R.Components
			assert.Equal(Te, [3]float64{}, [3]float64{C.Repulsive, C.Attractive, C.LonePair}, "r=%g", r)
		}
	}
	lo, hi := energy(cut-1e-7), energy(cut+1e-7)
	assert.InDelta(Te, lo.Energy, hi.Energy, 1e-6)
	assert.InDelta(Te, 0, lo.Components.Repulsive+lo.Components.Attractive, 1e-6)
}

func TestVdw(Te *testing.T) {
	set := testSet(Te, carbonOxygen, nil)
	E := testEngine(Te, set, nil, nil)
	p := set.Pair(0, 0)
	require.Equal(Te, 1.0, p.VdwFlag)
	V, err := table.NewVdw(p.VEps, p.VSig, p.BigR+p.BigD, set.LongCut())
	require.NoError(Te, err)
	for _, r := range []float64{2.5, 3.0, 3.5, 5.0} {
		R, _ := run(Te, E, geometry([]string{"C", "C"}, []float64{0, 0, 0, r, 0, 0}, nil), nil)
		v, dv, _ := V.Eval(r)
		assert.InDelta(Te, v, R.Components.Vdw, 1e-8, "r=%g", r)
		assert.InDelta(Te, R.Components.Vdw, R.Energy, 1e-12, "r=%g", r)
		assert.InDelta(Te, -dv, R.Forces.Vec(1)[0], 1e-7, "r=%g", r)
	}
}

func TestCoulomb(Te *testing.T) {
	set := testSet(Te, carbonOxygen, nil)
	E := testEngine(Te, set, nil, nil)
	q := []float64{0.3, -0.2}
	r := 3.0
	R, _ := run(Te, E, geometry(carbonOxygen, []float64{0, 0, 0, 0, r, 0}, q), nil)
	pc, po := set.Pair(0, 1), set.Pair(1, 0)
	J, _, _ := table.Coulomb(table.DampingAlpha, pc.Esm, po.Esm, set.LongCut(), r)
	assert.InDelta(Te, q[0]*q[1]*table.CoulombConstant*J, R.Components.Coulomb, 1e-7)
	f3, _, f5, _ := table.Field(pc.Pcmn1, pc.Pcmn2, pc.LCut, r)
	field := q[1]*(pc.Cmn1*f3+q[1]*pc.Cmn2*f5) + q[0]*(po.Cmn1*f3+q[0]*po.Cmn2*f5)
	assert.InDelta(Te, field, R.Components.Field, 1e-12)
	self := 0.0
	for i, qi := range q {
		s := set.Self(i)
		self += qi * (s.Chi + qi*(s.DJ+qi*(s.DK+qi*s.DLq)))
	}
	assert.InDelta(Te, self, R.Components.Self, 1e-12)
	assert.InDelta(Te, R.Components.Self+R.Components.Coulomb+R.Components.Field+R.Components.Vdw, R.Energy, 1e-12)
	//the charge penalty beyond qmax
	s := set.Self(0)
	R, _ = run(Te, E, geometry(carbonOxygen, []float64{0, 0, 0, 0, 5, 0}, []float64{s.QMax + 0.5, 0}), nil)
	qc := s.QMax + 0.5
	assert.InDelta(Te, qc*(s.Chi+qc*(s.DJ+qc*(s.DK+qc*s.DLq)))+chargePenalty*math.Pow(0.5, 4), R.Components.Self, 1e-9)
}

//The decay of zeta is scaled by beta, independently of the charge factor lami.
func TestZetaTriangle(Te *testing.T) {
	set := testSet(Te, []string{"C"}, func(r *param.Record) {
		r.Lami = 0
		r.Beta = 3
	})
	E := testEngine(Te, set, nil, nil)
	theta := 70 * math.Pi / 180
	prepared(Te, E, geometry([]string{"C", "C", "C"}, []float64{
		0, 0, 0,
		1.5, 0, 0,
		1.2 * math.Cos(theta), 1.2 * math.Sin(theta), 0,
	}, nil))
	rec := set.Record(0, 0, 0)
	require.Equal(Te, 1, rec.Mpow)
	g, _ := poly6(&rec.PCos, math.Cos(theta))
	zeta := rec.PCross * g * math.Exp(3*0.3)
	slot := E.scr.offsets[0] + E.slotOf(0, 1)
	assert.InDelta(Te, zeta, E.scr.zeta[slot], 1e-12)
	x := 1.0
	P := rec.Pcna*x + rec.Pcnb*math.Exp(rec.Pcnc*x) + rec.Pcnd
	assert.InDelta(Te, P, E.scr.pcor[slot], 1e-12)
	b, _ := transform(zeta+P, rec)
	assert.InDelta(Te, b, E.scr.bo[slot], 1e-14)
}

func TestForces(Te *testing.T) {
	set := testSet(Te, carbonOxygen, full)
	E := testEngine(Te, set, testLibrary(Te), nil)
	R := checkForces(Te, E, cluster(), 1e-4, 1e-5)
	assert.NotZero(Te, R.Components.Attractive)
	assert.NotZero(Te, R.Components.Coulomb)
	assert.NotZero(Te, R.Components.LonePair)
	//the radical and torsion terms are on
	sys := prepared(Te, E, cluster())
	require.NotNil(Te, sys)
	assert.NotZero(Te, E.conjugation(1, E.slotOf(1, 0)))
	assert.NotZero(Te, E.torsion(0, E.slotOf(0, 1), 1, E.slotOf(1, 0), set.Pair(0, 0), 0))
}

func TestTorsionForces(Te *testing.T) {
	for _, flag := range []int{1, -1} {
		set := testSet(Te, carbonOxygen, func(r *param.Record) { r.TorFlag = flag })
		E := testEngine(Te, set, spline.Default(2), nil)
		g := cluster()
		p := set.Pair(0, 0)
		S := func(x []float64) float64 {
			c, _ := v3.NewMatrix(append([]float64(nil), x...))
			prepared(Te, E, &Geometry{Symbols: g.Symbols, Coords: c, Charges: g.Charges})
			return E.torsion(0, E.slotOf(0, 1), 1, E.slotOf(1, 0), p, 0)
		}
		x0 := append([]float64(nil), g.Coords.Raw()...)
		assert.NotZero(Te, S(x0))
		prepared(Te, E, g)
		E.torsion(0, E.slotOf(0, 1), 1, E.slotOf(1, 0), p, 1)
		analytic := append([]float64(nil), E.scr.grad...)
		num := fd.Gradient(nil, S, x0, &fd.Settings{Formula: fd.Central, Step: 1e-6})
		for k := range num {
			assert.InDelta(Te, num[k], analytic[k], 1e-6, "flag %d atom %d axis %d", flag, k/3, k%3)
		}
		checkForces(Te, E, g, 1e-4, 1e-5)
	}
}

func TestConjugationForces(Te *testing.T) {
	set := testSet(Te, carbonOxygen, full)
	E := testEngine(Te, set, testLibrary(Te), nil)
	g := cluster()
	K := func(x []float64) float64 {
		c, _ := v3.NewMatrix(append([]float64(nil), x...))
		prepared(Te, E, &Geometry{Symbols: g.Symbols, Coords: c, Charges: g.Charges})
		return E.conjugation(1, E.slotOf(1, 0))
	}
	x0 := append([]float64(nil), g.Coords.Raw()...)
	k0 := K(x0)
	//C3 is the only other carbon of C1, partly switched off by C5
	assert.Greater(Te, k0, 0.0)
	assert.Less(Te, k0, 1.0)
	prepared(Te, E, g)
	E.conjugationForces(1, E.slotOf(1, 0), 1)
	analytic := append([]float64(nil), E.scr.grad...)
	assert.NotZero(Te, v3.Norm([3]float64{analytic[15], analytic[16], analytic[17]}), "second neighbor C5")
	num := fd.Gradient(nil, K, x0, &fd.Settings{Formula: fd.Central, Step: 1e-6})
	for k := range num {
		assert.InDelta(Te, num[k], analytic[k], 1e-6, "atom %d axis %d", k/3, k%3)
	}
}

func TestCoordinationExtrapolation(Te *testing.T) {
	set := testSet(Te, []string{"C"}, func(r *param.Record) { r.PcnFlag = 1 })
	lib := spline.Default(1)
	lib.Extrap[0] = spline.Extrapolation{MaxXcn: 0.5, V: 0.2, DV: -0.1}
	E := testEngine(Te, set, lib, nil)
	//four neighbors inside the cutoff window of the central atom
	d := []float64{1.9, 1.95, 2.0, 1.92}
	dirs := [][3]float64{{1, 1, 1}, {1, -1, -1}, {-1, 1, -1}, {-1, -1, 1}}
	coords := []float64{0, 0, 0}
	for k, u := range dirs {
		x := v3.Scale(d[k]/math.Sqrt(3), u)
		coords = append(coords, x[:]...)
	}
	g := geometry([]string{"C", "C", "C", "C", "C"}, coords, nil)
	prepared(Te, E, g)
	N, _ := E.nb.Coordination(0)
	for m, n := range E.nb.Short(0) {
		slot := E.scr.offsets[0] + m
		x := N - n.Fc
		require.Greater(Te, x, 1.0, "the carbon bin is clamped")
		assert.InDelta(Te, 0.2+(x-0.5)*(-0.1), E.scr.pcor[slot], 1e-14)
		assert.Equal(Te, -0.1, E.scr.dpdn[slot])
		assert.Equal(Te, [3]float64{}, E.scr.dpdx[slot])
	}
	checkForces(Te, E, g, 1e-4, 1e-5)

	//below the largest tabulated total, the (flat) grid is used
	lib = spline.Default(1)
	lib.Extrap[0] = spline.Extrapolation{MaxXcn: 10, V: 0.2, DV: -0.1}
	E = testEngine(Te, set, lib, nil)
	prepared(Te, E, g)
	for m := range E.nb.Short(0) {
		slot := E.scr.offsets[0] + m
		assert.Equal(Te, 0.0, E.scr.pcor[slot])
		assert.Equal(Te, 0.0, E.scr.dpdn[slot])
	}
}

//Hydrogen curl moves toward curl0 with the oxygen coordination of the hydrogen.
func TestCurl(Te *testing.T) {
	set := testSet(Te, []string{"H", "O"}, nil)
	E := testEngine(Te, set, nil, nil)
	theta := 104 * math.Pi / 180
	g := geometry([]string{"O", "H", "H"}, []float64{
		0, 0, 0,
		1.25, 0, 0,
		1.3 * math.Cos(theta), 1.3 * math.Sin(theta), 0,
	}, []float64{-0.4, 0.2, 0.2})
	prepared(Te, E, g)
	p := set.Pair(0, 1)
	require.Equal(Te, param.GroupHydrogen, p.Groups[0])
	c, dc := E.curl(1, p)
	assert.Greater(Te, c, p.Curl0)
	assert.Less(Te, c, p.Curl)
	assert.NotZero(Te, dc)
	checkForces(Te, E, g, 1e-4, 1e-5)
	checkChargeDerivative(Te, E, g)
}

//checkChargeDerivative compares the charge derivative of g with the numerical one.
func checkChargeDerivative(Te *testing.T, E *Engine, g *Geometry) []float64 {
	sys, ex, err := NewSystem(g, E.Set(), nil)
	require.NoError(Te, err)
	E.SetExchanger(ex)
	sum, dq, err := E.ChargeDerivative(context.Background(), sys)
	require.NoError(Te, err)
	require.Len(Te, dq, len(g.Symbols))
	assert.InDelta(Te, floats.Sum(dq), sum, 1e-10)
	q0 := append([]float64(nil), g.Charges...)
	f := func(q []float64) float64 {
		R, _ := run(Te, E, &Geometry{Symbols: g.Symbols, Coords: g.Coords, Charges: q}, nil)
		return R.Energy
	}
	num := fd.Gradient(nil, f, q0, &fd.Settings{Formula: fd.Central, Step: 1e-5})
	for i := range num {
		assert.True(Te, scalar.EqualWithinAbsOrRel(num[i], dq[i], 1e-5, 1e-6), "atom %d: dE/dq %g, numeric %g", i, dq[i], num[i])
	}
	return dq
}

func TestChargeDerivative(Te *testing.T) {
	set := testSet(Te, carbonOxygen, full)
	E := testEngine(Te, set, testLibrary(Te), nil)
	g := cluster()
	dq := checkChargeDerivative(Te, E, g)
	//the mask selects the atoms in the sum
	sys, ex, err := NewSystem(g, set, nil)
	require.NoError(Te, err)
	E.SetExchanger(ex)
	sys.GroupMask = []bool{true, false, true, false, false, false, false}
	sum, _, err := E.ChargeDerivative(context.Background(), sys)
	require.NoError(Te, err)
	assert.InDelta(Te, dq[0]+dq[2], sum, 1e-10)
}

//Outside the charge window the short range radius and bond strength are held,
//so the bond terms add nothing to the charge derivative of that atom.
func TestChargeDerivativeWindow(Te *testing.T) {
	set := testSet(Te, []string{"C"}, nil)
	E := testEngine(Te, set, nil, nil)
	q := set.Self(0).QU + param.ChargePad + 0.1
	g := geometry([]string{"C", "C"}, []float64{0, 0, 0, 1.4, 0, 0}, []float64{q, 0})
	sys, ex, err := NewSystem(g, set, nil)
	require.NoError(Te, err)
	E.SetExchanger(ex)
	_, dq, err := E.ChargeDerivative(context.Background(), sys)
	require.NoError(Te, err)
	//the self and long range parts alone
	require.NoError(Te, E.prepare(context.Background(), sys))
	var c Components
	E.selfEnergy(0)
	E.selfEnergy(1)
	E.longRange(0, false, &c)
	E.longRange(1, false, &c)
	assert.InDelta(Te, E.scr.qforce[0], dq[0], 1e-10)
	assert.NotZero(Te, dq[1]-E.scr.qforce[1], "the other end is inside its window")
}

func TestChargeDerivativeBalance(Te *testing.T) {
	set := testSet(Te, carbonOxygen, func(r *param.Record) {
		r.Chi = 0
		r.DL = 0
		r.DU = 0
		r.Cmn1 = 0
		r.Cmn2 = 0
		r.Polz = 0
	})
	E := testEngine(Te, set, nil, nil)
	g := geometry([]string{"C", "C"}, []float64{0, 0, 0, 0.3, 1.2, -0.5}, []float64{0.3, -0.3})
	sys, ex, err := NewSystem(g, set, nil)
	require.NoError(Te, err)
	E.SetExchanger(ex)
	sum, dq, err := E.ChargeDerivative(context.Background(), sys)
	require.NoError(Te, err)
	assert.InDelta(Te, 0, sum, 1e-10)
	assert.NotZero(Te, dq[0])
}

func TestPeriodic(Te *testing.T) {
	set := testSet(Te, carbonOxygen, full)
	E := testEngine(Te, set, testLibrary(Te), nil)
	box := [3]float64{11.5, 11.5, 11.5}
	coords := []float64{
		0.6, 5, 5,
		10.8, 5.1, 5.05,
		1.5, 6.1, 5.3,
		6, 2, 9,
	}
	symbols := []string{"C", "C", "O", "O"}
	charges := []float64{0.1, 0.1, -0.3, 0.1}
	R, sys := run(Te, E, geometry(symbols, coords, charges), &box)
	assert.Greater(Te, sys.Len(), sys.NLocal)
	assert.NotZero(Te, R.Components.Attractive, "bond across the boundary")
	assert.InDelta(Te, R.Energy, floats.Sum(R.PerAtom), 1e-9)
	var total [3]float64
	for i := 0; i < R.Forces.NVecs(); i++ {
		total = v3.Add(total, R.Forces.Vec(i))
	}
	assert.InDelta(Te, 0, v3.Norm(total), 1e-9, "net force %v", total)

	shift := [3]float64{3, -2, 4.5}
	moved := make([]float64, len(coords))
	for i := range coords {
		moved[i] = coords[i] + shift[i%3]
	}
	R2, _ := run(Te, E, geometry(symbols, moved, charges), &box)
	assert.InDelta(Te, R.Energy, R2.Energy, 1e-8)
	for i := 0; i < R.Forces.NVecs(); i++ {
		assert.InDelta(Te, 0, v3.Norm(v3.Sub(R.Forces.Vec(i), R2.Forces.Vec(i))), 1e-7)
	}
	assert.InDelta(Te, math.Max(set.LongCut()+set.ShortCut(), 3*set.ShortCut()), GhostCut(set), 1e-15)
}

func TestDipoles(Te *testing.T) {
	set := testSet(Te, carbonOxygen, func(r *param.Record) {
		r.Polz = 0.5
	})
	E := testEngine(Te, set, nil, nil)
	g := geometry(carbonOxygen, []float64{0, 0, 0, 1.3, 0, 0}, []float64{0.4, -0.4})
	sys, ex, err := NewSystem(g, set, nil)
	require.NoError(Te, err)
	E.SetExchanger(ex)
	sys.Forces = v3.Zeros(2)
	R, err := E.Compute(context.Background(), sys)
	require.NoError(Te, err)
	m0, m1 := R.Dipoles.Vec(0), R.Dipoles.Vec(1)
	//both dipoles point from the positive to the negative charge
	assert.Greater(Te, m0[0], 0.0)
	assert.Greater(Te, m1[0], 0.0)
	assert.InDelta(Te, 0, m0[1], 1e-12)
	assert.InDelta(Te, 0, m1[2], 1e-12)
	assert.NotZero(Te, R.Components.Polarization)
	assert.Equal(Te, m0, sys.Dipoles.Vec(0))
	assert.Equal(Te, R.Forces.Vec(1), sys.Forces.Vec(1))
	assert.InDelta(Te, 0, v3.Norm(v3.Add(R.Forces.Vec(0), R.Forces.Vec(1))), 1e-9)
	//the previous dipoles enter the next estimate
	R2, err := E.Compute(context.Background(), sys)
	require.NoError(Te, err)
	assert.NotEqual(Te, m0, R2.Dipoles.Vec(0))
}

//At fixed dipoles, the pair gradient and charge derivatives of the dipole
//energy match the numerical ones.
func TestDipolePair(Te *testing.T) {
	set := testSet(Te, carbonOxygen, func(r *param.Record) {
		r.Polz = 0.5
	})
	E := testEngine(Te, set, nil, nil)
	mu := [][3]float64{{0.1, -0.05, 0.02}, {-0.03, 0.08, 0.04}}
	charges := []float64{0.3, -0.25}
	x0 := []float64{0, 0, 0, 1.7, 0.4, -0.3}
	pair := func(x, q []float64, forces bool) float64 {
		g := geometry(carbonOxygen, append([]float64(nil), x...), append([]float64(nil), q...))
		prepared(Te, E, g)
		for i, m := range mu {
			copy(E.scr.dipole[3*i:3*i+3], m[:])
		}
		d, r, ok := E.within(0, 1)
		require.True(Te, ok)
		return E.dipolePair(0, 1, d, r, forces)
	}
	pair(x0, charges, true)
	grad := append([]float64(nil), E.scr.grad...)
	dq := append([]float64(nil), E.scr.qforce...)
	num := fd.Gradient(nil, func(x []float64) float64 { return pair(x, charges, false) }, x0, &fd.Settings{Formula: fd.Central, Step: 1e-6})
	for k := range num {
		assert.InDelta(Te, num[k], grad[k], 1e-7, "atom %d axis %d", k/3, k%3)
	}
	numq := fd.Gradient(nil, func(q []float64) float64 { return pair(x0, q, false) }, charges, nil)
	for i := range numq {
		assert.InDelta(Te, numq[i], dq[i], 1e-8, "atom %d", i)
	}
}

func TestEngineErrors(Te *testing.T) {
	ex, _ := comm.NewSerial(0, nil)
	set := testSet(Te, carbonOxygen, func(r *param.Record) { r.PcnFlag = 1 })
	_, err := NewEngine(set, nil, ex, ex, nil)
	assert.True(Te, IsConfigError(err), "missing coordination grid: %v", err)
	_, err = NewEngine(set, spline.Default(4), ex, ex, nil)
	assert.NoError(Te, err)
	for _, edit := range []func(*param.Record){
		func(r *param.Record) { r.PcnFlag = 2 },
		func(r *param.Record) { r.RadFlag = 2 },
		func(r *param.Record) { r.TorFlag = 2 },
		func(r *param.Record) { r.AngFlag = 1 },
	} {
		_, err = NewEngine(testSet(Te, carbonOxygen, edit), spline.Default(4), ex, ex, nil)
		assert.True(Te, IsConfigError(err), "missing model: %v", err)
	}
	//negative torsion models need no grid
	_, err = NewEngine(testSet(Te, carbonOxygen, func(r *param.Record) { r.TorFlag = -1 }), nil, ex, ex, nil)
	assert.NoError(Te, err)

	opts := DefaultOptions()
	opts.OneAtom(1)
	E := testEngine(Te, testSet(Te, carbonOxygen, nil), nil, opts)
	sys, ex2, err := NewSystem(cluster(), E.Set(), nil)
	require.NoError(Te, err)
	E.SetExchanger(ex2)
	_, err = E.Compute(context.Background(), sys)
	assert.True(Te, IsOverflow(err), "arena overflow: %v", err)

	sys.Types = sys.Types[:2]
	_, err = E.Compute(context.Background(), sys)
	assert.True(Te, IsConfigError(err))

	E = testEngine(Te, testSet(Te, carbonOxygen, nil), nil, nil)
	sys, ex2, _ = NewSystem(cluster(), E.Set(), nil)
	E.SetExchanger(ex2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = E.Compute(ctx, sys)
	assert.Error(Te, err)
}

func TestOwnership(Te *testing.T) {
	E := &Engine{sys: &System{Tags: []int{0, 1, 2, 3, 0}}}
	E.raw = []float64{0, 0, 0, 1, 0, 0, 2, 0, 0, 3, 0, 0, 0, 0, 5}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if i != j {
				assert.NotEqual(Te, E.owns(i, j), E.owns(j, i), "pair %d %d", i, j)
			}
		}
	}
	//an atom and its own image: the image above wins
	assert.True(Te, E.owns(0, 4))
	assert.False(Te, E.owns(4, 0))
}
