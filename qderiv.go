/*
 * qderiv.go, part of gocomb.
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
	"time"

	"github.com/rmera/gocomb/comm"
	"github.com/sirupsen/logrus"
)

//ChargeDerivative returns the derivative of the energy with respect to the charge
//of each atom, owned atoms and ghosts, and the sum of the values of the owned
//atoms selected by sys.GroupMask (all of them if the mask is nil) over all ranks.
//The sum is what a charge equilibration step needs to find the chemical potential.
func (E *Engine) ChargeDerivative(ctx context.Context, sys *System) (float64, []float64, error) {
	start := time.Now()
	if err := E.prepare(ctx, sys); err != nil {
		return 0, nil, errDecorate(err, "ChargeDerivative")
	}
	if E.dipole {
		if err := E.dipoles(); err != nil {
			return 0, nil, errDecorate(err, "ChargeDerivative")
		}
	}
	var c Components
	nl := sys.NLocal
	for i := 0; i < nl; i++ {
		E.selfEnergy(i)
		E.longRange(i, false, &c)
		if err := E.bondPairs(i, false, &c); err != nil {
			return 0, nil, errDecorate(err, "ChargeDerivative")
		}
	}
	if err := E.ex.Reverse(E, comm.ChargeForce); err != nil {
		return 0, nil, errDecorate(err, "ChargeDerivative")
	}
	if err := E.ex.Forward(E, comm.ChargeForce); err != nil {
		return 0, nil, errDecorate(err, "ChargeDerivative")
	}
	var local float64
	for i := 0; i < nl; i++ {
		if sys.GroupMask == nil || sys.GroupMask[i] {
			local += E.scr.qforce[i]
		}
	}
	sum, err := E.ex.AllReduceSum(local)
	if err != nil {
		return 0, nil, errDecorate(err, "ChargeDerivative")
	}
	ret := make([]float64, sys.Len())
	copy(ret, E.scr.qforce)
	E.log.WithFields(logrus.Fields{"atoms": nl, "sum": sum, "elapsed": time.Since(start)}).Debug("comb: charge derivative call")
	return sum, ret, nil
}
