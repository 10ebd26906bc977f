/*
 * doc.go, part of gocomb.
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

/*Package comb implements a many-body bond-order potential with charge equilibration
support, of the COMB3 family. Given positions, element types, partial charges and a
full neighbor relation, an Engine computes the potential energy and the forces on
every atom, and, separately, the derivative of the energy with respect to each
charge, which an external charge-equilibration solver uses.


	**Energy terms**

    Self energy of each charge, a polynomial in the charge with a quartic penalty
	outside an allowed window.

    Screened Coulomb interactions between Slater 1s charge densities (Wolf summation),
	with the curl correction of hydrogen-like atoms, a damped field term and a shifted
	van der Waals interaction, all table-driven (see the table package).

    A three-body bond order scaling the attractive part of a charge-dependent
	pair potential, with an angular function blended by the local coordination,
	and a repulsion widened near the cutoff.

    Coordination, radical and torsion corrections to the bond order, read from
	tricubic spline grids (see the spline package) or from closed forms, and the
	lone pair and bond bending energy of the angles around each bond.

    A one-shot induced dipole estimate, from the charges and the dipoles of the
	previous call.

Parameters are read with the param package and the shared library with spline.
The engine talks to its host only through the collaborators of the comm package,
so it can run on one rank of a domain decomposition. comm.Serial provides a
single-rank implementation for periodic systems.

*/
package comb
