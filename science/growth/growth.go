/*
Copyright © 2019 the MACES authors.
This file is part of MACES.

MACES is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

MACES is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with MACES.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package growth provides shared numerical schemes for the vegetation
// growth and mortality rate equations of the accretion mechanisms.
package growth

// SemiImplicit advances dx/dt = a·x over one step of length dt using the
// trapezoidal (Crank–Nicolson) discretization
//
//	x(t+dt) = x(t) · (1 + 0.5·a·dt) / (1 − 0.5·a·dt)
//
// floored at zero. Unlike an explicit Euler step, this form stays
// non-negative and stable for stiff negative net rates even at large dt,
// so the result decays monotonically toward zero instead of oscillating
// or going negative. The rate a and step dt must share a time unit.
func SemiImplicit(x, a, dt float64) float64 {
	xNew := x * (1 + 0.5*a*dt) / (1 - 0.5*a*dt)
	if xNew < 0 {
		return 0
	}
	return xNew
}

// Logistic returns the net specific rate r·(1 − x/xmax) − m of logistic
// growth with maximum capacity xmax and mortality m.
func Logistic(x, r, m, xmax float64) float64 {
	return r*(1-x/xmax) - m
}
