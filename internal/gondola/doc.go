// Package gondola simulates a wheel-shaped body riding a spline track under
// gravity.
//
// Speed is not integrated; each step derives it from the height drop since
// the start of the track (energy conservation with GRAVITY = 40). The body
// stays on the track while the radial force
//
//	F = curvature * speed^2 + Gravity * normal.y
//
// is non-negative. The lifecycle is
//
//	Idle --Start--> Running --Step--> Running | Fallen
//
// and Fallen is terminal. [Body.Cause] tells a lost-contact fall from
// running past the last knot; both are the same Fallen phase.
package gondola
