// Package dynamo provides the primitives shared by the track and the riding
// body simulation.
//
//   - [Vec2]: world-space 2D vector with the arithmetic the curve and body
//     code needs
//   - sentinel errors for orchestration failures ([ErrTrackTooShort],
//     [ErrNoTangent], [ErrInvalidState], ...)
//   - [SinCos]: table-backed trig for renderers
//
// Physical outcomes such as the body falling off the track are not errors;
// they are lifecycle states of the body (see package gondola).
package dynamo
