// Package viz is the terminal front end: a braille canvas and a Bubble Tea
// editor for building a track with the mouse and watching the body ride it.
//
//   - [App]: track picker that opens the editor
//   - [Model]: the editor
//   - [Canvas]: braille pixel canvas, 2x4 sub-pixels per cell
//
// # Key Bindings
//
//	Click - Add a control point
//	Space - Start the ride
//	R     - Put the body back at the start
//	C     - Start a new empty track
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
