// Package viz renders locomotion runs in the terminal.
//
//   - [Plot]: asciigraph charts of a recorded trace
//   - [Summary]: lipgloss panel of run metrics
//   - [Model]: Bubble Tea side view driven from the keyboard
//
// # Key Bindings
//
//	A/D   - Move left/right
//	W/S   - Move along the depth axis
//	Space - Jump
//	P     - Pause/Resume
//	Q     - Quit
package viz
